package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/skypro1111/batch-transcription-service/internal/audio"
	"github.com/skypro1111/batch-transcription-service/internal/metrics"
	"github.com/skypro1111/batch-transcription-service/internal/transcription"
)

// Transcriber uploads one chunk and returns its transcript text.
type Transcriber interface {
	TranscribeChunk(ctx context.Context, chunk audio.Chunk, request transcription.Request) (string, error)
}

// Progress is a point-in-time snapshot of a run, served by the monitor API.
type Progress struct {
	Running         bool      `json:"running"`
	TotalChunks     int       `json:"total_chunks"`
	ProcessedChunks int       `json:"processed_chunks"`
	FailedChunks    int       `json:"failed_chunks"`
	StartedAt       time.Time `json:"started_at"`
}

// RunReport is the final outcome of one run. It is written once and never
// mutated afterwards.
type RunReport struct {
	Transcript   string
	GeneratedAt  time.Time
	SourcePath   string
	ChunkCount   int
	FailedChunks int
	Results      []transcription.Result
}

// Pipeline drives the load, split, upload, collate sequence. Uploads are
// fully synchronous: each chunk blocks the run until its response or failure
// is received.
type Pipeline struct {
	transcriber   Transcriber
	request       transcription.Request
	chunkDuration time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics

	mu       sync.RWMutex
	progress Progress
}

// New creates a pipeline. metrics may be nil when instrumentation is not
// wanted (tests).
func New(transcriber Transcriber, request transcription.Request, chunkDuration time.Duration,
	logger *slog.Logger, m *metrics.Metrics) *Pipeline {

	return &Pipeline{
		transcriber:   transcriber,
		request:       request,
		chunkDuration: chunkDuration,
		logger:        logger,
		metrics:       m,
	}
}

// Run loads the recording at path and transcribes it.
func (p *Pipeline) Run(ctx context.Context, path string) (*RunReport, error) {
	buf, err := audio.LoadWAVFile(path)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Audio loaded",
		slog.String("path", path),
		slog.Int("sample_rate", buf.SampleRate),
		slog.Duration("duration", buf.Duration()),
	)

	report, err := p.RunBuffer(ctx, buf)
	if err != nil {
		return nil, err
	}

	report.SourcePath = path
	return report, nil
}

// RunBuffer transcribes an already decoded buffer. Chunks are processed
// strictly in ordinal order; per-chunk failures are logged and converted to
// empty contributions.
func (p *Pipeline) RunBuffer(ctx context.Context, buf *audio.Buffer) (*RunReport, error) {
	chunks, err := audio.Split(buf, p.chunkDuration)
	if err != nil {
		return nil, err
	}

	p.startRun(len(chunks))
	defer p.finishRun()

	p.logger.Info("Audio split into chunks",
		slog.Int("chunks", len(chunks)),
		slog.Duration("chunk_duration", p.chunkDuration),
	)

	// Results live in index-addressed slots so collation order never depends
	// on completion order.
	results := make([]transcription.Result, len(chunks))

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if p.metrics != nil {
			p.metrics.RecordChunkGenerated(chunk.Duration().Seconds())
		}

		start := time.Now()
		text, err := p.transcriber.TranscribeChunk(ctx, chunk, p.request)
		elapsed := time.Since(start)

		results[chunk.Index] = transcription.Result{Index: chunk.Index, Text: text, Err: err}

		if err != nil {
			p.logger.Error("Chunk transcription failed",
				slog.Int("chunk", chunk.Index),
				slog.Duration("chunk_start", chunk.Start),
				slog.String("error", err.Error()),
			)
			p.recordResult(true)
			if p.metrics != nil {
				p.metrics.RecordUploadFailure(elapsed.Seconds())
			}
			continue
		}

		p.logger.Info("Chunk transcribed",
			slog.Int("chunk", chunk.Index),
			slog.Duration("chunk_start", chunk.Start),
			slog.Duration("elapsed", elapsed),
			slog.Int("chars", len(text)),
		)
		p.recordResult(false)
		if p.metrics != nil {
			p.metrics.RecordUploadSuccess(elapsed.Seconds())
		}
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}

	if p.metrics != nil {
		p.metrics.RecordRunCompleted()
	}

	return &RunReport{
		Transcript:   Collate(results),
		GeneratedAt:  time.Now(),
		ChunkCount:   len(chunks),
		FailedChunks: failed,
		Results:      results,
	}, nil
}

// Collate joins per-chunk contributions in ordinal order with single-space
// separators and trims the ends. The join is pure: the same results always
// produce the same string, regardless of the order the slice is presented in.
func Collate(results []transcription.Result) string {
	parts := make([]string, len(results))
	for _, r := range results {
		if r.Index >= 0 && r.Index < len(parts) {
			parts[r.Index] = r.Contribution()
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Progress returns a snapshot of the current run
func (p *Pipeline) Progress() Progress {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.progress
}

func (p *Pipeline) startRun(totalChunks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = Progress{
		Running:     true,
		TotalChunks: totalChunks,
		StartedAt:   time.Now(),
	}
}

func (p *Pipeline) recordResult(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress.ProcessedChunks++
	if failed {
		p.progress.FailedChunks++
	}
}

func (p *Pipeline) finishRun() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress.Running = false
}
