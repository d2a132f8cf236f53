package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the batch transcription service
type Metrics struct {
	// Chunking metrics
	ChunksGenerated prometheus.Counter
	ChunkDuration   prometheus.Histogram

	// Upload metrics
	TranscriptionRequests  prometheus.Counter
	TranscriptionSuccesses prometheus.Counter
	TranscriptionFailures  prometheus.Counter
	TranscriptionDuration  prometheus.Histogram

	// Run metrics
	RunsCompleted  prometheus.Counter
	ReportsWritten prometheus.Counter

	// Monitor HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ChunksGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_chunks_generated_total",
			Help: "Total number of audio chunks produced by the splitter",
		}),
		ChunkDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_chunk_duration_seconds",
			Help:    "Duration of generated audio chunks",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68 minutes
		}),

		TranscriptionRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_upload_requests_total",
			Help: "Total number of chunk upload requests sent",
		}),
		TranscriptionSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_upload_successes_total",
			Help: "Total number of successful chunk uploads",
		}),
		TranscriptionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_upload_failures_total",
			Help: "Total number of failed chunk uploads",
		}),
		TranscriptionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "transcriber_upload_duration_seconds",
			Help:    "Duration of chunk upload requests",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),

		RunsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_runs_completed_total",
			Help: "Total number of completed transcription runs",
		}),
		ReportsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "transcriber_reports_written_total",
			Help: "Total number of CSV reports written",
		}),

		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transcriber_http_requests_total",
			Help: "Total number of monitor HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transcriber_http_request_duration_seconds",
			Help:    "Duration of monitor HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordChunkGenerated records a produced audio chunk
func (m *Metrics) RecordChunkGenerated(durationSeconds float64) {
	m.ChunksGenerated.Inc()
	m.ChunkDuration.Observe(durationSeconds)
}

// RecordUploadSuccess records a successful chunk upload
func (m *Metrics) RecordUploadSuccess(durationSeconds float64) {
	m.TranscriptionRequests.Inc()
	m.TranscriptionSuccesses.Inc()
	m.TranscriptionDuration.Observe(durationSeconds)
}

// RecordUploadFailure records a failed chunk upload
func (m *Metrics) RecordUploadFailure(durationSeconds float64) {
	m.TranscriptionRequests.Inc()
	m.TranscriptionFailures.Inc()
	m.TranscriptionDuration.Observe(durationSeconds)
}

// RecordRunCompleted increments the completed runs counter
func (m *Metrics) RecordRunCompleted() {
	m.RunsCompleted.Inc()
}

// RecordReportWritten increments the written reports counter
func (m *Metrics) RecordReportWritten() {
	m.ReportsWritten.Inc()
}

// RecordHTTPRequest records a monitor HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
