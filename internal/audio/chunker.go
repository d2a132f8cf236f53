package audio

import (
	"fmt"
	"time"
)

// Chunk is a contiguous sub-range of a Buffer produced by Split. Chunks never
// overlap, cover the source buffer end-to-end, and are ordered by Index
// (0-based, insertion order equals temporal order). A chunk borrows the
// buffer's sample slice; it owns no audio data of its own.
type Chunk struct {
	Index      int
	Samples    []int16
	SampleRate int
	Start      time.Duration
}

// Duration returns the playback duration of the chunk.
func (c Chunk) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// String returns a compact description for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk %d: %s+%s", c.Index, c.Start, c.Duration())
}

// Split slices the buffer into consecutive fixed-duration chunks with no
// overlap and no gaps. All chunks but the last have exactly chunkDuration;
// the final chunk is truncated at the buffer end. A chunk duration greater
// than or equal to the buffer duration yields exactly one chunk. A chunk
// duration that is not positive, or shorter than one sample period, is
// rejected. An empty buffer yields zero chunks.
func Split(buf *Buffer, chunkDuration time.Duration) ([]Chunk, error) {
	if buf == nil {
		return nil, fmt.Errorf("buffer cannot be nil")
	}

	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", buf.SampleRate)
	}

	if chunkDuration <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %v", chunkDuration)
	}

	samplesPerChunk := int(int64(chunkDuration) * int64(buf.SampleRate) / int64(time.Second))
	if samplesPerChunk < 1 {
		return nil, fmt.Errorf("chunk duration %v is shorter than one sample period at %d Hz",
			chunkDuration, buf.SampleRate)
	}

	total := len(buf.Samples)
	if total == 0 {
		return nil, nil
	}

	numChunks := (total + samplesPerChunk - 1) / samplesPerChunk
	chunks := make([]Chunk, 0, numChunks)

	for i := 0; i < numChunks; i++ {
		start := i * samplesPerChunk
		end := min(start+samplesPerChunk, total)

		chunks = append(chunks, Chunk{
			Index:      i,
			Samples:    buf.Samples[start:end],
			SampleRate: buf.SampleRate,
			Start:      time.Duration(start) * time.Second / time.Duration(buf.SampleRate),
		})
	}

	return chunks, nil
}
