package audio

import (
	"testing"
	"time"
)

// makeBuffer creates a buffer of the given duration filled with a ramp so
// that sample positions are distinguishable across chunk boundaries.
func makeBuffer(t *testing.T, duration time.Duration, sampleRate int) *Buffer {
	t.Helper()

	numSamples := int(int64(duration) * int64(sampleRate) / int64(time.Second))
	samples := make([]int16, numSamples)
	for i := range samples {
		samples[i] = int16(i % 32768)
	}

	buf, err := NewBuffer(samples, sampleRate)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	return buf
}

func TestSplitChunkCounts(t *testing.T) {
	tests := []struct {
		name          string
		duration      time.Duration
		chunkDuration time.Duration
		wantChunks    int
		wantLast      time.Duration
	}{
		{
			name:          "exact division",
			duration:      10 * time.Minute,
			chunkDuration: 5 * time.Minute,
			wantChunks:    2,
			wantLast:      5 * time.Minute,
		},
		{
			name:          "short tail",
			duration:      12 * time.Minute,
			chunkDuration: 5 * time.Minute,
			wantChunks:    3,
			wantLast:      2 * time.Minute,
		},
		{
			name:          "single chunk when duration exceeds buffer",
			duration:      3 * time.Minute,
			chunkDuration: 5 * time.Minute,
			wantChunks:    1,
			wantLast:      3 * time.Minute,
		},
		{
			name:          "chunk equals buffer",
			duration:      5 * time.Minute,
			chunkDuration: 5 * time.Minute,
			wantChunks:    1,
			wantLast:      5 * time.Minute,
		},
		{
			name:          "one sample over",
			duration:      5*time.Minute + 10*time.Millisecond,
			chunkDuration: 5 * time.Minute,
			wantChunks:    2,
			wantLast:      10 * time.Millisecond,
		},
	}

	sampleRate := 100 // Keeps test buffers small while durations stay exact

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := makeBuffer(t, tt.duration, sampleRate)

			chunks, err := Split(buf, tt.chunkDuration)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}

			if len(chunks) != tt.wantChunks {
				t.Fatalf("Expected %d chunks, got %d", tt.wantChunks, len(chunks))
			}

			for i, chunk := range chunks {
				if chunk.Index != i {
					t.Errorf("Chunk %d has index %d", i, chunk.Index)
				}

				want := tt.chunkDuration
				if i == len(chunks)-1 {
					want = tt.wantLast
				}
				if chunk.Duration() != want {
					t.Errorf("Chunk %d: expected duration %v, got %v", i, want, chunk.Duration())
				}

				wantStart := time.Duration(i) * tt.chunkDuration
				if chunk.Start != wantStart {
					t.Errorf("Chunk %d: expected start %v, got %v", i, wantStart, chunk.Start)
				}
			}
		})
	}
}

func TestSplitCoversBufferWithoutOverlap(t *testing.T) {
	sampleRate := 100
	buf := makeBuffer(t, 7*time.Second, sampleRate)

	chunks, err := Split(buf, 3*time.Second)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	total := 0
	for i, chunk := range chunks {
		// Chunk samples must be a view into the original buffer, aligned
		// directly after the previous chunk.
		if &chunk.Samples[0] != &buf.Samples[total] {
			t.Errorf("Chunk %d does not start at sample offset %d", i, total)
		}
		total += len(chunk.Samples)
	}

	if total != buf.NumSamples() {
		t.Errorf("Chunks cover %d samples, buffer has %d", total, buf.NumSamples())
	}
}

func TestSplitEmptyBuffer(t *testing.T) {
	buf, err := NewBuffer(nil, 8000)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}

	chunks, err := Split(buf, 5*time.Minute)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(chunks) != 0 {
		t.Errorf("Expected zero chunks for empty buffer, got %d", len(chunks))
	}
}

func TestSplitInvalidInputs(t *testing.T) {
	buf := makeBuffer(t, time.Minute, 8000)

	if _, err := Split(nil, time.Second); err == nil {
		t.Error("Expected error for nil buffer")
	}

	if _, err := Split(buf, 0); err == nil {
		t.Error("Expected error for zero chunk duration")
	}

	if _, err := Split(buf, -time.Second); err == nil {
		t.Error("Expected error for negative chunk duration")
	}

	// Shorter than one sample period at 8kHz (125us).
	if _, err := Split(buf, 100*time.Microsecond); err == nil {
		t.Error("Expected error for sub-sample chunk duration")
	}
}
