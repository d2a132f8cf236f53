package audio

import (
	"fmt"
	"os"
	"time"
)

// Buffer holds a fully decoded waveform: PCM-16 mono samples at a fixed
// sample rate. A Buffer is immutable once created; chunking produces views
// into its sample slice without copying.
type Buffer struct {
	Samples    []int16
	SampleRate int
}

// NewBuffer creates a buffer from decoded samples.
func NewBuffer(samples []int16, sampleRate int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	return &Buffer{Samples: samples, SampleRate: sampleRate}, nil
}

// NumSamples returns the number of PCM samples in the buffer.
func (b *Buffer) NumSamples() int {
	return len(b.Samples)
}

// Duration returns the playback duration of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// LoadWAVFile reads a WAV file from disk and decodes it into a Buffer.
func LoadWAVFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}

	samples, sampleRate, err := DecodeWAV(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return NewBuffer(samples, sampleRate)
}
