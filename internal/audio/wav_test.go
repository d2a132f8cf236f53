package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

// sineSamples generates a 440Hz tone of the given duration.
func sineSamples(sampleRate int, seconds float64) []int16 {
	numSamples := int(float64(sampleRate) * seconds)
	samples := make([]int16, numSamples)
	for i := range samples {
		ts := float64(i) / float64(sampleRate)
		samples[i] = int16(16383.0 * math.Sin(2*math.Pi*440.0*ts))
	}
	return samples
}

func TestEncodeWAV(t *testing.T) {
	sampleRate := 8000
	samples := sineSamples(sampleRate, 0.1)

	wavData, err := EncodeWAV(samples, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	expectedSize := 44 + len(samples)*2
	if len(wavData) != expectedSize {
		t.Errorf("Expected WAV size %d, got %d", expectedSize, len(wavData))
	}

	if string(wavData[0:4]) != "RIFF" {
		t.Error("Missing RIFF magic")
	}
	if string(wavData[8:12]) != "WAVE" {
		t.Error("Missing WAVE format")
	}

	gotRate := binary.LittleEndian.Uint32(wavData[24:28])
	if gotRate != uint32(sampleRate) {
		t.Errorf("Expected sample rate %d in header, got %d", sampleRate, gotRate)
	}
}

func TestEncodeWAVInvalidInputs(t *testing.T) {
	if _, err := EncodeWAV(nil, 8000); err == nil {
		t.Error("Expected error for empty samples")
	}

	if _, err := EncodeWAV([]int16{1, 2, 3}, 0); err == nil {
		t.Error("Expected error for zero sample rate")
	}
}

func TestDecodeWAVRoundTrip(t *testing.T) {
	original := []int16{100, -200, 300, -400, 500}
	sampleRate := 16000

	wavData, err := EncodeWAV(original, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	decoded, gotRate, err := DecodeWAV(wavData)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}

	if gotRate != sampleRate {
		t.Errorf("Expected sample rate %d, got %d", sampleRate, gotRate)
	}

	if len(decoded) != len(original) {
		t.Fatalf("Expected %d samples, got %d", len(original), len(decoded))
	}

	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, original[i], decoded[i])
		}
	}
}

// TestDecodeWAVWithMetadataChunk verifies the decoder walks past non-data
// subchunks, as produced by common recording tools.
func TestDecodeWAVWithMetadataChunk(t *testing.T) {
	samples := []int16{10, 20, 30, 40}
	wavData, err := EncodeWAV(samples, 8000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	// Splice a LIST chunk between "fmt " and "data" (both start at fixed
	// offsets in the canonical encoding: fmt ends at 36, data at 36).
	listChunk := []byte{'L', 'I', 'S', 'T', 5, 0, 0, 0, 'I', 'N', 'F', 'O', 'x', 0} // odd size + pad
	spliced := make([]byte, 0, len(wavData)+len(listChunk))
	spliced = append(spliced, wavData[:36]...)
	spliced = append(spliced, listChunk...)
	spliced = append(spliced, wavData[36:]...)
	// Fix the RIFF size field.
	binary.LittleEndian.PutUint32(spliced[4:8], uint32(len(spliced)-8))

	decoded, gotRate, err := DecodeWAV(spliced)
	if err != nil {
		t.Fatalf("DecodeWAV failed on file with LIST chunk: %v", err)
	}

	if gotRate != 8000 {
		t.Errorf("Expected sample rate 8000, got %d", gotRate)
	}

	if len(decoded) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(decoded))
	}

	for i := range samples {
		if decoded[i] != samples[i] {
			t.Errorf("Sample %d: expected %d, got %d", i, samples[i], decoded[i])
		}
	}
}

func TestDecodeWAVErrors(t *testing.T) {
	valid, err := EncodeWAV([]int16{1, 2, 3, 4}, 8000)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte("RIFF")},
		{"missing RIFF magic", append([]byte("JUNK"), valid[4:]...)},
		{"missing WAVE format", func() []byte {
			d := append([]byte(nil), valid...)
			copy(d[8:12], "XXXX")
			return d
		}()},
		{"stereo unsupported", func() []byte {
			d := append([]byte(nil), valid...)
			binary.LittleEndian.PutUint16(d[22:24], 2)
			return d
		}()},
		{"8-bit unsupported", func() []byte {
			d := append([]byte(nil), valid...)
			binary.LittleEndian.PutUint16(d[34:36], 8)
			return d
		}()},
		{"non-PCM unsupported", func() []byte {
			d := append([]byte(nil), valid...)
			binary.LittleEndian.PutUint16(d[20:22], 3)
			return d
		}()},
		{"header only, no data chunk", valid[:36]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeWAV(tt.data); err == nil {
				t.Error("Expected decode error, got nil")
			}
		})
	}
}
