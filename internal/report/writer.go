package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrEmptyTranscript is returned when the collated transcript is empty or
// whitespace-only. No file is written in that case.
var ErrEmptyTranscript = errors.New("transcript is empty, nothing to write")

const (
	fileTimestampLayout = "20060102_150405"
	transcriptHeader    = "collated_transcript"
)

// Writer writes transcription reports into a fixed output directory.
type Writer struct {
	dir string
}

// NewWriter creates a report writer for the given directory. The directory
// is created lazily on the first write.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	return &Writer{dir: dir}, nil
}

// Write stores the transcript as transcription_<timestamp>.csv with a single
// header column and one data row. It returns the path of the written file.
func (w *Writer) Write(transcript string, generatedAt time.Time) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("transcription_%s.csv", generatedAt.Format(fileTimestampLayout))
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	cw := csv.NewWriter(f)
	cw.Write([]string{transcriptHeader})
	cw.Write([]string{transcript})
	cw.Flush()

	if err := cw.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}

	return path, nil
}
