package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/skypro1111/batch-transcription-service/internal/audio"
)

const (
	userAgent = "batch-transcription-service/1.0"

	// maxErrorBodyBytes bounds how much of an error response is carried in
	// APIError for logging.
	maxErrorBodyBytes = 512
)

// ErrMissingTranscript is returned when a success response does not carry a
// transcript field.
var ErrMissingTranscript = errors.New("response has no transcript field")

// Config contains transcription client configuration
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Request bundles the fixed transcription parameters shared read-only across
// all chunk uploads within one run.
type Request struct {
	LanguageCode   string
	Model          string
	WithTimestamps bool
}

// Result is the outcome of one chunk upload, stored at the chunk's ordinal.
// A silent chunk that transcribed to nothing has empty Text and nil Err; a
// failed upload carries the failure in Err.
type Result struct {
	Index int
	Text  string
	Err   error
}

// Failed reports whether the upload for this chunk failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Contribution returns the text this result adds to the collated transcript.
// Failures contribute an empty string, preserving index alignment.
func (r Result) Contribution() string {
	if r.Err != nil {
		return ""
	}
	return r.Text
}

// APIError describes a non-success HTTP response from the transcription API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error %d: %s", e.StatusCode, e.Body)
}

// transcriptResponse mirrors the success payload of the speech-to-text API.
// Transcript is a pointer so a missing field is distinguishable from the
// empty transcript of a silent segment.
type transcriptResponse struct {
	Transcript *string `json:"transcript"`
}

// Client performs synchronous chunk uploads to the speech-to-text endpoint.
// One request is issued per chunk; no retry is performed.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new transcription HTTP client
func NewClient(config Config) (*Client, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("endpoint cannot be empty")
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}

	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	httpClient := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// TranscribeChunk encodes the chunk to WAV in memory, performs one POST to
// the transcription endpoint, and returns the transcript text from the JSON
// response.
func (c *Client) TranscribeChunk(ctx context.Context, chunk audio.Chunk, request Request) (string, error) {
	wavData, err := audio.EncodeWAV(chunk.Samples, chunk.SampleRate)
	if err != nil {
		return "", fmt.Errorf("failed to encode chunk %d: %w", chunk.Index, err)
	}

	body, contentType, err := createMultipartBody(wavData, request)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("api-subscription-key", c.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Body:       truncate(respBody, maxErrorBodyBytes),
		}
	}

	var parsed transcriptResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response JSON: %w", err)
	}

	if parsed.Transcript == nil {
		return "", ErrMissingTranscript
	}

	return *parsed.Transcript, nil
}

// createMultipartBody builds the multipart/form-data payload: the WAV bytes
// as a file part plus the transcription parameters as form fields.
func createMultipartBody(wavData []byte, request Request) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	// The file part needs an explicit audio/wav content type; CreateFormFile
	// would label it application/octet-stream.
	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="audio.wav"`)
	partHeader.Set("Content-Type", "audio/wav")

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(wavData); err != nil {
		return nil, "", fmt.Errorf("failed to write audio data: %w", err)
	}

	fields := map[string]string{
		"language_code":   request.LanguageCode,
		"model":           request.Model,
		"with_timestamps": strconv.FormatBool(request.WithTimestamps),
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
