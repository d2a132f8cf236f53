// Package transcription implements the HTTP client for the remote
// speech-to-text API. Each audio chunk is encoded to WAV in memory and
// uploaded in a single synchronous multipart request; failures are reported
// as typed errors and never abort the surrounding run.
package transcription
