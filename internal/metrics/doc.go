// Package metrics defines the Prometheus instrumentation for the batch
// transcription service: chunking, upload outcomes, and the monitor HTTP
// endpoints.
package metrics
