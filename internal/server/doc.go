// Package server provides the optional monitoring HTTP server: health,
// run progress, sanitized configuration and Prometheus metrics.
package server
