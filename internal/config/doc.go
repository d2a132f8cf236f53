// Package config loads and validates the service configuration from a YAML
// file. The transcription API key is never stored in the file; only the name
// of the environment variable holding it is configured here.
package config
