// Package pipeline orchestrates a transcription run: load the recording,
// split it into fixed-duration chunks, upload each chunk strictly in ordinal
// order, and collate the per-chunk transcripts into one string. A chunk's
// failure contributes an empty string at its position and never aborts the
// run.
package pipeline
