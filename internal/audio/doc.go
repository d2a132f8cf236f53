// Package audio handles waveform loading, fixed-duration chunking, and WAV
// format conversion. It decodes PCM-16 mono recordings into in-memory buffers,
// slices them into upload-sized chunks, and encodes chunk payloads back to WAV
// for transcription requests.
package audio
