// Package media wraps the ffmpeg/ffprobe invocations the pipeline needs:
// probing the source timeline duration and extracting waveform audio, both
// for the full timeline and for individual windows.
package media
