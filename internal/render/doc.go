// Package render writes the cleaned output file. Muting happens inside
// ffmpeg: each segment becomes a volume=0 filter over its time range, the
// video stream is copied untouched, and the audio is re-encoded. With no
// segments the source is stream-copied as-is.
package render
