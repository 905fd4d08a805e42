// Package mute turns per-window detection candidates into the final list of
// mute intervals handed to the rendering tool.
//
// Candidates are padded, clipped to their originating window so padding never
// bleeds into unrelated adjacent windows, clipped to the full timeline, and
// sorted chronologically. Overlapping intervals across windows are emitted
// as-is; re-muting already muted time is idempotent for the renderer.
package mute
