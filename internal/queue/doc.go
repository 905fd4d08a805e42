// Package queue persists muting jobs in SQLite.
//
// Each job tracks one source file through the pipeline: pending → detecting →
// detected → rendering → completed, with failed and review as terminal error
// states. The finalized mute segments are stored as JSON on the job so the
// render stage and the CLI can read them back. The segment list is rebuilt
// from scratch on every detection run; nothing in the store feeds back into
// detection.
package queue
