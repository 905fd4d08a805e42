// Package pipeline runs the full detection flow for one source file: probe
// the timeline, plan windows, and for every window extract audio, transcribe,
// run the lexical/fuzzy/adaptive detectors, and fuse the hits. Fused
// decisions become mute candidates (whole-window or per-term precise spans)
// that the segment builder pads, clips, and sorts into the final list.
//
// Windows are processed by a bounded worker pool. They share no mutable state
// beyond the read-only term catalog and classifier handle, and every worker
// writes into its own result slot indexed by window index, so attribution
// stays correct regardless of completion order. A collaborator failure for
// one window degrades that window to "no hits"; only invalid configuration
// aborts a run.
package pipeline
