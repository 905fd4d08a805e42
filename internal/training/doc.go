// Package training prepares labeled audio samples for the adaptive
// classifier. A session slices a source file into short clips, transcribes
// each one, and writes an annotations file with rule-based label suggestions
// for the operator to confirm. Confirmed annotations feed a full-batch
// training run.
package training
