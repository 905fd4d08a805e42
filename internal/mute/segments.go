package mute

import (
	"fmt"
	"sort"

	"hushcut/internal/detect"
	"hushcut/internal/timeline"
)

// Segment is one finalized mute interval.
type Segment struct {
	Start      float64         `json:"start"`
	End        float64         `json:"end"`
	Confidence float64         `json:"confidence"`
	Terms      []string        `json:"terms,omitempty"`
	Methods    []detect.Method `json:"methods,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

func (s Segment) String() string {
	return fmt.Sprintf("%.1fs-%.1fs %v", s.Start, s.End, s.Terms)
}

// Candidate is an unpadded interval attributed to its originating window.
type Candidate struct {
	Window     timeline.Window
	Start      float64
	End        float64
	Confidence float64
	Terms      []string
	Methods    []detect.Method
}

// WholeWindow builds a candidate muting the entire window of a fused decision.
func WholeWindow(fused detect.Fused) Candidate {
	return Candidate{
		Window:     fused.Window,
		Start:      fused.Window.Start,
		End:        fused.Window.End,
		Confidence: fused.Confidence,
		Terms:      fused.Terms,
		Methods:    fused.Methods,
	}
}

// Builder accumulates candidates across all windows of a run and finalizes
// the sorted segment list.
type Builder struct {
	Padding       float64
	TotalDuration float64

	candidates []Candidate
}

// NewBuilder returns a builder for one pipeline run. Padding must not be
// negative; TotalDuration bounds the final clip.
func NewBuilder(padding, totalDuration float64) *Builder {
	if padding < 0 {
		padding = 0
	}
	return &Builder{Padding: padding, TotalDuration: totalDuration}
}

// Add records one candidate interval.
func (b *Builder) Add(candidate Candidate) {
	b.candidates = append(b.candidates, candidate)
}

// Finalize pads, clips, and sorts every accumulated candidate. Each candidate
// is expanded by the padding on both sides, clipped to its window bounds so
// padding cannot mute unrelated adjacent content, then clipped to
// [0, TotalDuration]. The result is sorted by start time; overlapping
// segments from different windows are intentionally not merged.
func (b *Builder) Finalize() []Segment {
	segments := make([]Segment, 0, len(b.candidates))
	for _, candidate := range b.candidates {
		start := candidate.Start - b.Padding
		end := candidate.End + b.Padding

		if start < candidate.Window.Start {
			start = candidate.Window.Start
		}
		if end > candidate.Window.End {
			end = candidate.Window.End
		}

		// Whole-window candidates pad to the window itself; skip empties
		// that can arise from degenerate inputs.
		if start < 0 {
			start = 0
		}
		if b.TotalDuration > 0 && end > b.TotalDuration {
			end = b.TotalDuration
		}
		if end <= start {
			continue
		}

		segments = append(segments, Segment{
			Start:      start,
			End:        end,
			Confidence: candidate.Confidence,
			Terms:      candidate.Terms,
			Methods:    candidate.Methods,
		})
	}

	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Start != segments[j].Start {
			return segments[i].Start < segments[j].Start
		}
		return segments[i].End < segments[j].End
	})
	return segments
}
