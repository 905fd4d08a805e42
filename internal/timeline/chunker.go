package timeline

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks window plans that cannot be built from the given
// parameters. It is the only failure the chunker produces.
var ErrInvalidConfig = errors.New("invalid window configuration")

// Window is one bounded interval of the source timeline. Start and End are
// absolute seconds; End is always strictly greater than Start. Index is the
// window's position in the plan and identifies the window's result slot
// during concurrent processing.
type Window struct {
	Index  int
	Start  float64
	End    float64
	Source string
}

// Duration returns the window length in seconds.
func (w Window) Duration() float64 {
	return w.End - w.Start
}

func (w Window) String() string {
	return fmt.Sprintf("[%.1fs-%.1fs)", w.Start, w.End)
}

// Plan produces disjoint fixed-size windows covering [0, totalDuration).
// The last window may be shorter than windowDuration.
func Plan(totalDuration, windowDuration float64, source string) ([]Window, error) {
	if totalDuration < 0 {
		return nil, fmt.Errorf("%w: total duration %v is negative", ErrInvalidConfig, totalDuration)
	}
	if windowDuration <= 0 {
		return nil, fmt.Errorf("%w: window duration %v must be positive", ErrInvalidConfig, windowDuration)
	}

	var windows []Window
	for start := 0.0; start < totalDuration; start += windowDuration {
		end := start + windowDuration
		if end > totalDuration {
			end = totalDuration
		}
		windows = append(windows, Window{Index: len(windows), Start: start, End: end, Source: source})
	}
	return windows, nil
}

// PlanOverlap produces overlapping windows covering [0, totalDuration).
// Consecutive windows share overlapDuration seconds; starts advance by
// windowDuration - overlapDuration. A step of zero or less is rejected.
func PlanOverlap(totalDuration, windowDuration, overlapDuration float64, source string) ([]Window, error) {
	if totalDuration < 0 {
		return nil, fmt.Errorf("%w: total duration %v is negative", ErrInvalidConfig, totalDuration)
	}
	if windowDuration <= 0 {
		return nil, fmt.Errorf("%w: window duration %v must be positive", ErrInvalidConfig, windowDuration)
	}
	if overlapDuration < 0 {
		return nil, fmt.Errorf("%w: overlap duration %v is negative", ErrInvalidConfig, overlapDuration)
	}
	step := windowDuration - overlapDuration
	if step <= 0 {
		return nil, fmt.Errorf("%w: overlap %v must be smaller than window duration %v",
			ErrInvalidConfig, overlapDuration, windowDuration)
	}

	var windows []Window
	for start := 0.0; start < totalDuration; start += step {
		end := start + windowDuration
		if end > totalDuration {
			end = totalDuration
		}
		windows = append(windows, Window{Index: len(windows), Start: start, End: end, Source: source})
	}
	return windows, nil
}
