package detect

import (
	"strings"

	"hushcut/internal/timeline"
)

// Span is an absolute time interval inside one window.
type Span struct {
	Start float64
	End   float64
}

// EstimateWordDuration estimates how long a term takes to speak from its
// rune length. A coarse articulation proxy, not acoustic alignment.
func EstimateWordDuration(term string) float64 {
	switch length := len([]rune(term)); {
	case length <= 2:
		return 0.6
	case length <= 4:
		return 1.2
	default:
		return 1.8
	}
}

// LocateTerm estimates the absolute sub-intervals of the window during which
// the term was likely spoken. Each occurrence's rune offset in the transcript
// maps linearly onto the window duration; the interval length comes from
// EstimateWordDuration, clipped to the window end. The search cursor advances
// one rune past each match start so overlapping occurrences are also caught.
//
// Deterministic for the same (text, term, window) triple; every returned span
// lies within the window bounds.
func LocateTerm(text, term string, window timeline.Window) []Span {
	if text == "" || term == "" {
		return nil
	}

	textRunes := []rune(strings.ToLower(text))
	termRunes := []rune(strings.ToLower(term))
	total := len(textRunes)
	if total == 0 || len(termRunes) == 0 || len(termRunes) > total {
		return nil
	}

	duration := window.Duration()
	wordDuration := EstimateWordDuration(term)

	var spans []Span
	for cursor := 0; ; {
		offset := indexRunes(textRunes, termRunes, cursor)
		if offset < 0 {
			break
		}
		relativeStart := float64(offset) / float64(total) * duration
		relativeEnd := relativeStart + wordDuration
		if relativeEnd > duration {
			relativeEnd = duration
		}
		spans = append(spans, Span{
			Start: window.Start + relativeStart,
			End:   window.Start + relativeEnd,
		})
		cursor = offset + 1
	}
	return spans
}

func indexRunes(haystack, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
