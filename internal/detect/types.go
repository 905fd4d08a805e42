package detect

import (
	"sort"

	"hushcut/internal/timeline"
)

// Method identifies one of the detection methods feeding fusion.
type Method string

const (
	MethodLexical  Method = "lexical"
	MethodFuzzy    Method = "fuzzy"
	MethodAdaptive Method = "adaptive"
)

// Base confidences per method. Lexical matches are exact and trusted most;
// fuzzy matches tolerate transcription noise and trust less. The adaptive
// method has no fixed base: its confidence is probability x model accuracy.
const (
	lexicalBaseConfidence = 0.8
	fuzzyBaseConfidence   = 0.6
)

// Hit is a single detection produced by one method for one window.
// Adaptive hits carry no term.
type Hit struct {
	Method        Method
	Term          string
	RawConfidence float64
}

// Fused is the combined decision for one window that produced at least one
// hit from any method.
type Fused struct {
	Window     timeline.Window
	Terms      []string
	Methods    []Method
	Confidence float64
}

// HasMethod reports whether the given method contributed to this decision.
func (f Fused) HasMethod(m Method) bool {
	for _, method := range f.Methods {
		if method == m {
			return true
		}
	}
	return false
}

func sortedTerms(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for term := range set {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}
