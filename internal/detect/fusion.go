package detect

import "hushcut/internal/timeline"

// Fuser combines per-window detection hits into one decision.
//
// AdaptiveWeight is the fusion weight of the adaptive method; lexical and
// fuzzy share 1 - AdaptiveWeight. Accuracy is the trained classifier's
// recorded training accuracy and discounts adaptive confidence so an
// untrained or poorly-trained model cannot dominate fusion even when
// AdaptiveWeight is configured high.
type Fuser struct {
	AdaptiveWeight float64
	Accuracy       float64
}

// Fuse merges the hits for one window. The second return value is false when
// the window produced no hits and therefore no fused decision.
func (f Fuser) Fuse(window timeline.Window, hits []Hit) (Fused, bool) {
	if len(hits) == 0 {
		return Fused{}, false
	}

	termSet := make(map[string]struct{})
	confidences := make(map[Method]float64)
	var methods []Method
	for _, hit := range hits {
		if hit.Term != "" {
			termSet[hit.Term] = struct{}{}
		}
		if _, seen := confidences[hit.Method]; !seen {
			methods = append(methods, hit.Method)
			confidences[hit.Method] = f.baseConfidence(hit)
		}
	}

	return Fused{
		Window:     window,
		Terms:      sortedTerms(termSet),
		Methods:    methods,
		Confidence: f.weightedConfidence(methods, confidences),
	}, true
}

func (f Fuser) baseConfidence(hit Hit) float64 {
	switch hit.Method {
	case MethodLexical:
		return lexicalBaseConfidence
	case MethodFuzzy:
		return fuzzyBaseConfidence
	case MethodAdaptive:
		return hit.RawConfidence * f.Accuracy
	default:
		return 0
	}
}

// weightedConfidence averages base confidences over the methods that actually
// produced a hit. A zero weight sum falls back to the maximum base confidence.
func (f Fuser) weightedConfidence(methods []Method, confidences map[Method]float64) float64 {
	var weightedSum, weightSum, max float64
	for _, method := range methods {
		weight := 1 - f.AdaptiveWeight
		if method == MethodAdaptive {
			weight = f.AdaptiveWeight
		}
		confidence := confidences[method]
		weightedSum += weight * confidence
		weightSum += weight
		if confidence > max {
			max = confidence
		}
	}
	if weightSum == 0 {
		return max
	}
	return weightedSum / weightSum
}
