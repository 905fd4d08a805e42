package detect

// Band groups an adaptive classifier probability for reporting.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

const (
	mediumBandFloor = 0.4
	highBandFloor   = 0.7
)

// ClassifyProbability maps a classifier probability onto its band.
// Only medium and high count as a hit.
func ClassifyProbability(p float64) Band {
	switch {
	case p > highBandFloor:
		return BandHigh
	case p > mediumBandFloor:
		return BandMedium
	default:
		return BandLow
	}
}

// AdaptiveHit converts a classifier probability into a detection hit.
// Low-band probabilities yield no hit.
func AdaptiveHit(probability float64) (Hit, bool) {
	if ClassifyProbability(probability) == BandLow {
		return Hit{}, false
	}
	return Hit{Method: MethodAdaptive, RawConfidence: probability}, true
}
