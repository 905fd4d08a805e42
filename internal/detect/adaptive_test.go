package detect_test

import (
	"testing"

	"hushcut/internal/detect"
)

func TestClassifyProbabilityBands(t *testing.T) {
	cases := []struct {
		p    float64
		want detect.Band
	}{
		{0.0, detect.BandLow},
		{0.4, detect.BandLow},
		{0.41, detect.BandMedium},
		{0.7, detect.BandMedium},
		{0.71, detect.BandHigh},
		{1.0, detect.BandHigh},
	}
	for _, tc := range cases {
		if got := detect.ClassifyProbability(tc.p); got != tc.want {
			t.Errorf("ClassifyProbability(%v) = %s, want %s", tc.p, got, tc.want)
		}
	}
}

func TestAdaptiveHitThreshold(t *testing.T) {
	if _, ok := detect.AdaptiveHit(0.3); ok {
		t.Fatal("low-band probability must not produce a hit")
	}
	hit, ok := detect.AdaptiveHit(0.9)
	if !ok {
		t.Fatal("high-band probability must produce a hit")
	}
	if hit.Method != detect.MethodAdaptive {
		t.Fatalf("unexpected method %s", hit.Method)
	}
	if hit.RawConfidence != 0.9 {
		t.Fatalf("raw confidence %v, want 0.9", hit.RawConfidence)
	}
	if hit.Term != "" {
		t.Fatalf("adaptive hits carry no term, got %q", hit.Term)
	}
}
