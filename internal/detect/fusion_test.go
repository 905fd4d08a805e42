package detect_test

import (
	"math"
	"testing"

	"hushcut/internal/detect"
	"hushcut/internal/timeline"
)

func testWindow() timeline.Window {
	return timeline.Window{Index: 0, Start: 10, End: 20, Source: "movie.mp4"}
}

func TestFuseNoHits(t *testing.T) {
	fuser := detect.Fuser{AdaptiveWeight: 0.3, Accuracy: 0.8}
	if _, ok := fuser.Fuse(testWindow(), nil); ok {
		t.Fatal("no hits must yield no decision")
	}
}

func TestFuseSingleLexicalHit(t *testing.T) {
	fuser := detect.Fuser{AdaptiveWeight: 0.3, Accuracy: 0.8}
	fused, ok := fuser.Fuse(testWindow(), []detect.Hit{
		{Method: detect.MethodLexical, Term: "靠北"},
	})
	if !ok {
		t.Fatal("expected a fused decision")
	}
	if math.Abs(fused.Confidence-0.8) > 1e-9 {
		t.Fatalf("confidence %v, want 0.8", fused.Confidence)
	}
	if len(fused.Terms) != 1 || fused.Terms[0] != "靠北" {
		t.Fatalf("terms %v", fused.Terms)
	}
	if !fused.HasMethod(detect.MethodLexical) || fused.HasMethod(detect.MethodFuzzy) {
		t.Fatalf("methods %v", fused.Methods)
	}
}

func TestFuseWeightsAdaptiveAgainstRules(t *testing.T) {
	fuser := detect.Fuser{AdaptiveWeight: 0.3, Accuracy: 0.8}
	fused, ok := fuser.Fuse(testWindow(), []detect.Hit{
		{Method: detect.MethodLexical, Term: "靠北"},
		{Method: detect.MethodAdaptive, RawConfidence: 0.9},
	})
	if !ok {
		t.Fatal("expected a fused decision")
	}
	// (0.7*0.8 + 0.3*(0.9*0.8)) / (0.7 + 0.3)
	want := (0.7*0.8 + 0.3*0.72) / 1.0
	if math.Abs(fused.Confidence-want) > 1e-9 {
		t.Fatalf("confidence %v, want %v", fused.Confidence, want)
	}
}

func TestFuseZeroWeightFallsBackToMax(t *testing.T) {
	fuser := detect.Fuser{AdaptiveWeight: 1, Accuracy: 0.8}
	fused, ok := fuser.Fuse(testWindow(), []detect.Hit{
		{Method: detect.MethodLexical, Term: "靠北"},
	})
	if !ok {
		t.Fatal("expected a fused decision")
	}
	if math.Abs(fused.Confidence-0.8) > 1e-9 {
		t.Fatalf("confidence %v, want max fallback 0.8", fused.Confidence)
	}
}

func TestFuseConfidenceStaysInRange(t *testing.T) {
	weights := []float64{0.01, 0.3, 0.5, 0.99}
	probabilities := []float64{0.41, 0.7, 1.0}
	for _, weight := range weights {
		for _, p := range probabilities {
			fuser := detect.Fuser{AdaptiveWeight: weight, Accuracy: 1}
			fused, ok := fuser.Fuse(testWindow(), []detect.Hit{
				{Method: detect.MethodLexical, Term: "靠北"},
				{Method: detect.MethodFuzzy, Term: "幹"},
				{Method: detect.MethodAdaptive, RawConfidence: p},
			})
			if !ok {
				t.Fatal("expected a fused decision")
			}
			if fused.Confidence < 0 || fused.Confidence > 1 {
				t.Fatalf("confidence %v out of range (weight %v, p %v)", fused.Confidence, weight, p)
			}
		}
	}
}

func TestFuseDeduplicatesTermsAndMethods(t *testing.T) {
	fuser := detect.Fuser{AdaptiveWeight: 0.3, Accuracy: 0.8}
	fused, ok := fuser.Fuse(testWindow(), []detect.Hit{
		{Method: detect.MethodLexical, Term: "靠北"},
		{Method: detect.MethodLexical, Term: "靠北"},
		{Method: detect.MethodFuzzy, Term: "靠北"},
	})
	if !ok {
		t.Fatal("expected a fused decision")
	}
	if len(fused.Terms) != 1 {
		t.Fatalf("terms %v, want a single de-duplicated term", fused.Terms)
	}
	if len(fused.Methods) != 2 {
		t.Fatalf("methods %v, want lexical and fuzzy once each", fused.Methods)
	}
}
