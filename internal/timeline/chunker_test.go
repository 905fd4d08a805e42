package timeline_test

import (
	"math"
	"testing"

	"hushcut/internal/timeline"
)

func TestPlanCoversTimelineWithoutGaps(t *testing.T) {
	windows, err := timeline.Plan(35, 10, "movie.mp4")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(windows))
	}
	for i, window := range windows {
		if window.Index != i {
			t.Errorf("window %d has index %d", i, window.Index)
		}
		if i > 0 && windows[i-1].End != window.Start {
			t.Errorf("gap between window %d and %d: %f != %f", i-1, i, windows[i-1].End, window.Start)
		}
	}
	last := windows[len(windows)-1]
	if last.End != 35 {
		t.Errorf("last window ends at %f, want 35", last.End)
	}
	if got := last.Duration(); math.Abs(got-5) > 1e-9 {
		t.Errorf("last window duration %f, want 5", got)
	}
}

func TestPlanExactMultiple(t *testing.T) {
	windows, err := timeline.Plan(30, 10, "movie.mp4")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for _, window := range windows {
		if math.Abs(window.Duration()-10) > 1e-9 {
			t.Errorf("window %d duration %f, want 10", window.Index, window.Duration())
		}
	}
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		total  float64
		window float64
	}{
		{"negative total", -1, 10},
		{"zero window", 30, 0},
		{"negative window", 30, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := timeline.Plan(tc.total, tc.window, "x"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPlanZeroDurationYieldsNoWindows(t *testing.T) {
	windows, err := timeline.Plan(0, 10, "empty.mp4")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(windows) != 0 {
		t.Fatalf("expected no windows, got %d", len(windows))
	}
}

func TestPlanOverlapSteps(t *testing.T) {
	windows, err := timeline.PlanOverlap(30, 10, 2, "movie.mp4")
	if err != nil {
		t.Fatalf("PlanOverlap failed: %v", err)
	}
	if len(windows) < 3 {
		t.Fatalf("expected at least 3 windows, got %d", len(windows))
	}
	for i := 1; i < len(windows); i++ {
		step := windows[i].Start - windows[i-1].Start
		if math.Abs(step-8) > 1e-9 {
			t.Errorf("step between windows %d and %d is %f, want 8", i-1, i, step)
		}
	}
	if last := windows[len(windows)-1]; last.End != 30 {
		t.Errorf("last window ends at %f, want 30", last.End)
	}
}

func TestPlanOverlapRejectsNonPositiveStep(t *testing.T) {
	if _, err := timeline.PlanOverlap(30, 10, 10, "x"); err == nil {
		t.Fatal("expected error when overlap equals window")
	}
	if _, err := timeline.PlanOverlap(30, 10, 12, "x"); err == nil {
		t.Fatal("expected error when overlap exceeds window")
	}
}
