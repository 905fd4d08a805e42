package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"hushcut/internal/detect"
	"hushcut/internal/pipeline"
	"hushcut/internal/queue"
	"hushcut/internal/services"
	"hushcut/internal/testsupport"
)

func TestStagePrepareDerivesOutputPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stage := pipeline.NewStage(cfg, nil, nil)
	ctx := context.Background()

	job := &queue.Job{SourcePath: filepath.Join(testsupport.BaseDir(cfg), "missing.mp4")}
	if err := stage.Prepare(ctx, job); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing source: %v", err)
	}

	source := filepath.Join(testsupport.BaseDir(cfg), "show.mp4")
	testsupport.WriteFile(t, source, 64)
	job = &queue.Job{SourcePath: source}
	if err := stage.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	want := filepath.Join(cfg.Paths.OutputDir, "show_cleaned.mp4")
	if job.OutputPath != want {
		t.Fatalf("output path %q, want %q", job.OutputPath, want)
	}
}

func TestStageExecuteStoresSegmentsAndStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.FFprobe = writeStubFFprobe(t, audioProbePayload)

	transcript := strings.Repeat("a", 10) + "靠北" + strings.Repeat("a", 8)
	p := newTestPipeline(t, cfg, stubTranscriber{byWindow: map[int]string{1: transcript}}, nil)
	stage := pipeline.NewStage(cfg, p, nil)

	job := &queue.Job{SourcePath: "/media/show.mp4"}
	if err := stage.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	segments, err := job.Segments()
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("segments %v", segments)
	}

	stats, err := job.StatsValue()
	if err != nil {
		t.Fatalf("StatsValue: %v", err)
	}
	if stats.WindowCount != 3 || stats.SegmentCount != 1 {
		t.Fatalf("stats %+v", stats)
	}
	if stats.MethodCounts[string(detect.MethodLexical)] != 1 {
		t.Fatalf("method counts %v", stats.MethodCounts)
	}
	if stats.TotalDuration != 30 {
		t.Fatalf("total duration %v", stats.TotalDuration)
	}
}

func TestStageExecuteProbeFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tools.FFprobe = filepath.Join(testsupport.BaseDir(cfg), "no-such-ffprobe")

	p := newTestPipeline(t, cfg, stubTranscriber{}, nil)
	stage := pipeline.NewStage(cfg, p, nil)

	job := &queue.Job{SourcePath: "/media/show.mp4"}
	if err := stage.Execute(context.Background(), job); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("probe failure: %v", err)
	}
}
