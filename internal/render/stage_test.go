package render_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"hushcut/internal/mute"
	"hushcut/internal/queue"
	"hushcut/internal/render"
	"hushcut/internal/services"
	"hushcut/internal/testsupport"
)

func newRenderStage(t *testing.T, runner func(ctx context.Context, name string, args ...string) error) (*render.Stage, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	renderer := render.NewRenderer(cfg.FFmpegBinary())
	renderer.WithCommandRunner(runner)
	return render.NewStage(cfg, renderer, nil), testsupport.BaseDir(cfg)
}

func TestStagePrepareRequiresSourceAndOutput(t *testing.T) {
	stage, base := newRenderStage(t, nil)
	ctx := context.Background()

	job := &queue.Job{SourcePath: filepath.Join(base, "missing.mp4")}
	if err := stage.Prepare(ctx, job); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing source: %v", err)
	}

	source := filepath.Join(base, "show.mp4")
	testsupport.WriteFile(t, source, 64)
	job = &queue.Job{SourcePath: source}
	if err := stage.Prepare(ctx, job); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing output path: %v", err)
	}

	job.OutputPath = filepath.Join(base, "out", "show_cleaned.mp4")
	if err := stage.Prepare(ctx, job); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
}

func TestStageExecuteRendersStoredSegments(t *testing.T) {
	var gotArgs []string
	stage, base := newRenderStage(t, func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		return nil
	})

	job := &queue.Job{
		SourcePath: filepath.Join(base, "show.mp4"),
		OutputPath: filepath.Join(base, "show_cleaned.mp4"),
	}
	if err := job.SetSegments([]mute.Segment{{Start: 14.5, End: 16.1}}); err != nil {
		t.Fatalf("SetSegments: %v", err)
	}

	if err := stage.Execute(context.Background(), job); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "volume=0:enable='between(t,14.5,16.1)'") {
		t.Fatalf("mute filter missing from args: %v", gotArgs)
	}
	if gotArgs[len(gotArgs)-1] != job.OutputPath {
		t.Fatalf("output path not last arg: %v", gotArgs)
	}
}

func TestStageExecuteCorruptSegments(t *testing.T) {
	stage, base := newRenderStage(t, func(ctx context.Context, name string, args ...string) error {
		t.Fatal("ffmpeg must not run for unreadable segments")
		return nil
	})

	job := &queue.Job{
		SourcePath:   filepath.Join(base, "show.mp4"),
		OutputPath:   filepath.Join(base, "show_cleaned.mp4"),
		SegmentsJSON: "{not json",
	}
	if err := stage.Execute(context.Background(), job); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("corrupt segments: %v", err)
	}
}

func TestStageExecuteToolFailure(t *testing.T) {
	stage, base := newRenderStage(t, func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})

	job := &queue.Job{
		SourcePath: filepath.Join(base, "show.mp4"),
		OutputPath: filepath.Join(base, "show_cleaned.mp4"),
	}
	if err := stage.Execute(context.Background(), job); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("tool failure: %v", err)
	}
}
