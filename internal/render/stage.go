package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"hushcut/internal/config"
	"hushcut/internal/logging"
	"hushcut/internal/queue"
	"hushcut/internal/services"
	"hushcut/internal/stage"
)

// Stage writes the muted output file for a detected job.
type Stage struct {
	cfg      *config.Config
	renderer *Renderer
	logger   *slog.Logger
}

// NewStage constructs the render stage handler.
func NewStage(cfg *config.Config, renderer *Renderer, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:      cfg,
		renderer: renderer,
		logger:   logging.NewComponentLogger(logger, "render-stage"),
	}
}

// Prepare validates that detection left the job renderable.
func (s *Stage) Prepare(ctx context.Context, job *queue.Job) error {
	if _, err := os.Stat(job.SourcePath); err != nil {
		return services.Wrap(services.ErrNotFound, "render", "stat source",
			"Source file is missing; re-add it to the queue", err)
	}
	if job.OutputPath == "" {
		return services.Wrap(services.ErrValidation, "render", "check output path",
			"Job has no output path; detection did not complete", nil)
	}
	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "create output directory", "", err)
	}
	return nil
}

// Execute renders the output with every stored segment muted.
func (s *Stage) Execute(ctx context.Context, job *queue.Job) error {
	segments, err := job.Segments()
	if err != nil {
		return services.Wrap(services.ErrValidation, "render", "decode segments",
			"Stored segments are unreadable; retry the job", err)
	}

	if err := s.renderer.Render(ctx, job.SourcePath, segments, job.OutputPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "render", "run ffmpeg", "", err)
	}

	logging.WithContext(ctx, s.logger).Info("render complete",
		logging.String("output", job.OutputPath),
		logging.Int("muted_segments", len(segments)),
	)
	return nil
}

// HealthCheck verifies ffmpeg is resolvable.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	binary := s.cfg.FFmpegBinary()
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy("render", fmt.Sprintf("%s not found in PATH", binary))
	}
	return stage.Healthy("render")
}
