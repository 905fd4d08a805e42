package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"hushcut/internal/config"
	"hushcut/internal/logging"
	"hushcut/internal/queue"
	"hushcut/internal/services"
	"hushcut/internal/stage"
)

// Stage adapts the detection pipeline to the workflow manager.
type Stage struct {
	cfg      *config.Config
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewStage constructs the detection stage handler.
func NewStage(cfg *config.Config, pipeline *Pipeline, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:      cfg,
		pipeline: pipeline,
		logger:   logging.NewComponentLogger(logger, "detect-stage"),
	}
}

// Prepare verifies the source file still exists and derives the output path.
func (s *Stage) Prepare(ctx context.Context, job *queue.Job) error {
	if _, err := os.Stat(job.SourcePath); err != nil {
		return services.Wrap(services.ErrNotFound, "detect", "stat source",
			"Source file is missing; re-add it to the queue", err)
	}
	job.OutputPath = OutputPath(s.cfg, job.SourcePath)
	return nil
}

// Execute runs detection and stores the finalized segments on the job.
func (s *Stage) Execute(ctx context.Context, job *queue.Job) error {
	result, err := s.pipeline.Run(ctx, job.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "detect", "run pipeline", "", err)
	}

	if err := job.SetSegments(result.Segments); err != nil {
		return services.Wrap(services.ErrTransient, "detect", "store segments", "", err)
	}

	stats := queue.Stats{
		WindowCount:     result.Summary.WindowCount,
		SegmentCount:    result.Summary.SegmentCount,
		AdaptiveTrained: result.Summary.AdaptiveStatus.Trained,
		AdaptiveAcc:     result.Summary.AdaptiveStatus.Accuracy,
		TotalDuration:   result.TotalDuration,
	}
	if len(result.Summary.MethodCounts) > 0 {
		stats.MethodCounts = make(map[string]int, len(result.Summary.MethodCounts))
		for method, count := range result.Summary.MethodCounts {
			stats.MethodCounts[string(method)] = count
		}
	}
	if err := job.SetStats(stats); err != nil {
		return services.Wrap(services.ErrTransient, "detect", "store stats", "", err)
	}

	logging.WithContext(ctx, s.logger).Info("detection complete",
		logging.Int("segments", len(result.Segments)),
		logging.Int("windows", result.Summary.WindowCount),
	)
	return nil
}

// HealthCheck verifies the media tools are resolvable.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	for _, binary := range []string{s.cfg.FFmpegBinary(), s.cfg.FFprobeBinary()} {
		if _, err := exec.LookPath(binary); err != nil {
			return stage.Unhealthy("detect", fmt.Sprintf("%s not found in PATH", binary))
		}
	}
	return stage.Healthy("detect")
}
