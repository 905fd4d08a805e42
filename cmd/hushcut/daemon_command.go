package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hushcut/internal/config"
	"hushcut/internal/daemon"
	"hushcut/internal/pipeline"
	"hushcut/internal/queue"
	"hushcut/internal/render"
	"hushcut/internal/workflow"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the background queue processor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd, ctx)
		},
	}
}

func runDaemonProcess(cmd *cobra.Command, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := buildLogger(cfg, "")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open queue store: %w", err)
	}

	collab, err := buildCollaborators(cfg)
	if err != nil {
		store.Close()
		return err
	}

	manager := workflow.NewManager(cfg, store, logger)
	if err := registerStages(manager, cfg, collab, logger); err != nil {
		store.Close()
		return err
	}

	d, err := daemon.New(cfg, store, logger, manager)
	if err != nil {
		store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	for _, health := range d.Health(signalCtx) {
		if !health.Ready {
			logger.Warn("stage unhealthy at startup",
				"stage", health.Name, "detail", health.Detail)
		}
	}

	<-signalCtx.Done()
	d.Stop()
	return nil
}

func registerStages(manager *workflow.Manager, cfg *config.Config, collab collaborators, logger *slog.Logger) error {
	detectStage := pipeline.NewStage(cfg, buildPipeline(cfg, collab, logger), logger)
	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, detectStage); err != nil {
		return err
	}
	renderStage := render.NewStage(cfg, render.NewRenderer(cfg.FFmpegBinary()), logger)
	return manager.RegisterStage("render", queue.StatusDetected, queue.StatusRendering, queue.StatusCompleted, renderStage)
}
