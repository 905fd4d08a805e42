package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hushcut/internal/logging"
	"hushcut/internal/queue"
	"hushcut/internal/services"
)

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := m.store.NextForStatuses(ctx, m.claimed...)
		if err != nil {
			m.setLastError(err)
			m.logger.Error("failed to fetch next queue job", logging.Error(err))
			m.waitOrShutdown(ctx, m.errorRetry)
			continue
		}
		if job == nil {
			m.waitOrShutdown(ctx, m.pollInterval)
			continue
		}

		if err := m.processJob(ctx, job); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) waitOrShutdown(ctx context.Context, wait time.Duration) {
	if wait <= 0 {
		wait = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
}

func (m *Manager) processJob(ctx context.Context, job *queue.Job) error {
	def, ok := m.byFrom[job.Status]
	if !ok {
		m.logger.Warn("no stage configured for status", logging.String("status", string(job.Status)))
		m.waitOrShutdown(ctx, m.pollInterval)
		return nil
	}

	claimed, err := m.store.Transition(ctx, job.ID, def.fromStatus, def.processing)
	if err != nil {
		m.setLastError(err)
		m.logger.Error("failed to claim job", logging.Error(err), logging.Int64("job_id", job.ID))
		return err
	}
	if !claimed {
		return nil
	}
	job.Status = def.processing
	job.ErrorMessage = ""

	requestID := uuid.NewString()
	stageCtx := services.WithRequestID(services.WithStage(services.WithJobID(ctx, job.ID), def.name), requestID)
	stageLogger := logging.WithContext(stageCtx, m.logger)

	return m.executeStage(stageCtx, stageLogger, def, job)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, def pipelineStage, job *queue.Job) error {
	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String("source_file", strings.TrimSpace(job.SourcePath)),
		logging.String("processing_status", string(def.processing)),
	)

	if err := def.handler.Prepare(ctx, job); err != nil {
		m.handleStageFailure(ctx, def, job, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, job); err != nil {
		wrapped := services.Wrap(services.ErrTransient, def.name, "persist preparation", "", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	if err := def.handler.Execute(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return err
		}
		m.handleStageFailure(ctx, def, job, err)
		m.setLastError(err)
		return err
	}

	if job.Status == def.processing || job.Status == "" {
		job.Status = def.doneStatus
	}
	if err := m.store.Update(ctx, job); err != nil {
		wrapped := services.Wrap(services.ErrTransient, def.name, "persist result", "", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	stageLogger.Info("stage completed",
		logging.String("next_status", string(job.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	m.setLastJob(job)
	return nil
}

func (m *Manager) handleStageFailure(ctx context.Context, def pipelineStage, job *queue.Job, stageErr error) {
	logger := logging.WithContext(ctx, m.logger)

	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = def.name + " failed"
	}
	job.Status = services.FailureStatus(stageErr)
	job.ErrorMessage = message

	logger.Error("stage failed",
		logging.String("resolved_status", string(job.Status)),
		logging.String("error_message", message),
		logging.Error(stageErr),
	)

	if err := m.store.Update(ctx, job); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not persist stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}
	m.setLastJob(job)
}
