package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hushcut/internal/config"
	"hushcut/internal/logging"
	"hushcut/internal/queue"
	"hushcut/internal/stage"
)

// pipelineStage binds a handler to the statuses it claims and produces.
type pipelineStage struct {
	name       string
	handler    stage.Handler
	fromStatus queue.Status
	processing queue.Status
	doneStatus queue.Status
}

// Manager coordinates queue processing using registered stage handlers.
type Manager struct {
	cfg          *config.Config
	store        *queue.Store
	logger       *slog.Logger
	pollInterval time.Duration
	errorRetry   time.Duration

	stages  []pipelineStage
	byFrom  map[queue.Status]pipelineStage
	claimed []queue.Status

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
	lastJob *queue.Job
}

// NewManager constructs a workflow manager. Stage handlers are attached with
// RegisterStage before Start.
func NewManager(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "workflow-manager"),
		pollInterval: time.Duration(cfg.Workflow.QueuePollInterval) * time.Second,
		errorRetry:   time.Duration(cfg.Workflow.ErrorRetryInterval) * time.Second,
		byFrom:       make(map[queue.Status]pipelineStage),
	}
}

// RegisterStage attaches a handler that claims jobs in fromStatus, marks them
// processing while running, and leaves them in doneStatus on success.
func (m *Manager) RegisterStage(name string, fromStatus, processing, doneStatus queue.Status, handler stage.Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}
	if handler == nil {
		return fmt.Errorf("stage %s: handler required", name)
	}
	if !queue.ValidStatus(fromStatus) || !queue.ValidStatus(processing) || !queue.ValidStatus(doneStatus) {
		return fmt.Errorf("stage %s: invalid status configuration", name)
	}
	if _, exists := m.byFrom[fromStatus]; exists {
		return fmt.Errorf("stage %s: status %s already claimed", name, fromStatus)
	}
	def := pipelineStage{
		name:       name,
		handler:    handler,
		fromStatus: fromStatus,
		processing: processing,
		doneStatus: doneStatus,
	}
	m.stages = append(m.stages, def)
	m.byFrom[fromStatus] = def
	m.claimed = append(m.claimed, fromStatus)
	return nil
}

// Start begins background processing. Interrupted processing jobs from a
// previous run are rolled back to their claimable status first.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.stages) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	if reset, err := m.store.ResetStuckProcessing(runCtx); err != nil {
		m.logger.Warn("reset stuck processing failed; interrupted jobs may remain",
			logging.Error(err))
	} else if reset > 0 {
		m.logger.Info("rolled back interrupted jobs", logging.Int("count", reset))
	}

	go m.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Running reports whether the manager currently processes the queue.
func (m *Manager) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// LastError returns the most recent stage or queue error.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// LastJob returns a copy of the most recently processed job, if any.
func (m *Manager) LastJob() *queue.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastJob == nil {
		return nil
	}
	clone := *m.lastJob
	return &clone
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func (m *Manager) setLastJob(job *queue.Job) {
	m.mu.Lock()
	clone := *job
	m.lastJob = &clone
	m.mu.Unlock()
}
