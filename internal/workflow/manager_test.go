package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"hushcut/internal/queue"
	"hushcut/internal/services"
	"hushcut/internal/stage"
	"hushcut/internal/testsupport"
	"hushcut/internal/workflow"
)

type fakeHandler struct {
	name       string
	prepareErr error
	executeErr error
	executions atomic.Int64
	onExecute  func(job *queue.Job)
}

func (h *fakeHandler) Prepare(ctx context.Context, job *queue.Job) error {
	return h.prepareErr
}

func (h *fakeHandler) Execute(ctx context.Context, job *queue.Job) error {
	h.executions.Add(1)
	if h.onExecute != nil {
		h.onExecute(job)
	}
	return h.executeErr
}

func (h *fakeHandler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(h.name)
}

func waitForStatus(t *testing.T, store *queue.Store, id int64, want queue.Status) *queue.Job {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if job != nil && job.Status == want {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	job, _ := store.GetByID(context.Background(), id)
	t.Fatalf("job %d never reached %s, last seen %+v", id, want, job)
	return nil
}

func TestManagerProcessesJobThroughStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	detect := &fakeHandler{name: "detect", onExecute: func(job *queue.Job) {
		job.OutputPath = "/tmp/out.mp4"
	}}
	render := &fakeHandler{name: "render"}
	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, detect); err != nil {
		t.Fatalf("register detect: %v", err)
	}
	if err := manager.RegisterStage("render", queue.StatusDetected, queue.StatusRendering, queue.StatusCompleted, render); err != nil {
		t.Fatalf("register render: %v", err)
	}

	job := testsupport.NewJob(t, store, "/media/show.mp4")
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	done := waitForStatus(t, store, job.ID, queue.StatusCompleted)
	if done.OutputPath != "/tmp/out.mp4" {
		t.Fatalf("output path %q not carried across stages", done.OutputPath)
	}
	if detect.executions.Load() != 1 || render.executions.Load() != 1 {
		t.Fatalf("executions detect=%d render=%d, want 1 each",
			detect.executions.Load(), render.executions.Load())
	}
	if last := manager.LastJob(); last == nil || last.ID != job.ID {
		t.Fatalf("LastJob = %+v", last)
	}
}

func TestManagerValidationFailureSendsJobToReview(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	detect := &fakeHandler{
		name:       "detect",
		executeErr: services.Wrap(services.ErrValidation, "detect", "probe source", "file is not a media file", nil),
	}
	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, detect); err != nil {
		t.Fatalf("register detect: %v", err)
	}

	job := testsupport.NewJob(t, store, "/media/not-video.txt")
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	failed := waitForStatus(t, store, job.ID, queue.StatusReview)
	if !strings.Contains(failed.ErrorMessage, "not a media file") {
		t.Fatalf("error message %q not persisted", failed.ErrorMessage)
	}
	if err := manager.LastError(); err == nil || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("LastError = %v", err)
	}
}

func TestManagerTransientFailureMarksJobFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	detect := &fakeHandler{name: "detect", executeErr: errors.New("ffmpeg exited 1")}
	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, detect); err != nil {
		t.Fatalf("register detect: %v", err)
	}

	job := testsupport.NewJob(t, store, "/media/show.mp4")
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	failed := waitForStatus(t, store, job.ID, queue.StatusFailed)
	if !strings.Contains(failed.ErrorMessage, "ffmpeg exited 1") {
		t.Fatalf("error message %q", failed.ErrorMessage)
	}
}

func TestManagerPrepareFailureSkipsExecute(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	detect := &fakeHandler{
		name:       "detect",
		prepareErr: services.Wrap(services.ErrNotFound, "detect", "stat source", "", errors.New("no such file")),
	}
	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, detect); err != nil {
		t.Fatalf("register detect: %v", err)
	}

	job := testsupport.NewJob(t, store, "/media/missing.mp4")
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	waitForStatus(t, store, job.ID, queue.StatusReview)
	if detect.executions.Load() != 0 {
		t.Fatal("Execute ran after Prepare failed")
	}
}

func TestManagerStartRequiresStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	if err := manager.Start(context.Background()); err == nil {
		t.Fatal("expected error starting without stages")
	}
}

func TestRegisterStageValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, nil); err == nil {
		t.Fatal("nil handler accepted")
	}
	if err := manager.RegisterStage("detect", "bogus", queue.StatusDetecting, queue.StatusDetected, &fakeHandler{}); err == nil {
		t.Fatal("invalid status accepted")
	}
	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, &fakeHandler{}); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}
	if err := manager.RegisterStage("again", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, &fakeHandler{}); err == nil {
		t.Fatal("duplicate claim on a status accepted")
	}
}

func TestManagerStartTwice(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, &fakeHandler{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := manager.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer manager.Stop()

	if err := manager.Start(context.Background()); err == nil {
		t.Fatal("second Start accepted")
	}
	if !manager.Running() {
		t.Fatal("manager should report running")
	}
}

func TestManagerHealthReportsRegisteredStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	manager := workflow.NewManager(cfg, store, nil)

	if err := manager.RegisterStage("detect", queue.StatusPending, queue.StatusDetecting, queue.StatusDetected, &fakeHandler{name: "detect"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := manager.RegisterStage("render", queue.StatusDetected, queue.StatusRendering, queue.StatusCompleted, &fakeHandler{name: "render"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	checks := manager.Health(context.Background())
	if len(checks) != 2 {
		t.Fatalf("health checks %v", checks)
	}
	if checks[0].Name != "detect" || checks[1].Name != "render" {
		t.Fatalf("health order %v", checks)
	}
	for _, check := range checks {
		if !check.Ready {
			t.Fatalf("stage %s not ready", check.Name)
		}
	}
}
