package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"hushcut/internal/config"
)

// Store manages job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the queue database under the log directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "queue.db"))
}

// OpenPath initializes or connects to the queue database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

const jobColumns = `id, source_path, output_path, status, segments_json, stats_json, error_message, run_id, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*Job, error) {
	var (
		job       Job
		status    string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(
		&job.ID, &job.SourcePath, &job.OutputPath, &status,
		&job.SegmentsJSON, &job.StatsJSON, &job.ErrorMessage, &job.RunID,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	job.Status = Status(status)
	job.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	job.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &job, nil
}

// NewJob enqueues a source file for processing.
func (s *Store) NewJob(ctx context.Context, sourcePath, runID string) (*Job, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO jobs (source_path, status, run_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sourcePath, StatusPending, runID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns a job by identifier, or nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// List returns jobs filtered by status, or every job when no statuses are given.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	ctx = ensureContext(ctx)

	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// NextForStatuses claims the oldest job matching one of the given statuses.
// Returns nil when the queue has no matching work.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Job, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	jobs, err := s.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

// Update persists the mutable fields of a job.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("update: nil job")
	}
	if !ValidStatus(job.Status) {
		return fmt.Errorf("update: unknown status %q", job.Status)
	}
	job.UpdatedAt = time.Now().UTC()
	_, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET source_path = ?, output_path = ?, status = ?, segments_json = ?,
            stats_json = ?, error_message = ?, run_id = ?, updated_at = ?
        WHERE id = ?`,
		job.SourcePath, job.OutputPath, job.Status, job.SegmentsJSON,
		job.StatsJSON, job.ErrorMessage, job.RunID,
		job.UpdatedAt.Format(time.RFC3339Nano), job.ID,
	)
	if err != nil {
		return fmt.Errorf("update job %d: %w", job.ID, err)
	}
	return nil
}

// Transition moves a job between statuses, guarding against concurrent
// claims: the update applies only when the job still holds the from status.
func (s *Store) Transition(ctx context.Context, id int64, from, to Status) (bool, error) {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false, fmt.Errorf("transition: unknown status %q -> %q", from, to)
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, time.Now().UTC().Format(time.RFC3339Nano), id, from,
	)
	if err != nil {
		return false, fmt.Errorf("transition job %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition rows affected: %w", err)
	}
	return affected == 1, nil
}

// ResetStuckProcessing rolls interrupted processing jobs back to the status
// their stage resumes from. Called on daemon startup.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int, error) {
	total := 0
	for from, to := range stageRollbackTransitions {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE jobs SET status = ?, updated_at = ? WHERE status = ?`,
			to, time.Now().UTC().Format(time.RFC3339Nano), from,
		)
		if err != nil {
			return total, fmt.Errorf("reset %s jobs: %w", from, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("reset rows affected: %w", err)
		}
		total += int(affected)
	}
	return total, nil
}

// Retry moves a failed or review job back to pending and clears its error.
func (s *Store) Retry(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE jobs SET status = ?, error_message = '', updated_at = ?
        WHERE id = ? AND status IN (?, ?)`,
		StatusPending, time.Now().UTC().Format(time.RFC3339Nano), id, StatusFailed, StatusReview,
	)
	if err != nil {
		return false, fmt.Errorf("retry job %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("retry rows affected: %w", err)
	}
	return affected == 1, nil
}

// Clear removes terminal jobs. With all set, every job is removed.
func (s *Store) Clear(ctx context.Context, all bool) (int, error) {
	query := `DELETE FROM jobs WHERE status IN (?, ?, ?)`
	args := []any{StatusCompleted, StatusFailed, StatusReview}
	if all {
		query = `DELETE FROM jobs`
		args = nil
	}
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear rows affected: %w", err)
	}
	return int(affected), nil
}

// Health summarizes queue counts by lifecycle state.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	jobs, err := s.List(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	summary := HealthSummary{Total: len(jobs), ByStatus: make(map[Status]int)}
	for _, job := range jobs {
		summary.ByStatus[job.Status]++
		switch {
		case job.Status == StatusPending:
			summary.Pending++
		case job.Status.IsProcessing():
			summary.Processing++
		case job.Status == StatusFailed || job.Status == StatusReview:
			summary.Failed++
		case job.Status == StatusCompleted:
			summary.Completed++
		}
	}
	return summary, nil
}
