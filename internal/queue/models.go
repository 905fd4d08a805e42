package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hushcut/internal/mute"
)

// Status represents the lifecycle of a queue job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDetecting Status = "detecting"
	StatusDetected  Status = "detected"
	StatusRendering Status = "rendering"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReview    Status = "review"
)

var allStatuses = []Status{
	StatusPending,
	StatusDetecting,
	StatusDetected,
	StatusRendering,
	StatusCompleted,
	StatusFailed,
	StatusReview,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether the value is a known lifecycle status.
func ValidStatus(status Status) bool {
	_, ok := statusSet[status]
	return ok
}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

var processingStatuses = map[Status]struct{}{
	StatusDetecting: {},
	StatusRendering: {},
}

// IsProcessing reports whether the status marks an in-flight stage.
func (s Status) IsProcessing() bool {
	_, ok := processingStatuses[s]
	return ok
}

// IsTerminal reports whether the job has finished, successfully or not.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusReview:
		return true
	default:
		return false
	}
}

// stageRollbackTransitions maps an interrupted processing status back to the
// status a restarted daemon should resume from.
var stageRollbackTransitions = map[Status]Status{
	StatusDetecting: StatusPending,
	StatusRendering: StatusDetected,
}

// Stats captures per-run detection statistics surfaced in the CLI.
type Stats struct {
	WindowCount     int            `json:"window_count"`
	SegmentCount    int            `json:"segment_count"`
	MethodCounts    map[string]int `json:"method_counts,omitempty"`
	AdaptiveTrained bool           `json:"adaptive_trained"`
	AdaptiveAcc     float64        `json:"adaptive_accuracy,omitempty"`
	TotalDuration   float64        `json:"total_duration"`
}

// Job represents one muting job persisted in SQLite.
type Job struct {
	ID           int64
	SourcePath   string
	OutputPath   string
	Status       Status
	SegmentsJSON string
	StatsJSON    string
	ErrorMessage string
	RunID        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Title returns a short human label for the job.
func (j *Job) Title() string {
	path := strings.TrimSpace(j.SourcePath)
	if path == "" {
		return fmt.Sprintf("job %d", j.ID)
	}
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// SetSegments stores the finalized segment list on the job.
func (j *Job) SetSegments(segments []mute.Segment) error {
	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	j.SegmentsJSON = string(data)
	return nil
}

// Segments decodes the stored segment list. An empty column yields nil.
func (j *Job) Segments() ([]mute.Segment, error) {
	if strings.TrimSpace(j.SegmentsJSON) == "" {
		return nil, nil
	}
	var segments []mute.Segment
	if err := json.Unmarshal([]byte(j.SegmentsJSON), &segments); err != nil {
		return nil, fmt.Errorf("unmarshal segments: %w", err)
	}
	return segments, nil
}

// SetStats stores run statistics on the job.
func (j *Job) SetStats(stats Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	j.StatsJSON = string(data)
	return nil
}

// StatsValue decodes the stored run statistics.
func (j *Job) StatsValue() (Stats, error) {
	var stats Stats
	if strings.TrimSpace(j.StatsJSON) == "" {
		return stats, nil
	}
	if err := json.Unmarshal([]byte(j.StatsJSON), &stats); err != nil {
		return stats, fmt.Errorf("unmarshal stats: %w", err)
	}
	return stats, nil
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
	ByStatus   map[Status]int
}
