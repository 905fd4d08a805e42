package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// minTrainingSamples is the smallest labeled set the classifier accepts.
const minTrainingSamples = 4

// Config describes the external classifier tool.
type Config struct {
	Binary    string
	ModelPath string
	Timeout   time.Duration
}

// Client shells out to the classifier CLI, which speaks JSON on stdout.
// Verbs: status, score <audio>, train <annotations-file>. The model file
// lives wherever ModelPath points; its format is the tool's business.
type Client struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)

	mu     sync.RWMutex
	status Status
	loaded bool
}

// NewClient creates a classifier client. The model status is loaded lazily
// on first use.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "hushcut-classifier"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &Client{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	c.commandRunner = runner
}

// Status returns the cached model status, refreshing it from the tool on
// first call.
func (c *Client) Status() Status {
	c.mu.RLock()
	if c.loaded {
		defer c.mu.RUnlock()
		return c.status
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.status = c.fetchStatus(context.Background())
		c.loaded = true
	}
	return c.status
}

func (c *Client) fetchStatus(ctx context.Context) Status {
	if _, err := os.Stat(c.cfg.ModelPath); err != nil {
		return Status{}
	}
	output, err := c.run(ctx, "status", "--model", c.cfg.ModelPath)
	if err != nil {
		return Status{}
	}
	var status Status
	if err := json.Unmarshal([]byte(output), &status); err != nil {
		return Status{}
	}
	return status
}

// Score asks the tool for the probability that the audio contains a target
// utterance. Returns ErrUnavailable when no trained model exists.
func (c *Client) Score(ctx context.Context, audioPath string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.loaded && !c.status.Trained {
		return 0, ErrUnavailable
	}

	output, err := c.run(ctx, "score", "--model", c.cfg.ModelPath, audioPath)
	if err != nil {
		return 0, fmt.Errorf("score %s: %w", audioPath, err)
	}

	var result struct {
		Available   bool    `json:"available"`
		Probability float64 `json:"probability"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		return 0, fmt.Errorf("score: parse tool output: %w", err)
	}
	if !result.Available {
		return 0, ErrUnavailable
	}
	if result.Probability < 0 || result.Probability > 1 {
		return 0, fmt.Errorf("score: probability %v outside [0,1]", result.Probability)
	}
	return result.Probability, nil
}

// Train retrains the model from the complete labeled set. The writer lock is
// held for the duration, so concurrent Score calls block until the new model
// snapshot and its status are swapped in atomically.
func (c *Client) Train(ctx context.Context, samples []Sample) (TrainReport, error) {
	valid := make([]Sample, 0, len(samples))
	for _, sample := range samples {
		if sample.Label == LabelProfanity || sample.Label == LabelNormal {
			valid = append(valid, sample)
		}
	}
	if len(valid) < minTrainingSamples {
		return TrainReport{}, fmt.Errorf("train: need at least %d labeled samples, have %d", minTrainingSamples, len(valid))
	}

	annotations, err := writeAnnotations(valid)
	if err != nil {
		return TrainReport{}, err
	}
	defer os.Remove(annotations)

	c.mu.Lock()
	defer c.mu.Unlock()

	output, err := c.run(ctx, "train", "--model", c.cfg.ModelPath, annotations)
	if err != nil {
		return TrainReport{}, fmt.Errorf("train: %w", err)
	}

	var report TrainReport
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		return TrainReport{}, fmt.Errorf("train: parse tool output: %w", err)
	}

	c.status = Status{Trained: true, Accuracy: report.Accuracy}
	c.loaded = true
	return report, nil
}

func writeAnnotations(samples []Sample) (string, error) {
	file, err := os.CreateTemp("", "hushcut-annotations-*.json")
	if err != nil {
		return "", fmt.Errorf("train: create annotations file: %w", err)
	}
	encoder := json.NewEncoder(file)
	if err := encoder.Encode(samples); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("train: write annotations: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("train: close annotations: %w", err)
	}
	return file.Name(), nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if c.commandRunner != nil {
		return c.commandRunner(runCtx, c.cfg.Binary, args...)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, c.cfg.Binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", c.cfg.Binary, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
