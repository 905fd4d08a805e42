package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Config describes the external transcription tool.
type Config struct {
	Binary  string
	Model   string
	Timeout time.Duration
}

// Transcriber converts a window's audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}

// languageCodes maps the configured language hint to the tool's language
// argument. Unknown hints fall back to Chinese, matching the primary corpus.
var languageCodes = map[string]string{
	"chinese": "zh-TW",
	"english": "en-US",
	"auto":    "",
}

// LanguageCode resolves a configured language hint.
func LanguageCode(language string) string {
	code, ok := languageCodes[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return "zh-TW"
	}
	return code
}

// Service shells out to the transcription CLI. The tool prints the transcript
// on stdout; an empty stdout means no speech was recognized.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)
}

// NewService creates a transcription service with the given configuration.
func NewService(cfg Config) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "whisper-ctl"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	s.commandRunner = runner
}

// Transcribe runs the tool on one audio file and returns the lowercased
// transcript. Tool failures and timeouts are reported as errors; callers
// treat them as "no text for this window".
func (s *Service) Transcribe(ctx context.Context, audioPath, language string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", fmt.Errorf("transcribe: audio path required")
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	args := []string{"--output", "text"}
	if s.cfg.Model != "" {
		args = append(args, "--model", s.cfg.Model)
	}
	if code := LanguageCode(language); code != "" {
		args = append(args, "--language", code)
	}
	args = append(args, audioPath)

	output, err := s.run(runCtx, s.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}
	return strings.ToLower(strings.TrimSpace(output)), nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) (string, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
