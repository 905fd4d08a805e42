package testsupport

import (
	"path/filepath"
	"testing"

	"hushcut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Workflow.QueuePollInterval = 1
	cfg.Workflow.ErrorRetryInterval = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithLanguage overrides the transcription language on the test config.
func WithLanguage(language string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Detection.Language = language
	}
}

// WithPrecise toggles word-level segment timing on the test config.
func WithPrecise(precise bool) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Muting.Precise = precise
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
