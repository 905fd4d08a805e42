package config

import (
	"fmt"
	"strings"
)

// normalize expands paths and fills unset string fields. Numeric tuning
// values (window, overlap, padding, workers, weight) are left untouched:
// Default seeds them before decoding, so a bad value was written
// deliberately and Validate rejects it.
func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeClassifier(); err != nil {
		return err
	}
	c.normalizeDetection()
	c.normalizeMuting()
	c.normalizeTranscriber()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TermsFile) != "" {
		if c.Paths.TermsFile, err = expandPath(c.Paths.TermsFile); err != nil {
			return fmt.Errorf("paths.terms_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeClassifier() error {
	if strings.TrimSpace(c.Classifier.Binary) == "" {
		c.Classifier.Binary = defaultClassifierBinary
	}
	if strings.TrimSpace(c.Classifier.ModelPath) == "" {
		c.Classifier.ModelPath = defaultClassifierModel
	}
	var err error
	if c.Classifier.ModelPath, err = expandPath(c.Classifier.ModelPath); err != nil {
		return fmt.Errorf("classifier.model_path: %w", err)
	}
	if c.Classifier.TimeoutSeconds <= 0 {
		c.Classifier.TimeoutSeconds = defaultClassifierTimeout
	}
	return nil
}

func (c *Config) normalizeDetection() {
	c.Detection.Language = strings.ToLower(strings.TrimSpace(c.Detection.Language))
	if c.Detection.Language == "" {
		c.Detection.Language = defaultDetectionLanguage
	}
}

func (c *Config) normalizeMuting() {
	if strings.TrimSpace(c.Muting.OutputSuffix) == "" {
		c.Muting.OutputSuffix = defaultOutputSuffix
	}
}

func (c *Config) normalizeTranscriber() {
	if strings.TrimSpace(c.Transcriber.Binary) == "" {
		c.Transcriber.Binary = defaultTranscriberBinary
	}
	if strings.TrimSpace(c.Transcriber.Model) == "" {
		c.Transcriber.Model = defaultTranscriberModel
	}
	if c.Transcriber.TimeoutSeconds <= 0 {
		c.Transcriber.TimeoutSeconds = defaultTranscriberTimeout
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
