package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"hushcut/internal/classify"
	"hushcut/internal/config"
	"hushcut/internal/logging"
	"hushcut/internal/media"
	"hushcut/internal/pipeline"
	"hushcut/internal/queue"
	"hushcut/internal/terms"
	"hushcut/internal/transcribe"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withStore(fn func(*config.Config, *queue.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := queue.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}

// buildLogger constructs the shared logger for foreground commands. Quiet
// commands pass a level override so tables stay readable.
func buildLogger(cfg *config.Config, level string) (*slog.Logger, error) {
	if level == "" {
		return logging.NewFromConfig(cfg)
	}
	return logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
	})
}

// collaborators bundles the external tool adapters the pipeline needs.
type collaborators struct {
	catalog     *terms.Catalog
	extractor   *media.Extractor
	transcriber *transcribe.Service
	classifier  *classify.Client
}

func buildCollaborators(cfg *config.Config) (collaborators, error) {
	catalog, err := terms.Load(cfg.Paths.TermsFile)
	if err != nil {
		return collaborators{}, err
	}
	return collaborators{
		catalog:   catalog,
		extractor: media.NewExtractor(cfg.FFmpegBinary()),
		transcriber: transcribe.NewService(transcribe.Config{
			Binary:  cfg.Transcriber.Binary,
			Model:   cfg.Transcriber.Model,
			Timeout: time.Duration(cfg.Transcriber.TimeoutSeconds) * time.Second,
		}),
		classifier: classify.NewClient(classify.Config{
			Binary:    cfg.Classifier.Binary,
			ModelPath: cfg.Classifier.ModelPath,
			Timeout:   time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		}),
	}, nil
}

func buildPipeline(cfg *config.Config, collab collaborators, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(cfg, collab.catalog, pipeline.Deps{
		Extractor:   collab.extractor,
		Transcriber: collab.transcriber,
		Scorer:      collab.classifier,
	}, logger)
}
