package training

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"hushcut/internal/classify"
	"hushcut/internal/config"
	"hushcut/internal/detect"
	"hushcut/internal/logging"
	"hushcut/internal/media"
	"hushcut/internal/terms"
	"hushcut/internal/timeline"
	"hushcut/internal/transcribe"
)

// AnnotationsFileName is the annotations file written into a session directory.
const AnnotationsFileName = "annotations.yaml"

// clipSeconds is the length of each training clip. Short clips keep one
// utterance per sample so labels stay unambiguous.
const clipSeconds = 3.0

// Annotation is one clip awaiting or carrying an operator label.
type Annotation struct {
	Clip       string  `yaml:"clip"`
	Start      float64 `yaml:"start"`
	Transcript string  `yaml:"transcript"`
	Suggested  string  `yaml:"suggested"`
	Label      string  `yaml:"label"`
}

type annotationsFile struct {
	Source  string       `yaml:"source"`
	Samples []Annotation `yaml:"samples"`
}

// Session drives sample preparation and training.
type Session struct {
	cfg         *config.Config
	extractor   *media.Extractor
	transcriber transcribe.Transcriber
	trainer     classify.Trainer
	catalog     *terms.Catalog
	logger      *slog.Logger
}

// NewSession constructs a training session with the given collaborators.
func NewSession(cfg *config.Config, extractor *media.Extractor, transcriber transcribe.Transcriber, trainer classify.Trainer, catalog *terms.Catalog, logger *slog.Logger) *Session {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		cfg:         cfg,
		extractor:   extractor,
		transcriber: transcriber,
		trainer:     trainer,
		catalog:     catalog,
		logger:      logging.NewComponentLogger(logger, "training"),
	}
}

// PrepareSamples slices sourcePath into clips under sessionDir, transcribes
// each clip, and writes an annotations file with suggested labels. It returns
// the annotations file path.
func (s *Session) PrepareSamples(ctx context.Context, sourcePath, sessionDir string) (string, error) {
	probe, err := media.Probe(ctx, s.cfg.FFprobeBinary(), sourcePath)
	if err != nil {
		return "", fmt.Errorf("probe %s: %w", sourcePath, err)
	}
	total := probe.DurationSeconds()
	if total <= 0 {
		return "", fmt.Errorf("source %s has no duration", sourcePath)
	}
	if !probe.HasAudio() {
		return "", fmt.Errorf("source %s has no audio stream", sourcePath)
	}

	windows, err := timeline.Plan(total, clipSeconds, sourcePath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}

	annotations := annotationsFile{Source: sourcePath}
	for _, window := range windows {
		clipName := fmt.Sprintf("clip_%04d.wav", window.Index)
		clipPath := filepath.Join(sessionDir, clipName)
		if err := s.extractor.ExtractWindow(ctx, sourcePath, window.Start, window.Duration(), clipPath); err != nil {
			return "", fmt.Errorf("extract clip %d: %w", window.Index, err)
		}

		transcript, err := s.transcriber.Transcribe(ctx, clipPath, s.cfg.Detection.Language)
		if err != nil {
			s.logger.Warn("clip transcription failed, leaving transcript empty",
				logging.Int("clip", window.Index), logging.Error(err))
			transcript = ""
		}

		annotations.Samples = append(annotations.Samples, Annotation{
			Clip:       clipName,
			Start:      window.Start,
			Transcript: transcript,
			Suggested:  s.suggestLabel(transcript),
		})
	}

	path := filepath.Join(sessionDir, AnnotationsFileName)
	if err := writeAnnotations(path, annotations); err != nil {
		return "", err
	}
	s.logger.Info("training samples prepared",
		logging.Int("clips", len(annotations.Samples)),
		logging.String("annotations", path),
	)
	return path, nil
}

// suggestLabel proposes a label from the rule-based detectors so the operator
// starts from a reasonable default instead of a blank sheet.
func (s *Session) suggestLabel(transcript string) string {
	if transcript == "" {
		return classify.LabelNormal
	}
	if len(detect.MatchLexical(transcript, s.catalog)) > 0 {
		return classify.LabelProfanity
	}
	if len(detect.MatchFuzzy(transcript, s.catalog)) > 0 {
		return classify.LabelProfanity
	}
	return classify.LabelNormal
}

// Train reads a labeled annotations file and runs a full-batch training pass.
// Samples without a label fall back to their suggested label; samples with
// neither are skipped.
func (s *Session) Train(ctx context.Context, annotationsPath string) (classify.TrainReport, error) {
	file, err := readAnnotations(annotationsPath)
	if err != nil {
		return classify.TrainReport{}, err
	}

	dir := filepath.Dir(annotationsPath)
	samples := make([]classify.Sample, 0, len(file.Samples))
	for _, annotation := range file.Samples {
		label := strings.TrimSpace(strings.ToLower(annotation.Label))
		if label == "" {
			label = strings.TrimSpace(strings.ToLower(annotation.Suggested))
		}
		switch label {
		case classify.LabelProfanity, classify.LabelNormal:
		case "":
			continue
		default:
			return classify.TrainReport{}, fmt.Errorf("annotation %s: unknown label %q", annotation.Clip, label)
		}
		samples = append(samples, classify.Sample{
			AudioPath: filepath.Join(dir, annotation.Clip),
			Label:     label,
		})
	}

	report, err := s.trainer.Train(ctx, samples)
	if err != nil {
		return classify.TrainReport{}, err
	}
	s.logger.Info("classifier trained",
		logging.Int("samples", report.SampleCount),
		logging.Float64("accuracy", report.Accuracy),
	)
	return report, nil
}

func writeAnnotations(path string, file annotationsFile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode annotations: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	return nil
}

func readAnnotations(path string) (annotationsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return annotationsFile{}, fmt.Errorf("read annotations: %w", err)
	}
	var file annotationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return annotationsFile{}, fmt.Errorf("parse annotations %s: %w", path, err)
	}
	return file, nil
}
