package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"hushcut/internal/classify"
	"hushcut/internal/config"
	"hushcut/internal/detect"
	"hushcut/internal/logging"
	"hushcut/internal/media"
	"hushcut/internal/mute"
	"hushcut/internal/terms"
	"hushcut/internal/timeline"
	"hushcut/internal/transcribe"
)

// Deps bundles the collaborators a Pipeline drives.
type Deps struct {
	Extractor   *media.Extractor
	Transcriber transcribe.Transcriber
	Scorer      classify.Scorer
}

// Pipeline turns one source file into a finalized mute-segment list.
type Pipeline struct {
	cfg     *config.Config
	catalog *terms.Catalog
	deps    Deps
	logger  *slog.Logger
}

// Result is the outcome of one detection run.
type Result struct {
	Segments      []mute.Segment
	Summary       Summary
	TotalDuration float64
}

// Summary carries the per-run statistics surfaced to the operator.
type Summary struct {
	WindowCount     int
	SegmentCount    int
	MethodCounts    map[detect.Method]int
	AdaptiveStatus  classify.Status
	AdaptiveEnabled bool
}

// windowResult is one window's detection outcome, written into its slot by
// the worker that processed the window.
type windowResult struct {
	window timeline.Window
	text   string
	fused  *detect.Fused
}

// New constructs a Pipeline. A nil scorer disables the adaptive method.
func New(cfg *config.Config, catalog *terms.Catalog, deps Deps, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		catalog: catalog,
		deps:    deps,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the detection flow against sourcePath. The returned segment
// list is rebuilt from scratch on every call.
func (p *Pipeline) Run(ctx context.Context, sourcePath string) (*Result, error) {
	logger := logging.WithContext(ctx, p.logger)

	probe, err := media.Probe(ctx, p.cfg.FFprobeBinary(), sourcePath)
	if err != nil {
		return nil, fmt.Errorf("probe source: %w", err)
	}
	totalDuration := probe.DurationSeconds()
	if totalDuration <= 0 {
		return nil, fmt.Errorf("source %s reports no duration", sourcePath)
	}
	if !probe.HasAudio() {
		logger.Warn("source has no audio stream; nothing to mute",
			logging.String("source", sourcePath))
		return &Result{TotalDuration: totalDuration, Summary: Summary{MethodCounts: map[detect.Method]int{}}}, nil
	}

	windows, err := p.planWindows(totalDuration, sourcePath)
	if err != nil {
		return nil, err
	}

	workDir := filepath.Join(p.cfg.Paths.StagingDir, "run-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	audioPath := filepath.Join(workDir, "audio.wav")
	if err := p.deps.Extractor.ExtractAudio(ctx, sourcePath, audioPath); err != nil {
		return nil, fmt.Errorf("extract timeline audio: %w", err)
	}

	scorer, adaptiveStatus := p.resolveScorer(logger)

	logger.Info("detection run started",
		logging.String("source", sourcePath),
		logging.Float64("duration", totalDuration),
		logging.Int("windows", len(windows)),
		logging.Bool("adaptive", scorer != nil),
	)

	results := p.processWindows(ctx, logger, windows, audioPath, workDir, scorer)

	builder := mute.NewBuilder(p.cfg.Muting.PaddingSeconds, totalDuration)
	methodCounts := make(map[detect.Method]int)
	for _, result := range results {
		if result.fused == nil {
			continue
		}
		for _, method := range result.fused.Methods {
			methodCounts[method]++
		}
		p.addCandidates(builder, result)
	}

	segments := builder.Finalize()
	logger.Info("detection run finished",
		logging.Int("segments", len(segments)),
		logging.Int("windows", len(windows)),
	)

	return &Result{
		Segments:      segments,
		TotalDuration: totalDuration,
		Summary: Summary{
			WindowCount:     len(windows),
			SegmentCount:    len(segments),
			MethodCounts:    methodCounts,
			AdaptiveStatus:  adaptiveStatus,
			AdaptiveEnabled: scorer != nil,
		},
	}, nil
}

func (p *Pipeline) planWindows(totalDuration float64, source string) ([]timeline.Window, error) {
	if p.cfg.Windowing.Overlap {
		return timeline.PlanOverlap(totalDuration, p.cfg.Windowing.WindowSeconds, p.cfg.Windowing.OverlapSeconds, source)
	}
	return timeline.Plan(totalDuration, p.cfg.Windowing.WindowSeconds, source)
}

// resolveScorer decides once per run whether the adaptive method
// participates. An untrained model excludes adaptive from fusion for every
// window rather than failing each window individually.
func (p *Pipeline) resolveScorer(logger *slog.Logger) (classify.Scorer, classify.Status) {
	if !p.cfg.Detection.Adaptive || p.deps.Scorer == nil {
		return nil, classify.Status{}
	}
	status := p.deps.Scorer.Status()
	if !status.Trained {
		logger.Warn("adaptive detection requested but no trained model; continuing without it")
		return nil, status
	}
	return p.deps.Scorer, status
}

func (p *Pipeline) processWindows(ctx context.Context, logger *slog.Logger, windows []timeline.Window, audioPath, workDir string, scorer classify.Scorer) []windowResult {
	results := make([]windowResult, len(windows))

	workers := p.cfg.Detection.Workers
	if workers > len(windows) {
		workers = len(windows)
	}
	if workers < 1 {
		workers = 1
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = p.processWindow(ctx, logger, windows[i], audioPath, workDir, scorer)
			}
		}()
	}

	for i := range windows {
		select {
		case <-ctx.Done():
		case indexes <- i:
			continue
		}
		break
	}
	close(indexes)
	wg.Wait()

	return results
}

func (p *Pipeline) processWindow(ctx context.Context, logger *slog.Logger, window timeline.Window, audioPath, workDir string, scorer classify.Scorer) windowResult {
	result := windowResult{window: window}
	windowLogger := logger.With(logging.Int(logging.FieldWindowIndex, window.Index))

	chunkPath := filepath.Join(workDir, fmt.Sprintf("chunk_%04d.wav", window.Index))
	if err := p.deps.Extractor.ExtractWindow(ctx, audioPath, window.Start, window.Duration(), chunkPath); err != nil {
		windowLogger.Warn("window audio extraction failed; window contributes nothing", logging.Error(err))
		return result
	}

	text, err := p.deps.Transcriber.Transcribe(ctx, chunkPath, p.cfg.Detection.Language)
	if err != nil {
		windowLogger.Warn("transcription failed; treating window as silent", logging.Error(err))
		text = ""
	}
	result.text = text

	var hits []detect.Hit
	if text != "" {
		for _, term := range detect.MatchLexical(text, p.catalog) {
			hits = append(hits, detect.Hit{Method: detect.MethodLexical, Term: term})
		}
		if p.cfg.Detection.Fuzzy {
			for _, term := range detect.MatchFuzzy(text, p.catalog) {
				hits = append(hits, detect.Hit{Method: detect.MethodFuzzy, Term: term})
			}
		}
	}

	accuracy := 0.0
	if scorer != nil {
		probability, err := scorer.Score(ctx, chunkPath)
		switch {
		case errors.Is(err, classify.ErrUnavailable):
			// Model disappeared mid-run; skip the method for this window.
		case err != nil:
			windowLogger.Warn("adaptive scoring failed; excluding method for window", logging.Error(err))
		default:
			if hit, ok := detect.AdaptiveHit(probability); ok {
				hits = append(hits, hit)
			}
			windowLogger.Debug("adaptive score",
				logging.Float64("probability", probability),
				logging.String("band", string(detect.ClassifyProbability(probability))),
			)
		}
		accuracy = scorer.Status().Accuracy
	}

	if len(hits) == 0 {
		return result
	}

	fuser := detect.Fuser{AdaptiveWeight: p.cfg.Detection.AdaptiveWeight, Accuracy: accuracy}
	if fused, ok := fuser.Fuse(window, hits); ok {
		result.fused = &fused
		windowLogger.Info("window detection",
			logging.Float64("confidence", fused.Confidence),
			logging.Any("terms", fused.Terms),
			logging.Any("methods", fused.Methods),
		)
	}
	return result
}

// addCandidates translates one window's fused decision into mute candidates.
// In precise mode each matched term is located inside the transcript; terms
// that cannot be located (and term-less adaptive hits) contribute nothing.
// Otherwise the entire window is muted.
func (p *Pipeline) addCandidates(builder *mute.Builder, result windowResult) {
	fused := *result.fused
	if !p.cfg.Muting.Precise {
		builder.Add(mute.WholeWindow(fused))
		return
	}
	for _, term := range fused.Terms {
		for _, span := range detect.LocateTerm(result.text, term, result.window) {
			builder.Add(mute.Candidate{
				Window:     result.window,
				Start:      span.Start,
				End:        span.End,
				Confidence: fused.Confidence,
				Terms:      []string{term},
				Methods:    fused.Methods,
			})
		}
	}
}

// OutputPath derives the cleaned output location for a source file.
func OutputPath(cfg *config.Config, sourcePath string) string {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".mp4"
	}
	return filepath.Join(cfg.Paths.OutputDir, name+cfg.Muting.OutputSuffix+ext)
}
