package classify

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Score when no trained model is loaded.
// Callers treat it as "no hit from the adaptive method", never as fatal.
var ErrUnavailable = errors.New("adaptive classifier unavailable")

// Label values accepted for training samples.
const (
	LabelProfanity = "profanity"
	LabelNormal    = "normal"
)

// Sample is one labeled training example.
type Sample struct {
	AudioPath string `json:"audio_path"`
	Label     string `json:"label"`
}

// TrainReport summarizes a completed training run.
type TrainReport struct {
	Accuracy      float64 `json:"accuracy"`
	SampleCount   int     `json:"sample_count"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
}

// Status is the read-only model state fusion consumes.
type Status struct {
	Trained  bool    `json:"trained"`
	Accuracy float64 `json:"accuracy"`
}

// Scorer is the contract the pipeline needs from the classifier collaborator.
type Scorer interface {
	// Score returns the probability in [0,1] that the audio contains a
	// target utterance, or ErrUnavailable when no model is trained.
	Score(ctx context.Context, audioPath string) (float64, error)
	// Status reports whether a model is trained and how accurate it was.
	Status() Status
}

// Trainer extends Scorer with full-batch training. Callers pass the complete
// labeled set each time; there is no merge-with-history incremental path.
type Trainer interface {
	Scorer
	Train(ctx context.Context, samples []Sample) (TrainReport, error)
}
