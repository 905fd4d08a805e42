// Package classify adapts the external learned audio classifier.
//
// The model itself (feature extraction, training, persistence) lives in the
// external tool; this package only consumes a trained model's probability
// output and its recorded training accuracy, which fusion uses to discount
// adaptive confidence. Training and scoring are serialized here: a train call
// holds the writer lock, so in-flight score calls always observe a complete
// model snapshot and never a half-swapped one.
package classify
