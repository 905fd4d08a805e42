// Package logging builds the slog loggers used across hushcut.
//
// It provides a human-oriented console handler (colored when stdout is a
// terminal), a JSON handler for machine consumption, fanout across multiple
// writers, standardized attribute helpers, and context-derived fields so the
// job ID and stage travel with every record emitted during a pipeline run.
package logging
