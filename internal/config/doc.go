// Package config loads, normalizes, and validates hushcut configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// pipeline and CLI need: windowing strategy, detector toggles, fusion tuning,
// mute padding, and the external transcriber/classifier tools.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
// Invalid window/overlap/weight parameters are rejected here before any
// processing starts.
package config
