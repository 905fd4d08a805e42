// Package main hosts the hushcut CLI entrypoint and command graph.
//
// The Cobra-based command tree covers one-shot file processing, queue
// maintenance, the background daemon, classifier training sessions, and
// configuration scaffolding. It centralizes configuration resolution and
// logger setup so subcommands can focus on user experience instead of wiring.
package main
