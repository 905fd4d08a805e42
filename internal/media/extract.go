package media

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes an external command. Implementations used in tests
// can record the invocation instead of running ffmpeg.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Extractor cuts waveform audio out of a source container with ffmpeg.
type Extractor struct {
	ffmpegBinary  string
	commandRunner CommandRunner
}

// NewExtractor returns an Extractor using the given ffmpeg binary.
func NewExtractor(ffmpegBinary string) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Extractor{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner CommandRunner) {
	e.commandRunner = runner
}

// ExtractAudio extracts the first audio stream from source into a mono
// 16kHz WAV file at dest, suitable for transcription and classification.
func (e *Extractor) ExtractAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := e.run(ctx, args); err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	return nil
}

// ExtractWindow cuts the [startSec, startSec+durationSec) range of a WAV
// file into dest.
func (e *Extractor) ExtractWindow(ctx context.Context, source string, startSec, durationSec float64, dest string) error {
	if durationSec <= 0 {
		return fmt.Errorf("extract window: invalid duration %v", durationSec)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(startSec),
		"-t", formatSeconds(durationSec),
		"-i", source,
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	if err := e.run(ctx, args); err != nil {
		return fmt.Errorf("extract window: %w", err)
	}
	return nil
}

func (e *Extractor) run(ctx context.Context, args []string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, e.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, e.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", e.ffmpegBinary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func formatSeconds(value float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", value), "0"), ".")
}
