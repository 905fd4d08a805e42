package render

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"hushcut/internal/mute"
)

// Renderer produces the muted output file with ffmpeg.
type Renderer struct {
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewRenderer returns a Renderer using the given ffmpeg binary.
func NewRenderer(ffmpegBinary string) *Renderer {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Renderer{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (r *Renderer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	r.commandRunner = runner
}

// Render writes outputPath from sourcePath with every segment muted.
// Overlapping segments are safe: later ranges re-assert mute over already
// muted time. No segments degenerates to a stream copy.
func (r *Renderer) Render(ctx context.Context, sourcePath string, segments []mute.Segment, outputPath string) error {
	if strings.TrimSpace(sourcePath) == "" {
		return fmt.Errorf("render: source path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return fmt.Errorf("render: output path required")
	}

	var args []string
	if len(segments) == 0 {
		args = []string{
			"-y", "-hide_banner", "-loglevel", "error",
			"-i", sourcePath,
			"-c", "copy",
			outputPath,
		}
	} else {
		args = []string{
			"-y", "-hide_banner", "-loglevel", "error",
			"-i", sourcePath,
			"-filter:a", MuteFilter(segments),
			"-c:v", "copy",
			"-c:a", "aac",
			outputPath,
		}
	}

	if err := r.run(ctx, args); err != nil {
		return fmt.Errorf("render %s: %w", sourcePath, err)
	}
	return nil
}

// MuteFilter builds the ffmpeg audio filter muting every segment.
func MuteFilter(segments []mute.Segment) string {
	filters := make([]string, 0, len(segments))
	for _, segment := range segments {
		filters = append(filters, fmt.Sprintf("volume=0:enable='between(t,%s,%s)'",
			formatTime(segment.Start), formatTime(segment.End)))
	}
	return strings.Join(filters, ",")
}

func formatTime(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func (r *Renderer) run(ctx context.Context, args []string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, r.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, r.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", r.ffmpegBinary, err, strings.TrimSpace(string(output)))
	}
	return nil
}
