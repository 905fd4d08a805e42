package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hushcut/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Windowing.WindowSeconds != 10 {
		t.Errorf("window seconds %v, want 10", cfg.Windowing.WindowSeconds)
	}
	if cfg.Detection.AdaptiveWeight != 0.3 {
		t.Errorf("adaptive weight %v, want 0.3", cfg.Detection.AdaptiveWeight)
	}
	if cfg.Muting.PaddingSeconds != 0.5 {
		t.Errorf("padding %v, want 0.5", cfg.Muting.PaddingSeconds)
	}
	if !cfg.Muting.Precise {
		t.Error("precise muting should default on")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			"zero window",
			func(c *config.Config) { c.Windowing.WindowSeconds = 0 },
			"window_seconds",
		},
		{
			"overlap too large",
			func(c *config.Config) {
				c.Windowing.Overlap = true
				c.Windowing.OverlapSeconds = 10
			},
			"overlap_seconds",
		},
		{
			"negative overlap",
			func(c *config.Config) { c.Windowing.OverlapSeconds = -1 },
			"overlap_seconds",
		},
		{
			"adaptive weight zero",
			func(c *config.Config) { c.Detection.AdaptiveWeight = 0 },
			"adaptive_weight",
		},
		{
			"adaptive weight one",
			func(c *config.Config) { c.Detection.AdaptiveWeight = 1 },
			"adaptive_weight",
		},
		{
			"no workers",
			func(c *config.Config) { c.Detection.Workers = 0 },
			"workers",
		},
		{
			"negative padding",
			func(c *config.Config) { c.Muting.PaddingSeconds = -1 },
			"padding_seconds",
		},
		{
			"bad log format",
			func(c *config.Config) { c.Logging.Format = "xml" },
			"logging.format",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[windowing]
window_seconds = 8.0
overlap = true
overlap_seconds = 1.5

[detection]
adaptive_weight = 0.4
workers = 2
language = "english"

[muting]
precise = false
padding_seconds = 1.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Windowing.WindowSeconds != 8 {
		t.Errorf("window seconds %v, want 8", cfg.Windowing.WindowSeconds)
	}
	if !cfg.Windowing.Overlap || cfg.Windowing.OverlapSeconds != 1.5 {
		t.Errorf("overlap settings %v/%v", cfg.Windowing.Overlap, cfg.Windowing.OverlapSeconds)
	}
	if cfg.Detection.Language != "english" {
		t.Errorf("language %q", cfg.Detection.Language)
	}
	if cfg.Muting.Precise {
		t.Error("precise should be off")
	}
	// Unset sections keep their defaults.
	if cfg.Transcriber.Binary != "whisper-ctl" {
		t.Errorf("transcriber binary %q", cfg.Transcriber.Binary)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if cfg.Windowing.WindowSeconds != 10 {
		t.Errorf("expected defaults, got window %v", cfg.Windowing.WindowSeconds)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{
			"negative window",
			"[windowing]\nwindow_seconds = -3.0\n",
			"window_seconds",
		},
		{
			"zero window",
			"[windowing]\nwindow_seconds = 0.0\n",
			"window_seconds",
		},
		{
			"negative overlap",
			"[windowing]\noverlap_seconds = -2.0\n",
			"overlap_seconds",
		},
		{
			"overlap not below window",
			"[windowing]\nwindow_seconds = 5.0\noverlap = true\noverlap_seconds = 5.0\n",
			"overlap_seconds",
		},
		{
			"negative padding",
			"[muting]\npadding_seconds = -0.5\n",
			"padding_seconds",
		},
		{
			"zero workers",
			"[detection]\nworkers = 0\n",
			"workers",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected load to reject the file")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestWriteSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config does not load cleanly: exists=%v err=%v", exists, err)
	}
}
