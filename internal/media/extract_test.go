package media_test

import (
	"context"
	"testing"

	"hushcut/internal/media"
)

func TestExtractAudioArguments(t *testing.T) {
	extractor := media.NewExtractor("ffmpeg")

	var gotName string
	var gotArgs []string
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	if err := extractor.ExtractAudio(context.Background(), "/media/movie.mp4", "/tmp/audio.wav"); err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("binary %q", gotName)
	}
	assertArgPair(t, gotArgs, "-i", "/media/movie.mp4")
	assertArgPair(t, gotArgs, "-ac", "1")
	assertArgPair(t, gotArgs, "-ar", "16000")
	assertArgPair(t, gotArgs, "-c:a", "pcm_s16le")
	if gotArgs[len(gotArgs)-1] != "/tmp/audio.wav" {
		t.Fatalf("destination %q", gotArgs[len(gotArgs)-1])
	}
}

func TestExtractWindowArguments(t *testing.T) {
	extractor := media.NewExtractor("")

	var gotArgs []string
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if name != "ffmpeg" {
			t.Fatalf("empty binary must default to ffmpeg, got %q", name)
		}
		gotArgs = args
		return nil
	})

	if err := extractor.ExtractWindow(context.Background(), "/tmp/audio.wav", 12.5, 10, "/tmp/window.wav"); err != nil {
		t.Fatalf("ExtractWindow failed: %v", err)
	}
	assertArgPair(t, gotArgs, "-ss", "12.5")
	assertArgPair(t, gotArgs, "-t", "10")
	assertArgPair(t, gotArgs, "-i", "/tmp/audio.wav")
}

func TestExtractWindowRejectsNonPositiveDuration(t *testing.T) {
	extractor := media.NewExtractor("ffmpeg")
	extractor.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("command must not run for invalid duration")
		return nil
	})

	if err := extractor.ExtractWindow(context.Background(), "/tmp/audio.wav", 0, 0, "/tmp/window.wav"); err == nil {
		t.Fatal("expected error")
	}
}

func assertArgPair(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			if args[i+1] != value {
				t.Fatalf("%s = %q, want %q", flag, args[i+1], value)
			}
			return
		}
	}
	t.Fatalf("flag %s not found in %v", flag, args)
}
