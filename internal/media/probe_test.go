package media_test

import (
	"encoding/json"
	"testing"

	"hushcut/internal/media"
)

func TestProbeResultDuration(t *testing.T) {
	var result media.ProbeResult
	payload := `{
        "format": {"duration": "95.5"},
        "streams": [{"codec_type": "video", "duration": "95.4"}]
    }`
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := result.DurationSeconds(); got != 95.5 {
		t.Fatalf("duration %v, want format duration 95.5", got)
	}
}

func TestProbeResultDurationFallsBackToStreams(t *testing.T) {
	var result media.ProbeResult
	payload := `{
        "format": {},
        "streams": [
            {"codec_type": "audio", "duration": ""},
            {"codec_type": "video", "duration": "95.4"}
        ]
    }`
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := result.DurationSeconds(); got != 95.4 {
		t.Fatalf("duration %v, want stream duration 95.4", got)
	}
}

func TestProbeResultHasAudio(t *testing.T) {
	var withAudio media.ProbeResult
	if err := json.Unmarshal([]byte(`{"streams": [{"codec_type": "audio"}]}`), &withAudio); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !withAudio.HasAudio() {
		t.Fatal("expected audio stream")
	}

	var videoOnly media.ProbeResult
	if err := json.Unmarshal([]byte(`{"streams": [{"codec_type": "video"}]}`), &videoOnly); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if videoOnly.HasAudio() {
		t.Fatal("video-only source must report no audio")
	}
}
