package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hushcut/internal/logging"
	"hushcut/internal/services"
)

func TestNewJSONLoggerWritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	logging.NewComponentLogger(logger, "pipeline").Info("detection run started",
		logging.Int("windows", 3),
		logging.Float64("duration", 30.0),
	)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if record["msg"] != "detection run started" {
		t.Fatalf("record %v", record)
	}
	if record[logging.FieldComponent] != "pipeline" {
		t.Fatalf("component attr missing: %v", record)
	}
	if record["windows"] != float64(3) {
		t.Fatalf("windows attr missing: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(logging.Options{Format: "xml"})
	if err == nil {
		t.Fatal("unknown format accepted")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Fatalf("error should name the rejected format: %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Fatalf("info record leaked past warn level:\n%s", data)
	}
	if !strings.Contains(string(data), "kept") {
		t.Fatalf("warn record missing:\n%s", data)
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	ctx := services.WithRequestID(services.WithStage(services.WithJobID(context.Background(), 7), "detect"), "req-9")
	logging.WithContext(ctx, logger).Info("stage started")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if record[logging.FieldJobID] != float64(7) {
		t.Fatalf("job id missing: %v", record)
	}
	if record[logging.FieldStage] != "detect" {
		t.Fatalf("stage missing: %v", record)
	}
	if record[logging.FieldCorrelationID] != "req-9" {
		t.Fatalf("correlation id missing: %v", record)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger == nil {
		t.Fatal("NewNop returned nil")
	}
	logger.Error("must not panic", logging.Error(nil))
}
