package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DEBUG", slog.LevelDebug},
		{"unknown defaults to info", "trace", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.level); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug/info to be filtered at warn level, got: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("expected warn/error to be logged, got: %s", out)
	}
}

func TestNewProducesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", &buf)

	log.Info("hello", "samples", 42)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "hello" {
		t.Errorf("expected msg=hello, got %v", record["msg"])
	}
	if record["samples"] != float64(42) {
		t.Errorf("expected samples=42, got %v", record["samples"])
	}
}

func TestNewTextWritesOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewText("info", &buf)

	log.Info("selected node", "score", -0.5)

	out := buf.String()
	if !strings.Contains(out, "selected node") {
		t.Errorf("expected message in text output, got: %s", out)
	}
}

func TestSetDefault(t *testing.T) {
	original := Default
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(New("debug", &buf))

	Debug("via package helper")
	if !strings.Contains(buf.String(), "via package helper") {
		t.Errorf("expected package-level Debug to use the new default, got: %s", buf.String())
	}
}

func TestWith(t *testing.T) {
	original := Default
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(New("info", &buf))

	With("run_id", "abc").Info("starting")

	out := buf.String()
	if !strings.Contains(out, "run_id") || !strings.Contains(out, "abc") {
		t.Errorf("expected run_id attribute in output, got: %s", out)
	}
}
