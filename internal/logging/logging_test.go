package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"WARNING", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewFansOut(t *testing.T) {
	var stderr bytes.Buffer
	file := filepath.Join(t.TempDir(), "logs", "app.jsonl")

	logger, closer, err := New(Options{Level: "info", File: file, Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown", "blocks", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if strings.Contains(stderr.String(), "hidden") || !strings.Contains(stderr.String(), "blocks=3") {
		t.Errorf("stderr = %q", stderr.String())
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file is not JSON lines: %v\n%s", err, data)
	}
	if rec["msg"] != "shown" {
		t.Errorf("record = %v", rec)
	}
}

func TestSetLevelAppliesToExistingLoggers(t *testing.T) {
	var stderr bytes.Buffer
	logger, closer, err := New(Options{Level: "error", Stderr: &stderr})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	logger.Info("before")
	SetLevel(slog.LevelDebug)
	logger.Debug("after")
	if Level() != slog.LevelDebug {
		t.Errorf("Level() = %v", Level())
	}
	if strings.Contains(stderr.String(), "before") || !strings.Contains(stderr.String(), "after") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("stream.id-2"); got != "STREAM_ID_2" {
		t.Errorf("toJournalKey = %q", got)
	}
}
