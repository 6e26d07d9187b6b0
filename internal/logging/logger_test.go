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
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "WARNING", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"mixed case Trace", "Trace", LevelTrace},
		{"unknown defaults to info", "verbose", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtTrace bool
		logAtDebug bool
		logAtInfo  bool
	}{
		{"warn filters info", "warn", false, false, false},
		{"info filters debug", "info", false, false, true},
		{"debug passes debug", "debug", false, true, true},
		{"trace passes everything", "trace", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Log(t.Context(), LevelTrace, "trace message")
			if got := strings.Contains(buf.String(), "trace message"); got != tt.logAtTrace {
				t.Errorf("trace visible = %v, want %v", got, tt.logAtTrace)
			}

			buf.Reset()
			logger.Debug("debug message")
			if got := strings.Contains(buf.String(), "debug message"); got != tt.logAtDebug {
				t.Errorf("debug visible = %v, want %v", got, tt.logAtDebug)
			}

			buf.Reset()
			logger.Info("info message")
			if got := strings.Contains(buf.String(), "info message"); got != tt.logAtInfo {
				t.Errorf("info visible = %v, want %v", got, tt.logAtInfo)
			}
		})
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(t.Context(), LevelTrace, "tick", "attempt", 7)
	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE label, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic and must not be enabled at any normal level.
	l := Discard()
	if l.Enabled(t.Context(), slog.LevelError) {
		t.Error("Discard logger should not be enabled")
	}
}

func TestNewEventLogger_InfoLevel(t *testing.T) {
	dir := t.TempDir()
	el := NewEventLogger(dir, "info")
	if el != nil {
		t.Fatal("expected nil EventLogger at info level")
	}

	el.Log(RunEvent{Event: "run_started"})
	el.Close()

	if _, err := os.Stat(filepath.Join(dir, "runs.jsonl")); err == nil {
		t.Error("runs.jsonl should not exist at info level")
	}
}

func TestEventLogger_WritesLines(t *testing.T) {
	dir := t.TempDir()
	el := NewEventLogger(dir, "debug")
	if el == nil {
		t.Fatal("expected EventLogger at debug level")
	}
	defer el.Close()

	cracked := true
	el.Log(RunEvent{Event: "run_started", Mode: "dictionary", Ceiling: 10})
	el.Log(RunEvent{Event: "run_finished", Cracked: &cracked, Attempts: 2, Millis: 15})

	data, err := os.ReadFile(filepath.Join(dir, "runs.jsonl"))
	if err != nil {
		t.Fatalf("read runs.jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}

	var first, second map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("parse line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("parse line 2: %v", err)
	}
	if first["event"] != "run_started" || first["mode"] != "dictionary" {
		t.Errorf("first = %v", first)
	}
	if _, ok := first["time"]; !ok {
		t.Error("expected time field")
	}
	if second["cracked"] != true || second["attempts"] != float64(2) {
		t.Errorf("second = %v", second)
	}
	if _, ok := first["cracked"]; ok {
		t.Error("cracked should be omitted when unset")
	}
}

func TestEventLogger_CreatesDirWithPermissions(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	el := NewEventLogger(dir, "trace")
	if el == nil {
		t.Fatal("expected EventLogger when dir needs creation")
	}
	defer el.Close()
	el.Log(RunEvent{Event: "perm"})

	info, err := os.Stat(filepath.Join(dir, "runs.jsonl"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}
}

func TestEventLogger_LogAfterClose(t *testing.T) {
	el := NewEventLogger(t.TempDir(), "debug")
	el.Close()
	el.Close()
	el.Log(RunEvent{Event: "after_close"})
}
