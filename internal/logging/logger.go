// Package logging provides leveled logging and a run-event trail for attacksim.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - An EventLogger appending one JSON object per run event to runs.jsonl
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug. At this level every
// progress tick of a run is logged.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "warn", "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// RunEvent is one line of runs.jsonl.
type RunEvent struct {
	Event    string `json:"event"`
	RunID    string `json:"run_id,omitempty"`
	Source   string `json:"source,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Encoding string `json:"encoding,omitempty"`
	Target   string `json:"target,omitempty"`
	Ceiling  int    `json:"ceiling,omitempty"`
	Cracked  *bool  `json:"cracked,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
	Millis   int64  `json:"elapsed_ms,omitempty"`
	Error    string `json:"error,omitempty"`
	Time     string `json:"time"`
}

// EventLogger appends RunEvents to a JSONL file.
// It is safe for concurrent use. A nil EventLogger is valid and does nothing.
type EventLogger struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewEventLogger opens dir/runs.jsonl for append when level is debug or
// trace. At info level it returns nil and no file is created. It also
// returns nil if the file cannot be opened.
func NewEventLogger(dir string, level string) *EventLogger {
	if ParseLevel(level) > slog.LevelDebug {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, "runs.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &EventLogger{file: f, now: time.Now}
}

// Log writes ev as a single line, stamping Time if it is empty.
func (l *EventLogger) Log(ev RunEvent) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}
	if ev.Time == "" {
		ev.Time = l.now().UTC().Format(time.RFC3339Nano)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = l.file.Write(append(data, '\n'))
}

// Close closes the underlying file. Safe on a nil receiver and idempotent.
func (l *EventLogger) Close() {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}
