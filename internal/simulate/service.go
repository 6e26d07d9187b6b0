// Package simulate runs attacks on behalf of the CLI, HTTP and MCP front
// ends and records what happened: a run-event trail, a history record and
// an optional broker message per completed run.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/history"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/logging"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/publish"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/sanitize"
)

// Service executes runs and records their outcome. Store, Sink and Events
// are optional.
type Service struct {
	Runner attack.Runner
	Store  history.Store
	Sink   publish.Sink
	Events *logging.EventLogger
	Logger *slog.Logger

	// Now stamps Record.StartedAt. Defaults to time.Now.
	Now func() time.Time
}

// Report is the outcome of one Run.
type Report struct {
	Result attack.Result
	Record history.Record
}

// Run validates cfg, executes it and records the outcome. onProgress may be
// nil. A cancelled run is still recorded; its Report is returned together
// with the error wrapping attack.ErrCancelled. Recording failures are logged
// and never fail the run.
func (s *Service) Run(ctx context.Context, source string, cfg attack.Config, onProgress func(attack.Progress)) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	logger := s.logger()
	now := s.Now
	if now == nil {
		now = time.Now
	}

	runID := uuid.NewString()
	startedAt := now()
	logger.Debug("run started",
		"run_id", runID, "source", source, "mode", cfg.Mode, "encoding", cfg.Encoding,
		"ceiling", cfg.Ceiling, "target", sanitize.Mask(cfg.Target))
	s.Events.Log(logging.RunEvent{
		Event:    "run_started",
		RunID:    runID,
		Source:   source,
		Mode:     cfg.Mode.String(),
		Encoding: cfg.Encoding.String(),
		Target:   sanitize.Mask(cfg.Target),
		Ceiling:  cfg.Ceiling,
	})

	res, runErr := s.Runner.Execute(ctx, cfg, func(p attack.Progress) {
		logger.Log(ctx, logging.LevelTrace, "progress", "run_id", runID, "attempt", p.Attempt)
		if onProgress != nil {
			onProgress(p)
		}
	})
	if runErr != nil && !errors.Is(runErr, attack.ErrCancelled) {
		return Report{}, fmt.Errorf("run %s: %w", runID, runErr)
	}

	rec := history.NewRecord(runID, source, cfg, res, runErr, startedAt)

	event := "run_finished"
	if rec.Cancelled {
		event = "run_cancelled"
	}
	cracked := res.Cracked
	ev := logging.RunEvent{
		Event:    event,
		RunID:    runID,
		Source:   source,
		Mode:     rec.Mode,
		Encoding: rec.Encoding,
		Ceiling:  rec.Ceiling,
		Cracked:  &cracked,
		Attempts: res.Attempts,
		Millis:   res.ElapsedMillis(),
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}
	s.Events.Log(ev)
	logger.Info("run "+rec.Outcome(),
		"run_id", runID, "mode", rec.Mode, "attempts", res.Attempts, "elapsed", res.Elapsed)

	// Record even when ctx is already cancelled.
	recordCtx := context.WithoutCancel(ctx)
	if s.Store != nil {
		if err := s.Store.Add(recordCtx, rec); err != nil {
			logger.Warn("failed to record run", "run_id", runID, "error", err)
		}
	}
	if s.Sink != nil {
		if err := s.Sink.Publish(recordCtx, rec); err != nil {
			logger.Warn("failed to publish run", "run_id", runID, "error", err)
		}
	}

	return Report{Result: res, Record: rec}, runErr
}

// WithRunner returns a copy of s that executes with r and shares its
// Store, Sink and Events.
func (s *Service) WithRunner(r attack.Runner) *Service {
	c := *s
	c.Runner = r
	return &c
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.Discard()
	}
	return s.Logger
}

// PercentSteps wraps onProgress so it fires only when the whole-number
// completion percentage changes, plus once for the first attempt. A run
// of any ceiling then produces at most 101 calls.
func PercentSteps(ceiling int, onProgress func(attack.Progress)) func(attack.Progress) {
	last := -1
	return func(p attack.Progress) {
		pct := int(attack.Percent(p.Attempt, ceiling))
		if pct == last {
			return
		}
		last = pct
		onProgress(p)
	}
}
