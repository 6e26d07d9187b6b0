package attack

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// State is the lifecycle position of an Engine.
type State int

const (
	// StateIdle holds no result. Engines start here and return here on Reset.
	StateIdle State = iota
	// StateRunning means a run is executing.
	StateRunning
	// StateCracked holds the Result of a run that found the target.
	StateCracked
	// StateExhausted holds the Result of a run that used its budget without a match.
	StateExhausted
	// StateCancelled holds the partial Result of a cancelled run.
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCracked:
		return "cracked"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether s holds a Result.
func (s State) Terminal() bool {
	return s == StateCracked || s == StateExhausted || s == StateCancelled
}

// Engine runs one Config at a time and remembers the outcome until Reset.
// It is safe for concurrent use.
type Engine struct {
	runner Runner

	mu     sync.Mutex
	state  State
	result Result
	run    *Run

	progress atomic.Int64
}

// NewEngine creates an idle engine that executes runs with r.
func NewEngine(r Runner) *Engine {
	return &Engine{runner: r}
}

// Run is a handle on a started run.
type Run struct {
	cancel context.CancelFunc
	done   chan struct{}
	result Result
	err    error
}

// Done is closed when the run has produced its Result.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes and returns its Result. It returns the
// same values no matter how many times it is called.
func (r *Run) Wait() (Result, error) {
	<-r.done
	return r.result, r.err
}

// Cancel asks the run to stop at its next suspension point.
func (r *Run) Cancel() {
	r.cancel()
}

// Start validates cfg and launches it on a new goroutine. Configuration
// errors are returned synchronously and leave the engine untouched. Starting
// while another run is executing returns ErrRunInProgress; starting from a
// terminal state discards the previous Result.
//
// onProgress, if non-nil, is called on the run goroutine for every attempt.
// Cancelling ctx cancels the run.
func (e *Engine) Start(ctx context.Context, cfg Config, onProgress func(Progress)) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return nil, ErrRunInProgress
	}
	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{cancel: cancel, done: make(chan struct{})}
	e.state = StateRunning
	e.result = Result{}
	e.run = run
	e.progress.Store(0)
	e.mu.Unlock()

	go func() {
		defer cancel()
		res, err := e.runner.run(runCtx, cfg, func(p Progress) bool {
			e.progress.Store(int64(p.Attempt))
			if onProgress != nil {
				onProgress(p)
			}
			return true
		})
		e.finish(run, res, err)
	}()

	return run, nil
}

func (e *Engine) finish(run *Run, res Result, err error) {
	e.mu.Lock()
	switch {
	case errors.Is(err, ErrCancelled):
		e.state = StateCancelled
	case res.Cracked:
		e.state = StateCracked
	default:
		e.state = StateExhausted
	}
	e.result = res
	e.run = nil
	e.mu.Unlock()

	run.result, run.err = res, err
	close(run.done)
}

// Cancel stops the executing run, if any. It does not wait for it to finish.
func (e *Engine) Cancel() {
	e.mu.Lock()
	run := e.run
	e.mu.Unlock()
	if run != nil {
		run.Cancel()
	}
}

// Reset discards the held Result and progress and returns the engine to
// StateIdle. It fails with ErrRunInProgress while a run is executing.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		return ErrRunInProgress
	}
	e.state = StateIdle
	e.result = Result{}
	e.progress.Store(0)
	return nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Result returns the held Result. ok is false unless the engine is in a
// terminal state.
func (e *Engine) Result() (res Result, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Terminal() {
		return Result{}, false
	}
	return e.result, true
}

// Progress returns the latest attempt number of the current or last run, or
// 0 when idle.
func (e *Engine) Progress() int {
	return int(e.progress.Load())
}
