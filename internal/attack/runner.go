package attack

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/toyhash"
)

// DefaultYieldEvery is the brute-force suspension cadence: the policy yields
// on every candidate whose index within its length tier is a multiple of it.
const DefaultYieldEvery = 100

// Runner executes runs. The zero value never pauses and uses time.Now.
type Runner struct {
	// Pacing selects the Yielder per mode. Nil entries mean NoYield.
	Pacing Pacing

	// YieldEvery overrides DefaultYieldEvery when positive.
	YieldEvery int

	// Now is the clock used for Result.Elapsed. Defaults to time.Now.
	Now func() time.Time
}

// emitFunc delivers a Progress and reports whether the run should continue.
type emitFunc func(Progress) bool

// Execute runs cfg synchronously with a zero Runner.
func Execute(ctx context.Context, cfg Config, onProgress func(Progress)) (Result, error) {
	return Runner{}.Execute(ctx, cfg, onProgress)
}

// Stream runs cfg with a zero Runner. See Runner.Stream.
func Stream(ctx context.Context, cfg Config) iter.Seq2[Event, error] {
	return Runner{}.Stream(ctx, cfg)
}

// Execute validates cfg and runs it on the calling goroutine. onProgress may
// be nil; when set it is called synchronously once per evaluated candidate.
//
// A cracked or exhausted run returns a nil error. A cancelled run returns the
// partial Result and an error wrapping ErrCancelled and the context error.
func (r Runner) Execute(ctx context.Context, cfg Config, onProgress func(Progress)) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	return r.run(ctx, cfg, func(p Progress) bool {
		if onProgress != nil {
			onProgress(p)
		}
		return true
	})
}

// Stream validates cfg and returns an iterator over the run. Each Progress is
// yielded as an Event with a nil error, and the final Event carries the
// Result. A validation failure yields a single zero Event with the error; a
// cancelled run yields its partial Result with the cancellation error.
// Breaking out of the loop stops the run immediately.
func (r Runner) Stream(ctx context.Context, cfg Config) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if err := cfg.Validate(); err != nil {
			yield(Event{}, err)
			return
		}
		res, err := r.run(ctx, cfg, func(p Progress) bool {
			return yield(Event{Progress: p}, nil)
		})
		if errors.Is(err, errStopped) {
			return
		}
		yield(Event{Progress: Progress{Attempt: res.Attempts}, Result: &res}, err)
	}
}

func (r Runner) run(ctx context.Context, cfg Config, emit emitFunc) (Result, error) {
	clock := r.Now
	if clock == nil {
		clock = time.Now
	}
	t := &trial{
		cfg:   cfg,
		emit:  emit,
		yield: r.Pacing.forMode(cfg.Mode),
		now:   clock,
		start: clock(),
	}
	if cfg.Mode == BruteForce {
		every := r.YieldEvery
		if every <= 0 {
			every = DefaultYieldEvery
		}
		return t.bruteForce(ctx, uint64(every))
	}
	return t.dictionary(ctx)
}

// trial is the state of one in-flight run.
type trial struct {
	cfg   Config
	emit  emitFunc
	yield Yielder
	now   func() time.Time
	start time.Time
}

func (t *trial) matches(candidate string) bool {
	if t.cfg.Encoding == Hashed {
		return toyhash.Sum(candidate) == t.cfg.Target
	}
	return candidate == t.cfg.Target
}

func (t *trial) cracked(candidate string, attempts int) (Result, error) {
	return Result{
		Cracked:  true,
		Match:    candidate,
		Attempts: attempts,
		Elapsed:  t.now().Sub(t.start),
	}, nil
}

func (t *trial) exhausted(attempts int) (Result, error) {
	return Result{Attempts: attempts, Elapsed: t.now().Sub(t.start)}, nil
}

// interrupted reports a run that stopped after evaluated completed comparisons.
func (t *trial) interrupted(evaluated int, cause error) (Result, error) {
	res := Result{Attempts: evaluated, Elapsed: t.now().Sub(t.start)}
	if errors.Is(cause, errStopped) {
		return res, cause
	}
	return res, fmt.Errorf("%w after %d attempts: %w", ErrCancelled, evaluated, cause)
}
