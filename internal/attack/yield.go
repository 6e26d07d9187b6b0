package attack

import (
	"context"
	"time"
)

// Yielder is called at every suspension point of a run. It may pause to pace
// the visible progress and must return a non-nil error once ctx is done; that
// is where runs notice cancellation.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YieldFunc adapts a function to the Yielder interface.
type YieldFunc func(ctx context.Context) error

// Yield calls f(ctx).
func (f YieldFunc) Yield(ctx context.Context) error {
	return f(ctx)
}

// NoYield never pauses. It only reports cancellation.
var NoYield Yielder = noYield{}

type noYield struct{}

func (noYield) Yield(ctx context.Context) error {
	return ctx.Err()
}

// SleepYielder pauses for Delay at each suspension point.
type SleepYielder struct {
	Delay time.Duration
}

// Yield blocks for y.Delay or until ctx is done.
func (y SleepYielder) Yield(ctx context.Context) error {
	if y.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(y.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacing holds one Yielder per mode. The original demo sleeps 10ms per
// dictionary word and 1ms per brute-force batch.
type Pacing struct {
	Dictionary Yielder
	BruteForce Yielder
}

// DefaultPacing returns the interactive delays of the demo.
func DefaultPacing() Pacing {
	return Pacing{
		Dictionary: SleepYielder{Delay: 10 * time.Millisecond},
		BruteForce: SleepYielder{Delay: time.Millisecond},
	}
}

func (p Pacing) forMode(m Mode) Yielder {
	var y Yielder
	if m == BruteForce {
		y = p.BruteForce
	} else {
		y = p.Dictionary
	}
	if y == nil {
		return NoYield
	}
	return y
}
