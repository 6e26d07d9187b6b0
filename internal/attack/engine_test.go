package attack

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// gateYielder blocks every suspension point until release is closed.
type gateYielder struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGateYielder() *gateYielder {
	return &gateYielder{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gateYielder) Yield(ctx context.Context) error {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.release:
		return nil
	}
}

func waitRun(t *testing.T, run *Run) (Result, error) {
	t.Helper()
	select {
	case <-run.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for run")
	}
	return run.Wait()
}

func exampleConfig() Config {
	return Config{
		Mode:     Dictionary,
		Encoding: Plain,
		Target:   "admin",
		Wordlist: []string{"root", "admin", "guest"},
		Ceiling:  10,
	}
}

func TestEngine_InitialState(t *testing.T) {
	e := NewEngine(Runner{})
	if e.State() != StateIdle {
		t.Errorf("State = %v, want idle", e.State())
	}
	if _, ok := e.Result(); ok {
		t.Error("idle engine should not hold a result")
	}
	if e.Progress() != 0 {
		t.Errorf("Progress = %d, want 0", e.Progress())
	}
}

func TestEngine_Cracked(t *testing.T) {
	e := NewEngine(Runner{})
	var events []Progress
	run, err := e.Start(context.Background(), exampleConfig(), func(p Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	res, err := waitRun(t, run)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !res.Cracked || res.Match != "admin" || res.Attempts != 2 {
		t.Errorf("result = %+v, want cracked admin in 2", res)
	}
	assertSequential(t, events, 2)

	if e.State() != StateCracked {
		t.Errorf("State = %v, want cracked", e.State())
	}
	held, ok := e.Result()
	if !ok || held != res {
		t.Errorf("Result() = %+v, %v; want %+v, true", held, ok, res)
	}
	if e.Progress() != 2 {
		t.Errorf("Progress = %d, want 2", e.Progress())
	}

	// Wait is idempotent.
	again, err := run.Wait()
	if err != nil || again != res {
		t.Errorf("second Wait = %+v, %v", again, err)
	}
}

func TestEngine_Exhausted(t *testing.T) {
	e := NewEngine(Runner{})
	run, err := e.Start(context.Background(), Config{Mode: BruteForce, Target: "zzzz", Ceiling: 50}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	res, err := waitRun(t, run)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res.Cracked || res.Attempts != 50 {
		t.Errorf("result = %+v, want 50 failed attempts", res)
	}
	if e.State() != StateExhausted {
		t.Errorf("State = %v, want exhausted", e.State())
	}
}

func TestEngine_InvalidConfigLeavesStateUntouched(t *testing.T) {
	e := NewEngine(Runner{})
	_, err := e.Start(context.Background(), Config{Mode: BruteForce, Target: "", Ceiling: 10}, nil)
	if !errors.Is(err, ErrEmptyTarget) {
		t.Fatalf("err = %v, want ErrEmptyTarget", err)
	}
	if e.State() != StateIdle {
		t.Errorf("State = %v, want idle", e.State())
	}
}

func TestEngine_RejectsConcurrentStartAndReset(t *testing.T) {
	gate := newGateYielder()
	e := NewEngine(Runner{Pacing: Pacing{Dictionary: gate}})

	run, err := e.Start(context.Background(), exampleConfig(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-gate.entered

	if e.State() != StateRunning {
		t.Errorf("State = %v, want running", e.State())
	}
	if _, err := e.Start(context.Background(), exampleConfig(), nil); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("second Start err = %v, want ErrRunInProgress", err)
	}
	if err := e.Reset(); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("Reset err = %v, want ErrRunInProgress", err)
	}
	if _, ok := e.Result(); ok {
		t.Error("running engine should not expose a result")
	}

	close(gate.release)
	if _, err := waitRun(t, run); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if e.State() != StateCracked {
		t.Errorf("State = %v, want cracked", e.State())
	}
}

func TestEngine_Cancel(t *testing.T) {
	gate := newGateYielder()
	e := NewEngine(Runner{Pacing: Pacing{BruteForce: gate}})

	run, err := e.Start(context.Background(), Config{Mode: BruteForce, Target: "zzzz", Ceiling: 1000}, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-gate.entered
	e.Cancel()

	res, err := waitRun(t, run)
	if !errors.Is(err, ErrCancelled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want ErrCancelled wrapping context.Canceled", err)
	}
	if res.Attempts != 0 {
		t.Errorf("Attempts = %d, want 0 (cancelled before first comparison)", res.Attempts)
	}
	if e.State() != StateCancelled {
		t.Errorf("State = %v, want cancelled", e.State())
	}
	if err := e.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if e.State() != StateIdle {
		t.Errorf("State = %v, want idle after reset", e.State())
	}
}

func TestEngine_ParentContextCancels(t *testing.T) {
	gate := newGateYielder()
	e := NewEngine(Runner{Pacing: Pacing{Dictionary: gate}})
	ctx, cancel := context.WithCancel(context.Background())

	run, err := e.Start(ctx, exampleConfig(), nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-gate.entered
	cancel()

	if _, err := waitRun(t, run); !errors.Is(err, ErrCancelled) {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
}

func TestEngine_ResetThenRestartIsIndependent(t *testing.T) {
	e := NewEngine(Runner{})
	cfg := exampleConfig()

	first, err := e.Start(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	firstRes, _ := waitRun(t, first)

	if err := e.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if e.State() != StateIdle || e.Progress() != 0 {
		t.Fatalf("after Reset: state %v progress %d", e.State(), e.Progress())
	}
	if _, ok := e.Result(); ok {
		t.Fatal("Reset should clear the result")
	}

	var events []Progress
	second, err := e.Start(context.Background(), cfg, func(p Progress) {
		events = append(events, p)
	})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	secondRes, _ := waitRun(t, second)

	if firstRes.Cracked != secondRes.Cracked || firstRes.Match != secondRes.Match || firstRes.Attempts != secondRes.Attempts {
		t.Errorf("runs differ: %+v vs %+v", firstRes, secondRes)
	}
	assertSequential(t, events, 2)
}

func TestEngine_StartFromTerminalState(t *testing.T) {
	e := NewEngine(Runner{})
	run, _ := e.Start(context.Background(), Config{Mode: BruteForce, Target: "zzzz", Ceiling: 5}, nil)
	waitRun(t, run)
	if e.State() != StateExhausted {
		t.Fatalf("State = %v, want exhausted", e.State())
	}

	run, err := e.Start(context.Background(), exampleConfig(), nil)
	if err != nil {
		t.Fatalf("Start from terminal state: %v", err)
	}
	waitRun(t, run)
	if e.State() != StateCracked {
		t.Errorf("State = %v, want cracked", e.State())
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state    State
		want     string
		terminal bool
	}{
		{StateIdle, "idle", false},
		{StateRunning, "running", false},
		{StateCracked, "cracked", true},
		{StateExhausted, "exhausted", true},
		{StateCancelled, "cancelled", true},
		{State(99), "unknown", false},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
		if got := tt.state.Terminal(); got != tt.terminal {
			t.Errorf("State(%d).Terminal() = %v, want %v", int(tt.state), got, tt.terminal)
		}
	}
}
