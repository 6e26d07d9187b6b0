// Package attack is the password attack simulation engine.
//
// It enumerates candidate passwords under one of two policies, compares each
// candidate with a target (either literally or through the toy hash in
// package toyhash) and reports one Progress per evaluated candidate followed
// by exactly one Result. The engine is for demonstration only: candidates
// are tried sequentially on a single goroutine and the hash is trivially
// weak.
//
// There are three entry points:
//
//   - Execute runs a Config synchronously and invokes a callback per attempt.
//   - Stream exposes the same run as an iterator of Events, the last of which
//     carries the Result.
//   - Engine wraps runs in an Idle/Running/terminal state machine with a
//     concurrent-start guard, cancellation and Reset.
//
// Pacing is delegated to a Yielder. Tests use NoYield and run whole
// enumerations without wall-clock delays; interactive front ends use a
// SleepYielder to slow the visible progress down.
//
// Usage:
//
//	res, err := attack.Execute(ctx, attack.Config{
//	    Mode:     attack.Dictionary,
//	    Encoding: attack.Plain,
//	    Target:   "admin",
//	    Wordlist: []string{"root", "admin", "guest"},
//	    Ceiling:  10,
//	}, nil)
//	// res.Cracked == true, res.Match == "admin", res.Attempts == 2
package attack
