// Package ratelimit provides per-key token bucket rate limiting for the HTTP
// API (keyed by client address) and the MCP tools (keyed by tool name).
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter implements a per-key token bucket rate limiter.
// Each key gets its own bucket with the configured rate and burst.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    float64          // tokens per second
	burst   int              // max burst size (also initial token count)
	nowFunc func() time.Time // injectable clock for testing
}

type bucket struct {
	tokens    float64
	lastCheck time.Time
}

// NewLimiter creates a rate limiter with the given rate (tokens/sec) and burst size.
// The burst size also serves as the initial number of tokens available.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		nowFunc: time.Now,
	}
}

// PerMinute creates a limiter allowing perMinute requests a minute per key.
func PerMinute(perMinute float64, burst int) *Limiter {
	return NewLimiter(perMinute/60.0, burst)
}

// Allow checks if a request for the given key should be allowed.
// Returns true if allowed, false if rate limited.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key, l.nowFunc())
	if b.tokens < 1.0 {
		return false
	}

	b.tokens--
	return true
}

// RetryAfter returns how long key must wait for its next token.
// It is zero when a request would be allowed now.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.refill(key, l.nowFunc())
	if b.tokens >= 1.0 || l.rate <= 0 {
		return 0
	}
	missing := 1.0 - b.tokens
	return time.Duration(missing / l.rate * float64(time.Second))
}

// Prune drops buckets that have been idle for at least maxIdle and returns
// how many were removed. An idle bucket is full again, so forgetting it
// does not change any decision.
func (l *Limiter) Prune(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastCheck) >= maxIdle {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// refill returns key's bucket after adding the tokens earned since its
// last check. The caller holds l.mu.
func (l *Limiter) refill(key string, now time.Time) *bucket {
	b, ok := l.buckets[key]
	if !ok {
		// First request for this key: start with full burst
		b = &bucket{
			tokens:    float64(l.burst),
			lastCheck: now,
		}
		l.buckets[key] = b
		return b
	}

	elapsed := now.Sub(b.lastCheck).Seconds()
	if elapsed > 0 {
		b.tokens += l.rate * elapsed
		if b.tokens > float64(l.burst) {
			b.tokens = float64(l.burst)
		}
		b.lastCheck = now
	}
	return b
}

// ToolLimiters maps tool names to their rate limiters.
type ToolLimiters map[string]*Limiter

// NewToolLimiters creates the default set of per-tool rate limiters.
// Simulations are the expensive call; hashing and history reads are cheap.
func NewToolLimiters() ToolLimiters {
	return ToolLimiters{
		"attack_simulate": NewLimiter(10.0/60.0, 3), // 10/minute, burst 3
		"toy_hash":        NewLimiter(2.0, 20),      // 120/minute, burst 20
		"attack_history":  NewLimiter(1.0, 10),      // 60/minute, burst 10
	}
}

// CheckLimit checks the rate limit for a given tool name.
// Returns nil if allowed, or an error if rate limited.
// Tools without a configured limiter are always allowed.
func CheckLimit(limiters ToolLimiters, toolName string) error {
	limiter, ok := limiters[toolName]
	if !ok {
		return nil // No limiter configured = no limit
	}

	if !limiter.Allow(toolName) {
		return fmt.Errorf("rate limit exceeded for %s, please try again shortly", toolName)
	}

	return nil
}
