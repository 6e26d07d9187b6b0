package attack

import (
	"context"
	"strings"
)

// dictionary tries the first min(len(Wordlist), Ceiling) entries in order.
// The first match wins; entries are neither reordered nor deduplicated.
// Each candidate is preceded by a suspension point, so a cancelled run never
// leaves a Progress behind for a candidate it did not compare.
func (t *trial) dictionary(ctx context.Context) (Result, error) {
	n := min(len(t.cfg.Wordlist), t.cfg.Ceiling)
	for i := 0; i < n; i++ {
		if err := t.yield.Yield(ctx); err != nil {
			return t.interrupted(i, err)
		}
		candidate := strings.TrimSpace(t.cfg.Wordlist[i])
		if !t.emit(Progress{Attempt: i + 1}) {
			return t.interrupted(i, errStopped)
		}
		if t.matches(candidate) {
			return t.cracked(candidate, i+1)
		}
	}
	return t.exhausted(n)
}
