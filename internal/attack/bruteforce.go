package attack

import "context"

// bruteForce enumerates lengths 1..MaxLength, each tier in index order, and
// stops as soon as the attempt counter reaches the ceiling.
func (t *trial) bruteForce(ctx context.Context, yieldEvery uint64) (Result, error) {
	attempts := 0
	for length := 1; length <= MaxLength && attempts < t.cfg.Ceiling; length++ {
		count := min(TierSize(length), uint64(t.cfg.Ceiling-attempts))
		for i := uint64(0); i < count; i++ {
			if i%yieldEvery == 0 {
				if err := t.yield.Yield(ctx); err != nil {
					return t.interrupted(attempts, err)
				}
			}
			candidate := Candidate(i, length)
			attempts++
			if !t.emit(Progress{Attempt: attempts}) {
				return t.interrupted(attempts-1, errStopped)
			}
			if t.matches(candidate) {
				return t.cracked(candidate, attempts)
			}
		}
	}
	return t.exhausted(attempts)
}
