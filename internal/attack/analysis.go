package attack

import "fmt"

// Percent returns attempt as a share of ceiling, capped at 100.
func Percent(attempt, ceiling int) float64 {
	if ceiling <= 0 {
		return 0
	}
	p := float64(attempt) / float64(ceiling) * 100
	if p > 100 {
		return 100
	}
	return p
}

// Verdict is the one-line headline shown for a finished run.
func (r Result) Verdict() string {
	if r.Cracked {
		return "ACCESS GRANTED: target password identified"
	}
	return "ACCESS DENIED: maximum attempts reached without success"
}

// Analysis is the security commentary shown after a run of the given mode.
func (r Result) Analysis(m Mode) string {
	if r.Cracked {
		return fmt.Sprintf("The password %q was compromised in %.2f seconds. "+
			"This demonstrates high vulnerability to %s attacks. "+
			"Immediate action: increase complexity and length.",
			r.Match, r.Elapsed.Seconds(), m.Label())
	}
	return fmt.Sprintf("The target withstood %d attempts. "+
		"While this specific attack failed, modern GPUs can calculate billions "+
		"of hashes per second. Constant vigilance is required.", r.Attempts)
}
