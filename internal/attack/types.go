package attack

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Mode selects the candidate-generation policy.
type Mode int

const (
	// Dictionary tries the entries of a supplied wordlist in order.
	Dictionary Mode = iota
	// BruteForce enumerates every string over Charset, shortest first.
	BruteForce
)

// String returns the canonical name used in config files and flags.
func (m Mode) String() string {
	switch m {
	case Dictionary:
		return "dictionary"
	case BruteForce:
		return "bruteforce"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Label returns the human-readable attack name.
func (m Mode) Label() string {
	if m == BruteForce {
		return "brute-force"
	}
	return m.String()
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode maps a mode name to a Mode (case-insensitive).
// Accepted: "dictionary", "dict", "bruteforce", "brute-force", "brute_force", "brute".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dictionary", "dict":
		return Dictionary, nil
	case "bruteforce", "brute-force", "brute_force", "brute":
		return BruteForce, nil
	default:
		return 0, configError("mode", fmt.Errorf("%w: %q", ErrUnknownMode, s))
	}
}

// Encoding says whether the target is compared literally or as a toy-hash digest.
type Encoding int

const (
	// Plain compares each candidate with the target as-is.
	Plain Encoding = iota
	// Hashed compares toyhash.Sum(candidate) with the target.
	Hashed
)

func (e Encoding) String() string {
	switch e {
	case Plain:
		return "plain"
	case Hashed:
		return "hashed"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(b []byte) error {
	parsed, err := ParseEncoding(string(b))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseEncoding maps "plain" or "hashed" (case-insensitive) to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "plaintext":
		return Plain, nil
	case "hashed", "hash":
		return Hashed, nil
	default:
		return 0, configError("encoding", fmt.Errorf("%w: %q", ErrUnknownEncoding, s))
	}
}

// ParseCeiling parses a decimal attempt ceiling as typed by a user.
func ParseCeiling(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, configError("ceiling", fmt.Errorf("%w: %q is not a number", ErrInvalidCeiling, s))
	}
	if n < 1 {
		return 0, configError("ceiling", fmt.Errorf("%w: got %d", ErrInvalidCeiling, n))
	}
	return n, nil
}

// Config describes a single run.
type Config struct {
	Mode     Mode
	Encoding Encoding
	// Target is the password (Plain) or toy-hash digest (Hashed) to find.
	Target string
	// Wordlist is only consulted in Dictionary mode. Entries are trimmed
	// before comparison; callers are expected to drop blank lines.
	Wordlist []string
	// Ceiling is the maximum number of candidates evaluated.
	Ceiling int
}

// Validate reports the first problem that prevents the config from running.
// A config that fails validation never emits progress.
func (c Config) Validate() error {
	switch c.Mode {
	case Dictionary, BruteForce:
	default:
		return configError("mode", fmt.Errorf("%w: %d", ErrUnknownMode, int(c.Mode)))
	}
	switch c.Encoding {
	case Plain, Hashed:
	default:
		return configError("encoding", fmt.Errorf("%w: %d", ErrUnknownEncoding, int(c.Encoding)))
	}
	if c.Target == "" {
		return configError("target", ErrEmptyTarget)
	}
	if c.Ceiling < 1 {
		return configError("ceiling", fmt.Errorf("%w: got %d", ErrInvalidCeiling, c.Ceiling))
	}
	if c.Mode == Dictionary && !hasWord(c.Wordlist) {
		return configError("wordlist", ErrEmptyWordlist)
	}
	return nil
}

func hasWord(words []string) bool {
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			return true
		}
	}
	return false
}

// Progress is emitted once per evaluated candidate, after the run's
// suspension point for that candidate and before its comparison. When a run
// is cancelled, Result.Attempts equals the last emitted Attempt.
type Progress struct {
	// Attempt counts candidates from 1 within a run.
	Attempt int `json:"attempt"`
}

// Result is the single terminal outcome of a run.
type Result struct {
	Cracked bool `json:"cracked"`
	// Match is the candidate that matched; empty unless Cracked.
	Match    string        `json:"match,omitempty"`
	Attempts int           `json:"attempts"`
	Elapsed  time.Duration `json:"-"`
}

// ElapsedMillis returns the run duration in whole milliseconds.
func (r Result) ElapsedMillis() int64 {
	return r.Elapsed.Milliseconds()
}

// Event is one item of a Stream: a Progress, or the terminal Result.
type Event struct {
	Progress Progress
	// Result is set only on the last event of a stream.
	Result *Result
}

// Done reports whether e carries the terminal Result.
func (e Event) Done() bool {
	return e.Result != nil
}
