package simulate

import (
	"fmt"

	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/attack"
	"github.com/nicholas-mwendah/brute-force-attack-simulation/internal/wordlist"
)

// DefaultMaxCeiling bounds the ceiling a remote caller may request.
const DefaultMaxCeiling = 1_000_000

// Request is a run as remote front ends receive it, before parsing.
type Request struct {
	Mode     string
	Encoding string
	Target   string
	Ceiling  int

	// Words and WordlistText supply the dictionary inline. WordlistRef names
	// wordlist.CommonName or a file inside Limits.WordlistDirs. The first
	// non-empty of Words, WordlistText and WordlistRef is used. Blank
	// entries are dropped from Words and WordlistText alike.
	Words        []string
	WordlistText string
	WordlistRef  string
}

// Limits bounds what a remote Request may ask for.
type Limits struct {
	// WordlistDirs lists directories WordlistRef paths may point into.
	// Empty means only the common list is reachable by reference.
	WordlistDirs []string

	// MaxCeiling caps the ceiling. Zero means DefaultMaxCeiling.
	MaxCeiling int
}

// Config parses req into a validated attack.Config. Every failure is an
// *attack.ConfigError naming the offending field.
func (l Limits) Config(req Request) (attack.Config, error) {
	mode, err := attack.ParseMode(req.Mode)
	if err != nil {
		return attack.Config{}, err
	}
	encoding := attack.Plain
	if req.Encoding != "" {
		if encoding, err = attack.ParseEncoding(req.Encoding); err != nil {
			return attack.Config{}, err
		}
	}

	maxCeiling := l.MaxCeiling
	if maxCeiling <= 0 {
		maxCeiling = DefaultMaxCeiling
	}
	if req.Ceiling > maxCeiling {
		return attack.Config{}, &attack.ConfigError{
			Field: "ceiling",
			Err:   fmt.Errorf("%w: at most %d allowed", attack.ErrInvalidCeiling, maxCeiling),
		}
	}

	cfg := attack.Config{
		Mode:     mode,
		Encoding: encoding,
		Target:   req.Target,
		Ceiling:  req.Ceiling,
	}
	if mode == attack.Dictionary {
		cfg.Wordlist, err = l.wordlist(req)
		if err != nil {
			return attack.Config{}, &attack.ConfigError{Field: "wordlist", Err: err}
		}
	}
	if err := cfg.Validate(); err != nil {
		return attack.Config{}, err
	}
	return cfg, nil
}

func (l Limits) wordlist(req Request) ([]string, error) {
	switch {
	case len(req.Words) > 0:
		return wordlist.Clean(req.Words), nil
	case req.WordlistText != "":
		return wordlist.ParseString(req.WordlistText)
	case req.WordlistRef == wordlist.CommonName:
		return wordlist.Common(), nil
	case req.WordlistRef != "":
		if err := wordlist.CheckAllowed(req.WordlistRef, l.WordlistDirs); err != nil {
			return nil, err
		}
		return wordlist.LoadFile(req.WordlistRef, 0)
	default:
		return nil, nil
	}
}
