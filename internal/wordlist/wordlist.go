// Package wordlist turns newline-separated text into dictionary-attack input.
//
// Blank lines are dropped; every other line is kept verbatim and in order.
// Surrounding whitespace is left for the attack engine, which trims each
// candidate before comparing it.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMaxBytes bounds the size of a wordlist file read by LoadFile.
const DefaultMaxBytes = 16 << 20

// maxLineBytes is the longest single entry accepted.
const maxLineBytes = 64 << 10

// ErrTooLarge is returned when a wordlist exceeds its size limit.
var ErrTooLarge = errors.New("wordlist exceeds size limit")

//go:embed common.txt
var commonText string

// CommonName is the name of the embedded list accepted by Resolve.
const CommonName = "common"

// Common returns a fresh copy of the embedded list of frequently used passwords.
func Common() []string {
	words, _ := ParseString(commonText)
	return words
}

// Parse reads r line by line and returns the non-blank lines.
func Parse(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading wordlist: %w", err)
	}
	return Clean(lines), nil
}

// Clean returns the non-blank entries of words in order. Entries are kept
// untrimmed; the engine trims each candidate before comparing it.
func Clean(words []string) []string {
	var kept []string
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			kept = append(kept, w)
		}
	}
	return kept
}

// ParseString is Parse for in-memory text such as a pasted textarea.
func ParseString(s string) ([]string, error) {
	return Parse(strings.NewReader(s))
}

// LoadFile reads a wordlist file of at most maxBytes (DefaultMaxBytes when
// maxBytes <= 0). Error messages carry a redacted path.
func LoadFile(path string, maxBytes int64) ([]string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist %s: %w", RedactPath(path), unwrapPathError(err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat wordlist %s: %w", RedactPath(path), unwrapPathError(err))
	}
	if info.IsDir() {
		return nil, fmt.Errorf("wordlist %s is a directory", RedactPath(path))
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrTooLarge, RedactPath(path), info.Size(), maxBytes)
	}

	words, err := Parse(io.LimitReader(f, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RedactPath(path), err)
	}
	return words, nil
}

// Resolve loads a wordlist by reference: CommonName selects the embedded
// list, anything else is read as a file.
func Resolve(ref string) ([]string, error) {
	if ref == CommonName {
		return Common(), nil
	}
	return LoadFile(ref, 0)
}

// unwrapPathError drops the *PathError wrapper so the full path is not
// repeated in messages.
func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
