// Package sanitize prepares user-supplied strings (targets, wordlist entries,
// matched candidates) for logs, history records and terminal output. Plain
// targets are masked so they never reach a log file in clear, and every
// displayed value is stripped of control characters and length-capped.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxDisplayLength is the maximum number of runes kept by Display.
const MaxDisplayLength = 64

// maxMaskLength caps the masked output so long secrets do not leak their length exactly.
const maxMaskLength = 12

// reWhitespaceRun matches runs of whitespace that Display collapses to one space.
var reWhitespaceRun = regexp.MustCompile(`\s{2,}`)

// Mask hides all but the first rune of secret:
//
//	"admin"  -> "a****"
//	"x"      -> "*"
//	""       -> ""
//
// Secrets longer than 12 runes render as 12 symbols.
func Mask(secret string) string {
	n := utf8.RuneCountInString(secret)
	switch {
	case n == 0:
		return ""
	case n == 1:
		return "*"
	}
	first, _ := utf8.DecodeRuneInString(secret)
	stars := min(n, maxMaskLength) - 1
	return string(first) + strings.Repeat("*", stars)
}

// Display makes s safe to print on one line. The pipeline:
//  1. Strip ASCII control characters and DEL (tabs and newlines included)
//  2. Collapse whitespace runs to a single space
//  3. Truncate to MaxDisplayLength runes, appending "..."
func Display(s string) string {
	if s == "" {
		return ""
	}

	s = stripControlChars(s)
	s = reWhitespaceRun.ReplaceAllString(s, " ")

	if utf8.RuneCountInString(s) > MaxDisplayLength {
		runes := []rune(s)
		s = string(runes[:MaxDisplayLength]) + "..."
	}
	return s
}

// stripControlChars removes ASCII control characters (0x00-0x1F, 0x7F).
// Tabs and newlines become spaces so words stay separated.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
