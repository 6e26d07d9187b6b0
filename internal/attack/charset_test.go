package attack

import (
	"strings"
	"testing"
)

func TestCharset(t *testing.T) {
	if len(Charset) != 72 {
		t.Fatalf("len(Charset) = %d, want 72", len(Charset))
	}
	if Charset[0] != 'a' || Charset[26] != 'A' || Charset[52] != '0' || Charset[62] != '!' {
		t.Errorf("unexpected charset order: %q", Charset)
	}
	seen := make(map[rune]bool)
	for _, r := range Charset {
		if seen[r] {
			t.Errorf("duplicate symbol %q", r)
		}
		seen[r] = true
	}
}

func TestTierSize(t *testing.T) {
	tests := []struct {
		length int
		want   uint64
	}{
		{0, 0},
		{1, 72},
		{2, 5184},
		{3, 373248},
		{8, 722204136308736},
		{9, 0},
	}
	for _, tt := range tests {
		if got := TierSize(tt.length); got != tt.want {
			t.Errorf("TierSize(%d) = %d, want %d", tt.length, got, tt.want)
		}
	}
}

func TestCandidate(t *testing.T) {
	tests := []struct {
		index  uint64
		length int
		want   string
	}{
		{0, 1, "a"},
		{25, 1, "z"},
		{26, 1, "A"},
		{71, 1, "*"},
		{0, 2, "aa"},
		{1, 2, "ba"},
		{72, 2, "ab"},
		{73, 2, "bb"},
		{5183, 2, "**"},
		{0, 3, "aaa"},
		{TierSize(8) - 1, 8, strings.Repeat("*", 8)},
	}
	for _, tt := range tests {
		if got := Candidate(tt.index, tt.length); got != tt.want {
			t.Errorf("Candidate(%d, %d) = %q, want %q", tt.index, tt.length, got, tt.want)
		}
	}
}

func TestCandidate_DistinctWithinTier(t *testing.T) {
	for length := 1; length <= 2; length++ {
		size := TierSize(length)
		seen := make(map[string]uint64, size)
		for i := uint64(0); i < size; i++ {
			c := Candidate(i, length)
			if len(c) != length {
				t.Fatalf("Candidate(%d, %d) = %q has wrong length", i, length, c)
			}
			if prev, ok := seen[c]; ok {
				t.Fatalf("Candidate(%d, %d) = %q duplicates index %d", i, length, c, prev)
			}
			seen[c] = i
		}
	}
}

func TestCandidate_DistinctSampleOfTierThree(t *testing.T) {
	seen := make(map[string]bool)
	for i := uint64(0); i < TierSize(3); i += 97 {
		c := Candidate(i, 3)
		if seen[c] {
			t.Fatalf("duplicate candidate %q at index %d", c, i)
		}
		seen[c] = true
	}
}
