// Package toyhash implements the deliberately weak string hash used by the
// attack simulations.
//
// THIS IS NOT A CRYPTOGRAPHIC HASH. It is a seedless 32-bit multiplicative
// hash (the classic "times 31" string hash) with trivial collisions. The
// simulations depend on it being cheap to compute and easy to invert by
// enumeration; never use it to protect a real secret.
package toyhash

import (
	"strconv"
	"unicode/utf16"
)

// Sum32 returns the raw signed 32-bit accumulator for s.
//
// The accumulator starts at 0 and, for every UTF-16 code unit c of s,
// becomes (acc<<5) - acc + c with two's-complement wraparound.
func Sum32(s string) int32 {
	var acc int32
	for _, r := range s {
		if r1, r2 := utf16.EncodeRune(r); r1 != '�' || r2 != '�' {
			acc = step(step(acc, r1), r2)
			continue
		}
		acc = step(acc, r)
	}
	return acc
}

func step(acc int32, unit rune) int32 {
	return (acc << 5) - acc + int32(unit)
}

// Sum returns the digest of s: the absolute value of Sum32(s) as lowercase
// hexadecimal without padding. Sum never fails.
func Sum(s string) string {
	v := int64(Sum32(s))
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}
