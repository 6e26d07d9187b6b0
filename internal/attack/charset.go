package attack

// Charset is the brute-force alphabet: lowercase, uppercase, digits, then
// eight punctuation symbols. Index 0 is 'a'.
const Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"

// MaxLength is the longest candidate the brute-force policy generates.
const MaxLength = 8

const base = uint64(len(Charset))

// TierSize returns the number of distinct candidates of the given length,
// len(Charset)^length. Lengths above MaxLength are not enumerated and
// return 0.
func TierSize(length int) uint64 {
	if length < 1 || length > MaxLength {
		return 0
	}
	n := uint64(1)
	for i := 0; i < length; i++ {
		n *= base
	}
	return n
}

// Candidate decodes index into a string of exactly length symbols.
//
// The index is read as a base-72 number, least significant digit first:
// the first character is Charset[index%72]. Counting therefore advances the
// leftmost character fastest ("a", "b", ... then "aa", "ba", "ca", ...).
func Candidate(index uint64, length int) string {
	out := make([]byte, length)
	for j := 0; j < length; j++ {
		out[j] = Charset[index%base]
		index /= base
	}
	return string(out)
}
