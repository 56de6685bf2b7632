// Package digest provides the keccak-256 digest used throughout this module:
// canonical encodings, signing, address derivation, and content identifiers
// all hash with the same primitive.
//
// This is legacy keccak-256 (the pre-NIST padding variant used by Ethereum),
// not SHA3-256.
package digest

import "golang.org/x/crypto/sha3"

// Size is the digest length in bytes.
const Size = 32

// Keccak256 returns the keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// Keccak256Array is Keccak256 with a fixed-size result, for callers that
// store digests by value.
func Keccak256Array(data ...[]byte) [Size]byte {
	var out [Size]byte
	copy(out[:], Keccak256(data...))
	return out
}
