package attestation

import (
	"encoding/binary"

	"github.com/primus-labs/zktls-go/digest"
)

// The canonical encoding concatenates fields directly, with no delimiters
// and no length prefixes. Distinct field splits can therefore produce
// identical bytes (url="ab",header="c" encodes like url="a",header="bc").
// That ambiguity is part of the cross-system digest contract this module
// reproduces; changing it would break every independently computed digest.

// EncodeRequest returns the keccak-256 digest of
// url ++ header ++ method ++ body. Empty fields contribute nothing.
func EncodeRequest(r NetworkRequest) []byte {
	return digest.Keccak256([]byte(r.URL), []byte(r.Header), []byte(r.Method), []byte(r.Body))
}

// EncodeResponses returns the keccak-256 digest of
// keyName ++ parseType ++ parsePath per entry, in sequence order.
// Reordering entries changes the digest.
func EncodeResponses(rs []ResponseResolve) []byte {
	parts := make([][]byte, 0, len(rs)*3)
	for _, r := range rs {
		parts = append(parts, []byte(r.KeyName), []byte(r.ParseType), []byte(r.ParsePath))
	}
	return digest.Keccak256(parts...)
}

// EncodePayload returns the unhashed signing payload:
//
//	recipient                      20 bytes
//	EncodeRequest(a.Request)       32 bytes
//	EncodeResponses(a.Responses)   32 bytes
//	data                           UTF-8 bytes
//	attConditions                  UTF-8 bytes
//	timestamp                      8 bytes, big-endian
//	additionParams                 UTF-8 bytes
//
// Attestors and Signatures are deliberately excluded: the signature covers
// the attested content, not metadata about who signed it.
func EncodePayload(a *Attestation) []byte {
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], a.Timestamp)

	out := make([]byte, 0, 20+2*digest.Size+len(a.Data)+len(a.AttConditions)+8+len(a.AdditionParams))
	out = append(out, a.Recipient[:]...)
	out = append(out, EncodeRequest(a.Request)...)
	out = append(out, EncodeResponses(a.Responses)...)
	out = append(out, a.Data...)
	out = append(out, a.AttConditions...)
	out = append(out, ts[:]...)
	out = append(out, a.AdditionParams...)
	return out
}

// Encode returns the keccak-256 digest of EncodePayload(a).
//
// Verification does not use this digest directly (recovery hashes the
// payload itself); it exists as an independently checkable identifier for
// the attested content.
func Encode(a *Attestation) []byte {
	return digest.Keccak256(EncodePayload(a))
}
