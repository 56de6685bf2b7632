// Package attestation defines the attestation record types, their canonical
// byte encoding, and the structured error taxonomy shared by the registry
// and the verifier.
package attestation

import "github.com/ethereum/go-ethereum/common"

// SignatureLength is the required length of an attestation signature:
// 32-byte r, 32-byte s, one recovery byte.
const SignatureLength = 65

// Attestor identifies a party trusted to sign attestations.
// Equality is by Address only; URL is descriptive metadata.
type Attestor struct {
	Address common.Address
	URL     string
}

// NetworkRequest describes the network call that produced the attested data.
// Fields are opaque text; no semantic validation is performed on them.
type NetworkRequest struct {
	URL    string
	Header string
	Method string
	Body   string
}

// ResponseResolve describes how one field of the response was extracted.
// An attestation carries an ordered sequence of these; the order is part of
// the canonical encoding.
type ResponseResolve struct {
	KeyName   string
	ParseType string
	ParsePath string
}

// Attestation is the signed record of a network interaction plus the parsed
// response fields.
//
// Attestors is an informational snapshot of the expected signers. It is not
// consulted during verification and, like Signatures, is excluded from the
// signed payload. Verification expects Signatures to hold exactly one entry;
// it is a sequence only because the wire format carries it as one.
type Attestation struct {
	Recipient      common.Address
	Request        NetworkRequest
	Responses      []ResponseResolve
	Data           string
	AttConditions  string
	Timestamp      uint64
	AdditionParams string
	Attestors      []Attestor
	Signatures     [][]byte
}
