// Package verifier composes the canonical encoding, signature recovery, and
// the attestor registry into the accept/reject decision for an attestation.
package verifier

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/compliance"
	"github.com/primus-labs/zktls-go/ethsig"
	"github.com/primus-labs/zktls-go/registry"
)

// AddressRecoverer recovers a signer address from a signature over a
// message. The message is passed unhashed; implementations hash internally
// as part of their contract.
type AddressRecoverer interface {
	RecoverAddress(message, sig []byte) (common.Address, error)
}

// RecovererFunc adapts a plain function to AddressRecoverer.
type RecovererFunc func(message, sig []byte) (common.Address, error)

func (f RecovererFunc) RecoverAddress(message, sig []byte) (common.Address, error) {
	return f(message, sig)
}

// Verifier checks attestations against a registry.
//
// The zero value uses the production secp256k1 recovery in Permissive mode.
type Verifier struct {
	// Recover substitutes the address recovery; nil means ethsig.
	Recover AddressRecoverer
	// Mode selects how recovery ids outside the documented wire ranges are
	// treated; see the compliance package.
	Mode compliance.Mode
}

// Verify checks att against reg with a zero-value Verifier.
func Verify(reg *registry.Registry, att *attestation.Attestation) error {
	var v Verifier
	return v.Verify(reg, att)
}

// Verify accepts or rejects one attestation. Success is the absence of an
// error; nothing else is returned.
//
// The recovered address is computed over the unhashed canonical payload
// (the recoverer hashes it), so the check binds the signature to the full
// attested content.
func (v *Verifier) Verify(reg *registry.Registry, att *attestation.Attestation) error {
	var sigs [][]byte
	if att != nil {
		sigs = att.Signatures
	}
	if len(sigs) != 1 {
		return attestation.NewError(attestation.KindInvalidSignatureCount, "ZKTLS-VER-101", "attestation must carry exactly one signature")
	}
	sig := sigs[0]
	if len(sig) != attestation.SignatureLength {
		return attestation.NewError(attestation.KindInvalidSignatureLength, "ZKTLS-VER-102", "signature must be 65 bytes")
	}
	if v.Mode == compliance.Strict {
		if _, ok := ethsig.NormalizeV(sig[64]); !ok {
			return attestation.NewError(attestation.KindRecoveryError, "ZKTLS-VER-105", "recovery id outside the documented wire ranges")
		}
	}

	rec := v.Recover
	if rec == nil {
		rec = RecovererFunc(ethsig.RecoverAddress)
	}
	signer, err := rec.RecoverAddress(attestation.EncodePayload(att), sig)
	if err != nil {
		return attestation.WrapError(attestation.KindRecoveryError, "ZKTLS-VER-103", "signature recovery failed", err)
	}

	if reg == nil || !reg.Contains(signer) {
		return attestation.NewError(attestation.KindUnknownSigner, "ZKTLS-VER-104", "recovered signer is not a registered attestor")
	}
	return nil
}
