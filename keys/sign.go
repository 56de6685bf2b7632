package keys

import (
	"crypto/ecdsa"
	"errors"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/ethsig"
)

// SignAttestation returns the 65-byte attestor signature over the canonical
// payload of att. The attestation itself is not modified.
func SignAttestation(att *attestation.Attestation, key *ecdsa.PrivateKey) ([]byte, error) {
	if att == nil {
		return nil, errors.New("keys: nil attestation")
	}
	return ethsig.SignMessage(key, attestation.EncodePayload(att))
}

// AttachSignature signs the canonical payload of att and appends the
// signature to att.Signatures.
//
// The verifier expects exactly one signature, so attaching to an already
// signed attestation produces a record it will reject.
func AttachSignature(att *attestation.Attestation, key *ecdsa.PrivateKey) error {
	sig, err := SignAttestation(att, key)
	if err != nil {
		return err
	}
	att.Signatures = append(att.Signatures, sig)
	return nil
}
