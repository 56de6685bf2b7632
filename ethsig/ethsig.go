// Package ethsig implements the 65-byte r‖s‖v signature convention used by
// attestors: secp256k1 public-key recovery over a keccak-256 message digest,
// with the signer identified by its Ethereum-style 20-byte address.
package ethsig

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/primus-labs/zktls-go/digest"
)

// SignatureLength is the expected signature size: r (32) ‖ s (32) ‖ v (1).
const SignatureLength = 65

// NormalizeV maps a signature's recovery byte onto the {0, 1} range curve
// recovery expects:
//
//	27, 28 -> 0, 1        (legacy wire convention)
//	 > 35  -> (v-1) mod 2 (EIP-155 chain-id encoded)
//
// Every other value is returned unchanged with ok=false. The reference
// behavior passes such values through to recovery anyway (where anything
// unusable fails hard); strict callers reject them up front.
func NormalizeV(v byte) (normalized byte, ok bool) {
	switch {
	case v == 27 || v == 28:
		return v - 27, true
	case v > 35:
		return (v - 1) % 2, true
	default:
		return v, false
	}
}

// RecoverAddress recovers the signer's address from a 65-byte signature
// over message.
//
// The message is the raw signed bytes, not a digest: hashing with keccak-256
// happens here, as part of the recovery contract. The address is the last 20
// bytes of the keccak-256 of the recovered uncompressed public key's X‖Y.
//
// Malformed signatures (wrong length, unusable recovery id, no curve point
// for the given hash) return an error, never a silently wrong address.
func RecoverAddress(message, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("ethsig: signature is %d bytes, want %d", len(sig), SignatureLength)
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	normalized[64], _ = NormalizeV(sig[64])

	pub, err := crypto.SigToPub(digest.Keccak256(message), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("ethsig: recover: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
