package ethsig

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/primus-labs/zktls-go/digest"
)

// SignMessage signs keccak-256(message) with key and returns a 65-byte
// signature whose recovery byte uses the {27, 28} wire convention.
// It is the inverse of RecoverAddress.
func SignMessage(key *ecdsa.PrivateKey, message []byte) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("ethsig: nil private key")
	}
	sig, err := crypto.Sign(digest.Keccak256(message), key)
	if err != nil {
		return nil, fmt.Errorf("ethsig: sign: %w", err)
	}
	sig[64] += 27
	return sig, nil
}

// Address returns the Ethereum-style address for a private key.
func Address(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}
