package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// AttestationCIDString returns a CIDv1 string using the "raw" multicodec
// and a keccak-256 multihash.
//
// Keccak-256 is the same primitive the signature scheme hashes with, so the
// CID commits to exactly the bytes a signer would have signed.
func AttestationCIDString(data []byte) string {
	sum, err := multihash.Sum(data, multihash.KECCAK_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with KECCAK_256 and -1
		// length, this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// AttestationCID returns a CIDv1 (raw + keccak-256) derived from data.
func AttestationCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.KECCAK_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
