// Package storage defines the content-addressed archive contract shared by
// every backend, plus ordered-fallback and replicating compositions.
package storage

import "github.com/ipfs/go-cid"

// CAS archives immutable attestation documents by CID.
//
// Contract every backend must honor:
//   - CIDs are CIDv1 raw + keccak-256 over the stored bytes
//     (cidutil.AttestationCID); callers supply canonical bytes.
//   - Put is idempotent and never rewrites an existing object.
//   - Get returns ErrNotFound for an absent CID, and only ever returns
//     bytes that hash to the requested CID.
type CAS interface {
	Put(data []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
