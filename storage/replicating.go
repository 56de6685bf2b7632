package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/cidutil"
)

// NamedCAS pairs a backend with the stable name it was configured under,
// so replication results can be reported per backend.
type NamedCAS struct {
	Name string
	CAS  CAS
}

// ReplicatingCAS writes every document to all backends and reads through
// them in order. A write succeeds only when every backend reports the same
// CID as the one computed locally from the bytes; any disagreement is
// ErrCIDMismatch.
type ReplicatingCAS struct {
	Backends []NamedCAS
}

var _ CAS = (*ReplicatingCAS)(nil)

// PutAll writes data to every backend and returns the canonical CID
// together with the per-backend CID map. The map is partial when a backend
// fails mid-way, and complete up to the offending backend when a CID
// disagrees.
func (r ReplicatingCAS) PutAll(data []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := cidutil.AttestationCID(data)
	if err != nil {
		return cid.Undef, nil, err
	}
	if !want.Defined() {
		return cid.Undef, nil, ErrInvalidCID
	}
	if len(r.Backends) == 0 {
		return cid.Undef, nil, fmt.Errorf("storage: ReplicatingCAS has no backends")
	}

	got := make(map[string]cid.Cid, len(r.Backends))
	for _, b := range r.Backends {
		if b.CAS == nil {
			return cid.Undef, nil, fmt.Errorf("storage: nil CAS for backend %q", b.Name)
		}
		id, err := b.CAS.Put(data)
		if err != nil {
			return cid.Undef, nil, err
		}
		got[b.Name] = id
		if id != want {
			return cid.Undef, got, ErrCIDMismatch
		}
	}
	return want, got, nil
}

func (r ReplicatingCAS) Put(data []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(data)
	return id, err
}

// Get returns the first hit in backend order, skipping nil entries.
func (r ReplicatingCAS) Get(id cid.Cid) ([]byte, error) {
	for _, b := range r.Backends {
		if b.CAS == nil {
			continue
		}
		out, err := b.CAS.Get(id)
		if err == nil {
			return out, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func (r ReplicatingCAS) Has(id cid.Cid) bool {
	for _, b := range r.Backends {
		if b.CAS != nil && b.CAS.Has(id) {
			return true
		}
	}
	return false
}
