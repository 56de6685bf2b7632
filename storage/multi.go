package storage

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// MultiCAS reads through an ordered list of tiers: typically a local
// archive first, then remote ones. Tier order is the slice order, fixed by
// the caller, so retrieval never depends on map iteration.
//
// Writes land only on the first tier; use ReplicatingCAS to write
// everywhere.
type MultiCAS struct {
	Tiers []CAS
}

func (m MultiCAS) Put(data []byte) (cid.Cid, error) {
	if len(m.Tiers) == 0 {
		return cid.Undef, errors.New("storage: MultiCAS has no tiers")
	}
	return m.Tiers[0].Put(data)
}

// Get returns the first hit in tier order. A tier failing with anything
// other than ErrNotFound aborts the scan; absence in one tier is not an
// error, absence in all of them is.
func (m MultiCAS) Get(id cid.Cid) ([]byte, error) {
	for _, tier := range m.Tiers {
		b, err := tier.Get(id)
		if err == nil {
			return b, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func (m MultiCAS) Has(id cid.Cid) bool {
	for _, tier := range m.Tiers {
		if tier.Has(id) {
			return true
		}
	}
	return false
}
