package testkit

import (
	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/storage"
)

// MemCAS is an in-memory CAS for tests. Not safe for concurrent use.
type MemCAS struct {
	objects map[cid.Cid][]byte
}

var _ storage.CAS = (*MemCAS)(nil)

func NewMemCAS() *MemCAS {
	return &MemCAS{objects: make(map[cid.Cid][]byte)}
}

func (m *MemCAS) Put(bytes []byte) (cid.Cid, error) {
	id, err := cidutil.AttestationCID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}
	if _, ok := m.objects[id]; !ok {
		m.objects[id] = append([]byte(nil), bytes...)
	}
	return id, nil
}

func (m *MemCAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, ok := m.objects[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemCAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, ok := m.objects[id]
	return ok
}

// Len reports the number of stored objects.
func (m *MemCAS) Len() int { return len(m.objects) }
