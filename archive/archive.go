// Package archive persists attestations in content-addressed storage.
//
// The stored object is the canonical wire document (model.RenderAttestation),
// so the CID names one exact byte rendering and survives independent
// re-rendering of the same record.
package archive

import (
	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/model"
	"github.com/primus-labs/zktls-go/registry"
	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/verifier"
)

// Put renders att canonically and stores the document. The returned CID is
// over the stored document bytes.
func Put(cas storage.CAS, att *attestation.Attestation) (cid.Cid, error) {
	doc, err := model.RenderAttestation(att)
	if err != nil {
		return cid.Undef, err
	}
	return cas.Put(doc)
}

// Get fetches and parses the attestation document stored under id.
//
// Storage failures surface as storage sentinels; a stored document that no
// longer parses surfaces as a model error. The two stay distinguishable.
func Get(cas storage.CAS, id cid.Cid) (*attestation.Attestation, error) {
	doc, err := cas.Get(id)
	if err != nil {
		return nil, err
	}
	return model.ParseAttestation(doc)
}

// GetVerified fetches, parses, and verifies the attestation stored under id
// against reg. A nil v verifies with the default Verifier.
func GetVerified(cas storage.CAS, id cid.Cid, reg *registry.Registry, v *verifier.Verifier) (*attestation.Attestation, error) {
	att, err := Get(cas, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = &verifier.Verifier{}
	}
	if err := v.Verify(reg, att); err != nil {
		return nil, err
	}
	return att, nil
}
