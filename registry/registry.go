// Package registry implements the owner-gated set of trusted attestors.
package registry

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/primus-labs/zktls-go/attestation"
)

// Identity is the opaque caller identity supplied by the execution context
// on every mutating call. The registry never establishes identity itself;
// the host decides what an identity string denotes (an account, a service
// principal, a transaction sender).
type Identity string

// Sink receives registry change notifications.
//
// Each successful mutating call emits exactly one notification. Delivery is
// synchronous and unbuffered; the registry neither retries nor drops.
type Sink interface {
	AttestorAdded(addr common.Address, a attestation.Attestor)
	AttestorRemoved(addr common.Address)
}

// Registry is the owner-controlled collection of trusted attestors.
//
// Membership is tracked twice: a map keyed by address for lookup and an
// ordered mirror for enumeration. Every mutation updates both before it
// returns. RemoveAttestor swap-removes from the mirror, so enumeration
// order is not stable across removals.
//
// The registry does no internal locking: the host serializes mutating
// calls. Lookups and enumeration may run concurrently with each other but
// not with a mutation.
type Registry struct {
	// Sink, when non-nil, receives change notifications.
	Sink Sink

	owner     Identity
	attestors map[common.Address]attestation.Attestor
	order     []common.Address
}

var zeroAddress common.Address

// New creates a registry owned by owner, seeded with one default attestor.
// A registry is never empty.
func New(owner Identity, def attestation.Attestor) (*Registry, error) {
	if def.Address == zeroAddress {
		return nil, attestation.NewError(attestation.KindInvalidAddress, "ZKTLS-REG-001", "default attestor address is empty")
	}
	return &Registry{
		owner:     owner,
		attestors: map[common.Address]attestation.Attestor{def.Address: def},
		order:     []common.Address{def.Address},
	}, nil
}

// SetAttestor inserts or updates an attestor. Updating an existing address
// replaces its metadata in place and keeps its mirror position; inserting
// appends to the mirror.
func (r *Registry) SetAttestor(caller Identity, a attestation.Attestor) error {
	if caller != r.owner {
		return attestation.NewError(attestation.KindNotOwner, "ZKTLS-REG-011", "caller is not the registry owner")
	}
	if a.Address == zeroAddress {
		return attestation.NewError(attestation.KindInvalidAddress, "ZKTLS-REG-002", "attestor address is empty")
	}

	_, exists := r.attestors[a.Address]
	r.attestors[a.Address] = a
	if !exists {
		r.order = append(r.order, a.Address)
	}

	if r.Sink != nil {
		r.Sink.AttestorAdded(a.Address, a)
	}
	return nil
}

// RemoveAttestor removes a registered attestor by address.
func (r *Registry) RemoveAttestor(caller Identity, addr common.Address) error {
	if caller != r.owner {
		return attestation.NewError(attestation.KindNotOwner, "ZKTLS-REG-012", "caller is not the registry owner")
	}
	if addr == zeroAddress {
		return attestation.NewError(attestation.KindInvalidAddress, "ZKTLS-REG-003", "attestor address is empty")
	}
	if _, ok := r.attestors[addr]; !ok {
		return attestation.NewError(attestation.KindAttestorNotFound, "ZKTLS-REG-021", "attestor is not registered")
	}

	delete(r.attestors, addr)
	for i := range r.order {
		if r.order[i] == addr {
			last := len(r.order) - 1
			r.order[i] = r.order[last]
			r.order = r.order[:last]
			break
		}
	}

	if r.Sink != nil {
		r.Sink.AttestorRemoved(addr)
	}
	return nil
}

// Contains reports whether addr is a registered attestor.
func (r *Registry) Contains(addr common.Address) bool {
	_, ok := r.attestors[addr]
	return ok
}

// Attestor returns the registered attestor for addr.
func (r *Registry) Attestor(addr common.Address) (attestation.Attestor, bool) {
	a, ok := r.attestors[addr]
	return a, ok
}

// Attestors returns a copy of the attestors in mirror order.
func (r *Registry) Attestors() []attestation.Attestor {
	out := make([]attestation.Attestor, 0, len(r.order))
	for _, addr := range r.order {
		out = append(out, r.attestors[addr])
	}
	return out
}

// Owner returns the identity the registry was created with.
func (r *Registry) Owner() Identity { return r.owner }

// Len returns the number of registered attestors.
func (r *Registry) Len() int { return len(r.order) }
