// Package testkit holds shared test helpers for archive backends: a
// conformance suite over the storage.CAS contract and an in-memory store.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/storage"
)

// NewCAS builds a fresh, empty store for one (sub)test. Instances must not
// share state.
type NewCAS func(t *testing.T) storage.CAS

// RunCASConformance exercises the storage.CAS contract against newCAS.
// Every backend's test file runs this once.
func RunCASConformance(t *testing.T, newCAS NewCAS) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		cas := newCAS(t)
		doc := []byte(`{"data":"archived attestation"}`)

		id, err := cas.Put(doc)
		if err != nil {
			t.Fatalf("Put: %v", err)
		}
		want, err := cidutil.AttestationCID(doc)
		if err != nil {
			t.Fatalf("AttestationCID: %v", err)
		}
		if id != want {
			t.Fatalf("Put returned %s, want %s", id, want)
		}

		got, err := cas.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !bytes.Equal(got, doc) {
			t.Fatalf("Get returned different bytes")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		cas := newCAS(t)
		doc := []byte("same bytes")

		first, err := cas.Put(doc)
		if err != nil {
			t.Fatalf("first Put: %v", err)
		}
		second, err := cas.Put(doc)
		if err != nil {
			t.Fatalf("second Put: %v", err)
		}
		if first != second {
			t.Fatalf("Put not idempotent: %s then %s", first, second)
		}
	})

	t.Run("DistinctBytesDistinctCIDs", func(t *testing.T) {
		cas := newCAS(t)
		a, err := cas.Put([]byte("a"))
		if err != nil {
			t.Fatalf("Put a: %v", err)
		}
		b, err := cas.Put([]byte("b"))
		if err != nil {
			t.Fatalf("Put b: %v", err)
		}
		if a == b {
			t.Fatalf("different bytes share CID %s", a)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		cas := newCAS(t)
		doc := []byte("missing")
		id, err := cidutil.AttestationCID(doc)
		if err != nil {
			t.Fatalf("AttestationCID: %v", err)
		}

		if cas.Has(id) {
			t.Fatalf("Has reports a document that was never stored")
		}
		if _, err := cas.Get(id); !storage.IsNotFound(err) {
			t.Fatalf("Get missing = %v, want ErrNotFound", err)
		}

		if _, err := cas.Put(doc); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if !cas.Has(id) {
			t.Fatalf("Has false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		cas := newCAS(t)
		var undef cid.Cid
		if cas.Has(undef) {
			t.Fatalf("Has true for the undefined CID")
		}
		if _, err := cas.Get(undef); err == nil {
			t.Fatalf("Get accepted the undefined CID")
		}
	})
}
