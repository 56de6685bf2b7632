package bundle_test

import (
	"archive/tar"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/storage/bundle"
	"github.com/primus-labs/zktls-go/storage/testkit"
)

func putDoc(t *testing.T, cas storage.CAS, doc string) cid.Cid {
	t.Helper()
	id, err := cas.Put([]byte(doc))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	return id
}

func TestExportDeterministic(t *testing.T) {
	cas := testkit.NewMemCAS()
	a := putDoc(t, cas, `{"data":"a"}`)
	b := putDoc(t, cas, `{"data":"b"}`)

	opts := bundle.ExportOptions{
		IncludeIndex: true,
		Labels:       map[string]cid.Cid{"first": a, "second": b},
	}
	var one, two bytes.Buffer
	if err := bundle.Export(&one, cas, []cid.Cid{b, a}, opts); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := bundle.Export(&two, cas, []cid.Cid{a, b, a}, opts); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.Equal(one.Bytes(), two.Bytes()) {
		t.Fatalf("bundle bytes depend on id order")
	}
}

func TestImportRoundTrip(t *testing.T) {
	src := testkit.NewMemCAS()
	doc := `{"data":"balance"}`
	id := putDoc(t, src, doc)

	var buf bytes.Buffer
	if err := bundle.Export(&buf, src, []cid.Cid{id}, bundle.ExportOptions{IncludeIndex: true}); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := testkit.NewMemCAS()
	if err := bundle.Import(bytes.NewReader(buf.Bytes()), dst); err != nil {
		t.Fatalf("import: %v", err)
	}
	got, err := dst.Get(id)
	if err != nil {
		t.Fatalf("Get after import: %v", err)
	}
	if string(got) != doc {
		t.Fatalf("imported bytes = %q, want %q", got, doc)
	}
}

func TestImportRejectsForgedBlockName(t *testing.T) {
	good := []byte(`{"data":"good"}`)
	otherCID, err := cidutil.AttestationCID([]byte(`{"data":"other"}`))
	if err != nil {
		t.Fatal(err)
	}

	// Entry is named after other bytes than it contains.
	forged := tarWithEntry(t, "blocks/"+otherCID.String(), good)
	if err := bundle.Import(bytes.NewReader(forged), testkit.NewMemCAS()); err != storage.ErrCIDMismatch {
		t.Fatalf("got %v, want ErrCIDMismatch", err)
	}
}

func TestImportUnknownEntry(t *testing.T) {
	stray := tarWithEntry(t, "notes.txt", []byte("hi"))

	err := bundle.Import(bytes.NewReader(stray), testkit.NewMemCAS())
	if err == nil || !strings.Contains(err.Error(), "unknown entry") {
		t.Fatalf("fail-closed import accepted stray entry: %v", err)
	}

	if err := bundle.ImportWithOptions(bytes.NewReader(stray), testkit.NewMemCAS(), bundle.ImportOptions{IgnoreUnknown: true}); err != nil {
		t.Fatalf("IgnoreUnknown import: %v", err)
	}
}

func TestImportRejectsTraversal(t *testing.T) {
	evil := tarWithEntry(t, "blocks/../../escape", []byte("x"))
	err := bundle.Import(bytes.NewReader(evil), testkit.NewMemCAS())
	if err == nil || !strings.Contains(err.Error(), "invalid entry path") {
		t.Fatalf("traversal entry accepted: %v", err)
	}
}

func tarWithEntry(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	h := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  time.Unix(0, 0).UTC(),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(h); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
