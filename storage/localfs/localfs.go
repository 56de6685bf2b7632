// Package localfs archives attestation documents as immutable files on the
// local filesystem, keyed by CID (CIDv1 raw + keccak-256). It is fully
// offline: no network, no clocks, the same bytes always land in the same
// place.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/storage"
)

// CAS stores each document under <root>/<first two CID chars>/<cid>,
// mode 0444. Files are never rewritten; a Put over different existing
// bytes is ErrImmutable.
type CAS struct {
	root string
}

// New roots a store at dir, creating it if needed.
func New(dir string) (*CAS, error) {
	if dir == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CAS{root: dir}, nil
}

func (c *CAS) Put(data []byte) (cid.Cid, error) {
	id, err := cidutil.AttestationCID(data)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	path := c.shardPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}
	if err := c.writeNew(path, data); err != nil {
		if !os.IsExist(err) {
			return cid.Undef, err
		}
		// Already archived: accept only if the stored bytes match.
		existing, rerr := c.Get(id)
		if rerr != nil || !bytes.Equal(existing, data) {
			return cid.Undef, storage.ErrImmutable
		}
	}
	return id, nil
}

// writeNew creates path exclusively and syncs it, removing the partial
// file on any failure.
func (c *CAS) writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err == nil {
		err = f.Sync()
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

// Get re-hashes what it reads; a file that no longer matches its CID is
// ErrCIDMismatch, never silently returned.
func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	data, err := os.ReadFile(c.shardPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	got, err := cidutil.AttestationCID(data)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return data, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(c.shardPath(id))
	return err == nil
}

func (c *CAS) shardPath(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(c.root, s)
	}
	return filepath.Join(c.root, s[:2], s)
}
