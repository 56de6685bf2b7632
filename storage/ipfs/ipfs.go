// Package ipfs archives attestation documents as raw blocks in a local
// Kubo repository by shelling out to the "ipfs" CLI. The core library
// stays provider-agnostic; this is one optional storage.CAS adapter.
//
// The adapter works offline against the repo (no daemon needed) and never
// trusts transport: everything read back is re-hashed against the
// requested CID. Blocks are written with explicit raw/keccak-256/CIDv1
// parameters so Kubo's CIDs match cidutil.AttestationCID exactly.
package ipfs

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/storage"
)

type CAS struct {
	bin string
	env []string
	pin bool
}

type Options struct {
	// Bin locates the ipfs binary; "ipfs" on PATH when empty.
	Bin string
	// Env replaces the command environment, typically to point IPFS_PATH
	// at a specific repo. Nil inherits the process environment.
	Env []string
	// Pin pins every archived block so repo GC keeps it.
	Pin bool
}

func New(opts Options) *CAS {
	bin := opts.Bin
	if bin == "" {
		bin = "ipfs"
	}
	return &CAS{bin: bin, env: opts.Env, pin: opts.Pin}
}

func (c *CAS) Put(data []byte) (cid.Cid, error) {
	want, err := cidutil.AttestationCID(data)
	if err != nil {
		return cid.Undef, err
	}
	if !want.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	out, err := c.ipfs(data,
		"block", "put",
		"--quiet",
		"--format=raw",
		"--mhtype=keccak-256",
		"--mhlen=32",
		"--cid-version=1",
		"/dev/stdin",
	)
	if err != nil {
		return cid.Undef, err
	}
	got, err := cid.Decode(strings.TrimSpace(string(out)))
	if err != nil {
		return cid.Undef, fmt.Errorf("ipfs: unexpected block put output: %w", err)
	}
	if !got.Equals(want) {
		return cid.Undef, storage.ErrCIDMismatch
	}

	if c.pin {
		if _, err := c.ipfs(nil, "pin", "add", "--recursive=false", want.String()); err != nil {
			return cid.Undef, err
		}
	}
	return want, nil
}

func (c *CAS) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	out, err := c.ipfs(nil, "block", "get", id.String())
	if err != nil {
		if looksNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	got, err := cidutil.AttestationCID(out)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, storage.ErrCIDMismatch
	}
	return out, nil
}

func (c *CAS) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := c.ipfs(nil, "block", "stat", id.String())
	return err == nil
}

// ipfs runs one CLI invocation, folding stderr into the returned error.
func (c *CAS) ipfs(stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.Command(c.bin, args...)
	if c.env != nil {
		cmd.Env = c.env
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		if msg := strings.TrimSpace(string(exit.Stderr)); msg != "" {
			return nil, fmt.Errorf("ipfs: %s", msg)
		}
		return nil, fmt.Errorf("ipfs: %v", err)
	}
	return nil, err
}

// Kubo reports missing blocks only through its error text.
func looksNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
