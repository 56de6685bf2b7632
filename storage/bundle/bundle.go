// Package bundle moves sets of archived attestation documents between
// stores as a single TAR file. Bundles are deterministic: the same blocks
// always produce the same bytes, so a bundle can itself be archived or
// diffed.
package bundle

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/storage"
)

// FormatVersion is the index.json schema version.
const FormatVersion = 1

// Layout: blocks/<cid> entries hold raw document bytes; index.json (when
// requested) and anything under manifests/ is non-authoritative metadata.

type ExportOptions struct {
	// Labels attaches human-readable names to CIDs in index.json. Purely
	// informational; import ignores them.
	Labels map[string]cid.Cid
	// IncludeIndex adds an index.json entry after the blocks.
	IncludeIndex bool
}

// Export writes the blocks for ids to w as a TAR bundle. Entries are
// sorted by CID string, headers are normalized (zero ids, epoch mtime),
// and every block is re-hashed against its CID before it is written, so a
// corrupt store cannot produce a valid-looking bundle.
func Export(w io.Writer, cas storage.CAS, ids []cid.Cid, opts ExportOptions) error {
	if cas == nil {
		return fmt.Errorf("bundle: nil CAS")
	}

	uniq := make(map[string]cid.Cid, len(ids))
	for _, id := range ids {
		if !id.Defined() {
			return storage.ErrInvalidCID
		}
		uniq[id.String()] = id
	}
	order := make([]string, 0, len(uniq))
	for s := range uniq {
		order = append(order, s)
	}
	sort.Strings(order)

	tw := tar.NewWriter(w)
	fail := func(err error) error {
		_ = tw.Close()
		return err
	}

	blocks := make([]indexBlock, 0, len(order))
	for _, s := range order {
		id := uniq[s]
		data, err := cas.Get(id)
		if err != nil {
			return fail(err)
		}
		got, err := cidutil.AttestationCID(data)
		if err != nil {
			return fail(err)
		}
		if !got.Equals(id) {
			return fail(storage.ErrCIDMismatch)
		}
		if err := writeEntry(tw, "blocks/"+s, data); err != nil {
			return fail(err)
		}
		blocks = append(blocks, indexBlock{CID: s, Size: len(data)})
	}

	if opts.IncludeIndex {
		labels, err := sortedLabels(opts.Labels)
		if err != nil {
			return fail(err)
		}
		idx, err := json.Marshal(bundleIndex{
			Version:   FormatVersion,
			CIDCodec:  "raw",
			Multihash: "keccak-256",
			Blocks:    blocks,
			Labels:    labels,
		})
		if err != nil {
			return fail(err)
		}
		if err := writeEntry(tw, "index.json", append(idx, '\n')); err != nil {
			return fail(err)
		}
	}
	return tw.Close()
}

func sortedLabels(in map[string]cid.Cid) ([]indexLabel, error) {
	if len(in) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(in))
	for k := range in {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]indexLabel, 0, len(names))
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("bundle: empty label key")
		}
		id := in[name]
		if !id.Defined() {
			return nil, storage.ErrInvalidCID
		}
		out = append(out, indexLabel{Name: name, CID: id.String()})
	}
	return out, nil
}

type ImportOptions struct {
	// IgnoreUnknown skips TAR entries outside the bundle layout instead of
	// failing. The default is fail-closed.
	IgnoreUnknown bool
}

// Import stores every block in the bundle into cas, fail-closed on unknown
// entries.
func Import(r io.Reader, cas storage.CAS) error {
	return ImportWithOptions(r, cas, ImportOptions{})
}

// ImportWithOptions stores every block in the bundle into cas. Each block
// is checked twice: its bytes must hash to the CID in its entry name, and
// the store's Put must return that same CID.
func ImportWithOptions(r io.Reader, cas storage.CAS, opts ImportOptions) error {
	if cas == nil {
		return fmt.Errorf("bundle: nil CAS")
	}

	tr := tar.NewReader(r)
	seen := map[string]struct{}{}
	for {
		h, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		name := normalizePath(h.Name)
		if name == "" {
			return fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}
		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		if name == "index.json" || strings.HasPrefix(name, "manifests/") {
			_, _ = io.Copy(io.Discard, tr)
			continue
		}
		if !strings.HasPrefix(name, "blocks/") {
			if opts.IgnoreUnknown {
				_, _ = io.Copy(io.Discard, tr)
				continue
			}
			return fmt.Errorf("bundle: unknown entry: %s", name)
		}

		if _, dup := seen[name]; dup {
			return fmt.Errorf("bundle: duplicate block entry: %s", strings.TrimPrefix(name, "blocks/"))
		}
		seen[name] = struct{}{}

		if err := importBlock(tr, cas, strings.TrimPrefix(name, "blocks/")); err != nil {
			return err
		}
	}
}

func importBlock(tr *tar.Reader, cas storage.CAS, cidStr string) error {
	id, err := cid.Decode(cidStr)
	if err != nil || !id.Defined() {
		return storage.ErrInvalidCID
	}
	data, err := io.ReadAll(tr)
	if err != nil {
		return err
	}
	got, err := cidutil.AttestationCID(data)
	if err != nil {
		return err
	}
	if !got.Equals(id) {
		return storage.ErrCIDMismatch
	}
	stored, err := cas.Put(data)
	if err != nil {
		return err
	}
	if !stored.Equals(id) {
		return storage.ErrCIDMismatch
	}
	return nil
}

type bundleIndex struct {
	Version   int          `json:"version"`
	CIDCodec  string       `json:"cidCodec"`
	Multihash string       `json:"multihash"`
	Blocks    []indexBlock `json:"blocks"`
	Labels    []indexLabel `json:"labels,omitempty"`
}

type indexBlock struct {
	CID  string `json:"cid"`
	Size int    `json:"size"`
}

type indexLabel struct {
	Name string `json:"name"`
	CID  string `json:"cid"`
}

var epoch = time.Unix(0, 0).UTC()

func writeEntry(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

// normalizePath rejects absolute, empty, and dot-dot segments; traversal
// out of the bundle is never allowed.
func normalizePath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}
	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." {
			return ""
		}
	}
	return name
}
