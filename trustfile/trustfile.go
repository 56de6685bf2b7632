// Package trustfile implements parsing and rendering for the text manifest
// that declares a trusted attestor set.
//
// A trustfile seeds a registry at daemon startup or for one-shot CLI
// verification. The format is deliberately rigid: one canonical byte form
// per manifest, so operators can diff and hash them.
package trustfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/registry"
)

const (
	Preamble  = "-----BEGIN PRIMUS TRUSTFILE-----"
	Postamble = "-----END PRIMUS TRUSTFILE-----"

	// Version is the only supported manifest version.
	Version = "1"
)

// Trustfile is a parsed manifest.
type Trustfile struct {
	Meta      map[string]string
	Attestors []attestation.Attestor
}

// Parse parses a trustfile and enforces its canonical form: UTF-8 without a
// BOM, LF line endings only, no trailing whitespace, preamble and postamble
// present, Version declared, and at least one attestor entry. Each entry is
// an Address line immediately followed by a URL line.
func Parse(data []byte) (*Trustfile, error) {
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return nil, errors.New("trustfile: BOM not allowed")
	}
	if bytes.Contains(data, []byte("\r")) {
		return nil, errors.New("trustfile: CR line endings not allowed")
	}
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
			return nil, errors.New("trustfile: trailing whitespace forbidden")
		}
	}
	if !bytes.HasPrefix(data, []byte(Preamble)) {
		return nil, errors.New("trustfile: missing preamble")
	}
	if !bytes.HasSuffix(bytes.TrimSpace(data), []byte(Postamble)) {
		return nil, errors.New("trustfile: missing postamble")
	}

	tf := &Trustfile{Meta: make(map[string]string)}
	seen := make(map[common.Address]bool)
	reader := bufio.NewReader(bytes.NewReader(data))
	section := ""
	lineNo := 0
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		lineNo++
		line := strings.TrimSpace(raw)

		switch line {
		case "", Preamble, Postamble:
			// Structural lines carry no content.
		case "META", "ATTESTORS":
			section = line
		default:
			switch section {
			case "META":
				k, v, ok := strings.Cut(line, ": ")
				if !ok {
					return nil, fmt.Errorf("trustfile: line %d: malformed META pair", lineNo)
				}
				if _, dup := tf.Meta[k]; dup {
					return nil, fmt.Errorf("trustfile: line %d: duplicate META key %q", lineNo, k)
				}
				tf.Meta[k] = v
			case "ATTESTORS":
				if !strings.HasPrefix(line, "Address: ") {
					return nil, fmt.Errorf("trustfile: line %d: expected Address entry", lineNo)
				}
				hexAddr := strings.TrimPrefix(line, "Address: ")
				if !common.IsHexAddress(hexAddr) {
					return nil, fmt.Errorf("trustfile: line %d: invalid attestor address %q", lineNo, hexAddr)
				}
				addr := common.HexToAddress(hexAddr)
				if addr == (common.Address{}) {
					return nil, fmt.Errorf("trustfile: line %d: zero attestor address", lineNo)
				}
				if seen[addr] {
					return nil, fmt.Errorf("trustfile: line %d: duplicate attestor %s", lineNo, hexAddr)
				}

				urlRaw, _ := reader.ReadString('\n')
				lineNo++
				urlLine := strings.TrimSpace(urlRaw)
				if !strings.HasPrefix(urlLine, "URL: ") {
					return nil, fmt.Errorf("trustfile: line %d: expected URL after Address", lineNo)
				}
				url := strings.TrimPrefix(urlLine, "URL: ")

				seen[addr] = true
				tf.Attestors = append(tf.Attestors, attestation.Attestor{Address: addr, URL: url})
			default:
				return nil, fmt.Errorf("trustfile: line %d: content outside a section", lineNo)
			}
		}

		if err != nil {
			break
		}
	}

	switch v, ok := tf.Meta["Version"]; {
	case !ok:
		return nil, errors.New("trustfile: missing META Version")
	case v != Version:
		return nil, fmt.Errorf("trustfile: unsupported version %q", v)
	}
	if len(tf.Attestors) == 0 {
		return nil, errors.New("trustfile: no attestors declared")
	}
	return tf, nil
}

// Render serializes a manifest in canonical form: META first with keys
// sorted lexicographically, then ATTESTORS in slice order, addresses in
// lowercase hex, one trailing newline. A Version pair is emitted even when
// Meta lacks one, so rendered output always re-parses.
//
// Render(Parse(b)) reproduces b for any canonical b.
func Render(tf *Trustfile) ([]byte, error) {
	if tf == nil || len(tf.Attestors) == 0 {
		return nil, errors.New("trustfile: no attestors to render")
	}

	meta := make(map[string]string, len(tf.Meta)+1)
	for k, v := range tf.Meta {
		meta[k] = v
	}
	if _, ok := meta["Version"]; !ok {
		meta["Version"] = Version
	}
	if meta["Version"] != Version {
		return nil, fmt.Errorf("trustfile: unsupported version %q", meta["Version"])
	}

	var buf bytes.Buffer
	buf.WriteString(Preamble + "\n")
	buf.WriteString("META\n")
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := meta[k]
		if k == "" || k != strings.TrimSpace(k) || strings.ContainsAny(k, ":\n") {
			return nil, fmt.Errorf("trustfile: invalid META key %q", k)
		}
		if v == "" || v != strings.TrimSpace(v) || strings.Contains(v, "\n") {
			return nil, fmt.Errorf("trustfile: invalid META value for %q", k)
		}
		fmt.Fprintf(&buf, "%s: %s\n", k, v)
	}

	buf.WriteString("ATTESTORS\n")
	seen := make(map[common.Address]bool, len(tf.Attestors))
	for _, a := range tf.Attestors {
		if a.Address == (common.Address{}) {
			return nil, errors.New("trustfile: zero attestor address")
		}
		if seen[a.Address] {
			return nil, fmt.Errorf("trustfile: duplicate attestor %s", a.Address.Hex())
		}
		seen[a.Address] = true
		if a.URL == "" || a.URL != strings.TrimSpace(a.URL) || strings.ContainsAny(a.URL, " \t\n") {
			return nil, fmt.Errorf("trustfile: invalid URL for %s", a.Address.Hex())
		}
		fmt.Fprintf(&buf, "Address: %s\nURL: %s\n", strings.ToLower(a.Address.Hex()), a.URL)
	}
	buf.WriteString(Postamble + "\n")
	return buf.Bytes(), nil
}

// Registry materializes the manifest into a live registry owned by owner.
// The first entry seeds the registry; the rest are added in order.
func (tf *Trustfile) Registry(owner registry.Identity) (*registry.Registry, error) {
	if tf == nil || len(tf.Attestors) == 0 {
		return nil, errors.New("trustfile: no attestors declared")
	}
	reg, err := registry.New(owner, tf.Attestors[0])
	if err != nil {
		return nil, err
	}
	for _, a := range tf.Attestors[1:] {
		if err := reg.SetAttestor(owner, a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
