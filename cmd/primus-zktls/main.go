package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/primus-labs/zktls-go/archive"
	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/compliance"
	"github.com/primus-labs/zktls-go/ethsig"
	"github.com/primus-labs/zktls-go/keys"
	"github.com/primus-labs/zktls-go/model"
	"github.com/primus-labs/zktls-go/registry"
	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/storage/bundle"
	"github.com/primus-labs/zktls-go/storage/casconfig"
	"github.com/primus-labs/zktls-go/storage/casregistry"
	"github.com/primus-labs/zktls-go/trustfile"
	"github.com/primus-labs/zktls-go/verifier"

	_ "github.com/primus-labs/zktls-go/grpcattest"
	_ "github.com/primus-labs/zktls-go/storage/ipfs"
	_ "github.com/primus-labs/zktls-go/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "keygen":
		return cmdKeygen(args[1:], out, errOut)
	case "address":
		return cmdAddress(args[1:], out, errOut)
	case "key-list":
		return cmdKeyList(args[1:], out, errOut)
	case "key-import":
		return cmdKeyImport(args[1:], out, errOut)
	case "key-export":
		return cmdKeyExport(args[1:], out, errOut)
	case "sign":
		return cmdSign(args[1:], out, errOut)
	case "encode":
		return cmdEncode(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "check-trustfile":
		return cmdCheckTrustfile(args[1:], out, errOut)
	case "archive":
		return cmdArchive(args[1:], out, errOut)
	case "fetch":
		return cmdFetch(args[1:], out, errOut)
	case "has":
		return cmdHas(args[1:], out, errOut)
	case "bundle-export":
		return cmdBundleExport(args[1:], out, errOut)
	case "bundle-import":
		return cmdBundleImport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "primus-zktls: attestation signing, verification, and archive CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  primus-zktls keygen --name <name> [--dir <dir>]")
	fmt.Fprintln(w, "  primus-zktls address --name <name> [--dir <dir>]")
	fmt.Fprintln(w, "  primus-zktls key-list [--dir <dir>]")
	fmt.Fprintln(w, "  primus-zktls key-import --name <name> --hex <64hex> [--dir <dir>]")
	fmt.Fprintln(w, "  primus-zktls key-export --name <name> [--dir <dir>]")
	fmt.Fprintln(w, "  primus-zktls sign --name <name> <doc.json> [--out <file>] [--dir <dir>]")
	fmt.Fprintln(w, "  primus-zktls encode <doc.json>")
	fmt.Fprintln(w, "  primus-zktls verify --trustfile <file> <doc.json> [--mode permissive|strict]")
	fmt.Fprintln(w, "  primus-zktls check-trustfile <file>")
	fmt.Fprintln(w, "  primus-zktls archive [common flags] [--trustfile <file>] <doc.json>")
	fmt.Fprintln(w, "  primus-zktls fetch [common flags] --cid <cid> [--out <file>]")
	fmt.Fprintln(w, "  primus-zktls has [common flags] --cid <cid>")
	fmt.Fprintln(w, "  primus-zktls bundle-export [common flags] --out <file> --cid <cid> [--cid ...] [--label name=cid ...]")
	fmt.Fprintln(w, "  primus-zktls bundle-import [common flags] <file>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common flags (archive/fetch/has/bundle-*):")
	fmt.Fprintln(w, "  --backend <name>      storage backend (default localfs)")
	fmt.Fprintln(w, "  --cas-config <file>   JSON multi-backend config")
	fmt.Fprintln(w, "  --list-backends       list supported backends and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - keys are stored under ~/.primus/keys/<name>.key unless --dir is given")
	fmt.Fprintln(w, "  - sign/archive write canonical JSON documents; archive re-renders before storing")
	fmt.Fprintln(w, "  - ipfs backend shells out to the local Kubo 'ipfs' CLI")
	fmt.Fprintln(w, "  - grpc backend talks to primus-attestd")
	fmt.Fprintln(w, "  - archive stores documents as CIDv1 raw + keccak-256 blocks")
}

type commonFlags struct {
	backend      string
	casConfig    string
	listBackends bool
}

func (c *commonFlags) add(fs *flag.FlagSet) {
	fs.StringVar(&c.backend, "backend", "localfs", "CAS backend name")
	fs.StringVar(&c.casConfig, "cas-config", "", "JSON multi-backend config file")
	fs.BoolVar(&c.listBackends, "list-backends", false, "List supported backends and exit")
	casregistry.RegisterFlags(fs, casregistry.UsageCLI)
}

func (c *commonFlags) openCAS(fs *flag.FlagSet) (storage.CAS, func() error, error) {
	if c.casConfig == "" {
		return casregistry.Open(c.backend, casregistry.UsageCLI)
	}
	cfg, err := casconfig.LoadFile(c.casConfig)
	if err != nil {
		return nil, nil, err
	}
	// With a config file the backend order comes from the file; --backend
	// reorders only when set explicitly.
	preferred := ""
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "backend" {
			preferred = c.backend
		}
	})
	return cfg.Open(casregistry.UsageCLI, preferred)
}

func printBackends(w io.Writer) {
	for _, b := range casregistry.List(casregistry.UsageCLI) {
		if b.Description == "" {
			_, _ = fmt.Fprintf(w, "%s\n", b.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", b.Name, b.Description)
	}
}

func openStore(dir string, errOut io.Writer) (*keys.Store, bool) {
	st, err := keys.Open(dir)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, false
	}
	return st, true
}

func loadDocument(path string, errOut io.Writer) (*attestation.Attestation, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return nil, false
	}
	att, err := model.ParseAttestation(b)
	if err != nil {
		fmt.Fprintln(errOut, model.FromError(err))
		return nil, false
	}
	return att, true
}

func loadTrustRegistry(path string, errOut io.Writer) (*registry.Registry, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return nil, false
	}
	tf, err := trustfile.Parse(b)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, false
	}
	reg, err := tf.Registry(registry.Identity("primus-zktls"))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, false
	}
	return reg, true
}

func parseMode(s string) (compliance.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "permissive":
		return compliance.Permissive, nil
	case "strict":
		return compliance.Strict, nil
	default:
		return compliance.Permissive, fmt.Errorf("invalid --mode %q (want permissive or strict)", s)
	}
}

func cmdKeygen(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "key name")
	dir := fs.String("dir", "", "key store directory (default ~/.primus/keys)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls keygen --name <name> [--dir <dir>]")
		return 2
	}

	st, ok := openStore(*dir, errOut)
	if !ok {
		return 1
	}
	key, err := st.Generate(*name)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, strings.ToLower(ethsig.Address(key).Hex()))
	return 0
}

func cmdAddress(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("address", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "key name")
	dir := fs.String("dir", "", "key store directory (default ~/.primus/keys)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls address --name <name> [--dir <dir>]")
		return 2
	}

	st, ok := openStore(*dir, errOut)
	if !ok {
		return 1
	}
	addr, err := st.Address(*name)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, strings.ToLower(addr.Hex()))
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key-list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := fs.String("dir", "", "key store directory (default ~/.primus/keys)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls key-list [--dir <dir>]")
		return 2
	}

	st, ok := openStore(*dir, errOut)
	if !ok {
		return 1
	}
	entries, err := st.List()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	for _, e := range entries {
		_, _ = fmt.Fprintf(out, "%s\t%s\n", e.Name, strings.ToLower(e.Address.Hex()))
	}
	return 0
}

func cmdKeyImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key-import", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "key name")
	hexKey := fs.String("hex", "", "secp256k1 private key, 64 hex chars")
	dir := fs.String("dir", "", "key store directory (default ~/.primus/keys)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" || *hexKey == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls key-import --name <name> --hex <64hex> [--dir <dir>]")
		return 2
	}

	st, ok := openStore(*dir, errOut)
	if !ok {
		return 1
	}
	key, err := st.Import(*name, *hexKey)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, strings.ToLower(ethsig.Address(key).Hex()))
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key-export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "key name")
	dir := fs.String("dir", "", "key store directory (default ~/.primus/keys)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls key-export --name <name> [--dir <dir>]")
		return 2
	}

	st, ok := openStore(*dir, errOut)
	if !ok {
		return 1
	}
	h, err := st.ExportHex(*name)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, h)
	return 0
}

func cmdSign(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "key name")
	dir := fs.String("dir", "", "key store directory (default ~/.primus/keys)")
	outPath := fs.String("out", "", "Output file (optional; default stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: primus-zktls sign --name <name> <doc.json> [--out <file>] [--dir <dir>]")
		return 2
	}

	st, ok := openStore(*dir, errOut)
	if !ok {
		return 1
	}
	key, err := st.Load(*name)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	att, ok := loadDocument(fs.Arg(0), errOut)
	if !ok {
		return 1
	}
	if err := keys.AttachSignature(att, key); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	doc, err := model.RenderAttestation(att)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if *outPath == "" {
		_, _ = out.Write(doc)
		return 0
	}
	if err := os.WriteFile(*outPath, doc, 0o600); err != nil {
		fmt.Fprintf(errOut, "write %s: %v\n", *outPath, err)
		return 1
	}
	return 0
}

func cmdEncode(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: primus-zktls encode <doc.json>")
		return 2
	}

	att, ok := loadDocument(fs.Arg(0), errOut)
	if !ok {
		return 1
	}
	payload := attestation.EncodePayload(att)
	_, _ = fmt.Fprintf(out, "request-digest:     0x%s\n", hex.EncodeToString(attestation.EncodeRequest(att.Request)))
	_, _ = fmt.Fprintf(out, "responses-digest:   0x%s\n", hex.EncodeToString(attestation.EncodeResponses(att.Responses)))
	_, _ = fmt.Fprintf(out, "attestation-digest: 0x%s\n", hex.EncodeToString(attestation.Encode(att)))
	_, _ = fmt.Fprintf(out, "payload-cid:        %s\n", cidutil.AttestationCIDString(payload))
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	trustPath := fs.String("trustfile", "", "trusted attestor manifest")
	mode := fs.String("mode", "permissive", "Compliance mode: permissive|strict")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *trustPath == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: primus-zktls verify --trustfile <file> <doc.json> [--mode permissive|strict]")
		return 2
	}
	m, err := parseMode(*mode)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	reg, ok := loadTrustRegistry(*trustPath, errOut)
	if !ok {
		return 1
	}
	att, ok := loadDocument(fs.Arg(0), errOut)
	if !ok {
		return 1
	}

	v := verifier.Verifier{Mode: m}
	if err := v.Verify(reg, att); err != nil {
		fmt.Fprintln(errOut, model.FromError(err))
		return 1
	}
	_, _ = fmt.Fprintf(out, "OK %s\n", cidutil.AttestationCIDString(attestation.EncodePayload(att)))
	return 0
}

func cmdCheckTrustfile(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("check-trustfile", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: primus-zktls check-trustfile <file>")
		return 2
	}

	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	tf, err := trustfile.Parse(b)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "OK %d attestor(s)\n", len(tf.Attestors))
	return 0
}

func cmdArchive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	trustPath := fs.String("trustfile", "", "verify against this manifest before storing (optional)")
	mode := fs.String("mode", "permissive", "Compliance mode: permissive|strict")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: primus-zktls archive [common flags] [--trustfile <file>] <doc.json>")
		return 2
	}

	att, ok := loadDocument(fs.Arg(0), errOut)
	if !ok {
		return 1
	}
	if *trustPath != "" {
		m, err := parseMode(*mode)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 2
		}
		reg, ok := loadTrustRegistry(*trustPath, errOut)
		if !ok {
			return 1
		}
		v := verifier.Verifier{Mode: m}
		if err := v.Verify(reg, att); err != nil {
			fmt.Fprintln(errOut, model.FromError(err))
			return 1
		}
	}

	cas, closeFn, err := common.openCAS(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	id, err := archive.Put(cas, att)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}

func cmdFetch(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	cidStr := fs.String("cid", "", "CID to fetch")
	outPath := fs.String("out", "", "Output file (optional; default stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if *cidStr == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls fetch [common flags] --cid <cid> [--out <file>]")
		return 2
	}

	id, err := cid.Decode(*cidStr)
	if err != nil {
		fmt.Fprintln(errOut, storage.ErrInvalidCID)
		return 1
	}

	cas, closeFn, err := common.openCAS(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	b, err := cas.Get(id)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	if *outPath == "" {
		_, _ = out.Write(b)
		return 0
	}
	if err := os.WriteFile(*outPath, b, 0o600); err != nil {
		fmt.Fprintf(errOut, "write %s: %v\n", *outPath, err)
		return 1
	}
	return 0
}

func cmdHas(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("has", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	cidStr := fs.String("cid", "", "CID to check")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if *cidStr == "" || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls has [common flags] --cid <cid>")
		return 2
	}

	id, err := cid.Decode(*cidStr)
	if err != nil {
		fmt.Fprintln(errOut, storage.ErrInvalidCID)
		return 1
	}

	cas, closeFn, err := common.openCAS(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	if !cas.Has(id) {
		_, _ = fmt.Fprintln(out, "false")
		return 1
	}
	_, _ = fmt.Fprintln(out, "true")
	return 0
}

func cmdBundleExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("bundle-export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	var cids multiString
	var labels multiString
	outPath := fs.String("out", "", "Output bundle file")
	fs.Var(&cids, "cid", "CID to include (repeatable)")
	fs.Var(&labels, "label", "name=cid label (repeatable, optional)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if *outPath == "" || len(cids) == 0 || fs.NArg() != 0 {
		fmt.Fprintln(errOut, "usage: primus-zktls bundle-export [common flags] --out <file> --cid <cid> [--cid ...] [--label name=cid ...]")
		return 2
	}

	ids := make([]cid.Cid, 0, len(cids))
	for _, s := range cids {
		id, err := cid.Decode(s)
		if err != nil {
			fmt.Fprintf(errOut, "--cid %s: %v\n", s, storage.ErrInvalidCID)
			return 1
		}
		ids = append(ids, id)
	}

	opts := bundle.ExportOptions{}
	for _, l := range labels {
		name, val, ok := strings.Cut(l, "=")
		if !ok || name == "" || val == "" {
			fmt.Fprintf(errOut, "--label %q: want name=cid\n", l)
			return 2
		}
		id, err := cid.Decode(val)
		if err != nil {
			fmt.Fprintf(errOut, "--label %s: %v\n", name, storage.ErrInvalidCID)
			return 1
		}
		if opts.Labels == nil {
			opts.Labels = make(map[string]cid.Cid)
		}
		opts.Labels[name] = id
	}

	cas, closeFn, err := common.openCAS(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(errOut, "create %s: %v\n", *outPath, err)
		return 1
	}
	if err := bundle.Export(f, cas, ids, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(*outPath)
		fmt.Fprintln(errOut, err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "close %s: %v\n", *outPath, err)
		return 1
	}
	return 0
}

func cmdBundleImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("bundle-import", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var common commonFlags
	common.add(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if common.listBackends {
		printBackends(out)
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: primus-zktls bundle-import [common flags] <file>")
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "open %s: %v\n", filepath.Base(fs.Arg(0)), err)
		return 1
	}
	defer f.Close()

	cas, closeFn, err := common.openCAS(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if closeFn != nil {
		defer closeFn()
	}

	if err := bundle.Import(f, cas); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

type multiString []string

func (m *multiString) String() string { return strings.Join(*m, ",") }

func (m *multiString) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("empty value")
	}
	*m = append(*m, v)
	return nil
}
