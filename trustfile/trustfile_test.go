package trustfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/registry"
)

const canonical = `-----BEGIN PRIMUS TRUSTFILE-----
META
Name: example
Version: 1
ATTESTORS
Address: 0xdb736b13e2f522dbe18b2015d0291e4b193d8ef6
URL: https://attestor.example.org
Address: 0x1111111111111111111111111111111111111111
URL: https://second.example.org
-----END PRIMUS TRUSTFILE-----
`

func TestParseRenderRoundTrip(t *testing.T) {
	tf, err := Parse([]byte(canonical))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := tf.Meta["Name"]; got != "example" {
		t.Fatalf("Meta[Name] = %q, want example", got)
	}
	if len(tf.Attestors) != 2 {
		t.Fatalf("got %d attestors, want 2", len(tf.Attestors))
	}
	want := common.HexToAddress("0xdb736b13e2f522dbe18b2015d0291e4b193d8ef6")
	if tf.Attestors[0].Address != want {
		t.Fatalf("attestor 0 address = %s, want %s", tf.Attestors[0].Address, want)
	}
	if tf.Attestors[0].URL != "https://attestor.example.org" {
		t.Fatalf("attestor 0 url = %q", tf.Attestors[0].URL)
	}

	out, err := Render(tf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Equal(out, []byte(canonical)) {
		t.Fatalf("render not canonical:\n got %q\nwant %q", out, canonical)
	}
}

func TestRenderAddsVersion(t *testing.T) {
	tf := &Trustfile{
		Attestors: []attestation.Attestor{
			{Address: common.HexToAddress("0x2222222222222222222222222222222222222222"), URL: "https://a.example.org"},
		},
	}
	out, err := Render(tf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Render): %v", err)
	}
	if back.Meta["Version"] != Version {
		t.Fatalf("Version = %q, want %q", back.Meta["Version"], Version)
	}
}

func TestParseRejects(t *testing.T) {
	replace := func(old, new string) string { return strings.Replace(canonical, old, new, 1) }

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bom", "\xEF\xBB\xBF" + canonical, "BOM"},
		{"crlf", strings.ReplaceAll(canonical, "\n", "\r\n"), "CR line endings"},
		{"trailing-space", replace("META\n", "META \n"), "trailing whitespace"},
		{"missing-preamble", replace("-----BEGIN PRIMUS TRUSTFILE-----\n", ""), "preamble"},
		{"missing-postamble", replace("-----END PRIMUS TRUSTFILE-----\n", ""), "postamble"},
		{"missing-version", replace("Version: 1\n", ""), "missing META Version"},
		{"wrong-version", replace("Version: 1", "Version: 2"), "unsupported version"},
		{"malformed-meta", replace("Name: example", "Name=example"), "malformed META pair"},
		{"duplicate-meta", replace("META\n", "META\nName: other\n"), "duplicate META key"},
		{"content-outside-section", replace("META\n", "stray\nMETA\n"), "outside a section"},
		{"bad-address", replace("0xdb736b13e2f522dbe18b2015d0291e4b193d8ef6", "0xnothex"), "invalid attestor address"},
		{"zero-address", replace("0xdb736b13e2f522dbe18b2015d0291e4b193d8ef6", "0x0000000000000000000000000000000000000000"), "zero attestor address"},
		{"duplicate-attestor", replace("0x1111111111111111111111111111111111111111", "0xdb736b13e2f522dbe18b2015d0291e4b193d8ef6"), "duplicate attestor"},
		{"url-missing", replace("URL: https://attestor.example.org\n", ""), "expected URL after Address"},
		{"no-attestors", "-----BEGIN PRIMUS TRUSTFILE-----\nMETA\nVersion: 1\nATTESTORS\n-----END PRIMUS TRUSTFILE-----\n", "no attestors"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			if err == nil {
				t.Fatalf("Parse accepted %s input", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestRenderRejects(t *testing.T) {
	good := attestation.Attestor{
		Address: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		URL:     "https://a.example.org",
	}

	cases := []struct {
		name string
		tf   *Trustfile
		want string
	}{
		{"nil", nil, "no attestors"},
		{"empty", &Trustfile{}, "no attestors"},
		{"zero-address", &Trustfile{Attestors: []attestation.Attestor{{URL: "https://a.example.org"}}}, "zero attestor address"},
		{"duplicate", &Trustfile{Attestors: []attestation.Attestor{good, good}}, "duplicate attestor"},
		{"url-space", &Trustfile{Attestors: []attestation.Attestor{{Address: good.Address, URL: "https://a b"}}}, "invalid URL"},
		{"url-empty", &Trustfile{Attestors: []attestation.Attestor{{Address: good.Address}}}, "invalid URL"},
		{"meta-key", &Trustfile{Meta: map[string]string{"a:b": "v"}, Attestors: []attestation.Attestor{good}}, "invalid META key"},
		{"meta-value", &Trustfile{Meta: map[string]string{"Name": ""}, Attestors: []attestation.Attestor{good}}, "invalid META value"},
		{"wrong-version", &Trustfile{Meta: map[string]string{"Version": "2"}, Attestors: []attestation.Attestor{good}}, "unsupported version"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Render(tc.tf)
			if err == nil {
				t.Fatalf("Render accepted %s input", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestRegistrySeeding(t *testing.T) {
	tf, err := Parse([]byte(canonical))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	owner := registry.Identity("test-owner")
	reg, err := tf.Registry(owner)
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	if reg.Owner() != owner {
		t.Fatalf("owner = %q, want %q", reg.Owner(), owner)
	}
	if reg.Len() != len(tf.Attestors) {
		t.Fatalf("registry has %d attestors, want %d", reg.Len(), len(tf.Attestors))
	}
	got := reg.Attestors()
	for i, a := range tf.Attestors {
		if got[i] != a {
			t.Fatalf("attestor %d = %+v, want %+v", i, got[i], a)
		}
	}
}
