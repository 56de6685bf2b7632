package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primus-labs/zktls-go/attestation"
)

func sampleAttestation() *attestation.Attestation {
	return &attestation.Attestation{
		Recipient: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Request: attestation.NetworkRequest{
			URL:    "https://api.example.org/v1/balance",
			Header: "accept: application/json",
			Method: "GET",
			Body:   "",
		},
		Responses: []attestation.ResponseResolve{
			{KeyName: "balance", ParseType: "json", ParsePath: "$.data.balance"},
		},
		Data:           `{"balance":"120.5"}`,
		AttConditions:  `{"op":">","value":"100"}`,
		Timestamp:      1717171717,
		AdditionParams: "",
		Attestors: []attestation.Attestor{
			{Address: common.HexToAddress("0x2222222222222222222222222222222222222222"), URL: "https://attestor.example.org"},
		},
		Signatures: [][]byte{bytes.Repeat([]byte{0xAB}, 65)},
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	att := sampleAttestation()

	rendered, err := RenderAttestation(att)
	if err != nil {
		t.Fatalf("RenderAttestation: %v", err)
	}
	parsed, err := ParseAttestation(rendered)
	if err != nil {
		t.Fatalf("ParseAttestation: %v", err)
	}

	if got := attestation.Encode(parsed); !bytes.Equal(got, attestation.Encode(att)) {
		t.Fatalf("round trip changed the canonical digest")
	}
	if len(parsed.Signatures) != 1 || !bytes.Equal(parsed.Signatures[0], att.Signatures[0]) {
		t.Fatalf("round trip changed signatures")
	}
	if parsed.Attestors[0] != att.Attestors[0] {
		t.Fatalf("round trip changed attestors")
	}

	again, err := RenderAttestation(parsed)
	if err != nil {
		t.Fatalf("RenderAttestation(parsed): %v", err)
	}
	if !bytes.Equal(rendered, again) {
		t.Fatalf("rendering is not canonical:\n%s\nvs\n%s", rendered, again)
	}
}

func TestRenderShape(t *testing.T) {
	rendered, err := RenderAttestation(sampleAttestation())
	if err != nil {
		t.Fatalf("RenderAttestation: %v", err)
	}
	s := string(rendered)

	if !strings.HasSuffix(s, "}\n") {
		t.Fatalf("rendered document must end with a single trailing newline")
	}
	if !strings.Contains(s, `"recipient": "0x1111111111111111111111111111111111111111"`) {
		t.Fatalf("recipient not rendered in lowercase hex:\n%s", s)
	}
	if strings.Contains(s, "0xAB") {
		t.Fatalf("signature hex must be lowercase:\n%s", s)
	}
	// Fixed field order: recipient before request before data.
	ri := strings.Index(s, `"recipient"`)
	qi := strings.Index(s, `"request"`)
	di := strings.Index(s, `"data"`)
	if !(ri < qi && qi < di) {
		t.Fatalf("unexpected field order:\n%s", s)
	}
}

func TestParseChecksummedAddressAccepted(t *testing.T) {
	doc := []byte(`{"recipient":"0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}`)
	parsed, err := ParseAttestation(doc)
	if err != nil {
		t.Fatalf("ParseAttestation: %v", err)
	}
	out, err := RenderAttestation(parsed)
	if err != nil {
		t.Fatalf("RenderAttestation: %v", err)
	}
	if !bytes.Contains(out, []byte("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")) {
		t.Fatalf("checksummed input must re-render in lowercase:\n%s", out)
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	doc := []byte(`{"recipient":"0x1111111111111111111111111111111111111111","unknown":1}`)
	_, err := ParseAttestation(doc)
	if err == nil {
		t.Fatalf("expected unknown field rejection")
	}
	var coded *CodedError
	if !asCoded(err, &coded) || coded.Code != ErrInvalidDocument {
		t.Fatalf("expected INVALID_DOCUMENT, got %v", err)
	}
}

func TestParseRejectsTrailingContent(t *testing.T) {
	doc := []byte(`{"recipient":"0x1111111111111111111111111111111111111111"} {}`)
	if _, err := ParseAttestation(doc); err == nil {
		t.Fatalf("expected trailing content rejection")
	}
}

func TestParseRejectsBadHex(t *testing.T) {
	cases := map[string]string{
		"bad recipient": `{"recipient":"0x123"}`,
		"bad signature": `{"recipient":"0x1111111111111111111111111111111111111111","signatures":["0xzz"]}`,
		"bad attestor":  `{"recipient":"0x1111111111111111111111111111111111111111","attestors":[{"address":"nope","url":"u"}]}`,
	}
	for name, doc := range cases {
		if _, err := ParseAttestation([]byte(doc)); err == nil {
			t.Fatalf("%s: expected rejection", name)
		}
	}
}

func TestParseKeepsShortSignatures(t *testing.T) {
	// Wrong-length signatures are a verifier failure, not a parse failure.
	doc := []byte(`{"recipient":"0x1111111111111111111111111111111111111111","signatures":["0x0102"]}`)
	att, err := ParseAttestation(doc)
	if err != nil {
		t.Fatalf("ParseAttestation: %v", err)
	}
	if len(att.Signatures) != 1 || len(att.Signatures[0]) != 2 {
		t.Fatalf("short signature not preserved")
	}
}

func asCoded(err error, target **CodedError) bool {
	c, ok := err.(*CodedError)
	if !ok {
		return false
	}
	*target = c
	return true
}
