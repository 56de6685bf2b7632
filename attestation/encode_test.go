package attestation

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func referenceAttestation() *Attestation {
	return &Attestation{
		Recipient: common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"),
		Request:   NetworkRequest{URL: "url", Header: "header", Method: "method", Body: "body"},
		Responses: []ResponseResolve{
			{KeyName: "keyName", ParseType: "parseType", ParsePath: "parsePath"},
			{KeyName: "keyName", ParseType: "parseType", ParsePath: "parsePath"},
		},
		Data:           "data",
		AttConditions:  "attConditions",
		Timestamp:      1700000000,
		AdditionParams: "additionParams",
	}
}

func TestEncodeRequestReferenceDigest(t *testing.T) {
	const want = "6516ff20b12fab566bffa0007a21e4790d74345696806422615c31a2bbe04698"
	got := hex.EncodeToString(EncodeRequest(NetworkRequest{
		URL: "url", Header: "header", Method: "method", Body: "body",
	}))
	if got != want {
		t.Fatalf("EncodeRequest digest = %s, want %s", got, want)
	}
}

func TestEncodeResponsesReferenceDigest(t *testing.T) {
	entry := ResponseResolve{KeyName: "keyName", ParseType: "parseType", ParsePath: "parsePath"}
	const want = "7bf1beb260e2560e9c8dc1c7d859b5fa15fab01041779bdd85ed5096125a9441"
	got := hex.EncodeToString(EncodeResponses([]ResponseResolve{entry, entry}))
	if got != want {
		t.Fatalf("EncodeResponses digest = %s, want %s", got, want)
	}
}

func TestEncodeResponsesOrderSensitive(t *testing.T) {
	a := ResponseResolve{KeyName: "a", ParseType: "t", ParsePath: "p"}
	b := ResponseResolve{KeyName: "b", ParseType: "t", ParsePath: "p"}
	ab := EncodeResponses([]ResponseResolve{a, b})
	ba := EncodeResponses([]ResponseResolve{b, a})
	if bytes.Equal(ab, ba) {
		t.Fatalf("reordered responses produced the same digest")
	}
}

func TestEncodePayloadLayout(t *testing.T) {
	att := referenceAttestation()
	payload := EncodePayload(att)

	if len(payload) != 20+32+32+len(att.Data)+len(att.AttConditions)+8+len(att.AdditionParams) {
		t.Fatalf("payload length = %d", len(payload))
	}
	if !bytes.Equal(payload[:20], att.Recipient[:]) {
		t.Fatalf("payload does not start with the raw recipient bytes")
	}
	if !bytes.Equal(payload[20:52], EncodeRequest(att.Request)) {
		t.Fatalf("request digest not at offset 20")
	}
	if !bytes.Equal(payload[52:84], EncodeResponses(att.Responses)) {
		t.Fatalf("responses digest not at offset 52")
	}
	// 1700000000 == 0x6553F100, big-endian.
	wantTS := []byte{0x00, 0x00, 0x00, 0x00, 0x65, 0x53, 0xF1, 0x00}
	tsOff := 84 + len(att.Data) + len(att.AttConditions)
	if !bytes.Equal(payload[tsOff:tsOff+8], wantTS) {
		t.Fatalf("timestamp bytes = %x, want %x", payload[tsOff:tsOff+8], wantTS)
	}
}

func TestEncodeReferenceDigest(t *testing.T) {
	const want = "463870184822e56f31e8da96993ad07930e33247fd40461983394631edee07c0"
	got := hex.EncodeToString(Encode(referenceAttestation()))
	if got != want {
		t.Fatalf("Encode digest = %s, want %s", got, want)
	}
}

func TestEncodeIgnoresAttestorsAndSignatures(t *testing.T) {
	base := referenceAttestation()
	withMeta := referenceAttestation()
	withMeta.Attestors = []Attestor{
		{Address: common.HexToAddress("0x2222222222222222222222222222222222222222"), URL: "https://attestor.example.org"},
	}
	withMeta.Signatures = [][]byte{bytes.Repeat([]byte{0x5A}, SignatureLength)}

	if !bytes.Equal(Encode(base), Encode(withMeta)) {
		t.Fatalf("attestors/signatures leaked into the encoding")
	}
	if !bytes.Equal(EncodePayload(base), EncodePayload(withMeta)) {
		t.Fatalf("attestors/signatures leaked into the payload")
	}
}

func TestEncodeSensitiveToEveryContentField(t *testing.T) {
	base := Encode(referenceAttestation())

	mutations := map[string]func(*Attestation){
		"recipient":      func(a *Attestation) { a.Recipient[19] ^= 0x01 },
		"request.url":    func(a *Attestation) { a.Request.URL += "x" },
		"request.header": func(a *Attestation) { a.Request.Header += "x" },
		"request.method": func(a *Attestation) { a.Request.Method += "x" },
		"request.body":   func(a *Attestation) { a.Request.Body += "x" },
		"responses":      func(a *Attestation) { a.Responses = a.Responses[:1] },
		"data":           func(a *Attestation) { a.Data += "x" },
		"attConditions":  func(a *Attestation) { a.AttConditions += "x" },
		"timestamp":      func(a *Attestation) { a.Timestamp++ },
		"additionParams": func(a *Attestation) { a.AdditionParams += "x" },
	}
	for name, mutate := range mutations {
		att := referenceAttestation()
		mutate(att)
		if bytes.Equal(base, Encode(att)) {
			t.Fatalf("mutating %s did not change the digest", name)
		}
	}
}

func TestEncodeRequestDelimiterFreeAmbiguity(t *testing.T) {
	// Documented contract: field splits are not recoverable from the bytes.
	a := EncodeRequest(NetworkRequest{URL: "ab", Header: "c", Method: "m", Body: "b"})
	b := EncodeRequest(NetworkRequest{URL: "a", Header: "bc", Method: "m", Body: "b"})
	if !bytes.Equal(a, b) {
		t.Fatalf("delimiter-free concatenation no longer holds; the digest contract changed")
	}
}
