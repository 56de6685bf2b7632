package attestation

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primus-labs/zktls-go/cidutil"
)

type vectorFile struct {
	Requests []struct {
		Name   string `json:"name"`
		URL    string `json:"url"`
		Header string `json:"header"`
		Method string `json:"method"`
		Body   string `json:"body"`
		Digest string `json:"digest"`
	} `json:"requests"`
	Responses []struct {
		Name    string        `json:"name"`
		Entries []vectorEntry `json:"entries"`
		Digest  string        `json:"digest"`
	} `json:"responses"`
	Attestations []struct {
		Name      string `json:"name"`
		Recipient string `json:"recipient"`
		Request   struct {
			URL    string `json:"url"`
			Header string `json:"header"`
			Method string `json:"method"`
			Body   string `json:"body"`
		} `json:"request"`
		Responses      []vectorEntry `json:"responses"`
		Data           string        `json:"data"`
		AttConditions  string        `json:"attConditions"`
		Timestamp      uint64        `json:"timestamp"`
		AdditionParams string        `json:"additionParams"`
		PayloadHex     string        `json:"payloadHex"`
		Digest         string        `json:"digest"`
		PayloadCID     string        `json:"payloadCid"`
	} `json:"attestations"`
}

type vectorEntry struct {
	KeyName   string `json:"keyName"`
	ParseType string `json:"parseType"`
	ParsePath string `json:"parsePath"`
}

func loadVectors(t *testing.T) vectorFile {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "encoding_vectors.json"))
	if err != nil {
		t.Fatalf("read vectors: %v", err)
	}
	var vf vectorFile
	if err := json.Unmarshal(b, &vf); err != nil {
		t.Fatalf("decode vectors: %v", err)
	}
	if len(vf.Requests) == 0 || len(vf.Responses) == 0 || len(vf.Attestations) == 0 {
		t.Fatalf("vector file is incomplete")
	}
	return vf
}

func toResolves(entries []vectorEntry) []ResponseResolve {
	out := make([]ResponseResolve, 0, len(entries))
	for _, e := range entries {
		out = append(out, ResponseResolve{KeyName: e.KeyName, ParseType: e.ParseType, ParsePath: e.ParsePath})
	}
	return out
}

func TestConformanceVectors(t *testing.T) {
	vf := loadVectors(t)

	for _, v := range vf.Requests {
		got := hex.EncodeToString(EncodeRequest(NetworkRequest{
			URL: v.URL, Header: v.Header, Method: v.Method, Body: v.Body,
		}))
		if got != v.Digest {
			t.Fatalf("request vector %s: digest %s, want %s", v.Name, got, v.Digest)
		}
	}

	for _, v := range vf.Responses {
		got := hex.EncodeToString(EncodeResponses(toResolves(v.Entries)))
		if got != v.Digest {
			t.Fatalf("response vector %s: digest %s, want %s", v.Name, got, v.Digest)
		}
	}

	for _, v := range vf.Attestations {
		att := &Attestation{
			Recipient: common.HexToAddress(v.Recipient),
			Request: NetworkRequest{
				URL: v.Request.URL, Header: v.Request.Header,
				Method: v.Request.Method, Body: v.Request.Body,
			},
			Responses:      toResolves(v.Responses),
			Data:           v.Data,
			AttConditions:  v.AttConditions,
			Timestamp:      v.Timestamp,
			AdditionParams: v.AdditionParams,
		}
		payload := EncodePayload(att)
		if got := hex.EncodeToString(payload); got != v.PayloadHex {
			t.Fatalf("attestation vector %s: payload\n got %s\nwant %s", v.Name, got, v.PayloadHex)
		}
		if got := hex.EncodeToString(Encode(att)); got != v.Digest {
			t.Fatalf("attestation vector %s: digest %s, want %s", v.Name, got, v.Digest)
		}
		if got := cidutil.AttestationCIDString(payload); got != v.PayloadCID {
			t.Fatalf("attestation vector %s: cid %s, want %s", v.Name, got, v.PayloadCID)
		}
	}
}

func TestConformanceVectorsDeterministic(t *testing.T) {
	vf := loadVectors(t)
	v := vf.Attestations[0]
	att := &Attestation{
		Recipient: common.HexToAddress(v.Recipient),
		Request: NetworkRequest{
			URL: v.Request.URL, Header: v.Request.Header,
			Method: v.Request.Method, Body: v.Request.Body,
		},
		Responses:      toResolves(v.Responses),
		Data:           v.Data,
		AttConditions:  v.AttConditions,
		Timestamp:      v.Timestamp,
		AdditionParams: v.AdditionParams,
	}
	first := hex.EncodeToString(Encode(att))
	for i := 0; i < 100; i++ {
		if got := hex.EncodeToString(Encode(att)); got != first {
			t.Fatalf("run %d: digest %s, want %s", i, got, first)
		}
	}
}
