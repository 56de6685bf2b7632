// vector_gen regenerates attestation/testdata/encoding_vectors.json.
// It prints the JSON to stdout; redirect over the committed file after
// any deliberate change to the canonical encoding.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/cidutil"
)

type entryJSON struct {
	KeyName   string `json:"keyName"`
	ParseType string `json:"parseType"`
	ParsePath string `json:"parsePath"`
}

type requestJSON struct {
	URL    string `json:"url"`
	Header string `json:"header"`
	Method string `json:"method"`
	Body   string `json:"body"`
}

type requestVector struct {
	Name string `json:"name"`
	requestJSON
	Digest string `json:"digest"`
}

type responseVector struct {
	Name    string      `json:"name"`
	Entries []entryJSON `json:"entries"`
	Digest  string      `json:"digest"`
}

type attestationVector struct {
	Name           string      `json:"name"`
	Recipient      string      `json:"recipient"`
	Request        requestJSON `json:"request"`
	Responses      []entryJSON `json:"responses"`
	Data           string      `json:"data"`
	AttConditions  string      `json:"attConditions"`
	Timestamp      uint64      `json:"timestamp"`
	AdditionParams string      `json:"additionParams"`
	PayloadHex     string      `json:"payloadHex"`
	Digest         string      `json:"digest"`
	PayloadCID     string      `json:"payloadCid"`
}

type vectorFile struct {
	Comment      string              `json:"comment"`
	Requests     []requestVector     `json:"requests"`
	Responses    []responseVector    `json:"responses"`
	Attestations []attestationVector `json:"attestations"`
}

func toRequest(r requestJSON) attestation.NetworkRequest {
	return attestation.NetworkRequest{URL: r.URL, Header: r.Header, Method: r.Method, Body: r.Body}
}

func toResolves(entries []entryJSON) []attestation.ResponseResolve {
	out := make([]attestation.ResponseResolve, 0, len(entries))
	for _, e := range entries {
		out = append(out, attestation.ResponseResolve{KeyName: e.KeyName, ParseType: e.ParseType, ParsePath: e.ParsePath})
	}
	return out
}

func main() {
	reference := entryJSON{KeyName: "keyName", ParseType: "parseType", ParsePath: "parsePath"}
	balance := entryJSON{KeyName: "balance", ParseType: "JSON", ParsePath: "$.data.balance"}

	requests := []requestVector{
		{Name: "reference", requestJSON: requestJSON{URL: "url", Header: "header", Method: "method", Body: "body"}},
		{Name: "all-empty"},
		{Name: "balance-query", requestJSON: requestJSON{
			URL:    "https://api.example.org/v1/balance",
			Header: "Accept: application/json",
			Method: "GET",
		}},
	}
	for i := range requests {
		requests[i].Digest = hex.EncodeToString(attestation.EncodeRequest(toRequest(requests[i].requestJSON)))
	}

	responses := []responseVector{
		{Name: "reference-doubled", Entries: []entryJSON{reference, reference}},
		{Name: "reference-single", Entries: []entryJSON{reference}},
		{Name: "none", Entries: []entryJSON{}},
		{Name: "balance", Entries: []entryJSON{balance}},
	}
	for i := range responses {
		responses[i].Digest = hex.EncodeToString(attestation.EncodeResponses(toResolves(responses[i].Entries)))
	}

	attestations := []attestationVector{
		{
			Name:           "reference",
			Recipient:      "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
			Request:        requests[0].requestJSON,
			Responses:      []entryJSON{reference, reference},
			Data:           "data",
			AttConditions:  "attConditions",
			Timestamp:      1700000000,
			AdditionParams: "additionParams",
		},
		{
			Name:      "zero",
			Recipient: "0x0000000000000000000000000000000000000000",
			Responses: []entryJSON{},
		},
		{
			Name:           "balance-query",
			Recipient:      "0x1111111111111111111111111111111111111111",
			Request:        requests[2].requestJSON,
			Responses:      []entryJSON{balance},
			Data:           "1000",
			AttConditions:  `{"min":100}`,
			Timestamp:      1755734400,
			AdditionParams: "{}",
		},
	}
	for i := range attestations {
		v := &attestations[i]
		att := &attestation.Attestation{
			Recipient:      common.HexToAddress(v.Recipient),
			Request:        toRequest(v.Request),
			Responses:      toResolves(v.Responses),
			Data:           v.Data,
			AttConditions:  v.AttConditions,
			Timestamp:      v.Timestamp,
			AdditionParams: v.AdditionParams,
		}
		payload := attestation.EncodePayload(att)
		v.PayloadHex = hex.EncodeToString(payload)
		v.Digest = hex.EncodeToString(attestation.Encode(att))
		v.PayloadCID = cidutil.AttestationCIDString(payload)
	}

	vf := vectorFile{
		Comment:      "Byte-exact encoding vectors. Regenerate with internal/tools/vector_gen; digests are keccak-256, CIDs are CIDv1 raw+keccak-256.",
		Requests:     requests,
		Responses:    responses,
		Attestations: attestations,
	}
	b, err := json.MarshalIndent(vf, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(append(b, '\n'))
}
