package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/primus-labs/zktls-go/attestation"
)

// Attestor is the wire form of one trusted signer entry.
type Attestor struct {
	Address string `json:"address"`
	URL     string `json:"url"`
}

// Request is the wire form of the attested network request.
type Request struct {
	URL    string `json:"url"`
	Header string `json:"header"`
	Method string `json:"method"`
	Body   string `json:"body"`
}

// Response is the wire form of one response extraction rule.
type Response struct {
	KeyName   string `json:"keyName"`
	ParseType string `json:"parseType"`
	ParsePath string `json:"parsePath"`
}

// Attestation is the JSON wire form of an attestation record.
//
// Addresses are 0x-prefixed hex; signatures are 0x-prefixed hex byte
// strings; the timestamp is a JSON number.
type Attestation struct {
	Recipient      string     `json:"recipient"`
	Request        Request    `json:"request"`
	Responses      []Response `json:"responses,omitempty"`
	Data           string     `json:"data"`
	AttConditions  string     `json:"attConditions"`
	Timestamp      uint64     `json:"timestamp"`
	AdditionParams string     `json:"additionParams"`
	Attestors      []Attestor `json:"attestors,omitempty"`
	Signatures     []string   `json:"signatures,omitempty"`
}

// ParseAttestation parses a wire document into the core record.
//
// Parsing is strict: unknown fields, trailing content, and malformed hex are
// rejected with field context. Signature byte lengths are NOT checked here;
// the verifier owns that failure so it stays a distinct named outcome.
func ParseAttestation(data []byte) (*attestation.Attestation, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var w Attestation
	if err := dec.Decode(&w); err != nil {
		return nil, NewError(ErrInvalidDocument, "malformed attestation document: "+err.Error())
	}
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, NewError(ErrInvalidDocument, "trailing content after attestation document")
	}

	recipient, err := parseAddress(w.Recipient)
	if err != nil {
		return nil, NewError(ErrInvalidDocument, "recipient: "+err.Error())
	}

	att := &attestation.Attestation{
		Recipient: recipient,
		Request: attestation.NetworkRequest{
			URL:    w.Request.URL,
			Header: w.Request.Header,
			Method: w.Request.Method,
			Body:   w.Request.Body,
		},
		Data:           w.Data,
		AttConditions:  w.AttConditions,
		Timestamp:      w.Timestamp,
		AdditionParams: w.AdditionParams,
	}
	for _, r := range w.Responses {
		att.Responses = append(att.Responses, attestation.ResponseResolve{
			KeyName:   r.KeyName,
			ParseType: r.ParseType,
			ParsePath: r.ParsePath,
		})
	}
	for i, a := range w.Attestors {
		addr, err := parseAddress(a.Address)
		if err != nil {
			return nil, NewError(ErrInvalidDocument, fmt.Sprintf("attestors[%d]: %v", i, err))
		}
		att.Attestors = append(att.Attestors, attestation.Attestor{Address: addr, URL: a.URL})
	}
	for i, s := range w.Signatures {
		sig, err := hexutil.Decode(s)
		if err != nil {
			return nil, NewError(ErrInvalidDocument, fmt.Sprintf("signatures[%d]: %v", i, err))
		}
		att.Signatures = append(att.Signatures, sig)
	}
	return att, nil
}

// RenderAttestation renders the canonical wire document: two-space indent,
// fixed field order, lowercase hex, one trailing newline. Checksummed
// address case is accepted on input but never re-emitted, so
// Render(Parse(b)) == b for any rendered b.
func RenderAttestation(att *attestation.Attestation) ([]byte, error) {
	if att == nil {
		return nil, NewError(ErrInvalidDocument, "nil attestation")
	}
	w := Attestation{
		Recipient: renderAddress(att.Recipient),
		Request: Request{
			URL:    att.Request.URL,
			Header: att.Request.Header,
			Method: att.Request.Method,
			Body:   att.Request.Body,
		},
		Data:           att.Data,
		AttConditions:  att.AttConditions,
		Timestamp:      att.Timestamp,
		AdditionParams: att.AdditionParams,
	}
	for _, r := range att.Responses {
		w.Responses = append(w.Responses, Response{
			KeyName:   r.KeyName,
			ParseType: r.ParseType,
			ParsePath: r.ParsePath,
		})
	}
	for _, a := range att.Attestors {
		w.Attestors = append(w.Attestors, Attestor{Address: renderAddress(a.Address), URL: a.URL})
	}
	for _, sig := range att.Signatures {
		w.Signatures = append(w.Signatures, hexutil.Encode(sig))
	}

	b, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func renderAddress(a common.Address) string {
	return strings.ToLower(a.Hex())
}
