// attestation_gen emits a signed sample wire document to stdout, plus the
// signer address and payload CID on stderr. The key is a fixed test key;
// never use it outside documentation and tests.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/keys"
	"github.com/primus-labs/zktls-go/model"
)

// First well-known hardhat/anvil dev account key.
const devKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func main() {
	key, err := crypto.HexToECDSA(devKeyHex)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	att := &attestation.Attestation{
		Recipient: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Request: attestation.NetworkRequest{
			URL:    "https://api.example.org/v1/balance",
			Header: "Accept: application/json",
			Method: "GET",
		},
		Responses: []attestation.ResponseResolve{
			{KeyName: "balance", ParseType: "JSON", ParsePath: "$.data.balance"},
		},
		Data:           "1000",
		AttConditions:  `{"min":100}`,
		Timestamp:      1755734400,
		AdditionParams: "{}",
		Attestors: []attestation.Attestor{
			{Address: crypto.PubkeyToAddress(key.PublicKey), URL: "https://attestor.example.org"},
		},
	}
	if err := keys.AttachSignature(att, key); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	doc, err := model.RenderAttestation(att)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Stdout.Write(doc)

	addr := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
	fmt.Fprintf(os.Stderr, "signer:      %s\n", addr)
	fmt.Fprintf(os.Stderr, "payload-cid: %s\n", cidutil.AttestationCIDString(attestation.EncodePayload(att)))
}
