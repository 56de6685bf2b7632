package grpcattest

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/keys"
	"github.com/primus-labs/zktls-go/model"
	"github.com/primus-labs/zktls-go/registry"
	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/storage/testkit"
)

const owner = registry.Identity("grpcattest-test-owner")

func startServer(t *testing.T, reg *registry.Registry, cas storage.CAS) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterAttestServer(srv, &Server{Registry: reg, CAS: cas})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewAttestClient(cc), Timeout: 2 * time.Second}
}

func signedDocument(t *testing.T) ([]byte, *attestation.Attestation, *registry.Registry) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	att := &attestation.Attestation{
		Request:   attestation.NetworkRequest{URL: "https://api.example.org/balance", Method: "GET"},
		Responses: []attestation.ResponseResolve{{KeyName: "balance", ParseType: "json", ParsePath: "$.balance"}},
		Data:      `{"balance":"42"}`,
		Timestamp: 1700000000,
	}
	if err := keys.AttachSignature(att, key); err != nil {
		t.Fatalf("AttachSignature: %v", err)
	}
	doc, err := model.RenderAttestation(att)
	if err != nil {
		t.Fatalf("RenderAttestation: %v", err)
	}

	reg, err := registry.New(owner, attestation.Attestor{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		URL:     "https://attestor.example.org",
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	return doc, att, reg
}

func TestVerifyAndArchiveRoundTrip(t *testing.T) {
	doc, att, reg := signedDocument(t)
	client := startServer(t, reg, testkit.NewMemCAS())

	payloadCID, err := client.Verify(doc)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if want := cidutil.AttestationCIDString(attestation.EncodePayload(att)); payloadCID != want {
		t.Fatalf("Verify CID = %s, want %s", payloadCID, want)
	}

	id, err := client.Put(doc)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !client.Has(id) {
		t.Fatalf("Has(%s) = false after Put", id)
	}
	got, err := client.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(doc) {
		t.Fatalf("fetched document differs from archived document")
	}
}

func TestVerifyUnknownSigner(t *testing.T) {
	doc, _, _ := signedDocument(t)

	// A registry trusting a different key.
	strangerKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	reg, err := registry.New(owner, attestation.Attestor{
		Address: crypto.PubkeyToAddress(strangerKey.PublicKey),
		URL:     "https://other.example.org",
	})
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	client := startServer(t, reg, testkit.NewMemCAS())

	_, err = client.Verify(doc)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("Verify status = %v, want FailedPrecondition", err)
	}
	if kind, ok := VerifyErrorKind(err); !ok || kind != attestation.KindUnknownSigner {
		t.Fatalf("VerifyErrorKind = %v, %v; want UnknownSigner", kind, ok)
	}

	// Archive applies the same gate.
	if _, err := client.Put(doc); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("Put status = %v, want FailedPrecondition", err)
	}
}

func TestVerifyRejectsMalformedDocument(t *testing.T) {
	_, _, reg := signedDocument(t)
	client := startServer(t, reg, testkit.NewMemCAS())

	_, err := client.Verify([]byte(`{"recipient":`))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Verify status = %v, want InvalidArgument", err)
	}
}

func TestVerifyRejectsSignatureShape(t *testing.T) {
	_, att, reg := signedDocument(t)
	client := startServer(t, reg, testkit.NewMemCAS())

	// Two signatures.
	att.Signatures = append(att.Signatures, att.Signatures[0])
	twoSigs, err := model.RenderAttestation(att)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Verify(twoSigs)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("two signatures: status = %v, want InvalidArgument", err)
	}
	if kind, ok := VerifyErrorKind(err); !ok || kind != attestation.KindInvalidSignatureCount {
		t.Fatalf("VerifyErrorKind = %v, %v; want InvalidSignatureCount", kind, ok)
	}

	// Truncated signature.
	att.Signatures = [][]byte{att.Signatures[0][:64]}
	shortSig, err := model.RenderAttestation(att)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.Verify(shortSig)
	if kind, ok := VerifyErrorKind(err); !ok || kind != attestation.KindInvalidSignatureLength {
		t.Fatalf("VerifyErrorKind = %v, %v; want InvalidSignatureLength", kind, ok)
	}
}

func TestFetchMissingMapsToNotFound(t *testing.T) {
	_, _, reg := signedDocument(t)
	client := startServer(t, reg, testkit.NewMemCAS())

	id, err := cidutil.AttestationCID([]byte("never archived"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Get(id); !storage.IsNotFound(err) {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}
	if client.Has(id) {
		t.Fatalf("Has(missing) = true")
	}
}
