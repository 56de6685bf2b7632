package grpcattest

import (
	"context"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/cidutil"
	"github.com/primus-labs/zktls-go/model"
	"github.com/primus-labs/zktls-go/registry"
	"github.com/primus-labs/zktls-go/storage"
	"github.com/primus-labs/zktls-go/verifier"
)

// Server exposes attestation verification and archiving over the Attest
// gRPC service.
//
// Archive verifies before storing: the daemon archives only attestations it
// can verify against its registry. Plain CAS access to already-stored
// documents goes through Fetch/Has.
type Server struct {
	UnimplementedAttestServer

	Registry *registry.Registry
	CAS      storage.CAS

	// Verifier substitutes the verification pipeline; nil means the
	// default (production recovery, permissive recovery ids).
	Verifier *verifier.Verifier
}

func (s *Server) verifyDocument(doc []byte) (*attestation.Attestation, error) {
	if s == nil || s.Registry == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing registry")
	}
	att, err := model.ParseAttestation(doc)
	if err != nil {
		return nil, statusFromError(err)
	}
	v := s.Verifier
	if v == nil {
		v = &verifier.Verifier{}
	}
	if err := v.Verify(s.Registry, att); err != nil {
		return nil, statusFromError(err)
	}
	return att, nil
}

func (s *Server) Verify(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	att, err := s.verifyDocument(in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(cidutil.AttestationCIDString(attestation.EncodePayload(att))), nil
}

func (s *Server) Archive(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	att, err := s.verifyDocument(in.GetValue())
	if err != nil {
		return nil, err
	}

	// Store the canonical rendering, not the caller's bytes, so equivalent
	// documents archive under one CID.
	doc, err := model.RenderAttestation(att)
	if err != nil {
		return nil, statusFromError(err)
	}
	id, err := s.CAS.Put(doc)
	if err != nil {
		return nil, statusFromError(err)
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Fetch(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	b, err := s.CAS.Get(id)
	if err != nil {
		return nil, statusFromError(err)
	}
	got, err := cidutil.AttestationCID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "cid computation failed")
	}
	if got != id {
		return nil, status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.CAS == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing CAS")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	return wrapperspb.Bool(s.CAS.Has(id)), nil
}
