package grpcattest

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/model"
	"github.com/primus-labs/zktls-go/storage"
)

// statusFromError maps server-side failures onto gRPC status codes with the
// model.CodedError code embedded in the message, so clients can branch on a
// stable string without a custom status payload.
//
// Mapping:
//   - parse and signature-shape failures -> InvalidArgument
//   - UnknownSigner                      -> FailedPrecondition
//   - storage not-found                  -> NotFound
//   - storage corruption                 -> DataLoss
//   - everything else                    -> Internal
func statusFromError(err error) error {
	if err == nil {
		return nil
	}
	coded := model.FromError(err)
	msg := coded.Error()

	switch coded.Code {
	case model.ErrInvalidDocument,
		model.ErrInvalidSignatureCount,
		model.ErrInvalidSignatureLength,
		model.ErrRecovery:
		return status.Error(codes.InvalidArgument, msg)
	case model.ErrUnknownSigner:
		return status.Error(codes.FailedPrecondition, msg)
	case model.ErrNotFound:
		return status.Error(codes.NotFound, msg)
	case model.ErrInvalidCID:
		return status.Error(codes.InvalidArgument, msg)
	case model.ErrCIDMismatch:
		return status.Error(codes.DataLoss, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}

// mapRPC maps CAS-oriented RPC failures back onto storage sentinels so the
// Client satisfies the storage.CAS contract.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.InvalidArgument:
		// The server uses InvalidArgument for malformed/undefined CIDs on
		// the CAS surface.
		return storage.ErrInvalidCID
	case codes.DataLoss:
		return storage.ErrCIDMismatch
	default:
		return err
	}
}

// VerifyErrorKind extracts the attestation failure kind from a Verify or
// Archive RPC error, when the server reported one.
func VerifyErrorKind(err error) (attestation.Kind, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return "", false
	}
	msg := st.Message()
	for code, kind := range map[model.ErrorCode]attestation.Kind{
		model.ErrInvalidSignatureCount:  attestation.KindInvalidSignatureCount,
		model.ErrInvalidSignatureLength: attestation.KindInvalidSignatureLength,
		model.ErrRecovery:               attestation.KindRecoveryError,
		model.ErrUnknownSigner:          attestation.KindUnknownSigner,
	} {
		if hasCodePrefix(msg, code) {
			return kind, true
		}
	}
	return "", false
}

func hasCodePrefix(msg string, code model.ErrorCode) bool {
	prefix := string(code) + ":"
	return len(msg) >= len(prefix) && msg[:len(prefix)] == prefix
}

var errNoClient = errors.New("grpcattest: client not connected")
