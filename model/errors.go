package model

import (
	"errors"
	"fmt"

	"github.com/primus-labs/zktls-go/attestation"
	"github.com/primus-labs/zktls-go/storage"
)

type ErrorCode string

const (
	ErrInvalidDocument        ErrorCode = "INVALID_DOCUMENT"
	ErrInvalidAddress         ErrorCode = "INVALID_ADDRESS"
	ErrNotOwner               ErrorCode = "NOT_OWNER"
	ErrAttestorNotFound       ErrorCode = "ATTESTOR_NOT_FOUND"
	ErrInvalidSignatureCount  ErrorCode = "INVALID_SIGNATURE_COUNT"
	ErrInvalidSignatureLength ErrorCode = "INVALID_SIGNATURE_LENGTH"
	ErrRecovery               ErrorCode = "RECOVERY_ERROR"
	ErrUnknownSigner          ErrorCode = "UNKNOWN_SIGNER"
	ErrNotFound               ErrorCode = "NOT_FOUND"
	ErrInvalidCID             ErrorCode = "INVALID_CID"
	ErrCIDMismatch            ErrorCode = "CID_MISMATCH"
	ErrInternal               ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human message.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

var kindCodes = map[attestation.Kind]ErrorCode{
	attestation.KindInvalidAddress:         ErrInvalidAddress,
	attestation.KindNotOwner:               ErrNotOwner,
	attestation.KindAttestorNotFound:       ErrAttestorNotFound,
	attestation.KindInvalidSignatureCount:  ErrInvalidSignatureCount,
	attestation.KindInvalidSignatureLength: ErrInvalidSignatureLength,
	attestation.KindRecoveryError:          ErrRecovery,
	attestation.KindUnknownSigner:          ErrUnknownSigner,
}

// FromError projects any error onto a CodedError for RPC surfaces.
//
// Structured attestation errors and storage sentinels map to their stable
// codes; everything else is INTERNAL. The mapping over the attestation
// taxonomy is total.
func FromError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}
	var ae *attestation.Error
	if errors.As(err, &ae) {
		if code, ok := kindCodes[ae.Kind]; ok {
			return &CodedError{Code: code, Message: ae.Message}
		}
		return &CodedError{Code: ErrInternal, Message: ae.Message}
	}
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &CodedError{Code: ErrNotFound, Message: err.Error()}
	case errors.Is(err, storage.ErrInvalidCID):
		return &CodedError{Code: ErrInvalidCID, Message: err.Error()}
	case errors.Is(err, storage.ErrCIDMismatch), errors.Is(err, storage.ErrImmutable):
		return &CodedError{Code: ErrCIDMismatch, Message: err.Error()}
	}
	return &CodedError{Code: ErrInternal, Message: err.Error()}
}
