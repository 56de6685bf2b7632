package attestation

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These are the named failure outcomes of registry mutation and attestation
// verification. They are intended to remain stable across versions; callers
// should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	KindInvalidAddress         Kind = "InvalidAddress"
	KindNotOwner               Kind = "NotOwner"
	KindAttestorNotFound       Kind = "AttestorNotFound"
	KindInvalidSignatureCount  Kind = "InvalidSignatureCount"
	KindInvalidSignatureLength Kind = "InvalidSignatureLength"
	KindRecoveryError          Kind = "RecoveryError"
	KindUnknownSigner          Kind = "UnknownSigner"
)

// Error is the structured error type raised by the registry and the
// verifier.
//
// RuleID is a stable identifier (e.g., ZKTLS-REG-001, ZKTLS-VER-103) that
// names the violated invariant.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError constructs a structured error. It is exported for the registry
// and verifier packages; applications normally only inspect errors.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError constructs a structured error with a cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
