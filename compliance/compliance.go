package compliance

// Mode selects how the verifier treats signature recovery ids outside the
// documented wire ranges ({27, 28} and EIP-155 values above 35).
//
// Permissive mode reproduces the reference behavior: unrecognized values are
// passed through to curve recovery unchanged, where anything unusable fails
// hard. Strict mode prefers explicit failure over silent acceptance and
// rejects such signatures before recovery is attempted.
//
// Permissive is the default; interoperability with already-issued signatures
// depends on never rejecting what the reference accepts.
type Mode int

const (
	Permissive Mode = iota
	Strict
)
