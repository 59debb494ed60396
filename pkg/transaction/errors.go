package transaction

import "fmt"

// ValidationError marks a well-formed-but-invalid transaction: bad
// signature, bad attachment, schema mismatch. The pool's admission pipeline
// drops a transaction that fails this way and does not log it; on its own
// it never blacklists the peer that relayed it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid transaction: %s", e.Reason)
}

// NotYetEnabledError is a ValidationError subclass raised when a
// transaction's type was introduced at a fork height the chain hasn't
// reached yet. Per spec.md §7 it is silently dropped.
type NotYetEnabledError struct {
	ValidationError
	Height uint32
}

func (e *NotYetEnabledError) Error() string {
	return fmt.Sprintf("transaction type not yet enabled below height %d: %s", e.Height, e.Reason)
}

// IsValidationError reports whether err is a ValidationError or a subclass
// of it (currently only NotYetEnabledError).
func IsValidationError(err error) bool {
	switch err.(type) {
	case *ValidationError, *NotYetEnabledError:
		return true
	default:
		return false
	}
}
