package transaction

import "sync"

// AttachmentValidator checks a transaction's type-specific attachment and
// fee/amount semantics at the given chain height. It returns a
// NotYetEnabledError if tx's type is gated by a fork height not yet
// reached, or a ValidationError for any other schema violation.
type AttachmentValidator func(t *Transaction, height uint32) error

var (
	validatorsMu sync.RWMutex
	validators   = map[byte]AttachmentValidator{}
)

// RegisterValidator installs the attachment validator for a transaction
// type. Block assembly and the higher-level ledger (out of scope here, per
// spec.md §1) own the concrete per-type schemas; the pool only needs a
// single seam to call into them.
func RegisterValidator(txType byte, v AttachmentValidator) {
	validatorsMu.Lock()
	defer validatorsMu.Unlock()
	validators[txType] = v
}

// ValidateAttachment runs the registered validator for t.Type, if any. A
// type with no registered validator is accepted unconditionally: this
// package does not own every transaction type's schema.
func ValidateAttachment(t *Transaction, height uint32) error {
	validatorsMu.RLock()
	v, ok := validators[t.Type]
	validatorsMu.RUnlock()
	if !ok {
		return nil
	}
	return v(t, height)
}

// HashInfo is the cached replay-guard record spec.md §3 calls
// TransactionHashInfo: it lets the replay index be pruned by expiration
// without re-parsing the transaction.
type HashInfo struct {
	TransactionID int64
	Expiration    uint32
}
