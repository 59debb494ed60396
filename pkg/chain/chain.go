// Package chain defines the minimal surface the mempool consumes from and
// exposes to the canonical ledger: chain lookups, account balances, and
// block apply/undo hooks. Per spec.md §1, the ledger itself (forging,
// storage, the relational backing store) is an external collaborator; only
// these interfaces are specified.
package chain

import "github.com/nhzcoin/nhz/pkg/transaction"

// Store is the canonical chain lookup the admission pipeline consults to
// reject already-confirmed transactions and to learn the current height
// and block timestamp.
type Store interface {
	// HasTransaction reports whether id is already present in confirmed
	// storage.
	HasTransaction(id int64) bool
	// Height returns the current chain height.
	Height() uint32
	// BlockTimestamp returns the timestamp of the current head block.
	BlockTimestamp() uint32
}

// AccountView is the read-only account-balance surface the pool and the
// peer registry consume from the ledger.
type AccountView interface {
	// EffectiveBalance returns the account's stake eligible for peer
	// weighting, denominated in whole NHZ. Zero if the account is
	// unknown.
	EffectiveBalance(accountID int64) int64
	// UnconfirmedBalance returns the sender's balance after accounting
	// for already-pooled unconfirmed transactions.
	UnconfirmedBalance(accountID int64) int64
	// ApplyUnconfirmed debits the sender's unconfirmed balance for tx. It
	// returns false if the balance is insufficient, leaving the balance
	// unchanged.
	ApplyUnconfirmed(tx *transaction.Transaction) bool
	// UndoUnconfirmed reverses a prior successful ApplyUnconfirmed for tx.
	UndoUnconfirmed(tx *transaction.Transaction)
}

// UndoNotSupportedError is surfaced to the caller of a block-undo
// operation when the ledger cannot roll the block back and the chain must
// rescan instead, per spec.md §7.
type UndoNotSupportedError struct {
	Reason string
}

func (e *UndoNotSupportedError) Error() string {
	return "undo not supported: " + e.Reason
}

// Block is the minimal view of a block the pool's apply/undo hooks need:
// its timestamp (for replay-index eviction) and height (for the height-58294
// grandfather check) and its transactions.
type Block struct {
	Height       uint32
	Timestamp    uint32
	Transactions []*transaction.Transaction

	// Apply performs the block's ledger effects (out of scope here, per
	// spec.md §1). Nil is a valid no-op, used in tests.
	Apply func() error
	// Undo reverses Apply's ledger effects. Returning an
	// *UndoNotSupportedError tells the caller it must rescan rather than
	// roll back, per spec.md §7.
	Undo func() error
}

// BlockLedgerApplier is implemented by each transaction to apply/undo its
// own ledger effect, called by Pool.Apply/Pool.Undo around the
// unconfirmed-balance bookkeeping that is in scope here.
type BlockLedgerApplier interface {
	Apply() error
	Undo() error
}
