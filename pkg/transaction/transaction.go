// Package transaction implements the immutable, signed transaction record
// described in spec.md §3: parsing from wire/JSON form, id/hash derivation,
// and per-fork-height field width changes. Binary decoding follows the
// teacher's io.Reader + encoding/binary idiom
// (pkg/core/transaction/transaction.go), generalized to this format.
package transaction

import (
	"encoding/binary"
	"strconv"

	"github.com/nhzcoin/nhz/pkg/crypto"
	"github.com/nhzcoin/nhz/pkg/nhz"
)

const (
	senderPublicKeySize = 32
	signatureSize       = 64
)

// Transaction is an immutable, parsed transaction. All exported fields are
// fixed at construction time by New or one of the Parse functions; nothing
// in this package mutates them afterward.
type Transaction struct {
	Type    byte
	Subtype byte

	Timestamp uint32
	Deadline  uint16

	SenderPublicKey [senderPublicKeySize]byte
	RecipientID     int64

	Amount int64
	Fee    int64

	// ReferencedTransactionID is the pre-fork reference; zero if unused or
	// if ReferencedTransactionFullHash is set.
	ReferencedTransactionID int64
	// ReferencedTransactionFullHash is the post-fork 32-byte reference
	// (spec.md §3); nil if unused.
	ReferencedTransactionFullHash []byte

	Signature [signatureSize]byte

	// Attachment is the type/subtype-specific payload. Its internal
	// schema is a black box here, the same way spec.md treats the
	// forging algorithm and the signature primitives: this package only
	// needs its bytes to compute signed bytes and carry it on the wire.
	Attachment []byte

	id       int64
	hash     [32]byte
	computed bool
}

// FormatContext carries the chain height a transaction is being
// constructed or parsed at, which gates amount/fee width and the
// referenced-transaction encoding per spec.md §3 and §6.
type FormatContext struct {
	Height uint32
}

func (c FormatContext) fractional() bool {
	return c.Height >= nhz.FractionalBlock
}

func (c FormatContext) fullHashReference() bool {
	return c.Height >= nhz.ReferencedTransactionFullHashBlock
}

// New constructs a Transaction and derives its id/hash from the signed
// bytes. It returns a ValidationError if deadline exceeds the spec's
// 1440-minute bound.
func New(ctx FormatContext, typ, subtype byte, timestamp uint32, deadline uint16, senderPK [32]byte, recipientID int64, amount, fee int64, refID int64, refHash []byte, sig [64]byte, attachment []byte) (*Transaction, error) {
	if deadline > nhz.MaxDeadlineMinutes {
		return nil, &ValidationError{Reason: "deadline exceeds maximum"}
	}
	t := &Transaction{
		Type:                           typ,
		Subtype:                        subtype,
		Timestamp:                      timestamp,
		Deadline:                       deadline,
		SenderPublicKey:                senderPK,
		RecipientID:                    normalizeRecipient(recipientID),
		Amount:                         amount,
		Fee:                            fee,
		ReferencedTransactionID:        refID,
		ReferencedTransactionFullHash:  refHash,
		Signature:                      sig,
		Attachment:                     append([]byte(nil), attachment...),
	}
	t.deriveIDAndHash(ctx)
	return t, nil
}

func normalizeRecipient(id int64) int64 {
	// "0 denotes none after normalization" — -0 and 0 collapse, everything
	// else passes through unchanged.
	if id == 0 {
		return 0
	}
	return id
}

// deriveIDAndHash computes Hash (full sha256 of the signed bytes) and ID
// (its first 8 bytes, little-endian) exactly once.
func (t *Transaction) deriveIDAndHash(ctx FormatContext) {
	signed := t.signedBytes(ctx)
	t.hash = crypto.Hash(signed)
	t.id = int64(binary.LittleEndian.Uint64(t.hash[:8]))
	t.computed = true
}

// ID returns the lossy 64-bit projection of Hash used as the pool's
// identity key. Two distinct transactions may share an ID but never a
// Hash.
func (t *Transaction) ID() int64 {
	return t.id
}

// StringID renders ID as an unsigned decimal string, matching the wire
// protocol's string-id convention.
func (t *Transaction) StringID() string {
	return strconv.FormatUint(uint64(t.id), 10)
}

// Hash returns the full 32-byte sha256 of the signed bytes, used as the
// pool's replay-prevention key.
func (t *Transaction) Hash() [32]byte {
	return t.hash
}

// ExpirationTime returns timestamp + deadline*60, the instant at which
// this transaction expires.
func (t *Transaction) ExpirationTime() uint32 {
	return t.Timestamp + uint32(t.Deadline)*60
}

// VerifySignature checks the transaction's signature against its signed
// bytes and sender public key. The cryptographic primitive itself is a
// black box (pkg/crypto); this only wires it up.
func (t *Transaction) VerifySignature(ctx FormatContext) bool {
	return crypto.Verify(t.SenderPublicKey[:], t.SignedBytes(ctx), t.Signature[:])
}

// SignedBytes returns the serialized transaction with the signature field
// zeroed: the bytes that were actually signed and that Hash/ID are derived
// from. Exposed so a signer (such as the tests) can produce a
// Signature to feed back into New.
func (t *Transaction) SignedBytes(ctx FormatContext) []byte {
	return t.signedBytes(ctx)
}

func (t *Transaction) signedBytes(ctx FormatContext) []byte {
	cp := *t
	cp.Signature = [signatureSize]byte{}
	buf, _ := cp.encode(ctx)
	return buf
}
