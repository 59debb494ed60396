package transaction

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nhzcoin/nhz/pkg/nhz"
)

// encode writes the wire form described in spec.md §4.8:
//
//	type(1) | subtype(1) | timestamp(4) | deadline(2) | sender_pk(32) |
//	recipient_id(8) | amount(4 or 8) | fee(4 or 8) | referenced_tx(8 or 32) |
//	signature(64) | attachment(variable, length-prefixed)
//
// Amount/fee width and the referenced-transaction encoding depend on ctx's
// height per spec.md §3/§6.
func (t *Transaction) encode(ctx FormatContext) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(t.Type)
	buf.WriteByte(t.Subtype)

	var tmp [8]byte
	binary.LittleEndian.PutUint32(tmp[:4], t.Timestamp)
	buf.Write(tmp[:4])
	binary.LittleEndian.PutUint16(tmp[:2], t.Deadline)
	buf.Write(tmp[:2])
	buf.Write(t.SenderPublicKey[:])
	binary.LittleEndian.PutUint64(tmp[:8], uint64(t.RecipientID))
	buf.Write(tmp[:8])

	if ctx.fractional() {
		binary.LittleEndian.PutUint64(tmp[:8], uint64(t.Amount))
		buf.Write(tmp[:8])
		binary.LittleEndian.PutUint64(tmp[:8], uint64(t.Fee))
		buf.Write(tmp[:8])
	} else {
		binary.LittleEndian.PutUint32(tmp[:4], uint32(t.Amount))
		buf.Write(tmp[:4])
		binary.LittleEndian.PutUint32(tmp[:4], uint32(t.Fee))
		buf.Write(tmp[:4])
	}

	if ctx.fullHashReference() {
		ref := t.ReferencedTransactionFullHash
		if len(ref) != 32 {
			ref = make([]byte, 32)
		}
		buf.Write(ref)
	} else {
		binary.LittleEndian.PutUint64(tmp[:8], uint64(t.ReferencedTransactionID))
		buf.Write(tmp[:8])
	}

	buf.Write(t.Signature[:])

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(t.Attachment)))
	buf.Write(lenBuf[:])
	buf.Write(t.Attachment)

	return buf.Bytes(), nil
}

// EncodeBinary serializes the transaction in wire form at the given chain
// height.
func (t *Transaction) EncodeBinary(ctx FormatContext) ([]byte, error) {
	return t.encode(ctx)
}

// DecodeBinary parses a wire-form transaction at the given chain height. It
// returns a ValidationError on any structural failure, per spec.md §4.8.
func DecodeBinary(ctx FormatContext, data []byte) (*Transaction, error) {
	r := bytes.NewReader(data)

	readByte := func() (byte, error) {
		var b [1]byte
		_, err := io.ReadFull(r, b[:])
		return b[0], err
	}

	typ, err := readByte()
	if err != nil {
		return nil, &ValidationError{Reason: "truncated type"}
	}
	subtype, err := readByte()
	if err != nil {
		return nil, &ValidationError{Reason: "truncated subtype"}
	}

	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:4]); err != nil {
		return nil, &ValidationError{Reason: "truncated timestamp"}
	}
	timestamp := binary.LittleEndian.Uint32(tmp[:4])

	if _, err := io.ReadFull(r, tmp[:2]); err != nil {
		return nil, &ValidationError{Reason: "truncated deadline"}
	}
	deadline := binary.LittleEndian.Uint16(tmp[:2])

	var senderPK [32]byte
	if _, err := io.ReadFull(r, senderPK[:]); err != nil {
		return nil, &ValidationError{Reason: "truncated sender public key"}
	}

	if _, err := io.ReadFull(r, tmp[:8]); err != nil {
		return nil, &ValidationError{Reason: "truncated recipient id"}
	}
	recipientID := int64(binary.LittleEndian.Uint64(tmp[:8]))

	var amount, fee int64
	if ctx.fractional() {
		if _, err := io.ReadFull(r, tmp[:8]); err != nil {
			return nil, &ValidationError{Reason: "truncated amount"}
		}
		amount = int64(binary.LittleEndian.Uint64(tmp[:8]))
		if _, err := io.ReadFull(r, tmp[:8]); err != nil {
			return nil, &ValidationError{Reason: "truncated fee"}
		}
		fee = int64(binary.LittleEndian.Uint64(tmp[:8]))
	} else {
		if _, err := io.ReadFull(r, tmp[:4]); err != nil {
			return nil, &ValidationError{Reason: "truncated amount"}
		}
		amount = int64(int32(binary.LittleEndian.Uint32(tmp[:4])))
		if _, err := io.ReadFull(r, tmp[:4]); err != nil {
			return nil, &ValidationError{Reason: "truncated fee"}
		}
		fee = int64(int32(binary.LittleEndian.Uint32(tmp[:4])))
	}

	var refID int64
	var refHash []byte
	if ctx.fullHashReference() {
		refHash = make([]byte, 32)
		if _, err := io.ReadFull(r, refHash); err != nil {
			return nil, &ValidationError{Reason: "truncated referenced transaction hash"}
		}
	} else {
		if _, err := io.ReadFull(r, tmp[:8]); err != nil {
			return nil, &ValidationError{Reason: "truncated referenced transaction id"}
		}
		refID = int64(binary.LittleEndian.Uint64(tmp[:8]))
	}

	var sig [64]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, &ValidationError{Reason: "truncated signature"}
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, &ValidationError{Reason: "truncated attachment length"}
	}
	attLen := binary.LittleEndian.Uint32(lenBuf[:])
	if attLen > nhz.MaxPayloadLength {
		return nil, &ValidationError{Reason: fmt.Sprintf("attachment too large: %d", attLen)}
	}
	attachment := make([]byte, attLen)
	if _, err := io.ReadFull(r, attachment); err != nil {
		return nil, &ValidationError{Reason: "truncated attachment"}
	}

	return New(ctx, typ, subtype, timestamp, deadline, senderPK, recipientID, amount, fee, refID, refHash, sig, attachment)
}
