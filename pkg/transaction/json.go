package transaction

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nhzcoin/nhz/pkg/nhz"
)

// jsonTransaction mirrors the wire JSON form from spec.md §4.8: string
// decimal ids, hex-encoded byte fields.
type jsonTransaction struct {
	Type                           byte   `json:"type"`
	Subtype                        byte   `json:"subtype"`
	Timestamp                      uint32 `json:"timestamp"`
	Deadline                       uint16 `json:"deadline"`
	SenderPublicKey                string `json:"senderPublicKey"`
	RecipientID                    string `json:"recipient"`
	Amount                         string `json:"amountNQT"`
	Fee                            string `json:"feeNQT"`
	ReferencedTransactionID        string `json:"referencedTransaction,omitempty"`
	ReferencedTransactionFullHash  string `json:"referencedTransactionFullHash,omitempty"`
	Signature                      string `json:"signature"`
	Attachment                     string `json:"attachment,omitempty"`
}

// MarshalJSON implements the wire JSON form.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	j := jsonTransaction{
		Type:            t.Type,
		Subtype:         t.Subtype,
		Timestamp:       t.Timestamp,
		Deadline:        t.Deadline,
		SenderPublicKey: hex.EncodeToString(t.SenderPublicKey[:]),
		RecipientID:     strconv.FormatInt(t.RecipientID, 10),
		Amount:          strconv.FormatInt(t.Amount, 10),
		Fee:             strconv.FormatInt(t.Fee, 10),
		Signature:       hex.EncodeToString(t.Signature[:]),
	}
	if len(t.ReferencedTransactionFullHash) > 0 {
		j.ReferencedTransactionFullHash = hex.EncodeToString(t.ReferencedTransactionFullHash)
	} else if t.ReferencedTransactionID != 0 {
		j.ReferencedTransactionID = strconv.FormatInt(t.ReferencedTransactionID, 10)
	}
	if len(t.Attachment) > 0 {
		j.Attachment = hex.EncodeToString(t.Attachment)
	}
	return json.Marshal(j)
}

// ParseJSON decodes the wire JSON form at the given chain height. Parsing
// failures produce a ValidationError, per spec.md §4.8.
func ParseJSON(ctx FormatContext, data []byte) (*Transaction, error) {
	var j jsonTransaction
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, &ValidationError{Reason: "malformed json: " + err.Error()}
	}

	senderPKBytes, err := hex.DecodeString(j.SenderPublicKey)
	if err != nil || len(senderPKBytes) != senderPublicKeySize {
		return nil, &ValidationError{Reason: "bad senderPublicKey"}
	}
	var senderPK [32]byte
	copy(senderPK[:], senderPKBytes)

	recipientID, err := strconv.ParseInt(j.RecipientID, 10, 64)
	if err != nil {
		return nil, &ValidationError{Reason: "bad recipient"}
	}
	amount, err := strconv.ParseInt(j.Amount, 10, 64)
	if err != nil {
		return nil, &ValidationError{Reason: "bad amountNQT"}
	}
	fee, err := strconv.ParseInt(j.Fee, 10, 64)
	if err != nil {
		return nil, &ValidationError{Reason: "bad feeNQT"}
	}

	var refID int64
	var refHash []byte
	if j.ReferencedTransactionFullHash != "" {
		refHash, err = hex.DecodeString(j.ReferencedTransactionFullHash)
		if err != nil || len(refHash) != 32 {
			return nil, &ValidationError{Reason: "bad referencedTransactionFullHash"}
		}
	} else if j.ReferencedTransactionID != "" {
		refID, err = strconv.ParseInt(j.ReferencedTransactionID, 10, 64)
		if err != nil {
			return nil, &ValidationError{Reason: "bad referencedTransaction"}
		}
	}

	sigBytes, err := hex.DecodeString(j.Signature)
	if err != nil || len(sigBytes) != signatureSize {
		return nil, &ValidationError{Reason: "bad signature"}
	}
	var sig [64]byte
	copy(sig[:], sigBytes)

	var attachment []byte
	if j.Attachment != "" {
		attachment, err = hex.DecodeString(j.Attachment)
		if err != nil {
			return nil, &ValidationError{Reason: "bad attachment"}
		}
		if uint32(len(attachment)) > nhz.MaxPayloadLength {
			return nil, &ValidationError{Reason: fmt.Sprintf("attachment too large: %d", len(attachment))}
		}
	}

	return New(ctx, j.Type, j.Subtype, j.Timestamp, j.Deadline, senderPK, recipientID, amount, fee, refID, refHash, sig, attachment)
}
