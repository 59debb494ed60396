package transaction

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	ctx := FormatContext{}
	tx := sampleTx(t, ctx)

	data, err := tx.MarshalJSON()
	require.NoError(t, err)

	got, err := ParseJSON(ctx, data)
	require.NoError(t, err)
	require.Equal(t, tx.SenderPublicKey, got.SenderPublicKey)
	require.Equal(t, tx.RecipientID, got.RecipientID)
	require.Equal(t, tx.Amount, got.Amount)
	require.Equal(t, tx.Fee, got.Fee)
	require.Equal(t, tx.Signature, got.Signature)
	require.Equal(t, tx.Attachment, got.Attachment)
	require.Equal(t, tx.ID(), got.ID())
	require.Equal(t, tx.Hash(), got.Hash())
}

func TestParseJSONMalformedIsValidationError(t *testing.T) {
	_, err := ParseJSON(FormatContext{}, []byte("not json"))
	require.Error(t, err)
	require.True(t, IsValidationError(err))
}

func TestParseJSONBadSignatureLength(t *testing.T) {
	ctx := FormatContext{}
	tx := sampleTx(t, ctx)
	data, err := tx.MarshalJSON()
	require.NoError(t, err)

	tampered := []byte(`{"type":1,"subtype":0,"timestamp":1,"deadline":1,"senderPublicKey":"` +
		hex.EncodeToString(tx.SenderPublicKey[:]) + `","recipient":"1","amountNQT":"1","feeNQT":"1","signature":"ab"}`)
	_, err = ParseJSON(ctx, tampered)
	require.Error(t, err)
	require.True(t, IsValidationError(err))
	_ = data
}
