package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPendingEncodeDecode(t *testing.T) {
	t.Parallel()

	t.Run("nil round-trips as nil", func(t *testing.T) {
		t.Parallel()
		data, err := EncodePending(nil)
		require.NoError(t, err)
		require.Nil(t, data)

		p, err := DecodePending(nil)
		require.NoError(t, err)
		require.Nil(t, p)
	})

	t.Run("full slot round-trips", func(t *testing.T) {
		t.Parallel()
		asked := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
		in := &PendingAction{
			Kind: PendingTxKind,
			Draft: &TxDraft{
				Amount:   decimal.RequireFromString("12.50"),
				Currency: "EUR",
				Category: "food",
				Note:     "lunch 12.50",
			},
			Question: "expense or income?",
			Options:  []string{"expense", "income"},
			AskedAt:  asked,
		}

		data, err := EncodePending(in)
		require.NoError(t, err)

		out, err := DecodePending(data)
		require.NoError(t, err)
		require.Equal(t, in.Kind, out.Kind)
		require.Equal(t, in.Question, out.Question)
		require.Equal(t, in.Options, out.Options)
		require.True(t, in.AskedAt.Equal(out.AskedAt))
		require.True(t, in.Draft.Amount.Equal(out.Draft.Amount))
		require.Equal(t, "EUR", out.Draft.Currency)
	})

	t.Run("garbage fails to decode", func(t *testing.T) {
		t.Parallel()
		_, err := DecodePending([]byte("{not json"))
		require.Error(t, err)
	})
}

func TestTxDraftTransaction(t *testing.T) {
	t.Parallel()

	draft := &TxDraft{
		Kind:     TxExpense,
		Amount:   decimal.NewFromInt(5),
		Currency: "USD",
		Category: "food",
		Note:     "coffee 5",
	}
	tx := draft.Transaction(42)

	require.Equal(t, int64(42), tx.UserID)
	require.Equal(t, TxExpense, tx.Kind)
	require.Equal(t, "food", tx.Category)
	require.True(t, tx.Complete())
}
