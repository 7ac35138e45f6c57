package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTxKindValid(t *testing.T) {
	t.Parallel()

	require.True(t, TxExpense.Valid())
	require.True(t, TxIncome.Valid())
	require.True(t, TxDebt.Valid())
	require.True(t, TxDebtPayment.Valid())
	require.False(t, TxKind("").Valid())
	require.False(t, TxKind("transfer").Valid())
}

func TestTransactionComplete(t *testing.T) {
	t.Parallel()

	complete := Transaction{
		Kind:     TxExpense,
		Amount:   decimal.NewFromInt(5),
		Currency: "USD",
	}
	require.True(t, complete.Complete())

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{name: "missing kind", mutate: func(tx *Transaction) { tx.Kind = "" }},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount = decimal.Zero }},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }},
		{name: "missing currency", mutate: func(tx *Transaction) { tx.Currency = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tx := complete
			tt.mutate(&tx)
			require.False(t, tx.Complete())
		})
	}
}

func TestLastDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)
	p := LastDays(now, 7, "week")

	require.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC), p.From)
	require.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), p.To)
	require.Equal(t, "week", p.Label)

	single := LastDays(now, 1, "today")
	require.Equal(t, time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), single.From)
	require.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), single.To)
}

func TestLastDaysUsesLocalMidnight(t *testing.T) {
	t.Parallel()

	// 01:30 local on June 19 is still June 18 in UTC; the day window must
	// follow the local calendar, not the UTC one.
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2025, 6, 19, 1, 30, 0, 0, loc)

	p := LastDays(now, 1, "today")
	require.Equal(t, time.Date(2025, 6, 19, 0, 0, 0, 0, loc), p.From)
	require.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, loc), p.To)
}

func TestDayFloor(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-7", -7*60*60)
	got := DayFloor(time.Date(2025, 6, 18, 23, 59, 59, 0, loc))
	require.Equal(t, time.Date(2025, 6, 18, 0, 0, 0, 0, loc), got)
	require.Equal(t, loc, got.Location())
}
