package render

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{name: "usd integer drops decimals", amount: "5", currency: "USD", want: "$5"},
		{name: "usd fractional keeps two places", amount: "5.5", currency: "USD", want: "$5.50"},
		{name: "eur symbol", amount: "12", currency: "EUR", want: "€12"},
		{name: "rub symbol", amount: "250", currency: "RUB", want: "₽250"},
		{name: "unknown code prefixes", amount: "99.9", currency: "CHF", want: "CHF 99.90"},
		{name: "empty currency assumes default", amount: "7", currency: "", want: "$7"},
		{name: "lowercase code accepted", amount: "3", currency: "usd", want: "$3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			require.Equal(t, tt.want, Money(amount, tt.currency))
		})
	}
}

func TestConfirm(t *testing.T) {
	t.Parallel()
	r := New()

	tx := &models.Transaction{
		Kind:     models.TxExpense,
		Amount:   decimal.NewFromInt(5),
		Currency: "USD",
		Category: "food",
	}

	t.Run("english expense", func(t *testing.T) {
		t.Parallel()
		got := r.Confirm(tx, "en", false)
		require.Contains(t, got, "food")
		require.Contains(t, got, "$5")
		require.NotContains(t, got, "income")
	})

	t.Run("russian income flagged", func(t *testing.T) {
		t.Parallel()
		income := *tx
		income.Kind = models.TxIncome
		got := r.Confirm(&income, "ru", false)
		require.Contains(t, got, "Записал")
		require.Contains(t, got, "(доход)")
	})

	t.Run("assumed currency caveat", func(t *testing.T) {
		t.Parallel()
		got := r.Confirm(tx, "en", true)
		require.Contains(t, got, "assumed USD")
	})
}

func TestList(t *testing.T) {
	t.Parallel()
	r := New()

	t.Run("empty period", func(t *testing.T) {
		t.Parallel()
		got := r.List(nil, "week", "en")
		require.Contains(t, got, "No records")
	})

	t.Run("entries with signs", func(t *testing.T) {
		t.Parallel()
		day := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)
		txs := []models.Transaction{
			{Kind: models.TxExpense, Amount: decimal.NewFromInt(5), Currency: "USD", Category: "food", CreatedAt: day},
			{Kind: models.TxIncome, Amount: decimal.NewFromInt(450), Currency: "USD", Category: "other", CreatedAt: day},
		}
		got := r.List(txs, "week", "en")
		require.Contains(t, got, "-$5")
		require.Contains(t, got, "+$450")
		require.Contains(t, got, "18.06")
	})
}

type stubPhraser struct {
	out string
	err error
}

func (s *stubPhraser) Phrase(_ context.Context, facts, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func TestPolish(t *testing.T) {
	t.Parallel()

	t.Run("no phraser returns facts", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "facts", New().Polish(context.Background(), "facts", "en"))
	})

	t.Run("phraser output used", func(t *testing.T) {
		t.Parallel()
		r := NewWithPhraser(&stubPhraser{out: "nice wording"})
		require.Equal(t, "nice wording", r.Polish(context.Background(), "facts", "en"))
	})

	t.Run("phraser failure falls back to facts", func(t *testing.T) {
		t.Parallel()
		r := NewWithPhraser(&stubPhraser{err: errors.New("down")})
		require.Equal(t, "facts", r.Polish(context.Background(), "facts", "en"))
	})
}

func TestDeleteCooldown(t *testing.T) {
	t.Parallel()
	r := New()

	require.Contains(t, r.DeleteCooldown(5*time.Hour, "en"), "5 h")
	require.Contains(t, r.DeleteCooldown(10*time.Minute, "en"), "1 h")
	require.Contains(t, r.DeleteCooldown(3*time.Hour, "ru"), "3 ч")
}
