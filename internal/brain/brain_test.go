package brain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
	"gitlab.com/yelinaung/finance-notebook/internal/render"
	"gitlab.com/yelinaung/finance-notebook/internal/resolver"
	"gitlab.com/yelinaung/finance-notebook/internal/storage"
)

var testTime = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

func newTestBrain(t *testing.T) (*Brain, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	store.Now = func() time.Time { return testTime }
	rules := &resolver.Rules{Now: func() time.Time { return testTime }}
	b := New(store, rules, render.New(), 24*time.Hour, "USD")
	b.now = func() time.Time { return testTime }
	return b, store
}

func testUser() *models.User {
	return &models.User{ID: 42, FirstName: "Ann", Settings: models.Settings{Language: "auto"}}
}

func ledger(t *testing.T, store *storage.Memory, userID int64) []models.Transaction {
	t.Helper()
	txs, err := store.ListTransactions(context.Background(), userID,
		testTime.AddDate(-1, 0, 0), testTime.AddDate(1, 0, 0))
	require.NoError(t, err)
	return txs
}

func TestHandleRecordsExpense(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)

	reply := b.Handle(context.Background(), testUser(), "coffee 5")
	require.Contains(t, reply, "✅")
	require.Contains(t, reply, "$5")

	txs := ledger(t, store, 42)
	require.Len(t, txs, 1)
	require.Equal(t, models.TxExpense, txs[0].Kind)
	require.Equal(t, "food", txs[0].Category)
	require.Equal(t, "USD", txs[0].Currency)
}

func TestHandleBareNumberClarifiesThenRecords(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	reply := b.Handle(ctx, user, "100")
	require.Contains(t, reply, "expense")
	require.Empty(t, ledger(t, store, 42), "nothing may be written before the answer")

	pending, err := store.GetPending(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, pending)
	require.Equal(t, models.PendingTxKind, pending.Kind)

	reply = b.Handle(ctx, user, "income")
	require.Contains(t, reply, "✅")

	txs := ledger(t, store, 42)
	require.Len(t, txs, 1)
	require.Equal(t, models.TxIncome, txs[0].Kind)
	require.Equal(t, "100", txs[0].Amount.String())

	pending, err = store.GetPending(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, pending)
}

func TestHandlePendingOffTopicAnswerFallsThrough(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	b.Handle(ctx, user, "100")

	// The user ignores the question and asks for a summary instead.
	reply := b.Handle(ctx, user, "show summary")
	require.Contains(t, reply, "Summary")

	pending, err := store.GetPending(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, pending, "abandoned clarification must not linger")
	require.Empty(t, ledger(t, store, 42))
}

func TestHandlePendingCancel(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	b.Handle(ctx, user, "100")
	reply := b.Handle(ctx, user, "cancel")
	require.Contains(t, reply, "cancelled")
	require.Empty(t, ledger(t, store, 42))
}

func TestHandleDeleteFlow(t *testing.T) {
	t.Parallel()

	t.Run("request then exact confirmation deletes", func(t *testing.T) {
		t.Parallel()
		b, store := newTestBrain(t)
		ctx := context.Background()
		user := testUser()

		b.Handle(ctx, user, "coffee 5")
		require.Len(t, ledger(t, store, 42), 1)

		reply := b.Handle(ctx, user, "delete everything")
		require.Contains(t, reply, "⚠️")
		require.Len(t, ledger(t, store, 42), 1, "request alone must not delete")

		reply = b.Handle(ctx, user, "yes, delete everything")
		require.Contains(t, reply, "🗑️")
		require.Empty(t, ledger(t, store, 42))
	})

	t.Run("vague answer re-asks without deleting", func(t *testing.T) {
		t.Parallel()
		b, store := newTestBrain(t)
		ctx := context.Background()
		user := testUser()

		b.Handle(ctx, user, "coffee 5")
		b.Handle(ctx, user, "delete everything")

		reply := b.Handle(ctx, user, "well maybe")
		require.Contains(t, reply, "⚠️")
		require.Len(t, ledger(t, store, 42), 1)

		pending, err := store.GetPending(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, pending)
		require.Equal(t, models.PendingDeleteConfirm, pending.Kind)
	})

	t.Run("cancel backs out", func(t *testing.T) {
		t.Parallel()
		b, store := newTestBrain(t)
		ctx := context.Background()
		user := testUser()

		b.Handle(ctx, user, "coffee 5")
		b.Handle(ctx, user, "delete everything")
		reply := b.Handle(ctx, user, "no")
		require.Contains(t, reply, "nothing deleted")
		require.Len(t, ledger(t, store, 42), 1)
	})

	t.Run("second wipe within cooldown is refused", func(t *testing.T) {
		t.Parallel()
		b, store := newTestBrain(t)
		ctx := context.Background()
		user := testUser()

		b.Handle(ctx, user, "coffee 5")
		b.Handle(ctx, user, "delete everything")
		b.Handle(ctx, user, "yes, delete everything")
		require.Empty(t, ledger(t, store, 42))

		reply := b.Handle(ctx, user, "delete everything")
		require.Contains(t, reply, "recently")

		pending, err := store.GetPending(ctx, 42)
		require.NoError(t, err)
		require.Nil(t, pending)
	})
}

func TestHandleSummaryDefaultsToWeek(t *testing.T) {
	t.Parallel()
	b, _ := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	b.Handle(ctx, user, "coffee 5")
	b.Handle(ctx, user, "got paid 450")

	reply := b.Handle(ctx, user, "show summary")
	require.Contains(t, reply, "Income: $450")
	require.Contains(t, reply, "Spent: $5")
	require.Contains(t, reply, "Net: $445")
	require.Contains(t, reply, "No base currency set")
}

func TestHandleSummaryAfterCurrencySet(t *testing.T) {
	t.Parallel()
	b, _ := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	b.Handle(ctx, user, "currency EUR")
	b.Handle(ctx, user, "coffee 5")

	reply := b.Handle(ctx, user, "show summary")
	require.Contains(t, reply, "€5")
	require.NotContains(t, reply, "No base currency set")
}

func TestHandleListShowsEntries(t *testing.T) {
	t.Parallel()
	b, _ := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	b.Handle(ctx, user, "coffee 5")
	reply := b.Handle(ctx, user, "show transactions")
	require.Contains(t, reply, "-$5")
	require.Contains(t, reply, "food")
}

func TestHandleSettings(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	reply := b.Handle(ctx, user, "отвечай по-английски")
	require.Contains(t, reply, "English")

	settings, err := store.GetSettings(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "en", settings.Language)

	reply = b.Handle(ctx, user, "currency EUR")
	require.Contains(t, reply, "EUR")

	settings, err = store.GetSettings(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "EUR", settings.BaseCurrency)
}

func TestHandleWaterAmbiguity(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	reply := b.Handle(ctx, user, "вода 100")
	require.Contains(t, reply, "воду")
	require.Empty(t, ledger(t, store, 42), "ambiguous entry must not be written")

	reply = b.Handle(ctx, user, "счёт")
	require.Contains(t, reply, "✅")

	txs := ledger(t, store, 42)
	require.Len(t, txs, 1)
	require.Equal(t, "utilities", txs[0].Category)
}

func TestHandleEmptyMessage(t *testing.T) {
	t.Parallel()
	b, _ := newTestBrain(t)

	reply := b.Handle(context.Background(), testUser(), "   ")
	require.NotEmpty(t, reply)
}

// failingResolver simulates an unavailable delegated resolver.
type failingResolver struct{}

func (failingResolver) Resolve(context.Context, string, models.Settings, *models.PendingAction) (models.IntentResult, error) {
	return models.IntentResult{}, errors.New("upstream down")
}

func TestHandleResolverFailureFallsBack(t *testing.T) {
	t.Parallel()
	store := storage.NewMemory()
	b := New(store, failingResolver{}, render.New(), 24*time.Hour, "USD")
	ctx := context.Background()
	user := testUser()

	reply := b.Handle(ctx, user, "coffee 5")
	require.Contains(t, reply, "try again")
	require.Empty(t, ledger(t, store, 42))

	pending, err := store.GetPending(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, pending, "failed resolution must not change state")
}

func TestHandleSerializesPerUser(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			b.Handle(ctx, testUser(), "coffee 5")
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	require.Len(t, ledger(t, store, 42), 10)
}

func TestHandlePendingCurrencyAnswer(t *testing.T) {
	t.Parallel()
	b, store := newTestBrain(t)
	ctx := context.Background()
	user := testUser()

	_, err := store.EnsureUser(ctx, user)
	require.NoError(t, err)
	require.NoError(t, store.SetPending(ctx, 42, &models.PendingAction{
		Kind: models.PendingCurrency,
		Draft: &models.TxDraft{
			Kind:     models.TxExpense,
			Amount:   decimal.NewFromInt(30),
			Category: "food",
			Note:     "lunch 30 quid",
		},
		Question: "Which currency should I use?",
		AskedAt:  testTime,
	}))

	reply := b.Handle(ctx, user, "GBP")
	require.Contains(t, reply, "£30")

	txs := ledger(t, store, 42)
	require.Len(t, txs, 1)
	require.Equal(t, "GBP", txs[0].Currency)
	require.Equal(t, models.TxExpense, txs[0].Kind)

	pending, err := store.GetPending(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, pending)
}
