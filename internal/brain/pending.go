package brain

import (
	"context"
	"strings"

	"gitlab.com/yelinaung/finance-notebook/internal/logger"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
	"gitlab.com/yelinaung/finance-notebook/internal/resolver"
)

var cancelWords = []string{
	"нет", "не надо", "отмена", "отменить", "стоп",
	"no", "cancel", "stop", "nevermind", "never mind",
}

func isCancel(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, w := range cancelWords {
		if t == w {
			return true
		}
	}
	return false
}

// handlePending consumes the message as an answer to the outstanding
// clarification. done=false means the message was not an answer; the slot is
// cleared (destructive confirmations excepted) and the caller resolves the
// message as a fresh turn.
func (b *Brain) handlePending(ctx context.Context, user *models.User, text, lang string) (reply string, done bool) {
	pending := user.Pending

	switch {
	case pending.Kind == models.PendingDeleteConfirm:
		return b.pendingDelete(ctx, user, text, lang)

	case pending.Draft == nil:
		// A clarification slot without a draft cannot be resumed.

	case pending.Kind == models.PendingTxKind:
		if kind, ok := kindFromAnswer(text); ok {
			pending.Draft.Kind = kind
			return b.record(ctx, user, pending.Draft, lang), true
		}

	case pending.Kind == models.PendingCurrency:
		if code, ok := resolver.NormalizeCurrency(strings.Trim(text, ".,!? ")); ok {
			pending.Draft.Currency = code
			return b.record(ctx, user, pending.Draft, lang), true
		}

	case pending.Kind == models.PendingCategory:
		if cat, ok := categoryFromAnswer(text, pending.Options); ok {
			pending.Draft.Category = cat
			return b.record(ctx, user, pending.Draft, lang), true
		}
	}

	if isCancel(text) {
		b.clearPending(ctx, user)
		return b.renderer.Cancelled(lang), true
	}

	// Not an answer. Drop the slot and let normal resolution have the turn.
	b.clearPending(ctx, user)
	return "", false
}

// pendingDelete guards the destructive path: only the exact confirmation
// phrase deletes, a cancel word backs out, and anything else re-asks without
// clearing the slot.
func (b *Brain) pendingDelete(ctx context.Context, user *models.User, text, lang string) (string, bool) {
	if resolver.IsDeleteConfirmation(text) {
		b.clearPending(ctx, user)
		return b.handleDeleteConfirmed(ctx, user, lang), true
	}
	if isCancel(text) {
		b.clearPending(ctx, user)
		return b.renderer.DeleteCancelled(lang), true
	}
	question := user.Pending.Question
	if question == "" {
		question = deleteQuestion(lang)
	}
	return question, true
}

func (b *Brain) clearPending(ctx context.Context, user *models.User) {
	if err := b.store.SetPending(ctx, user.ID, nil); err != nil {
		logger.Log.Error().Err(err).Str("user_hash", logger.HashUserID(user.ID)).
			Msg("Clearing pending failed")
		return
	}
	user.Pending = nil
}

// kindFromAnswer maps a one-word direction answer to a transaction kind.
func kindFromAnswer(text string) (models.TxKind, bool) {
	t := strings.ToLower(strings.Trim(text, ".,!? "))
	switch {
	case strings.Contains(t, "расход") || strings.Contains(t, "потрат") ||
		strings.Contains(t, "expense") || strings.Contains(t, "spent"):
		return models.TxExpense, true
	case strings.Contains(t, "доход") || strings.Contains(t, "income") ||
		strings.Contains(t, "пришло"):
		return models.TxIncome, true
	case strings.Contains(t, "погас") || strings.Contains(t, "вернул") ||
		strings.Contains(t, "paid back") || strings.Contains(t, "repaid"):
		return models.TxDebtPayment, true
	case strings.Contains(t, "долг") || strings.Contains(t, "debt") ||
		strings.Contains(t, "loan"):
		return models.TxDebt, true
	}
	return "", false
}

// categoryFromAnswer maps the user's pick to a canonical category. The water
// clarification resolves to utilities for the bill and food for the purchase.
func categoryFromAnswer(text string, options []string) (string, bool) {
	t := strings.ToLower(strings.Trim(text, ".,!? "))
	switch {
	case strings.Contains(t, "счёт") || strings.Contains(t, "счет") ||
		strings.Contains(t, "bill") || strings.Contains(t, "коммунал"):
		return "utilities", true
	case strings.Contains(t, "покупк") || strings.Contains(t, "бутыл") ||
		strings.Contains(t, "purchase") || strings.Contains(t, "bottle") ||
		strings.Contains(t, "buy"):
		return "food", true
	}
	for _, opt := range options {
		if t == strings.ToLower(opt) {
			return t, true
		}
	}
	return "", false
}
