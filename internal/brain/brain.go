// Package brain is the conversation controller: it owns the turn pipeline
// from normalized text to reply, including the single pending-clarification
// slot per user. Every turn produces exactly one reply; failures degrade to
// safe static text and never lose recorded data.
package brain

import (
	"context"
	"strings"
	"time"

	"gitlab.com/yelinaung/finance-notebook/internal/logger"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
	"gitlab.com/yelinaung/finance-notebook/internal/render"
	"gitlab.com/yelinaung/finance-notebook/internal/resolver"
	"gitlab.com/yelinaung/finance-notebook/internal/storage"
)

// Brain wires storage, intent resolution and reply rendering into one
// message handler.
type Brain struct {
	store    storage.Store
	resolver resolver.Resolver
	renderer *render.Renderer

	deleteCooldown  time.Duration
	defaultCurrency string
	locks           *userLocks

	// now is injectable for deterministic tests.
	now func() time.Time
}

// New creates a conversation controller. defaultCurrency is assumed for
// drafts that name no currency when the user has no base currency either.
func New(store storage.Store, res resolver.Resolver, renderer *render.Renderer, deleteCooldown time.Duration, defaultCurrency string) *Brain {
	if defaultCurrency == "" {
		defaultCurrency = models.DefaultCurrency
	}
	return &Brain{
		store:           store,
		resolver:        res,
		renderer:        renderer,
		deleteCooldown:  deleteCooldown,
		defaultCurrency: defaultCurrency,
		locks:           newUserLocks(),
		now:             time.Now,
	}
}

// Handle processes one message and always returns a reply. Turns for the
// same user run strictly one at a time.
func (b *Brain) Handle(ctx context.Context, incoming *models.User, text string) string {
	mu := b.locks.lock(incoming.ID)
	defer mu.Unlock()

	text = resolver.Normalize(text)

	user, err := b.store.EnsureUser(ctx, incoming)
	if err != nil {
		logger.Log.Error().Err(err).Str("user_hash", logger.HashUserID(incoming.ID)).
			Msg("EnsureUser failed")
		return b.renderer.Fallback(langFor(incoming.Settings, text))
	}
	lang := langFor(user.Settings, text)

	if text == "" {
		return b.renderer.SmallTalk(lang)
	}

	// The pending slot short-circuits resolution for the answer it awaits.
	if user.Pending != nil {
		if reply, done := b.handlePending(ctx, user, text, lang); done {
			return reply
		}
		// The answer did not fit the question. The slot is already
		// cleared; classify the message as a fresh turn.
		user.Pending = nil
	}

	result, err := b.resolver.Resolve(ctx, text, user.Settings, user.Pending)
	if err != nil {
		logger.Log.Warn().Err(err).Str("user_hash", logger.HashUserID(user.ID)).
			Msg("Intent resolution unavailable, sending fallback")
		return b.renderer.Fallback(lang)
	}

	return b.dispatch(ctx, user, result, text, lang)
}

// dispatch routes one resolved intent to its action handler.
func (b *Brain) dispatch(ctx context.Context, user *models.User, result models.IntentResult, text, lang string) string {
	switch result.Kind {
	case models.IntentAddTransaction:
		return b.handleAdd(ctx, user, result.Draft, lang)

	case models.IntentClarification:
		return b.handleClarification(ctx, user, result, lang)

	case models.IntentQuerySummary:
		return b.handleSummary(ctx, user, result, lang)

	case models.IntentQueryList:
		return b.handleList(ctx, user, result, lang)

	case models.IntentSetLanguage:
		if err := b.store.SetLanguage(ctx, user.ID, result.Language); err != nil {
			logger.Log.Error().Err(err).Msg("SetLanguage failed")
			return b.renderer.Retry(lang)
		}
		return b.renderer.LanguageSet(result.Language)

	case models.IntentSetCurrency:
		if err := b.store.SetBaseCurrency(ctx, user.ID, result.Currency); err != nil {
			logger.Log.Error().Err(err).Msg("SetBaseCurrency failed")
			return b.renderer.Retry(lang)
		}
		return b.renderer.CurrencySet(result.Currency, lang)

	case models.IntentDeleteRequest:
		return b.handleDeleteRequest(ctx, user, result, lang)

	case models.IntentDeleteConfirmed:
		return b.handleDeleteConfirmed(ctx, user, lang)

	case models.IntentSmallTalk:
		return b.renderer.Polish(ctx, b.renderer.SmallTalk(lang), lang)

	default:
		if result.Question != "" {
			return result.Question
		}
		return b.renderer.SmallTalk(lang)
	}
}

// handleAdd records a complete transaction, or parks it behind a
// clarification when a required piece is still missing or ambiguous.
func (b *Brain) handleAdd(ctx context.Context, user *models.User, draft *models.TxDraft, lang string) string {
	if draft == nil || !draft.Amount.IsPositive() {
		return b.renderer.SmallTalk(lang)
	}

	if draft.Kind == "" {
		return b.askPending(ctx, user, &models.PendingAction{
			Kind:     models.PendingTxKind,
			Draft:    draft,
			Question: kindQuestion(lang),
			AskedAt:  b.now(),
		}, lang)
	}

	if q, opts, ambiguous := categoryAmbiguity(draft, lang); ambiguous {
		return b.askPending(ctx, user, &models.PendingAction{
			Kind:     models.PendingCategory,
			Draft:    draft,
			Question: q,
			Options:  opts,
			AskedAt:  b.now(),
		}, lang)
	}

	return b.record(ctx, user, draft, lang)
}

// record materializes a draft, fills the currency default, persists and
// confirms. Nothing is written when persistence fails.
func (b *Brain) record(ctx context.Context, user *models.User, draft *models.TxDraft, lang string) string {
	currencyAssumed := false
	if draft.Currency == "" {
		if user.Settings.BaseCurrency != "" {
			draft.Currency = user.Settings.BaseCurrency
		} else {
			draft.Currency = b.defaultCurrency
			currencyAssumed = true
		}
	}
	if draft.Category == "" {
		draft.Category = models.DefaultCategory
	}

	tx := draft.Transaction(user.ID)
	if _, err := b.store.AppendTransaction(ctx, &tx); err != nil {
		logger.Log.Error().Err(err).Str("user_hash", logger.HashUserID(user.ID)).
			Msg("AppendTransaction failed")
		return b.renderer.Retry(lang)
	}
	if user.Pending != nil {
		if err := b.store.SetPending(ctx, user.ID, nil); err != nil {
			logger.Log.Error().Err(err).Msg("Clearing pending failed")
		}
		user.Pending = nil
	}
	return b.renderer.Confirm(&tx, lang, currencyAssumed)
}

// askPending stores the clarification slot and asks its question. The
// previous slot, if any, is replaced.
func (b *Brain) askPending(ctx context.Context, user *models.User, pending *models.PendingAction, lang string) string {
	if err := b.store.SetPending(ctx, user.ID, pending); err != nil {
		logger.Log.Error().Err(err).Msg("SetPending failed")
		return b.renderer.Retry(lang)
	}
	user.Pending = pending
	return pending.Question
}

func (b *Brain) handleClarification(ctx context.Context, user *models.User, result models.IntentResult, lang string) string {
	// The slot is chosen by the field the draft still misses; the kind
	// takes priority when both are open.
	pendingKind := models.PendingTxKind
	fallback := kindQuestion(lang)
	if result.Draft != nil && result.Draft.Kind != "" && result.Draft.Currency == "" {
		pendingKind = models.PendingCurrency
		fallback = currencyQuestion(lang)
	}

	question := result.Question
	if question == "" {
		question = fallback
	}
	if result.Draft == nil {
		// Nothing to resume later; just ask.
		return question
	}
	return b.askPending(ctx, user, &models.PendingAction{
		Kind:     pendingKind,
		Draft:    result.Draft,
		Question: question,
		AskedAt:  b.now(),
	}, lang)
}

func (b *Brain) handleSummary(ctx context.Context, user *models.User, result models.IntentResult, lang string) string {
	period := b.periodOrDefault(result.Period)
	txs, err := b.store.ListTransactions(ctx, user.ID, period.From, period.To)
	if err != nil {
		logger.Log.Error().Err(err).Msg("ListTransactions failed")
		return b.renderer.Fallback(lang)
	}
	totals := render.Aggregate(txs, result.Category)
	assumed := ""
	if user.Settings.BaseCurrency == "" && len(totals) > 0 {
		assumed = b.defaultCurrency
	}
	return b.renderer.Summary(totals, period.Label, result.Category, lang, assumed)
}

func (b *Brain) handleList(ctx context.Context, user *models.User, result models.IntentResult, lang string) string {
	period := b.periodOrDefault(result.Period)
	txs, err := b.store.ListTransactions(ctx, user.ID, period.From, period.To)
	if err != nil {
		logger.Log.Error().Err(err).Msg("ListTransactions failed")
		return b.renderer.Fallback(lang)
	}
	return b.renderer.List(txs, period.Label, lang)
}

// ChartData returns the period's transactions for charting, applying the
// same default period as summaries.
func (b *Brain) ChartData(ctx context.Context, incoming *models.User, period *models.Period) ([]models.Transaction, string, error) {
	user, err := b.store.EnsureUser(ctx, incoming)
	if err != nil {
		return nil, "", err
	}
	p := b.periodOrDefault(period)
	txs, err := b.store.ListTransactions(ctx, user.ID, p.From, p.To)
	if err != nil {
		return nil, "", err
	}
	return txs, p.Label, nil
}

func (b *Brain) periodOrDefault(p *models.Period) models.Period {
	if p != nil {
		return *p
	}
	return models.LastDays(b.now(), 7, "week")
}

func (b *Brain) handleDeleteRequest(ctx context.Context, user *models.User, result models.IntentResult, lang string) string {
	ok, wait, err := b.store.CanDelete(ctx, user.ID, b.deleteCooldown)
	if err != nil {
		logger.Log.Error().Err(err).Msg("CanDelete failed")
		return b.renderer.Fallback(lang)
	}
	if !ok {
		return b.renderer.DeleteCooldown(wait, lang)
	}
	question := result.Question
	if question == "" {
		question = deleteQuestion(lang)
	}
	return b.askPending(ctx, user, &models.PendingAction{
		Kind:     models.PendingDeleteConfirm,
		Question: question,
		AskedAt:  b.now(),
	}, lang)
}

func (b *Brain) handleDeleteConfirmed(ctx context.Context, user *models.User, lang string) string {
	ok, wait, err := b.store.CanDelete(ctx, user.ID, b.deleteCooldown)
	if err != nil {
		logger.Log.Error().Err(err).Msg("CanDelete failed")
		return b.renderer.Fallback(lang)
	}
	if !ok {
		return b.renderer.DeleteCooldown(wait, lang)
	}
	if err := b.store.DeleteAll(ctx, user.ID); err != nil {
		logger.Log.Error().Err(err).Str("user_hash", logger.HashUserID(user.ID)).
			Msg("DeleteAll failed")
		return b.renderer.Retry(lang)
	}
	user.Pending = nil
	return b.renderer.Deleted(lang)
}

// langFor picks the reply language from the profile setting, falling back to
// a script guess for "auto".
func langFor(settings models.Settings, text string) string {
	if settings.Language != "" && settings.Language != "auto" {
		return settings.Language
	}
	if resolver.HasCyrillic(text) {
		return "ru"
	}
	return "en"
}

func kindQuestion(lang string) string {
	if lang == "ru" {
		return "Это расход или доход? Скажи одним словом: «расход» или «доход»."
	}
	return "Is that an expense or income? Answer with one word: \"expense\" or \"income\"."
}

func currencyQuestion(lang string) string {
	if lang == "ru" {
		return "В какой валюте записать? Например «EUR» или «рубли»."
	}
	return "Which currency should I use? For example \"EUR\" or \"dollars\"."
}

func deleteQuestion(lang string) string {
	if lang == "ru" {
		return "⚠️ Это удалит ВСЕ твои записи и настройки без восстановления. Напиши «да, удали всё» для подтверждения."
	}
	return "⚠️ This will permanently delete ALL your records and settings. Type \"yes, delete everything\" to confirm."
}

// categoryAmbiguity flags drafts whose note admits two very different
// categories, like "вода 100" meaning bottled water or the water bill.
func categoryAmbiguity(draft *models.TxDraft, lang string) (string, []string, bool) {
	if draft.Kind != models.TxExpense {
		return "", nil, false
	}
	note := strings.ToLower(draft.Note)
	waterish := strings.Contains(note, "вода") || strings.Contains(note, "воду") ||
		strings.Contains(note, "water")
	if !waterish {
		return "", nil, false
	}
	// An explicit bill or purchase word already disambiguates.
	if strings.Contains(note, "счёт") || strings.Contains(note, "счет") ||
		strings.Contains(note, "bill") || strings.Contains(note, "бутыл") ||
		strings.Contains(note, "bottle") {
		return "", nil, false
	}
	switch draft.Category {
	case models.DefaultCategory, "вода", "воду", "water", "utilities", "food":
	default:
		return "", nil, false
	}
	if lang == "ru" {
		return "Ты про «воду» как покупку (бутылки) или счёт за воду?", []string{"покупка", "счёт"}, true
	}
	return "Do you mean buying water (bottles) or the water bill?", []string{"purchase", "bill"}, true
}
