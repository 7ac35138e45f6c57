// Package resolver turns one normalized user message into a classified intent.
//
// Two interchangeable strategies honor the same contract: Rules (deterministic
// keyword/regex matching) and Gemini (one structured-output model call).
// Both always return exactly one intent discriminant; uncertainty becomes a
// clarification carrying a single short question, never an error.
package resolver

import (
	"context"

	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// Resolver classifies one normalized, non-empty message.
type Resolver interface {
	// Resolve returns the classified intent. text must be normalized and
	// non-empty. A non-nil error means the strategy's upstream service
	// failed and the turn should fall back to a static reply; rule-based
	// resolution never errors.
	Resolve(ctx context.Context, text string, settings models.Settings, pending *models.PendingAction) (models.IntentResult, error)
}

// replyLang picks the language for clarification questions: the explicit
// setting when present, otherwise a script-based guess.
func replyLang(settings models.Settings, text string) string {
	if settings.Language != "" && settings.Language != "auto" {
		return settings.Language
	}
	if HasCyrillic(text) {
		return "ru"
	}
	return "en"
}

// Clarification questions, by language.
func questionKindRequired(lang string) string {
	if lang == "ru" {
		return "Это расход или доход? Скажи одним словом: «расход» или «доход»."
	}
	return "Is that an expense or income? Answer with one word: \"expense\" or \"income\"."
}

func questionCurrencyRequired(lang string) string {
	if lang == "ru" {
		return "Не узнал валюту. В какой валюте записать? Например «EUR» или «рубли»."
	}
	return "I didn't recognize that currency. Which one should I use? For example \"EUR\" or \"dollars\"."
}

func questionDeleteConfirm(lang string) string {
	if lang == "ru" {
		return "⚠️ Это удалит ВСЕ твои записи и настройки без восстановления. Напиши «удали всё» ещё раз для подтверждения."
	}
	return "⚠️ This will permanently delete ALL your records and settings. Type \"delete everything\" again to confirm."
}

func questionUnknown(lang string) string {
	if lang == "ru" {
		return "Не понял. Ты хочешь записать расход/доход или посмотреть сводку?"
	}
	return "I'm not sure. Do you want to log an expense/income, or see a summary?"
}
