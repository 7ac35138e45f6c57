package resolver

import (
	"context"
	"testing"
	"time"

	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

func FuzzRulesResolve(f *testing.F) {
	// Seed corpus with representative messages.
	f.Add("coffee 5")
	f.Add("кофе 150")
	f.Add("100")
	f.Add("пришло 450")
	f.Add("покажи за неделю")
	f.Add("удали всё")
	f.Add("да, удали всё")
	f.Add("currency EUR")
	f.Add("отвечай по-русски")
	f.Add("привет")

	// Seed corpus with hostile shapes.
	f.Add("")
	f.Add("   ")
	f.Add("999999999999999999999")
	f.Add("5.5.5 $€£₽")
	f.Add("\x00\x01\x02")
	f.Add("за за за на на на")

	r := &Rules{Now: func() time.Time { return time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC) }}

	f.Fuzz(func(t *testing.T, input string) {
		text := Normalize(input)
		result, err := r.Resolve(context.Background(), text, models.Settings{Language: "auto"}, nil)

		// Invariant 1: rule-based resolution never errors.
		if err != nil {
			t.Errorf("Resolve(%q) returned error: %v", input, err)
		}

		// Invariant 2: the intent is always one of the known discriminants.
		switch result.Kind {
		case models.IntentAddTransaction, models.IntentQuerySummary, models.IntentQueryList,
			models.IntentSetLanguage, models.IntentSetCurrency,
			models.IntentDeleteRequest, models.IntentDeleteConfirmed,
			models.IntentClarification, models.IntentSmallTalk, models.IntentUnknown:
		default:
			t.Errorf("Resolve(%q) returned unknown intent kind %q", input, result.Kind)
		}

		// Invariant 3: a transaction result always carries a positive amount.
		if result.Kind == models.IntentAddTransaction || result.Kind == models.IntentClarification {
			if result.Draft != nil && !result.Draft.Amount.IsPositive() {
				t.Errorf("Resolve(%q) produced a draft with non-positive amount %v", input, result.Draft.Amount)
			}
		}

		// Invariant 4: destructive confirmation only for explicit phrases.
		if result.Kind == models.IntentDeleteConfirmed && !IsDeleteConfirmation(text) {
			t.Errorf("Resolve(%q) confirmed deletion without a canonical phrase", input)
		}
	})
}
