package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-notebook/internal/gemini"
	"gitlab.com/yelinaung/finance-notebook/internal/logger"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
	"google.golang.org/genai"
)

// ResolveTimeout bounds one delegated resolution call.
const ResolveTimeout = 10 * time.Second

// maxPromptChars caps how much of the user message is embedded in the prompt.
const maxPromptChars = 500

// Gemini is the delegated resolver: one structured-output model call per
// message, constrained to the fixed routing schema. Malformed output degrades
// to unknown; only transport failures surface as errors.
type Gemini struct {
	client *gemini.Client

	// Now is injectable for deterministic period mapping in tests.
	Now func() time.Time
}

var _ Resolver = (*Gemini)(nil)

// NewGemini creates a delegated resolver on top of a Gemini client.
func NewGemini(client *gemini.Client) *Gemini {
	return &Gemini{client: client, Now: time.Now}
}

// routeResponse is the fixed JSON shape the model must return. Every key is
// always present; absent optional values are null, never omitted.
type routeResponse struct {
	Action          string            `json:"action"`
	Question        *string           `json:"question"`
	LanguageSet     *string           `json:"language_set"`
	BaseCurrencySet *string           `json:"base_currency_set"`
	Period          *routePeriod      `json:"period"`
	Transaction     *routeTransaction `json:"transaction"`
}

type routePeriod struct {
	Type     string  `json:"type"`
	StartISO *string `json:"start_iso"`
	EndISO   *string `json:"end_iso"`
}

type routeTransaction struct {
	Type     *string  `json:"type"`
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
	Category *string  `json:"category"`
	Note     *string  `json:"note"`
}

var routeActions = []string{
	"add_transaction", "query_summary", "query_list", "set_language",
	"set_currency", "delete_account_request", "delete_account_confirmed",
	"clarification_needed", "small_talk", "unknown",
}

func routeSchema() *genai.Schema {
	nullableString := &genai.Schema{Type: genai.TypeString, Nullable: genai.Ptr(true)}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"action": {
				Type: genai.TypeString,
				Enum: routeActions,
			},
			"question":          nullableString,
			"language_set":      nullableString,
			"base_currency_set": nullableString,
			"period": {
				Type:     genai.TypeObject,
				Nullable: genai.Ptr(true),
				Properties: map[string]*genai.Schema{
					"type": {
						Type: genai.TypeString,
						Enum: []string{"day", "yesterday", "week", "month", "year", "custom"},
					},
					"start_iso": nullableString,
					"end_iso":   nullableString,
				},
				Required: []string{"type", "start_iso", "end_iso"},
			},
			"transaction": {
				Type:     genai.TypeObject,
				Nullable: genai.Ptr(true),
				Properties: map[string]*genai.Schema{
					"type": {
						Type:     genai.TypeString,
						Nullable: genai.Ptr(true),
						Enum:     []string{"expense", "income", "debt", "debt_payment"},
					},
					"amount":   {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
					"currency": nullableString,
					"category": nullableString,
					"note":     nullableString,
				},
				Required: []string{"type", "amount", "currency", "category", "note"},
			},
		},
		Required: []string{"action", "question", "language_set", "base_currency_set", "period", "transaction"},
	}
}

func buildRoutingPrompt(text string, settings models.Settings, pending *models.PendingAction) string {
	pendingDesc := "none"
	if pending != nil {
		pendingDesc = string(pending.Kind)
	}
	baseCurrency := settings.BaseCurrency
	if baseCurrency == "" {
		baseCurrency = "unset"
	}
	return fmt.Sprintf(`You are an intent router for a personal finance notebook bot.
Rules:
- Stay strictly in the finance notebook context.
- "coffee 5" or "spent 20 on gas" means add_transaction; fill the transaction fields.
- A bare number with no other words means clarification_needed: ask whether it is an expense or income.
- Requests for totals mean query_summary; requests to see entries mean query_list; set period when named.
- Changing language means set_language (BCP-47 primary tag); changing currency or answering with a currency means set_currency (ISO code).
- Asking to delete everything or the account means delete_account_request. Only an explicit standalone confirmation phrase means delete_account_confirmed.
- Greetings, thanks and off-topic chatter mean small_talk.
- When unsure, use unknown and put ONE short question in "question". Never ask more than one question.
- Currency codes must be ISO-4217. Amounts must be positive numbers.

User preferences: language=%s, base_currency=%s
Outstanding clarification: %s

Message: %s`,
		settings.Language, baseCurrency, pendingDesc, gemini.SanitizeForPrompt(text, maxPromptChars))
}

// Resolve classifies one message via the delegated model call.
func (g *Gemini) Resolve(ctx context.Context, text string, settings models.Settings, pending *models.PendingAction) (models.IntentResult, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, ResolveTimeout)
	defer cancel()

	temp := float32(0.2)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		MaxOutputTokens:  500,
		ResponseMIMEType: "application/json",
		ResponseSchema:   routeSchema(),
	}

	raw, err := g.client.GenerateJSON(timeoutCtx, buildRoutingPrompt(text, settings, pending), config)
	if err != nil {
		return models.IntentResult{}, fmt.Errorf("delegated resolution failed: %w", err)
	}

	result, ok := decodeRoute(raw, g.Now(), replyLang(settings, text))
	if !ok {
		logger.Log.Warn().Msg("Delegated resolver returned malformed output, degrading to unknown")
	}

	// Deletion is gated on the exact confirmation phrase, never on the
	// model's routing alone. As a fresh message only the yes-prefixed
	// forms confirm, same as the rule-based path.
	if result.Kind == models.IntentDeleteConfirmed {
		t := strings.ToLower(strings.TrimSpace(text))
		if !IsDeleteConfirmation(text) ||
			!(strings.HasPrefix(t, "да") || strings.HasPrefix(t, "yes")) {
			result = models.IntentResult{
				Kind:     models.IntentDeleteRequest,
				Question: questionDeleteConfirm(replyLang(settings, text)),
			}
		}
	}
	return result, nil
}

// decodeRoute maps the model output to an IntentResult. Any malformed or
// inconsistent payload degrades to unknown with a generic question.
func decodeRoute(raw string, now time.Time, lang string) (models.IntentResult, bool) {
	unknown := models.IntentResult{Kind: models.IntentUnknown, Question: questionUnknown(lang)}

	var rr routeResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &rr); err != nil {
		return unknown, false
	}

	kind, ok := actionToIntent(rr.Action)
	if !ok {
		return unknown, false
	}

	result := models.IntentResult{Kind: kind}

	switch kind {
	case models.IntentAddTransaction:
		draft, ok, badCurrency := decodeDraft(rr.Transaction)
		if !ok {
			return unknown, false
		}
		result.Draft = draft
		switch {
		case draft.Kind == "":
			// The model may leave the type open; let the controller ask.
			result.Kind = models.IntentClarification
			result.Question = questionKindRequired(lang)
		case badCurrency:
			// A named but unresolvable currency must not be silently
			// replaced with the default.
			result.Kind = models.IntentClarification
			result.Question = questionCurrencyRequired(lang)
		}

	case models.IntentQuerySummary, models.IntentQueryList:
		result.Period = decodePeriod(rr.Period, now)

	case models.IntentSetLanguage:
		if rr.LanguageSet == nil || *rr.LanguageSet == "" {
			return unknown, false
		}
		result.Language = strings.ToLower(*rr.LanguageSet)

	case models.IntentSetCurrency:
		if rr.BaseCurrencySet == nil {
			return unknown, false
		}
		code, ok := NormalizeCurrency(*rr.BaseCurrencySet)
		if !ok {
			return unknown, false
		}
		result.Currency = code

	case models.IntentClarification, models.IntentUnknown:
		if rr.Question != nil && strings.TrimSpace(*rr.Question) != "" {
			result.Question = strings.TrimSpace(*rr.Question)
		} else {
			result.Question = questionUnknown(lang)
		}
		// A bare-number message comes back as a clarification with a
		// partial transaction attached.
		if kind == models.IntentClarification {
			if draft, ok, _ := decodeDraft(rr.Transaction); ok {
				result.Draft = draft
			}
		}

	case models.IntentDeleteRequest:
		result.Question = questionDeleteConfirm(lang)
	}

	return result, true
}

func actionToIntent(action string) (models.IntentKind, bool) {
	for _, a := range routeActions {
		if action == a {
			return models.IntentKind(a), true
		}
	}
	return "", false
}

// decodeDraft validates the model's transaction payload. badCurrency marks a
// draft that named a currency no alias or ISO code matches; the draft itself
// is still usable with Currency left empty.
func decodeDraft(tx *routeTransaction) (draft *models.TxDraft, ok, badCurrency bool) {
	if tx == nil || tx.Amount == nil || *tx.Amount <= 0 {
		return nil, false, false
	}
	draft = &models.TxDraft{
		Amount:   decimal.NewFromFloat(*tx.Amount),
		Category: models.DefaultCategory,
	}
	if tx.Type != nil {
		kind := models.TxKind(*tx.Type)
		if !kind.Valid() && *tx.Type != "" {
			return nil, false, false
		}
		draft.Kind = kind
	}
	if tx.Currency != nil && *tx.Currency != "" {
		code, ok := NormalizeCurrency(*tx.Currency)
		if !ok {
			badCurrency = true
		} else {
			draft.Currency = code
		}
	}
	if tx.Category != nil && *tx.Category != "" {
		draft.Category = strings.ToLower(strings.TrimSpace(*tx.Category))
	}
	if tx.Note != nil {
		draft.Note = capNote(*tx.Note)
	}
	return draft, true, badCurrency
}

func decodePeriod(p *routePeriod, now time.Time) *models.Period {
	if p == nil {
		return nil
	}
	day := models.DayFloor(now)
	switch p.Type {
	case "day":
		return &models.Period{From: day, To: day.AddDate(0, 0, 1), Label: "today"}
	case "yesterday":
		return &models.Period{From: day.AddDate(0, 0, -1), To: day, Label: "yesterday"}
	case "week":
		period := models.LastDays(now, 7, "week")
		return &period
	case "month":
		period := models.LastDays(now, 30, "month")
		return &period
	case "year":
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &models.Period{From: from, To: from.AddDate(1, 0, 0), Label: fmt.Sprintf("%d", now.Year())}
	case "custom":
		if p.StartISO == nil || p.EndISO == nil {
			return nil
		}
		from, err1 := time.ParseInLocation("2006-01-02", *p.StartISO, now.Location())
		to, err2 := time.ParseInLocation("2006-01-02", *p.EndISO, now.Location())
		if err1 != nil || err2 != nil || to.Before(from) {
			return nil
		}
		return &models.Period{
			From:  from,
			To:    to.AddDate(0, 0, 1),
			Label: fmt.Sprintf("%s — %s", *p.StartISO, *p.EndISO),
		}
	}
	return nil
}

// extractJSON extracts a JSON object from text that may contain preamble.
// The model sometimes wraps output in markdown fences even with
// ResponseMIMEType set to application/json.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}
