package resolver

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// Rules is the deterministic keyword/regex resolver. It has no external
// dependencies and never fails.
type Rules struct {
	// Now is injectable for deterministic period parsing in tests.
	Now func() time.Time
}

var _ Resolver = (*Rules)(nil)

// NewRules creates a rule-based resolver.
func NewRules() *Rules {
	return &Rules{Now: time.Now}
}

// DeleteConfirmPhrases are the canonical confirmation phrases, matched
// case-insensitively and exactly. Anything less explicit never deletes.
var DeleteConfirmPhrases = []string{
	"delete everything",
	"yes, delete everything",
	"да, удали всё",
	"да, удали все",
	"да удали всё",
	"да удали все",
	"удали всё",
	"удали все",
}

// IsDeleteConfirmation reports whether text is an exact canonical
// confirmation phrase.
func IsDeleteConfirmation(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, phrase := range DeleteConfirmPhrases {
		if t == phrase {
			return true
		}
	}
	return false
}

var deleteRequestPhrases = []string{
	"удали всё", "удали все", "удалить всё", "удалить все",
	"очисти всё", "очисти все", "стереть всё", "стереть все",
	"удалить аккаунт", "удали аккаунт",
	"delete everything", "delete all", "delete my account",
	"wipe my data", "erase everything", "clear everything",
}

var listWords = []string{
	"список", "записи", "выведи", "list", "show transactions", "покажи записи",
	"какие расходы", "какие доходы", "recent",
}

var summaryWords = []string{
	"покажи", "показать", "сводка", "сводку", "итог", "итоги", "сколько",
	"посчитай", "отчет", "отчёт", "show", "summary", "total", "report",
	"how much",
}

var incomeWords = []string{
	"пришло", "получил", "получила", "заработал", "заработала", "доход",
	"поступило", "оплатили мне", "перевели", "зарплата",
	"income", "got paid", "earned", "received", "salary",
}

var expenseWords = []string{
	"потратил", "потратила", "купил", "купила", "заплатил", "заплатила",
	"расход", "оплатил", "оплатила", "списали",
	"spent", "expense", "bought", "paid for",
}

var debtWords = []string{
	"в долг", "на долг", "долг", "занял", "одолжил", "debt", "loan", "borrowed",
}

var payDebtWords = []string{
	"погасил", "вернул долг", "закрыл долг", "оплатил долг",
	"paid debt", "pay debt", "repaid", "paid back",
}

var smallTalkWords = []string{
	"привет", "здравствуй", "как дела", "помощь", "что ты умеешь",
	"что можешь", "команды", "спасибо",
	"hello", "hi", "hey", "help", "what can you do", "thanks", "thank you",
}

// categoryHints maps canonical category labels to trigger substrings.
var categoryHints = map[string][]string{
	"fuel":      {"топливо", "бензин", "бенз", "дизел", "fuel", "petrol", "diesel"},
	"food":      {"еда", "еду", "кафе", "ресторан", "бургер", "кофе", "обед", "продукты", "coffee", "food", "lunch", "dinner", "grocery", "restaurant", "burger"},
	"utilities": {"счёт", "счет", "коммуналк", "вода", "электр", "интернет", "телефон", "bill", "water", "electric", "internet", "phone", "utilities"},
	"credit":    {"кредит", "платёж", "платеж", "ипотек", "credit", "loan payment", "mortgage"},
	"insurance": {"страхов", "insurance"},
}

var stopWords = map[string]bool{
	"за": true, "на": true, "по": true, "в": true, "во": true, "и": true,
	"этот": true, "эту": true, "эти": true, "прошлый": true, "прошлую": true,
	"the": true, "a": true, "an": true, "for": true, "on": true, "of": true,
}

var amountTokenRegex = regexp.MustCompile(`^(\d{1,9}(?:[.,]\d{1,2})?)$`)

// extractAmount finds the first standalone number in the text, accepting both
// "." and "," as decimal separator. Returns the parsed amount, the raw token
// consumed, and whether anything was found.
func extractAmount(text string) (decimal.Decimal, string, bool) {
	for _, field := range strings.Fields(text) {
		token := strings.Trim(field, "$€£₽₸₴.,!?")
		m := amountTokenRegex.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", ".")
		amount, err := decimal.NewFromString(raw)
		if err != nil || !amount.IsPositive() {
			continue
		}
		return amount, field, true
	}
	return decimal.Decimal{}, "", false
}

// extractCurrency finds the first token resolvable to a currency code.
func extractCurrency(text string) (string, bool) {
	for _, field := range strings.Fields(text) {
		token := strings.Trim(field, ".,!?")
		if amountTokenRegex.MatchString(token) {
			continue
		}
		if code, ok := NormalizeCurrency(token); ok {
			return code, true
		}
	}
	// A glued symbol like "$5" also names a currency.
	for _, sym := range []string{"$", "€", "£", "₽", "₸", "₴"} {
		if strings.Contains(text, sym) {
			code, _ := NormalizeCurrency(sym)
			return code, true
		}
	}
	return "", false
}

func inList(token string, words []string) bool {
	for _, w := range words {
		if token == w {
			return true
		}
	}
	return false
}

func containsAny(t string, words []string) bool {
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

// guessKind classifies the transaction type from keywords; expense by default,
// the way a notebook assumes a bare "coffee 5" is spending.
func guessKind(t string) models.TxKind {
	switch {
	case containsAny(t, payDebtWords):
		return models.TxDebtPayment
	case containsAny(t, debtWords):
		return models.TxDebt
	case containsAny(t, incomeWords):
		return models.TxIncome
	default:
		return models.TxExpense
	}
}

// guessCategory maps text to a canonical hint category, falling back to a
// short label built from the remaining words.
func guessCategory(text string) string {
	t := strings.ToLower(text)
	for cat, hints := range categoryHints {
		if containsAny(t, hints) {
			return cat
		}
	}

	var words []string
	for _, field := range strings.Fields(t) {
		token := strings.Trim(field, "$€£₽₸₴.,!?")
		if token == "" || amountTokenRegex.MatchString(token) || stopWords[token] {
			continue
		}
		if _, isCurrency := NormalizeCurrency(token); isCurrency {
			continue
		}
		if inList(token, summaryWords) || inList(token, incomeWords) || inList(token, expenseWords) {
			continue
		}
		words = append(words, token)
		if len(words) == 3 {
			break
		}
	}
	if len(words) == 0 {
		return models.DefaultCategory
	}
	return strings.Join(words, " ")
}

// Resolve applies the ordered rule set. Destructive intents are checked first
// so a coincidental number in the same message cannot shadow them.
func (r *Rules) Resolve(_ context.Context, text string, settings models.Settings, _ *models.PendingAction) (models.IntentResult, error) {
	t := strings.ToLower(text)
	lang := replyLang(settings, text)

	if IsDeleteConfirmation(text) {
		// Bare "удали всё" is canonical for confirmation but as a fresh
		// message it is a request; only the explicit "yes" forms confirm.
		if strings.HasPrefix(t, "да") || strings.HasPrefix(t, "yes") {
			return models.IntentResult{Kind: models.IntentDeleteConfirmed}, nil
		}
	}
	if containsAny(t, deleteRequestPhrases) {
		return models.IntentResult{
			Kind:     models.IntentDeleteRequest,
			Question: questionDeleteConfirm(lang),
		}, nil
	}

	if containsAny(t, listWords) {
		return models.IntentResult{Kind: models.IntentQueryList, Period: ParsePeriod(text, r.Now())}, nil
	}
	if containsAny(t, summaryWords) {
		return models.IntentResult{
			Kind:     models.IntentQuerySummary,
			Period:   ParsePeriod(text, r.Now()),
			Category: summaryCategory(text),
		}, nil
	}

	if amount, rawToken, ok := extractAmount(text); ok {
		currency, _ := extractCurrency(text)

		// Strip the number (and currency token) and see what is left.
		rest := strings.TrimSpace(strings.Replace(text, rawToken, "", 1))
		restWords := 0
		for _, f := range strings.Fields(rest) {
			if _, isCur := NormalizeCurrency(strings.Trim(f, ".,!?")); !isCur {
				restWords++
			}
		}

		draft := &models.TxDraft{
			Amount:   amount,
			Currency: currency,
			Note:     capNote(text),
		}

		if restWords == 0 {
			// A bare "100" names neither a type nor a category.
			draft.Category = models.DefaultCategory
			return models.IntentResult{
				Kind:     models.IntentClarification,
				Draft:    draft,
				Question: questionKindRequired(lang),
			}, nil
		}

		draft.Kind = guessKind(t)
		draft.Category = guessCategory(text)
		return models.IntentResult{Kind: models.IntentAddTransaction, Draft: draft}, nil
	}

	if lang2, ok := matchSetLanguage(t); ok {
		return models.IntentResult{Kind: models.IntentSetLanguage, Language: lang2}, nil
	}
	if code, ok := matchSetCurrency(text); ok {
		return models.IntentResult{Kind: models.IntentSetCurrency, Currency: code}, nil
	}

	if containsAny(t, smallTalkWords) {
		return models.IntentResult{Kind: models.IntentSmallTalk}, nil
	}

	return models.IntentResult{Kind: models.IntentUnknown, Question: questionUnknown(lang)}, nil
}

// summaryCategory extracts an optional category filter from a summary query.
func summaryCategory(text string) string {
	t := strings.ToLower(text)
	for cat, hints := range categoryHints {
		if containsAny(t, hints) {
			return cat
		}
	}
	return ""
}

func matchSetLanguage(t string) (string, bool) {
	switch {
	case strings.Contains(t, "по-русски") || strings.Contains(t, "на русском") ||
		strings.Contains(t, "in russian") || strings.Contains(t, "language ru") ||
		strings.Contains(t, "язык ru"):
		return "ru", true
	case strings.Contains(t, "по-английски") || strings.Contains(t, "на английском") ||
		strings.Contains(t, "in english") || strings.Contains(t, "language en") ||
		strings.Contains(t, "язык en"):
		return "en", true
	}
	return "", false
}

func matchSetCurrency(text string) (string, bool) {
	t := strings.ToLower(text)
	fields := strings.Fields(text)

	if strings.Contains(t, "валют") || strings.Contains(t, "currency") {
		for _, f := range fields {
			if code, ok := NormalizeCurrency(strings.Trim(f, ".,!?")); ok {
				return code, true
			}
		}
		return "", false
	}

	// A lone currency token ("EUR", "евро") is a currency answer.
	if len(fields) == 1 {
		if code, ok := NormalizeCurrency(strings.Trim(fields[0], ".,!?")); ok {
			return code, true
		}
	}
	return "", false
}

func capNote(text string) string {
	if len(text) > models.MaxNoteLength {
		return strings.TrimSpace(text[:models.MaxNoteLength])
	}
	return text
}
