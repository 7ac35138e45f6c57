// Package render builds every user-facing reply from pre-computed facts.
// Templates never invent or alter numbers; optional model phrasing rewords
// the facts and falls back to the plain template on any failure.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-notebook/internal/logger"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// Phraser rewords a facts string in the given language without changing any
// figure. The Gemini client satisfies this.
type Phraser interface {
	Phrase(ctx context.Context, facts, language string) (string, error)
}

// Renderer produces reply text. A nil phraser disables model phrasing and
// every reply is the plain template.
type Renderer struct {
	phraser Phraser
}

// New creates a template-only renderer.
func New() *Renderer {
	return &Renderer{}
}

// NewWithPhraser creates a renderer that rewords conversational replies via
// the phraser. Data-bearing replies (summaries, listings) stay template-only.
func NewWithPhraser(p Phraser) *Renderer {
	return &Renderer{phraser: p}
}

// Money formats an amount in the original notebook style: known currencies
// show their symbol glued to the number, others a code prefix, and decimals
// appear only when the amount has a fractional part.
func Money(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}

	var num string
	if amount.IsInteger() {
		num = amount.StringFixed(0)
	} else {
		num = amount.StringFixed(2)
	}

	if sym, ok := models.CurrencySymbols[currency]; ok {
		return sym + num
	}
	return currency + " " + num
}

// Polish optionally rewords facts via the phraser. Any failure returns the
// facts unchanged, so replies degrade rather than break.
func (r *Renderer) Polish(ctx context.Context, facts, lang string) string {
	if r.phraser == nil {
		return facts
	}
	phrased, err := r.phraser.Phrase(ctx, facts, lang)
	if err != nil {
		logger.Log.Debug().Err(err).Msg("Phrasing failed, using plain reply")
		return facts
	}
	return phrased
}

// Confirm acknowledges one recorded transaction. currencyAssumed adds a note
// that the default currency was used because none was set or given.
func (r *Renderer) Confirm(tx *models.Transaction, lang string, currencyAssumed bool) string {
	money := Money(tx.Amount, tx.Currency)
	label := tx.Category
	if label == "" {
		label = models.DefaultCategory
	}

	var b strings.Builder
	if lang == "ru" {
		b.WriteString(fmt.Sprintf("✅ Записал: %s %s", label, money))
		switch tx.Kind {
		case models.TxIncome:
			b.WriteString(" (доход)")
		case models.TxDebt:
			b.WriteString(" (долг)")
		case models.TxDebtPayment:
			b.WriteString(" (погашение долга)")
		}
		if currencyAssumed {
			b.WriteString(fmt.Sprintf("\nВалюту взял по умолчанию (%s). Скажи «валюта EUR», чтобы сменить.", tx.Currency))
		}
	} else {
		b.WriteString(fmt.Sprintf("✅ Recorded: %s %s", label, money))
		switch tx.Kind {
		case models.TxIncome:
			b.WriteString(" (income)")
		case models.TxDebt:
			b.WriteString(" (debt)")
		case models.TxDebtPayment:
			b.WriteString(" (debt payment)")
		}
		if currencyAssumed {
			b.WriteString(fmt.Sprintf("\nI assumed %s. Say \"currency EUR\" to change it.", tx.Currency))
		}
	}
	return b.String()
}

// List renders transactions for a period, oldest first.
func (r *Renderer) List(txs []models.Transaction, label, lang string) string {
	if len(txs) == 0 {
		if lang == "ru" {
			return fmt.Sprintf("Записей %s нет.", periodPhrase(label, lang))
		}
		return fmt.Sprintf("No records %s.", periodPhrase(label, lang))
	}

	var b strings.Builder
	if lang == "ru" {
		b.WriteString(fmt.Sprintf("🗒 Записи %s:\n", periodPhrase(label, lang)))
	} else {
		b.WriteString(fmt.Sprintf("🗒 Records %s:\n", periodPhrase(label, lang)))
	}
	for _, tx := range txs {
		sign := "-"
		if tx.Kind == models.TxIncome {
			sign = "+"
		}
		b.WriteString(fmt.Sprintf("%s  %s%s  %s\n",
			tx.CreatedAt.Format("02.01"), sign, Money(tx.Amount, tx.Currency), tx.Category))
	}
	return strings.TrimRight(b.String(), "\n")
}

// periodPhrase turns a period label into the right prepositional phrase.
func periodPhrase(label, lang string) string {
	if label == "" {
		label = "week"
	}
	ru := map[string]string{
		"today": "за сегодня", "yesterday": "за вчера",
		"week": "за неделю", "month": "за месяц",
	}
	en := map[string]string{
		"today": "for today", "yesterday": "for yesterday",
		"week": "for the last 7 days", "month": "for the last 30 days",
	}
	if lang == "ru" {
		if p, ok := ru[label]; ok {
			return p
		}
		return "за " + label
	}
	if p, ok := en[label]; ok {
		return p
	}
	return "for " + label
}

// Greeting welcomes a user, by first name when known.
func (r *Renderer) Greeting(firstName, lang string) string {
	name := strings.TrimSpace(firstName)
	if lang == "ru" {
		hello := "Привет"
		if name != "" {
			hello += ", " + name
		}
		return hello + "! Я твоя записная книжка расходов.\n" +
			"Пиши как есть: «кофе 5», «пришло 450», «покажи за неделю»."
	}
	hello := "Hi"
	if name != "" {
		hello += ", " + name
	}
	return hello + "! I'm your expense notebook.\n" +
		"Just write: \"coffee 5\", \"got paid 450\", \"show this week\"."
}

// Help lists what the notebook understands.
func (r *Renderer) Help(lang string) string {
	if lang == "ru" {
		return "Я понимаю обычные фразы:\n" +
			"• «кофе 5» или «потратил 250 на бензин» — записать расход\n" +
			"• «пришло 450» — записать доход\n" +
			"• «дал 1000 в долг» / «погасил долг 300» — долги\n" +
			"• «покажи за неделю», «сколько за месяц» — сводка\n" +
			"• «покажи записи» — список операций\n" +
			"• «валюта EUR», «отвечай по-английски» — настройки\n" +
			"• «удали всё» — стереть все данные (с подтверждением)"
	}
	return "I understand plain phrases:\n" +
		"• \"coffee 5\" or \"spent 250 on fuel\" to log an expense\n" +
		"• \"got paid 450\" to log income\n" +
		"• \"lent 1000\" / \"paid back 300\" for debts\n" +
		"• \"show this week\", \"how much this month\" for a summary\n" +
		"• \"show records\" for the raw list\n" +
		"• \"currency EUR\", \"reply in Russian\" for settings\n" +
		"• \"delete everything\" to wipe all data (asks to confirm)"
}

// SmallTalk answers greetings and thanks, steering back to the notebook.
func (r *Renderer) SmallTalk(lang string) string {
	if lang == "ru" {
		return "Привет! Я записная книжка расходов. Напиши, например, «кофе 5» или «покажи за неделю»."
	}
	return "Hi! I'm your expense notebook. Try \"coffee 5\" or \"show this week\"."
}

// LanguageSet confirms a language change, in the new language.
func (r *Renderer) LanguageSet(lang string) string {
	if lang == "ru" {
		return "Хорошо, отвечаю по-русски."
	}
	return "OK, replying in English from now on."
}

// CurrencySet confirms the new base currency.
func (r *Renderer) CurrencySet(code, lang string) string {
	if lang == "ru" {
		return fmt.Sprintf("Готово, базовая валюта теперь %s.", code)
	}
	return fmt.Sprintf("Done, your base currency is now %s.", code)
}

// Deleted confirms a completed account wipe.
func (r *Renderer) Deleted(lang string) string {
	if lang == "ru" {
		return "🗑️ Готово. Я полностью удалил твой аккаунт и все записи."
	}
	return "🗑️ Done. Your account and every record are deleted."
}

// Cancelled acknowledges an abandoned clarification.
func (r *Renderer) Cancelled(lang string) string {
	if lang == "ru" {
		return "Ок, отменил."
	}
	return "OK, cancelled."
}

// DeleteCancelled confirms that nothing was deleted.
func (r *Renderer) DeleteCancelled(lang string) string {
	if lang == "ru" {
		return "Ок, не удаляю. Продолжаем."
	}
	return "OK, nothing deleted. Carrying on."
}

// DeleteCooldown explains that deletion is rate-limited.
func (r *Renderer) DeleteCooldown(wait time.Duration, lang string) string {
	hours := int(wait.Round(time.Hour).Hours())
	if hours < 1 {
		hours = 1
	}
	if lang == "ru" {
		return fmt.Sprintf("Аккаунт уже недавно удалялся. Попробуй снова примерно через %d ч.", hours)
	}
	return fmt.Sprintf("The account was wiped recently. Try again in about %d h.", hours)
}

// Retry is the reply for a failed storage write; nothing was recorded.
func (r *Renderer) Retry(lang string) string {
	if lang == "ru" {
		return "Не получилось сохранить. Ничего не записал, попробуй ещё раз."
	}
	return "I couldn't save that. Nothing was recorded, please try again."
}

// Fallback is the fail-safe reply when resolution itself is unavailable.
// It must never depend on any upstream service.
func (r *Renderer) Fallback(lang string) string {
	if lang == "ru" {
		return "Я сейчас туплю, попробуй ещё раз чуть позже. Записи и настройки целы."
	}
	return "I'm having trouble right now, please try again in a bit. Your records are safe."
}
