// Package models defines the domain entities for the finance notebook.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assumed when a user has not chosen a base currency.
const DefaultCurrency = "USD"

// DefaultCategory is the bucket for transactions without a recognizable category.
const DefaultCategory = "other"

// MaxNoteLength caps free-text notes stored on the ledger.
const MaxNoteLength = 200

// CurrencySymbols maps supported ISO codes to display symbols.
var CurrencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"RUB": "₽",
	"JPY": "¥",
	"CNY": "¥",
	"KZT": "₸",
	"UAH": "₴",
	"INR": "₹",
	"TRY": "₺",
}

// TxKind classifies a ledger entry.
type TxKind string

// Transaction kinds.
const (
	TxExpense     TxKind = "expense"
	TxIncome      TxKind = "income"
	TxDebt        TxKind = "debt"
	TxDebtPayment TxKind = "debt_payment"
)

// Valid reports whether k is a known transaction kind.
func (k TxKind) Valid() bool {
	switch k {
	case TxExpense, TxIncome, TxDebt, TxDebtPayment:
		return true
	}
	return false
}

// Settings holds per-user preferences.
type Settings struct {
	// Language is a BCP-47 primary tag ("en", "ru") or "auto".
	Language string `json:"language"`
	// BaseCurrency is an ISO-4217 code, empty when the user never chose one.
	BaseCurrency string `json:"base_currency"`
}

// User is one chat participant and the root document for all owned data.
type User struct {
	ID            int64
	Username      string
	FirstName     string
	Settings      Settings
	Pending       *PendingAction
	CreatedAt     time.Time
	LastActiveAt  time.Time
	LastDeletedAt *time.Time
}

// Transaction is one append-only ledger entry. Immutable once created.
type Transaction struct {
	ID        int64
	UserID    int64
	Kind      TxKind
	Amount    decimal.Decimal
	Currency  string
	Category  string
	Note      string
	CreatedAt time.Time
}

// Complete reports whether the transaction has everything required for persistence.
func (t *Transaction) Complete() bool {
	return t.Kind.Valid() && t.Amount.IsPositive() && t.Currency != ""
}

// Period is a closed date range for summaries and listings.
type Period struct {
	From  time.Time
	To    time.Time
	Label string
}

// LastDays builds a period covering the last n calendar days ending at now.
// Day boundaries follow now's location, not UTC.
func LastDays(now time.Time, n int, label string) Period {
	day := DayFloor(now)
	return Period{
		From:  day.AddDate(0, 0, -(n - 1)),
		To:    day.AddDate(0, 0, 1),
		Label: label,
	}
}

// DayFloor returns midnight of t's calendar day in t's location.
func DayFloor(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
