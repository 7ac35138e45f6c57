package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PendingKind discriminates the single-slot clarification state.
type PendingKind string

// Pending clarification variants.
const (
	// PendingTxKind waits for "expense or income?"; Draft misses only Kind.
	PendingTxKind PendingKind = "awaiting_kind"
	// PendingCurrency waits for a currency; Draft misses only Currency.
	PendingCurrency PendingKind = "awaiting_currency"
	// PendingCategory waits for a category pick between Options; Draft misses only Category.
	PendingCategory PendingKind = "awaiting_category"
	// PendingDeleteConfirm waits for the exact delete confirmation phrase.
	PendingDeleteConfirm PendingKind = "delete_confirm"
)

// PendingAction is the single outstanding clarification for a user.
// Setting a new one always replaces the previous one.
type PendingAction struct {
	Kind     PendingKind `json:"kind"`
	Draft    *TxDraft    `json:"draft,omitempty"`
	Question string      `json:"question,omitempty"`
	Options  []string    `json:"options,omitempty"`
	AskedAt  time.Time   `json:"asked_at"`
}

// TxDraft is a half-built transaction carried inside a pending clarification.
// It must contain every field the completion handler needs except the one
// the clarification question asks for.
type TxDraft struct {
	Kind     TxKind          `json:"kind,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
	Category string          `json:"category,omitempty"`
	Note     string          `json:"note,omitempty"`
}

// Transaction materializes the draft for a user once every field is present.
func (d *TxDraft) Transaction(userID int64) Transaction {
	return Transaction{
		UserID:   userID,
		Kind:     d.Kind,
		Amount:   d.Amount,
		Currency: d.Currency,
		Category: d.Category,
		Note:     d.Note,
	}
}

// EncodePending serializes a pending action for the storage layer.
// A nil pending encodes as nil (SQL NULL).
func EncodePending(p *PendingAction) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pending action: %w", err)
	}
	return data, nil
}

// DecodePending deserializes a pending action from the storage layer.
func DecodePending(data []byte) (*PendingAction, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var p PendingAction
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending action: %w", err)
	}
	return &p, nil
}
