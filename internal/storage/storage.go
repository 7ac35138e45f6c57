// Package storage implements the per-user document and ledger store.
package storage

import (
	"context"
	"errors"
	"time"

	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// ErrIncompleteTransaction is returned when a transaction missing a kind,
// positive amount, or currency is handed to AppendTransaction. Partially
// filled transactions must stay in the pending slot, never in the ledger.
var ErrIncompleteTransaction = errors.New("transaction is missing required fields")

// ErrUserNotFound is returned when an operation references an unknown user.
var ErrUserNotFound = errors.New("user not found")

// Store is the storage adapter consumed by the conversation controller.
// Implementations: Postgres (production) and Memory (tests).
type Store interface {
	// EnsureUser creates the user with default settings on first contact and
	// refreshes last-active. Returns the current record including settings
	// and the pending slot.
	EnsureUser(ctx context.Context, user *models.User) (*models.User, error)

	// GetSettings returns the user's settings.
	GetSettings(ctx context.Context, userID int64) (models.Settings, error)

	// SetLanguage updates the user's language preference.
	SetLanguage(ctx context.Context, userID int64, language string) error

	// SetBaseCurrency updates the user's base currency.
	SetBaseCurrency(ctx context.Context, userID int64, currency string) error

	// GetPending returns the user's pending clarification, nil when none.
	GetPending(ctx context.Context, userID int64) (*models.PendingAction, error)

	// SetPending replaces the pending clarification. nil clears the slot.
	SetPending(ctx context.Context, userID int64, p *models.PendingAction) error

	// AppendTransaction appends a complete transaction to the ledger and
	// returns its id. Returns ErrIncompleteTransaction otherwise.
	AppendTransaction(ctx context.Context, tx *models.Transaction) (int64, error)

	// ListTransactions returns the user's transactions with from <= created_at < to,
	// ordered by creation time ascending.
	ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error)

	// DeleteAll removes the ledger and resets the user record to defaults,
	// keeping only the deletion timestamp for cooldown enforcement.
	// Idempotent: deleting an already-empty account is a no-op.
	DeleteAll(ctx context.Context, userID int64) error

	// CanDelete reports whether the user may delete the account now, and if
	// not, how long to wait.
	CanDelete(ctx context.Context, userID int64, cooldown time.Duration) (bool, time.Duration, error)
}
