package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/finance-notebook/internal/database"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// Postgres implements Store on top of a pgx pool or transaction.
type Postgres struct {
	db database.PGXDB
}

var _ Store = (*Postgres)(nil)

// NewPostgres creates a Postgres store.
func NewPostgres(db database.PGXDB) *Postgres {
	return &Postgres{db: db}
}

// EnsureUser creates or refreshes a user and returns the current record.
func (s *Postgres) EnsureUser(ctx context.Context, user *models.User) (*models.User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, username, first_name, created_at, last_active_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_active_at = NOW()
		RETURNING id, username, first_name, language, base_currency, pending,
		          created_at, last_active_at, last_deleted_at
	`, user.ID, user.Username, user.FirstName)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return u, nil
}

// GetSettings returns the user's settings.
func (s *Postgres) GetSettings(ctx context.Context, userID int64) (models.Settings, error) {
	var st models.Settings
	err := s.db.QueryRow(ctx, `
		SELECT language, base_currency FROM users WHERE id = $1
	`, userID).Scan(&st.Language, &st.BaseCurrency)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Settings{}, ErrUserNotFound
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return st, nil
}

// SetLanguage updates the user's language preference.
func (s *Postgres) SetLanguage(ctx context.Context, userID int64, language string) error {
	if err := s.setColumn(ctx, userID, "language", language); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	return nil
}

// SetBaseCurrency updates the user's base currency.
func (s *Postgres) SetBaseCurrency(ctx context.Context, userID int64, currency string) error {
	if err := s.setColumn(ctx, userID, "base_currency", currency); err != nil {
		return fmt.Errorf("failed to set base currency: %w", err)
	}
	return nil
}

func (s *Postgres) setColumn(ctx context.Context, userID int64, column, value string) error {
	// column is always a compile-time constant from this file.
	tag, err := s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE users SET %s = $2 WHERE id = $1`, column),
		userID, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetPending returns the user's pending clarification.
func (s *Postgres) GetPending(ctx context.Context, userID int64) (*models.PendingAction, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, `SELECT pending FROM users WHERE id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending action: %w", err)
	}
	return models.DecodePending(raw)
}

// SetPending replaces the user's pending clarification.
func (s *Postgres) SetPending(ctx context.Context, userID int64, p *models.PendingAction) error {
	raw, err := models.EncodePending(p)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `UPDATE users SET pending = $2 WHERE id = $1`, userID, raw)
	if err != nil {
		return fmt.Errorf("failed to set pending action: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AppendTransaction appends one complete transaction to the ledger.
func (s *Postgres) AppendTransaction(ctx context.Context, tx *models.Transaction) (int64, error) {
	if !tx.Complete() {
		return 0, ErrIncompleteTransaction
	}
	if tx.Category == "" {
		tx.Category = models.DefaultCategory
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO transactions (user_id, kind, amount, currency, category, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, tx.UserID, tx.Kind, tx.Amount, tx.Currency, tx.Category, tx.Note,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to append transaction: %w", err)
	}
	return tx.ID, nil
}

// ListTransactions returns transactions in [from, to) ordered by creation time.
func (s *Postgres) ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, kind, amount, currency, category, note, created_at
		FROM transactions
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC, id ASC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Currency,
			&t.Category, &t.Note, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return out, nil
}

// DeleteAll removes the ledger and resets the user record, keeping the
// deletion timestamp. Children are deleted before the parent is reset.
func (s *Postgres) DeleteAll(ctx context.Context, userID int64) error {
	beginner, ok := s.db.(database.TxBeginner)
	if !ok {
		// Already inside a transaction (tests); run the statements directly.
		return s.deleteAll(ctx, s.db, userID)
	}

	dbTx, err := beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	if err := s.deleteAll(ctx, dbTx, userID); err != nil {
		return err
	}
	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete transaction: %w", err)
	}
	return nil
}

func (s *Postgres) deleteAll(ctx context.Context, db database.PGXDB, userID int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger: %w", err)
	}
	// Missing user row means the account is already gone; that is a no-op.
	// The deletion timestamp only moves when something was actually wiped,
	// so a repeat call cannot stretch the cooldown window.
	if _, err := db.Exec(ctx, `
		UPDATE users SET
			language = 'auto',
			base_currency = '',
			pending = NULL,
			last_deleted_at = CASE
				WHEN $2 OR language <> 'auto' OR base_currency <> '' OR pending IS NOT NULL
				THEN NOW()
				ELSE last_deleted_at
			END
		WHERE id = $1
	`, userID, tag.RowsAffected() > 0); err != nil {
		return fmt.Errorf("failed to reset user record: %w", err)
	}
	return nil
}

// CanDelete checks the deletion cooldown.
func (s *Postgres) CanDelete(ctx context.Context, userID int64, cooldown time.Duration) (bool, time.Duration, error) {
	var last *time.Time
	err := s.db.QueryRow(ctx, `SELECT last_deleted_at FROM users WHERE id = $1`, userID).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to check delete cooldown: %w", err)
	}
	if last == nil {
		return true, 0, nil
	}
	elapsed := time.Since(*last)
	if elapsed >= cooldown {
		return true, 0, nil
	}
	return false, cooldown - elapsed, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var rawPending []byte
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.Settings.Language,
		&u.Settings.BaseCurrency, &rawPending, &u.CreatedAt, &u.LastActiveAt,
		&u.LastDeletedAt); err != nil {
		return nil, err
	}
	p, err := models.DecodePending(rawPending)
	if err != nil {
		return nil, err
	}
	u.Pending = p
	return &u, nil
}
