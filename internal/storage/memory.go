package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// Memory is an in-memory Store used in tests and as a lightweight double for
// the conversation controller. Safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	ledger map[int64][]models.Transaction
	nextID int64

	// Now is injectable for deterministic tests.
	Now func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:  make(map[int64]*models.User),
		ledger: make(map[int64][]models.Transaction),
		Now:    time.Now,
	}
}

// EnsureUser creates or refreshes a user.
func (m *Memory) EnsureUser(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.Now()
	u, ok := m.users[user.ID]
	if !ok {
		u = &models.User{
			ID:        user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			Settings:  models.Settings{Language: "auto"},
			CreatedAt: now,
		}
		m.users[user.ID] = u
	}
	u.Username = user.Username
	u.FirstName = user.FirstName
	u.LastActiveAt = now

	out := *u
	return &out, nil
}

// GetSettings returns the user's settings.
func (m *Memory) GetSettings(_ context.Context, userID int64) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return models.Settings{}, ErrUserNotFound
	}
	return u.Settings, nil
}

// SetLanguage updates the user's language preference.
func (m *Memory) SetLanguage(_ context.Context, userID int64, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Settings.Language = language
	return nil
}

// SetBaseCurrency updates the user's base currency.
func (m *Memory) SetBaseCurrency(_ context.Context, userID int64, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Settings.BaseCurrency = currency
	return nil
}

// GetPending returns the user's pending clarification.
func (m *Memory) GetPending(_ context.Context, userID int64) (*models.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	if u.Pending == nil {
		return nil, nil
	}
	p := *u.Pending
	return &p, nil
}

// SetPending replaces the user's pending clarification.
func (m *Memory) SetPending(_ context.Context, userID int64, p *models.PendingAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if p == nil {
		u.Pending = nil
		return nil
	}
	cp := *p
	u.Pending = &cp
	return nil
}

// AppendTransaction appends a complete transaction to the ledger with a
// per-user monotonic creation timestamp.
func (m *Memory) AppendTransaction(_ context.Context, tx *models.Transaction) (int64, error) {
	if !tx.Complete() {
		return 0, ErrIncompleteTransaction
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[tx.UserID]; !ok {
		return 0, ErrUserNotFound
	}

	m.nextID++
	tx.ID = m.nextID
	tx.CreatedAt = m.Now()
	if tx.Category == "" {
		tx.Category = models.DefaultCategory
	}

	// Keep creation times strictly increasing per user for stable ordering.
	if prev := m.ledger[tx.UserID]; len(prev) > 0 {
		last := prev[len(prev)-1].CreatedAt
		if !tx.CreatedAt.After(last) {
			tx.CreatedAt = last.Add(time.Microsecond)
		}
	}

	m.ledger[tx.UserID] = append(m.ledger[tx.UserID], *tx)
	return tx.ID, nil
}

// ListTransactions returns transactions in [from, to) ordered by creation time.
func (m *Memory) ListTransactions(_ context.Context, userID int64, from, to time.Time) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Transaction
	for _, t := range m.ledger[userID] {
		if !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// DeleteAll removes the ledger and resets the user record. A repeat call
// with nothing left to wipe is a no-op and keeps the previous deletion
// timestamp, so retries cannot stretch the cooldown window.
func (m *Memory) DeleteAll(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		delete(m.ledger, userID)
		return nil
	}

	wiped := len(m.ledger[userID]) > 0 || u.Pending != nil ||
		u.Settings != (models.Settings{Language: "auto"})
	delete(m.ledger, userID)
	if !wiped {
		return nil
	}

	now := m.Now()
	u.Settings = models.Settings{Language: "auto"}
	u.Pending = nil
	u.LastDeletedAt = &now
	return nil
}

// CanDelete checks the deletion cooldown.
func (m *Memory) CanDelete(_ context.Context, userID int64, cooldown time.Duration) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok || u.LastDeletedAt == nil {
		return true, 0, nil
	}
	elapsed := m.Now().Sub(*u.LastDeletedAt)
	if elapsed >= cooldown {
		return true, 0, nil
	}
	return false, cooldown - elapsed, nil
}
