package domain

import (
	"time"
)

type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountRepository is the owner-scoped persistence contract for accounts.
// Lookups always filter by user id, so a foreign account is indistinguishable
// from a missing one.
type AccountRepository interface {
	Save(account *Account) error
	FindByIDAndUser(accountID, userID string) (*Account, error)
	FindByUser(userID string) ([]Account, error)
	Update(account *Account) error
	Delete(accountID string) error
	Balance(accountID string) (float64, error)
	CountTransactions(accountID string) (int, error)
}
