package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Save(account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(query, account.ID, account.Name, account.UserID).
		Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create account: %v", err)
	}
	return nil
}

func (r *AccountRepository) FindByIDAndUser(accountID, userID string) (*domain.Account, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND user_id = $2
	`
	var account domain.Account
	err := r.db.QueryRow(query, accountID, userID).
		Scan(&account.ID, &account.Name, &account.UserID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerErrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("could not find account: %v", err)
	}
	return &account, nil
}

func (r *AccountRepository) FindByUser(userID string) ([]domain.Account, error) {
	query := `
		SELECT id, name, user_id, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not list accounts: %v", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.UserID, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Update(account *domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRow(query, account.Name, account.ID).Scan(&account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledgerErrors.ErrAccountNotFound
		}
		return fmt.Errorf("could not update account: %v", err)
	}
	return nil
}

// Delete removes the account. Transactions go with it through the
// ON DELETE CASCADE constraint on transactions.account_id.
func (r *AccountRepository) Delete(accountID string) error {
	result, err := r.db.Exec(`DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("could not delete account: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledgerErrors.ErrAccountNotFound
	}
	return nil
}

// Balance aggregates live from the transactions table. The balance is never
// stored, so it is always consistent with whatever the store has committed.
func (r *AccountRepository) Balance(accountID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE account_id = $1
	`
	var balance float64
	if err := r.db.QueryRow(query, accountID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("could not compute balance: %v", err)
	}
	return balance, nil
}

func (r *AccountRepository) CountTransactions(accountID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("could not count transactions: %v", err)
	}
	return count, nil
}
