package infrastructure

import (
	"sort"
	"strings"
	"time"

	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

// In-memory repositories backing the service tests. They mirror the SQL
// semantics closely enough that pagination, filtering and ownership checks
// behave the same as against postgres.

type MockAccountRepository struct {
	Accounts     []domain.Account
	Transactions *MockTransactionRepository
}

func (m *MockAccountRepository) Save(account *domain.Account) error {
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.Accounts = append(m.Accounts, *account)
	return nil
}

func (m *MockAccountRepository) FindByIDAndUser(accountID, userID string) (*domain.Account, error) {
	for _, account := range m.Accounts {
		if account.ID == accountID && account.UserID == userID {
			found := account
			return &found, nil
		}
	}
	return nil, ledgerErrors.ErrAccountNotFound
}

func (m *MockAccountRepository) FindByUser(userID string) ([]domain.Account, error) {
	var accounts []domain.Account
	for _, account := range m.Accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) Update(account *domain.Account) error {
	for i := range m.Accounts {
		if m.Accounts[i].ID == account.ID {
			account.UpdatedAt = time.Now()
			m.Accounts[i] = *account
			return nil
		}
	}
	return ledgerErrors.ErrAccountNotFound
}

func (m *MockAccountRepository) Delete(accountID string) error {
	for i := range m.Accounts {
		if m.Accounts[i].ID == accountID {
			m.Accounts = append(m.Accounts[:i], m.Accounts[i+1:]...)
			if m.Transactions != nil {
				m.Transactions.deleteByAccount(accountID)
			}
			return nil
		}
	}
	return ledgerErrors.ErrAccountNotFound
}

func (m *MockAccountRepository) Balance(accountID string) (float64, error) {
	if m.Transactions == nil {
		return 0, nil
	}
	var balance float64
	for _, transaction := range m.Transactions.Transactions {
		if transaction.AccountID != accountID {
			continue
		}
		if transaction.Type == domain.TypeIncome {
			balance += transaction.Amount
		} else {
			balance -= transaction.Amount
		}
	}
	return balance, nil
}

func (m *MockAccountRepository) CountTransactions(accountID string) (int, error) {
	if m.Transactions == nil {
		return 0, nil
	}
	count := 0
	for _, transaction := range m.Transactions.Transactions {
		if transaction.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

type MockTransactionRepository struct {
	Accounts     []domain.Account
	Transactions []domain.Transaction
}

func (m *MockTransactionRepository) Save(transaction *domain.Transaction) error {
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions = append(m.Transactions, *transaction)
	return nil
}

func (m *MockTransactionRepository) Update(transaction *domain.Transaction) error {
	for i := range m.Transactions {
		if m.Transactions[i].ID == transaction.ID {
			transaction.CreatedAt = m.Transactions[i].CreatedAt
			transaction.UpdatedAt = time.Now()
			m.Transactions[i] = *transaction
			return nil
		}
	}
	return ledgerErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) Delete(transactionID string) error {
	for i := range m.Transactions {
		if m.Transactions[i].ID == transactionID {
			m.Transactions = append(m.Transactions[:i], m.Transactions[i+1:]...)
			return nil
		}
	}
	return ledgerErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) FindByIDAndUser(transactionID, userID string) (*domain.Transaction, error) {
	for _, transaction := range m.Transactions {
		if transaction.ID != transactionID {
			continue
		}
		for _, account := range m.Accounts {
			if account.ID == transaction.AccountID && account.UserID == userID {
				found := transaction
				return &found, nil
			}
		}
	}
	return nil, ledgerErrors.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByAccount(accountID string, filter domain.TransactionFilter, limit, offset int) ([]domain.Transaction, int, error) {
	matched := m.filter(accountID, filter)
	total := len(matched)

	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *MockTransactionRepository) SearchBySubtype(accountID, term string) ([]domain.Transaction, error) {
	matched := m.filter(accountID, domain.TransactionFilter{Search: term})
	return matched, nil
}

func (m *MockTransactionRepository) filter(accountID string, filter domain.TransactionFilter) []domain.Transaction {
	var matched []domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.AccountID != accountID {
			continue
		}
		if filter.Type != "" && transaction.Type != filter.Type {
			continue
		}
		if filter.Subtype != "" && (transaction.Subtype == nil || *transaction.Subtype != filter.Subtype) {
			continue
		}
		if len(filter.Search) >= domain.MinSearchTermLength {
			term := strings.ToUpper(filter.Search)
			if transaction.Subtype == nil || !strings.Contains(*transaction.Subtype, term) {
				continue
			}
		}
		if filter.StartDate != nil && dateOnly(transaction.CreatedAt).Before(dateOnly(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && dateOnly(transaction.CreatedAt).After(dateOnly(*filter.EndDate)) {
			continue
		}
		matched = append(matched, transaction)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func (m *MockTransactionRepository) deleteByAccount(accountID string) {
	var remaining []domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.AccountID != accountID {
			remaining = append(remaining, transaction)
		}
	}
	m.Transactions = remaining
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
