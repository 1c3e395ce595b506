package application

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

// AccountSummary is an account with its derived balance. The balance is
// recomputed on every read, it is never stored or cached.
type AccountSummary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Balance           float64   `json:"balance"`
	TransactionsCount int       `json:"transactions_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type AccountService struct {
	repo domain.AccountRepository
}

func NewAccountService(repo domain.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) CreateAccount(userID, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ledgerErrors.NewValidationError("name", "Name is required")
	}
	account := &domain.Account{
		ID:     uuid.NewString(),
		Name:   strings.ToLower(name),
		UserID: userID,
	}
	if err := s.repo.Save(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) GetAccount(userID, accountID string) (*domain.Account, error) {
	return s.repo.FindByIDAndUser(accountID, userID)
}

func (s *AccountService) ListAccounts(userID string) ([]AccountSummary, error) {
	accounts, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summary, err := s.summarize(account)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *AccountService) UpdateAccount(userID, accountID, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ledgerErrors.NewValidationError("name", "Name is required")
	}
	account, err := s.repo.FindByIDAndUser(accountID, userID)
	if err != nil {
		return nil, err
	}
	account.Name = strings.ToLower(name)
	if err := s.repo.Update(account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) DeleteAccount(userID, accountID string) error {
	account, err := s.repo.FindByIDAndUser(accountID, userID)
	if err != nil {
		return err
	}
	return s.repo.Delete(account.ID)
}

// GetBalance computes income minus expense over the account's transactions,
// fresh on every call.
func (s *AccountService) GetBalance(userID, accountID string) (float64, error) {
	account, err := s.repo.FindByIDAndUser(accountID, userID)
	if err != nil {
		return 0, err
	}
	return s.repo.Balance(account.ID)
}

func (s *AccountService) summarize(account domain.Account) (AccountSummary, error) {
	balance, err := s.repo.Balance(account.ID)
	if err != nil {
		return AccountSummary{}, err
	}
	count, err := s.repo.CountTransactions(account.ID)
	if err != nil {
		return AccountSummary{}, err
	}
	return AccountSummary{
		ID:                account.ID,
		Name:              account.Name,
		Balance:           balance,
		TransactionsCount: count,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}, nil
}
