package application

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

const defaultPerPage = 10

// TransactionInput is a full replacement of a transaction's mutable fields.
// Partial updates are not supported: updates re-validate the whole input.
type TransactionInput struct {
	Type        string  `json:"type"`
	Subtype     *string `json:"subtype"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Document    string  `json:"document"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	NextPage    *int `json:"nextPage"`
	PrevPage    *int `json:"prevPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
}

type TransactionPage struct {
	Transactions []domain.Transaction `json:"transactions"`
	Pagination   Pagination           `json:"pagination"`
}

type SearchResult struct {
	Transactions []domain.Transaction `json:"transactions"`
	SearchTerm   string               `json:"searchTerm"`
	Total        int                  `json:"total"`
}

type TransactionService struct {
	accounts     domain.AccountRepository
	transactions domain.TransactionRepository
}

func NewTransactionService(accounts domain.AccountRepository, transactions domain.TransactionRepository) *TransactionService {
	return &TransactionService{accounts: accounts, transactions: transactions}
}

// AddTransaction validates and persists a new transaction for one of the
// user's accounts. On validation failure nothing is written.
func (s *TransactionService) AddTransaction(userID, accountID string, input TransactionInput) (*domain.Transaction, error) {
	account, err := s.accounts.FindByIDAndUser(accountID, userID)
	if err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Type:        input.Type,
		Subtype:     input.Subtype,
		Amount:      input.Amount,
		Description: input.Description,
		Document:    input.Document,
	}
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	if err := s.transactions.Save(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction resolves the transaction through its owning account and
// replaces type, subtype, amount, description and document after full
// re-validation.
func (s *TransactionService) UpdateTransaction(userID, transactionID string, input TransactionInput) (*domain.Transaction, error) {
	transaction, err := s.transactions.FindByIDAndUser(transactionID, userID)
	if err != nil {
		return nil, err
	}

	transaction.Type = input.Type
	transaction.Subtype = input.Subtype
	transaction.Amount = input.Amount
	transaction.Description = input.Description
	transaction.Document = input.Document
	transaction.RoundToTwoDecimalPlaces()
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	if err := s.transactions.Update(transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *TransactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.transactions.FindByIDAndUser(transactionID, userID)
	if err != nil {
		return err
	}
	return s.transactions.Delete(transaction.ID)
}

// ListTransactions returns one page of the account's transactions, newest
// first, with the pagination block the list endpoint exposes.
func (s *TransactionService) ListTransactions(userID, accountID string, filter domain.TransactionFilter, page, perPage int) (*TransactionPage, error) {
	account, err := s.accounts.FindByIDAndUser(accountID, userID)
	if err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	offset := (page - 1) * perPage
	transactions, total, err := s.transactions.ListByAccount(account.ID, filter, perPage, offset)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	return &TransactionPage{
		Transactions: transactions,
		Pagination:   buildPagination(page, perPage, total),
	}, nil
}

// SearchTransactions is the dedicated unpaginated search path. Terms under
// four characters are rejected; the term is upper-cased before matching
// because subtypes are stored upper-case.
func (s *TransactionService) SearchTransactions(userID, accountID, term string) (*SearchResult, error) {
	account, err := s.accounts.FindByIDAndUser(accountID, userID)
	if err != nil {
		return nil, err
	}

	if len(term) < domain.MinSearchTermLength {
		return nil, ledgerErrors.NewValidationError("q", "Search term must be at least 4 characters")
	}
	searchTerm := strings.ToUpper(term)

	transactions, err := s.transactions.SearchBySubtype(account.ID, searchTerm)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []domain.Transaction{}
	}

	return &SearchResult{
		Transactions: transactions,
		SearchTerm:   searchTerm,
		Total:        len(transactions),
	}, nil
}

func buildPagination(page, perPage, total int) Pagination {
	totalPages := (total + perPage - 1) / perPage

	pagination := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
	}
	if page > 1 {
		prev := page - 1
		pagination.PrevPage = &prev
	}
	if page < totalPages {
		next := page + 1
		pagination.NextPage = &next
	}
	return pagination
}
