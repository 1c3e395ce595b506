package interfaces

import (
	"github.com/sebuszqo/PocketLedger/internal/ledger/application"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
)

type MockTransactionService struct {
	AddTransactionFunc     func(userID, accountID string, input application.TransactionInput) (*domain.Transaction, error)
	UpdateTransactionFunc  func(userID, transactionID string, input application.TransactionInput) (*domain.Transaction, error)
	DeleteTransactionFunc  func(userID, transactionID string) error
	ListTransactionsFunc   func(userID, accountID string, filter domain.TransactionFilter, page, perPage int) (*application.TransactionPage, error)
	SearchTransactionsFunc func(userID, accountID, term string) (*application.SearchResult, error)
}

func (m *MockTransactionService) AddTransaction(userID, accountID string, input application.TransactionInput) (*domain.Transaction, error) {
	return m.AddTransactionFunc(userID, accountID, input)
}

func (m *MockTransactionService) UpdateTransaction(userID, transactionID string, input application.TransactionInput) (*domain.Transaction, error) {
	return m.UpdateTransactionFunc(userID, transactionID, input)
}

func (m *MockTransactionService) DeleteTransaction(userID, transactionID string) error {
	return m.DeleteTransactionFunc(userID, transactionID)
}

func (m *MockTransactionService) ListTransactions(userID, accountID string, filter domain.TransactionFilter, page, perPage int) (*application.TransactionPage, error) {
	return m.ListTransactionsFunc(userID, accountID, filter, page, perPage)
}

func (m *MockTransactionService) SearchTransactions(userID, accountID, term string) (*application.SearchResult, error) {
	return m.SearchTransactionsFunc(userID, accountID, term)
}
