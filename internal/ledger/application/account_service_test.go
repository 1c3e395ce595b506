package application

import (
	"testing"

	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/sebuszqo/PocketLedger/internal/ledger/infrastructure"
	"github.com/stretchr/testify/assert"
)

func newTestServices() (*AccountService, *TransactionService, *infrastructure.MockAccountRepository, *infrastructure.MockTransactionRepository) {
	transactionRepo := &infrastructure.MockTransactionRepository{}
	accountRepo := &infrastructure.MockAccountRepository{Transactions: transactionRepo}
	return NewAccountService(accountRepo), NewTransactionService(accountRepo, transactionRepo), accountRepo, transactionRepo
}

func createTestAccount(t *testing.T, service *AccountService, transactionRepo *infrastructure.MockTransactionRepository, userID, name string) *domain.Account {
	t.Helper()
	account, err := service.CreateAccount(userID, name)
	assert.NoError(t, err)
	// transaction mock resolves ownership through its own account list
	transactionRepo.Accounts = append(transactionRepo.Accounts, *account)
	return account
}

func TestCreateAccount_LowercasesName(t *testing.T) {
	accountService, _, _, transactionRepo := newTestServices()

	account := createTestAccount(t, accountService, transactionRepo, "user-1", "Alice Savings")
	assert.Equal(t, "alice savings", account.Name)
	assert.NotEmpty(t, account.ID)
}

func TestCreateAccount_RequiresName(t *testing.T) {
	accountService, _, _, _ := newTestServices()

	_, err := accountService.CreateAccount("user-1", "   ")
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsValidationError(err))
}

func TestGetBalance_IncomeMinusExpense(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	_, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeIncome, Amount: 100})
	assert.NoError(t, err)
	_, err = transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeExpense, Amount: 30})
	assert.NoError(t, err)

	balance, err := accountService.GetBalance("user-1", account.ID)
	assert.NoError(t, err)
	assert.Equal(t, 70.0, balance)
}

func TestGetBalance_EmptyAccountIsZero(t *testing.T) {
	accountService, _, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "empty")

	balance, err := accountService.GetBalance("user-1", account.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestGetBalance_CanGoNegative(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "overdrawn")

	_, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeExpense, Amount: 50})
	assert.NoError(t, err)

	balance, err := accountService.GetBalance("user-1", account.ID)
	assert.NoError(t, err)
	assert.Equal(t, -50.0, balance)
}

func TestGetAccount_OtherUsersAccountIsNotFound(t *testing.T) {
	accountService, _, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	_, err := accountService.GetAccount("user-2", account.ID)
	assert.ErrorIs(t, err, ledgerErrors.ErrAccountNotFound)

	balance, err := accountService.GetBalance("user-2", account.ID)
	assert.ErrorIs(t, err, ledgerErrors.ErrAccountNotFound)
	assert.Equal(t, 0.0, balance)
}

func TestListAccounts_IncludesBalanceAndCount(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")
	createTestAccount(t, accountService, transactionRepo, "user-2", "bob")

	_, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeIncome, Amount: 10})
	assert.NoError(t, err)
	_, err = transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeIncome, Amount: 5})
	assert.NoError(t, err)

	summaries, err := accountService.ListAccounts("user-1")
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "alice", summaries[0].Name)
	assert.Equal(t, 15.0, summaries[0].Balance)
	assert.Equal(t, 2, summaries[0].TransactionsCount)
}

func TestDeleteAccount_CascadesToTransactions(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	transaction, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeIncome, Amount: 10})
	assert.NoError(t, err)

	assert.NoError(t, accountService.DeleteAccount("user-1", account.ID))
	assert.Empty(t, transactionRepo.Transactions)

	_, err = transactionService.UpdateTransaction("user-1", transaction.ID, TransactionInput{Type: domain.TypeIncome, Amount: 20})
	assert.ErrorIs(t, err, ledgerErrors.ErrTransactionNotFound)
}

func TestUpdateAccount_LowercasesName(t *testing.T) {
	accountService, _, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	updated, err := accountService.UpdateAccount("user-1", account.ID, "Main Wallet")
	assert.NoError(t, err)
	assert.Equal(t, "main wallet", updated.Name)
}
