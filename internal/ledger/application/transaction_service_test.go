package application

import (
	"testing"
	"time"

	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/sebuszqo/PocketLedger/internal/ledger/infrastructure"
	"github.com/stretchr/testify/assert"
)

func subtype(s string) *string {
	return &s
}

func seedTransaction(repo *infrastructure.MockTransactionRepository, id, accountID, transactionType string, sub *string, amount float64, createdAt time.Time) {
	repo.Transactions = append(repo.Transactions, domain.Transaction{
		ID:        id,
		AccountID: accountID,
		Type:      transactionType,
		Subtype:   sub,
		Amount:    amount,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
}

func TestAddTransaction_ZeroAmountCreatesNothing(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	_, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeExpense, Amount: 0})
	assert.True(t, ledgerErrors.IsValidationError(err))
	assert.Empty(t, transactionRepo.Transactions)

	balance, err := accountService.GetBalance("user-1", account.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, balance)
}

func TestAddTransaction_RoundsAmount(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	transaction, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeIncome, Amount: 10.999})
	assert.NoError(t, err)
	assert.Equal(t, 11.0, transaction.Amount)
}

func TestAddTransaction_UnknownAccountIsNotFound(t *testing.T) {
	_, transactionService, _, _ := newTestServices()

	_, err := transactionService.AddTransaction("user-1", "missing-account", TransactionInput{Type: domain.TypeIncome, Amount: 10})
	assert.ErrorIs(t, err, ledgerErrors.ErrAccountNotFound)
}

func TestUpdateTransaction_FullReplace(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	transaction, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{
		Type: domain.TypeIncome, Subtype: subtype("SALARIO"), Amount: 100, Description: "salary",
	})
	assert.NoError(t, err)

	updated, err := transactionService.UpdateTransaction("user-1", transaction.ID, TransactionInput{
		Type: domain.TypeExpense, Amount: 40,
	})
	assert.NoError(t, err)
	assert.Equal(t, domain.TypeExpense, updated.Type)
	assert.Equal(t, 40.0, updated.Amount)
	assert.Nil(t, updated.Subtype)
	assert.Empty(t, updated.Description)

	balance, err := accountService.GetBalance("user-1", account.ID)
	assert.NoError(t, err)
	assert.Equal(t, -40.0, balance)
}

func TestUpdateTransaction_InvalidInputLeavesRecordUnchanged(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	transaction, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeIncome, Amount: 100})
	assert.NoError(t, err)

	_, err = transactionService.UpdateTransaction("user-1", transaction.ID, TransactionInput{Type: domain.TypeIncome, Amount: -1})
	assert.True(t, ledgerErrors.IsValidationError(err))

	balance, err := accountService.GetBalance("user-1", account.ID)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, balance)
}

func TestUpdateTransaction_OtherUsersTransactionIsNotFound(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	transaction, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeIncome, Amount: 100})
	assert.NoError(t, err)

	_, err = transactionService.UpdateTransaction("user-2", transaction.ID, TransactionInput{Type: domain.TypeIncome, Amount: 1})
	assert.ErrorIs(t, err, ledgerErrors.ErrTransactionNotFound)

	balance, err := accountService.GetBalance("user-1", account.ID)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, balance)
}

func TestDeleteTransaction_ThenUpdateIsNotFound(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	transaction, err := transactionService.AddTransaction("user-1", account.ID, TransactionInput{Type: domain.TypeExpense, Amount: 5})
	assert.NoError(t, err)

	assert.NoError(t, transactionService.DeleteTransaction("user-1", transaction.ID))

	_, err = transactionService.UpdateTransaction("user-1", transaction.ID, TransactionInput{Type: domain.TypeExpense, Amount: 10})
	assert.ErrorIs(t, err, ledgerErrors.ErrTransactionNotFound)

	err = transactionService.DeleteTransaction("user-1", transaction.ID)
	assert.ErrorIs(t, err, ledgerErrors.ErrTransactionNotFound)
}

func TestListTransactions_NewestFirstAndSubtypeFilter(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	base := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	seedTransaction(transactionRepo, "t1", account.ID, domain.TypeExpense, subtype("BOLETO"), 10, base)
	seedTransaction(transactionRepo, "t2", account.ID, domain.TypeIncome, subtype("SALARIO"), 100, base.Add(24*time.Hour))
	seedTransaction(transactionRepo, "t3", account.ID, domain.TypeExpense, subtype("BOLETO"), 20, base.Add(48*time.Hour))

	page, err := transactionService.ListTransactions("user-1", account.ID, domain.TransactionFilter{Subtype: "BOLETO"}, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, page.Transactions, 2)
	assert.Equal(t, "t3", page.Transactions[0].ID)
	assert.Equal(t, "t1", page.Transactions[1].ID)
	assert.Equal(t, 2, page.Pagination.TotalItems)
}

func TestListTransactions_DateRangeFilterIsInclusive(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	seedTransaction(transactionRepo, "t1", account.ID, domain.TypeIncome, nil, 1, time.Date(2025, time.March, 1, 23, 30, 0, 0, time.UTC))
	seedTransaction(transactionRepo, "t2", account.ID, domain.TypeIncome, nil, 1, time.Date(2025, time.March, 2, 0, 0, 1, 0, time.UTC))
	seedTransaction(transactionRepo, "t3", account.ID, domain.TypeIncome, nil, 1, time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC))

	start := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)
	page, err := transactionService.ListTransactions("user-1", account.ID, domain.TransactionFilter{StartDate: &start, EndDate: &end}, 1, 10)
	assert.NoError(t, err)
	// date-only granularity: both March 1st and March 2nd rows match
	assert.Len(t, page.Transactions, 2)
}

func TestListTransactions_PaginationMath(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedTransaction(transactionRepo, string(rune('a'+i)), account.ID, domain.TypeIncome, nil, 1, base.Add(time.Duration(i)*time.Hour))
	}

	page, err := transactionService.ListTransactions("user-1", account.ID, domain.TransactionFilter{}, 1, 10)
	assert.NoError(t, err)
	assert.Len(t, page.Transactions, 10)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.Equal(t, 25, page.Pagination.TotalItems)
	assert.Nil(t, page.Pagination.PrevPage)
	assert.NotNil(t, page.Pagination.NextPage)
	assert.Equal(t, 2, *page.Pagination.NextPage)

	lastPage, err := transactionService.ListTransactions("user-1", account.ID, domain.TransactionFilter{}, 3, 10)
	assert.NoError(t, err)
	assert.Len(t, lastPage.Transactions, 5)
	assert.Nil(t, lastPage.Pagination.NextPage)
	assert.NotNil(t, lastPage.Pagination.PrevPage)
	assert.Equal(t, 2, *lastPage.Pagination.PrevPage)
}

func TestListTransactions_PageBeyondEndIsEmpty(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	seedTransaction(transactionRepo, "t1", account.ID, domain.TypeIncome, nil, 1, time.Now())

	page, err := transactionService.ListTransactions("user-1", account.ID, domain.TransactionFilter{}, 5, 10)
	assert.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.Equal(t, 1, page.Pagination.TotalItems)
	assert.Nil(t, page.Pagination.NextPage)
}

func TestListTransactions_DefaultsPageAndPerPage(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		seedTransaction(transactionRepo, string(rune('a'+i)), account.ID, domain.TypeIncome, nil, 1, base.Add(time.Duration(i)*time.Hour))
	}

	page, err := transactionService.ListTransactions("user-1", account.ID, domain.TransactionFilter{}, 0, 0)
	assert.NoError(t, err)
	assert.Len(t, page.Transactions, 10)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestSearchTransactions_RejectsShortTerms(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	_, err := transactionService.SearchTransactions("user-1", account.ID, "bol")
	assert.True(t, ledgerErrors.IsValidationError(err))
}

func TestSearchTransactions_MatchesUppercasedSubstring(t *testing.T) {
	accountService, transactionService, _, transactionRepo := newTestServices()
	account := createTestAccount(t, accountService, transactionRepo, "user-1", "alice")

	base := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	seedTransaction(transactionRepo, "t1", account.ID, domain.TypeExpense, subtype("BOLETO"), 10, base)
	seedTransaction(transactionRepo, "t2", account.ID, domain.TypeIncome, subtype("TRANSFERENCIA"), 100, base.Add(time.Hour))
	seedTransaction(transactionRepo, "t3", account.ID, domain.TypeExpense, subtype("TRANSPORTE"), 20, base.Add(2*time.Hour))
	seedTransaction(transactionRepo, "t4", account.ID, domain.TypeExpense, nil, 20, base.Add(3*time.Hour))

	result, err := transactionService.SearchTransactions("user-1", account.ID, "trans")
	assert.NoError(t, err)
	assert.Equal(t, "TRANS", result.SearchTerm)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, "t3", result.Transactions[0].ID)
	assert.Equal(t, "t2", result.Transactions[1].ID)
}

func TestSearchTransactions_UnknownAccountIsNotFound(t *testing.T) {
	_, transactionService, _, _ := newTestServices()

	_, err := transactionService.SearchTransactions("user-1", "missing", "boleto")
	assert.ErrorIs(t, err, ledgerErrors.ErrAccountNotFound)
}
