package domain

import (
	"math"
	"time"

	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

const maxTextFieldLength = 255

// MinSearchTermLength is the shortest subtype search term the system accepts.
const MinSearchTermLength = 4

// Subtypes is the closed set of transaction categories. The set is
// append-only: new values are added here and in the transactions table
// check constraint, never free-form.
var Subtypes = []string{
	"DOC_TED",
	"BOLETO",
	"CAMBIO",
	"EMPRESTIMO",
	"DEPOSITO",
	"TRANSFERENCIA",
	"RESTAURANTE",
	"TRANSPORTE",
	"SALARIO",
	"REEMBOLSO",
	"CASHBACK",
}

func IsValidTransactionType(transactionType string) bool {
	return transactionType == TypeIncome || transactionType == TypeExpense
}

func IsValidSubtype(subtype string) bool {
	for _, s := range Subtypes {
		if s == subtype {
			return true
		}
	}
	return false
}

type Transaction struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Type        string    `json:"type"`
	Subtype     *string   `json:"subtype"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	Document    string    `json:"document,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Transaction) RoundToTwoDecimalPlaces() {
	t.Amount = math.Round(t.Amount*100) / 100
}

// Validate enforces the business rules before any persistence happens.
// The amount rule is applied to both types on purpose: expenses may drive
// the balance negative, but a non-positive amount is never a valid movement.
func (t *Transaction) Validate() error {
	if !IsValidTransactionType(t.Type) {
		return ledgerErrors.NewValidationError("type", "Type must be 'INCOME' or 'EXPENSE'")
	}
	if t.Type == TypeIncome && t.Amount <= 0 {
		return ledgerErrors.NewValidationError("amount", "Income amount must be greater than zero")
	}
	if t.Type == TypeExpense && t.Amount <= 0 {
		return ledgerErrors.NewValidationError("amount", "Expense amount must be greater than zero")
	}
	if t.Subtype != nil && !IsValidSubtype(*t.Subtype) {
		return ledgerErrors.NewValidationError("subtype", "Subtype is not a known transaction subtype")
	}
	if len(t.Description) > maxTextFieldLength {
		return ledgerErrors.NewValidationError("description", "Description must be at most 255 characters")
	}
	if len(t.Document) > maxTextFieldLength {
		return ledgerErrors.NewValidationError("document", "Document must be at most 255 characters")
	}
	return nil
}

// TransactionFilter narrows a transaction listing. All fields are optional
// and combined with AND. Search shorter than the minimum is ignored by the
// repository layer.
type TransactionFilter struct {
	Type      string
	Subtype   string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

type TransactionRepository interface {
	Save(transaction *Transaction) error
	Update(transaction *Transaction) error
	Delete(transactionID string) error
	FindByIDAndUser(transactionID, userID string) (*Transaction, error)
	ListByAccount(accountID string, filter TransactionFilter, limit, offset int) ([]Transaction, int, error)
	SearchBySubtype(accountID, term string) ([]Transaction, error)
}
