package domain

import (
	"strings"
	"testing"

	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
	"github.com/stretchr/testify/assert"
)

func subtype(s string) *string {
	return &s
}

func TestValidate_RejectsNonPositiveAmounts(t *testing.T) {
	income := Transaction{Type: TypeIncome, Amount: 0}
	err := income.Validate()
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsValidationError(err))

	income.Amount = -10
	assert.Error(t, income.Validate())

	expense := Transaction{Type: TypeExpense, Amount: 0}
	assert.Error(t, expense.Validate())

	expense.Amount = -0.01
	assert.Error(t, expense.Validate())
}

func TestValidate_AcceptsPositiveAmountsForBothTypes(t *testing.T) {
	income := Transaction{Type: TypeIncome, Amount: 100.50}
	assert.NoError(t, income.Validate())

	expense := Transaction{Type: TypeExpense, Amount: 0.01}
	assert.NoError(t, expense.Validate())
}

func TestValidate_RejectsUnknownType(t *testing.T) {
	transaction := Transaction{Type: "TRANSFER", Amount: 10}
	err := transaction.Validate()
	assert.Error(t, err)
	assert.True(t, ledgerErrors.IsValidationError(err))
}

func TestValidate_Subtype(t *testing.T) {
	transaction := Transaction{Type: TypeIncome, Amount: 10, Subtype: subtype("BOLETO")}
	assert.NoError(t, transaction.Validate())

	transaction.Subtype = subtype("PIX")
	assert.Error(t, transaction.Validate())

	// nil subtype is allowed
	transaction.Subtype = nil
	assert.NoError(t, transaction.Validate())
}

func TestValidate_AllSubtypesAreAccepted(t *testing.T) {
	for _, s := range Subtypes {
		transaction := Transaction{Type: TypeExpense, Amount: 5, Subtype: subtype(s)}
		assert.NoError(t, transaction.Validate(), "subtype %s should be valid", s)
	}
	assert.Len(t, Subtypes, 11)
}

func TestValidate_TextFieldLengths(t *testing.T) {
	transaction := Transaction{Type: TypeIncome, Amount: 10, Description: strings.Repeat("a", 256)}
	assert.Error(t, transaction.Validate())

	transaction.Description = strings.Repeat("a", 255)
	assert.NoError(t, transaction.Validate())

	transaction.Document = strings.Repeat("b", 256)
	assert.Error(t, transaction.Validate())
}

func TestRoundToTwoDecimalPlaces(t *testing.T) {
	transaction := Transaction{Type: TypeIncome, Amount: 10.005}
	transaction.RoundToTwoDecimalPlaces()
	assert.Equal(t, 10.01, transaction.Amount)

	transaction.Amount = 10.004
	transaction.RoundToTwoDecimalPlaces()
	assert.Equal(t, 10.0, transaction.Amount)
}
