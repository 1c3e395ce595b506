package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Save(transaction *domain.Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transactions (id, account_id, type, subtype, amount, description, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(query,
		transaction.ID, transaction.AccountID, transaction.Type, transaction.Subtype,
		transaction.Amount, transaction.Description, transaction.Document,
	).Scan(&transaction.CreatedAt, &transaction.UpdatedAt)
	if err != nil {
		return fmt.Errorf("could not create transaction: %v", err)
	}
	return tx.Commit()
}

func (r *TransactionRepository) Update(transaction *domain.Transaction) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE transactions
		SET type = $1, subtype = $2, amount = $3, description = $4, document = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err = tx.QueryRow(query,
		transaction.Type, transaction.Subtype, transaction.Amount,
		transaction.Description, transaction.Document, transaction.ID,
	).Scan(&transaction.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ledgerErrors.ErrTransactionNotFound
		}
		return fmt.Errorf("could not update transaction: %v", err)
	}
	return tx.Commit()
}

func (r *TransactionRepository) Delete(transactionID string) error {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return fmt.Errorf("could not delete transaction: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ledgerErrors.ErrTransactionNotFound
	}
	return nil
}

// FindByIDAndUser resolves a transaction through its owning account. A bare
// transaction id is never trusted: when the account belongs to someone else
// the result is the same not-found as for a missing row.
func (r *TransactionRepository) FindByIDAndUser(transactionID, userID string) (*domain.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.type, t.subtype, t.amount, t.description, t.document, t.created_at, t.updated_at
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1 AND a.user_id = $2
	`
	row := r.db.QueryRow(query, transactionID, userID)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledgerErrors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("could not find transaction: %v", err)
	}
	return transaction, nil
}

// ListByAccount returns one page of the filtered listing plus the total
// match count. Ordering is newest first with id as tiebreaker so pages are
// stable across requests.
func (r *TransactionRepository) ListByAccount(accountID string, filter domain.TransactionFilter, limit, offset int) ([]domain.Transaction, int, error) {
	conditions := []string{"account_id = $1"}
	args := []interface{}{accountID}

	addCondition := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Type != "" {
		addCondition("type = $%d", filter.Type)
	}
	if filter.Subtype != "" {
		addCondition("subtype = $%d", filter.Subtype)
	}
	if len(filter.Search) >= domain.MinSearchTermLength {
		addCondition("subtype LIKE $%d", "%"+strings.ToUpper(filter.Search)+"%")
	}
	if filter.StartDate != nil {
		addCondition("created_at::date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCondition("created_at::date <= $%d::date", *filter.EndDate)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("could not count transactions: %v", err)
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`
		SELECT id, account_id, type, subtype, amount, description, document, created_at, updated_at
		FROM transactions
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.Query(listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("could not list transactions: %v", err)
	}
	defer rows.Close()

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

func (r *TransactionRepository) SearchBySubtype(accountID, term string) ([]domain.Transaction, error) {
	query := `
		SELECT id, account_id, type, subtype, amount, description, document, created_at, updated_at
		FROM transactions
		WHERE account_id = $1 AND subtype LIKE $2
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(query, accountID, "%"+strings.ToUpper(term)+"%")
	if err != nil {
		return nil, fmt.Errorf("could not search transactions: %v", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var subtype sql.NullString
	err := row.Scan(
		&transaction.ID, &transaction.AccountID, &transaction.Type, &subtype,
		&transaction.Amount, &transaction.Description, &transaction.Document,
		&transaction.CreatedAt, &transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if subtype.Valid {
		transaction.Subtype = &subtype.String
	}
	return &transaction, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *transaction)
	}
	return transactions, rows.Err()
}
