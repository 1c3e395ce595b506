package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sebuszqo/PocketLedger/internal/ledger/application"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type TransactionServiceInterface interface {
	AddTransaction(userID, accountID string, input application.TransactionInput) (*domain.Transaction, error)
	UpdateTransaction(userID, transactionID string, input application.TransactionInput) (*domain.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	ListTransactions(userID, accountID string, filter domain.TransactionFilter, page, perPage int) (*application.TransactionPage, error)
	SearchTransactions(userID, accountID, term string) (*application.SearchResult, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *TransactionHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// ListTransactions handles GET /accounts/{accountID}/transactions with
// optional per_page, page, type, subtype, search, start_date and end_date
// query parameters.
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, "Invalid page parameter")
			return
		}
		page = parsed
	}

	perPage := 10
	if raw := query.Get("per_page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, "Invalid per_page parameter")
			return
		}
		perPage = parsed
	}

	if transactionType := query.Get("type"); transactionType != "" && !domain.IsValidTransactionType(transactionType) {
		h.respondError(w, http.StatusBadRequest, "Invalid transaction type")
		return
	}

	filter := domain.TransactionFilter{
		Type:    query.Get("type"),
		Subtype: query.Get("subtype"),
		Search:  query.Get("search"),
	}

	if raw := query.Get("start_date"); raw != "" {
		startDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid start date format")
			return
		}
		filter.StartDate = &startDate
	}
	if raw := query.Get("end_date"); raw != "" {
		endDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "Invalid end date format")
			return
		}
		filter.EndDate = &endDate
	}

	result, err := h.service.ListTransactions(userID, r.PathValue("accountID"), filter, page, perPage)
	if err != nil {
		h.handleError(w, err, "Failed to list transactions")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

// SearchTransactions handles GET /accounts/{accountID}/transactions/search?q=
// and rejects terms shorter than four characters.
func (h *TransactionHandler) SearchTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.service.SearchTransactions(userID, r.PathValue("accountID"), r.URL.Query().Get("q"))
	if err != nil {
		h.handleError(w, err, "Failed to search transactions")
		return
	}
	h.respondJSON(w, http.StatusOK, result)
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input application.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.AddTransaction(userID, r.PathValue("accountID"), input)
	if err != nil {
		h.handleError(w, err, "Failed to create transaction")
		return
	}
	h.respondJSON(w, http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input application.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.service.UpdateTransaction(userID, r.PathValue("transactionID"), input)
	if err != nil {
		h.handleError(w, err, "Failed to update transaction")
		return
	}
	h.respondJSON(w, http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteTransaction(userID, r.PathValue("transactionID")); err != nil {
		h.handleError(w, err, "Failed to delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionHandler) handleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case ledgerErrors.IsValidationError(err):
		respondValidationError(w, h.respondJSON, err)
	case ledgerErrors.IsNotFound(err):
		h.respondError(w, http.StatusNotFound, err.Error())
	default:
		log.Println(fallback+":", err)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}

// respondValidationError renders a field-keyed error map the way the API
// reports rule violations: {"errors": {"amount": ["..."]}} with status 422.
func respondValidationError(w http.ResponseWriter, respondJSON func(w http.ResponseWriter, status int, payload interface{}), err error) {
	payload := map[string]interface{}{
		"errors": map[string][]string{},
	}
	var validationError *ledgerErrors.ValidationError
	if errors.As(err, &validationError) {
		payload["errors"] = map[string][]string{
			validationError.Field: {validationError.Msg},
		}
	}
	respondJSON(w, http.StatusUnprocessableEntity, payload)
}
