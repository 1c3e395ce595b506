package interfaces

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/sebuszqo/PocketLedger/internal/ledger/application"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type AccountServiceInterface interface {
	CreateAccount(userID, name string) (*domain.Account, error)
	GetAccount(userID, accountID string) (*domain.Account, error)
	ListAccounts(userID string) ([]application.AccountSummary, error)
	UpdateAccount(userID, accountID, name string) (*domain.Account, error)
	DeleteAccount(userID, accountID string) error
	GetBalance(userID, accountID string) (float64, error)
}

type AccountHandler struct {
	service      AccountServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewAccountHandler(
	service AccountServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *AccountHandler {
	if service == nil {
		log.Fatal("Service must not be nil")
		return nil
	}
	return &AccountHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type accountRequest struct {
	Name string `json:"name"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *AccountHandler) accountWithBalance(userID string, account *domain.Account) (*accountResponse, error) {
	balance, err := h.service.GetBalance(userID, account.ID)
	if err != nil {
		return nil, err
	}
	return &accountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   balance,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}, nil
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accounts, err := h.service.ListAccounts(userID)
	if err != nil {
		log.Println("Error listing accounts:", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to list accounts")
		return
	}
	h.respondJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.service.CreateAccount(userID, req.Name)
	if err != nil {
		h.handleError(w, err, "Failed to create account")
		return
	}
	h.respondJSON(w, http.StatusCreated, &accountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Balance:   0,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	})
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := h.service.GetAccount(userID, r.PathValue("accountID"))
	if err != nil {
		h.handleError(w, err, "Failed to get account")
		return
	}
	response, err := h.accountWithBalance(userID, account)
	if err != nil {
		h.handleError(w, err, "Failed to get account")
		return
	}
	h.respondJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.service.UpdateAccount(userID, r.PathValue("accountID"), req.Name)
	if err != nil {
		h.handleError(w, err, "Failed to update account")
		return
	}
	response, err := h.accountWithBalance(userID, account)
	if err != nil {
		h.handleError(w, err, "Failed to update account")
		return
	}
	h.respondJSON(w, http.StatusOK, response)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DeleteAccount(userID, r.PathValue("accountID")); err != nil {
		h.handleError(w, err, "Failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) handleError(w http.ResponseWriter, err error, fallback string) {
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
