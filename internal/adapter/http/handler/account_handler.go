package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/thriftease/api/internal/adapter/http/dto"
	"github.com/thriftease/api/internal/adapter/http/middleware"
	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/query"
	"github.com/thriftease/api/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	Create(ctx context.Context, userID int64, input usecase.CreateAccountInput) (*domain.Account, error)
	Get(ctx context.Context, userID, id int64) (*usecase.AccountView, error)
	Exists(ctx context.Context, userID, currencyID int64, name string) (bool, error)
	List(ctx context.Context, userID int64, input usecase.ListAccountsInput) ([]*usecase.AccountView, query.Paginator, error)
	Update(ctx context.Context, userID, id int64, input usecase.UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, userID, id int64) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.Create(r.Context(), userID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by id, balances included.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id", err.Error())
		return
	}

	view, err := h.accountUC.Get(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromView(view))
}

// Balance returns the derived balances of an account.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id", err.Error())
		return
	}

	view, err := h.accountUC.Get(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to get account balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(&view.Balances))
}

// Exists reports whether the user already has an account with the given name
// under a currency.
func (h *AccountHandler) Exists(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	currencyID := int64Query(r, "currency_id")
	name := stringQuery(r, "name")
	if currencyID == nil || name == nil {
		writeError(w, http.StatusBadRequest, "currency_id and name are required", "")
		return
	}

	exists, err := h.accountUC.Exists(r.Context(), userID, *currencyID, *name)
	if err != nil {
		writeDomainError(w, "failed to check account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// List lists the user's accounts with balances.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	input := usecase.ListAccountsInput{
		PerPage: parseIntQuery(r, "per_page", 20),
		Page:    parseIntQuery(r, "page", 1),
	}
	if filter := accountFilter(r); filter != nil {
		input.Filter = filter
	}

	views, paginator, err := h.accountUC.List(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts:  dto.AccountsFromViews(views),
		Paginator: paginator,
	})
}

func accountFilter(r *http.Request) *usecase.AccountFilterInput {
	filter := &usecase.AccountFilterInput{
		ID:         int64Query(r, "id"),
		CurrencyID: int64Query(r, "currency_id"),
		Name:       stringQuery(r, "name"),
	}
	if filter.ID == nil && filter.CurrencyID == nil && filter.Name == nil {
		return nil
	}
	return filter
}

// Update patches an account.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id", err.Error())
		return
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.Update(r.Context(), userID, id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete deletes an account and returns its final snapshot.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id", err.Error())
		return
	}

	account, err := h.accountUC.Delete(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to delete account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
