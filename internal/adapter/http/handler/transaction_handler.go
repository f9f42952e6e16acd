package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/thriftease/api/internal/adapter/http/dto"
	"github.com/thriftease/api/internal/adapter/http/middleware"
	"github.com/thriftease/api/internal/query"
	"github.com/thriftease/api/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	Create(ctx context.Context, userID int64, input usecase.CreateTransactionInput) (*usecase.TransactionView, error)
	Get(ctx context.Context, userID, id int64) (*usecase.TransactionView, error)
	List(ctx context.Context, userID int64, input usecase.ListTransactionsInput) ([]*usecase.TransactionView, query.Paginator, error)
	Update(ctx context.Context, userID, id int64, input usecase.UpdateTransactionInput) (*usecase.TransactionView, error)
	Delete(ctx context.Context, userID, id int64) (*usecase.TransactionView, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// Create creates a new transaction, tags included.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	view, err := h.transactionUC.Create(r.Context(), userID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromView(view))
}

// Get retrieves a transaction by id, balances included.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	view, err := h.transactionUC.Get(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromView(view))
}

// List lists the user's transactions, filtered, ordered, and paginated.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	input := usecase.ListTransactionsInput{
		Order:   orderKeys(r),
		PerPage: parseIntQuery(r, "per_page", 20),
		Page:    parseIntQuery(r, "page", 1),
	}
	if filter := transactionFilter(r); filter != nil {
		input.Filter = filter
	}

	views, paginator, err := h.transactionUC.List(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromViews(views),
		Paginator:    paginator,
	})
}

func transactionFilter(r *http.Request) *usecase.TransactionFilterInput {
	filter := &usecase.TransactionFilterInput{
		ID:           int64Query(r, "id"),
		AccountID:    int64Query(r, "account_id"),
		Amount:       decimalQuery(r, "amount"),
		Name:         stringQuery(r, "name"),
		Description:  stringQuery(r, "description"),
		DateTimeFrom: timeQuery(r, "from"),
		DateTimeTo:   timeQuery(r, "to"),
	}
	if filter.ID == nil && filter.AccountID == nil && filter.Amount == nil &&
		filter.Name == nil && filter.Description == nil &&
		filter.DateTimeFrom == nil && filter.DateTimeTo == nil {
		return nil
	}
	return filter
}

func orderKeys(r *http.Request) []usecase.TransactionOrderKey {
	raw := r.URL.Query().Get("order")
	if raw == "" {
		return nil
	}

	var keys []usecase.TransactionOrderKey
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keys = append(keys, usecase.TransactionOrderKey(strings.ToUpper(part)))
	}
	return keys
}

// Update patches a transaction, applying tag removals before additions.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	view, err := h.transactionUC.Update(r.Context(), userID, id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromView(view))
}

// Delete deletes a transaction and returns its final snapshot, balances as
// they stood before the deletion.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	view, err := h.transactionUC.Delete(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to delete transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromView(view))
}
