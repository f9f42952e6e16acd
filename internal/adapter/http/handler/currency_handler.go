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

// CurrencyService defines the behavior needed by CurrencyHandler.
type CurrencyService interface {
	Create(ctx context.Context, userID int64, input usecase.CreateCurrencyInput) (*domain.Currency, error)
	Get(ctx context.Context, userID, id int64) (*domain.Currency, error)
	List(ctx context.Context, userID int64, input usecase.ListCurrenciesInput) ([]*domain.Currency, query.Paginator, error)
	Update(ctx context.Context, userID, id int64, input usecase.UpdateCurrencyInput) (*domain.Currency, error)
	Delete(ctx context.Context, userID, id int64) (*domain.Currency, error)
}

// CurrencyHandler handles currency-related HTTP requests.
type CurrencyHandler struct {
	currencyUC CurrencyService
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyUC CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyUC: currencyUC}
}

// Create creates a new currency.
func (h *CurrencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	currency, err := h.currencyUC.Create(r.Context(), userID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create currency", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CurrencyFromDomain(currency))
}

// Get retrieves a currency by id.
func (h *CurrencyHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currency id", err.Error())
		return
	}

	currency, err := h.currencyUC.Get(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to get currency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}

// List lists the user's currencies.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	input := usecase.ListCurrenciesInput{
		PerPage: parseIntQuery(r, "per_page", 20),
		Page:    parseIntQuery(r, "page", 1),
	}
	if filter := currencyFilter(r); filter != nil {
		input.Filter = filter
	}

	currencies, paginator, err := h.currencyUC.List(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, "failed to list currencies", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCurrenciesResponse{
		Currencies: dto.CurrenciesFromDomain(currencies),
		Paginator:  paginator,
	})
}

func currencyFilter(r *http.Request) *usecase.CurrencyFilterInput {
	filter := &usecase.CurrencyFilterInput{
		ID:           int64Query(r, "id"),
		Abbreviation: stringQuery(r, "abbreviation"),
		Symbol:       stringQuery(r, "symbol"),
		Name:         stringQuery(r, "name"),
	}
	if filter.ID == nil && filter.Abbreviation == nil && filter.Symbol == nil && filter.Name == nil {
		return nil
	}
	return filter
}

// Update patches a currency.
func (h *CurrencyHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currency id", err.Error())
		return
	}

	var req dto.UpdateCurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	currency, err := h.currencyUC.Update(r.Context(), userID, id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update currency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}

// Delete deletes a currency and returns its final snapshot.
func (h *CurrencyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid currency id", err.Error())
		return
	}

	currency, err := h.currencyUC.Delete(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to delete currency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CurrencyFromDomain(currency))
}
