package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thriftease/api/internal/adapter/http/dto"
	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/query"
	"github.com/thriftease/api/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, userID int64, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, userID, id int64) (*usecase.AccountView, error)
	existsFn func(ctx context.Context, userID, currencyID int64, name string) (bool, error)
	listFn   func(ctx context.Context, userID int64, input usecase.ListAccountsInput) ([]*usecase.AccountView, query.Paginator, error)
	updateFn func(ctx context.Context, userID, id int64, input usecase.UpdateAccountInput) (*domain.Account, error)
	deleteFn func(ctx context.Context, userID, id int64) (*domain.Account, error)
}

func (s *accountServiceStub) Create(ctx context.Context, userID int64, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, userID, input)
}

func (s *accountServiceStub) Get(ctx context.Context, userID, id int64) (*usecase.AccountView, error) {
	return s.getFn(ctx, userID, id)
}

func (s *accountServiceStub) Exists(ctx context.Context, userID, currencyID int64, name string) (bool, error) {
	return s.existsFn(ctx, userID, currencyID, name)
}

func (s *accountServiceStub) List(ctx context.Context, userID int64, input usecase.ListAccountsInput) ([]*usecase.AccountView, query.Paginator, error) {
	return s.listFn(ctx, userID, input)
}

func (s *accountServiceStub) Update(ctx context.Context, userID, id int64, input usecase.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, userID, id, input)
}

func (s *accountServiceStub) Delete(ctx context.Context, userID, id int64) (*domain.Account, error) {
	return s.deleteFn(ctx, userID, id)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput

	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, userID int64, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: 1, CurrencyID: input.CurrencyID, Name: input.Name}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{CurrencyID: 2, Name: "wallet"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.CurrencyID != 2 || captured.Name != "wallet" {
		t.Fatalf("expected input to match request, got %+v", captured)
	}
}

func TestAccountHandler_Create_DuplicateName(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, userID int64, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, fmt.Errorf("%w: accounts_currency_id_name_key", domain.ErrConstraintViolation)
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{CurrencyID: 2, Name: "wallet"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_IncludesBalances(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, userID, id int64) (*usecase.AccountView, error) {
			return &usecase.AccountView{
				Account: &domain.Account{ID: id, CurrencyID: 2, Name: "wallet"},
				Balances: domain.AccountBalances{
					Balance:       decimal.RequireFromString("70"),
					FutureBalance: decimal.RequireFromString("120"),
				},
			}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/accounts/1", nil), 7)
	req = withURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Balance != "70.00" || resp.FutureBalance != "120.00" {
		t.Fatalf("unexpected balances: %+v", resp)
	}
}

func TestAccountHandler_Balance(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, userID, id int64) (*usecase.AccountView, error) {
			return &usecase.AccountView{
				Account: &domain.Account{ID: id, CurrencyID: 2, Name: "wallet"},
				Balances: domain.AccountBalances{
					Balance:       decimal.RequireFromString("-10.50"),
					FutureBalance: decimal.RequireFromString("0"),
				},
			}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/accounts/1/balance", nil), 7)
	req = withURLParam(req, "id", "1")
	rec := httptest.NewRecorder()

	handler.Balance(rec, req)

	var resp dto.BalancesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Balance != "-10.50" || resp.FutureBalance != "0.00" {
		t.Fatalf("unexpected balances: %+v", resp)
	}
}

func TestAccountHandler_Exists(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		existsFn: func(ctx context.Context, userID, currencyID int64, name string) (bool, error) {
			return currencyID == 2 && name == "wallet", nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/accounts/exists?currency_id=2&name=wallet", nil), 7)
	rec := httptest.NewRecorder()

	handler.Exists(rec, req)

	var resp dto.ExistsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Exists {
		t.Fatal("expected exists true")
	}
}

func TestAccountHandler_Exists_MissingParams(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		existsFn: func(ctx context.Context, userID, currencyID int64, name string) (bool, error) {
			t.Fatal("Exists should not be called")
			return false, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/accounts/exists?name=wallet", nil), 7)
	rec := httptest.NewRecorder()

	handler.Exists(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_Get_NotFound(t *testing.T) {
	handler := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, userID, id int64) (*usecase.AccountView, error) {
			return nil, domain.ErrAccountNotFound
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/accounts/404", nil), 7)
	req = withURLParam(req, "id", "404")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
