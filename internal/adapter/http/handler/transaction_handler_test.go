package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thriftease/api/internal/adapter/http/dto"
	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/query"
	"github.com/thriftease/api/internal/usecase"
)

type transactionServiceStub struct {
	createFn func(ctx context.Context, userID int64, input usecase.CreateTransactionInput) (*usecase.TransactionView, error)
	getFn    func(ctx context.Context, userID, id int64) (*usecase.TransactionView, error)
	listFn   func(ctx context.Context, userID int64, input usecase.ListTransactionsInput) ([]*usecase.TransactionView, query.Paginator, error)
	updateFn func(ctx context.Context, userID, id int64, input usecase.UpdateTransactionInput) (*usecase.TransactionView, error)
	deleteFn func(ctx context.Context, userID, id int64) (*usecase.TransactionView, error)
}

func (s *transactionServiceStub) Create(ctx context.Context, userID int64, input usecase.CreateTransactionInput) (*usecase.TransactionView, error) {
	return s.createFn(ctx, userID, input)
}

func (s *transactionServiceStub) Get(ctx context.Context, userID, id int64) (*usecase.TransactionView, error) {
	return s.getFn(ctx, userID, id)
}

func (s *transactionServiceStub) List(ctx context.Context, userID int64, input usecase.ListTransactionsInput) ([]*usecase.TransactionView, query.Paginator, error) {
	return s.listFn(ctx, userID, input)
}

func (s *transactionServiceStub) Update(ctx context.Context, userID, id int64, input usecase.UpdateTransactionInput) (*usecase.TransactionView, error) {
	return s.updateFn(ctx, userID, id, input)
}

func (s *transactionServiceStub) Delete(ctx context.Context, userID, id int64) (*usecase.TransactionView, error) {
	return s.deleteFn(ctx, userID, id)
}

func sampleView(id int64, amount string) *usecase.TransactionView {
	amt := decimal.RequireFromString(amount)
	return &usecase.TransactionView{
		Transaction: &domain.Transaction{
			ID:        id,
			AccountID: 1,
			Amount:    amt,
			DateTime:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Name:      "salary",
			Tags:      []*domain.Tag{{ID: 10, UserID: 7, Name: "income"}},
		},
		Balances: domain.TransactionBalances{
			OldAccountBalance: decimal.Zero,
			NewAccountBalance: amt,
			Operation:         domain.OperationCredit,
		},
	}
}

func TestTransactionHandler_Create_Success(t *testing.T) {
	var capturedUserID int64
	var captured usecase.CreateTransactionInput

	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, userID int64, input usecase.CreateTransactionInput) (*usecase.TransactionView, error) {
			capturedUserID = userID
			captured = input
			return sampleView(5, "100.00"), nil
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		AccountID: 1,
		Amount:    decimal.RequireFromString("100.00"),
		Name:      "salary",
		Tags:      []string{"income"},
	})

	req := asUser(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedUserID != 7 {
		t.Fatalf("expected user id 7, got %d", capturedUserID)
	}
	if captured.AccountID != 1 || len(captured.Tags) != 1 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 5 || resp.Amount != "100.00" || resp.NewAccountBalance != "100.00" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Operation != domain.OperationCredit {
		t.Fatalf("expected CREDIT, got %s", resp.Operation)
	}
}

func TestTransactionHandler_Create_InvalidBody(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, userID int64, input usecase.CreateTransactionInput) (*usecase.TransactionView, error) {
			t.Fatal("Create should not be called")
			return nil, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString("{bad json")), 7)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Create_Unauthenticated(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTransactionHandler_Create_ValidationError(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		createFn: func(ctx context.Context, userID int64, input usecase.CreateTransactionInput) (*usecase.TransactionView, error) {
			return nil, fmt.Errorf("%w: amount must have at most 2 decimal places", domain.ErrValidation)
		},
	})

	body, _ := json.Marshal(dto.CreateTransactionRequest{AccountID: 1, Amount: decimal.RequireFromString("1.005"), Name: "x"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Get_PermissionDenied(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		getFn: func(ctx context.Context, userID, id int64) (*usecase.TransactionView, error) {
			return nil, domain.ErrPermissionDenied
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/transactions/5", nil), 7)
	req = withURLParam(req, "id", "5")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestTransactionHandler_List_ParsesQuery(t *testing.T) {
	var captured usecase.ListTransactionsInput

	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, userID int64, input usecase.ListTransactionsInput) ([]*usecase.TransactionView, query.Paginator, error) {
			captured = input
			return []*usecase.TransactionView{sampleView(5, "100.00")}, query.Paginator{PerPage: 10, Items: 1, Pages: 1, Page: query.Page{Current: 1}}, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet,
		"/transactions?name=salary&amount=-5.00&order=datetime_desc,id_desc&per_page=10&page=2", nil), 7)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Filter == nil || captured.Filter.Name == nil || *captured.Filter.Name != "salary" {
		t.Fatalf("expected name filter, got %+v", captured.Filter)
	}
	if captured.Filter.Amount == nil || !captured.Filter.Amount.Equal(decimal.RequireFromString("-5.00")) {
		t.Fatalf("expected amount filter, got %+v", captured.Filter)
	}
	if len(captured.Order) != 2 || captured.Order[0] != usecase.TransactionOrderDateTimeDesc || captured.Order[1] != usecase.TransactionOrderIDDesc {
		t.Fatalf("unexpected order keys: %v", captured.Order)
	}
	if captured.PerPage != 10 || captured.Page != 2 {
		t.Fatalf("unexpected pagination: %d/%d", captured.PerPage, captured.Page)
	}

	var resp dto.ListTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.Paginator.Items != 1 {
		t.Fatalf("unexpected listing: %+v", resp)
	}
}

func TestTransactionHandler_List_UnknownOrderKey(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		listFn: func(ctx context.Context, userID int64, input usecase.ListTransactionsInput) ([]*usecase.TransactionView, query.Paginator, error) {
			return nil, query.Paginator{}, fmt.Errorf("%w: unknown order key %q", domain.ErrValidation, input.Order[0])
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/transactions?order=amount_sideways", nil), 7)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTransactionHandler_Delete_ReturnsSnapshot(t *testing.T) {
	var capturedID int64
	handler := NewTransactionHandler(&transactionServiceStub{
		deleteFn: func(ctx context.Context, userID, id int64) (*usecase.TransactionView, error) {
			capturedID = id
			return sampleView(5, "100.00"), nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodDelete, "/transactions/5", nil), 7)
	req = withURLParam(req, "id", "5")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capturedID != 5 {
		t.Fatalf("expected id 5, got %d", capturedID)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 5 || resp.Name != "salary" {
		t.Fatalf("unexpected snapshot: %+v", resp)
	}
}

func TestTransactionHandler_Update_InvalidID(t *testing.T) {
	handler := NewTransactionHandler(&transactionServiceStub{
		updateFn: func(ctx context.Context, userID, id int64, input usecase.UpdateTransactionInput) (*usecase.TransactionView, error) {
			t.Fatal("Update should not be called")
			return nil, nil
		},
	})

	req := asUser(httptest.NewRequest(http.MethodPatch, "/transactions/abc", bytes.NewBufferString("{}")), 7)
	req = withURLParam(req, "id", "abc")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
