package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thriftease/api/internal/adapter/http/dto"
	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/query"
	"github.com/thriftease/api/internal/usecase"
)

type tagServiceStub struct {
	createFn func(ctx context.Context, userID int64, name string) (*domain.Tag, error)
	getFn    func(ctx context.Context, userID, id int64) (*domain.Tag, error)
	listFn   func(ctx context.Context, userID int64, input usecase.ListTagsInput) ([]*domain.Tag, query.Paginator, error)
	updateFn func(ctx context.Context, userID, id int64, name string) (*domain.Tag, error)
	deleteFn func(ctx context.Context, userID, id int64) (*domain.Tag, error)
}

func (s *tagServiceStub) Create(ctx context.Context, userID int64, name string) (*domain.Tag, error) {
	return s.createFn(ctx, userID, name)
}

func (s *tagServiceStub) Get(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	return s.getFn(ctx, userID, id)
}

func (s *tagServiceStub) List(ctx context.Context, userID int64, input usecase.ListTagsInput) ([]*domain.Tag, query.Paginator, error) {
	return s.listFn(ctx, userID, input)
}

func (s *tagServiceStub) Update(ctx context.Context, userID, id int64, name string) (*domain.Tag, error) {
	return s.updateFn(ctx, userID, id, name)
}

func (s *tagServiceStub) Delete(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	return s.deleteFn(ctx, userID, id)
}

func TestTagHandler_Create_Success(t *testing.T) {
	handler := NewTagHandler(&tagServiceStub{
		createFn: func(ctx context.Context, userID int64, name string) (*domain.Tag, error) {
			return &domain.Tag{ID: 10, UserID: userID, Name: name}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateTagRequest{Name: "food"})
	req := asUser(httptest.NewRequest(http.MethodPost, "/tags", bytes.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp dto.TagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 10 || resp.Name != "food" {
		t.Fatalf("unexpected tag: %+v", resp)
	}
}

func TestTagHandler_Create_BlankName(t *testing.T) {
	handler := NewTagHandler(&tagServiceStub{
		createFn: func(ctx context.Context, userID int64, name string) (*domain.Tag, error) {
			return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
		},
	})

	body, _ := json.Marshal(dto.CreateTagRequest{Name: "  "})
	req := asUser(httptest.NewRequest(http.MethodPost, "/tags", bytes.NewReader(body)), 7)
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTagHandler_Update_Rename(t *testing.T) {
	handler := NewTagHandler(&tagServiceStub{
		updateFn: func(ctx context.Context, userID, id int64, name string) (*domain.Tag, error) {
			return &domain.Tag{ID: id, UserID: userID, Name: name}, nil
		},
	})

	body, _ := json.Marshal(dto.UpdateTagRequest{Name: "groceries"})
	req := asUser(httptest.NewRequest(http.MethodPatch, "/tags/10", bytes.NewReader(body)), 7)
	req = withURLParam(req, "id", "10")
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	var resp dto.TagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "groceries" {
		t.Fatalf("expected renamed tag, got %+v", resp)
	}
}

func TestTagHandler_Get_ForeignTag(t *testing.T) {
	handler := NewTagHandler(&tagServiceStub{
		getFn: func(ctx context.Context, userID, id int64) (*domain.Tag, error) {
			return nil, domain.ErrPermissionDenied
		},
	})

	req := asUser(httptest.NewRequest(http.MethodGet, "/tags/20", nil), 7)
	req = withURLParam(req, "id", "20")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
