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

// TagService defines the behavior needed by TagHandler.
type TagService interface {
	Create(ctx context.Context, userID int64, name string) (*domain.Tag, error)
	Get(ctx context.Context, userID, id int64) (*domain.Tag, error)
	List(ctx context.Context, userID int64, input usecase.ListTagsInput) ([]*domain.Tag, query.Paginator, error)
	Update(ctx context.Context, userID, id int64, name string) (*domain.Tag, error)
	Delete(ctx context.Context, userID, id int64) (*domain.Tag, error)
}

// TagHandler handles tag-related HTTP requests.
type TagHandler struct {
	tagUC TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagUC TagService) *TagHandler {
	return &TagHandler{tagUC: tagUC}
}

// Create creates a new tag.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tag, err := h.tagUC.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeDomainError(w, "failed to create tag", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TagFromDomain(tag))
}

// Get retrieves a tag by id.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tag id", err.Error())
		return
	}

	tag, err := h.tagUC.Get(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to get tag", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TagFromDomain(tag))
}

// List lists the user's tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	input := usecase.ListTagsInput{
		PerPage: parseIntQuery(r, "per_page", 20),
		Page:    parseIntQuery(r, "page", 1),
	}
	if id, name := int64Query(r, "id"), stringQuery(r, "name"); id != nil || name != nil {
		input.Filter = &usecase.TagFilterInput{ID: id, Name: name}
	}

	tags, paginator, err := h.tagUC.List(r.Context(), userID, input)
	if err != nil {
		writeDomainError(w, "failed to list tags", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTagsResponse{
		Tags:      dto.TagsFromDomain(tags),
		Paginator: paginator,
	})
}

// Update renames a tag.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tag id", err.Error())
		return
	}

	var req dto.UpdateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tag, err := h.tagUC.Update(r.Context(), userID, id, req.Name)
	if err != nil {
		writeDomainError(w, "failed to update tag", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TagFromDomain(tag))
}

// Delete deletes a tag and returns its final snapshot.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tag id", err.Error())
		return
	}

	tag, err := h.tagUC.Delete(r.Context(), userID, id)
	if err != nil {
		writeDomainError(w, "failed to delete tag", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TagFromDomain(tag))
}
