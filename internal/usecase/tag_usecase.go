package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/infrastructure/metrics"
	"github.com/thriftease/api/internal/query"
)

// TagUseCase handles standalone tag management. Tag attachment to
// transactions is driven by the transaction lifecycle manager.
type TagUseCase struct {
	tagRepo TagRepository
	metrics *metrics.Metrics
}

// NewTagUseCase creates a new TagUseCase.
func NewTagUseCase(tagRepo TagRepository, metrics *metrics.Metrics) *TagUseCase {
	return &TagUseCase{tagRepo: tagRepo, metrics: metrics}
}

// Create creates a tag for userID. A duplicate (user, name) pair surfaces as
// ErrConstraintViolation.
func (uc *TagUseCase) Create(ctx context.Context, userID int64, name string) (*domain.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	tag := &domain.Tag{UserID: userID, Name: name}
	if err := uc.tagRepo.Create(ctx, nil, tag); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TagsCreated.Inc()
	}

	return tag, nil
}

// Get returns a tag owned by userID.
func (uc *TagUseCase) Get(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	return uc.authorize(ctx, userID, id)
}

// TagFilterInput holds optional filter fields for tag listings.
type TagFilterInput struct {
	ID   *int64
	Name *string
}

func (f *TagFilterInput) predicates() []query.Predicate[*domain.Tag] {
	if f == nil {
		return nil
	}

	var preds []query.Predicate[*domain.Tag]

	if f.ID != nil {
		id := *f.ID
		preds = append(preds, func(t *domain.Tag) bool { return t.ID == id })
	}
	if f.Name != nil {
		name := strings.ToLower(*f.Name)
		preds = append(preds, func(t *domain.Tag) bool {
			return strings.Contains(strings.ToLower(t.Name), name)
		})
	}

	return preds
}

// ListTagsInput represents input for listing tags.
type ListTagsInput struct {
	Filter  *TagFilterInput
	PerPage int
	Page    int
}

// List returns userID's tags, filtered and paginated.
func (uc *TagUseCase) List(ctx context.Context, userID int64, input ListTagsInput) ([]*domain.Tag, query.Paginator, error) {
	tags, err := uc.tagRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, query.Paginator{}, err
	}

	matched := query.Filter(tags, input.Filter.predicates())
	pageItems, paginator := query.Paginate(matched, input.PerPage, input.Page)

	return pageItems, paginator, nil
}

// Update renames a tag owned by userID.
func (uc *TagUseCase) Update(ctx context.Context, userID, id int64, name string) (*domain.Tag, error) {
	tag, err := uc.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: tag name is required", domain.ErrValidation)
	}
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	tag.Name = name
	if err := uc.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

// Delete removes a tag owned by userID, detaching it from every transaction,
// and returns the pre-delete snapshot.
func (uc *TagUseCase) Delete(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	tag, err := uc.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := uc.tagRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return tag, nil
}

func (uc *TagUseCase) authorize(ctx context.Context, userID, id int64) (*domain.Tag, error) {
	tag, err := uc.tagRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if tag.UserID != userID {
		return nil, domain.ErrPermissionDenied
	}
	return tag, nil
}
