package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/usecase"
	"github.com/thriftease/api/internal/usecase/mocks"
)

func TestTagUseCase_Create(t *testing.T) {
	tests := []struct {
		name    string
		tagName string
		setup   func(repo *mocks.MockTagRepository)
		wantErr error
	}{
		{
			name:    "success",
			tagName: "food",
		},
		{
			name:    "blank name",
			tagName: "   ",
			wantErr: domain.ErrValidation,
		},
		{
			name:    "duplicate name for the same user",
			tagName: "food",
			setup: func(repo *mocks.MockTagRepository) {
				repo.Seed(&domain.Tag{ID: 1, UserID: 1, Name: "food"})
			},
			wantErr: domain.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockTagRepository()
			if tt.setup != nil {
				tt.setup(repo)
			}

			uc := usecase.NewTagUseCase(repo, nil)
			tag, err := uc.Create(context.Background(), 1, tt.tagName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if tag.ID == 0 || tag.Name != tt.tagName {
				t.Errorf("tag = %+v", tag)
			}
		})
	}
}

func TestTagUseCase_Authorization(t *testing.T) {
	repo := mocks.NewMockTagRepository()
	repo.Seed(&domain.Tag{ID: 1, UserID: 1, Name: "food"})

	uc := usecase.NewTagUseCase(repo, nil)

	if _, err := uc.Get(context.Background(), 1, 1); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, err := uc.Get(context.Background(), 2, 1); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("foreign get: err = %v, want ErrPermissionDenied", err)
	}
	if _, err := uc.Update(context.Background(), 2, 1, "groceries"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("foreign update: err = %v, want ErrPermissionDenied", err)
	}
	if _, err := uc.Delete(context.Background(), 2, 1); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("foreign delete: err = %v, want ErrPermissionDenied", err)
	}
}

func TestTagUseCase_List(t *testing.T) {
	repo := mocks.NewMockTagRepository()
	repo.Seed(&domain.Tag{ID: 1, UserID: 1, Name: "food"})
	repo.Seed(&domain.Tag{ID: 2, UserID: 1, Name: "transport"})
	repo.Seed(&domain.Tag{ID: 3, UserID: 2, Name: "food"})

	uc := usecase.NewTagUseCase(repo, nil)

	tags, paginator, err := uc.List(context.Background(), 1, usecase.ListTagsInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tags) != 2 || paginator.Items != 2 {
		t.Errorf("got %d tags, paginator %+v", len(tags), paginator)
	}

	name := "foo"
	tags, _, err = uc.List(context.Background(), 1, usecase.ListTagsInput{
		Filter: &usecase.TagFilterInput{Name: &name},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != 1 {
		t.Errorf("filtered = %+v", tags)
	}
}

func TestTagUseCase_UpdateDelete(t *testing.T) {
	repo := mocks.NewMockTagRepository()
	repo.Seed(&domain.Tag{ID: 1, UserID: 1, Name: "food"})

	uc := usecase.NewTagUseCase(repo, nil)

	tag, err := uc.Update(context.Background(), 1, 1, "groceries")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if tag.Name != "groceries" {
		t.Errorf("Name = %q, want groceries", tag.Name)
	}

	if _, err := uc.Update(context.Background(), 1, 1, " "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank rename: err = %v, want ErrValidation", err)
	}

	snapshot, err := uc.Delete(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if snapshot.Name != "groceries" {
		t.Errorf("snapshot = %+v", snapshot)
	}
	if _, err := uc.Get(context.Background(), 1, 1); !errors.Is(err, domain.ErrTagNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrTagNotFound", err)
	}
}
