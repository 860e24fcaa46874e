package stores

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vendaflow/vendaflow/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name  string
	Email *string
	Phone *string
}

func (s *Service) Create(ctx context.Context, uc shared.UserContext, in CreateInput) (Store, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Store{}, shared.Validation("Store name is required")
	}
	store := Store{
		ID:        uuid.NewString(),
		CompanyID: uc.CompanyID,
		Name:      in.Name,
		Status:    StatusActive,
		Email:     in.Email,
		Phone:     in.Phone,
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return Store{}, err
	}
	return s.repo.Get(ctx, store.ID)
}

// Get fetches by primary key and only then compares the owning company, so a
// cross-tenant id is indistinguishable from a nonexistent one.
func (s *Service) Get(ctx context.Context, uc shared.UserContext, id string) (Store, error) {
	store, err := s.repo.Get(ctx, id)
	if err != nil {
		return Store{}, err
	}
	if store.CompanyID != uc.CompanyID {
		return Store{}, shared.NotFound("Store not found")
	}
	return store, nil
}

func (s *Service) List(ctx context.Context, in shared.SearchInput) (shared.SearchOutput[Store], error) {
	in = in.Normalize()
	items, total, err := s.repo.List(ctx, in)
	if err != nil {
		return shared.SearchOutput[Store]{}, err
	}
	return shared.SearchOutput[Store]{
		Items:       items,
		Total:       total,
		CurrentPage: in.Page,
		PerPage:     in.PerPage,
		SortBy:      in.SortBy,
		SortDir:     in.SortDir,
		Filter:      in.Filter,
	}, nil
}

func (s *Service) Update(ctx context.Context, uc shared.UserContext, id string, in CreateInput) (Store, error) {
	store, err := s.Get(ctx, uc, id)
	if err != nil {
		return Store{}, err
	}
	if strings.TrimSpace(in.Name) != "" {
		store.Name = in.Name
	}
	if in.Email != nil {
		store.Email = in.Email
	}
	if in.Phone != nil {
		store.Phone = in.Phone
	}
	if err := s.repo.Update(ctx, store); err != nil {
		return Store{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, uc shared.UserContext, id string) error {
	if _, err := s.Get(ctx, uc, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, StatusInactive)
}
