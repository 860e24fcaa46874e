package companies

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

// CreateInput holds the fields accepted when creating a company.
type CreateInput struct {
	Name  string
	CNPJ  *string
	Email *string
	Phone *string
}

// Create registers a new company. Used by the signup flow, which runs before
// any tenant exists, so no UserContext is required here.
func (s *Service) Create(ctx context.Context, in CreateInput) (Company, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Company{}, shared.Validation("Company name is required")
	}
	company := Company{
		ID:     uuid.NewString(),
		Name:   in.Name,
		Status: StatusActive,
		CNPJ:   in.CNPJ,
		Email:  in.Email,
		Phone:  in.Phone,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		return Company{}, err
	}
	return s.repo.Get(ctx, company.ID)
}

// Get returns the caller's own company. Any other id resolves to the same
// not-found error a nonexistent id would.
func (s *Service) Get(ctx context.Context, uc shared.UserContext, id string) (Company, error) {
	company, err := s.repo.Get(ctx, id)
	if err != nil {
		return Company{}, err
	}
	if company.ID != uc.CompanyID {
		return Company{}, shared.NotFound("Company not found")
	}
	return company, nil
}

// Update mutates contact fields on the caller's company.
func (s *Service) Update(ctx context.Context, uc shared.UserContext, id string, in CreateInput) (Company, error) {
	company, err := s.Get(ctx, uc, id)
	if err != nil {
		return Company{}, err
	}
	if strings.TrimSpace(in.Name) != "" {
		company.Name = in.Name
	}
	if in.CNPJ != nil {
		company.CNPJ = in.CNPJ
	}
	if in.Email != nil {
		company.Email = in.Email
	}
	if in.Phone != nil {
		company.Phone = in.Phone
	}
	if err := s.repo.Update(ctx, company); err != nil {
		return Company{}, err
	}
	return s.repo.Get(ctx, id)
}

// Deactivate soft deletes the company. The transition is one way.
func (s *Service) Deactivate(ctx context.Context, uc shared.UserContext, id string) error {
	if _, err := s.Get(ctx, uc, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, StatusInactive)
}
