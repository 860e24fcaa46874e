package products

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
	StoreID    string
	CategoryID *string
	Name       string
	Barcode    *string
	SalePrice  int64
	CostPrice  int64
	Quantity   int64
}

func (s *Service) Create(ctx context.Context, uc shared.UserContext, in CreateInput) (Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Product{}, shared.Validation("Product name is required")
	}
	if in.SalePrice < 0 || in.CostPrice < 0 {
		return Product{}, shared.Validation("Product price cannot be negative")
	}
	if in.Quantity < 0 {
		return Product{}, shared.Validation("Product quantity cannot be negative")
	}
	product := Product{
		ID:         uuid.NewString(),
		CompanyID:  uc.CompanyID,
		StoreID:    in.StoreID,
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Barcode:    in.Barcode,
		SalePrice:  in.SalePrice,
		CostPrice:  in.CostPrice,
		Quantity:   in.Quantity,
		Active:     true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, product.ID)
}

// Get resolves by primary key and then checks tenancy, returning the same
// not-found error for both failure modes.
func (s *Service) Get(ctx context.Context, uc shared.UserContext, id string) (Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if product.CompanyID != uc.CompanyID {
		return Product{}, shared.NotFound("Product not found")
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, in shared.SearchInput) (shared.SearchOutput[Product], error) {
	in = in.Normalize()
	items, total, err := s.repo.List(ctx, in)
	if err != nil {
		return shared.SearchOutput[Product]{}, err
	}
	return shared.SearchOutput[Product]{
		Items:       items,
		Total:       total,
		CurrentPage: in.Page,
		PerPage:     in.PerPage,
		SortBy:      in.SortBy,
		SortDir:     in.SortDir,
		Filter:      in.Filter,
	}, nil
}

func (s *Service) Update(ctx context.Context, uc shared.UserContext, id string, in CreateInput) (Product, error) {
	product, err := s.Get(ctx, uc, id)
	if err != nil {
		return Product{}, err
	}
	if strings.TrimSpace(in.Name) != "" {
		product.Name = in.Name
	}
	if in.Barcode != nil {
		product.Barcode = in.Barcode
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.SalePrice > 0 {
		product.SalePrice = in.SalePrice
	}
	if in.CostPrice > 0 {
		product.CostPrice = in.CostPrice
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, uc shared.UserContext, id string) error {
	if _, err := s.Get(ctx, uc, id); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, id, false)
}
