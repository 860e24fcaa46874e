// Package categories provides minimal category records used to group
// products. Kept deliberately small: the POS flows only need referential
// integrity for Product.CategoryID.
package categories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendaflow/vendaflow/internal/shared"
)

type Category struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository interface {
	Get(ctx context.Context, id string) (Category, error)
	ListByCompany(ctx context.Context, companyID string) ([]Category, error)
	Create(ctx context.Context, category Category) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT id, company_id, name, created_at, updated_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.CompanyID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.NotFound("Category not found")
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) ListByCompany(ctx context.Context, companyID string) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, company_id, name, created_at, updated_at FROM categories WHERE company_id = $1 ORDER BY name ASC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) Create(ctx context.Context, category Category) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO categories (id, company_id, name, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())`,
		category.ID, category.CompanyID, category.Name)
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, uc shared.UserContext, name string) (Category, error) {
	if name == "" {
		return Category{}, shared.Validation("Category name is required")
	}
	category := Category{ID: uuid.NewString(), CompanyID: uc.CompanyID, Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		return Category{}, err
	}
	return s.repo.Get(ctx, category.ID)
}

func (s *Service) Get(ctx context.Context, uc shared.UserContext, id string) (Category, error) {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if category.CompanyID != uc.CompanyID {
		return Category{}, shared.NotFound("Category not found")
	}
	return category, nil
}

func (s *Service) List(ctx context.Context, uc shared.UserContext) ([]Category, error) {
	return s.repo.ListByCompany(ctx, uc.CompanyID)
}

func (s *Service) Delete(ctx context.Context, uc shared.UserContext, id string) error {
	if _, err := s.Get(ctx, uc, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
