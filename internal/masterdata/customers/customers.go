// Package customers holds the customer records a sale can optionally
// reference.
package customers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendaflow/vendaflow/internal/shared"
)

type Customer struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"companyId"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Document  *string   `json:"document,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository interface {
	Get(ctx context.Context, id string) (Customer, error)
	List(ctx context.Context, in shared.SearchInput) ([]Customer, int, error)
	Create(ctx context.Context, customer Customer) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id string) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT id, company_id, name, email, phone, document, created_at, updated_at
FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.Document, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, shared.NotFound("Customer not found")
		}
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, in shared.SearchInput) ([]Customer, int, error) {
	query := `SELECT id, company_id, name, email, phone, document, created_at, updated_at FROM customers WHERE company_id = $1`
	countQuery := `SELECT COUNT(*) FROM customers WHERE company_id = $1`
	args := []any{in.CompanyID}
	argCount := 1

	if in.Filter != "" {
		argCount++
		placeholder := strconv.Itoa(argCount)
		query += ` AND (name ILIKE $` + placeholder + ` OR document = $` + placeholder + `)`
		countQuery += ` AND (name ILIKE $` + placeholder + ` OR document = $` + placeholder + `)`
		args = append(args, "%"+in.Filter+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, in.PerPage, in.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.Document, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, customer Customer) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO customers (id, company_id, name, email, phone, document, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		customer.ID, customer.CompanyID, customer.Name, customer.Email, customer.Phone, customer.Document)
	return err
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name     string
	Email    *string
	Phone    *string
	Document *string
}

func (s *Service) Create(ctx context.Context, uc shared.UserContext, in CreateInput) (Customer, error) {
	if in.Name == "" {
		return Customer{}, shared.Validation("Customer name is required")
	}
	customer := Customer{
		ID:        uuid.NewString(),
		CompanyID: uc.CompanyID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Document:  in.Document,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return Customer{}, err
	}
	return s.repo.Get(ctx, customer.ID)
}

func (s *Service) Get(ctx context.Context, uc shared.UserContext, id string) (Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return Customer{}, err
	}
	if customer.CompanyID != uc.CompanyID {
		return Customer{}, shared.NotFound("Customer not found")
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, in shared.SearchInput) (shared.SearchOutput[Customer], error) {
	in = in.Normalize()
	items, total, err := s.repo.List(ctx, in)
	if err != nil {
		return shared.SearchOutput[Customer]{}, err
	}
	return shared.SearchOutput[Customer]{
		Items:       items,
		Total:       total,
		CurrentPage: in.Page,
		PerPage:     in.PerPage,
		SortBy:      in.SortBy,
		SortDir:     in.SortDir,
		Filter:      in.Filter,
	}, nil
}
