package companies

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendaflow/vendaflow/internal/platform/db"
	"github.com/vendaflow/vendaflow/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id string) (Company, error)
	Create(ctx context.Context, company Company) error
	Update(ctx context.Context, company Company) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id string) (Company, error) {
	var c Company
	err := r.pool.QueryRow(ctx, `SELECT id, name, status, cnpj, email, phone, created_at, updated_at
FROM companies WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Status, &c.CNPJ, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, shared.NotFound("Company not found")
		}
		return Company{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, company Company) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO companies (id, name, status, cnpj, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		company.ID, company.Name, company.Status, company.CNPJ, company.Email, company.Phone)
	if db.IsUniqueViolation(err) {
		return shared.Conflict("CNPJ already registered")
	}
	return err
}

func (r *repository) Update(ctx context.Context, company Company) error {
	_, err := r.pool.Exec(ctx, `UPDATE companies SET name=$2, cnpj=$3, email=$4, phone=$5, updated_at=NOW()
WHERE id = $1`, company.ID, company.Name, company.CNPJ, company.Email, company.Phone)
	if db.IsUniqueViolation(err) {
		return shared.Conflict("CNPJ already registered")
	}
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE companies SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}
