package stores

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendaflow/vendaflow/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id string) (Store, error)
	List(ctx context.Context, in shared.SearchInput) ([]Store, int, error)
	Create(ctx context.Context, store Store) error
	Update(ctx context.Context, store Store) error
	UpdateStatus(ctx context.Context, id, status string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id string) (Store, error) {
	var s Store
	err := r.pool.QueryRow(ctx, `SELECT id, company_id, name, status, email, phone, created_at, updated_at
FROM stores WHERE id = $1`, id).
		Scan(&s.ID, &s.CompanyID, &s.Name, &s.Status, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Store{}, shared.NotFound("Store not found")
		}
		return Store{}, err
	}
	return s, nil
}

func (r *repository) List(ctx context.Context, in shared.SearchInput) ([]Store, int, error) {
	query := `SELECT id, company_id, name, status, email, phone, created_at, updated_at FROM stores WHERE company_id = $1`
	countQuery := `SELECT COUNT(*) FROM stores WHERE company_id = $1`
	args := []any{in.CompanyID}
	argCount := 1

	if in.Filter != "" {
		argCount++
		query += ` AND name ILIKE $` + strconv.Itoa(argCount)
		countQuery += ` AND name ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+in.Filter+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(in.SortBy, in.SortDir)
	query += ` LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, in.PerPage, in.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Status, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, store Store) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO stores (id, company_id, name, status, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		store.ID, store.CompanyID, store.Name, store.Status, store.Email, store.Phone)
	return err
}

func (r *repository) Update(ctx context.Context, store Store) error {
	_, err := r.pool.Exec(ctx, `UPDATE stores SET name=$2, email=$3, phone=$4, updated_at=NOW() WHERE id = $1`,
		store.ID, store.Name, store.Email, store.Phone)
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE stores SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	return err
}

func sortOrder(sortBy, sortDir string) string {
	column := "created_at"
	switch sortBy {
	case "name":
		column = "name"
	case "status":
		column = "status"
	}
	dir := "DESC"
	if sortDir == "asc" {
		dir = "ASC"
	}
	return column + " " + dir
}
