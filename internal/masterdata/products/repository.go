package products

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendaflow/vendaflow/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, in shared.SearchInput) ([]Product, int, error)
	Create(ctx context.Context, product Product) error
	Update(ctx context.Context, product Product) error
	SetActive(ctx context.Context, id string, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, company_id, store_id, category_id, name, barcode, sale_price, cost_price, quantity, active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.StoreID, &p.CategoryID, &p.Name, &p.Barcode,
		&p.SalePrice, &p.CostPrice, &p.Quantity, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.NotFound("Product not found")
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, in shared.SearchInput) ([]Product, int, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1`
	countQuery := `SELECT COUNT(*) FROM products WHERE company_id = $1`
	args := []any{in.CompanyID}
	argCount := 1

	if in.Filter != "" {
		argCount++
		placeholder := strconv.Itoa(argCount)
		query += ` AND (name ILIKE $` + placeholder + ` OR barcode = $` + placeholder + `)`
		countQuery += ` AND (name ILIKE $` + placeholder + ` OR barcode = $` + placeholder + `)`
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

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, p)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, product Product) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO products (id, company_id, store_id, category_id, name, barcode, sale_price, cost_price, quantity, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`,
		product.ID, product.CompanyID, product.StoreID, product.CategoryID, product.Name,
		product.Barcode, product.SalePrice, product.CostPrice, product.Quantity, product.Active)
	return err
}

// Update never touches quantity: stock moves only through the sale engine.
func (r *repository) Update(ctx context.Context, product Product) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET name=$2, barcode=$3, category_id=$4, sale_price=$5, cost_price=$6, updated_at=NOW()
WHERE id = $1`, product.ID, product.Name, product.Barcode, product.CategoryID, product.SalePrice, product.CostPrice)
	return err
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET active=$2, updated_at=NOW() WHERE id = $1`, id, active)
	return err
}

func sortOrder(sortBy, sortDir string) string {
	column := "created_at"
	switch sortBy {
	case "name":
		column = "name"
	case "sale_price":
		column = "sale_price"
	case "quantity":
		column = "quantity"
	}
	dir := "DESC"
	if sortDir == "asc" {
		dir = "ASC"
	}
	return column + " " + dir
}
