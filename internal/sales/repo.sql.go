package sales

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendaflow/vendaflow/internal/platform/db"
	"github.com/vendaflow/vendaflow/internal/shared"
)

// Repository persists sales. CreateWithItems is the only multi-row
// write; everything else is single-row.
type Repository interface {
	CreateWithItems(ctx context.Context, sale Sale, items []SaleItem) error
	Get(ctx context.Context, id string) (Sale, error)
	GetItems(ctx context.Context, saleID string) ([]SaleItem, error)
	List(ctx context.Context, in shared.SearchInput) ([]Sale, int, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to Status) (bool, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// CreateWithItems inserts the sale, its lines and the stock decrements
// in one transaction. Each decrement re-checks sufficiency in the
// UPDATE itself, so two concurrent sales of the same product can never
// drive quantity negative; the loser gets a StockError and the whole
// transaction rolls back.
func (r *repository) CreateWithItems(ctx context.Context, sale Sale, items []SaleItem) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, item := range items {
			tag, err := tx.Exec(ctx, `UPDATE products SET quantity = quantity - $2, updated_at = NOW()
WHERE id = $1 AND quantity >= $2`, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				var available int64
				if err := tx.QueryRow(ctx, `SELECT quantity FROM products WHERE id = $1`, item.ProductID).
					Scan(&available); err != nil {
					return err
				}
				return &StockError{ProductID: item.ProductID, Available: available, Requested: item.Quantity}
			}
		}

		if _, err := tx.Exec(ctx, `INSERT INTO sales (id, company_id, store_id, user_id, customer_id, payment_method, status, total, discount, final_total, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`,
			sale.ID, sale.CompanyID, sale.StoreID, sale.UserID, sale.CustomerID,
			sale.PaymentMethod, sale.Status, sale.Total, sale.Discount, sale.FinalTotal); err != nil {
			return err
		}

		for _, item := range items {
			if _, err := tx.Exec(ctx, `INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
VALUES ($1, $2, $3, $4, $5, $6)`,
				item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal); err != nil {
				return err
			}
		}
		return nil
	})
}

const saleColumns = `id, company_id, store_id, user_id, customer_id, payment_method, status, total, discount, final_total, created_at, updated_at`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.CompanyID, &s.StoreID, &s.UserID, &s.CustomerID,
		&s.PaymentMethod, &s.Status, &s.Total, &s.Discount, &s.FinalTotal, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) Get(ctx context.Context, id string) (Sale, error) {
	s, err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, shared.NotFound("Sale not found")
		}
		return Sale{}, err
	}
	return s, nil
}

func (r *repository) GetItems(ctx context.Context, saleID string) ([]SaleItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, sale_id, product_id, quantity, unit_price, subtotal
FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []SaleItem
	for rows.Next() {
		var it SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, in shared.SearchInput) ([]Sale, int, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE company_id = $1`
	countQuery := `SELECT COUNT(*) FROM sales WHERE company_id = $1`
	args := []any{in.CompanyID}
	argCount := 1

	if in.Filter != "" {
		argCount++
		placeholder := strconv.Itoa(argCount)
		query += ` AND status = $` + placeholder
		countQuery += ` AND status = $` + placeholder
		args = append(args, in.Filter)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + sortOrder(in.SortBy, in.SortDir)
	query += ` LIMIT $` + strconv.Itoa(argCount+1) + ` OFFSET $` + strconv.Itoa(argCount+2)
	args = append(args, in.PerPage, in.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, s)
	}
	return result, total, rows.Err()
}

func sortOrder(sortBy, sortDir string) string {
	column := "created_at"
	switch sortBy {
	case "total":
		column = "total"
	case "final_total":
		column = "final_total"
	case "status":
		column = "status"
	}
	dir := "DESC"
	if sortDir == "asc" {
		dir = "ASC"
	}
	return column + " " + dir
}

// UpdateStatusFrom is a compare-and-swap on status. It reports whether
// the row transitioned; false means a concurrent writer got there
// first.
func (r *repository) UpdateStatusFrom(ctx context.Context, id string, from, to Status) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE sales SET status = $3, updated_at = NOW()
WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
