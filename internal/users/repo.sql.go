package users

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendaflow/vendaflow/internal/platform/db"
	"github.com/vendaflow/vendaflow/internal/shared"
)

// Repository defines persistence operations for users.
type Repository interface {
	Get(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context, in shared.SearchInput) ([]User, int, error)
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	SetActive(ctx context.Context, id string, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `id, company_id, store_id, name, email, password_hash, user_type, role, active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.CompanyID, &u.StoreID, &u.Name, &u.Email, &u.PasswordHash,
		&u.UserType, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *repository) Get(ctx context.Context, id string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.NotFound("User not found")
		}
		return User{}, err
	}
	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.NotFound("User not found")
		}
		return User{}, err
	}
	return u, nil
}

func (r *repository) List(ctx context.Context, in shared.SearchInput) ([]User, int, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1`
	countQuery := `SELECT COUNT(*) FROM users WHERE company_id = $1`
	args := []any{in.CompanyID}
	argCount := 1

	if in.Filter != "" {
		argCount++
		placeholder := strconv.Itoa(argCount)
		query += ` AND (name ILIKE $` + placeholder + ` OR email ILIKE $` + placeholder + `)`
		countQuery += ` AND (name ILIKE $` + placeholder + ` OR email ILIKE $` + placeholder + `)`
		args = append(args, "%"+in.Filter+"%")
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

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	return result, total, rows.Err()
}

func sortOrder(sortBy, sortDir string) string {
	column := "created_at"
	switch sortBy {
	case "name":
		column = "name"
	case "email":
		column = "email"
	}
	dir := "DESC"
	if sortDir == "asc" {
		dir = "ASC"
	}
	return column + " " + dir
}

func (r *repository) Create(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, company_id, store_id, name, email, password_hash, user_type, role, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`,
		user.ID, user.CompanyID, user.StoreID, user.Name, user.Email, user.PasswordHash,
		user.UserType, user.Role, user.Active)
	if db.IsUniqueViolation(err) {
		return shared.Conflict("Email already in use")
	}
	return err
}

func (r *repository) Update(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET name=$2, email=$3, store_id=$4, role=$5, updated_at=NOW() WHERE id = $1`,
		user.ID, user.Name, user.Email, user.StoreID, user.Role)
	if db.IsUniqueViolation(err) {
		return shared.Conflict("Email already in use")
	}
	return err
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET active=$2, updated_at=NOW() WHERE id = $1`, id, active)
	return err
}

var _ Repository = (*repository)(nil)
