package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing account data from storage.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context, filter Filter) ([]*Account, int, error)
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var accountColumns = []string{"id", "email", "password_hash", "display_name", "role", "phone", "agency_name", "created_at"}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, a *Account) error {
	query, args, err := psql.Insert("public.accounts").
		Columns("email", "password_hash", "display_name", "role", "phone", "agency_name").
		Values(a.Email, a.PasswordHash, a.DisplayName, a.Role, a.Phone, a.AgencyName).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create account query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&a.ID, &a.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create account failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Eq) (*Account, error) {
	query, args, err := psql.Select(accountColumns...).
		From("public.accounts").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get account query failed: %w", err)
	}

	a, err := scanAccount(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account failed: %w", err)
	}
	return a, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Account, int, error) {
	query := psql.Select(append(accountColumns, "count(*) OVER() as total_count")...).
		From("public.accounts")
	if filter.Role != "" {
		query = query.Where(squirrel.Eq{"role": filter.Role})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("display_name ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list accounts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts failed: %w", err)
	}
	defer rows.Close()

	var result []*Account
	var total int
	for rows.Next() {
		a, err := scanAccount(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan account failed: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate accounts failed: %w", err)
	}
	return result, total, nil
}

func scanAccount(row pgx.Row, extra ...any) (*Account, error) {
	var a Account
	dest := []any{&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName, &a.Role, &a.Phone, &a.AgencyName, &a.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &a, nil
}
