package inquiry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, inq *Inquiry) error
	GetByID(ctx context.Context, id string) (*Inquiry, error)
	List(ctx context.Context, filter Filter) ([]*Inquiry, int, error)
	Respond(ctx context.Context, inq *Inquiry) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var inquiryColumns = []string{"id", "booking_id", "user_id", "message", "response", "status", "created_at", "updated_at"}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, inq *Inquiry) error {
	query, args, err := psql.Insert("public.inquiries").
		Columns("booking_id", "user_id", "message", "status").
		Values(inq.BookingID, inq.UserID, inq.Message, inq.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create inquiry query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&inq.ID, &inq.CreatedAt, &inq.UpdatedAt); err != nil {
		return fmt.Errorf("create inquiry failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Inquiry, error) {
	query, args, err := psql.Select(inquiryColumns...).
		From("public.inquiries").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get inquiry query failed: %w", err)
	}

	var inq Inquiry
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&inq.ID, &inq.BookingID, &inq.UserID, &inq.Message, &inq.Response, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get inquiry failed: %w", err)
	}
	return &inq, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Inquiry, int, error) {
	query := psql.Select(append(inquiryColumns, "count(*) OVER() as total_count")...).
		From("public.inquiries")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list inquiries query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inquiries failed: %w", err)
	}
	defer rows.Close()

	var result []*Inquiry
	var total int
	for rows.Next() {
		var inq Inquiry
		if err := rows.Scan(
			&inq.ID, &inq.BookingID, &inq.UserID, &inq.Message, &inq.Response, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan inquiry failed: %w", err)
		}
		result = append(result, &inq)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate inquiries failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Respond(ctx context.Context, inq *Inquiry) error {
	query, args, err := psql.Update("public.inquiries").
		Set("response", inq.Response).
		Set("status", inq.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": inq.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build respond inquiry query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&inq.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("respond inquiry failed: %w", err)
	}
	return nil
}
