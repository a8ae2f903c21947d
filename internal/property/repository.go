package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/estify-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id string) (*Property, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context, filter Filter) ([]*Property, int, error)
	// Update persists fields, lifecycle and owner of an existing record.
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id string) error
	// WithTx runs fn against a repository bound to a single transaction.
	WithTx(ctx context.Context, fn func(repo Repository) error) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var propertyColumns = []string{
	"p.id", "p.title", "p.description", "p.contact_name", "p.contact_number",
	"p.property_type", "p.district", "p.price", "p.image",
	"p.status", "p.request_type", "p.original_property_id", "p.posted_by_agent",
	"COALESCE(a.email, '')", "p.created_at", "p.updated_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
	q    db.Querier
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, q: pool}
}

func (r *pgxRepository) WithTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.pool == nil {
		// Already inside a transaction.
		return fn(r)
	}
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&pgxRepository{q: tx})
	})
}

func (r *pgxRepository) Create(ctx context.Context, p *Property) error {
	status, rt, orig := flatten(p.Lifecycle)
	query, args, err := psql.Insert("public.properties").
		Columns(
			"title", "description", "contact_name", "contact_number", "property_type",
			"district", "price", "image", "status", "request_type", "original_property_id", "posted_by_agent",
		).
		Values(
			p.Title, p.Description, p.ContactName, p.ContactNumber, p.Type,
			p.District, p.Price, p.Image, status, rt, orig, p.PostedByAgent,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create property query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("create property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Property, error) {
	return r.get(ctx, id, false)
}

func (r *pgxRepository) GetByIDForUpdate(ctx context.Context, id string) (*Property, error) {
	return r.get(ctx, id, true)
}

func (r *pgxRepository) get(ctx context.Context, id string, lock bool) (*Property, error) {
	builder := psql.Select(propertyColumns...).
		From("public.properties p").
		LeftJoin("public.accounts a ON a.id = p.posted_by_agent").
		Where(squirrel.Eq{"p.id": id})
	if lock {
		builder = builder.Suffix("FOR UPDATE OF p")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get property query failed: %w", err)
	}

	p, err := scanProperty(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get property failed: %w", err)
	}
	return p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Property, int, error) {
	cols := append(append([]string{}, propertyColumns...), "count(*) OVER() AS total_count")
	builder := psql.Select(cols...).
		From("public.properties p").
		LeftJoin("public.accounts a ON a.id = p.posted_by_agent")

	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"p.status": filter.Status})
	}
	if filter.RequestType != "" {
		builder = builder.Where(squirrel.Eq{"p.request_type": filter.RequestType})
	}
	if filter.Type != "" {
		builder = builder.Where(squirrel.Eq{"p.property_type": filter.Type})
	}
	if filter.District != "" {
		builder = builder.Where("lower(p.district) = lower(?)", filter.District)
	}
	if filter.AgentID != "" {
		builder = builder.Where(squirrel.Eq{"p.posted_by_agent": filter.AgentID})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := builder.
		OrderBy("p.created_at DESC", "p.id").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list properties query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list properties failed: %w", err)
	}
	defer rows.Close()

	var (
		result []*Property
		total  int
	)
	for rows.Next() {
		p, err := scanProperty(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan property failed: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate properties failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Property) error {
	status, rt, orig := flatten(p.Lifecycle)
	query, args, err := psql.Update("public.properties").
		SetMap(map[string]any{
			"title":                p.Title,
			"description":          p.Description,
			"contact_name":         p.ContactName,
			"contact_number":       p.ContactNumber,
			"property_type":        p.Type,
			"district":             p.District,
			"price":                p.Price,
			"image":                p.Image,
			"status":               status,
			"request_type":         rt,
			"original_property_id": orig,
			"posted_by_agent":      p.PostedByAgent,
			"updated_at":           squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update property query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update property failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.properties WHERE id = $1`
	ct, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete property failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProperty(row pgx.Row, extra ...any) (*Property, error) {
	var (
		p          Property
		status     Status
		rt         RequestType
		originalID *string
	)
	dest := []any{
		&p.ID, &p.Title, &p.Description, &p.ContactName, &p.ContactNumber,
		&p.Type, &p.District, &p.Price, &p.Image,
		&status, &rt, &originalID, &p.PostedByAgent,
		&p.AgentEmail, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	lc, err := lifecycleOf(status, rt, originalID)
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	p.Lifecycle = lc
	return &p, nil
}
