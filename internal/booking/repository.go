package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/estify-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateDates(ctx context.Context, booking *Booking) error
	UpdateStatus(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id string) error

	// HasOverlap checks for a non-rejected booking of the property whose range
	// overlaps [start, end). excludeBookingID ignores the booking being edited.
	HasOverlap(ctx context.Context, propertyID string, start, end time.Time, excludeBookingID string) (bool, error)

	ListAvailability(ctx context.Context, propertyID string, statuses []Status) ([]Slot, error)

	// LockListing reads the property under a share lock, so an approval that
	// deletes or edits it waits for the surrounding transaction. Only
	// meaningful inside WithPropertyLock.
	LockListing(ctx context.Context, propertyID string) (*Listing, error)

	// WithPropertyLock runs fn in a transaction that holds an exclusive
	// per-property lock, serialising check-then-write sequences.
	WithPropertyLock(ctx context.Context, propertyID string, fn func(repo Repository) error) error
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.user_id", "b.property_id", "COALESCE(p.title, '')", "b.price",
	"b.start_date", "b.end_date", "b.status", "b.created_at", "b.updated_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
	q    db.Querier
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, q: pool}
}

func (r *pgxRepository) WithPropertyLock(ctx context.Context, propertyID string, fn func(repo Repository) error) error {
	if r.pool == nil {
		return fmt.Errorf("nested property lock on %s", propertyID)
	}
	return db.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, propertyID); err != nil {
			return fmt.Errorf("acquire property lock failed: %w", err)
		}
		return fn(&pgxRepository{q: tx})
	})
}

func (r *pgxRepository) LockListing(ctx context.Context, propertyID string) (*Listing, error) {
	const query = `
		SELECT id, title, property_type, price, status = 'approved'
		FROM public.properties
		WHERE id = $1
		FOR SHARE`

	var l Listing
	err := r.q.QueryRow(ctx, query, propertyID).Scan(&l.ID, &l.Title, &l.Type, &l.Price, &l.Live)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("lock listing failed: %w", err)
	}
	return &l, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("user_id", "property_id", "price", "start_date", "end_date", "status").
		Values(b.UserID, b.PropertyID, b.Price, b.StartDate, b.EndDate, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if isExclusionViolation(err) {
			return ErrDatesUnavailable
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		LeftJoin("public.properties p ON p.id = b.property_id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	cols := append(append([]string{}, bookingColumns...), "count(*) OVER() AS total_count")
	builder := psql.Select(cols...).
		From("public.bookings b").
		LeftJoin("public.properties p ON p.id = b.property_id")

	if filter.UserID != "" {
		builder = builder.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.PropertyID != "" {
		builder = builder.Where(squirrel.Eq{"b.property_id": filter.PropertyID})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"b.status": filter.Status})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := builder.
		OrderBy("b.start_date DESC", "b.id").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var (
		result []*Booking
		total  int
	)
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}
	return result, total, nil
}

func (r *pgxRepository) UpdateDates(ctx context.Context, b *Booking) error {
	const query = `
		UPDATE public.bookings
		SET start_date = $1, end_date = $2, updated_at = now()
		WHERE id = $3
		RETURNING updated_at
	`
	if err := r.q.QueryRow(ctx, query, b.StartDate, b.EndDate, b.ID).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isExclusionViolation(err) {
			return ErrDatesUnavailable
		}
		return fmt.Errorf("update booking dates failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, b *Booking) error {
	const query = `
		UPDATE public.bookings
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING updated_at
	`
	if err := r.q.QueryRow(ctx, query, b.Status, b.ID).Scan(&b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if isExclusionViolation(err) {
			return ErrDatesUnavailable
		}
		return fmt.Errorf("update booking status failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.bookings WHERE id = $1`
	ct, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, propertyID string, start, end time.Time, excludeBookingID string) (bool, error) {
	sub := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"property_id": propertyID}).
		Where(squirrel.NotEq{"status": StatusRejected}).
		Where(squirrel.Lt{"start_date": end}).
		Where(squirrel.Gt{"end_date": start})
	if excludeBookingID != "" {
		sub = sub.Where(squirrel.NotEq{"id": excludeBookingID})
	}

	query, args, err := sub.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build overlap query failed: %w", err)
	}

	var exists bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check booking overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListAvailability(ctx context.Context, propertyID string, statuses []Status) ([]Slot, error) {
	query, args, err := psql.Select("start_date", "end_date", "status").
		From("public.bookings").
		Where(squirrel.Eq{"property_id": propertyID, "status": statuses}).
		OrderBy("start_date").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build availability query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list availability failed: %w", err)
	}
	defer rows.Close()

	slots := []Slot{}
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.StartDate, &s.EndDate, &s.Status); err != nil {
			return nil, fmt.Errorf("scan slot failed: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots failed: %w", err)
	}
	return slots, nil
}

func scanBooking(row pgx.Row, extra ...any) (*Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.UserID, &b.PropertyID, &b.PropertyTitle, &b.Price,
		&b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &b, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation
}
