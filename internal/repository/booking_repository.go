package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// BookingRepository encapsulates booking persistence. It satisfies the
// conflict resolver's store contract.
type BookingRepository interface {
	LockResource(ctx context.Context, resourceID string) error
	ListOverlapping(ctx context.Context, resourceID string, start, end time.Time, excludeID *string) ([]domain.Booking, error)
	Cancel(ctx context.Context, bookingID, reason string) error
	Insert(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error
	ListForResource(ctx context.Context, resourceID string, from, to time.Time) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

// LockResource takes a transaction-scoped advisory lock keyed by the
// resource id, serializing the conflict-check-then-insert sequence for that
// resource across concurrent requests.
func (r *bookingRepository) LockResource(ctx context.Context, resourceID string) error {
	q := querierFrom(ctx, r.pool)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, resourceID)
	return err
}

const bookingColumns = `id, resource_id, host_staff_id, start_time, duration_minutes, status, purpose, participants, cancel_reason, created_at, updated_at`

func (r *bookingRepository) ListOverlapping(ctx context.Context, resourceID string, start, end time.Time, excludeID *string) ([]domain.Booking, error) {
	// Half-open interval overlap with strict comparators: adjacent
	// back-to-back bookings do not conflict.
	query := `
        SELECT ` + bookingColumns + `
        FROM bookings
        WHERE (resource_id = $1 OR host_staff_id = $1)
          AND status <> 'CANCELLED'
          AND start_time < $3
          AND (start_time + make_interval(mins => duration_minutes)) > $2`
	args := []any{resourceID, start, end}
	if excludeID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY start_time`

	q := querierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func (r *bookingRepository) Cancel(ctx context.Context, bookingID, reason string) error {
	const query = `
        UPDATE bookings SET status='CANCELLED', cancel_reason=$1, updated_at=NOW()
        WHERE id=$2 AND status <> 'CANCELLED'`
	q := querierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query, reason, bookingID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) Insert(ctx context.Context, b *domain.Booking) error {
	const query = `
        INSERT INTO bookings (resource_id, host_staff_id, start_time, duration_minutes, status, purpose, participants)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	q := querierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		b.ResourceID,
		b.HostStaffID,
		b.StartTime,
		b.DurationMinutes,
		b.Status,
		b.Purpose,
		b.Participants,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const query = `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`
	q := querierFrom(ctx, r.pool)

	var b domain.Booking
	if err := scanBooking(q.QueryRow(ctx, query, id), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	const query = `UPDATE bookings SET status=$1, updated_at=NOW() WHERE id=$2`
	q := querierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) ListForResource(ctx context.Context, resourceID string, from, to time.Time) ([]domain.Booking, error) {
	const query = `
        SELECT ` + bookingColumns + `
        FROM bookings
        WHERE resource_id=$1 AND start_time >= $2 AND start_time < $3
        ORDER BY start_time`
	q := querierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, resourceID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanBookings(rows)
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(
		&b.ID,
		&b.ResourceID,
		&b.HostStaffID,
		&b.StartTime,
		&b.DurationMinutes,
		&b.Status,
		&b.Purpose,
		&b.Participants,
		&b.CancelReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}
