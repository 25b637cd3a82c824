package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// VisitorRepository encapsulates visitor persistence.
type VisitorRepository interface {
	Create(ctx context.Context, visitor *domain.Visitor) error
	GetByID(ctx context.Context, id string) (*domain.Visitor, error)
	ListForBooking(ctx context.Context, bookingID string) ([]domain.Visitor, error)
	MarkCheckedIn(ctx context.Context, id string, at time.Time) error
	MarkCheckedOut(ctx context.Context, id string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.VisitorStatus) error
}

type visitorRepository struct {
	pool *pgxpool.Pool
}

// NewVisitorRepository instantiates repository.
func NewVisitorRepository(pool *pgxpool.Pool) VisitorRepository {
	return &visitorRepository{pool: pool}
}

const visitorColumns = `id, name, email, phone, company, host_staff_id, booking_id, status, checked_in_at, checked_out_at, created_at, updated_at`

func (r *visitorRepository) Create(ctx context.Context, visitor *domain.Visitor) error {
	const query = `
        INSERT INTO visitors (name, email, phone, company, host_staff_id, booking_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	q := querierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		visitor.Name,
		visitor.Email,
		visitor.Phone,
		visitor.Company,
		visitor.HostStaffID,
		visitor.BookingID,
		visitor.Status,
	).Scan(&visitor.ID, &visitor.CreatedAt, &visitor.UpdatedAt)
}

func (r *visitorRepository) GetByID(ctx context.Context, id string) (*domain.Visitor, error) {
	const query = `SELECT ` + visitorColumns + ` FROM visitors WHERE id=$1`
	q := querierFrom(ctx, r.pool)

	var v domain.Visitor
	if err := scanVisitor(q.QueryRow(ctx, query, id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitorRepository) ListForBooking(ctx context.Context, bookingID string) ([]domain.Visitor, error) {
	const query = `SELECT ` + visitorColumns + ` FROM visitors WHERE booking_id=$1 ORDER BY created_at`
	q := querierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []domain.Visitor
	for rows.Next() {
		var v domain.Visitor
		if err := scanVisitor(rows, &v); err != nil {
			return nil, err
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// MarkCheckedIn transitions a pending or approved visit to checked-in.
func (r *visitorRepository) MarkCheckedIn(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE visitors SET status='CHECKED_IN', checked_in_at=$1, updated_at=NOW()
        WHERE id=$2 AND status IN ('PENDING','APPROVED')`
	return r.exec(ctx, query, at, id)
}

// MarkCheckedOut transitions a checked-in visit to checked-out.
func (r *visitorRepository) MarkCheckedOut(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE visitors SET status='CHECKED_OUT', checked_out_at=$1, updated_at=NOW()
        WHERE id=$2 AND status='CHECKED_IN'`
	return r.exec(ctx, query, at, id)
}

func (r *visitorRepository) UpdateStatus(ctx context.Context, id string, status domain.VisitorStatus) error {
	const query = `UPDATE visitors SET status=$1, updated_at=NOW() WHERE id=$2`
	return r.exec(ctx, query, status, id)
}

func (r *visitorRepository) exec(ctx context.Context, query string, args ...any) error {
	q := querierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanVisitor(row pgx.Row, v *domain.Visitor) error {
	return row.Scan(
		&v.ID,
		&v.Name,
		&v.Email,
		&v.Phone,
		&v.Company,
		&v.HostStaffID,
		&v.BookingID,
		&v.Status,
		&v.CheckedInAt,
		&v.CheckedOutAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
}
