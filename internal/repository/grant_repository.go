package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// GrantRepository encapsulates access-grant persistence. Revocation is a
// soft delete; grant rows are never removed.
type GrantRepository interface {
	Create(ctx context.Context, grant *domain.AccessGrant) error
	Revoke(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AccessGrant, error)
	ActiveGrants(ctx context.Context, granteeID string, floorNumber int) ([]domain.AccessGrant, error)
	ListForGrantee(ctx context.Context, granteeID string) ([]domain.AccessGrant, error)
}

type grantRepository struct {
	pool *pgxpool.Pool
}

// NewGrantRepository instantiates repository.
func NewGrantRepository(pool *pgxpool.Pool) GrantRepository {
	return &grantRepository{pool: pool}
}

const grantColumns = `id, grantee_id, floor_number, building, zone, access_type, allowed_from_time, allowed_to_time, valid_from, valid_until, is_active, granted_by, created_at, updated_at`

func (r *grantRepository) Create(ctx context.Context, grant *domain.AccessGrant) error {
	const query = `
        INSERT INTO access_grants (grantee_id, floor_number, building, zone, access_type, allowed_from_time, allowed_to_time, valid_from, valid_until, is_active, granted_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	q := querierFrom(ctx, r.pool)
	return q.QueryRow(ctx, query,
		grant.GranteeID,
		grant.FloorNumber,
		grant.Building,
		grant.Zone,
		grant.AccessType,
		timeOfDayValue(grant.AllowedFromTime),
		timeOfDayValue(grant.AllowedToTime),
		grant.ValidFrom,
		grant.ValidUntil,
		grant.IsActive,
		grant.GrantedBy,
	).Scan(&grant.ID, &grant.CreatedAt, &grant.UpdatedAt)
}

func (r *grantRepository) Revoke(ctx context.Context, id string) error {
	const query = `UPDATE access_grants SET is_active=false, updated_at=NOW() WHERE id=$1 AND is_active=true`
	q := querierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *grantRepository) GetByID(ctx context.Context, id string) (*domain.AccessGrant, error) {
	const query = `SELECT ` + grantColumns + ` FROM access_grants WHERE id=$1`
	q := querierFrom(ctx, r.pool)

	var g domain.AccessGrant
	if err := scanGrant(q.QueryRow(ctx, query, id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ActiveGrants returns active grants for the grantee on the floor. Date and
// time-of-day filtering is the evaluator's job; the query only narrows on
// identity, floor, and the active flag.
func (r *grantRepository) ActiveGrants(ctx context.Context, granteeID string, floorNumber int) ([]domain.AccessGrant, error) {
	const query = `
        SELECT ` + grantColumns + `
        FROM access_grants
        WHERE grantee_id=$1 AND floor_number=$2 AND is_active=true
        ORDER BY created_at`
	q := querierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, granteeID, floorNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGrants(rows)
}

func (r *grantRepository) ListForGrantee(ctx context.Context, granteeID string) ([]domain.AccessGrant, error) {
	const query = `SELECT ` + grantColumns + ` FROM access_grants WHERE grantee_id=$1 ORDER BY created_at`
	q := querierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query, granteeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGrants(rows)
}

func scanGrants(rows pgx.Rows) ([]domain.AccessGrant, error) {
	var grants []domain.AccessGrant
	for rows.Next() {
		var g domain.AccessGrant
		if err := scanGrant(rows, &g); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

func scanGrant(row pgx.Row, g *domain.AccessGrant) error {
	var allowedFrom, allowedTo *string
	if err := row.Scan(
		&g.ID,
		&g.GranteeID,
		&g.FloorNumber,
		&g.Building,
		&g.Zone,
		&g.AccessType,
		&allowedFrom,
		&allowedTo,
		&g.ValidFrom,
		&g.ValidUntil,
		&g.IsActive,
		&g.GrantedBy,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return err
	}

	if allowedFrom != nil {
		tod, err := domain.ParseTimeOfDay(*allowedFrom)
		if err != nil {
			return err
		}
		g.AllowedFromTime = &tod
	}
	if allowedTo != nil {
		tod, err := domain.ParseTimeOfDay(*allowedTo)
		if err != nil {
			return err
		}
		g.AllowedToTime = &tod
	}
	return nil
}

func timeOfDayValue(t *domain.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
