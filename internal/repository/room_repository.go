package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// RoomRepository encapsulates room persistence.
type RoomRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListActive(ctx context.Context) ([]domain.Room, error)
}

type roomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository instantiates repository.
func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &roomRepository{pool: pool}
}

const roomColumns = `id, name, building, floor_number, capacity, is_active, created_at, updated_at`

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms WHERE id=$1`
	q := querierFrom(ctx, r.pool)

	var room domain.Room
	if err := scanRoom(q.QueryRow(ctx, query, id), &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) ListActive(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT ` + roomColumns + ` FROM rooms WHERE is_active=true ORDER BY building, floor_number, name`
	q := querierFrom(ctx, r.pool)
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := scanRoom(rows, &room); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func scanRoom(row pgx.Row, room *domain.Room) error {
	return row.Scan(
		&room.ID,
		&room.Name,
		&room.Building,
		&room.FloorNumber,
		&room.Capacity,
		&room.IsActive,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
}
