package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/visitor-access/internal/booking"
	"github.com/spec-kit/visitor-access/internal/domain"
	"github.com/spec-kit/visitor-access/internal/repository"
	apperrors "github.com/spec-kit/visitor-access/pkg/util"
)

// BookingService coordinates booking workflows on top of the conflict
// resolver.
type BookingService struct {
	resolver *booking.Resolver
	rooms    repository.RoomRepository
	bookings repository.BookingRepository
}

// BookingDependencies bundles collaborators for the booking service.
type BookingDependencies struct {
	Resolver    *booking.Resolver
	RoomRepo    repository.RoomRepository
	BookingRepo repository.BookingRepository
}

// BookingCreateInput describes a booking request from the API layer.
type BookingCreateInput struct {
	RoomID          string
	HostStaffID     *string
	StartTime       time.Time
	DurationMinutes int
	Purpose         string
	Participants    []string
	Override        bool
	OverrideReason  string
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		resolver: deps.Resolver,
		rooms:    deps.RoomRepo,
		bookings: deps.BookingRepo,
	}
}

// CheckConflicts returns the bookings that overlap the requested interval.
func (s *BookingService) CheckConflicts(ctx context.Context, resourceID string, start time.Time, durationMinutes int, excludeID *string) ([]domain.Booking, error) {
	if strings.TrimSpace(resourceID) == "" {
		return nil, apperrors.NewValidationError("resource_id required", nil)
	}
	if durationMinutes <= 0 {
		return nil, apperrors.NewValidationError("duration_minutes must be positive", nil)
	}
	return s.resolver.CheckConflicts(ctx, resourceID, start, durationMinutes, excludeID)
}

// CreateBooking validates the room and delegates to the conflict resolver,
// translating resolver errors into the API error taxonomy.
func (s *BookingService) CreateBooking(ctx context.Context, input BookingCreateInput) (*domain.Booking, error) {
	room, err := s.rooms.GetByID(ctx, input.RoomID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("room", map[string]any{"room_id": input.RoomID})
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, apperrors.NewValidationError("room is not active", map[string]any{"room_id": room.ID})
	}
	if input.Override && strings.TrimSpace(input.OverrideReason) == "" {
		return nil, apperrors.NewValidationError("override_reason required when override is set", nil)
	}

	created, err := s.resolver.CreateWithOverride(ctx, booking.CreateInput{
		ResourceID:      room.ID,
		HostStaffID:     input.HostStaffID,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		Purpose:         input.Purpose,
		Participants:    input.Participants,
		Capacity:        room.Capacity,
		Override:        input.Override,
		OverrideReason:  input.OverrideReason,
	})
	if err != nil {
		var conflictErr *booking.ConflictError
		if errors.As(err, &conflictErr) {
			return nil, apperrors.NewConflict("booking conflicts with existing bookings", map[string]any{
				"conflicts": conflictSummaries(conflictErr.Conflicts),
			})
		}
		var capacityErr *booking.CapacityError
		if errors.As(err, &capacityErr) {
			return nil, apperrors.NewCapacityExceeded(capacityErr.Error(), map[string]any{
				"capacity":     capacityErr.Capacity,
				"participants": capacityErr.Participants,
			})
		}
		var fieldErr *domain.FieldError
		if errors.As(err, &fieldErr) {
			return nil, apperrors.NewValidationError(fieldErr.Error(), nil)
		}
		return nil, err
	}
	return created, nil
}

// GetBooking fetches one booking.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": id})
		}
		return nil, err
	}
	return b, nil
}

func conflictSummaries(conflicts []domain.Booking) []map[string]any {
	out := make([]map[string]any, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, map[string]any{
			"booking_id": c.ID,
			"start_time": c.StartTime,
			"end_time":   c.EndTime(),
			"status":     c.Status,
		})
	}
	return out
}
