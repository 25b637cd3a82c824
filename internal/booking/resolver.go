// Package booking detects and resolves scheduling conflicts over resources
// (rooms and host calendars).
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/visitor-access/internal/domain"
	"github.com/spec-kit/visitor-access/internal/events"
)

// Store is the persistence surface the resolver needs. Implementations must
// honor the transaction carried in ctx by TxRunner.WithTx so the whole
// conflict-check/cascade/insert sequence commits or rolls back as one.
type Store interface {
	// LockResource serializes concurrent booking creation for a resource.
	LockResource(ctx context.Context, resourceID string) error
	// ListOverlapping returns non-cancelled bookings on the resource whose
	// interval intersects [start, end), optionally excluding one booking id.
	ListOverlapping(ctx context.Context, resourceID string, start, end time.Time, excludeID *string) ([]domain.Booking, error)
	// Cancel moves a booking to cancelled with a reason.
	Cancel(ctx context.Context, bookingID, reason string) error
	// Insert persists a new scheduled booking.
	Insert(ctx context.Context, b *domain.Booking) error
}

// TxRunner runs fn inside one transaction; any error rolls everything back.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConflictError carries the full set of conflicting bookings so callers can
// present them.
type ConflictError struct {
	Conflicts []domain.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflicts with %d existing booking(s)", len(e.Conflicts))
}

// CapacityError reports a participant count above the room capacity.
type CapacityError struct {
	Capacity     int
	Participants int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d participants for capacity %d", e.Participants, e.Capacity)
}

// CreateInput describes a booking request.
type CreateInput struct {
	ResourceID      string
	HostStaffID     *string
	StartTime       time.Time
	DurationMinutes int
	Purpose         string
	Participants    []string
	// Capacity is the room capacity; 0 means unlimited.
	Capacity int
	// Override authorizes cascading cancellation of conflicting bookings.
	// The permission decision is made by the caller; the resolver trusts it.
	Override       bool
	OverrideReason string
}

// Resolver checks and creates bookings with conflict-free guarantees.
type Resolver struct {
	store      Store
	tx         TxRunner
	dispatcher events.Dispatcher
}

// NewResolver builds a resolver.
func NewResolver(store Store, tx TxRunner, dispatcher events.Dispatcher) *Resolver {
	return &Resolver{store: store, tx: tx, dispatcher: dispatcher}
}

// CheckConflicts returns the non-cancelled bookings overlapping the
// requested interval on the resource. Read-only.
func (r *Resolver) CheckConflicts(ctx context.Context, resourceID string, start time.Time, durationMinutes int, excludeID *string) ([]domain.Booking, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return r.store.ListOverlapping(ctx, resourceID, start, end, excludeID)
}

// CreateWithOverride creates a booking after conflict resolution. The
// capacity precondition fails fast before any booking row is touched. The
// lock, conflict query, cascade cancellation, and insert all run inside one
// transaction; cancellation notices are published only after commit and are
// best-effort.
func (r *Resolver) CreateWithOverride(ctx context.Context, input CreateInput) (*domain.Booking, error) {
	if input.Capacity > 0 && len(input.Participants) > input.Capacity {
		return nil, &CapacityError{Capacity: input.Capacity, Participants: len(input.Participants)}
	}

	created, err := domain.NewBooking(input.ResourceID, input.HostStaffID, input.StartTime, input.DurationMinutes, input.Purpose, input.Participants)
	if err != nil {
		return nil, err
	}

	var cancelled []domain.Booking
	err = r.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := r.store.LockResource(ctx, input.ResourceID); err != nil {
			return err
		}

		conflicts, err := r.store.ListOverlapping(ctx, input.ResourceID, created.StartTime, created.EndTime(), nil)
		if err != nil {
			return err
		}

		if len(conflicts) > 0 {
			if !input.Override {
				return &ConflictError{Conflicts: conflicts}
			}
			for _, loser := range conflicts {
				if err := r.store.Cancel(ctx, loser.ID, input.OverrideReason); err != nil {
					return err
				}
			}
			cancelled = conflicts
		}

		return r.store.Insert(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	for _, loser := range cancelled {
		r.publishCancelled(ctx, loser, created.ID, input.OverrideReason)
	}
	r.publishCreated(ctx, created)

	return created, nil
}

func (r *Resolver) publishCancelled(ctx context.Context, loser domain.Booking, winnerID, reason string) {
	if r.dispatcher == nil {
		return
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventBookingCancelled,
		BookingID: loser.ID,
		Timestamp: time.Now(),
		Payload: events.BookingCancelledPayload{
			ResourceID:     loser.ResourceID,
			CancelledBy:    winnerID,
			OverrideReason: reason,
			StartTime:      loser.StartTime,
		},
	})
}

func (r *Resolver) publishCreated(ctx context.Context, b *domain.Booking) {
	if r.dispatcher == nil {
		return
	}
	_ = r.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventBookingCreated,
		BookingID: b.ID,
		Timestamp: time.Now(),
		Payload: events.BookingCreatedPayload{
			ResourceID:      b.ResourceID,
			StartTime:       b.StartTime,
			DurationMinutes: b.DurationMinutes,
		},
	})
}
