package domain

import (
	"strings"
	"time"
)

// BookingStatus enumerates booking lifecycle states. Transitions are
// forward-only: scheduled bookings become active, completed, cancelled, or
// no-show; nothing is ever resurrected.
type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "SCHEDULED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

// Booking is a scheduled occupation of a resource (a room, and optionally a
// host's calendar) for a half-open interval [StartTime, EndTime()).
type Booking struct {
	ID              string
	ResourceID      string
	HostStaffID     *string
	StartTime       time.Time
	DurationMinutes int
	Status          BookingStatus
	Purpose         string
	Participants    []string
	CancelReason    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewBooking validates and builds a scheduled booking.
func NewBooking(resourceID string, hostStaffID *string, start time.Time, durationMinutes int, purpose string, participants []string) (*Booking, error) {
	if strings.TrimSpace(resourceID) == "" {
		return nil, ErrFieldRequired("resource_id")
	}
	if start.IsZero() {
		return nil, ErrFieldRequired("start_time")
	}
	if durationMinutes <= 0 {
		return nil, ErrFieldInvalid("duration_minutes", "must be positive")
	}
	return &Booking{
		ResourceID:      resourceID,
		HostStaffID:     hostStaffID,
		StartTime:       start,
		DurationMinutes: durationMinutes,
		Status:          BookingStatusScheduled,
		Purpose:         strings.TrimSpace(purpose),
		Participants:    participants,
	}, nil
}

// EndTime derives the exclusive end of the booked interval.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// IsTerminal reports whether the booking can no longer transition.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusNoShow
}
