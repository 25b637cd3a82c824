package dto

import (
	"time"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// CreateBookingRequest payload.
type CreateBookingRequest struct {
	RoomID          string    `json:"room_id"`
	HostStaffID     *string   `json:"host_staff_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Purpose         string    `json:"purpose"`
	Participants    []string  `json:"participants"`
	Override        bool      `json:"override"`
	OverrideReason  string    `json:"override_reason"`
}

// BookingSummary response.
type BookingSummary struct {
	ID              string               `json:"id"`
	ResourceID      string               `json:"resource_id"`
	HostStaffID     *string              `json:"host_staff_id,omitempty"`
	StartTime       time.Time            `json:"start_time"`
	EndTime         time.Time            `json:"end_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Status          domain.BookingStatus `json:"status"`
	Purpose         string               `json:"purpose,omitempty"`
	Participants    []string             `json:"participants,omitempty"`
}

// NewBookingSummary maps a domain booking.
func NewBookingSummary(b *domain.Booking) BookingSummary {
	return BookingSummary{
		ID:              b.ID,
		ResourceID:      b.ResourceID,
		HostStaffID:     b.HostStaffID,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime(),
		DurationMinutes: b.DurationMinutes,
		Status:          b.Status,
		Purpose:         b.Purpose,
		Participants:    b.Participants,
	}
}

// BookingSummaries maps a slice of domain bookings.
func BookingSummaries(bookings []domain.Booking) []BookingSummary {
	out := make([]BookingSummary, 0, len(bookings))
	for i := range bookings {
		out = append(out, NewBookingSummary(&bookings[i]))
	}
	return out
}
