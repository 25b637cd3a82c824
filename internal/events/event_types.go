package events

import (
	"time"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPassIssued        EventType = "pass_issued"
	EventVisitorArrived    EventType = "visitor_arrived"
	EventVisitorCheckedOut EventType = "visitor_checked_out"
	EventBookingCreated    EventType = "booking_created"
	EventBookingCancelled  EventType = "booking_cancelled"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	StaffID *string           `json:"staff_id,omitempty"`
	Role    *domain.StaffRole `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	VisitorID string      `json:"visitor_id,omitempty"`
	BookingID string      `json:"booking_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PassIssuedPayload payload.
type PassIssuedPayload struct {
	CredentialID string    `json:"credential_id"`
	BookingID    string    `json:"booking_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// VisitorArrivedPayload payload.
type VisitorArrivedPayload struct {
	BookingID   string    `json:"booking_id"`
	HostStaffID string    `json:"host_staff_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

// VisitorCheckedOutPayload payload.
type VisitorCheckedOutPayload struct {
	BookingID    string    `json:"booking_id"`
	CheckedOutAt time.Time `json:"checked_out_at"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	ResourceID      string    `json:"resource_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// BookingCancelledPayload payload. CancelledBy carries the id of the
// overriding booking when the cancellation came from an override cascade.
type BookingCancelledPayload struct {
	ResourceID     string    `json:"resource_id"`
	CancelledBy    string    `json:"cancelled_by,omitempty"`
	OverrideReason string    `json:"override_reason,omitempty"`
	StartTime      time.Time `json:"start_time"`
}
