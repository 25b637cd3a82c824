package domain

import (
	"strings"
	"time"
)

// VisitorStatus enumerates visit lifecycle states.
type VisitorStatus string

const (
	VisitorStatusPending    VisitorStatus = "PENDING"
	VisitorStatusApproved   VisitorStatus = "APPROVED"
	VisitorStatusCheckedIn  VisitorStatus = "CHECKED_IN"
	VisitorStatusCheckedOut VisitorStatus = "CHECKED_OUT"
	VisitorStatusCancelled  VisitorStatus = "CANCELLED"
	VisitorStatusNoShow     VisitorStatus = "NO_SHOW"
)

// Visitor is a guest registered against a booking.
type Visitor struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Company      string
	HostStaffID  string
	BookingID    string
	Status       VisitorStatus
	CheckedInAt  *time.Time
	CheckedOutAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewVisitor validates and builds a pending visitor record.
func NewVisitor(name, email, phone, company, hostStaffID, bookingID string) (*Visitor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFieldRequired("name")
	}
	if strings.TrimSpace(hostStaffID) == "" {
		return nil, ErrFieldRequired("host_staff_id")
	}
	if strings.TrimSpace(bookingID) == "" {
		return nil, ErrFieldRequired("booking_id")
	}
	return &Visitor{
		Name:        name,
		Email:       strings.TrimSpace(email),
		Phone:       strings.TrimSpace(phone),
		Company:     strings.TrimSpace(company),
		HostStaffID: hostStaffID,
		BookingID:   bookingID,
		Status:      VisitorStatusPending,
	}, nil
}

// CanCheckIn reports whether the visit is in a state that admits check-in.
func (v *Visitor) CanCheckIn() bool {
	return v.Status == VisitorStatusPending || v.Status == VisitorStatusApproved
}
