package dto

import "time"

// IssuePassRequest payload.
type IssuePassRequest struct {
	VisitorID string     `json:"visitor_id"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// IssuePassResponse returns the token, its id, and the QR rendering.
type IssuePassResponse struct {
	Token        string    `json:"token"`
	CredentialID string    `json:"credential_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	// QRPNGBase64 is a base64-encoded PNG of the pass for display/printing.
	QRPNGBase64 string `json:"qr_png_base64"`
}

// CheckInRequest payload presented by the terminal.
type CheckInRequest struct {
	Token string `json:"token"`
}

// CheckInResponse reports the completed check-in.
type CheckInResponse struct {
	VisitorID   string    `json:"visitor_id"`
	VisitorName string    `json:"visitor_name"`
	BookingID   string    `json:"booking_id"`
	HostStaffID string    `json:"host_staff_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
}
