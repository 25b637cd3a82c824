package domain

import "time"

// StaffRole enumerates staff permission tiers.
type StaffRole string

const (
	StaffRoleHost     StaffRole = "HOST"
	StaffRoleSecurity StaffRole = "SECURITY"
	StaffRoleAdmin    StaffRole = "ADMIN"
)

// StaffMember is an employee operating the service: meeting hosts,
// front-desk security, and administrators.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
