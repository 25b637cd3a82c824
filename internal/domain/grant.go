package domain

import (
	"strings"
	"time"
)

// AccessType enumerates how a floor grant is bounded.
type AccessType string

const (
	AccessTypePermanent AccessType = "PERMANENT"
	AccessTypeTemporary AccessType = "TEMPORARY"
	AccessTypeTimeBased AccessType = "TIME_BASED"
)

// AccessGrant is a floor/zone permission for an identity. Revocation is a
// soft delete (IsActive=false); rows are never removed, for the audit trail.
type AccessGrant struct {
	ID              string
	GranteeID       string
	FloorNumber     int
	Building        string
	Zone            *string
	AccessType      AccessType
	AllowedFromTime *TimeOfDay
	AllowedToTime   *TimeOfDay
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	IsActive        bool
	GrantedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAccessGrant validates and builds an active grant.
func NewAccessGrant(granteeID string, floorNumber int, building string, zone *string, accessType AccessType, allowedFrom, allowedTo *TimeOfDay, validFrom, validUntil *time.Time, grantedBy string) (*AccessGrant, error) {
	if strings.TrimSpace(granteeID) == "" {
		return nil, ErrFieldRequired("grantee_id")
	}
	switch accessType {
	case AccessTypePermanent, AccessTypeTemporary:
	case AccessTypeTimeBased:
		if allowedFrom == nil || allowedTo == nil {
			return nil, ErrFieldInvalid("allowed_from_time", "required for time-based grants")
		}
	default:
		return nil, ErrFieldInvalid("access_type", "unknown value")
	}
	if validFrom != nil && validUntil != nil && validFrom.After(*validUntil) {
		return nil, ErrFieldInvalid("valid_from", "must not be after valid_until")
	}
	return &AccessGrant{
		GranteeID:       strings.TrimSpace(granteeID),
		FloorNumber:     floorNumber,
		Building:        strings.TrimSpace(building),
		Zone:            zone,
		AccessType:      accessType,
		AllowedFromTime: allowedFrom,
		AllowedToTime:   allowedTo,
		ValidFrom:       validFrom,
		ValidUntil:      validUntil,
		IsActive:        true,
		GrantedBy:       grantedBy,
	}, nil
}

// ContainsDate reports whether the grant's date bounds cover the given
// instant. Nil bounds are unbounded.
func (g *AccessGrant) ContainsDate(at time.Time) bool {
	if g.ValidFrom != nil && at.Before(*g.ValidFrom) {
		return false
	}
	if g.ValidUntil != nil && at.After(*g.ValidUntil) {
		return false
	}
	return true
}
