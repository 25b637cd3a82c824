package dto

import (
	"time"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// EvaluateAccessRequest payload.
type EvaluateAccessRequest struct {
	GranteeID   string     `json:"grantee_id"`
	FloorNumber int        `json:"floor_number"`
	Building    string     `json:"building"`
	Zone        string     `json:"zone"`
	At          *time.Time `json:"at"`
}

// AccessDecisionResponse reports the evaluation result.
type AccessDecisionResponse struct {
	Granted        bool   `json:"granted"`
	Reason         string `json:"reason,omitempty"`
	MatchedGrantID string `json:"matched_grant_id,omitempty"`
}

// CreateGrantRequest payload.
type CreateGrantRequest struct {
	GranteeID       string            `json:"grantee_id"`
	FloorNumber     int               `json:"floor_number"`
	Building        string            `json:"building"`
	Zone            *string           `json:"zone"`
	AccessType      domain.AccessType `json:"access_type"`
	AllowedFromTime *string           `json:"allowed_from_time"`
	AllowedToTime   *string           `json:"allowed_to_time"`
	ValidFrom       *time.Time        `json:"valid_from"`
	ValidUntil      *time.Time        `json:"valid_until"`
}
