package credential

import (
	jwt "github.com/golang-jwt/jwt/v5"
)

// CheckInClaims is the signed payload of a visitor pass. The registered
// claims carry subject (visitor id), jti (credential id), audience, nbf and
// exp; ResourceID binds the pass to one booking.
type CheckInClaims struct {
	ResourceID string `json:"res"`
	jwt.RegisteredClaims
}
