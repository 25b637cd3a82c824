package credential

import (
	"context"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/spec-kit/visitor-access/internal/domain"
	"github.com/spec-kit/visitor-access/internal/ledger"
)

var (
	// ErrInvalidExpiry is returned when the requested expiry is not in the future.
	ErrInvalidExpiry = errors.New("credential: expires_at must be in the future")
	// ErrMissingField is returned when subject or resource is empty.
	ErrMissingField = errors.New("credential: subject_id and resource_id are required")
)

// IssuedPass is the result of minting one credential: the signed token, a
// QR PNG rendering of it, and the raw credential id.
type IssuedPass struct {
	Token        string
	CredentialID string
	SubjectID    string
	ResourceID   string
	ExpiresAt    time.Time
	QRPNG        []byte
}

// Issuer mints signed, expiring, single-use check-in tokens and seeds the
// one-time-use ledger as part of issuance.
type Issuer struct {
	secret []byte
	store  ledger.Store
	qrSize int
	now    func() time.Time
}

// NewIssuer builds an issuer over the given signing secret and ledger.
func NewIssuer(secret string, store ledger.Store, qrSize int) *Issuer {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &Issuer{secret: []byte(secret), store: store, qrSize: qrSize, now: time.Now}
}

// WithClock overrides the issuer clock. Test hook.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue mints a credential bound to (subject, resource, audience, expiry)
// and writes the matching unused ledger entry with TTL equal to the token's
// remaining lifetime.
func (i *Issuer) Issue(ctx context.Context, subjectID, resourceID, audience string, expiresAt time.Time) (*IssuedPass, error) {
	subjectID = strings.TrimSpace(subjectID)
	resourceID = strings.TrimSpace(resourceID)
	if subjectID == "" || resourceID == "" {
		return nil, ErrMissingField
	}

	now := i.now()
	if !expiresAt.After(now) {
		return nil, ErrInvalidExpiry
	}

	credentialID := uuid.NewString()
	claims := &CheckInClaims{
		ResourceID: resourceID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        credentialID,
			Subject:   subjectID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return nil, err
	}

	rec := ledger.Record{SubjectID: subjectID, ResourceID: resourceID}
	if err := i.store.Put(ctx, credentialID, rec, expiresAt.Sub(now)); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(signed, qrcode.Medium, i.qrSize)
	if err != nil {
		return nil, err
	}

	return &IssuedPass{
		Token:        signed,
		CredentialID: credentialID,
		SubjectID:    subjectID,
		ResourceID:   resourceID,
		ExpiresAt:    expiresAt,
		QRPNG:        png,
	}, nil
}

// Decode parses a token without consuming it, returning the embedded
// credential fields. Intended for diagnostics; check-in always goes through
// Verifier.Verify.
func (i *Issuer) Decode(tokenStr string) (*domain.Credential, error) {
	claims := &CheckInClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !parsed.Valid {
		return nil, errors.New("credential: invalid token")
	}
	return credentialFromClaims(claims), nil
}

func credentialFromClaims(claims *CheckInClaims) *domain.Credential {
	cred := &domain.Credential{
		CredentialID: claims.ID,
		SubjectID:    claims.Subject,
		ResourceID:   claims.ResourceID,
	}
	if len(claims.Audience) > 0 {
		cred.Audience = claims.Audience[0]
	}
	if claims.IssuedAt != nil {
		cred.IssuedAt = claims.IssuedAt.Time
	}
	if claims.NotBefore != nil {
		cred.NotBefore = claims.NotBefore.Time
	}
	if claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}
	return cred
}
