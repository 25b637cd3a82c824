package credential

import (
	"context"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/visitor-access/internal/ledger"
	apperrors "github.com/spec-kit/visitor-access/pkg/util"
)

// Kind is the outcome of a verification. All four outcomes are terminal;
// callers must not retry the same token.
type Kind string

const (
	KindValid       Kind = "VALID"
	KindExpired     Kind = "EXPIRED"
	KindAlreadyUsed Kind = "ALREADY_USED"
	KindInvalid     Kind = "INVALID"
)

// Result carries the verification outcome plus the bound identities when valid.
type Result struct {
	Kind         Kind
	SubjectID    string
	ResourceID   string
	CredentialID string
}

// Verifier authenticates presented tokens and consumes them against the
// one-time-use ledger.
type Verifier struct {
	secret   []byte
	audience string
	store    ledger.Store
	now      func() time.Time
}

// NewVerifier builds a verifier sharing the issuer's secret and audience.
func NewVerifier(secret, audience string, store ledger.Store) *Verifier {
	return &Verifier{secret: []byte(secret), audience: audience, store: store, now: time.Now}
}

// WithClock overrides the verifier clock. Test hook.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify runs the single-shot verification sequence: signature and expiry
// first, then the atomic consume on the ledger. Expiry short-circuits before
// any ledger access so an evicted entry is never misreported as invalid.
// A non-nil error means the ledger was unreachable and the outcome is
// unknown; callers must re-check ledger state before assuming failure.
func (v *Verifier) Verify(ctx context.Context, tokenStr string) (Result, error) {
	claims := &CheckInClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			// Signature checked out; only the expiry failed.
			return Result{Kind: KindExpired, CredentialID: claims.ID}, nil
		}
		return Result{Kind: KindInvalid}, nil
	}
	if !parsed.Valid || claims.ID == "" {
		return Result{Kind: KindInvalid}, nil
	}

	ok, err := v.store.MarkUsedIfUnused(ctx, claims.ID, v.now())
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			// TTL eviction is the authoritative expiry signal when the
			// signature check alone is ambiguous (clock skew).
			return Result{Kind: KindExpired, CredentialID: claims.ID}, nil
		}
		return Result{}, apperrors.NewUnavailable(err)
	}
	if !ok {
		return Result{Kind: KindAlreadyUsed, CredentialID: claims.ID}, nil
	}

	return Result{
		Kind:         KindValid,
		SubjectID:    claims.Subject,
		ResourceID:   claims.ResourceID,
		CredentialID: claims.ID,
	}, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	return v.secret, nil
}
