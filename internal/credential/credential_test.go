package credential

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/visitor-access/internal/ledger"
)

const (
	testSecret   = "test-secret"
	testAudience = "check-in-terminal"
)

type harness struct {
	now      time.Time
	store    *ledger.MemoryStore
	issuer   *Issuer
	verifier *Verifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return h.now }
	h.store = ledger.NewMemoryStoreWithClock(clock)
	h.issuer = NewIssuer(testSecret, h.store, 64).WithClock(clock)
	h.verifier = NewVerifier(testSecret, testAudience, h.store).WithClock(clock)
	return h
}

func (h *harness) issue(t *testing.T, subject, resource string, ttl time.Duration) *IssuedPass {
	t.Helper()
	pass, err := h.issuer.Issue(context.Background(), subject, resource, testAudience, h.now.Add(ttl))
	require.NoError(t, err)
	return pass
}

func TestIssue_RejectsPastExpiry(t *testing.T) {
	h := newHarness(t)

	_, err := h.issuer.Issue(context.Background(), "v1", "m1", testAudience, h.now.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrInvalidExpiry)

	_, err = h.issuer.Issue(context.Background(), "v1", "m1", testAudience, h.now)
	assert.ErrorIs(t, err, ErrInvalidExpiry)
}

func TestIssue_RejectsMissingFields(t *testing.T) {
	h := newHarness(t)

	_, err := h.issuer.Issue(context.Background(), "", "m1", testAudience, h.now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = h.issuer.Issue(context.Background(), "v1", "  ", testAudience, h.now.Add(time.Hour))
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestIssue_SeedsLedgerAndRendersQR(t *testing.T) {
	h := newHarness(t)

	pass := h.issue(t, "v1", "m1", time.Hour)
	assert.NotEmpty(t, pass.Token)
	assert.NotEmpty(t, pass.CredentialID)
	assert.NotEmpty(t, pass.QRPNG)

	rec, err := h.store.Get(context.Background(), pass.CredentialID)
	require.NoError(t, err)
	assert.False(t, rec.Used)
	assert.Equal(t, "v1", rec.SubjectID)
	assert.Equal(t, "m1", rec.ResourceID)
}

func TestVerify_ValidThenAlreadyUsed(t *testing.T) {
	h := newHarness(t)
	pass := h.issue(t, "v1", "m1", 24*time.Hour)

	result, err := h.verifier.Verify(context.Background(), pass.Token)
	require.NoError(t, err)
	assert.Equal(t, KindValid, result.Kind)
	assert.Equal(t, "v1", result.SubjectID)
	assert.Equal(t, "m1", result.ResourceID)
	assert.Equal(t, pass.CredentialID, result.CredentialID)

	result, err = h.verifier.Verify(context.Background(), pass.Token)
	require.NoError(t, err)
	assert.Equal(t, KindAlreadyUsed, result.Kind)
}

func TestVerify_ExpiredShortCircuitsBeforeLedger(t *testing.T) {
	h := newHarness(t)
	pass := h.issue(t, "v1", "m1", time.Hour)

	h.now = h.now.Add(2 * time.Hour)

	result, err := h.verifier.Verify(context.Background(), pass.Token)
	require.NoError(t, err)
	assert.Equal(t, KindExpired, result.Kind)

	// The ledger entry was evicted too, but the outcome stays Expired
	// rather than degrading to Invalid.
	result, err = h.verifier.Verify(context.Background(), pass.Token)
	require.NoError(t, err)
	assert.Equal(t, KindExpired, result.Kind)
}

func TestVerify_LedgerEvictionReadsAsExpired(t *testing.T) {
	h := newHarness(t)
	// Long-lived signature with a deliberately short ledger TTL simulates
	// clock skew between the token and the ledger.
	pass := h.issue(t, "v1", "m1", 24*time.Hour)
	_, err := h.store.Get(context.Background(), pass.CredentialID)
	require.NoError(t, err)

	other := ledger.NewMemoryStoreWithClock(func() time.Time { return h.now })
	verifier := NewVerifier(testSecret, testAudience, other).WithClock(func() time.Time { return h.now })

	result, err := verifier.Verify(context.Background(), pass.Token)
	require.NoError(t, err)
	assert.Equal(t, KindExpired, result.Kind)
}

func TestVerify_MalformedAndForgedTokens(t *testing.T) {
	h := newHarness(t)

	result, err := h.verifier.Verify(context.Background(), "not-a-token")
	require.NoError(t, err)
	assert.Equal(t, KindInvalid, result.Kind)

	forged := NewIssuer("other-secret", h.store, 64).WithClock(func() time.Time { return h.now })
	pass, err := forged.Issue(context.Background(), "v1", "m1", testAudience, h.now.Add(time.Hour))
	require.NoError(t, err)

	result, err = h.verifier.Verify(context.Background(), pass.Token)
	require.NoError(t, err)
	assert.Equal(t, KindInvalid, result.Kind)
}

func TestVerify_AudienceMismatchIsInvalid(t *testing.T) {
	h := newHarness(t)
	pass, err := h.issuer.Issue(context.Background(), "v1", "m1", "lobby-kiosk", h.now.Add(time.Hour))
	require.NoError(t, err)

	result, err := h.verifier.Verify(context.Background(), pass.Token)
	require.NoError(t, err)
	assert.Equal(t, KindInvalid, result.Kind)
}

func TestVerify_ConcurrentScans_ExactlyOneValid(t *testing.T) {
	h := newHarness(t)
	pass := h.issue(t, "v1", "m1", time.Hour)

	const scans = 16
	var wg sync.WaitGroup
	kinds := make(chan Kind, scans)

	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := h.verifier.Verify(context.Background(), pass.Token)
			if err != nil {
				t.Error(err)
				return
			}
			kinds <- result.Kind
		}()
	}
	wg.Wait()
	close(kinds)

	valid, other := 0, 0
	for kind := range kinds {
		switch kind {
		case KindValid:
			valid++
		case KindAlreadyUsed:
			other++
		default:
			t.Fatalf("unexpected kind %q", kind)
		}
	}
	assert.Equal(t, 1, valid)
	assert.Equal(t, scans-1, other)
}

func TestReissue_IndependentlyConsumable(t *testing.T) {
	h := newHarness(t)

	first := h.issue(t, "v1", "m1", 24*time.Hour)
	second := h.issue(t, "v1", "m1", 24*time.Hour)
	assert.NotEqual(t, first.CredentialID, second.CredentialID)

	result, err := h.verifier.Verify(context.Background(), first.Token)
	require.NoError(t, err)
	assert.Equal(t, KindValid, result.Kind)

	result, err = h.verifier.Verify(context.Background(), first.Token)
	require.NoError(t, err)
	assert.Equal(t, KindAlreadyUsed, result.Kind)

	// The replacement pass for the same visitor and booking is unaffected.
	result, err = h.verifier.Verify(context.Background(), second.Token)
	require.NoError(t, err)
	assert.Equal(t, KindValid, result.Kind)
}

func TestDecode_ReturnsBoundFields(t *testing.T) {
	h := newHarness(t)
	pass := h.issue(t, "v1", "m1", time.Hour)

	cred, err := h.issuer.Decode(pass.Token)
	require.NoError(t, err)
	assert.Equal(t, pass.CredentialID, cred.CredentialID)
	assert.Equal(t, "v1", cred.SubjectID)
	assert.Equal(t, "m1", cred.ResourceID)
	assert.Equal(t, testAudience, cred.Audience)
	assert.True(t, cred.NotBefore.Before(cred.ExpiresAt))
}
