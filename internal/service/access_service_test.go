package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/visitor-access/internal/access"
	"github.com/spec-kit/visitor-access/internal/domain"
)

type fakeGrantRepo struct {
	grants map[string]*domain.AccessGrant
	nextID int
}

func newFakeGrantRepo() *fakeGrantRepo {
	return &fakeGrantRepo{grants: map[string]*domain.AccessGrant{}}
}

func (r *fakeGrantRepo) Create(_ context.Context, grant *domain.AccessGrant) error {
	r.nextID++
	grant.ID = fmt.Sprintf("g-%d", r.nextID)
	stored := *grant
	r.grants[grant.ID] = &stored
	return nil
}

// Revoke mirrors the SQL guard: only an active row is updated, so a missing
// or already-revoked grant reports no rows.
func (r *fakeGrantRepo) Revoke(_ context.Context, id string) error {
	g, ok := r.grants[id]
	if !ok || !g.IsActive {
		return pgx.ErrNoRows
	}
	g.IsActive = false
	return nil
}

func (r *fakeGrantRepo) GetByID(_ context.Context, id string) (*domain.AccessGrant, error) {
	g, ok := r.grants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *g
	return &copied, nil
}

func (r *fakeGrantRepo) ActiveGrants(_ context.Context, granteeID string, floorNumber int) ([]domain.AccessGrant, error) {
	var out []domain.AccessGrant
	for _, g := range r.grants {
		if g.GranteeID == granteeID && g.FloorNumber == floorNumber && g.IsActive {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGrantRepo) ListForGrantee(_ context.Context, granteeID string) ([]domain.AccessGrant, error) {
	var out []domain.AccessGrant
	for _, g := range r.grants {
		if g.GranteeID == granteeID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func newAccessFixture() (*AccessService, *fakeGrantRepo) {
	repo := newFakeGrantRepo()
	svc := NewAccessService(access.NewEvaluator(repo), repo, zap.NewNop())
	return svc, repo
}

func seedGrant(t *testing.T, repo *fakeGrantRepo) *domain.AccessGrant {
	t.Helper()
	grant, err := domain.NewAccessGrant("e1", 3, "", nil, domain.AccessTypePermanent, nil, nil, nil, nil, "s-admin")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), grant))
	return grant
}

func TestRevokeGrant_SoftDeletes(t *testing.T) {
	svc, repo := newAccessFixture()
	grant := seedGrant(t, repo)

	require.NoError(t, svc.RevokeGrant(context.Background(), grant.ID))
	assert.False(t, repo.grants[grant.ID].IsActive)

	// Evaluation no longer sees the revoked grant.
	decision, err := svc.EvaluateFloorAccess(context.Background(), access.Request{GranteeID: "e1", FloorNumber: 3}, nil)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, access.ReasonNoGrant, decision.Reason)
}

func TestRevokeGrant_UnknownGrantIsNotFound(t *testing.T) {
	svc, _ := newAccessFixture()

	err := svc.RevokeGrant(context.Background(), "nope")
	de := domainCode(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, 404, de.HTTPStatus)
	assert.Equal(t, "nope", de.Details["grant_id"])
}

func TestRevokeGrant_DoubleRevokeIsNotFound(t *testing.T) {
	svc, repo := newAccessFixture()
	grant := seedGrant(t, repo)

	require.NoError(t, svc.RevokeGrant(context.Background(), grant.ID))

	err := svc.RevokeGrant(context.Background(), grant.ID)
	de := domainCode(t, err)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, 404, de.HTTPStatus)
}

func TestEvaluateFloorAccess_UsesProvidedInstant(t *testing.T) {
	svc, repo := newAccessFixture()

	from := domain.TimeOfDay{Hour: 9, Minute: 0}
	to := domain.TimeOfDay{Hour: 17, Minute: 0}
	grant, err := domain.NewAccessGrant("e1", 3, "", nil, domain.AccessTypeTimeBased, &from, &to, nil, nil, "s-admin")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), grant))

	inside := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	decision, err := svc.EvaluateFloorAccess(context.Background(), access.Request{GranteeID: "e1", FloorNumber: 3}, &inside)
	require.NoError(t, err)
	assert.True(t, decision.Granted)

	outside := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	decision, err = svc.EvaluateFloorAccess(context.Background(), access.Request{GranteeID: "e1", FloorNumber: 3}, &outside)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, access.ReasonOutsideTimeWindow, decision.Reason)
}
