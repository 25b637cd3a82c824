package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/visitor-access/internal/domain"
)

type fakeGrantSource struct {
	grants []domain.AccessGrant
}

func (f *fakeGrantSource) ActiveGrants(_ context.Context, granteeID string, floorNumber int) ([]domain.AccessGrant, error) {
	var out []domain.AccessGrant
	for _, g := range f.grants {
		if g.GranteeID == granteeID && g.FloorNumber == floorNumber {
			out = append(out, g)
		}
	}
	return out, nil
}

func tod(hour, minute int) *domain.TimeOfDay {
	t := domain.TimeOfDay{Hour: hour, Minute: minute}
	return &t
}

func permanentGrant(grantee string, floor int) domain.AccessGrant {
	return domain.AccessGrant{
		ID:          "g-perm",
		GranteeID:   grantee,
		FloorNumber: floor,
		AccessType:  domain.AccessTypePermanent,
		IsActive:    true,
	}
}

func timeBasedGrant(grantee string, floor int, from, to *domain.TimeOfDay) domain.AccessGrant {
	return domain.AccessGrant{
		ID:              "g-time",
		GranteeID:       grantee,
		FloorNumber:     floor,
		AccessType:      domain.AccessTypeTimeBased,
		AllowedFromTime: from,
		AllowedToTime:   to,
		IsActive:        true,
	}
}

var noon = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluate_NoGrant(t *testing.T) {
	evaluator := NewEvaluator(&fakeGrantSource{})

	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, noon)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, ReasonNoGrant, decision.Reason)
}

func TestEvaluate_PermanentGrant(t *testing.T) {
	evaluator := NewEvaluator(&fakeGrantSource{grants: []domain.AccessGrant{permanentGrant("e1", 3)}})

	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, noon)
	require.NoError(t, err)
	assert.True(t, decision.Granted)
	require.NotNil(t, decision.MatchedGrant)
	assert.Equal(t, "g-perm", decision.MatchedGrant.ID)
}

func TestEvaluate_TimeBasedGrant_InsideAndOutsideWindow(t *testing.T) {
	source := &fakeGrantSource{grants: []domain.AccessGrant{
		timeBasedGrant("e1", 3, tod(9, 0), tod(17, 0)),
	}}
	evaluator := NewEvaluator(source)

	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, noon)
	require.NoError(t, err)
	assert.True(t, decision.Granted)

	evening := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
	decision, err = evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, evening)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, ReasonOutsideTimeWindow, decision.Reason)
}

func TestEvaluate_TimeBasedWindowBoundsInclusive(t *testing.T) {
	evaluator := NewEvaluator(&fakeGrantSource{grants: []domain.AccessGrant{
		timeBasedGrant("e1", 3, tod(9, 0), tod(17, 0)),
	}})

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, at)
	require.NoError(t, err)
	assert.True(t, decision.Granted, "window start is inclusive")

	at = time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)
	decision, err = evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, at)
	require.NoError(t, err)
	assert.True(t, decision.Granted, "window end is inclusive")

	at = time.Date(2025, 3, 1, 17, 1, 0, 0, time.UTC)
	decision, err = evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, at)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
}

func TestEvaluate_PermanentWinsOverRestrictiveTimeBased(t *testing.T) {
	evaluator := NewEvaluator(&fakeGrantSource{grants: []domain.AccessGrant{
		timeBasedGrant("e1", 3, tod(9, 0), tod(10, 0)),
		permanentGrant("e1", 3),
	}})

	// Outside the time-based window; the permanent grant still applies.
	midnight := time.Date(2025, 3, 1, 0, 30, 0, 0, time.UTC)
	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, midnight)
	require.NoError(t, err)
	assert.True(t, decision.Granted)
	require.NotNil(t, decision.MatchedGrant)
	assert.Equal(t, "g-perm", decision.MatchedGrant.ID)
}

func TestEvaluate_DateBounds(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 3, 20, 23, 59, 59, 0, time.UTC)
	grant := permanentGrant("e1", 3)
	grant.AccessType = domain.AccessTypeTemporary
	grant.ValidFrom = &from
	grant.ValidUntil = &until

	evaluator := NewEvaluator(&fakeGrantSource{grants: []domain.AccessGrant{grant}})

	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, noon)
	require.NoError(t, err)
	assert.False(t, decision.Granted, "before valid_from")
	assert.Equal(t, ReasonNoGrant, decision.Reason)

	inside := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	decision, err = evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, inside)
	require.NoError(t, err)
	assert.True(t, decision.Granted)

	after := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	decision, err = evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, after)
	require.NoError(t, err)
	assert.False(t, decision.Granted, "after valid_until")
}

func TestEvaluate_InactiveGrantIgnored(t *testing.T) {
	grant := permanentGrant("e1", 3)
	grant.IsActive = false

	evaluator := NewEvaluator(&fakeGrantSource{grants: []domain.AccessGrant{grant}})

	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3}, noon)
	require.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, ReasonNoGrant, decision.Reason)
}

func TestEvaluate_BuildingNarrows(t *testing.T) {
	grant := permanentGrant("e1", 3)
	grant.Building = "HQ"

	evaluator := NewEvaluator(&fakeGrantSource{grants: []domain.AccessGrant{grant}})

	decision, err := evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3, Building: "Annex"}, noon)
	require.NoError(t, err)
	assert.False(t, decision.Granted)

	decision, err = evaluator.Evaluate(context.Background(), Request{GranteeID: "e1", FloorNumber: 3, Building: "hq"}, noon)
	require.NoError(t, err)
	assert.True(t, decision.Granted, "building match is case-insensitive")
}
