// Package access evaluates floor/zone permissions. Evaluation is read-only;
// recording the decision is the caller's responsibility.
package access

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/visitor-access/internal/domain"
)

// Reason explains a denial.
type Reason string

const (
	ReasonNoGrant           Reason = "no_grant"
	ReasonOutsideTimeWindow Reason = "outside_time_window"
)

// Decision is the outcome of one floor-access evaluation.
type Decision struct {
	Granted      bool
	Reason       Reason
	MatchedGrant *domain.AccessGrant
}

// GrantSource supplies the active grants for an identity on a floor.
type GrantSource interface {
	ActiveGrants(ctx context.Context, granteeID string, floorNumber int) ([]domain.AccessGrant, error)
}

// Request narrows an evaluation. Building and Zone are optional filters.
type Request struct {
	GranteeID   string
	FloorNumber int
	Building    string
	Zone        string
}

// Evaluator decides floor access from grant records.
type Evaluator struct {
	grants GrantSource
}

// NewEvaluator builds an evaluator over the given grant source.
func NewEvaluator(grants GrantSource) *Evaluator {
	return &Evaluator{grants: grants}
}

// Evaluate applies the grant rules at the given instant. Unconditional
// grants (permanent, temporary) win over time-based ones: a restrictive
// daily window never denies someone who also holds a permanent grant.
func (e *Evaluator) Evaluate(ctx context.Context, req Request, at time.Time) (Decision, error) {
	grants, err := e.grants.ActiveGrants(ctx, strings.TrimSpace(req.GranteeID), req.FloorNumber)
	if err != nil {
		return Decision{}, err
	}

	matching := make([]domain.AccessGrant, 0, len(grants))
	for _, g := range grants {
		if !g.IsActive {
			continue
		}
		if req.Building != "" && g.Building != "" && !strings.EqualFold(g.Building, req.Building) {
			continue
		}
		if req.Zone != "" && g.Zone != nil && !strings.EqualFold(*g.Zone, req.Zone) {
			continue
		}
		if !g.ContainsDate(at) {
			continue
		}
		matching = append(matching, g)
	}

	if len(matching) == 0 {
		return Decision{Granted: false, Reason: ReasonNoGrant}, nil
	}

	// Unconditional grants first.
	for idx := range matching {
		if matching[idx].AccessType != domain.AccessTypeTimeBased {
			return Decision{Granted: true, MatchedGrant: &matching[idx]}, nil
		}
	}

	tod := domain.TimeOfDayFrom(at).Minutes()
	for idx := range matching {
		g := &matching[idx]
		if g.AllowedFromTime == nil || g.AllowedToTime == nil {
			continue
		}
		// Inclusive on both ends of the daily window.
		if tod >= g.AllowedFromTime.Minutes() && tod <= g.AllowedToTime.Minutes() {
			return Decision{Granted: true, MatchedGrant: g}, nil
		}
	}

	return Decision{Granted: false, Reason: ReasonOutsideTimeWindow}, nil
}
