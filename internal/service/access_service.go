package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/visitor-access/internal/access"
	"github.com/spec-kit/visitor-access/internal/domain"
	"github.com/spec-kit/visitor-access/internal/repository"
	apperrors "github.com/spec-kit/visitor-access/pkg/util"
)

// AccessService fronts the floor/zone evaluator and manages grant records.
type AccessService struct {
	evaluator *access.Evaluator
	grants    repository.GrantRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewAccessService constructs the service.
func NewAccessService(evaluator *access.Evaluator, grants repository.GrantRepository, logger *zap.Logger) *AccessService {
	return &AccessService{evaluator: evaluator, grants: grants, logger: logger, now: time.Now}
}

// EvaluateFloorAccess decides whether the identity may enter the floor now
// (or at the provided instant) and logs the decision.
func (s *AccessService) EvaluateFloorAccess(ctx context.Context, req access.Request, at *time.Time) (access.Decision, error) {
	when := s.now()
	if at != nil {
		when = *at
	}

	decision, err := s.evaluator.Evaluate(ctx, req, when)
	if err != nil {
		return access.Decision{}, err
	}

	if s.logger != nil {
		s.logger.Info("floor access evaluated",
			zap.String("grantee_id", req.GranteeID),
			zap.Int("floor", req.FloorNumber),
			zap.Bool("granted", decision.Granted),
			zap.String("reason", string(decision.Reason)),
		)
	}
	return decision, nil
}

// CreateGrant validates and persists a new access grant.
func (s *AccessService) CreateGrant(ctx context.Context, grant *domain.AccessGrant) error {
	if err := s.grants.Create(ctx, grant); err != nil {
		return err
	}
	return nil
}

// RevokeGrant soft-deletes a grant, preserving the audit trail. Revoking a
// grant that does not exist or was already revoked is NotFound.
func (s *AccessService) RevokeGrant(ctx context.Context, id string) error {
	if err := s.grants.Revoke(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("grant", map[string]any{"grant_id": id})
		}
		return err
	}
	return nil
}
