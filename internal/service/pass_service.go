package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/visitor-access/internal/credential"
	"github.com/spec-kit/visitor-access/internal/events"
	"github.com/spec-kit/visitor-access/internal/repository"
	apperrors "github.com/spec-kit/visitor-access/pkg/util"
)

// PassService issues single-use check-in passes for registered visitors.
type PassService struct {
	issuer     *credential.Issuer
	visitors   repository.VisitorRepository
	bookings   repository.BookingRepository
	dispatcher events.Dispatcher
	audience   string
	defaultTTL time.Duration
	now        func() time.Time
}

// PassDependencies bundles collaborators for the pass service.
type PassDependencies struct {
	Issuer      *credential.Issuer
	VisitorRepo repository.VisitorRepository
	BookingRepo repository.BookingRepository
	Dispatcher  events.Dispatcher
}

// NewPassService constructs the service.
func NewPassService(deps PassDependencies, audience string, defaultTTLHours int) *PassService {
	if defaultTTLHours <= 0 {
		defaultTTLHours = 24
	}
	return &PassService{
		issuer:     deps.Issuer,
		visitors:   deps.VisitorRepo,
		bookings:   deps.BookingRepo,
		dispatcher: deps.Dispatcher,
		audience:   audience,
		defaultTTL: time.Duration(defaultTTLHours) * time.Hour,
		now:        time.Now,
	}
}

// IssuePass mints a credential for a visitor's booking. A zero expiresAt
// falls back to the configured default lifetime. Issuing a fresh pass for
// the same visitor and booking is allowed; each pass carries its own
// credential id and is independently single-use.
func (s *PassService) IssuePass(ctx context.Context, visitorID string, expiresAt time.Time) (*credential.IssuedPass, error) {
	visitor, err := s.visitors.GetByID(ctx, visitorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("visitor", map[string]any{"visitor_id": visitorID})
		}
		return nil, err
	}
	if !visitor.CanCheckIn() {
		return nil, apperrors.NewValidationError("visit is not awaiting check-in", map[string]any{"status": visitor.Status})
	}

	booking, err := s.bookings.GetByID(ctx, visitor.BookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": visitor.BookingID})
		}
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, apperrors.NewValidationError("booking is no longer active", map[string]any{"status": booking.Status})
	}

	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.defaultTTL)
	}

	pass, err := s.issuer.Issue(ctx, visitor.ID, booking.ID, s.audience, expiresAt)
	if err != nil {
		switch err {
		case credential.ErrInvalidExpiry, credential.ErrMissingField:
			return nil, apperrors.NewValidationError(err.Error(), nil)
		default:
			return nil, err
		}
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPassIssued,
		VisitorID: visitor.ID,
		BookingID: booking.ID,
		Timestamp: s.now(),
		Payload: events.PassIssuedPayload{
			CredentialID: pass.CredentialID,
			BookingID:    booking.ID,
			ExpiresAt:    pass.ExpiresAt,
		},
	})

	return pass, nil
}

func (s *PassService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
