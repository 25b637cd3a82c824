package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/visitor-access/internal/credential"
	"github.com/spec-kit/visitor-access/internal/domain"
	"github.com/spec-kit/visitor-access/internal/events"
	"github.com/spec-kit/visitor-access/internal/observability"
	"github.com/spec-kit/visitor-access/internal/repository"
	"github.com/spec-kit/visitor-access/internal/schedule"
	apperrors "github.com/spec-kit/visitor-access/pkg/util"
)

// CheckInService runs the terminal-side check-in flow: consume the presented
// token, gate on the booking's check-in window, and update the visit record.
type CheckInService struct {
	verifier     *credential.Verifier
	visitors     repository.VisitorRepository
	bookings     repository.BookingRepository
	dispatcher   events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	windowBefore time.Duration
	now          func() time.Time
}

// CheckInDependencies bundles collaborators for the check-in service.
type CheckInDependencies struct {
	Verifier    *credential.Verifier
	VisitorRepo repository.VisitorRepository
	BookingRepo repository.BookingRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// CheckInResult reports a successful check-in.
type CheckInResult struct {
	Visitor     *domain.Visitor
	Booking     *domain.Booking
	CheckedInAt time.Time
}

// NewCheckInService constructs the service.
func NewCheckInService(deps CheckInDependencies, windowBefore time.Duration) *CheckInService {
	if windowBefore <= 0 {
		windowBefore = schedule.DefaultWindowBefore
	}
	return &CheckInService{
		verifier:     deps.Verifier,
		visitors:     deps.VisitorRepo,
		bookings:     deps.BookingRepo,
		dispatcher:   deps.Dispatcher,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		windowBefore: windowBefore,
		now:          time.Now,
	}
}

// CheckIn consumes the token and, when the booking's window is open, marks
// the visitor checked in. Verification outcomes are terminal: a failed
// check-in never returns the token to an unused state.
func (s *CheckInService) CheckIn(ctx context.Context, token string) (*CheckInResult, error) {
	result, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	switch result.Kind {
	case credential.KindInvalid:
		s.record("invalid")
		return nil, apperrors.NewInvalidCredential("pass is not valid")
	case credential.KindExpired:
		s.record("expired")
		return nil, apperrors.NewExpired("pass has expired")
	case credential.KindAlreadyUsed:
		s.record("already_used")
		return nil, apperrors.NewAlreadyUsed("pass has already been used")
	}

	visitor, err := s.visitors.GetByID(ctx, result.SubjectID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("visitor", map[string]any{"visitor_id": result.SubjectID})
		}
		return nil, err
	}
	if !visitor.CanCheckIn() {
		return nil, apperrors.NewValidationError("visit is not awaiting check-in", map[string]any{"status": visitor.Status})
	}

	booking, err := s.bookings.GetByID(ctx, result.ResourceID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": result.ResourceID})
		}
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, apperrors.NewValidationError("booking was cancelled", nil)
	}

	now := s.now()
	if !schedule.IsWithinCheckInWindow(now, booking.StartTime, s.windowBefore) {
		minutes := schedule.MinutesUntilWindowOpens(now, booking.StartTime, s.windowBefore)
		s.record("window_closed")
		return nil, apperrors.NewDomainError(
			"CHECKIN_WINDOW_CLOSED",
			fmt.Sprintf("check-in opens in %d minute(s)", minutes),
			422,
			map[string]any{"minutes_until_open": minutes},
		)
	}

	if err := s.visitors.MarkCheckedIn(ctx, visitor.ID, now); err != nil {
		return nil, err
	}
	visitor.Status = domain.VisitorStatusCheckedIn
	visitor.CheckedInAt = &now

	s.record("valid")
	if s.logger != nil {
		s.logger.Info("visitor checked in",
			zap.String("visitor_id", visitor.ID),
			zap.String("booking_id", booking.ID),
			zap.String("credential_id", result.CredentialID),
		)
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVisitorArrived,
		VisitorID: visitor.ID,
		BookingID: booking.ID,
		Timestamp: now,
		Payload: events.VisitorArrivedPayload{
			BookingID:   booking.ID,
			HostStaffID: visitor.HostStaffID,
			CheckedInAt: now,
		},
	})

	return &CheckInResult{Visitor: visitor, Booking: booking, CheckedInAt: now}, nil
}

// CheckOut closes an in-progress visit.
func (s *CheckInService) CheckOut(ctx context.Context, visitorID string) error {
	now := s.now()
	if err := s.visitors.MarkCheckedOut(ctx, visitorID, now); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewValidationError("visit is not checked in", nil)
		}
		return err
	}

	visitor, err := s.visitors.GetByID(ctx, visitorID)
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventVisitorCheckedOut,
		VisitorID: visitor.ID,
		BookingID: visitor.BookingID,
		Timestamp: now,
		Payload: events.VisitorCheckedOutPayload{
			BookingID:    visitor.BookingID,
			CheckedOutAt: now,
		},
	})
	return nil
}

func (s *CheckInService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordCheckIn(outcome)
	}
}

func (s *CheckInService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
