package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/visitor-access/internal/config"
	"github.com/spec-kit/visitor-access/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery itself is an external collaborator; the stubs here log what would
// be sent and never fail the publishing flow.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPassIssued, n.handlePassIssued)
	n.dispatcher.Subscribe(events.EventVisitorArrived, n.handleVisitorArrived)
	n.dispatcher.Subscribe(events.EventVisitorCheckedOut, n.handleVisitorCheckedOut)
	n.dispatcher.Subscribe(events.EventBookingCancelled, n.handleBookingCancelled)
}

func (n *NotificationService) handlePassIssued(ctx context.Context, event events.Event) error {
	n.logger.Info("PassIssued", zap.String("visitor_id", event.VisitorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVisitorArrived(ctx context.Context, event events.Event) error {
	n.logger.Info("VisitorArrived", zap.String("visitor_id", event.VisitorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVisitorCheckedOut(ctx context.Context, event events.Event) error {
	n.logger.Info("VisitorCheckedOut", zap.String("visitor_id", event.VisitorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleBookingCancelled(ctx context.Context, event events.Event) error {
	n.logger.Info("BookingCancelled", zap.String("booking_id", event.BookingID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_type", string(event.Type)))
}
