package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-router/internal/events"
	"github.com/spec-kit/support-router/internal/notify"
	"github.com/spec-kit/support-router/internal/observability"
)

// NotificationService routes domain events to chat messages: new tickets
// go to the configured admin chat, resolutions go back to the requester.
// Delivery is fire-and-forget; a failed send is logged and never rolls
// back the mutation that triggered it.
type NotificationService struct {
	dispatcher  events.Dispatcher
	notifier    notify.Notifier
	logger      *zap.Logger
	metrics     *observability.Metrics
	adminChatID int64
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier notify.Notifier, logger *zap.Logger, metrics *observability.Metrics, adminChatID int64) *NotificationService {
	return &NotificationService{
		dispatcher:  dispatcher,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
		adminChatID: adminChatID,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketResolved, n.handleTicketResolved)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected ticket_created payload", zap.Int64("ticket_id", event.TicketID))
		return nil
	}

	text := fmt.Sprintf("New request #%d for %s from %d:\n%s",
		event.TicketID, payload.Department, payload.UserID, payload.Text)
	n.deliver(ctx, n.adminChatID, text, string(event.Type))
	return nil
}

func (n *NotificationService) handleTicketResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketResolvedPayload)
	if !ok {
		n.logger.Warn("unexpected ticket_resolved payload", zap.Int64("ticket_id", event.TicketID))
		return nil
	}

	text := "Your request has been resolved."
	if payload.Resolution != "" {
		text = fmt.Sprintf("Your request has been resolved:\n\n%s", payload.Resolution)
	}
	n.deliver(ctx, payload.UserID, text, string(event.Type))
	return nil
}

func (n *NotificationService) deliver(ctx context.Context, chatID int64, text, eventType string) {
	if err := n.notifier.Send(ctx, chatID, text); err != nil {
		n.metrics.RecordError("notify", eventType)
		n.logger.Error("notification delivery failed",
			zap.Int64("chat_id", chatID),
			zap.String("event_type", eventType),
			zap.Error(err))
	}
}
