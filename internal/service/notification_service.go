package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/config"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
)

type channel uint8

const (
	channelCustomer channel = 1 << iota
	channelWebhook
)

// routes decides who hears about which event. Assignment is internal to the
// shop, billing changes only concern the customer.
var routes = map[events.EventType]channel{
	events.EventTicketCreated:        channelCustomer | channelWebhook,
	events.EventTicketAssigned:       channelWebhook,
	events.EventTicketStatusChanged:  channelCustomer | channelWebhook,
	events.EventBillingStatusChanged: channelCustomer,
}

// NotificationService turns ticket and billing events into customer and
// webhook notifications. Delivery is logged only; the e-mail sender and the
// webhook URL come from configuration and an empty value mutes the channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     orNop(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to every routed event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for eventType := range routes {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(_ context.Context, event events.Event) error {
	subject := notificationSubject(event)
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("subject", subject))

	route := routes[event.Type]
	if route&channelCustomer != 0 && strings.TrimSpace(n.cfg.EmailFrom) != "" {
		n.logger.Debug("customer notification",
			zap.String("from", n.cfg.EmailFrom),
			zap.String("ticket_id", event.TicketID),
			zap.String("subject", subject))
	}
	if route&channelWebhook != 0 && strings.TrimSpace(n.cfg.WebhookURL) != "" {
		n.logger.Debug("webhook notification",
			zap.String("url", n.cfg.WebhookURL),
			zap.String("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Any("payload", event.Payload))
	}
	return nil
}

func notificationSubject(event events.Event) string {
	switch payload := event.Payload.(type) {
	case events.TicketCreatedPayload:
		if payload.AssignmentStatus == domain.AssignmentAssigned {
			return fmt.Sprintf("ticket received, a technician is assigned (total %s)", domain.MoneyFromCents(payload.TotalPriceCents).Format())
		}
		return fmt.Sprintf("ticket received, waiting for a technician (total %s)", domain.MoneyFromCents(payload.TotalPriceCents).Format())
	case events.TicketAssignedPayload:
		return "technician " + payload.TechnicianID + " assigned"
	case events.TicketStatusChangedPayload:
		return fmt.Sprintf("ticket moved from %s to %s", payload.OldStatus, payload.NewStatus)
	case events.BillingStatusChangedPayload:
		return fmt.Sprintf("billing is now %s", payload.NewStatus)
	}
	return string(event.Type)
}
