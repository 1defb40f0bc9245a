package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// BillingService settles or cancels the billing attached to a ticket.
type BillingService struct {
	billings repository.BillingRepository
	logger   *zap.Logger
	clock    Clock
	publisher
}

func NewBillingService(billings repository.BillingRepository, dispatcher events.Dispatcher, logger *zap.Logger, clock Clock) *BillingService {
	logger = orNop(logger)
	clock = orNow(clock)
	return &BillingService{
		billings:  billings,
		logger:    logger,
		clock:     clock,
		publisher: publisher{dispatcher: dispatcher, logger: logger, clock: clock},
	}
}

// SettleBilling marks the ticket's billing as paid.
func (s *BillingService) SettleBilling(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Billing, error) {
	return s.transition(ctx, actor, ticketID, (*domain.Billing).Close)
}

// CancelBilling voids the ticket's billing.
func (s *BillingService) CancelBilling(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Billing, error) {
	return s.transition(ctx, actor, ticketID, (*domain.Billing).Cancel)
}

func (s *BillingService) transition(ctx context.Context, actor domain.Actor, ticketID string, apply func(*domain.Billing, time.Time) error) (*domain.Billing, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	billing, err := s.billings.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, lookupError(err, "billing", ticketID)
	}
	from := billing.Status
	if err := apply(billing, s.clock()); err != nil {
		return nil, err
	}
	if err := s.billings.Update(ctx, billing); err != nil {
		return nil, lookupError(err, "billing", billing.ID)
	}

	s.logger.Info("billing status changed",
		zap.String("billing_id", billing.ID),
		zap.String("ticket_id", ticketID),
		zap.String("from", string(from)),
		zap.String("to", string(billing.Status)))
	s.publish(ctx, events.Event{
		Type:     events.EventBillingStatusChanged,
		TicketID: ticketID,
		Actor:    actorOf(actor),
		Payload: events.BillingStatusChangedPayload{
			BillingID: billing.ID,
			OldStatus: from,
			NewStatus: billing.Status,
		},
	})
	return billing, nil
}
