package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/observability"
	"github.com/spec-kit/servicedesk/internal/persistence"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// TicketService coordinates ticket creation, assignment and the status
// lifecycle.
type TicketService struct {
	categories   repository.CategoryRepository
	services     repository.ServiceRepository
	technicians  repository.TechnicianRepository
	tickets      repository.TicketRepository
	interactions repository.InteractionRepository
	billings     repository.BillingRepository
	tx           persistence.Transactor
	metrics      *observability.Metrics
	logger       *zap.Logger
	clock        Clock
	random       RandomSource
	location     *time.Location
	publisher
}

// TicketDependencies bundles collaborators for the ticket service. Optional
// fields fall back to sensible defaults.
type TicketDependencies struct {
	CategoryRepo    repository.CategoryRepository
	ServiceRepo     repository.ServiceRepository
	TechnicianRepo  repository.TechnicianRepository
	TicketRepo      repository.TicketRepository
	InteractionRepo repository.InteractionRepository
	BillingRepo     repository.BillingRepository
	Transactor      persistence.Transactor
	Dispatcher      events.Dispatcher
	Metrics         *observability.Metrics
	Logger          *zap.Logger
	Clock           Clock
	Random          RandomSource
	Location        *time.Location
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	CategoryID  string
	ServiceIDs  []string
	Description string
}

// CreatedTicket is the outcome of CreateTicket.
type CreatedTicket struct {
	Ticket  *domain.Ticket
	Billing *domain.Billing
}

// TicketDetails is a ticket with its billing and work sessions.
type TicketDetails struct {
	Ticket       *domain.Ticket
	Billing      *domain.Billing
	Interactions []domain.Interaction
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	tx := deps.Transactor
	if tx == nil {
		tx = persistence.InlineTransactor{}
	}
	random := deps.Random
	if random == nil {
		random = NewRandomSource()
	}
	location := deps.Location
	if location == nil {
		location = time.Local
	}
	logger := orNop(deps.Logger)
	clock := orNow(deps.Clock)
	return &TicketService{
		categories:   deps.CategoryRepo,
		services:     deps.ServiceRepo,
		technicians:  deps.TechnicianRepo,
		tickets:      deps.TicketRepo,
		interactions: deps.InteractionRepo,
		billings:     deps.BillingRepo,
		tx:           tx,
		metrics:      deps.Metrics,
		logger:       logger,
		clock:        clock,
		random:       random,
		location:     location,
		publisher:    publisher{dispatcher: deps.Dispatcher, logger: logger, clock: clock},
	}
}

// CreateTicket opens a ticket for a customer, assigns a free technician when
// one is available and bills the requested services. Nothing is written when
// any validation fails.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input CreateTicketInput) (*CreatedTicket, error) {
	if err := requireRole(actor, domain.RoleCustomer); err != nil {
		return nil, err
	}
	if len(input.ServiceIDs) == 0 {
		return nil, apperrors.NewInvalidInput("service_ids", input.ServiceIDs)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, lookupError(err, "category", input.CategoryID)
	}

	services, err := s.resolveServices(ctx, input.ServiceIDs)
	if err != nil {
		return nil, err
	}

	technicians, err := s.technicians.List(ctx)
	if err != nil {
		return nil, err
	}
	active := activeTechnicians(technicians)
	if len(active) == 0 {
		return nil, apperrors.NewNotFound("technician", map[string]any{"reason": "no technicians registered"})
	}

	openTickets, err := s.tickets.ListByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		return nil, err
	}

	now := s.clock().In(s.location)
	var technicianID *string
	if available := AvailableTechnicians(now, active, openTickets); len(available) > 0 {
		picked := available[s.random.IntN(len(available))].ID
		technicianID = &picked
	}

	ticket, err := domain.NewTicket(domain.NewTicketParams{
		CustomerID:   actor.ID,
		CategoryID:   category.ID,
		ServiceIDs:   input.ServiceIDs,
		Description:  strings.TrimSpace(input.Description),
		TechnicianID: technicianID,
		Now:          now,
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.BillingItem, 0, len(services))
	for _, service := range services {
		items = append(items, domain.NewBillingItem(service, now))
	}
	billing := domain.NewBilling(domain.NewBillingParams{
		TicketID: ticket.ID,
		Status:   domain.BillingStatusOpen,
		Items:    items,
		Now:      now,
	})

	if err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		return s.billings.Create(ctx, billing)
	}); err != nil {
		return nil, lookupError(err, "ticket", ticket.ID)
	}

	s.metrics.TicketCreated(string(ticket.AssignmentStatus))
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("customer_id", ticket.CustomerID),
		zap.String("assignment_status", string(ticket.AssignmentStatus)),
		zap.Int("available_technicians_considered", len(active)))

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketCreatedPayload{
			CustomerID:       ticket.CustomerID,
			CategoryID:       ticket.CategoryID,
			ServiceIDs:       ticket.ServiceIDs,
			AssignmentStatus: ticket.AssignmentStatus,
			TotalPriceCents:  billing.TotalPrice.Cents(),
		},
	})
	if ticket.IsAssigned() {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actorOf(actor),
			Payload:  events.TicketAssignedPayload{TechnicianID: *ticket.TechnicianID},
		})
	}

	return &CreatedTicket{Ticket: ticket, Billing: billing}, nil
}

// resolveServices fetches every id concurrently. Soft deleted services count
// as missing.
func (s *TicketService) resolveServices(ctx context.Context, ids []string) ([]domain.Service, error) {
	services := make([]domain.Service, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			service, err := s.services.GetByID(gctx, id)
			if err != nil {
				return lookupError(err, "service", id)
			}
			if service.IsDeleted() {
				return apperrors.NewNotFound("service", map[string]any{"id": id})
			}
			services[i] = *service
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return services, nil
}

// AdvanceStatus moves a ticket to its next status. Open to being_handled
// opens an interaction; being_handled to closed closes the open one.
func (s *TicketService) AdvanceStatus(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleTechnician); err != nil {
		return nil, err
	}

	var (
		ticket      *domain.Ticket
		from        domain.TicketStatus
		interaction *domain.Interaction
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		ticket, err = s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return lookupError(err, "ticket", ticketID)
		}
		if !ticket.IsAssigned() {
			return apperrors.NewTicketNotAssigned(ticket.ID)
		}
		if actor.Is(domain.RoleTechnician) && !ticket.IsAssignedTo(actor.ID) {
			return apperrors.NewNotAllowed("ticket is assigned to another technician")
		}

		now := s.clock()
		switch ticket.Status {
		case domain.TicketStatusOpen:
			interaction = domain.NewInteraction(ticket.ID, *ticket.TechnicianID, now)
			if err := s.interactions.Create(ctx, interaction); err != nil {
				return lookupError(err, "interaction", interaction.ID)
			}
		case domain.TicketStatusBeingHandled:
			interaction, err = s.interactions.FindLastOpenByTicketID(ctx, ticket.ID)
			if err != nil {
				return lookupError(err, "interaction", ticket.ID)
			}
			if err := interaction.Close(now); err != nil {
				return err
			}
			if err := s.interactions.Update(ctx, interaction); err != nil {
				return lookupError(err, "interaction", interaction.ID)
			}
		}

		from, err = ticket.AdvanceStatus(now)
		if err != nil {
			return err
		}
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return lookupError(err, "ticket", ticket.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusTransition(string(from), string(ticket.Status))
	s.logger.Info("ticket status advanced",
		zap.String("ticket_id", ticket.ID),
		zap.String("from", string(from)),
		zap.String("to", string(ticket.Status)),
		zap.String("actor_id", actor.ID))

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actorOf(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus:     from,
			NewStatus:     ticket.Status,
			InteractionID: interaction.ID,
		},
	})
	return ticket, nil
}

// AssignPendingTickets binds free technicians to open tickets still waiting
// for one, oldest first, and returns how many were assigned. A ticket updated
// concurrently is skipped until the next sweep.
func (s *TicketService) AssignPendingTickets(ctx context.Context) (int, error) {
	technicians, err := s.technicians.List(ctx)
	if err != nil {
		return 0, err
	}
	active := activeTechnicians(technicians)
	if len(active) == 0 {
		return 0, nil
	}
	open, err := s.tickets.ListByStatus(ctx, domain.TicketStatusOpen)
	if err != nil {
		return 0, err
	}

	pending := make([]domain.Ticket, 0, len(open))
	for _, ticket := range open {
		if !ticket.IsAssigned() {
			pending = append(pending, ticket)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })

	now := s.clock().In(s.location)
	assigned := 0
	for i := range pending {
		available := AvailableTechnicians(now, active, open)
		if len(available) == 0 {
			break
		}
		ticket := &pending[i]
		ticket.Assign(available[s.random.IntN(len(available))].ID, now)
		if err := s.tickets.Update(ctx, ticket); err != nil {
			if errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrNotFound) {
				s.logger.Debug("pending ticket changed during sweep", zap.String("ticket_id", ticket.ID))
				continue
			}
			return assigned, err
		}
		open = append(open, *ticket)
		assigned++

		s.logger.Info("pending ticket assigned",
			zap.String("ticket_id", ticket.ID),
			zap.String("technician_id", *ticket.TechnicianID))
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Payload:  events.TicketAssignedPayload{TechnicianID: *ticket.TechnicianID},
		})
	}
	return assigned, nil
}

func activeTechnicians(technicians []domain.Technician) []domain.Technician {
	active := make([]domain.Technician, 0, len(technicians))
	for _, technician := range technicians {
		if !technician.IsDeleted() {
			active = append(active, technician)
		}
	}
	return active
}

// ShowTicket returns a ticket with its billing and interactions. Technicians
// only see tickets assigned to them, customers only their own.
func (s *TicketService) ShowTicket(ctx context.Context, actor domain.Actor, ticketID string) (*TicketDetails, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, lookupError(err, "ticket", ticketID)
	}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleTechnician:
		if !ticket.IsAssignedTo(actor.ID) {
			return nil, apperrors.NewNotAllowed("ticket is assigned to another technician")
		}
	case domain.RoleCustomer:
		if !ticket.IsOwnedBy(actor.ID) {
			return nil, apperrors.NewNotAllowed("ticket belongs to another customer")
		}
	default:
		return nil, apperrors.NewNotAllowed("unknown role")
	}

	details := &TicketDetails{Ticket: ticket}
	details.Billing, err = s.billings.GetByTicketID(ctx, ticket.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	details.Interactions, err = s.interactions.ListByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ListTickets pages through every ticket. Admin only.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, page int) ([]domain.Ticket, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{Page: pageFor(page)})
}

// ListCustomerTickets pages through the tickets of customerID, who must be
// the caller.
func (s *TicketService) ListCustomerTickets(ctx context.Context, actor domain.Actor, customerID string, page int) ([]domain.Ticket, error) {
	if actor.ID != customerID {
		return nil, apperrors.NewNotAllowed("customers can only list their own tickets")
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{CustomerID: &customerID, Page: pageFor(page)})
}

// ListTechnicianTickets pages through the tickets assigned to technicianID,
// who must be the caller.
func (s *TicketService) ListTechnicianTickets(ctx context.Context, actor domain.Actor, technicianID string, page int) ([]domain.Ticket, error) {
	if actor.ID != technicianID {
		return nil, apperrors.NewNotAllowed("technicians can only list their own tickets")
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{TechnicianID: &technicianID, Page: pageFor(page)})
}
