package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/service"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets  *service.TicketService
	billings *service.BillingService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, billings *service.BillingService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, billings: billings}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	created, err := h.tickets.CreateTicket(c.UserContext(), actor, service.CreateTicketInput{
		CategoryID:  req.CategoryID,
		ServiceIDs:  req.ServiceIDs,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewTicketDetail(created.Ticket, created.Billing, nil),
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page := pageParam(c)
	tickets, err := h.tickets.ListTickets(c.UserContext(), actor, page)
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(ticketSummaries(tickets), page))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	details, err := h.tickets.ShowTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(details.Ticket, details.Billing, details.Interactions)})
}

// AdvanceStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) AdvanceStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.AdvanceStatus(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketSummary(ticket)})
}

// SettleBilling POST /tickets/:id/billing/settle.
func (h *TicketsHandler) SettleBilling(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	billing, err := h.billings.SettleBilling(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBillingResponse(billing)})
}

// CancelBilling POST /tickets/:id/billing/cancel.
func (h *TicketsHandler) CancelBilling(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	billing, err := h.billings.CancelBilling(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBillingResponse(billing)})
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return items
}
