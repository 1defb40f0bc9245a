package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/service"
)

// CustomersHandler exposes customer sign up, profile edits, removal and
// ticket history.
type CustomersHandler struct {
	customers *service.CustomerService
	tickets   *service.TicketService
}

func NewCustomersHandler(customers *service.CustomerService, tickets *service.TicketService) *CustomersHandler {
	return &CustomersHandler{customers: customers, tickets: tickets}
}

// Register handles POST /customers.
func (h *CustomersHandler) Register(c *fiber.Ctx) error {
	var req dto.CustomerRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	customer, err := h.customers.RegisterCustomer(c.UserContext(), service.RegisterCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// List handles GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page := pageParam(c)
	customers, err := h.customers.ListCustomers(c.UserContext(), actor, page)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, dto.NewCustomerResponse(&customers[i]))
	}
	return c.JSON(pageEnvelope(items, page))
}

// Update handles PUT /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCustomerProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	customer, err := h.customers.UpdateCustomerProfile(c.UserContext(), actor, c.Params("id"), service.ProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// Delete handles DELETE /customers/:id.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.customers.SoftDeleteCustomer(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Tickets handles GET /customers/:id/tickets.
func (h *CustomersHandler) Tickets(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page := pageParam(c)
	tickets, err := h.tickets.ListCustomerTickets(c.UserContext(), actor, c.Params("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(ticketSummaries(tickets), page))
}
