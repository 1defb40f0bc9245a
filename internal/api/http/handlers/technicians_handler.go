package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/service"
)

// TechniciansHandler exposes the technician roster to admins, sign up and
// profile edits to technicians, and the assigned ticket list.
type TechniciansHandler struct {
	technicians *service.TechnicianService
	tickets     *service.TicketService
}

func NewTechniciansHandler(technicians *service.TechnicianService, tickets *service.TicketService) *TechniciansHandler {
	return &TechniciansHandler{technicians: technicians, tickets: tickets}
}

// Create handles POST /technicians.
func (h *TechniciansHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateTechnicianRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	technician, err := h.technicians.CreateTechnician(c.UserContext(), actor, service.CreateTechnicianInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Availability: req.ScheduleInputs(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTechnicianResponse(technician)})
}

// Register handles POST /technicians/register.
func (h *TechniciansHandler) Register(c *fiber.Ctx) error {
	var req dto.CreateTechnicianRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	technician, err := h.technicians.RegisterTechnician(c.UserContext(), service.CreateTechnicianInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Availability: req.ScheduleInputs(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTechnicianResponse(technician)})
}

// Update handles PUT /technicians/:id.
func (h *TechniciansHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTechnicianProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	technician, err := h.technicians.UpdateTechnicianProfile(c.UserContext(), actor, c.Params("id"), service.UpdateTechnicianProfileInput{
		ProfileInput: service.ProfileInput{Name: req.Name, Email: req.Email, Password: req.Password},
		Availability: req.ScheduleInputs(),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTechnicianResponse(technician)})
}

// List handles GET /technicians.
func (h *TechniciansHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	technicians, err := h.technicians.ListTechnicians(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(technicians))
	for i := range technicians {
		items = append(items, dto.NewTechnicianResponse(&technicians[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Delete handles DELETE /technicians/:id.
func (h *TechniciansHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.technicians.SoftDeleteTechnician(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Tickets handles GET /technicians/:id/tickets.
func (h *TechniciansHandler) Tickets(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page := pageParam(c)
	tickets, err := h.tickets.ListTechnicianTickets(c.UserContext(), actor, c.Params("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(ticketSummaries(tickets), page))
}
