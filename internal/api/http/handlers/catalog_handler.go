package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/dto"
	"github.com/spec-kit/servicedesk/internal/service"
)

// CatalogHandler manages categories and services.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateCategory POST /categories.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	category, err := h.catalog.CreateCategory(c.UserContext(), actor, req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// ListCategories GET /categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, dto.NewCategoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateService POST /services.
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ServiceRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.CreateService(c.UserContext(), actor, req.Details())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}

// UpdateService PUT /services/:id.
func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ServiceRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	svc, err := h.catalog.UpdateService(c.UserContext(), actor, c.Params("id"), req.Details())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewServiceResponse(svc)})
}

// DeleteService DELETE /services/:id.
func (h *CatalogHandler) DeleteService(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.catalog.SoftDeleteService(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListServices GET /services.
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	page := pageParam(c)
	services, err := h.catalog.ListServices(c.UserContext(), page)
	if err != nil {
		return err
	}
	items := make([]dto.ServiceResponse, 0, len(services))
	for i := range services {
		items = append(items, dto.NewServiceResponse(&services[i]))
	}
	return c.JSON(pageEnvelope(items, page))
}
