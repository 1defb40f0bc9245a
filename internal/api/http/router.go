package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/servicedesk/internal/api/http/handlers"
	"github.com/spec-kit/servicedesk/internal/auth"
	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Sessions       *handlers.SessionsHandler
	Customers      *handlers.CustomersHandler
	Technicians    *handlers.TechniciansHandler
	Catalog        *handlers.CatalogHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Role checks here reject early; the
// services enforce the full ownership rules.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/sessions", cfg.Sessions.Create)
	app.Post("/customers", cfg.Customers.Register)
	app.Post("/technicians/register", cfg.Technicians.Register)

	authed := app.Group("", cfg.AuthMiddleware.Handle)
	admin := auth.RequireRole(domain.RoleAdmin)

	authed.Get("/customers", admin, cfg.Customers.List)
	authed.Put("/customers/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleCustomer), cfg.Customers.Update)
	authed.Delete("/customers/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleCustomer), cfg.Customers.Delete)
	authed.Get("/customers/:id/tickets", auth.RequireRole(domain.RoleCustomer), cfg.Customers.Tickets)

	authed.Post("/technicians", admin, cfg.Technicians.Create)
	authed.Get("/technicians", admin, cfg.Technicians.List)
	authed.Put("/technicians/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician), cfg.Technicians.Update)
	authed.Delete("/technicians/:id", admin, cfg.Technicians.Delete)
	authed.Get("/technicians/:id/tickets", auth.RequireRole(domain.RoleTechnician), cfg.Technicians.Tickets)

	authed.Post("/categories", admin, cfg.Catalog.CreateCategory)
	authed.Get("/categories", cfg.Catalog.ListCategories)
	authed.Post("/services", admin, cfg.Catalog.CreateService)
	authed.Get("/services", cfg.Catalog.ListServices)
	authed.Put("/services/:id", admin, cfg.Catalog.UpdateService)
	authed.Delete("/services/:id", admin, cfg.Catalog.DeleteService)

	authed.Post("/tickets", auth.RequireRole(domain.RoleCustomer), cfg.Tickets.CreateTicket)
	authed.Get("/tickets", admin, cfg.Tickets.ListTickets)
	authed.Get("/tickets/:id", cfg.Tickets.GetTicket)
	authed.Patch("/tickets/:id/status", auth.RequireRole(domain.RoleAdmin, domain.RoleTechnician), cfg.Tickets.AdvanceStatus)
	authed.Post("/tickets/:id/billing/settle", admin, cfg.Tickets.SettleBilling)
	authed.Post("/tickets/:id/billing/cancel", admin, cfg.Tickets.CancelBilling)
}
