package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// CatalogService manages categories and the services customers can order.
type CatalogService struct {
	categories repository.CategoryRepository
	services   repository.ServiceRepository
	logger     *zap.Logger
	clock      Clock
}

// NewCatalogService builds the service.
func NewCatalogService(categories repository.CategoryRepository, services repository.ServiceRepository, logger *zap.Logger, clock Clock) *CatalogService {
	return &CatalogService{
		categories: categories,
		services:   services,
		logger:     orNop(logger),
		clock:      orNow(clock),
	}
}

// CreateCategory registers a new category. Admin only.
func (s *CatalogService) CreateCategory(ctx context.Context, actor domain.Actor, name string) (*domain.Category, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	category, err := domain.NewCategory(name, actor.ID, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, lookupError(err, "category", category.ID)
	}
	s.logger.Info("category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// CreateService adds a priced service under an existing category. Admin only.
func (s *CatalogService) CreateService(ctx context.Context, actor domain.Actor, details domain.ServiceDetails) (*domain.Service, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, details.CategoryID); err != nil {
		return nil, lookupError(err, "category", details.CategoryID)
	}
	service, err := domain.NewService(actor.ID, details, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, lookupError(err, "service", service.ID)
	}
	s.logger.Info("service created",
		zap.String("service_id", service.ID),
		zap.String("category_id", service.CategoryID),
		zap.Int64("price_cents", service.Price.Cents()))
	return service, nil
}

// UpdateService replaces name, category and price of a live service.
// Billings already issued keep the old price.
func (s *CatalogService) UpdateService(ctx context.Context, actor domain.Actor, id string, details domain.ServiceDetails) (*domain.Service, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "service", id)
	}
	if details.CategoryID != service.CategoryID {
		if _, err := s.categories.GetByID(ctx, details.CategoryID); err != nil {
			return nil, lookupError(err, "category", details.CategoryID)
		}
	}
	if err := service.Update(details, s.clock()); err != nil {
		return nil, err
	}
	if err := s.services.Update(ctx, service); err != nil {
		return nil, lookupError(err, "service", id)
	}
	return service, nil
}

func (s *CatalogService) SoftDeleteService(ctx context.Context, actor domain.Actor, id string) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	service, err := s.services.GetByID(ctx, id)
	if err != nil {
		return lookupError(err, "service", id)
	}
	if err := service.SoftDelete(s.clock()); err != nil {
		return err
	}
	if err := s.services.Update(ctx, service); err != nil {
		return lookupError(err, "service", id)
	}
	s.logger.Info("service deleted", zap.String("service_id", id))
	return nil
}

// ListServices pages through the catalog, soft deleted services included.
func (s *CatalogService) ListServices(ctx context.Context, page int) ([]domain.Service, error) {
	return s.services.List(ctx, pageFor(page))
}
