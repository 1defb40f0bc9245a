// Package memory holds map backed repositories used when no database is
// configured and by the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// CategoryRepository stores categories in memory.
type CategoryRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Category
}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{data: make(map[string]domain.Category)}
}

func (r *CategoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[category.ID]; exists {
		return repository.ErrConflict
	}
	r.data[category.ID] = *category
	return nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	category, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &category, nil
}

func (r *CategoryRepository) List(_ context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Category, 0, len(r.data))
	for _, category := range r.data {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ServiceRepository stores services in memory.
type ServiceRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Service
}

func NewServiceRepository() *ServiceRepository {
	return &ServiceRepository{data: make(map[string]domain.Service)}
}

func (r *ServiceRepository) Create(_ context.Context, service *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[service.ID]; exists {
		return repository.ErrConflict
	}
	r.data[service.ID] = *service
	return nil
}

func (r *ServiceRepository) Update(_ context.Context, service *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[service.ID]; !exists {
		return repository.ErrNotFound
	}
	r.data[service.ID] = *service
	return nil
}

func (r *ServiceRepository) GetByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	service, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &service, nil
}

func (r *ServiceRepository) List(_ context.Context, page repository.Page) ([]domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Service, 0, len(r.data))
	for _, service := range r.data {
		result = append(result, service)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return paginate(result, page), nil
}

func paginate[T any](items []T, page repository.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	start := max(page.Offset, 0)
	if start >= len(items) {
		return []T{}
	}
	end := min(start+page.Limit, len(items))
	return items[start:end]
}
