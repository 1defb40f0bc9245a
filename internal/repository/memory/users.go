package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// TechnicianRepository stores technicians in memory.
type TechnicianRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Technician
}

func NewTechnicianRepository() *TechnicianRepository {
	return &TechnicianRepository{data: make(map[string]domain.Technician)}
}

func cloneTechnician(technician domain.Technician) domain.Technician {
	technician.Availability = append([]domain.WorkSchedule(nil), technician.Availability...)
	if technician.DeletedAt != nil {
		deletedAt := *technician.DeletedAt
		technician.DeletedAt = &deletedAt
	}
	return technician
}

func (r *TechnicianRepository) Create(_ context.Context, technician *domain.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.ID == technician.ID || existing.Email == technician.Email {
			return repository.ErrConflict
		}
	}
	r.data[technician.ID] = cloneTechnician(*technician)
	return nil
}

func (r *TechnicianRepository) Update(_ context.Context, technician *domain.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[technician.ID]; !exists {
		return repository.ErrNotFound
	}
	r.data[technician.ID] = cloneTechnician(*technician)
	return nil
}

func (r *TechnicianRepository) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	technician, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	technician = cloneTechnician(technician)
	return &technician, nil
}

func (r *TechnicianRepository) GetByEmail(_ context.Context, email string) (*domain.Technician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, technician := range r.data {
		if technician.Email.String() == email {
			technician = cloneTechnician(technician)
			return &technician, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *TechnicianRepository) List(_ context.Context) ([]domain.Technician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Technician, 0, len(r.data))
	for _, technician := range r.data {
		result = append(result, cloneTechnician(technician))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// CustomerRepository stores customers in memory.
type CustomerRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{data: make(map[string]domain.Customer)}
}

func (r *CustomerRepository) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.ID == customer.ID || existing.Email == customer.Email {
			return repository.ErrConflict
		}
	}
	r.data[customer.ID] = *customer
	return nil
}

func (r *CustomerRepository) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[customer.ID]; !exists {
		return repository.ErrNotFound
	}
	r.data[customer.ID] = *customer
	return nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &customer, nil
}

func (r *CustomerRepository) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, customer := range r.data {
		if customer.Email.String() == email {
			return &customer, nil
		}
	}
	return nil, repository.ErrNotFound
}

// List orders customers by creation time, then id.
func (r *CustomerRepository) List(_ context.Context, page repository.Page) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Customer, 0, len(r.data))
	for _, customer := range r.data {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return paginate(result, page), nil
}

// AdminRepository stores administrators in memory.
type AdminRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Admin
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{data: make(map[string]domain.Admin)}
}

// Create ignores an admin whose e-mail is already stored.
func (r *AdminRepository) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.data {
		if existing.Email == admin.Email {
			return nil
		}
	}
	r.data[admin.ID] = *admin
	return nil
}

func (r *AdminRepository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admin, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &admin, nil
}

func (r *AdminRepository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, admin := range r.data {
		if admin.Email.String() == email {
			return &admin, nil
		}
	}
	return nil, repository.ErrNotFound
}
