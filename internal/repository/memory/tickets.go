package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// TicketRepository stores tickets in memory and applies the same optimistic
// version check as the postgres adapter.
type TicketRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Ticket
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{data: make(map[string]domain.Ticket)}
}

func cloneTicket(ticket domain.Ticket) domain.Ticket {
	ticket.ServiceIDs = append([]string(nil), ticket.ServiceIDs...)
	if ticket.TechnicianID != nil {
		technicianID := *ticket.TechnicianID
		ticket.TechnicianID = &technicianID
	}
	return ticket
}

func (r *TicketRepository) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[ticket.ID]; exists {
		return repository.ErrConflict
	}
	ticket.Version = 1
	r.data[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r *TicketRepository) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.data[ticket.ID]
	if !exists {
		return repository.ErrNotFound
	}
	if stored.Version != ticket.Version {
		return repository.ErrConflict
	}
	ticket.Version++
	r.data[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r *TicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.data[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	ticket = cloneTicket(ticket)
	return &ticket, nil
}

func (r *TicketRepository) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	return r.ListWithFilter(ctx, repository.TicketFilter{Status: &status})
}

func (r *TicketRepository) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Ticket, 0)
	for _, ticket := range r.data {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.TechnicianID != nil && !ticket.IsAssignedTo(*filter.TechnicianID) {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		result = append(result, cloneTicket(ticket))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return paginate(result, filter.Page), nil
}

// Len returns the number of stored tickets.
func (r *TicketRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
