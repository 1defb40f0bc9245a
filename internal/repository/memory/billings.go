package memory

import (
	"context"
	"sync"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// BillingRepository stores billings in memory, keyed by ticket.
type BillingRepository struct {
	mu       sync.RWMutex
	byTicket map[string]domain.Billing
}

func NewBillingRepository() *BillingRepository {
	return &BillingRepository{byTicket: make(map[string]domain.Billing)}
}

func cloneBilling(billing domain.Billing) domain.Billing {
	billing.Items = append([]domain.BillingItem(nil), billing.Items...)
	return billing
}

func (r *BillingRepository) Create(_ context.Context, billing *domain.Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byTicket[billing.TicketID]; exists {
		return repository.ErrConflict
	}
	r.byTicket[billing.TicketID] = cloneBilling(*billing)
	return nil
}

func (r *BillingRepository) Update(_ context.Context, billing *domain.Billing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.byTicket[billing.TicketID]
	if !exists || stored.ID != billing.ID {
		return repository.ErrNotFound
	}
	r.byTicket[billing.TicketID] = cloneBilling(*billing)
	return nil
}

func (r *BillingRepository) GetByTicketID(_ context.Context, ticketID string) (*domain.Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	billing, ok := r.byTicket[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	billing = cloneBilling(billing)
	return &billing, nil
}

func (r *BillingRepository) ListOpenByTicketIDs(_ context.Context, ticketIDs []string) ([]domain.Billing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Billing, 0)
	for _, ticketID := range ticketIDs {
		billing, ok := r.byTicket[ticketID]
		if ok && billing.IsOpen() {
			result = append(result, cloneBilling(billing))
		}
	}
	return result, nil
}

// Len returns the number of stored billings.
func (r *BillingRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTicket)
}
