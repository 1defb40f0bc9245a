package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
)

// InteractionRepository stores interactions in memory and rejects a second
// open interaction for the same ticket.
type InteractionRepository struct {
	mu   sync.RWMutex
	data map[string]domain.Interaction
}

func NewInteractionRepository() *InteractionRepository {
	return &InteractionRepository{data: make(map[string]domain.Interaction)}
}

func (r *InteractionRepository) Create(_ context.Context, interaction *domain.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[interaction.ID]; exists {
		return repository.ErrConflict
	}
	if interaction.IsOpen() {
		for _, existing := range r.data {
			if existing.TicketID == interaction.TicketID && existing.IsOpen() {
				return repository.ErrConflict
			}
		}
	}
	r.data[interaction.ID] = *interaction
	return nil
}

func (r *InteractionRepository) Update(_ context.Context, interaction *domain.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[interaction.ID]; !exists {
		return repository.ErrNotFound
	}
	r.data[interaction.ID] = *interaction
	return nil
}

func (r *InteractionRepository) FindLastOpenByTicketID(_ context.Context, ticketID string) (*domain.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var last *domain.Interaction
	for _, interaction := range r.data {
		if interaction.TicketID != ticketID || !interaction.IsOpen() {
			continue
		}
		if last == nil || interaction.StartedAt.After(last.StartedAt) {
			found := interaction
			last = &found
		}
	}
	if last == nil {
		return nil, repository.ErrNotFound
	}
	return last, nil
}

func (r *InteractionRepository) ListByTicketID(_ context.Context, ticketID string) ([]domain.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Interaction, 0)
	for _, interaction := range r.data {
		if interaction.TicketID == ticketID {
			result = append(result, interaction)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.Before(result[j].StartedAt) })
	return result, nil
}
