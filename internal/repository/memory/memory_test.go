package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
)

var now = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

func openTicket(t *testing.T, customerID string) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(domain.NewTicketParams{
		CustomerID: customerID,
		CategoryID: "category-1",
		ServiceIDs: []string{"service-1"},
		Now:        now,
	})
	require.NoError(t, err)
	return ticket
}

func TestTicketRepository_OptimisticVersion(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()
	ticket := openTicket(t, "customer-1")
	require.NoError(t, repo.Create(ctx, ticket))
	assert.Equal(t, 1, ticket.Version)

	first, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)

	_, err = first.AdvanceStatus(now)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	_, err = second.AdvanceStatus(now)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, second), repository.ErrConflict)

	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusBeingHandled, stored.Status)
}

func TestTicketRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()
	ticket := openTicket(t, "customer-1")
	require.NoError(t, repo.Create(ctx, ticket))

	ticket.ServiceIDs[0] = "mutated"
	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"service-1"}, stored.ServiceIDs)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketRepository_ListWithFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, openTicket(t, "customer-1")))
	}
	require.NoError(t, repo.Create(ctx, openTicket(t, "customer-2")))

	customerID := "customer-1"
	tickets, err := repo.ListWithFilter(ctx, repository.TicketFilter{CustomerID: &customerID})
	require.NoError(t, err)
	assert.Len(t, tickets, 3)

	paged, err := repo.ListWithFilter(ctx, repository.TicketFilter{Page: repository.Page{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Len(t, paged, 2)

	empty, err := repo.ListWithFilter(ctx, repository.TicketFilter{Page: repository.Page{Limit: 2, Offset: 10}})
	require.NoError(t, err)
	assert.Empty(t, empty)

	open, err := repo.ListByStatus(ctx, domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Len(t, open, 4)
}

func TestInteractionRepository_SingleOpenPerTicket(t *testing.T) {
	ctx := context.Background()
	repo := NewInteractionRepository()

	first := domain.NewInteraction("ticket-1", "tech-1", now)
	require.NoError(t, repo.Create(ctx, first))
	assert.ErrorIs(t, repo.Create(ctx, domain.NewInteraction("ticket-1", "tech-1", now)), repository.ErrConflict)
	require.NoError(t, repo.Create(ctx, domain.NewInteraction("ticket-2", "tech-1", now)))

	open, err := repo.FindLastOpenByTicketID(ctx, "ticket-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, open.ID)

	require.NoError(t, open.Close(now.Add(time.Hour)))
	require.NoError(t, repo.Update(ctx, open))

	_, err = repo.FindLastOpenByTicketID(ctx, "ticket-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, repo.Create(ctx, domain.NewInteraction("ticket-1", "tech-1", now.Add(2*time.Hour))))

	all, err := repo.ListByTicketID(ctx, "ticket-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBillingRepository_ListOpenByTicketIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewBillingRepository()

	open := domain.NewBilling(domain.NewBillingParams{TicketID: "ticket-1", Now: now})
	closed := domain.NewBilling(domain.NewBillingParams{TicketID: "ticket-2", Now: now})
	require.NoError(t, closed.Close(now))
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, closed))
	assert.ErrorIs(t, repo.Create(ctx, domain.NewBilling(domain.NewBillingParams{TicketID: "ticket-1", Now: now})), repository.ErrConflict)

	billings, err := repo.ListOpenByTicketIDs(ctx, []string{"ticket-1", "ticket-2", "ticket-3"})
	require.NoError(t, err)
	require.Len(t, billings, 1)
	assert.Equal(t, open.ID, billings[0].ID)
}

func TestServiceRepository_ListKeepsDeleted(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceRepository()
	for _, name := range []string{"Battery", "Screen"} {
		service, err := domain.NewService("admin-1", domain.ServiceDetails{CategoryID: "c", Name: name, Price: "10"}, now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, service))
		if name == "Screen" {
			require.NoError(t, service.SoftDelete(now))
			require.NoError(t, repo.Update(ctx, service))
		}
	}

	services, err := repo.List(ctx, repository.Page{})
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Battery", services[0].Name)
	assert.False(t, services[0].IsDeleted())
	assert.Equal(t, "Screen", services[1].Name)
	assert.True(t, services[1].IsDeleted())

	paged, err := repo.List(ctx, repository.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Screen", paged[0].Name)
}
