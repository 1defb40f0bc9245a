package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

func newService(t *testing.T, name, price string) *domain.Service {
	t.Helper()
	service, err := domain.NewService("admin-1", domain.ServiceDetails{
		CategoryID: "category-1",
		Name:       name,
		Price:      price,
	}, ticketNow)
	require.NoError(t, err)
	return service
}

func TestNewBilling_ComputesTotalFromItems(t *testing.T) {
	screen := newService(t, "Screen", "150,00")
	battery := newService(t, "Battery", "89,90")

	billing := domain.NewBilling(domain.NewBillingParams{
		TicketID: "ticket-1",
		Items: []domain.BillingItem{
			domain.NewBillingItem(*screen, ticketNow),
			domain.NewBillingItem(*battery, ticketNow),
		},
		Now: ticketNow,
	})

	assert.Equal(t, domain.BillingStatusOpen, billing.Status)
	assert.Equal(t, int64(23990), billing.TotalPrice.Cents())
	for _, item := range billing.Items {
		assert.Equal(t, billing.ID, item.BillingID)
	}
}

func TestBilling_ItemsSnapshotServicePrice(t *testing.T) {
	screen := newService(t, "Screen", "150,00")
	billing := domain.NewBilling(domain.NewBillingParams{
		TicketID: "ticket-1",
		Items:    []domain.BillingItem{domain.NewBillingItem(*screen, ticketNow)},
		Now:      ticketNow,
	})

	require.NoError(t, screen.Update(domain.ServiceDetails{
		CategoryID: screen.CategoryID,
		Name:       "Screen",
		Price:      "999,99",
	}, ticketNow.Add(time.Hour)))

	assert.Equal(t, int64(99999), screen.Price.Cents())
	assert.Equal(t, int64(15000), billing.Items[0].Price.Cents())
	assert.Equal(t, int64(15000), billing.TotalPrice.Cents())
}

func TestBilling_TotalOnlyMovesWithRecalculate(t *testing.T) {
	screen := newService(t, "Screen", "150,00")
	billing := domain.NewBilling(domain.NewBillingParams{
		TicketID: "ticket-1",
		Items:    []domain.BillingItem{domain.NewBillingItem(*screen, ticketNow)},
		Now:      ticketNow,
	})

	billing.Items = append(billing.Items, domain.NewBillingItem(*screen, ticketNow))
	assert.Equal(t, int64(15000), billing.TotalPrice.Cents())

	billing.RecalculateTotal()
	assert.Equal(t, int64(30000), billing.TotalPrice.Cents())

	billing.AddItem(domain.NewBillingItem(*screen, ticketNow))
	assert.Equal(t, int64(45000), billing.TotalPrice.Cents())
	assert.Equal(t, billing.ID, billing.Items[2].BillingID)
}

func TestBilling_CloseAndCancel(t *testing.T) {
	later := ticketNow.Add(time.Hour)

	closed := domain.NewBilling(domain.NewBillingParams{TicketID: "ticket-1", Now: ticketNow})
	require.NoError(t, closed.Close(later))
	assert.Equal(t, domain.BillingStatusClosed, closed.Status)
	assert.Equal(t, later, closed.UpdatedAt)
	assert.ErrorIs(t, closed.Cancel(later), apperrors.ErrConflict)

	cancelled := domain.NewBilling(domain.NewBillingParams{TicketID: "ticket-2", Now: ticketNow})
	require.NoError(t, cancelled.Cancel(later))
	assert.Equal(t, domain.BillingStatusCancelled, cancelled.Status)
	assert.ErrorIs(t, cancelled.Close(later), apperrors.ErrConflict)
}

func TestService_UpdateAndSoftDelete(t *testing.T) {
	service := newService(t, "Screen", "150,00")

	err := service.Update(domain.ServiceDetails{CategoryID: "category-1", Name: "Screen", Price: "x"}, ticketNow)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, int64(15000), service.Price.Cents())

	require.NoError(t, service.SoftDelete(ticketNow))
	assert.ErrorIs(t, service.SoftDelete(ticketNow), apperrors.ErrAlreadyDeleted)
	assert.ErrorIs(t, service.Update(domain.ServiceDetails{CategoryID: "c", Name: "n", Price: "1"}, ticketNow), apperrors.ErrAlreadyDeleted)
}
