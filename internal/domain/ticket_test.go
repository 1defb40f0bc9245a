package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

var ticketNow = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

func newTicket(t *testing.T, technicianID *string) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(domain.NewTicketParams{
		CustomerID:   "customer-1",
		CategoryID:   "category-1",
		ServiceIDs:   []string{"service-1"},
		Description:  "broken screen",
		TechnicianID: technicianID,
		Now:          ticketNow,
	})
	require.NoError(t, err)
	return ticket
}

func TestNewTicket_AssignmentFollowsTechnician(t *testing.T) {
	pendent := newTicket(t, nil)
	assert.Equal(t, domain.TicketStatusOpen, pendent.Status)
	assert.Equal(t, domain.AssignmentPendent, pendent.AssignmentStatus)
	assert.Nil(t, pendent.TechnicianID)
	assert.False(t, pendent.IsAssigned())

	techID := "tech-1"
	assigned := newTicket(t, &techID)
	assert.Equal(t, domain.AssignmentAssigned, assigned.AssignmentStatus)
	require.NotNil(t, assigned.TechnicianID)
	assert.True(t, assigned.IsAssignedTo("tech-1"))
	assert.False(t, assigned.IsAssignedTo("tech-2"))
}

func TestNewTicket_RequiresServices(t *testing.T) {
	_, err := domain.NewTicket(domain.NewTicketParams{
		CustomerID: "customer-1",
		CategoryID: "category-1",
		Now:        ticketNow,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestTicket_AdvanceStatusForwardOnly(t *testing.T) {
	ticket := newTicket(t, nil)

	from, err := ticket.AdvanceStatus(ticketNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, from)
	assert.Equal(t, domain.TicketStatusBeingHandled, ticket.Status)

	from, err = ticket.AdvanceStatus(ticketNow.Add(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusBeingHandled, from)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)

	updatedAt := ticket.UpdatedAt
	_, err = ticket.AdvanceStatus(ticketNow.Add(3 * time.Minute))
	assert.ErrorIs(t, err, apperrors.ErrTicketClosed)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	assert.Equal(t, updatedAt, ticket.UpdatedAt)
}

func TestInteraction_CloseOnce(t *testing.T) {
	interaction := domain.NewInteraction("ticket-1", "tech-1", ticketNow)
	assert.True(t, interaction.IsOpen())
	assert.Equal(t, domain.TicketStatusBeingHandled, interaction.Status)

	require.NoError(t, interaction.Close(ticketNow.Add(time.Hour)))
	assert.False(t, interaction.IsOpen())
	require.NotNil(t, interaction.ClosedAt)

	assert.ErrorIs(t, interaction.Close(ticketNow.Add(2*time.Hour)), apperrors.ErrInteractionClosed)
	assert.Equal(t, ticketNow.Add(time.Hour), *interaction.ClosedAt)
}
