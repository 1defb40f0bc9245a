package domain

import (
	"time"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// Interaction is one technician work session on a ticket. It is opened when
// the ticket starts being handled and closed when the ticket closes.
type Interaction struct {
	Entity
	TicketID     string
	TechnicianID string
	Status       TicketStatus
	StartedAt    time.Time
	ClosedAt     *time.Time
}

// NewInteraction opens a session at now.
func NewInteraction(ticketID, technicianID string, now time.Time) *Interaction {
	return &Interaction{
		Entity:       newEntity(""),
		TicketID:     ticketID,
		TechnicianID: technicianID,
		Status:       TicketStatusBeingHandled,
		StartedAt:    now,
	}
}

func (i *Interaction) IsOpen() bool {
	return i.ClosedAt == nil
}

// Close stamps ClosedAt. Closing twice fails.
func (i *Interaction) Close(now time.Time) error {
	if !i.IsOpen() {
		return apperrors.NewInteractionClosed(i.ID)
	}
	i.ClosedAt = &now
	return nil
}
