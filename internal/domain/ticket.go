package domain

import (
	"time"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "open"
	TicketStatusBeingHandled TicketStatus = "being_handled"
	TicketStatusClosed       TicketStatus = "closed"
)

// nextStatus is the forward-only lifecycle. Closed has no successor.
var nextStatus = map[TicketStatus]TicketStatus{
	TicketStatusOpen:         TicketStatusBeingHandled,
	TicketStatusBeingHandled: TicketStatusClosed,
}

// Next returns the successor of s, false when s is terminal or unknown.
func (s TicketStatus) Next() (TicketStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

// AssignmentStatus tells whether a technician is bound to the ticket.
type AssignmentStatus string

const (
	AssignmentAssigned AssignmentStatus = "assigned"
	AssignmentPendent  AssignmentStatus = "pendent"
)

// Ticket is the aggregate for service requests.
type Ticket struct {
	Entity
	CustomerID       string
	TechnicianID     *string
	CategoryID       string
	ServiceIDs       []string
	Description      string
	Status           TicketStatus
	AssignmentStatus AssignmentStatus
	Version          int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewTicketParams carries what is needed to open a ticket. A nil TechnicianID
// leaves the ticket pendent.
type NewTicketParams struct {
	ID           string
	CustomerID   string
	CategoryID   string
	ServiceIDs   []string
	Description  string
	TechnicianID *string
	Now          time.Time
}

// NewTicket opens a ticket. The assignment status is derived from the
// technician so the two can never disagree.
func NewTicket(p NewTicketParams) (*Ticket, error) {
	if p.CustomerID == "" {
		return nil, apperrors.NewInvalidInput("customer_id", p.CustomerID)
	}
	if p.CategoryID == "" {
		return nil, apperrors.NewInvalidInput("category_id", p.CategoryID)
	}
	if len(p.ServiceIDs) == 0 {
		return nil, apperrors.NewInvalidInput("service_ids", p.ServiceIDs)
	}
	ticket := &Ticket{
		Entity:           newEntity(p.ID),
		CustomerID:       p.CustomerID,
		CategoryID:       p.CategoryID,
		ServiceIDs:       append([]string(nil), p.ServiceIDs...),
		Description:      p.Description,
		Status:           TicketStatusOpen,
		AssignmentStatus: AssignmentPendent,
		CreatedAt:        p.Now,
		UpdatedAt:        p.Now,
	}
	if p.TechnicianID != nil && *p.TechnicianID != "" {
		ticket.Assign(*p.TechnicianID, p.Now)
	}
	return ticket, nil
}

// Assign binds a technician and flips the assignment status.
func (t *Ticket) Assign(technicianID string, now time.Time) {
	t.TechnicianID = &technicianID
	t.AssignmentStatus = AssignmentAssigned
	t.UpdatedAt = now
}

// IsAssigned reports whether a technician is bound.
func (t *Ticket) IsAssigned() bool {
	return t.TechnicianID != nil
}

// IsAssignedTo reports whether technicianID is the bound technician.
func (t *Ticket) IsAssignedTo(technicianID string) bool {
	return t.TechnicianID != nil && *t.TechnicianID == technicianID
}

func (t *Ticket) IsOwnedBy(customerID string) bool {
	return t.CustomerID == customerID
}

// AdvanceStatus moves the ticket to its next status and returns the previous
// one. A closed ticket is left untouched.
func (t *Ticket) AdvanceStatus(now time.Time) (TicketStatus, error) {
	from := t.Status
	next, ok := from.Next()
	if !ok {
		return from, apperrors.NewTicketClosed(t.ID)
	}
	t.Status = next
	t.UpdatedAt = now
	return from, nil
}
