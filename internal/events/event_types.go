package events

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketAssigned       EventType = "ticket_assigned"
	EventTicketStatusChanged  EventType = "ticket_status_changed"
	EventBillingStatusChanged EventType = "billing_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role domain.Role `json:"role"`
	ID   string      `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CustomerID       string                  `json:"customer_id"`
	CategoryID       string                  `json:"category_id"`
	ServiceIDs       []string                `json:"service_ids"`
	AssignmentStatus domain.AssignmentStatus `json:"assignment_status"`
	TotalPriceCents  int64                   `json:"total_price_cents"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID string `json:"technician_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus     domain.TicketStatus `json:"old_status"`
	NewStatus     domain.TicketStatus `json:"new_status"`
	InteractionID string              `json:"interaction_id"`
}

// BillingStatusChangedPayload payload.
type BillingStatusChangedPayload struct {
	BillingID string               `json:"billing_id"`
	OldStatus domain.BillingStatus `json:"old_status"`
	NewStatus domain.BillingStatus `json:"new_status"`
}
