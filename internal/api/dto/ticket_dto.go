package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CategoryID  string   `json:"category_id" validate:"required"`
	ServiceIDs  []string `json:"service_ids" validate:"required,min=1,dive,required"`
	Description string   `json:"description" validate:"max=2000"`
}

// TicketSummary response.
type TicketSummary struct {
	ID               string                  `json:"id"`
	CustomerID       string                  `json:"customer_id"`
	TechnicianID     *string                 `json:"technician_id"`
	CategoryID       string                  `json:"category_id"`
	ServiceIDs       []string                `json:"service_ids"`
	Description      string                  `json:"description"`
	Status           domain.TicketStatus     `json:"status"`
	AssignmentStatus domain.AssignmentStatus `json:"assignment_status"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// BillingItemResponse is one priced line of a billing.
type BillingItemResponse struct {
	ID          string `json:"id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	PriceCents  int64  `json:"price_cents"`
}

// BillingResponse carries the frozen total of a ticket.
type BillingResponse struct {
	ID                  string                `json:"id"`
	TicketID            string                `json:"ticket_id"`
	Status              domain.BillingStatus  `json:"status"`
	TotalPriceCents     int64                 `json:"total_price_cents"`
	TotalPriceFormatted string                `json:"total_price_formatted"`
	Items               []BillingItemResponse `json:"items"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// InteractionResponse is one work session.
type InteractionResponse struct {
	ID           string              `json:"id"`
	TechnicianID string              `json:"technician_id"`
	Status       domain.TicketStatus `json:"status"`
	StartedAt    time.Time           `json:"started_at"`
	ClosedAt     *time.Time          `json:"closed_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Billing      *BillingResponse      `json:"billing"`
	Interactions []InteractionResponse `json:"interactions"`
}

// NewTicketSummary maps the domain ticket.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:               ticket.ID,
		CustomerID:       ticket.CustomerID,
		TechnicianID:     ticket.TechnicianID,
		CategoryID:       ticket.CategoryID,
		ServiceIDs:       ticket.ServiceIDs,
		Description:      ticket.Description,
		Status:           ticket.Status,
		AssignmentStatus: ticket.AssignmentStatus,
		CreatedAt:        ticket.CreatedAt,
		UpdatedAt:        ticket.UpdatedAt,
	}
}

// NewBillingResponse maps the domain billing. A nil billing maps to nil.
func NewBillingResponse(billing *domain.Billing) *BillingResponse {
	if billing == nil {
		return nil
	}
	items := make([]BillingItemResponse, 0, len(billing.Items))
	for _, item := range billing.Items {
		items = append(items, BillingItemResponse{
			ID:          item.ID,
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			PriceCents:  item.Price.Cents(),
		})
	}
	return &BillingResponse{
		ID:                  billing.ID,
		TicketID:            billing.TicketID,
		Status:              billing.Status,
		TotalPriceCents:     billing.TotalPrice.Cents(),
		TotalPriceFormatted: billing.TotalPrice.Format(),
		Items:               items,
		UpdatedAt:           billing.UpdatedAt,
	}
}

// NewTicketDetail maps a ticket with its billing and interactions.
func NewTicketDetail(ticket *domain.Ticket, billing *domain.Billing, interactions []domain.Interaction) TicketDetailResponse {
	sessions := make([]InteractionResponse, 0, len(interactions))
	for _, interaction := range interactions {
		sessions = append(sessions, InteractionResponse{
			ID:           interaction.ID,
			TechnicianID: interaction.TechnicianID,
			Status:       interaction.Status,
			StartedAt:    interaction.StartedAt,
			ClosedAt:     interaction.ClosedAt,
		})
	}
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(ticket),
		Billing:       NewBillingResponse(billing),
		Interactions:  sessions,
	}
}
