package domain

import (
	"time"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// BillingStatus enumerates billing lifecycle states.
type BillingStatus string

const (
	BillingStatusOpen      BillingStatus = "open"
	BillingStatusClosed    BillingStatus = "closed"
	BillingStatusCancelled BillingStatus = "cancelled"
)

// BillingItem snapshots a service price at billing time.
type BillingItem struct {
	Entity
	BillingID   string
	ServiceID   string
	ServiceName string
	Price       Money
	CreatedAt   time.Time
}

// NewBillingItem copies the current name and price of service.
func NewBillingItem(service Service, now time.Time) BillingItem {
	return BillingItem{
		Entity:      newEntity(""),
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Price:       service.Price,
		CreatedAt:   now,
	}
}

// Billing is the financial record of a ticket.
type Billing struct {
	Entity
	TicketID   string
	Status     BillingStatus
	Items      []BillingItem
	TotalPrice Money
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBillingParams carries the inputs of NewBilling. Status defaults to open.
type NewBillingParams struct {
	ID       string
	TicketID string
	Status   BillingStatus
	Items    []BillingItem
	Now      time.Time
}

// NewBilling binds items to the billing and computes the total right away.
func NewBilling(p NewBillingParams) *Billing {
	status := p.Status
	if status == "" {
		status = BillingStatusOpen
	}
	billing := &Billing{
		Entity:    newEntity(p.ID),
		TicketID:  p.TicketID,
		Status:    status,
		Items:     make([]BillingItem, len(p.Items)),
		CreatedAt: p.Now,
		UpdatedAt: p.Now,
	}
	copy(billing.Items, p.Items)
	for i := range billing.Items {
		billing.Items[i].BillingID = billing.ID
	}
	billing.RecalculateTotal()
	return billing
}

// RecalculateTotal recomputes TotalPrice from Items. Every mutation of Items
// must be followed by a call.
func (b *Billing) RecalculateTotal() {
	prices := make([]Money, 0, len(b.Items))
	for _, item := range b.Items {
		prices = append(prices, item.Price)
	}
	b.TotalPrice = TotalOf(prices)
}

// AddItem appends an item and keeps the total in sync.
func (b *Billing) AddItem(item BillingItem) {
	item.BillingID = b.ID
	b.Items = append(b.Items, item)
	b.RecalculateTotal()
}

func (b *Billing) IsOpen() bool {
	return b.Status == BillingStatusOpen
}

// Close settles an open billing.
func (b *Billing) Close(now time.Time) error {
	return b.transition(BillingStatusClosed, now)
}

// Cancel voids an open billing.
func (b *Billing) Cancel(now time.Time) error {
	return b.transition(BillingStatusCancelled, now)
}

func (b *Billing) transition(to BillingStatus, now time.Time) error {
	if !b.IsOpen() {
		return apperrors.NewConflict("billing is not open", map[string]any{
			"billing_id": b.ID,
			"status":     b.Status,
			"target":     to,
		})
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}

