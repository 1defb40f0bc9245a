package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/events"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

func TestBilling_SettleAndCancel(t *testing.T) {
	f := newFixture()
	fx := openAssignedTicket(t, f)
	billing := f.billingService()
	ctx := context.Background()

	_, err := billing.SettleBilling(ctx, customerActor, fx.ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAllowed)
	_, err = billing.SettleBilling(ctx, adminActor, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	settled, err := billing.SettleBilling(ctx, adminActor, fx.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BillingStatusClosed, settled.Status)

	_, err = billing.CancelBilling(ctx, adminActor, fx.ticket.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := f.billings.GetByTicketID(ctx, fx.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BillingStatusClosed, stored.Status)
	assert.Contains(t, f.recorded.types(), events.EventBillingStatusChanged)
}

func TestBilling_Cancel(t *testing.T) {
	f := newFixture()
	fx := openAssignedTicket(t, f)

	cancelled, err := f.billingService().CancelBilling(context.Background(), adminActor, fx.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BillingStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.IsOpen())
}
