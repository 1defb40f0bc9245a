package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
)

const billingColumns = `id, ticket_id, status, created_at, updated_at`

type billingRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRepository instantiates the repository. The stored total is a
// denormalized copy; loaded billings recompute it from their items.
func NewBillingRepository(pool *pgxpool.Pool) BillingRepository {
	return &billingRepository{pool: pool}
}

func (r *billingRepository) Create(ctx context.Context, billing *domain.Billing) error {
	const query = `
        INSERT INTO billings (id, ticket_id, status, total_price_cents, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	const itemQuery = `
        INSERT INTO billing_items (id, billing_id, service_id, service_name, price_cents, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	q := persistence.QuerierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, query,
		billing.ID,
		billing.TicketID,
		billing.Status,
		billing.TotalPrice.Cents(),
		billing.CreatedAt,
		billing.UpdatedAt,
	); err != nil {
		return translate(err)
	}
	for _, item := range billing.Items {
		if _, err := q.Exec(ctx, itemQuery,
			item.ID,
			billing.ID,
			item.ServiceID,
			item.ServiceName,
			item.Price.Cents(),
			item.CreatedAt,
		); err != nil {
			return translate(err)
		}
	}
	return nil
}

func (r *billingRepository) Update(ctx context.Context, billing *domain.Billing) error {
	const query = `UPDATE billings SET status=$1, total_price_cents=$2, updated_at=$3 WHERE id=$4`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		billing.Status,
		billing.TotalPrice.Cents(),
		billing.UpdatedAt,
		billing.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *billingRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Billing, error) {
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx,
		`SELECT `+billingColumns+` FROM billings WHERE ticket_id=$1`, ticketID)
	if err != nil {
		return nil, err
	}
	billing, err := pgx.CollectOneRow(rows, scanBilling)
	if err != nil {
		return nil, translate(err)
	}
	billings := []domain.Billing{billing}
	if err := r.attachItems(ctx, billings); err != nil {
		return nil, err
	}
	return &billings[0], nil
}

func (r *billingRepository) ListOpenByTicketIDs(ctx context.Context, ticketIDs []string) ([]domain.Billing, error) {
	if len(ticketIDs) == 0 {
		return nil, nil
	}
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx,
		`SELECT `+billingColumns+` FROM billings WHERE status=$1 AND ticket_id = ANY($2::uuid[])`,
		domain.BillingStatusOpen, ticketIDs)
	if err != nil {
		return nil, err
	}
	billings, err := pgx.CollectRows(rows, scanBilling)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, billings); err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *billingRepository) attachItems(ctx context.Context, billings []domain.Billing) error {
	if len(billings) == 0 {
		return nil
	}
	ids := make([]string, len(billings))
	index := make(map[string]int, len(billings))
	for i, billing := range billings {
		ids[i] = billing.ID
		index[billing.ID] = i
	}

	const query = `
        SELECT id, billing_id, service_id, service_name, price_cents, created_at
        FROM billing_items WHERE billing_id = ANY($1::uuid[]) ORDER BY created_at, id`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item       domain.BillingItem
			priceCents int64
		)
		if err := rows.Scan(&item.ID, &item.BillingID, &item.ServiceID, &item.ServiceName, &priceCents, &item.CreatedAt); err != nil {
			return err
		}
		item.Price = domain.MoneyFromCents(priceCents)
		i := index[item.BillingID]
		billings[i].Items = append(billings[i].Items, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range billings {
		billings[i].RecalculateTotal()
	}
	return nil
}

func scanBilling(row pgx.CollectableRow) (domain.Billing, error) {
	var billing domain.Billing
	err := row.Scan(
		&billing.ID,
		&billing.TicketID,
		&billing.Status,
		&billing.CreatedAt,
		&billing.UpdatedAt,
	)
	return billing, err
}
