package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
)

const interactionColumns = `id, ticket_id, technician_id, status, started_at, closed_at`

type interactionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository instantiates the repository. The partial unique
// index on open interactions turns a second open session into ErrConflict.
func NewInteractionRepository(pool *pgxpool.Pool) InteractionRepository {
	return &interactionRepository{pool: pool}
}

func (r *interactionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        INSERT INTO interactions (id, ticket_id, technician_id, status, started_at, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		interaction.ID,
		interaction.TicketID,
		interaction.TechnicianID,
		interaction.Status,
		interaction.StartedAt,
		interaction.ClosedAt,
	)
	return translate(err)
}

func (r *interactionRepository) Update(ctx context.Context, interaction *domain.Interaction) error {
	const query = `UPDATE interactions SET status=$1, closed_at=$2 WHERE id=$3`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		interaction.Status,
		interaction.ClosedAt,
		interaction.ID,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *interactionRepository) FindLastOpenByTicketID(ctx context.Context, ticketID string) (*domain.Interaction, error) {
	const query = `
        SELECT ` + interactionColumns + ` FROM interactions
        WHERE ticket_id=$1 AND closed_at IS NULL
        ORDER BY started_at DESC LIMIT 1`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	interaction, err := pgx.CollectOneRow(rows, scanInteraction)
	if err != nil {
		return nil, translate(err)
	}
	return &interaction, nil
}

func (r *interactionRepository) ListByTicketID(ctx context.Context, ticketID string) ([]domain.Interaction, error) {
	const query = `SELECT ` + interactionColumns + ` FROM interactions WHERE ticket_id=$1 ORDER BY started_at`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanInteraction)
}

func scanInteraction(row pgx.CollectableRow) (domain.Interaction, error) {
	var interaction domain.Interaction
	err := row.Scan(
		&interaction.ID,
		&interaction.TicketID,
		&interaction.TechnicianID,
		&interaction.Status,
		&interaction.StartedAt,
		&interaction.ClosedAt,
	)
	return interaction, err
}
