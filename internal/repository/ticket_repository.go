package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
)

const ticketColumns = `
        t.id, t.customer_id, t.technician_id, t.category_id, t.description, t.status,
        t.assignment_status, t.version, t.created_at, t.updated_at,
        COALESCE(ARRAY(SELECT ts.service_id::text FROM ticket_services ts WHERE ts.ticket_id = t.id ORDER BY ts.position), '{}')`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, customer_id, technician_id, category_id, description, status, assignment_status, version, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,1,$8,$9)`
	q := persistence.QuerierFrom(ctx, r.pool)
	if _, err := q.Exec(ctx, query,
		ticket.ID,
		ticket.CustomerID,
		ticket.TechnicianID,
		ticket.CategoryID,
		ticket.Description,
		ticket.Status,
		ticket.AssignmentStatus,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	); err != nil {
		return translate(err)
	}
	for position, serviceID := range ticket.ServiceIDs {
		if _, err := q.Exec(ctx,
			`INSERT INTO ticket_services (ticket_id, service_id, position) VALUES ($1,$2,$3)`,
			ticket.ID, serviceID, position,
		); err != nil {
			return translate(err)
		}
	}
	ticket.Version = 1
	return nil
}

// Update writes the mutable columns when the stored version still matches.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets
        SET technician_id=$1, status=$2, assignment_status=$3, description=$4, updated_at=$5, version=version+1
        WHERE id=$6 AND version=$7`
	q := persistence.QuerierFrom(ctx, r.pool)
	cmd, err := q.Exec(ctx, query,
		ticket.TechnicianID,
		ticket.Status,
		ticket.AssignmentStatus,
		ticket.Description,
		ticket.UpdatedAt,
		ticket.ID,
		ticket.Version,
	)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tickets WHERE id=$1)`, ticket.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}
	ticket.Version++
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id=$1`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	ticket, err := pgx.CollectOneRow(rows, scanTicket)
	if err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	return r.ListWithFilter(ctx, TicketFilter{Status: &status})
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("t.customer_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("t.technician_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets t WHERE %s ORDER BY t.created_at DESC`,
		ticketColumns, strings.Join(clauses, " AND "))
	if filter.Page.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Page.Limit, max(filter.Page.Offset, 0))
	}

	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanTicket)
}

func scanTicket(row pgx.CollectableRow) (domain.Ticket, error) {
	var ticket domain.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.TechnicianID,
		&ticket.CategoryID,
		&ticket.Description,
		&ticket.Status,
		&ticket.AssignmentStatus,
		&ticket.Version,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ServiceIDs,
	)
	return ticket, err
}
