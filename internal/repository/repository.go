package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/servicedesk/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict is returned when a write loses a race: a stale ticket
	// version, a second open interaction or a duplicated unique key.
	ErrConflict = errors.New("repository: conflict")
)

// Page bounds list queries. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// CategoryRepository persists catalog categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// ServiceRepository persists catalog services, soft deleted ones included.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, page Page) ([]domain.Service, error)
}

// TechnicianRepository persists technicians with their work schedules.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.Technician) error
	Update(ctx context.Context, technician *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	GetByEmail(ctx context.Context, email string) (*domain.Technician, error)
	List(ctx context.Context) ([]domain.Technician, error)
}

// CustomerRepository persists customers. List includes soft deleted ones.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context, page Page) ([]domain.Customer, error)
}

// AdminRepository persists administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// TicketFilter narrows ticket listings. Nil fields match everything.
type TicketFilter struct {
	CustomerID   *string
	TechnicianID *string
	Status       *domain.TicketStatus
	Page         Page
}

// TicketRepository persists tickets. Update succeeds only when the stored
// version equals ticket.Version and bumps it, otherwise ErrConflict.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

// InteractionRepository persists work sessions. Create fails with ErrConflict
// when the ticket already has an open interaction.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.Interaction) error
	Update(ctx context.Context, interaction *domain.Interaction) error
	FindLastOpenByTicketID(ctx context.Context, ticketID string) (*domain.Interaction, error)
	ListByTicketID(ctx context.Context, ticketID string) ([]domain.Interaction, error)
}

// BillingRepository persists billings with their items.
type BillingRepository interface {
	Create(ctx context.Context, billing *domain.Billing) error
	Update(ctx context.Context, billing *domain.Billing) error
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Billing, error)
	ListOpenByTicketIDs(ctx context.Context, ticketIDs []string) ([]domain.Billing, error)
}

const pgUniqueViolation = "23505"

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	return err
}
