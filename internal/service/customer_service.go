package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// CustomerService handles customer sign up, profile changes and removal.
type CustomerService struct {
	accounts   Accounts
	tickets    repository.TicketRepository
	billings   repository.BillingRepository
	tx         persistence.Transactor
	bcryptCost int
	logger     *zap.Logger
	clock      Clock
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	Accounts    Accounts
	TicketRepo  repository.TicketRepository
	BillingRepo repository.BillingRepository
	Transactor  persistence.Transactor
	BcryptCost  int
	Logger      *zap.Logger
	Clock       Clock
}

// RegisterCustomerInput carries the sign up form.
type RegisterCustomerInput struct {
	Name     string
	Email    string
	Password string
}

func NewCustomerService(deps CustomerDependencies) *CustomerService {
	tx := deps.Transactor
	if tx == nil {
		tx = persistence.InlineTransactor{}
	}
	return &CustomerService{
		accounts:   deps.Accounts,
		tickets:    deps.TicketRepo,
		billings:   deps.BillingRepo,
		tx:         tx,
		bcryptCost: deps.BcryptCost,
		logger:     orNop(deps.Logger),
		clock:      orNow(deps.Clock),
	}
}

// RegisterCustomer is open to anonymous callers.
func (s *CustomerService) RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewInvalidInput("name", input.Name)
	}
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}
	password, err := domain.NewPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	now := s.clock()
	customer := &domain.Customer{
		Entity:       domain.Entity{ID: domain.NewID()},
		Name:         name,
		Email:        email,
		PasswordHash: password.Hash(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Customers.Create(ctx, customer); err != nil {
		return nil, createError(err, email)
	}
	s.logger.Info("customer registered", zap.String("customer_id", customer.ID))
	return customer, nil
}

// UpdateCustomerProfile lets an admin, or the customer themself, change name,
// e-mail and password.
func (s *CustomerService) UpdateCustomerProfile(ctx context.Context, actor domain.Actor, id string, input ProfileInput) (*domain.Customer, error) {
	switch {
	case actor.Is(domain.RoleAdmin):
	case actor.Is(domain.RoleCustomer) && actor.ID == id:
	default:
		return nil, apperrors.NewNotAllowed("customers can only update their own profile")
	}

	customer, err := s.accounts.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "customer", id)
	}
	if customer.IsDeleted() {
		return nil, apperrors.NewAlreadyDeleted("customer", map[string]any{"id": id})
	}
	change, err := s.accounts.prepareProfile(ctx, customer.Email, input, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	customer.UpdateProfile(change.name, change.email, change.password, s.clock())
	if err := s.accounts.Customers.Update(ctx, customer); err != nil {
		return nil, updateError(err, "customer", id, change.email)
	}
	s.logger.Info("customer profile updated", zap.String("customer_id", id), zap.String("actor_id", actor.ID))
	return customer, nil
}

// ListCustomers pages through every customer, soft deleted ones included.
func (s *CustomerService) ListCustomers(ctx context.Context, actor domain.Actor, page int) ([]domain.Customer, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.accounts.Customers.List(ctx, pageFor(page))
}

// SoftDeleteCustomer removes a customer without open billings. Admins may
// remove anyone; customers only themselves.
func (s *CustomerService) SoftDeleteCustomer(ctx context.Context, actor domain.Actor, id string) error {
	switch {
	case actor.Is(domain.RoleAdmin):
	case actor.Is(domain.RoleCustomer) && actor.ID == id:
	default:
		return apperrors.NewNotAllowed("customers can only delete their own account")
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.accounts.Customers.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "customer", id)
		}
		if customer.IsDeleted() {
			return apperrors.NewAlreadyDeleted("customer", map[string]any{"id": id})
		}

		tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{CustomerID: &id})
		if err != nil {
			return err
		}
		if len(tickets) > 0 {
			ids := make([]string, 0, len(tickets))
			for _, ticket := range tickets {
				ids = append(ids, ticket.ID)
			}
			open, err := s.billings.ListOpenByTicketIDs(ctx, ids)
			if err != nil {
				return err
			}
			if len(open) > 0 {
				return apperrors.NewUnpaidBillings(id)
			}
		}

		if err := customer.SoftDelete(s.clock()); err != nil {
			return err
		}
		if err := s.accounts.Customers.Update(ctx, customer); err != nil {
			return lookupError(err, "customer", id)
		}
		s.logger.Info("customer deleted", zap.String("customer_id", id), zap.String("actor_id", actor.ID))
		return nil
	})
}
