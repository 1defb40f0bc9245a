package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/persistence"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// TechnicianService manages the technician roster: admin creation, self
// registration, profile updates and removal.
type TechnicianService struct {
	accounts   Accounts
	tx         persistence.Transactor
	bcryptCost int
	logger     *zap.Logger
	clock      Clock
}

// TechnicianDependencies bundles collaborators for the technician service.
type TechnicianDependencies struct {
	Accounts   Accounts
	Transactor persistence.Transactor
	BcryptCost int
	Logger     *zap.Logger
	Clock      Clock
}

// CreateTechnicianInput carries the raw registration data.
type CreateTechnicianInput struct {
	Name         string
	Email        string
	Password     string
	Availability []domain.WorkScheduleInput
}

// UpdateTechnicianProfileInput replaces a technician's profile. Availability
// is always replaced as a whole.
type UpdateTechnicianProfileInput struct {
	ProfileInput
	Availability []domain.WorkScheduleInput
}

func NewTechnicianService(deps TechnicianDependencies) *TechnicianService {
	tx := deps.Transactor
	if tx == nil {
		tx = persistence.InlineTransactor{}
	}
	return &TechnicianService{
		accounts:   deps.Accounts,
		tx:         tx,
		bcryptCost: deps.BcryptCost,
		logger:     orNop(deps.Logger),
		clock:      orNow(deps.Clock),
	}
}

// CreateTechnician registers a technician on behalf of an admin.
func (s *TechnicianService) CreateTechnician(ctx context.Context, actor domain.Actor, input CreateTechnicianInput) (*domain.Technician, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.createTechnician(ctx, input, "admin")
}

// RegisterTechnician is the public sign up for technicians.
func (s *TechnicianService) RegisterTechnician(ctx context.Context, input CreateTechnicianInput) (*domain.Technician, error) {
	return s.createTechnician(ctx, input, "self")
}

// createTechnician always sets MustUpdatePassword: the first password is
// considered temporary whoever chose it.
func (s *TechnicianService) createTechnician(ctx context.Context, input CreateTechnicianInput, origin string) (*domain.Technician, error) {
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

	now := s.clock()
	technician := &domain.Technician{
		Entity:             domain.Entity{ID: domain.NewID()},
		Name:               name,
		Email:              email,
		PasswordHash:       password.Hash(),
		MustUpdatePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	technician.Availability, err = domain.BuildWorkSchedules(technician.ID, input.Availability)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	if err := s.accounts.Technicians.Create(ctx, technician); err != nil {
		return nil, createError(err, email)
	}
	s.logger.Info("technician created",
		zap.String("technician_id", technician.ID),
		zap.String("origin", origin),
		zap.Int("schedules", len(technician.Availability)))
	return technician, nil
}

// UpdateTechnicianProfile lets an admin, or the technician themself, replace
// name, e-mail, password and availability.
func (s *TechnicianService) UpdateTechnicianProfile(ctx context.Context, actor domain.Actor, id string, input UpdateTechnicianProfileInput) (*domain.Technician, error) {
	switch {
	case actor.Is(domain.RoleAdmin):
	case actor.Is(domain.RoleTechnician) && actor.ID == id:
	default:
		return nil, apperrors.NewNotAllowed("technicians can only update their own profile")
	}

	var technician *domain.Technician
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		technician, err = s.accounts.Technicians.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, "technician", id)
		}
		if technician.IsDeleted() {
			return apperrors.NewAlreadyDeleted("technician", map[string]any{"id": id})
		}

		change, err := s.accounts.prepareProfile(ctx, technician.Email, input.ProfileInput, s.bcryptCost)
		if err != nil {
			return err
		}
		availability, err := domain.BuildWorkSchedules(technician.ID, input.Availability)
		if err != nil {
			return err
		}

		now := s.clock()
		if change.password != nil {
			technician.ChangePassword(input.Password, *change.password, now)
		}
		technician.UpdateProfile(change.name, change.email, availability, now)
		if err := s.accounts.Technicians.Update(ctx, technician); err != nil {
			return updateError(err, "technician", id, change.email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("technician profile updated",
		zap.String("technician_id", id),
		zap.String("actor_id", actor.ID),
		zap.Bool("must_update_password", technician.MustUpdatePassword),
		zap.Int("schedules", len(technician.Availability)))
	return technician, nil
}

func (s *TechnicianService) SoftDeleteTechnician(ctx context.Context, actor domain.Actor, id string) error {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}
	technician, err := s.accounts.Technicians.GetByID(ctx, id)
	if err != nil {
		return lookupError(err, "technician", id)
	}
	if err := technician.SoftDelete(s.clock()); err != nil {
		return err
	}
	if err := s.accounts.Technicians.Update(ctx, technician); err != nil {
		return lookupError(err, "technician", id)
	}
	s.logger.Info("technician deleted", zap.String("technician_id", id))
	return nil
}

// ListTechnicians returns every technician, soft deleted ones included.
func (s *TechnicianService) ListTechnicians(ctx context.Context, actor domain.Actor) ([]domain.Technician, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.accounts.Technicians.List(ctx)
}
