package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// Encrypter turns an authenticated subject into a bearer token.
type Encrypter interface {
	Encrypt(subjectID string, role domain.Role) (string, time.Time, error)
}

// Session is the result of a successful login.
type Session struct {
	Token              string
	ExpiresAt          time.Time
	Role               domain.Role
	SubjectID          string
	MustUpdatePassword bool
}

// SessionService authenticates every kind of account.
type SessionService struct {
	accounts   Accounts
	encrypter  Encrypter
	bcryptCost int
	logger     *zap.Logger
	clock      Clock
}

func NewSessionService(accounts Accounts, encrypter Encrypter, bcryptCost int, logger *zap.Logger, clock Clock) *SessionService {
	return &SessionService{
		accounts:   accounts,
		encrypter:  encrypter,
		bcryptCost: bcryptCost,
		logger:     orNop(logger),
		clock:      orNow(clock),
	}
}

// credential is the common shape of a stored account.
type credential struct {
	id                 string
	role               domain.Role
	password           domain.Password
	deleted            bool
	mustUpdatePassword bool
}

// Authenticate checks email and password against admins, technicians and
// customers in that order. Unknown, soft deleted and mismatching accounts all
// fail with the same INVALID_CREDENTIALS error.
func (s *SessionService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	account, err := s.findCredential(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil || account.deleted || !account.password.Matches(password) {
		s.logger.Debug("authentication rejected", zap.String("email", email))
		return nil, apperrors.NewInvalidCredentials()
	}

	token, expiresAt, err := s.encrypter.Encrypt(account.id, account.role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("session created", zap.String("subject_id", account.id), zap.String("role", string(account.role)))
	return &Session{
		Token:              token,
		ExpiresAt:          expiresAt,
		Role:               account.role,
		SubjectID:          account.id,
		MustUpdatePassword: account.mustUpdatePassword,
	}, nil
}

func (s *SessionService) findCredential(ctx context.Context, email string) (*credential, error) {
	admin, err := s.accounts.Admins.GetByEmail(ctx, email)
	if err == nil {
		return &credential{id: admin.ID, role: domain.RoleAdmin, password: admin.Password()}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	technician, err := s.accounts.Technicians.GetByEmail(ctx, email)
	if err == nil {
		return &credential{
			id:                 technician.ID,
			role:               domain.RoleTechnician,
			password:           technician.Password(),
			deleted:            technician.IsDeleted(),
			mustUpdatePassword: technician.MustUpdatePassword,
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	customer, err := s.accounts.Customers.GetByEmail(ctx, email)
	if err == nil {
		return &credential{
			id:       customer.ID,
			role:     domain.RoleCustomer,
			password: customer.Password(),
			deleted:  customer.IsDeleted(),
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}

// VerifyActor confirms the token subject still exists and was not soft
// deleted after the token was issued.
func (s *SessionService) VerifyActor(ctx context.Context, actor domain.Actor) error {
	var (
		deleted bool
		err     error
	)
	switch actor.Role {
	case domain.RoleAdmin:
		_, err = s.accounts.Admins.GetByID(ctx, actor.ID)
	case domain.RoleTechnician:
		var technician *domain.Technician
		if technician, err = s.accounts.Technicians.GetByID(ctx, actor.ID); err == nil {
			deleted = technician.IsDeleted()
		}
	case domain.RoleCustomer:
		var customer *domain.Customer
		if customer, err = s.accounts.Customers.GetByID(ctx, actor.ID); err == nil {
			deleted = customer.IsDeleted()
		}
	default:
		return apperrors.NewUnauthorized("unknown role")
	}
	if errors.Is(err, repository.ErrNotFound) || deleted {
		return apperrors.NewUnauthorized("account no longer active")
	}
	return err
}

// EnsureAdmin seeds an administrator unless one already uses email. An e-mail
// held by a technician or a customer fails USER_WITH_SAME_EMAIL.
func (s *SessionService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	address, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	existing, err := s.accounts.Admins.GetByEmail(ctx, address.String())
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if err := s.accounts.ensureEmailFree(ctx, address); err != nil {
		return nil, err
	}
	hashed, err := domain.NewPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	admin := &domain.Admin{
		Entity:       domain.Entity{ID: domain.NewID()},
		Name:         strings.TrimSpace(name),
		Email:        address,
		PasswordHash: hashed.Hash(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Admins.Create(ctx, admin); err != nil {
		return nil, createError(err, address)
	}
	s.logger.Info("bootstrap admin ensured", zap.String("admin_id", admin.ID))
	return admin, nil
}
