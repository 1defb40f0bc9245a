package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/servicedesk/internal/domain"
	"github.com/spec-kit/servicedesk/internal/repository"
	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// Accounts groups the three kinds of login-bearing records. An e-mail
// address identifies at most one account across all of them.
type Accounts struct {
	Admins      repository.AdminRepository
	Technicians repository.TechnicianRepository
	Customers   repository.CustomerRepository
}

// ensureEmailFree fails with USER_WITH_SAME_EMAIL when any account,
// soft deleted or not, already uses email.
func (a Accounts) ensureEmailFree(ctx context.Context, email domain.Email) error {
	lookups := []func(context.Context, string) error{
		func(ctx context.Context, email string) error {
			_, err := a.Admins.GetByEmail(ctx, email)
			return err
		},
		func(ctx context.Context, email string) error {
			_, err := a.Technicians.GetByEmail(ctx, email)
			return err
		},
		func(ctx context.Context, email string) error {
			_, err := a.Customers.GetByEmail(ctx, email)
			return err
		},
	}
	for _, lookup := range lookups {
		err := lookup(ctx, email.String())
		switch {
		case err == nil:
			return apperrors.NewEmailAlreadyTaken(email.String())
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
	}
	return nil
}

// createError maps a unique violation raised after ensureEmailFree passed.
func createError(err error, email domain.Email) error {
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewEmailAlreadyTaken(email.String())
	}
	return err
}

// ProfileInput is the editable part of a customer or technician profile. An
// empty Password keeps the current one.
type ProfileInput struct {
	Name     string
	Email    string
	Password string
}

// profileChange is a validated ProfileInput. password is nil when unchanged.
type profileChange struct {
	name     string
	email    domain.Email
	password *domain.Password
}

// prepareProfile validates input against the account's current e-mail. The
// uniqueness check only runs when the address actually changes.
func (a Accounts) prepareProfile(ctx context.Context, current domain.Email, input ProfileInput, bcryptCost int) (profileChange, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return profileChange{}, apperrors.NewInvalidInput("name", input.Name)
	}
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return profileChange{}, err
	}
	if email != current {
		if err := a.ensureEmailFree(ctx, email); err != nil {
			return profileChange{}, err
		}
	}
	change := profileChange{name: name, email: email}
	if input.Password != "" {
		password, err := domain.NewPassword(input.Password, bcryptCost)
		if err != nil {
			return profileChange{}, err
		}
		change.password = &password
	}
	return change, nil
}

// updateError maps a failed account update; a unique violation means another
// account grabbed the e-mail in between.
func updateError(err error, resource, id string, email domain.Email) error {
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewEmailAlreadyTaken(email.String())
	}
	return lookupError(err, resource, id)
}
