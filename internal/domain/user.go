package domain

import (
	"time"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// Customer is the end-user who opens tickets.
type Customer struct {
	Entity
	Name         string
	Email        Email
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (c *Customer) IsDeleted() bool {
	return c.DeletedAt != nil
}

// SoftDelete stamps DeletedAt once.
func (c *Customer) SoftDelete(now time.Time) error {
	if c.IsDeleted() {
		return alreadyDeleted("customer", c.ID)
	}
	c.DeletedAt = &now
	c.UpdatedAt = now
	return nil
}

func (c *Customer) Password() Password {
	return PasswordFromHash(c.PasswordHash)
}

// Admin manages the catalog and the staff.
type Admin struct {
	Entity
	Name         string
	Email        Email
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Admin) Password() Password {
	return PasswordFromHash(a.PasswordHash)
}

func alreadyDeleted(resource, id string) error {
	return apperrors.NewAlreadyDeleted(resource, map[string]any{"id": id})
}

// UpdateProfile replaces the contact data. A nil password keeps the current one.
func (c *Customer) UpdateProfile(name string, email Email, password *Password, now time.Time) {
	c.Name = name
	c.Email = email
	if password != nil {
		c.PasswordHash = password.Hash()
	}
	c.UpdatedAt = now
}
