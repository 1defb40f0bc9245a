package domain

import "time"

// Technician performs the work behind tickets.
type Technician struct {
	Entity
	Name               string
	Email              Email
	PasswordHash       string
	MustUpdatePassword bool
	Availability       []WorkSchedule
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

// IsDeleted reports whether the technician was soft deleted.
func (t *Technician) IsDeleted() bool {
	return t.DeletedAt != nil
}

// SoftDelete stamps DeletedAt once.
func (t *Technician) SoftDelete(now time.Time) error {
	if t.IsDeleted() {
		return alreadyDeleted("technician", t.ID)
	}
	t.DeletedAt = &now
	t.UpdatedAt = now
	return nil
}

// WorksAt reports whether any schedule covers the given weekday and time.
func (t *Technician) WorksAt(day Weekday, at TimeOfDay) bool {
	for _, schedule := range t.Availability {
		if schedule.Covers(day, at) {
			return true
		}
	}
	return false
}

// Password returns the stored credential.
func (t *Technician) Password() Password {
	return PasswordFromHash(t.PasswordHash)
}

// UpdateProfile replaces the contact data and the whole weekly availability.
func (t *Technician) UpdateProfile(name string, email Email, availability []WorkSchedule, now time.Time) {
	t.Name = name
	t.Email = email
	t.Availability = availability
	t.UpdatedAt = now
}

// ChangePassword stores hashed, the bcrypt form of plain. Choosing a password
// other than the current one clears MustUpdatePassword.
func (t *Technician) ChangePassword(plain string, hashed Password, now time.Time) {
	if !t.Password().Matches(plain) {
		t.MustUpdatePassword = false
	}
	t.PasswordHash = hashed.Hash()
	t.UpdatedAt = now
}
