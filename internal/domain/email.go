package domain

import (
	"regexp"
	"strings"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Email is a validated e-mail address.
type Email string

// NewEmail validates the local@domain.tld shape.
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(value)
	if !emailPattern.MatchString(value) {
		return "", apperrors.NewInvalidInput("email", value)
	}
	return Email(value), nil
}

func (e Email) String() string {
	return string(e)
}
