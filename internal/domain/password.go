package domain

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

const (
	// MinPasswordLength is the shortest accepted plaintext password.
	MinPasswordLength = 6
	// DefaultPasswordCost is the bcrypt cost used when none is configured.
	DefaultPasswordCost = 8
)

// Password holds a bcrypt hash. The plaintext never leaves NewPassword.
type Password struct {
	hash string
}

// NewPassword hashes plain with the given bcrypt cost.
func NewPassword(plain string, cost int) (Password, error) {
	if len(plain) < MinPasswordLength {
		return Password{}, apperrors.NewDomainError(apperrors.CodeInvalidInput,
			"password too short", http.StatusBadRequest,
			map[string]any{"field": "password", "min_length": MinPasswordLength})
	}
	if cost <= 0 {
		cost = DefaultPasswordCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: string(hashed)}, nil
}

// PasswordFromHash wraps an already hashed value loaded from storage.
func PasswordFromHash(hash string) Password {
	return Password{hash: hash}
}

// Hash returns the stored bcrypt hash.
func (p Password) Hash() string {
	return p.hash
}

// Matches verifies plain against the hash.
func (p Password) Matches(plain string) bool {
	if p.hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}
