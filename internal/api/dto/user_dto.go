package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// SessionRequest payload for POST /sessions.
type SessionRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse standard response for login.
type SessionResponse struct {
	Token              string      `json:"token"`
	ExpiresAt          time.Time   `json:"expires_at"`
	Role               domain.Role `json:"role"`
	SubjectID          string      `json:"subject_id"`
	MustUpdatePassword bool        `json:"must_update_password"`
}

// CustomerRegisterRequest payload for new customers.
type CustomerRegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateCustomerProfileRequest payload for PUT /customers/:id. An empty
// password keeps the current one.
type UpdateCustomerProfileRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// CustomerResponse never carries the password hash.
type CustomerResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// NewCustomerResponse maps the domain customer.
func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email.String(),
		CreatedAt: customer.CreatedAt,
		DeletedAt: customer.DeletedAt,
	}
}
