package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes surfaced to callers.
const (
	CodeNotAllowed         = "NOT_ALLOWED"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT_DATA"
	CodeTicketNotAssigned  = "TICKET_NOT_ASSIGNED_TO_A_TECHNICIAN"
	CodeTicketClosed       = "TICKET_STATUS_CANNOT_BE_CHANGED_WHEN_CLOSED"
	CodeInteractionClosed  = "INTERACTION_ALREADY_CLOSED"
	CodeAlreadyDeleted     = "RESOURCE_ALREADY_DELETED"
	CodeUnpaidBillings     = "CUSTOMER_HAS_UNPAID_BILLINGS"
	CodeEmailAlreadyTaken  = "USER_WITH_SAME_EMAIL"
	CodeConflict           = "CONFLICT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// Sentinels for errors.Is checks. Matching is done on Code only.
var (
	ErrNotAllowed         = &DomainError{Code: CodeNotAllowed}
	ErrNotFound           = &DomainError{Code: CodeNotFound}
	ErrInvalidInput       = &DomainError{Code: CodeInvalidInput}
	ErrTicketNotAssigned  = &DomainError{Code: CodeTicketNotAssigned}
	ErrTicketClosed       = &DomainError{Code: CodeTicketClosed}
	ErrInteractionClosed  = &DomainError{Code: CodeInteractionClosed}
	ErrAlreadyDeleted     = &DomainError{Code: CodeAlreadyDeleted}
	ErrUnpaidBillings     = &DomainError{Code: CodeUnpaidBillings}
	ErrEmailAlreadyTaken  = &DomainError{Code: CodeEmailAlreadyTaken}
	ErrConflict           = &DomainError{Code: CodeConflict}
	ErrUnauthorized       = &DomainError{Code: CodeUnauthorized}
	ErrInvalidCredentials = &DomainError{Code: CodeInvalidCredentials}
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewInvalidInput reports a value object that failed validation.
func NewInvalidInput(field string, value any) error {
	return NewDomainError(CodeInvalidInput, fmt.Sprintf("invalid %s", field), http.StatusBadRequest, map[string]any{
		"field": field,
		"value": value,
	})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewNotAllowed(message string) error {
	return NewDomainError(CodeNotAllowed, message, http.StatusForbidden, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewTicketNotAssigned(ticketID string) error {
	return NewDomainError(CodeTicketNotAssigned, "ticket is not assigned to a technician yet", http.StatusConflict,
		map[string]any{"ticket_id": ticketID})
}

func NewTicketClosed(ticketID string) error {
	return NewDomainError(CodeTicketClosed, "ticket is already closed, its status can not be changed", http.StatusConflict,
		map[string]any{"ticket_id": ticketID})
}

func NewInteractionClosed(interactionID string) error {
	return NewDomainError(CodeInteractionClosed, "interaction already closed", http.StatusConflict,
		map[string]any{"interaction_id": interactionID})
}

func NewAlreadyDeleted(resource string, details map[string]any) error {
	return NewDomainError(CodeAlreadyDeleted, fmt.Sprintf("%s already deleted", resource), http.StatusConflict, details)
}

func NewUnpaidBillings(customerID string) error {
	return NewDomainError(CodeUnpaidBillings, "customer has at least one unpaid billing", http.StatusConflict,
		map[string]any{"customer_id": customerID})
}

func NewEmailAlreadyTaken(email string) error {
	return NewDomainError(CodeEmailAlreadyTaken, "user with same e-mail already exists", http.StatusConflict,
		map[string]any{"email": email})
}

func NewTooManyRequests() error {
	return NewDomainError(CodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		if domainErr.HTTPStatus == 0 {
			// bare sentinel
			clone := *domainErr
			clone.HTTPStatus = http.StatusInternalServerError
			return &clone
		}
		return domainErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

// MapError is ToDomainError returning a plain error, nil-safe.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
