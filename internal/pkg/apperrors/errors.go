package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Transport and backend errors
var (
	ErrTransport         = errors.New("backend unreachable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrValidationFailed  = errors.New("validation failed")
	ErrBadRequest        = errors.New("bad request")
	ErrConflict          = errors.New("conflict")
	ErrMalformedResponse = errors.New("malformed response")
)

// Job search errors
var (
	ErrJobAPIKeyMissing = errors.New("job search API key is not configured")
	ErrRateLimited      = errors.New("job search rate limit reached")
)

// Client-side errors
var (
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrSendInFlight         = errors.New("a message is already being sent")
	ErrSelfAction           = errors.New("cannot perform this action on yourself")
	ErrEventFull            = errors.New("event is full")
	ErrNoSelection          = errors.New("no conversation selected")
)

// APIError is a non-2xx answer from a remote API.
type APIError struct {
	Status  int
	Message string
	Err     error
}

// Error implements error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Status, http.StatusText(e.Status))
}

// Unwrap returns the sentinel matching the status code.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds an APIError and picks its sentinel from the status.
func NewAPIError(status int, message string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
		Err:     SentinelForStatus(status),
	}
}

// SentinelForStatus maps an HTTP status to the error taxonomy.
func SentinelForStatus(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidationFailed
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrResourceNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrBadRequest
	}
}

// UserMessage returns the message a remote API attached to err, or fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	return fallback
}

// ValidationError is a client-side form or input rejection.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// NewValidationError creates a ValidationError for a form field
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
