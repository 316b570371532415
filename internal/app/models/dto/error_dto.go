package dto

import "time"

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrorCodeUnauthorized         ErrorCode = "AUTH_001"
	ErrorCodeForbidden            ErrorCode = "AUTH_002"
	ErrorCodeResourceNotFound     ErrorCode = "RES_001"
	ErrorCodeConflict             ErrorCode = "RES_002"
	ErrorCodeValidationFailed     ErrorCode = "VAL_001"
	ErrorCodeConfirmationRequired ErrorCode = "VAL_002"
	ErrorCodeBusy                 ErrorCode = "VAL_003"
	ErrorCodeInternalServer       ErrorCode = "SRV_001"
	ErrorCodeBackendUnavailable   ErrorCode = "SRV_002"
	ErrorCodeExternalServiceError ErrorCode = "SRV_003"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithField adds a field name to the error detail
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
