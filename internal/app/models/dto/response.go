package dto

import "time"

// APIResponse is the envelope of the client's own JSON endpoints
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// SuccessResponse represents a plain acknowledgement
type SuccessResponse struct {
	Message string `json:"message"`
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
	}
}
