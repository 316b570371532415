package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexusnu/webclient/internal/app/models/dto"
	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

// ErrorStatus maps an error to the status code, error code and default
// message the client shows for it.
func ErrorStatus(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"
	case errors.Is(err, apperrors.ErrSelfAction):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "You cannot do that to yourself"
	case errors.Is(err, apperrors.ErrEventFull):
		return http.StatusConflict, dto.ErrorCodeConflict, "This event is full"
	case errors.Is(err, apperrors.ErrConfirmationRequired):
		return http.StatusBadRequest, dto.ErrorCodeConfirmationRequired, "Please confirm this action"
	case errors.Is(err, apperrors.ErrSendInFlight):
		return http.StatusConflict, dto.ErrorCodeBusy, "A message is already being sent"
	case errors.Is(err, apperrors.ErrNoSelection):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Select a conversation first"
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict, "Conflict"
	case errors.Is(err, apperrors.ErrJobAPIKeyMissing):
		return http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, "Job search is not configured"
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, dto.ErrorCodeExternalServiceError, "Job search rate limit reached, try again later"
	case errors.Is(err, apperrors.ErrTransport), errors.Is(err, apperrors.ErrMalformedResponse):
		return http.StatusBadGateway, dto.ErrorCodeBackendUnavailable, "The server is unreachable, try again later"
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "The server could not complete the request"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}

// HandleAPIError writes err as a JSON error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, code, fallback := ErrorStatus(err)
	errorDetail := dto.NewErrorDetail(code, apperrors.UserMessage(err, fallback))

	var validation *apperrors.ValidationError
	if errors.As(err, &validation) && validation.Field != "" {
		errorDetail = errorDetail.WithField(validation.Field)
	}
	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
