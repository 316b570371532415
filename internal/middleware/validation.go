package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nexusnu/webclient/internal/pkg/apperrors"
)

// BindForm binds the request form into obj and turns binding-tag failures
// into a ValidationError naming the first offending field.
func BindForm(c *gin.Context, obj any) error {
	err := c.ShouldBind(obj)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		return apperrors.NewValidationError(first.Field(), formatValidationError(first))
	}
	return apperrors.NewValidationError("", "Invalid form data")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "email":
		return "Please enter a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " is invalid"
	}
}
