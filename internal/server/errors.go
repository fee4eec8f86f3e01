package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sabaispa/sabai/internal/auth"
	"github.com/sabaispa/sabai/internal/authorization"
	bookingdomain "github.com/sabaispa/sabai/internal/booking/domain"
	catalogdomain "github.com/sabaispa/sabai/internal/catalog/domain"
	"github.com/sabaispa/sabai/internal/commission"
	loandomain "github.com/sabaispa/sabai/internal/loan/domain"
	orderdomain "github.com/sabaispa/sabai/internal/order/domain"
	paymentdomain "github.com/sabaispa/sabai/internal/payment/domain"
	settingsdomain "github.com/sabaispa/sabai/internal/settings/domain"
	settlementdomain "github.com/sabaispa/sabai/internal/settlement/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: "invalid value",
				},
			},
		}
	}

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	if status >= 500 {
		return "server_error", payload.Type
	}
	return "client_error", payload.Type
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, bookingdomain.ErrInvalidID),
		errors.Is(err, bookingdomain.ErrInvalidInput),
		errors.Is(err, bookingdomain.ErrImmutableField),
		errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, orderdomain.ErrInvalidInput),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidPrice),
		errors.Is(err, catalogdomain.ErrInvalidStock),
		errors.Is(err, settlementdomain.ErrInvalidID),
		errors.Is(err, settlementdomain.ErrInvalidInput),
		errors.Is(err, settingsdomain.ErrInvalidValue),
		errors.Is(err, loandomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrInvalidPayload),
		errors.Is(err, commission.ErrInvalidInput):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, bookingdomain.ErrInvalidTransition),
		errors.Is(err, orderdomain.ErrInvalidTransition),
		errors.Is(err, orderdomain.ErrOutOfStock),
		errors.Is(err, catalogdomain.ErrSlugTaken),
		errors.Is(err, settingsdomain.ErrVersionConflict):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, bookingdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, settlementdomain.ErrNotFound),
		errors.Is(err, settingsdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if vErr := asValidationErrors(err); vErr != nil && len(vErr.Errors) > 0 {
		return vErr.Errors[0].Code
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}
