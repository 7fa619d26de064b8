package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripdesk/internal/repository"
	"tripdesk/internal/service"
	"tripdesk/internal/validate"
)

const sessionHeader = "X-Session-ID"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// FieldErrorsResponse carries field-scoped validation errors back to the form.
type FieldErrorsResponse struct {
	Errors []FieldErrorInfo `json:"errors"`
}

// FieldErrorInfo is one field-level validation failure.
type FieldErrorInfo struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// sessionID extracts the browsing session id. Every cart and booking
// operation is scoped to one session.
func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader(sessionHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + sessionHeader + " header"})
		return "", false
	}
	return id, true
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	var fieldErr validate.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: fieldErr.Message, Field: fieldErr.Field})
		return
	}

	c.JSON(mapErrorToHTTPStatus(err), ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrAttemptNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidSessionID),
		errors.Is(err, service.ErrInvalidAttemptID),
		errors.Is(err, service.ErrInvalidItemType),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCurrency):
		return http.StatusBadRequest

	// Illegal step transitions
	case errors.Is(err, service.ErrNotInForm),
		errors.Is(err, service.ErrNotInPayment),
		errors.Is(err, service.ErrCheckoutInFlight):
		return http.StatusConflict

	// Authentication
	case errors.Is(err, service.ErrAuthenticationRequired),
		errors.Is(err, service.ErrReauthenticate):
		return http.StatusUnauthorized

	// Gateway failures - retryable
	case errors.Is(err, service.ErrGatewayUnavailable):
		return http.StatusBadGateway

	// Paid but not recorded - must stand out from a generic 500
	case errors.Is(err, service.ErrCheckoutNotRecorded):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
