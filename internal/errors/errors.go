// Package errors provides structured error handling with HTTP status
// mapping for the web layer, including the translation of backend API
// client errors into user-facing conditions.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hutamy/go-invoice-frontend/internal/api"
)

// ErrorType represents the category of error for metrics and response formatting.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeAuth indicates a rejected or expired session (HTTP 401)
	TypeAuth ErrorType = "auth"
	// TypeDeactivated indicates a deactivated account (HTTP 403)
	TypeDeactivated ErrorType = "deactivated"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeRateLimited indicates a throttled request (HTTP 429)
	TypeRateLimited ErrorType = "rate_limited"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
	// TypeExternal indicates a backend/upstream failure (HTTP 502)
	TypeExternal ErrorType = "external"
)

// Error is a structured error with type, message, and context fields.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  map[string]string
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuth:
		return http.StatusUnauthorized
	case TypeDeactivated:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a new validation error (HTTP 400).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// AuthError creates a new auth error (HTTP 401).
func AuthError(message string) *Error {
	return &Error{Type: TypeAuth, Message: message}
}

// NotFoundError creates a new not-found error (HTTP 404).
func NotFoundError(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

// RateLimitedError creates a new throttled-request error (HTTP 429).
func RateLimitedError(message string) *Error {
	return &Error{Type: TypeRateLimited, Message: message}
}

// InternalError creates a new internal error (HTTP 500).
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// ExternalError creates a new upstream-failure error (HTTP 502).
func ExternalError(message string, cause error) *Error {
	return &Error{Type: TypeExternal, Message: message, Cause: cause}
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON structure sent to API callers.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Type   ErrorType         `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

// ToResponse converts an Error to its JSON form.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type, Fields: e.Fields}
}

// FromBackend translates an api client error into a structured Error so the
// web layer renders the right condition: expired sessions redirect to login,
// deactivated accounts get their own message, validation errors keep their
// field map, and everything else is an upstream failure.
func FromBackend(err error) *Error {
	var authErr *api.AuthError
	if errors.As(err, &authErr) {
		return &Error{Type: TypeAuth, Message: authErr.Message, Cause: err}
	}

	var deactivated *api.DeactivatedError
	if errors.As(err, &deactivated) {
		return &Error{Type: TypeDeactivated, Message: deactivated.Error(), Cause: err}
	}

	var validation *api.ValidationError
	if errors.As(err, &validation) {
		return &Error{Type: TypeValidation, Message: validation.Message, Fields: validation.Fields, Cause: err}
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound {
			return &Error{Type: TypeNotFound, Message: apiErr.Message, Cause: err}
		}
		return &Error{Type: TypeExternal, Message: apiErr.Message, Cause: err}
	}

	return &Error{Type: TypeExternal, Message: "backend unavailable", Cause: err}
}

// AsStructuredError converts any error into a structured Error. Backend
// client errors are translated; anything else wraps as internal.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	var authErr *api.AuthError
	var deactivated *api.DeactivatedError
	var validation *api.ValidationError
	var apiErr *api.APIError
	if errors.As(err, &authErr) || errors.As(err, &deactivated) || errors.As(err, &validation) || errors.As(err, &apiErr) {
		return FromBackend(err)
	}

	return InternalError("internal server error", err)
}
