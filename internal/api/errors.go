package api

import "fmt"

// AuthError reports an authorization failure at the backend. Terminal means
// the session cannot be recovered by a token refresh: wrong credentials, a
// rejected refresh token, or a 401 from an auth endpoint itself.
type AuthError struct {
	Terminal bool
	Message  string
	Cause    error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// DeactivatedError is the backend's 403-with-flag response: the account
// exists and the credentials were right, but the account was deactivated.
// Kept distinct from AuthError so the UI can say so.
type DeactivatedError struct {
	Message string
}

func (e *DeactivatedError) Error() string {
	if e.Message == "" {
		return "account deactivated"
	}
	return fmt.Sprintf("account deactivated: %s", e.Message)
}

// ValidationError carries per-field messages from a backend 400/422.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s (%d field errors)", e.Message, len(e.Fields))
}

// APIError is any other non-2xx backend response, propagated unchanged.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// errorBody is the backend's error envelope. Deactivation is signalled by a
// flag in the payload rather than a dedicated status code.
type errorBody struct {
	Error       string            `json:"error"`
	Message     string            `json:"message"`
	Deactivated bool              `json:"deactivated"`
	Errors      map[string]string `json:"errors"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
