package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hutamy/go-invoice-frontend/internal/api"
)

func runMiddleware(t *testing.T, target string, accept string, handlerErr error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(Middleware())
	e.GET(target, func(c echo.Context) error { return handlerErr })

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_NoError(t *testing.T) {
	rec := runMiddleware(t, "/ok", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_AuthErrorRedirectsBrowser(t *testing.T) {
	rec := runMiddleware(t, "/invoices", "text/html", &api.AuthError{Terminal: true, Message: "session over"})
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestMiddleware_AuthErrorOnAPIRouteIsJSON(t *testing.T) {
	rec := runMiddleware(t, "/api/preview", "", &api.AuthError{Message: "expired"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeAuth, body.Type)
}

func TestMiddleware_ValidationErrorIncludesFields(t *testing.T) {
	rec := runMiddleware(t, "/api/clients", "", &api.ValidationError{
		Message: "invalid input",
		Fields:  map[string]string{"name": "is required"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "is required", body.Fields["name"])
}

func TestMiddleware_UnknownErrorIs500(t *testing.T) {
	rec := runMiddleware(t, "/api/boom", "", assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddleware_EchoHTTPErrorPassesThrough(t *testing.T) {
	rec := runMiddleware(t, "/api/csrf", "", echo.NewHTTPError(http.StatusForbidden, "bad csrf token"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
