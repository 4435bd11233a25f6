package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hutamy/go-invoice-frontend/internal/token"
)

// --- requireSession tests ---

func TestRequireSession_NoCookieRedirectsToLogin(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestRequireSession_SessionWithoutTokensRedirects(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	// A valid cookie whose session never signed in has no stored tokens.
	sid := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, cookie := range sessionCookies(t, env, sid) {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestRequireSession_AuthenticatedSessionPasses(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	sid := uuid.New()
	store := token.NewMemoryStore()
	require.NoError(t, store.Save("access-1", "refresh-1"))
	env.stores[sid] = store

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, cookie := range sessionCookies(t, env, sid) {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada")
}

// --- sign-in tests ---

func TestHandleSignIn_Success(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	req := formRequest("/auth/login", url.Values{
		"email":    {"user@example.com"},
		"password": {"secret"},
	})
	rec := httptest.NewRecorder()
	c := env.srv.echo.NewContext(req, rec)

	err := env.srv.handleSignIn(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	// Exactly one session client was created and it holds the tokens.
	assert.Equal(t, 1, env.manager.Size())
	require.Len(t, env.stores, 1)
	for _, store := range env.stores {
		access, err := store.Access()
		require.NoError(t, err)
		assert.Equal(t, "access-1", access)
	}
}

func TestHandleSignIn_WrongCredentials(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	req := formRequest("/auth/login", url.Values{
		"email":    {"user@example.com"},
		"password": {"wrong"},
	})
	rec := httptest.NewRecorder()
	c := env.srv.echo.NewContext(req, rec)

	err := env.srv.handleSignIn(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	// The failed attempt must not leave a pooled client behind.
	assert.Equal(t, 0, env.manager.Size())
}

func TestHandleSignIn_DeactivatedAccountGetsDistinctMessage(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	req := formRequest("/auth/login", url.Values{
		"email":    {"deactivated@example.com"},
		"password": {"whatever"},
	})
	rec := httptest.NewRecorder()
	c := env.srv.echo.NewContext(req, rec)

	err := env.srv.handleSignIn(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "deactivated")
	assert.NotContains(t, rec.Body.String(), "Invalid email or password")
}

// --- logout tests ---

func TestHandleLogout_ClearsTokensAndSession(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	req := formRequest("/auth/logout", url.Values{})
	rec := httptest.NewRecorder()
	c, sid := env.signedInContext(t, req, rec)

	err := env.srv.handleLogout(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))

	assert.Equal(t, 0, env.manager.Size())
	access, err := env.stores[sid].Access()
	require.NoError(t, err)
	assert.Empty(t, access)
}

// --- login page tests ---

func TestHandleLoginPage_RendersForm(t *testing.T) {
	backend := newBackendStub(t)
	env := newTestServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	env.srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/auth/login"`)
	assert.Contains(t, rec.Body.String(), "csrf_token")
}
