package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
	"github.com/hutamy/go-invoice-frontend/internal/token"
)

func newClientWithStore(t *testing.T, handler http.Handler) (*Client, *token.MemoryStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := token.NewMemoryStore()
	return New(Options{BaseURL: server.URL, Tokens: store}), store
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client, store := newClientWithStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"id":"u-1"}`))
	}))
	require.NoError(t, store.Save("my-access", "my-refresh"))

	_, err := client.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer my-access", gotAuth)
}

func TestClient_NoBearerWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	client, _ := newClientWithStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))

	err := client.sendJSON(context.Background(), http.MethodGet, "/public/ping", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_DeactivatedAccountIsDistinct(t *testing.T) {
	client, store := newClientWithStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"account is deactivated","deactivated":true}`))
	}))
	require.NoError(t, store.Save("acc", "ref"))

	_, err := client.GetCurrentUser(context.Background())
	require.Error(t, err)

	var deactivated *DeactivatedError
	require.ErrorAs(t, err, &deactivated)
	assert.Contains(t, deactivated.Error(), "deactivated")
}

func TestClient_ValidationErrorCarriesFields(t *testing.T) {
	client, store := newClientWithStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid input","errors":{"email":"is required"}}`))
	}))
	require.NoError(t, store.Save("acc", "ref"))

	_, err := client.CreateClient(context.Background(), domain.ClientInput{Name: "Acme"})
	require.Error(t, err)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "is required", validation.Fields["email"])
}

func TestClient_ServerErrorPropagatesUnchanged(t *testing.T) {
	var calls atomic.Int64
	client, store := newClientWithStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	require.NoError(t, store.Save("acc", "ref"))

	_, err := client.GetCurrentUser(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.Equal(t, int64(1), calls.Load(), "no retry on non-401 failures")
}

func TestClient_NetworkErrorPropagates(t *testing.T) {
	store := token.NewMemoryStore()
	client := New(Options{BaseURL: "http://127.0.0.1:1", Tokens: store})

	_, err := client.GetCurrentUser(context.Background())
	require.Error(t, err)

	// Transport failures are not mapped onto the auth taxonomy.
	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_LogoutClearsTokensWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int64
	client, store := newClientWithStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	require.NoError(t, store.Save("acc", "ref"))
	require.True(t, client.IsAuthenticated())

	require.NoError(t, client.Logout())

	assert.False(t, client.IsAuthenticated())
	assert.Equal(t, int64(0), calls.Load())

	access, _ := store.Access()
	refresh, _ := store.Refresh()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestClient_IsAuthenticatedWithOnlyRefreshToken(t *testing.T) {
	store := token.NewMemoryStore()
	require.NoError(t, store.Save("", "still-have-refresh"))
	client := New(Options{BaseURL: "http://backend", Tokens: store})

	assert.True(t, client.IsAuthenticated())
}
