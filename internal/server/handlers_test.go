package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/hutamy/go-invoice-frontend/internal/api"
	"github.com/hutamy/go-invoice-frontend/internal/config"
	"github.com/hutamy/go-invoice-frontend/internal/domain"
	"github.com/hutamy/go-invoice-frontend/internal/token"
)

// --- Backend stub ---

// newBackendStub fakes the invoice backend with enough endpoints for the
// handler tests. Sign-in accepts user@example.com/secret; the deactivated
// account is flagged in the 403 payload.
func newBackendStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/sign-in", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))

		switch {
		case creds.Email == "deactivated@example.com":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"deactivated": true, "message": "account deactivated"}`))
		case creds.Email == "user@example.com" && creds.Password == "secret":
			_, _ = w.Write([]byte(`{"access_token": "access-1", "refresh_token": "refresh-1"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "invalid credentials"}`))
		}
	})

	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "u1", "name": "Ada", "email": "user@example.com", "banking": {}}`))
	})

	mux.HandleFunc("GET /invoices/summary", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"draft": {"count": 2, "amount": 9000},
			"sent": {"count": 1, "amount": 4500},
			"paid": {"count": 0, "amount": 0},
			"overdue": {"count": 0, "amount": 0},
			"cancelled": {"count": 0, "amount": 0}
		}`))
	})

	mux.HandleFunc("GET /invoices", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": [{
				"id": "inv-1", "number": "INV-001", "client_id": "c1",
				"client_name": "Acme", "status": "sent", "currency": "USD",
				"issue_date": "2026-08-01T00:00:00Z", "due_date": "2026-08-15T00:00:00Z",
				"items": [{"description": "Consulting", "quantity": 3, "unit_price": 1500, "total": 4500}],
				"subtotal": 4500, "tax": 0, "delivery_fee": 0, "total": 4500,
				"created_at": "2026-08-01T00:00:00Z", "updated_at": "2026-08-01T00:00:00Z"
			}],
			"pagination": {"page": 1, "page_size": 20, "total_items": 1, "total_pages": 1}
		}`))
	})

	mux.HandleFunc("POST /invoices/inv-1/pdf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.7 stub"))
	})

	mux.HandleFunc("POST /public/invoices/generate-pdf", func(w http.ResponseWriter, r *http.Request) {
		var inv domain.PublicInvoice
		require.NoError(t, json.NewDecoder(r.Body).Decode(&inv))
		require.Equal(t, inv.Subtotal+inv.Tax+inv.DeliveryFee, inv.Total)
		_, _ = w.Write([]byte("%PDF-1.7 public"))
	})

	mux.HandleFunc("GET /clients", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": [{"id": "c1", "name": "Acme", "email": "billing@acme.test",
				"created_at": "2026-08-01T00:00:00Z", "updated_at": "2026-08-01T00:00:00Z"}],
			"pagination": {"page": 1, "page_size": 20, "total_items": 1, "total_pages": 1}
		}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// --- Test helpers ---

type testEnv struct {
	srv     *Server
	manager *api.Manager
	stores  map[uuid.UUID]*token.MemoryStore
}

func newTestServer(t *testing.T, backendURL string) *testEnv {
	t.Helper()

	cfg := &config.Config{
		AppEnv:         "test",
		Port:           "0",
		BackendBaseURL: backendURL,
		SessionSecret:  "test-secret-key-32-bytes-long!!!",
		SessionMaxAge:  time.Hour,
		ClientIdleTTL:  time.Hour,
		PublicPDFRate:  100,
		PublicPDFBurst: 100,
	}

	stores := make(map[uuid.UUID]*token.MemoryStore)
	manager := api.NewManager(cfg.ClientIdleTTL, clockwork.NewRealClock(), func(sessionID uuid.UUID) *api.Client {
		store, ok := stores[sessionID]
		if !ok {
			store = token.NewMemoryStore()
			stores[sessionID] = store
		}
		return api.New(api.Options{BaseURL: backendURL, Tokens: store})
	})

	publicClient := api.New(api.Options{BaseURL: backendURL, Tokens: token.NewMemoryStore()})

	srv, err := NewServer(cfg, manager, publicClient, nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, manager: manager, stores: stores}
}

// signedInContext returns an echo context carrying an authenticated session,
// the way requireSession would leave it.
func (env *testEnv) signedInContext(t *testing.T, req *http.Request, rec *httptest.ResponseRecorder) (echo.Context, uuid.UUID) {
	t.Helper()

	sid := uuid.New()
	store := token.NewMemoryStore()
	require.NoError(t, store.Save("access-1", "refresh-1"))
	env.stores[sid] = store

	c := env.srv.echo.NewContext(req, rec)
	c.Set(ctxKeySessionID, sid)
	c.Set(ctxKeyClient, env.manager.Get(sid))
	return c, sid
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func sessionCookies(t *testing.T, env *testEnv, sid uuid.UUID) []*http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, err := env.srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeySessionID] = sid.String()
	require.NoError(t, session.Save(req, rec))
	return rec.Result().Cookies()
}
