package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hutamy/go-invoice-frontend/internal/metrics"
	"github.com/hutamy/go-invoice-frontend/internal/token"
)

// Auth endpoints never trigger the refresh protocol: a 401 from them means
// the credentials themselves were rejected, and refreshing would recurse.
const (
	pathSignIn  = "/auth/sign-in"
	pathSignUp  = "/auth/sign-up"
	pathRefresh = "/auth/refresh-token"
)

const defaultTimeout = 10 * time.Second

// Client issues requests to the invoice backend with bearer-token
// attachment and single-flight token refresh. Construct one per session via
// New and share it by reference; the zero value is not usable.
type Client struct {
	baseURL       string
	http          *http.Client
	tokens        token.Store
	onAuthFailure func()

	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
}

// Options configures a Client. Tokens and BaseURL are required.
type Options struct {
	BaseURL string
	Tokens  token.Store
	// HTTPClient overrides the default 10s-timeout client, e.g. to install
	// the circuit-breaker transport.
	HTTPClient *http.Client
	// OnAuthFailure fires exactly once per failed refresh, after stored
	// tokens are cleared. The web layer uses it to force a re-login.
	OnAuthFailure func()
}

// New creates a backend client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		http:          httpClient,
		tokens:        opts.Tokens,
		onAuthFailure: opts.OnAuthFailure,
	}
}

// call performs one request with at most one transparent refresh-and-replay.
// The returned bytes are the raw response body (JSON or binary PDF).
func (c *Client) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	data, err := c.attempt(ctx, method, path, payload)
	if err == nil {
		return data, nil
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) || authErr.Terminal {
		// Everything except a recoverable 401 propagates unchanged.
		return nil, err
	}

	if refreshErr := c.awaitRefresh(ctx); refreshErr != nil {
		return nil, refreshErr
	}

	// Replay once with the refreshed access token.
	return c.attempt(ctx, method, path, payload)
}

// attempt sends a single request. The payload is marshalled fresh on every
// attempt so a replay never reuses a consumed body reader.
func (c *Client) attempt(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	access, err := c.tokens.Access()
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, decodeError(path, resp.StatusCode, data)
}

// decodeError maps a non-2xx response onto the client error taxonomy.
func decodeError(path string, status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)

	switch {
	case status == http.StatusUnauthorized:
		if isAuthPath(path) {
			return &AuthError{Terminal: true, Message: orDefault(body.text(), "credentials rejected")}
		}
		return &AuthError{Message: orDefault(body.text(), "access token expired")}
	case status == http.StatusForbidden && body.Deactivated:
		return &DeactivatedError{Message: body.text()}
	case (status == http.StatusBadRequest || status == http.StatusUnprocessableEntity) && len(body.Errors) > 0:
		return &ValidationError{Message: orDefault(body.text(), "invalid input"), Fields: body.Errors}
	default:
		return &APIError{Status: status, Message: orDefault(body.text(), http.StatusText(status))}
	}
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth/")
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// getJSON / sendJSON wrap call with JSON decoding of the response.

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	data, err := c.call(ctx, method, path, payload)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
