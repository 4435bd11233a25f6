package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hutamy/go-invoice-frontend/internal/metrics"
)

// awaitRefresh coordinates the single-flight token refresh. The first caller
// of a failure burst becomes the leader: it flips the in-flight flag while
// holding the lock, so a concurrent 401 can never race a second refresh
// call. Later callers enqueue a buffered channel and suspend; the leader
// fans the shared outcome out to them in FIFO order. Each released caller
// then replays its own request independently.
func (c *Client) awaitRefresh(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			// The shared refresh keeps running; only this caller gives up.
			// Its buffered channel still receives the outcome, unread.
			return ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	err := c.refreshOnce(ctx)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	metrics.TokenRefreshWaiters.Observe(float64(len(waiters)))
	for _, ch := range waiters {
		ch <- err
	}
	return err
}

// refreshOnce exchanges the stored refresh token for a new access token.
// Any failure is terminal for the session: it is never retried, tokens are
// cleared and the auth-failure hook fires.
func (c *Client) refreshOnce(ctx context.Context) error {
	refresh, err := c.tokens.Refresh()
	if err != nil {
		return fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refresh == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		c.terminateSession()
		return &AuthError{Terminal: true, Message: "no refresh token stored"}
	}

	data, err := c.attempt(ctx, http.MethodPost, pathRefresh, map[string]string{"refresh_token": refresh})
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		c.terminateSession()
		return &AuthError{Terminal: true, Message: "token refresh rejected", Cause: err}
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &out); err != nil || out.AccessToken == "" {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		c.terminateSession()
		return &AuthError{Terminal: true, Message: "malformed refresh response", Cause: err}
	}

	if err := c.tokens.SetAccess(out.AccessToken); err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		c.terminateSession()
		return &AuthError{Terminal: true, Message: "failed to store refreshed token", Cause: err}
	}

	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	return nil
}

// terminateSession clears the stored token pair and fires the auth-failure
// hook. Reached at most once per refresh attempt, so the redirect side
// effect cannot double-fire within one failure burst.
func (c *Client) terminateSession() {
	if err := c.tokens.Clear(); err != nil {
		slog.Warn("Failed to clear tokens after refresh failure", "error", err)
	}
	metrics.ForcedLogoutsTotal.Inc()
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}
