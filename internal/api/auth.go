package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

// SignIn exchanges credentials for a token pair and stores it. A 401 maps to
// a terminal AuthError (wrong credentials); a deactivated account surfaces
// as *DeactivatedError so the UI can distinguish the two.
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	var pair domain.TokenPair
	err := c.sendJSON(ctx, http.MethodPost, pathSignIn, map[string]string{
		"email":    email,
		"password": password,
	}, &pair)
	if err != nil {
		return err
	}

	if err := c.tokens.Save(pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}
	return nil
}

// SignUp registers a new account. It does not sign the user in.
func (c *Client) SignUp(ctx context.Context, input domain.SignUpInput) error {
	return c.sendJSON(ctx, http.MethodPost, pathSignUp, input, nil)
}

// Logout clears both stored tokens. It is synchronous and never calls the
// backend.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// IsAuthenticated reports whether any credential is stored. An expired
// access token still counts: the next request will refresh it.
func (c *Client) IsAuthenticated() bool {
	access, err := c.tokens.Access()
	if err == nil && access != "" {
		return true
	}
	refresh, err := c.tokens.Refresh()
	return err == nil && refresh != ""
}
