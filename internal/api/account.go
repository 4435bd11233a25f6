package api

import (
	"context"
	"net/http"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

// GetCurrentUser fetches the authenticated profile.
func (c *Client) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.getJSON(ctx, "/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates name and contact details.
func (c *Client) UpdateProfile(ctx context.Context, input domain.ProfileUpdate) error {
	return c.sendJSON(ctx, http.MethodPut, "/me/profile", input, nil)
}

// UpdateBanking updates the banking details printed on invoices.
func (c *Client) UpdateBanking(ctx context.Context, input domain.BankingDetails) error {
	return c.sendJSON(ctx, http.MethodPut, "/me/banking", input, nil)
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, input domain.PasswordChange) error {
	return c.sendJSON(ctx, http.MethodPost, "/me/change-password", input, nil)
}

// DeactivateAccount deactivates the account at the backend and clears the
// local session.
func (c *Client) DeactivateAccount(ctx context.Context) error {
	if err := c.sendJSON(ctx, http.MethodPost, "/me/deactivate", nil, nil); err != nil {
		return err
	}
	return c.tokens.Clear()
}
