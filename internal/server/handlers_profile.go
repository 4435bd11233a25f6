package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hutamy/go-invoice-frontend/internal/api"
	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

func (s *Server) handleProfilePage(c echo.Context) error {
	user, err := currentClient(c).GetCurrentUser(c.Request().Context())
	if err != nil {
		return err
	}
	return s.render(c, http.StatusOK, "profile.html", map[string]any{"User": user})
}

func (s *Server) renderProfileError(c echo.Context, err error) error {
	var validationErr *api.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}

	user, userErr := currentClient(c).GetCurrentUser(c.Request().Context())
	if userErr != nil {
		return userErr
	}
	return s.render(c, http.StatusBadRequest, "profile.html", map[string]any{
		"User":   user,
		"Error":  validationErr.Message,
		"Fields": validationErr.Fields,
	})
}

func (s *Server) handleProfileUpdate(c echo.Context) error {
	input := domain.ProfileUpdate{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Email:   strings.TrimSpace(c.FormValue("email")),
		Phone:   strings.TrimSpace(c.FormValue("phone")),
		Address: strings.TrimSpace(c.FormValue("address")),
	}

	if err := currentClient(c).UpdateProfile(c.Request().Context(), input); err != nil {
		return s.renderProfileError(c, err)
	}
	return redirectTo(c, "/profile")
}

func (s *Server) handleBankingUpdate(c echo.Context) error {
	input := domain.BankingDetails{
		BankName:      strings.TrimSpace(c.FormValue("bank_name")),
		AccountName:   strings.TrimSpace(c.FormValue("account_name")),
		AccountNumber: strings.TrimSpace(c.FormValue("account_number")),
	}

	if err := currentClient(c).UpdateBanking(c.Request().Context(), input); err != nil {
		return s.renderProfileError(c, err)
	}
	return redirectTo(c, "/profile")
}

func (s *Server) handlePasswordChange(c echo.Context) error {
	input := domain.PasswordChange{
		OldPassword: c.FormValue("old_password"),
		NewPassword: c.FormValue("new_password"),
	}

	if err := currentClient(c).ChangePassword(c.Request().Context(), input); err != nil {
		return s.renderProfileError(c, err)
	}
	return redirectTo(c, "/profile")
}

func (s *Server) handleDeactivate(c echo.Context) error {
	sid := sessionID(c)
	if err := currentClient(c).DeactivateAccount(c.Request().Context()); err != nil {
		return err
	}

	s.manager.Drop(sid)
	s.clearSession(c)
	slog.Info("Account deactivated", "session_id", sid)
	return redirectTo(c, "/auth/login")
}
