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

func (s *Server) handleLoginPage(c echo.Context) error {
	return s.render(c, http.StatusOK, "login.html", nil)
}

func (s *Server) handleSignIn(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	sid, err := s.establishSession(c)
	if err != nil {
		return err
	}
	client := s.manager.Get(sid)

	if err := client.SignIn(c.Request().Context(), email, password); err != nil {
		s.manager.Drop(sid)
		s.clearSession(c)

		var deactivated *api.DeactivatedError
		var authErr *api.AuthError
		var validationErr *api.ValidationError
		switch {
		case errors.As(err, &deactivated):
			return s.render(c, http.StatusForbidden, "login.html", map[string]any{
				"Error": "This account has been deactivated. Contact support to restore it.",
				"Email": email,
			})
		case errors.As(err, &authErr):
			return s.render(c, http.StatusUnauthorized, "login.html", map[string]any{
				"Error": "Invalid email or password.",
				"Email": email,
			})
		case errors.As(err, &validationErr):
			return s.render(c, http.StatusBadRequest, "login.html", map[string]any{
				"Error":  validationErr.Message,
				"Fields": validationErr.Fields,
				"Email":  email,
			})
		}
		return err
	}

	slog.Info("User signed in", "session_id", sid)
	return redirectTo(c, "/dashboard")
}

func (s *Server) handleSignUpPage(c echo.Context) error {
	return s.render(c, http.StatusOK, "signup.html", nil)
}

func (s *Server) handleSignUp(c echo.Context) error {
	input := domain.SignUpInput{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
		Phone:    strings.TrimSpace(c.FormValue("phone")),
		Address:  strings.TrimSpace(c.FormValue("address")),
	}

	if err := s.publicClient.SignUp(c.Request().Context(), input); err != nil {
		var validationErr *api.ValidationError
		if errors.As(err, &validationErr) {
			return s.render(c, http.StatusBadRequest, "signup.html", map[string]any{
				"Error":  validationErr.Message,
				"Fields": validationErr.Fields,
				"Input":  input,
			})
		}
		return err
	}

	// Registration does not sign the user in; sign in with the new
	// credentials to establish the session and tokens.
	sid, err := s.establishSession(c)
	if err != nil {
		return err
	}
	client := s.manager.Get(sid)
	if err := client.SignIn(c.Request().Context(), input.Email, input.Password); err != nil {
		s.manager.Drop(sid)
		s.clearSession(c)
		return redirectTo(c, "/auth/login")
	}

	slog.Info("User signed up", "session_id", sid)
	return redirectTo(c, "/dashboard")
}

func (s *Server) handleLogout(c echo.Context) error {
	sid := sessionID(c)
	if client := currentClient(c); client != nil {
		if err := client.Logout(); err != nil {
			slog.Warn("Failed to clear tokens on logout", "session_id", sid, "error", err)
		}
	}
	s.manager.Drop(sid)
	s.clearSession(c)

	slog.Info("User logged out", "session_id", sid)
	return redirectTo(c, "/auth/login")
}
