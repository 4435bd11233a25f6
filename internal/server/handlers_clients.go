package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hutamy/go-invoice-frontend/internal/api"
	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

func (s *Server) handleClientList(c echo.Context) error {
	q := parseListQuery(c)
	page, err := currentClient(c).ListClients(c.Request().Context(), q)
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "clients.html", map[string]any{
		"Clients":    page.Data,
		"Pagination": page.Pagination,
		"Search":     q.Search,
	})
}

func (s *Server) handleClientForm(c echo.Context) error {
	data := map[string]any{}
	if id := c.Param("id"); id != "" {
		record, err := currentClient(c).GetClient(c.Request().Context(), id)
		if err != nil {
			return err
		}
		data["Client"] = record
	}
	return s.render(c, http.StatusOK, "client_form.html", data)
}

func parseClientForm(c echo.Context) domain.ClientInput {
	return domain.ClientInput{
		Name:      strings.TrimSpace(c.FormValue("name")),
		Email:     strings.TrimSpace(c.FormValue("email")),
		Phone:     strings.TrimSpace(c.FormValue("phone")),
		Address:   strings.TrimSpace(c.FormValue("address")),
		TaxNumber: strings.TrimSpace(c.FormValue("tax_number")),
	}
}

func (s *Server) handleClientCreate(c echo.Context) error {
	input := parseClientForm(c)

	if _, err := currentClient(c).CreateClient(c.Request().Context(), input); err != nil {
		var validationErr *api.ValidationError
		if errors.As(err, &validationErr) {
			return s.render(c, http.StatusBadRequest, "client_form.html", map[string]any{
				"Error":  validationErr.Message,
				"Fields": validationErr.Fields,
				"Input":  input,
			})
		}
		return err
	}
	return redirectTo(c, "/clients")
}

func (s *Server) handleClientUpdate(c echo.Context) error {
	id := c.Param("id")
	input := parseClientForm(c)

	if err := currentClient(c).UpdateClient(c.Request().Context(), id, input); err != nil {
		var validationErr *api.ValidationError
		if errors.As(err, &validationErr) {
			return s.render(c, http.StatusBadRequest, "client_form.html", map[string]any{
				"Error":  validationErr.Message,
				"Fields": validationErr.Fields,
				"Input":  input,
				"Client": &domain.Client{ID: id},
			})
		}
		return err
	}
	return redirectTo(c, "/clients")
}

func (s *Server) handleClientDelete(c echo.Context) error {
	if err := currentClient(c).DeleteClient(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return redirectTo(c, "/clients")
}
