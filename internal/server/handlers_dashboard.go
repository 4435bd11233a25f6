package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	client := currentClient(c)

	user, err := client.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	summary, err := client.GetInvoiceSummary(ctx)
	if err != nil {
		return err
	}
	recent, err := client.ListInvoices(ctx, parseListQuery(c))
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "dashboard.html", map[string]any{
		"User":     user,
		"Summary":  summary,
		"Invoices": recent.Data,
	})
}
