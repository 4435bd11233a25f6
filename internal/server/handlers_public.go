package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

func (s *Server) handleGeneratorPage(c echo.Context) error {
	return s.render(c, http.StatusOK, "generator.html", nil)
}

// handleGeneratePublicPDF renders an anonymous invoice. The payload is JSON
// because the generator page submits the assembled draft via fetch.
func (s *Server) handleGeneratePublicPDF(c echo.Context) error {
	var inv domain.PublicInvoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice payload")
	}

	data, err := s.publicClient.GeneratePublicPDF(c.Request().Context(), inv)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="invoice.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// handlePreview recomputes totals for a draft so the form shows the same
// numbers the generated PDF will carry.
func (s *Server) handlePreview(c echo.Context) error {
	var inv domain.PublicInvoice
	if err := c.Bind(&inv); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invoice payload")
	}

	inv.Recalculate()
	return c.JSON(http.StatusOK, map[string]any{
		"items":    inv.Items,
		"subtotal": inv.Subtotal,
		"tax":      inv.Tax,
		"total":    inv.Total,
	})
}
