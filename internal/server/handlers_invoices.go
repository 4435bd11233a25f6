package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/hutamy/go-invoice-frontend/internal/api"
	"github.com/hutamy/go-invoice-frontend/internal/domain"
	"github.com/hutamy/go-invoice-frontend/internal/metrics"
)

func (s *Server) handleInvoiceList(c echo.Context) error {
	q := parseListQuery(c)
	page, err := currentClient(c).ListInvoices(c.Request().Context(), q)
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "invoices.html", map[string]any{
		"Invoices":   page.Data,
		"Pagination": page.Pagination,
		"Search":     q.Search,
	})
}

func (s *Server) handleInvoiceView(c echo.Context) error {
	inv, err := currentClient(c).GetInvoice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	var transitions []domain.Status
	for _, next := range []domain.Status{domain.StatusSent, domain.StatusPaid, domain.StatusOverdue, domain.StatusCancelled} {
		if inv.Status.CanTransitionTo(next) {
			transitions = append(transitions, next)
		}
	}

	return s.render(c, http.StatusOK, "invoice_view.html", map[string]any{
		"Invoice":     inv,
		"Transitions": transitions,
	})
}

func (s *Server) handleInvoiceForm(c echo.Context) error {
	ctx := c.Request().Context()
	client := currentClient(c)

	// The client dropdown needs every client, not a page.
	clients, err := client.ListClients(ctx, domain.ListQuery{PageSize: 100})
	if err != nil {
		return err
	}

	data := map[string]any{"Clients": clients.Data}
	if id := c.Param("id"); id != "" {
		inv, err := client.GetInvoice(ctx, id)
		if err != nil {
			return err
		}
		data["Invoice"] = inv
	}
	return s.render(c, http.StatusOK, "invoice_form.html", data)
}

func (s *Server) handleInvoiceCreate(c echo.Context) error {
	input, err := parseInvoiceForm(c)
	if err != nil {
		return s.render(c, http.StatusBadRequest, "invoice_form.html", map[string]any{
			"Error": err.Error(),
		})
	}

	created, err := currentClient(c).CreateInvoice(c.Request().Context(), input)
	if err != nil {
		var validationErr *api.ValidationError
		if errors.As(err, &validationErr) {
			return s.render(c, http.StatusBadRequest, "invoice_form.html", map[string]any{
				"Error":  validationErr.Message,
				"Fields": validationErr.Fields,
			})
		}
		return err
	}
	return redirectTo(c, "/invoices/"+url.PathEscape(created.ID))
}

func (s *Server) handleInvoiceUpdate(c echo.Context) error {
	id := c.Param("id")
	input, err := parseInvoiceForm(c)
	if err != nil {
		return s.render(c, http.StatusBadRequest, "invoice_form.html", map[string]any{
			"Error": err.Error(),
		})
	}

	if err := currentClient(c).UpdateInvoice(c.Request().Context(), id, input); err != nil {
		var validationErr *api.ValidationError
		if errors.As(err, &validationErr) {
			return s.render(c, http.StatusBadRequest, "invoice_form.html", map[string]any{
				"Error":  validationErr.Message,
				"Fields": validationErr.Fields,
			})
		}
		return err
	}
	return redirectTo(c, "/invoices/"+url.PathEscape(id))
}

func (s *Server) handleInvoiceDelete(c echo.Context) error {
	if err := currentClient(c).DeleteInvoice(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return redirectTo(c, "/invoices")
}

func (s *Server) handleInvoiceStatus(c echo.Context) error {
	id := c.Param("id")
	status := domain.Status(c.FormValue("status"))
	if !status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown invoice status")
	}

	if err := currentClient(c).UpdateInvoiceStatus(c.Request().Context(), id, status); err != nil {
		return err
	}
	return redirectTo(c, "/invoices/"+url.PathEscape(id))
}

func (s *Server) handleInvoicePDF(c echo.Context) error {
	id := c.Param("id")
	data, err := currentClient(c).DownloadInvoicePDF(c.Request().Context(), id)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="invoice-%s.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// handleInvoiceExport streams every invoice as an xlsx workbook, paging
// through the backend until the list is exhausted.
func (s *Server) handleInvoiceExport(c echo.Context) error {
	ctx := c.Request().Context()
	client := currentClient(c)

	workbook := excelize.NewFile()
	defer workbook.Close()

	const sheet = "Invoices"
	index, err := workbook.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	workbook.SetActiveSheet(index)
	if err := workbook.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headers := []string{"Number", "Client", "Status", "Issue Date", "Due Date", "Currency", "Subtotal", "Tax", "Delivery Fee", "Total"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := workbook.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for page := 1; ; page++ {
		result, err := client.ListInvoices(ctx, domain.ListQuery{Page: page, PageSize: 100})
		if err != nil {
			return err
		}

		for _, inv := range result.Data {
			values := []any{
				inv.Number,
				inv.ClientName,
				string(inv.Status),
				inv.IssueDate.Format("2006-01-02"),
				inv.DueDate.Format("2006-01-02"),
				inv.Currency,
				domain.FormatMinorUnits(inv.Subtotal),
				domain.FormatMinorUnits(inv.Tax),
				domain.FormatMinorUnits(inv.DeliveryFee),
				domain.FormatMinorUnits(inv.Total),
			}
			for i, value := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := workbook.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("failed to write row: %w", err)
				}
			}
			row++
		}

		if page >= result.Pagination.TotalPages || len(result.Data) == 0 {
			break
		}
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to serialize workbook: %w", err)
	}

	metrics.ExportsTotal.Inc()
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="invoices.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
