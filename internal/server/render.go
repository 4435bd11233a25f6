package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

// render executes a page template into a buffer first so a template error
// never produces a half-written response.
func (s *Server) render(c echo.Context, status int, name string, data map[string]any) error {
	tmpl, ok := s.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}

	if data == nil {
		data = map[string]any{}
	}
	token, _ := c.Get("csrf").(string)
	data["CSRFToken"] = token

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// parseListQuery reads page, page_size and search from the query string.
// Invalid numbers fall back to the defaults, matching what the backend does.
func parseListQuery(c echo.Context) domain.ListQuery {
	q := domain.ListQuery{Page: 1, PageSize: 20}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && v > 0 && v <= 100 {
		q.PageSize = v
	}
	q.Search = strings.TrimSpace(c.QueryParam("search"))
	return q
}

// parseMoney converts a decimal form value like "12.34" into minor units.
// A single decimal digit means tenths ("12.3" -> 1230); missing decimals
// mean whole units.
func parseMoney(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		cents, err = strconv.ParseInt(frac, 10, 64)
		cents *= 10
	case 2:
		cents, err = strconv.ParseInt(frac, 10, 64)
	default:
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

// parseDate parses the yyyy-mm-dd value of an <input type="date">.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", value)
}

// parseInvoiceForm assembles an InvoiceInput from the invoice form. Line
// items arrive as parallel arrays (item_description[], item_quantity[],
// item_unit_price[]); rows with an empty description are skipped.
func parseInvoiceForm(c echo.Context) (domain.InvoiceInput, error) {
	var input domain.InvoiceInput

	form, err := c.FormParams()
	if err != nil {
		return input, fmt.Errorf("invalid form: %w", err)
	}

	input.ClientID = strings.TrimSpace(c.FormValue("client_id"))
	input.Notes = strings.TrimSpace(c.FormValue("notes"))
	input.Currency = strings.TrimSpace(c.FormValue("currency"))
	if input.Currency == "" {
		input.Currency = "USD"
	}

	if input.IssueDate, err = parseDate(c.FormValue("issue_date")); err != nil {
		return input, fmt.Errorf("invalid issue date: %w", err)
	}
	if input.DueDate, err = parseDate(c.FormValue("due_date")); err != nil {
		return input, fmt.Errorf("invalid due date: %w", err)
	}

	if raw := strings.TrimSpace(c.FormValue("tax_rate")); raw != "" {
		if input.TaxRate, err = strconv.ParseFloat(raw, 64); err != nil {
			return input, fmt.Errorf("invalid tax rate: %w", err)
		}
	}
	if input.DeliveryFee, err = parseMoney(c.FormValue("delivery_fee")); err != nil {
		return input, fmt.Errorf("invalid delivery fee: %w", err)
	}

	descriptions := form["item_description[]"]
	quantities := form["item_quantity[]"]
	unitPrices := form["item_unit_price[]"]

	for i, description := range descriptions {
		description = strings.TrimSpace(description)
		if description == "" {
			continue
		}

		item := domain.InvoiceItem{Description: description, Quantity: 1}
		if i < len(quantities) && strings.TrimSpace(quantities[i]) != "" {
			if item.Quantity, err = strconv.ParseInt(strings.TrimSpace(quantities[i]), 10, 64); err != nil {
				return input, fmt.Errorf("invalid quantity on line %d: %w", i+1, err)
			}
		}
		if i < len(unitPrices) {
			if item.UnitPrice, err = parseMoney(unitPrices[i]); err != nil {
				return input, fmt.Errorf("invalid unit price on line %d: %w", i+1, err)
			}
		}
		item.Total = item.LineTotal()
		input.Items = append(input.Items, item)
	}

	return input, nil
}

func redirectTo(c echo.Context, location string) error {
	return c.Redirect(http.StatusSeeOther, location)
}
