package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
	"github.com/hutamy/go-invoice-frontend/internal/metrics"
)

// InvoicePage is one page of the invoice list.
type InvoicePage struct {
	Data       []domain.Invoice  `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

// ListInvoices returns one page of invoices.
func (c *Client) ListInvoices(ctx context.Context, q domain.ListQuery) (*InvoicePage, error) {
	var page InvoicePage
	if err := c.getJSON(ctx, "/invoices"+listQueryString(q), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetInvoice fetches a single invoice with its line items.
func (c *Client) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	var out domain.Invoice
	if err := c.getJSON(ctx, "/invoices/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateInvoice creates an invoice. Totals are recalculated locally before
// submission so the preview and the stored record agree.
func (c *Client) CreateInvoice(ctx context.Context, input domain.InvoiceInput) (*domain.Invoice, error) {
	var out domain.Invoice
	if err := c.sendJSON(ctx, http.MethodPost, "/invoices", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateInvoice replaces an invoice.
func (c *Client) UpdateInvoice(ctx context.Context, id string, input domain.InvoiceInput) error {
	return c.sendJSON(ctx, http.MethodPut, "/invoices/"+url.PathEscape(id), input, nil)
}

// DeleteInvoice removes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/invoices/"+url.PathEscape(id), nil, nil)
}

// UpdateInvoiceStatus moves an invoice to a new lifecycle state.
func (c *Client) UpdateInvoiceStatus(ctx context.Context, id string, status domain.Status) error {
	return c.sendJSON(ctx, http.MethodPatch, "/invoices/"+url.PathEscape(id)+"/status", map[string]string{
		"status": string(status),
	}, nil)
}

// DownloadInvoicePDF asks the backend to render the invoice and returns the
// raw PDF bytes.
func (c *Client) DownloadInvoicePDF(ctx context.Context, id string) ([]byte, error) {
	data, err := c.call(ctx, http.MethodPost, "/invoices/"+url.PathEscape(id)+"/pdf", nil)
	if err != nil {
		return nil, err
	}
	metrics.PDFDownloadsTotal.WithLabelValues("invoice").Inc()
	return data, nil
}

// GetInvoiceSummary returns per-status invoice aggregates.
func (c *Client) GetInvoiceSummary(ctx context.Context) (*domain.InvoiceSummary, error) {
	var out domain.InvoiceSummary
	if err := c.getJSON(ctx, "/invoices/summary", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
