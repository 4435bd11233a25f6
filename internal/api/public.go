package api

import (
	"context"
	"net/http"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
	"github.com/hutamy/go-invoice-frontend/internal/metrics"
)

// GeneratePublicPDF builds a PDF from a complete sender+recipient+items
// payload without authentication. Totals are recalculated before submission
// so a tampered form cannot ship inconsistent amounts.
func (c *Client) GeneratePublicPDF(ctx context.Context, inv domain.PublicInvoice) ([]byte, error) {
	inv.Recalculate()

	data, err := c.call(ctx, http.MethodPost, "/public/invoices/generate-pdf", inv)
	if err != nil {
		return nil, err
	}
	metrics.PDFDownloadsTotal.WithLabelValues("public").Inc()
	return data, nil
}
