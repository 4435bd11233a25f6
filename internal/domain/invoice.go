package domain

import (
	"fmt"
	"math"
	"time"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// statusTransitions lists the allowed next states per status. Paid and
// cancelled are terminal.
var statusTransitions = map[Status][]Status{
	StatusDraft:   {StatusSent, StatusCancelled},
	StatusSent:    {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue: {StatusPaid, StatusCancelled},
}

// Valid reports whether s is a known invoice status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an invoice in status s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InvoiceItem is a single line on an invoice. Monetary amounts are integer
// minor units (cents).
type InvoiceItem struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Total       int64  `json:"total"`
}

// LineTotal recomputes the item amount from quantity and unit price. It does
// not depend on the stored Total, so stale values from partial edits never
// leak into the sum.
func (it InvoiceItem) LineTotal() int64 {
	return it.Quantity * it.UnitPrice
}

// Invoice mirrors the backend invoice record.
type Invoice struct {
	ID            string        `json:"id"`
	Number        string        `json:"number"`
	ClientID      string        `json:"client_id"`
	ClientName    string        `json:"client_name,omitempty"`
	Status        Status        `json:"status"`
	IssueDate     time.Time     `json:"issue_date"`
	DueDate       time.Time     `json:"due_date"`
	Items         []InvoiceItem `json:"items"`
	Notes         string        `json:"notes,omitempty"`
	Currency      string        `json:"currency"`
	TaxRate       float64       `json:"tax_rate"`
	DeliveryFee   int64         `json:"delivery_fee"`
	Subtotal      int64         `json:"subtotal"`
	Tax           int64         `json:"tax"`
	Total         int64         `json:"total"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Recalculate derives every item total, the subtotal, the tax amount and the
// grand total from quantities, unit prices, the tax rate and the delivery
// fee. The result depends only on the current field values, never on the
// order in which they were edited.
func (inv *Invoice) Recalculate() {
	var subtotal int64
	for i := range inv.Items {
		inv.Items[i].Total = inv.Items[i].LineTotal()
		subtotal += inv.Items[i].Total
	}
	inv.Subtotal = subtotal
	inv.Tax = taxAmount(subtotal, inv.TaxRate)
	inv.Total = subtotal + inv.Tax + inv.DeliveryFee
}

// taxAmount applies a percentage rate to a minor-unit amount, rounding half
// away from zero.
func taxAmount(subtotal int64, rate float64) int64 {
	return int64(math.Round(float64(subtotal) * rate / 100))
}

// InvoiceInput is the create/update payload for an invoice.
type InvoiceInput struct {
	ClientID    string        `json:"client_id"`
	IssueDate   time.Time     `json:"issue_date"`
	DueDate     time.Time     `json:"due_date"`
	Items       []InvoiceItem `json:"items"`
	Notes       string        `json:"notes,omitempty"`
	Currency    string        `json:"currency"`
	TaxRate     float64       `json:"tax_rate"`
	DeliveryFee int64         `json:"delivery_fee"`
}

// SummaryBucket aggregates invoices of one status.
type SummaryBucket struct {
	Count  int64 `json:"count"`
	Amount int64 `json:"amount"`
}

// InvoiceSummary is the response of GET /invoices/summary.
type InvoiceSummary struct {
	Draft     SummaryBucket `json:"draft"`
	Sent      SummaryBucket `json:"sent"`
	Paid      SummaryBucket `json:"paid"`
	Overdue   SummaryBucket `json:"overdue"`
	Cancelled SummaryBucket `json:"cancelled"`
}

// Party identifies one side of a public (no-login) invoice.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// PublicInvoice is the full payload of the anonymous PDF generator: sender,
// recipient and line items travel in one request because nothing is stored
// server-side.
type PublicInvoice struct {
	Number      string         `json:"number"`
	Sender      Party          `json:"sender"`
	Recipient   Party          `json:"recipient"`
	Banking     BankingDetails `json:"banking,omitempty"`
	IssueDate   time.Time      `json:"issue_date"`
	DueDate     time.Time      `json:"due_date"`
	Items       []InvoiceItem  `json:"items"`
	Notes       string         `json:"notes,omitempty"`
	Currency    string         `json:"currency"`
	TaxRate     float64        `json:"tax_rate"`
	DeliveryFee int64          `json:"delivery_fee"`
	Subtotal    int64          `json:"subtotal"`
	Tax         int64          `json:"tax"`
	Total       int64          `json:"total"`
}

// Recalculate mirrors Invoice.Recalculate for the anonymous payload.
func (p *PublicInvoice) Recalculate() {
	var subtotal int64
	for i := range p.Items {
		p.Items[i].Total = p.Items[i].LineTotal()
		subtotal += p.Items[i].Total
	}
	p.Subtotal = subtotal
	p.Tax = taxAmount(subtotal, p.TaxRate)
	p.Total = subtotal + p.Tax + p.DeliveryFee
}

// FormatMinorUnits renders a minor-unit amount as a decimal string, e.g.
// 123456 -> "1234.56". Used by templates and the xlsx export.
func FormatMinorUnits(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
