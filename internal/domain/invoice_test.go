package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceItem_LineTotal(t *testing.T) {
	item := InvoiceItem{Quantity: 3, UnitPrice: 1500}
	assert.Equal(t, int64(4500), item.LineTotal())
}

func TestInvoice_Recalculate_IgnoresStaleItemTotals(t *testing.T) {
	inv := Invoice{
		Items: []InvoiceItem{
			{Quantity: 3, UnitPrice: 1500, Total: 99999},
			{Quantity: 2, UnitPrice: 250, Total: 1},
		},
	}

	inv.Recalculate()

	assert.Equal(t, int64(4500), inv.Items[0].Total)
	assert.Equal(t, int64(500), inv.Items[1].Total)
	assert.Equal(t, int64(5000), inv.Subtotal)
	assert.Equal(t, int64(5000), inv.Total)
}

func TestInvoice_Recalculate_EditOrderIndependent(t *testing.T) {
	// Edit quantity first, then price.
	a := Invoice{Items: []InvoiceItem{{Quantity: 1, UnitPrice: 1000}}}
	a.Items[0].Quantity = 3
	a.Recalculate()
	a.Items[0].UnitPrice = 1500
	a.Recalculate()

	// Edit price first, then quantity.
	b := Invoice{Items: []InvoiceItem{{Quantity: 1, UnitPrice: 1000}}}
	b.Items[0].UnitPrice = 1500
	b.Recalculate()
	b.Items[0].Quantity = 3
	b.Recalculate()

	assert.Equal(t, int64(4500), a.Items[0].Total)
	assert.Equal(t, a.Total, b.Total)
	assert.Equal(t, a.Subtotal, b.Subtotal)
}

func TestInvoice_Recalculate_TaxAndDeliveryFee(t *testing.T) {
	inv := Invoice{
		Items:       []InvoiceItem{{Quantity: 2, UnitPrice: 5000}},
		TaxRate:     10,
		DeliveryFee: 750,
	}

	inv.Recalculate()

	assert.Equal(t, int64(10000), inv.Subtotal)
	assert.Equal(t, int64(1000), inv.Tax)
	assert.Equal(t, int64(11750), inv.Total)
}

func TestInvoice_Recalculate_TaxRounding(t *testing.T) {
	// 333 * 7.5% = 24.975 -> rounds to 25.
	inv := Invoice{
		Items:   []InvoiceItem{{Quantity: 1, UnitPrice: 333}},
		TaxRate: 7.5,
	}

	inv.Recalculate()

	assert.Equal(t, int64(25), inv.Tax)
	assert.Equal(t, int64(358), inv.Total)
}

func TestInvoice_Recalculate_EmptyItems(t *testing.T) {
	inv := Invoice{TaxRate: 19, DeliveryFee: 500}
	inv.Recalculate()

	assert.Equal(t, int64(0), inv.Subtotal)
	assert.Equal(t, int64(0), inv.Tax)
	assert.Equal(t, int64(500), inv.Total)
}

func TestPublicInvoice_Recalculate(t *testing.T) {
	p := PublicInvoice{
		Items:       []InvoiceItem{{Quantity: 4, UnitPrice: 2500}},
		TaxRate:     20,
		DeliveryFee: 1000,
	}

	p.Recalculate()

	assert.Equal(t, int64(10000), p.Subtotal)
	assert.Equal(t, int64(2000), p.Tax)
	assert.Equal(t, int64(13000), p.Total)
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("archived").Valid())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusDraft.CanTransitionTo(StatusSent))
	assert.True(t, StatusSent.CanTransitionTo(StatusPaid))
	assert.True(t, StatusOverdue.CanTransitionTo(StatusPaid))
	assert.False(t, StatusPaid.CanTransitionTo(StatusDraft))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusSent))
	assert.False(t, StatusDraft.CanTransitionTo(StatusPaid))
}

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "1234.56", FormatMinorUnits(123456))
	assert.Equal(t, "0.05", FormatMinorUnits(5))
	assert.Equal(t, "-12.00", FormatMinorUnits(-1200))
}
