package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefankostic/efakture/internal/domain/entity"
)

func item(qty, unitPrice string, taxRate int64) *entity.InvoiceItem {
	return &entity.InvoiceItem{
		Qty:       decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(unitPrice),
		TaxRate:   taxRate,
	}
}

func TestInvoiceItemDerivedAmounts(t *testing.T) {
	it := item("2", "250.00", 20)

	assert.Equal(t, "300.00", it.UnitPriceWithTax().StringFixed(2))
	assert.Equal(t, "500.00", it.LineTotal().StringFixed(2))
	assert.Equal(t, "600.00", it.LineTotalWithTax().StringFixed(2))
}

func TestInvoiceItemZeroTaxRate(t *testing.T) {
	it := item("3", "100.00", 0)

	assert.True(t, it.UnitPriceWithTax().Equal(it.UnitPrice))
	assert.Equal(t, "300.00", it.LineTotalWithTax().StringFixed(2))
}

func TestComputeTotal(t *testing.T) {
	inv := &entity.Invoice{
		Items: []*entity.InvoiceItem{
			item("2", "250.00", 20), // 600.00
			item("1", "500.00", 10), // 550.00
		},
	}
	inv.ComputeTotal()

	assert.Equal(t, "1150.00", inv.TotalAmount.StringFixed(2))
}

func TestComputeTotalIsIdempotent(t *testing.T) {
	inv := &entity.Invoice{
		Items: []*entity.InvoiceItem{item("1.5", "33.33", 20)},
	}
	inv.ComputeTotal()
	first := inv.TotalAmount
	inv.ComputeTotal()

	assert.True(t, inv.TotalAmount.Equal(first))
}

func TestComputeTotalEmptyItems(t *testing.T) {
	inv := &entity.Invoice{}
	inv.ComputeTotal()

	assert.True(t, inv.TotalAmount.IsZero())
}

func TestRoundingHalfUpOnBoundary(t *testing.T) {
	// 0.5 * 1.25 = 0.625, half-up to two decimals gives 0.63.
	it := item("0.5", "1.25", 0)

	assert.Equal(t, "0.63", it.LineTotal().StringFixed(2))
}

func TestLineTotalsDerivableIndependently(t *testing.T) {
	// Both display totals must follow from the stored fields alone.
	it := item("4", "19.99", 10)

	require.Equal(t, "79.96", it.LineTotal().StringFixed(2))
	require.Equal(t, "21.99", it.UnitPriceWithTax().StringFixed(2))
	assert.Equal(t, "87.96", it.LineTotalWithTax().StringFixed(2))
}

func TestValidPIB(t *testing.T) {
	assert.True(t, entity.ValidPIB("123456789"))
	assert.False(t, entity.ValidPIB("12345"))
	assert.False(t, entity.ValidPIB("1234567890"))
	assert.False(t, entity.ValidPIB("12345678a"))
	assert.False(t, entity.ValidPIB(""))
}

func TestRoleAndStatusEnums(t *testing.T) {
	assert.True(t, entity.RoleCompany.Valid())
	assert.True(t, entity.RoleAdmin.Valid())
	assert.False(t, entity.Role("superuser").Valid())

	for _, s := range []entity.InvoiceStatus{entity.StatusDraft, entity.StatusSent, entity.StatusPaid, entity.StatusCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, entity.InvoiceStatus("archived").Valid())
}
