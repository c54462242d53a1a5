package entity

import "github.com/shopspring/decimal"

// AllowedTaxRates are the VAT percentages an item may carry.
var AllowedTaxRates = []int64{0, 10, 20}

// AllowedTaxRate reports whether rate is one of AllowedTaxRates.
func AllowedTaxRate(rate int64) bool {
	for _, r := range AllowedTaxRates {
		if r == rate {
			return true
		}
	}
	return false
}

var (
	decOne     = decimal.NewFromInt(1)
	decHundred = decimal.NewFromInt(100)
)

// InvoiceItem is a line of an invoice. Name, Code and MaterialType are
// snapshots copied from the referenced product at creation time and never
// re-synced. The three derived amounts are always recomputable from the
// stored Qty, UnitPrice and TaxRate, so stored state is never ambiguous.
type InvoiceItem struct {
	ID           int64
	InvoiceID    int64
	ProductID    int64
	Name         string
	Code         string
	MaterialType *string
	Qty          decimal.Decimal
	UnitPrice    decimal.Decimal // tax-exclusive
	TaxRate      int64           // percent: 0, 10 or 20
}

// UnitPriceWithTax is round2(unit_price * (1 + tax_rate/100)).
// decimal.Round rounds half away from zero, which for non-negative money
// amounts is the half-up convention standard invoicing expects.
func (it *InvoiceItem) UnitPriceWithTax() decimal.Decimal {
	rate := decimal.NewFromInt(it.TaxRate).Div(decHundred)
	return it.UnitPrice.Mul(decOne.Add(rate)).Round(2)
}

// LineTotal is the tax-exclusive amount: round2(qty * unit_price).
func (it *InvoiceItem) LineTotal() decimal.Decimal {
	return it.Qty.Mul(it.UnitPrice).Round(2)
}

// LineTotalWithTax is round2(qty * unit_price_with_tax).
func (it *InvoiceItem) LineTotalWithTax() decimal.Decimal {
	return it.Qty.Mul(it.UnitPriceWithTax()).Round(2)
}
