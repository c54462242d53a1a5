package invoicing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

// resolveItems resolves each raw item against the issuer's catalog and
// normalizes its numeric fields, building the line-item snapshots. Errors are
// reported by 1-based position and collected across all items; a single bad
// item rejects the whole batch, but every item is still checked so the caller
// sees everything at once.
func (v *Validator) resolveItems(raw []dto.InvoiceItemRequest, caller *entity.User, products repository.ProductRepository) ([]*entity.InvoiceItem, []string) {
	if len(raw) == 0 {
		return nil, []string{"at least one item is required"}
	}

	var errs []string
	items := make([]*entity.InvoiceItem, 0, len(raw))

	for i, in := range raw {
		n := i + 1

		productID, ok := parseInt(in.ProductID)
		if !ok {
			errs = append(errs, fmt.Sprintf("item #%d: product_id is required and must be integer", n))
			continue
		}

		product, err := products.GetByID(productID)
		if err != nil || product == nil {
			errs = append(errs, fmt.Sprintf("item #%d: product not found", n))
			continue
		}
		if product.OwnerUserID != caller.ID {
			errs = append(errs, fmt.Sprintf("item #%d: product does not belong to issuer", n))
			continue
		}

		qty, qtyOK := parseDecimal(in.Qty)
		unitPrice, priceOK := parseDecimal(in.UnitPrice)
		taxRate, rateOK := parseInt(in.TaxRate)
		if !qtyOK || !priceOK || !rateOK {
			errs = append(errs, fmt.Sprintf("item #%d: invalid numeric fields", n))
			continue
		}

		// Range checks do not short-circuit each other: one item can
		// report several violations.
		itemOK := true
		if !qty.IsPositive() {
			errs = append(errs, fmt.Sprintf("item #%d: qty must be > 0", n))
			itemOK = false
		}
		if unitPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("item #%d: unit_price must be >= 0", n))
			itemOK = false
		}
		if !entity.AllowedTaxRate(taxRate) {
			errs = append(errs, fmt.Sprintf("item #%d: tax_rate must be one of 0, 10, 20", n))
			itemOK = false
		}
		if !itemOK {
			continue
		}

		items = append(items, &entity.InvoiceItem{
			ProductID:    product.ID,
			Name:         product.Name,
			Code:         product.Code,
			MaterialType: product.MaterialType,
			Qty:          qty,
			UnitPrice:    unitPrice,
			TaxRate:      taxRate,
		})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

// parseInt accepts the integer encodings clients actually send: JSON numbers
// (float64 after decoding), strings, and json.Number.
func parseInt(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		i := int64(n)
		if float64(i) != n {
			return 0, false
		}
		return i, true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

// parseDecimal accepts the number encodings clients actually send.
func parseDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}
