package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the invoice lifecycle state. Any status may be set from
// any other by an authorized caller: the system deliberately does not model
// irreversible transitions such as "cannot un-pay".
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusPaid      InvoiceStatus = "paid"
	StatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether s is one of the four invoice statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return true
	default:
		return false
	}
}

// Invoice is an issued invoice header together with its line items.
// TotalAmount is derived from the items and overwritten whenever they are
// set; it is never taken from client input.
type Invoice struct {
	ID           int64
	IssuerUserID int64
	IssuerPIB    string
	RecipientPIB string
	Number       string
	IssueDate    time.Time
	DueDate      *time.Time
	Currency     string
	TotalAmount  decimal.Decimal
	Status       InvoiceStatus
	Note         *string
	Items        []*InvoiceItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ComputeTotal recomputes TotalAmount as the rounded sum of the items'
// tax-inclusive line totals.
func (inv *Invoice) ComputeTotal() {
	total := decimal.Zero
	for _, it := range inv.Items {
		total = total.Add(it.LineTotalWithTax())
	}
	inv.TotalAmount = total.Round(2)
}
