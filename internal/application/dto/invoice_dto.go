package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest a raw invoice line as received from the client. The
// numeric fields are typed any because clients send both JSON numbers and
// strings; the validator parses them and reports positional errors instead
// of failing the whole body decode.
type InvoiceItemRequest struct {
	ProductID any `json:"product_id"`
	Qty       any `json:"qty"`
	UnitPrice any `json:"unit_price"`
	TaxRate   any `json:"tax_rate"`
}

// CreateInvoiceRequest body for POST /api/invoices. IssuerPIB is honored for
// admin callers only; for a company the issuer PIB always comes from the
// caller's own account. There is no total field: totals are derived.
type CreateInvoiceRequest struct {
	Number       string               `json:"number"`
	IssueDate    string               `json:"issue_date"`
	DueDate      string               `json:"due_date,omitempty"`
	Currency     string               `json:"currency,omitempty"`
	RecipientPIB string               `json:"recipient_pib"`
	IssuerPIB    string               `json:"issuer_pib,omitempty"`
	Status       string               `json:"status,omitempty"`
	Items        []InvoiceItemRequest `json:"items"`
	Note         string               `json:"note,omitempty"`
}

// InvoiceItemResponse a stored line item with its derived amounts.
type InvoiceItemResponse struct {
	ID               int64           `json:"id"`
	InvoiceID        int64           `json:"invoice_id"`
	ProductID        int64           `json:"product_id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	MaterialType     *string         `json:"material_type"`
	Qty              decimal.Decimal `json:"qty"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TaxRate          int64           `json:"tax_rate"`
	UnitPriceWithTax decimal.Decimal `json:"unit_price_with_tax"`
	LineTotal        decimal.Decimal `json:"line_total"`
	LineTotalWithTax decimal.Decimal `json:"line_total_with_tax"`
}

// InvoiceResponse a full invoice representation.
type InvoiceResponse struct {
	ID           int64                 `json:"id"`
	IssuerUserID int64                 `json:"issuer_user_id"`
	IssuerPIB    string                `json:"issuer_pib"`
	RecipientPIB string                `json:"recipient_pib"`
	Number       string                `json:"number"`
	IssueDate    string                `json:"issue_date"`
	DueDate      *string               `json:"due_date"`
	Currency     string                `json:"currency"`
	TotalAmount  decimal.Decimal       `json:"total_amount"`
	Status       string                `json:"status"`
	Items        []InvoiceItemResponse `json:"items"`
	Note         *string               `json:"note"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// InvoiceEnvelope wraps a single invoice, matching the shape the frontend
// consumes.
type InvoiceEnvelope struct {
	Invoice InvoiceResponse `json:"invoice"`
}

// AdminInvoiceListResponse flat listing for admins.
type AdminInvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
}

// CompanyInvoiceListResponse two partitions for a company: invoices it issued
// and invoices addressed to its PIB. The partitions may overlap when a
// company issues to its own PIB; they are deliberately not deduplicated.
type CompanyInvoiceListResponse struct {
	Outbound []InvoiceResponse `json:"outbound"`
	Inbound  []InvoiceResponse `json:"inbound"`
}

// UpdateInvoiceStatusRequest body for PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// SendInvoiceEmailRequest optional recipient override for
// POST /api/invoices/:id/send-email.
type SendInvoiceEmailRequest struct {
	Email string `json:"email,omitempty"`
}

// GenerateNumberResponse suggested number for a new invoice.
type GenerateNumberResponse struct {
	Number string `json:"number"`
}
