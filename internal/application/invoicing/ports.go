package invoicing

import (
	"context"

	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

// TxRunner executes fn inside one database transaction, with an invoice
// repository bound to it. Invoice creation uses it so the header and every
// item land atomically: if any insert fails, nothing is persisted.
type TxRunner interface {
	RunInvoicing(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error
}

// PDFGenerator renders a fully-materialized invoice into PDF bytes.
// The recipient user is nil when the recipient PIB belongs to no registered
// account; the renderer then falls back to PIB-only labels.
type PDFGenerator interface {
	Render(ctx context.Context, invoice *entity.Invoice, issuer, recipient *entity.User) ([]byte, error)
}

// EmailSender delivers an invoice PDF as an email attachment. Failures are
// operational: the already-persisted invoice is never rolled back over them.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachment []byte, filename string) error
}
