package repository

import "github.com/stefankostic/efakture/internal/domain/entity"

// InvoiceRepository is the persistence port for invoices and their items.
// GetByID returns (nil, nil) when no row matches; invoices are always loaded
// together with their items.
type InvoiceRepository interface {
	// Create persists the header and assigns invoice.ID.
	Create(invoice *entity.Invoice) error
	// CreateItem persists one line item and assigns item.ID.
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id int64) (*entity.Invoice, error)
	// ListAll returns every invoice, newest first (admin listing).
	ListAll() ([]*entity.Invoice, error)
	// ListByIssuer returns invoices issued by the user, newest first.
	ListByIssuer(issuerUserID int64) ([]*entity.Invoice, error)
	// ListByRecipientPIB returns invoices addressed to the PIB, newest first.
	ListByRecipientPIB(pib string) ([]*entity.Invoice, error)
	// UpdateStatus persists invoice.Status and invoice.UpdatedAt.
	UpdateStatus(invoice *entity.Invoice) error
	// Delete removes the invoice; its items go with it (cascade).
	Delete(id int64) error
	// CountByIssuerAndYear counts invoices the user issued in a calendar year.
	CountByIssuerAndYear(issuerUserID int64, year int) (int64, error)
}
