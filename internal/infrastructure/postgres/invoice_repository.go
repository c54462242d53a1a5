package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implements the InvoiceRepository port over PostgreSQL (usable
// with pool or tx). Invoices load together with their items.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository builds the persistence adapter for invoices.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = "id, issuer_user_id, issuer_pib, recipient_pib, number, issue_date, due_date, currency, total_amount, status, note, created_at, updated_at"

const itemColumns = "id, invoice_id, product_id, name, code, material_type, qty, unit_price, tax_rate"

// Create persists the invoice header and assigns its ID.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (issuer_user_id, issuer_pib, recipient_pib, number, issue_date, due_date, currency, total_amount, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		invoice.IssuerUserID, invoice.IssuerPIB, invoice.RecipientPIB, invoice.Number,
		invoice.IssueDate, invoice.DueDate, invoice.Currency, invoice.TotalAmount,
		string(invoice.Status), invoice.Note, invoice.CreatedAt, invoice.UpdatedAt,
	).Scan(&invoice.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persists one line item snapshot and assigns its ID.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (invoice_id, product_id, name, code, material_type, qty, unit_price, tax_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		item.InvoiceID, item.ProductID, item.Name, item.Code, item.MaterialType,
		item.Qty, item.UnitPrice, item.TaxRate,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID fetches an invoice with its items.
func (r *InvoiceRepo) GetByID(id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.IssuerUserID, &inv.IssuerPIB, &inv.RecipientPIB, &inv.Number,
		&inv.IssueDate, &inv.DueDate, &inv.Currency, &inv.TotalAmount,
		&inv.Status, &inv.Note, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.attachItems([]*entity.Invoice{&inv}); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListAll returns every invoice with items, newest first.
func (r *InvoiceRepo) ListAll() ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC, id DESC`
	return r.list(query)
}

// ListByIssuer returns the invoices issued by one user, newest first.
func (r *InvoiceRepo) ListByIssuer(issuerUserID int64) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE issuer_user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(query, issuerUserID)
}

// ListByRecipientPIB returns the invoices addressed to a PIB, newest first.
func (r *InvoiceRepo) ListByRecipientPIB(pib string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE recipient_pib = $1 ORDER BY created_at DESC, id DESC`
	return r.list(query, pib)
}

// UpdateStatus persists a status change.
func (r *InvoiceRepo) UpdateStatus(invoice *entity.Invoice) error {
	query := `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, invoice.ID, string(invoice.Status), invoice.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an invoice; the items FK cascades.
func (r *InvoiceRepo) Delete(id int64) error {
	query := `DELETE FROM invoices WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByIssuerAndYear counts invoices one user issued in a calendar year,
// by issue_date.
func (r *InvoiceRepo) CountByIssuerAndYear(issuerUserID int64, year int) (int64, error) {
	query := `
		SELECT COUNT(*) FROM invoices
		WHERE issuer_user_id = $1 AND EXTRACT(YEAR FROM issue_date) = $2`
	var count int64
	if err := r.q.QueryRow(context.Background(), query, issuerUserID, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("count invoices by year: %w", err)
	}
	return count, nil
}

func (r *InvoiceRepo) list(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.IssuerUserID, &inv.IssuerPIB, &inv.RecipientPIB, &inv.Number,
			&inv.IssueDate, &inv.DueDate, &inv.Currency, &inv.TotalAmount,
			&inv.Status, &inv.Note, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// attachItems batch-loads the items of the given invoices with one query.
func (r *InvoiceRepo) attachItems(invoices []*entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Invoice, len(invoices))
	ids := make([]int64, 0, len(invoices))
	for _, inv := range invoices {
		inv.Items = []*entity.InvoiceItem{}
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}

	query := `SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.Name, &it.Code, &it.MaterialType,
			&it.Qty, &it.UnitPrice, &it.TaxRate,
		); err != nil {
			return fmt.Errorf("scan invoice item: %w", err)
		}
		if inv, ok := byID[it.InvoiceID]; ok {
			inv.Items = append(inv.Items, &it)
		}
	}
	return rows.Err()
}
