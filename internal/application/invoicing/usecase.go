package invoicing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/domain"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

// InvoiceUseCase implements the invoice operations: creation with derived
// totals, role-scoped reads and listings, deletion, the permissive status
// machine, and PDF/email delivery.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	validator   *Validator
	pdf         PDFGenerator
	mailer      EmailSender
	siteName    string
}

// NewInvoiceUseCase wires the use case.
func NewInvoiceUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	validator *Validator,
	pdf PDFGenerator,
	mailer EmailSender,
	siteName string,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		validator:   validator,
		pdf:         pdf,
		mailer:      mailer,
		siteName:    siteName,
	}
}

// Create validates the payload, snapshots the referenced products into line
// items, computes the total and persists header plus items in one
// transaction. A company always issues as itself: any issuer_pib in the
// request body is ignored for company callers.
func (uc *InvoiceUseCase) Create(ctx context.Context, caller *entity.User, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	var issuerPIB string
	switch caller.Role {
	case entity.RoleCompany:
		if caller.PIB == nil {
			return nil, domain.ErrMissingPIB
		}
		issuerPIB = *caller.PIB
	case entity.RoleAdmin:
		issuerPIB = strings.TrimSpace(in.IssuerPIB)
		if issuerPIB == "" {
			issuerPIB = caller.PIBValue()
		}
	default:
		return nil, domain.ErrForbidden
	}

	payload, errs := uc.validator.ValidatePayload(in, caller, uc.productRepo)
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}
	if !entity.ValidPIB(issuerPIB) {
		return nil, domain.NewValidationError("issuer PIB is missing or invalid")
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		IssuerUserID: caller.ID,
		IssuerPIB:    issuerPIB,
		RecipientPIB: payload.RecipientPIB,
		Number:       payload.Number,
		IssueDate:    payload.IssueDate,
		DueDate:      payload.DueDate,
		Currency:     payload.Currency,
		Status:       payload.Status,
		Note:         payload.Note,
		Items:        payload.Items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inv.ComputeTotal()

	err := uc.txRunner.RunInvoicing(ctx, func(invoices repository.InvoiceRepository) error {
		if err := invoices.Create(inv); err != nil {
			return err
		}
		for _, it := range inv.Items {
			it.InvoiceID = inv.ID
			if err := invoices.CreateItem(it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv), nil
}

// Get returns one invoice. Admins see any; a company only what it issued.
// A non-owner gets forbidden rather than not-found.
func (uc *InvoiceUseCase) Get(ctx context.Context, caller *entity.User, id int64) (*dto.InvoiceResponse, error) {
	inv, err := uc.loadOwned(caller, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// ListAll returns every invoice in one flat collection (admin only).
func (uc *InvoiceUseCase) ListAll(ctx context.Context, caller *entity.User) (*dto.AdminInvoiceListResponse, error) {
	switch caller.Role {
	case entity.RoleAdmin:
	case entity.RoleCompany:
		return nil, domain.ErrForbidden
	default:
		return nil, domain.ErrForbidden
	}
	invoices, err := uc.invoiceRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return &dto.AdminInvoiceListResponse{Items: toInvoiceResponses(invoices)}, nil
}

// ListForCompany returns the caller's two partitions: outbound (issued by it)
// and inbound (addressed to its PIB). The partitions can overlap when a
// company invoices its own PIB; they are not deduplicated.
func (uc *InvoiceUseCase) ListForCompany(ctx context.Context, caller *entity.User) (*dto.CompanyInvoiceListResponse, error) {
	outbound, err := uc.invoiceRepo.ListByIssuer(caller.ID)
	if err != nil {
		return nil, err
	}
	inbound := []*entity.Invoice{}
	if caller.PIB != nil {
		inbound, err = uc.invoiceRepo.ListByRecipientPIB(*caller.PIB)
		if err != nil {
			return nil, err
		}
	}
	return &dto.CompanyInvoiceListResponse{
		Outbound: toInvoiceResponses(outbound),
		Inbound:  toInvoiceResponses(inbound),
	}, nil
}

// Delete removes an invoice and, by cascade, all of its items.
func (uc *InvoiceUseCase) Delete(ctx context.Context, caller *entity.User, id int64) error {
	if _, err := uc.loadOwned(caller, id); err != nil {
		return err
	}
	return uc.invoiceRepo.Delete(id)
}

// UpdateStatus sets any of the four statuses from any other. Creation limits
// a company to draft/sent; updates do not. The asymmetry is intentional.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, caller *entity.User, id int64, status string) (*dto.InvoiceResponse, error) {
	target := entity.InvoiceStatus(strings.ToLower(strings.TrimSpace(status)))
	if !target.Valid() {
		return nil, domain.NewValidationError("status must be one of cancelled, draft, paid, sent")
	}
	inv, err := uc.loadOwned(caller, id)
	if err != nil {
		return nil, err
	}
	inv.Status = target
	inv.UpdatedAt = time.Now().UTC()
	if err := uc.invoiceRepo.UpdateStatus(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// GenerateNumber suggests the next invoice number for the caller:
// "YYYY-NNNN", a 1-based sequence over the caller's invoices issued in the
// current year.
func (uc *InvoiceUseCase) GenerateNumber(ctx context.Context, caller *entity.User, recipientPIB string) (*dto.GenerateNumberResponse, error) {
	if !entity.ValidPIB(strings.TrimSpace(recipientPIB)) {
		return nil, domain.NewValidationError("recipient_pib must be 9 digits")
	}
	year := time.Now().UTC().Year()
	count, err := uc.invoiceRepo.CountByIssuerAndYear(caller.ID, year)
	if err != nil {
		return nil, err
	}
	return &dto.GenerateNumberResponse{
		Number: fmt.Sprintf("%d-%04d", year, count+1),
	}, nil
}

// RenderPDF renders the invoice as PDF and returns the bytes with a download
// filename.
func (uc *InvoiceUseCase) RenderPDF(ctx context.Context, caller *entity.User, id int64) ([]byte, string, error) {
	inv, err := uc.loadOwned(caller, id)
	if err != nil {
		return nil, "", err
	}
	issuer, recipient, err := uc.parties(inv)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.Render(ctx, inv, issuer, recipient)
	if err != nil {
		return nil, "", err
	}
	return data, pdfFilename(inv.Number), nil
}

// SendEmail renders the invoice PDF and emails it. With no explicit address
// the registered company owning the recipient PIB is used. A delivery
// failure surfaces as domain.ErrDeliveryFailed; the invoice itself stays
// persisted.
func (uc *InvoiceUseCase) SendEmail(ctx context.Context, caller *entity.User, id int64, toEmail string) error {
	inv, err := uc.loadOwned(caller, id)
	if err != nil {
		return err
	}
	issuer, recipient, err := uc.parties(inv)
	if err != nil {
		return err
	}

	to := strings.TrimSpace(toEmail)
	if to == "" {
		if recipient == nil {
			return domain.NewValidationError("no email given and recipient PIB is not a registered company")
		}
		to = recipient.Email
	}

	data, err := uc.pdf.Render(ctx, inv, issuer, recipient)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s - Faktura %s", uc.siteName, inv.Number)
	body := emailBody(inv, issuer)
	if err := uc.mailer.Send(ctx, to, subject, body, data, pdfFilename(inv.Number)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	return nil
}

// loadOwned fetches the invoice and applies the uniform ownership policy:
// admin unrestricted, company only its own issues. The role switch is
// exhaustive so an unknown role is denied, never silently allowed.
func (uc *InvoiceUseCase) loadOwned(caller *entity.User, id int64) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	switch caller.Role {
	case entity.RoleAdmin:
		return inv, nil
	case entity.RoleCompany:
		if inv.IssuerUserID != caller.ID {
			return nil, domain.ErrForbidden
		}
		return inv, nil
	default:
		return nil, domain.ErrForbidden
	}
}

// parties resolves the issuer user and, when registered, the recipient
// company for rendering and delivery.
func (uc *InvoiceUseCase) parties(inv *entity.Invoice) (issuer, recipient *entity.User, err error) {
	issuer, err = uc.userRepo.GetByID(inv.IssuerUserID)
	if err != nil {
		return nil, nil, err
	}
	recipient, err = uc.userRepo.GetByPIB(inv.RecipientPIB)
	if err != nil {
		return nil, nil, err
	}
	return issuer, recipient, nil
}

func pdfFilename(number string) string {
	safe := strings.NewReplacer("/", "-", "\\", "-", " ", "-").Replace(number)
	return fmt.Sprintf("faktura-%s.pdf", safe)
}

func emailBody(inv *entity.Invoice, issuer *entity.User) string {
	issuerName := ""
	if issuer != nil {
		issuerName = issuer.Name
	}
	var b strings.Builder
	b.WriteString("<p>Poštovani,</p>")
	fmt.Fprintf(&b, "<p>U prilogu se nalazi faktura <b>%s</b> na iznos od <b>%s %s</b>.</p>",
		inv.Number, inv.TotalAmount.StringFixed(2), inv.Currency)
	if issuerName != "" {
		fmt.Fprintf(&b, "<p>Izdavalac: %s (PIB: %s)</p>", issuerName, inv.IssuerPIB)
	}
	b.WriteString("<p>Srdačan pozdrav</p>")
	return b.String()
}

func toInvoiceResponses(invoices []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *toInvoiceResponse(inv))
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	var due *string
	if inv.DueDate != nil {
		s := inv.DueDate.Format(dateLayout)
		due = &s
	}
	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		IssuerUserID: inv.IssuerUserID,
		IssuerPIB:    inv.IssuerPIB,
		RecipientPIB: inv.RecipientPIB,
		Number:       inv.Number,
		IssueDate:    inv.IssueDate.Format(dateLayout),
		DueDate:      due,
		Currency:     inv.Currency,
		TotalAmount:  inv.TotalAmount,
		Status:       string(inv.Status),
		Note:         inv.Note,
		Items:        make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:               it.ID,
			InvoiceID:        it.InvoiceID,
			ProductID:        it.ProductID,
			Name:             it.Name,
			Code:             it.Code,
			MaterialType:     it.MaterialType,
			Qty:              it.Qty,
			UnitPrice:        it.UnitPrice,
			TaxRate:          it.TaxRate,
			UnitPriceWithTax: it.UnitPriceWithTax(),
			LineTotal:        it.LineTotal(),
			LineTotalWithTax: it.LineTotalWithTax(),
		})
	}
	return resp
}
