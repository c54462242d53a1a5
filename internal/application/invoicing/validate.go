package invoicing

import (
	"sort"
	"strings"
	"time"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// Payload is a fully-validated, typed invoice creation request. It is only
// produced when validation found no errors at all.
type Payload struct {
	Number       string
	IssueDate    time.Time
	DueDate      *time.Time
	Currency     string
	RecipientPIB string
	Status       entity.InvoiceStatus
	Note         *string
	Items        []*entity.InvoiceItem
}

// Validator checks raw invoice payloads against immutable configuration:
// the allowed currency set, the default currency, and the statuses a company
// caller may request at creation time. The sets are fixed at construction,
// never mutated at runtime.
type Validator struct {
	currencies      map[string]struct{}
	defaultCurrency string
	companyStatuses map[entity.InvoiceStatus]struct{}
}

// NewValidator builds a validator with the production rule set: currencies
// RSD/EUR/USD (default RSD), and company-submitted creation status limited to
// draft or sent.
func NewValidator() *Validator {
	return &Validator{
		currencies: map[string]struct{}{
			"RSD": {}, "EUR": {}, "USD": {},
		},
		defaultCurrency: "RSD",
		companyStatuses: map[entity.InvoiceStatus]struct{}{
			entity.StatusDraft: {},
			entity.StatusSent:  {},
		},
	}
}

// ValidatePayload validates a raw creation request for the acting user and
// resolves its items against the issuer's catalog. It returns either a typed
// payload or the complete ordered list of everything wrong with the request,
// never both. Item errors are collected alongside invoice-level errors; no
// error short-circuits the rest.
func (v *Validator) ValidatePayload(in dto.CreateInvoiceRequest, caller *entity.User, products repository.ProductRepository) (*Payload, []string) {
	var errs []string

	number := strings.TrimSpace(in.Number)
	if number == "" {
		errs = append(errs, "number is required")
	}

	issueDate, ok := parseDate(in.IssueDate)
	if !ok {
		errs = append(errs, "issue_date must be ISO date (YYYY-MM-DD)")
	}

	// A present but malformed due_date silently becomes absent. Asymmetric
	// with issue_date on purpose: documented behavior, kept as-is.
	var dueDate *time.Time
	if d, ok := parseDate(in.DueDate); ok {
		dueDate = &d
	}

	recipientPIB := strings.TrimSpace(in.RecipientPIB)
	if !entity.ValidPIB(recipientPIB) {
		errs = append(errs, "recipient_pib must be 9 digits")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = v.defaultCurrency
	}
	if _, ok := v.currencies[currency]; !ok {
		errs = append(errs, "currency must be one of "+strings.Join(v.currencyNames(), ", "))
	}

	status := entity.InvoiceStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if status == "" {
		status = entity.StatusDraft
	}
	if !status.Valid() {
		errs = append(errs, "status must be one of cancelled, draft, paid, sent")
	} else if caller.Role == entity.RoleCompany {
		if _, ok := v.companyStatuses[status]; !ok {
			errs = append(errs, "company can set status only to 'draft' or 'sent'")
		}
	}

	items, itemErrs := v.resolveItems(in.Items, caller, products)
	errs = append(errs, itemErrs...)

	if len(errs) > 0 {
		return nil, errs
	}

	var note *string
	if n := strings.TrimSpace(in.Note); n != "" {
		note = &n
	}

	return &Payload{
		Number:       number,
		IssueDate:    issueDate,
		DueDate:      dueDate,
		Currency:     currency,
		RecipientPIB: recipientPIB,
		Status:       status,
		Note:         note,
		Items:        items,
	}, nil
}

func (v *Validator) currencyNames() []string {
	names := make([]string, 0, len(v.currencies))
	for c := range v.currencies {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
