package invoicing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/application/invoicing"
	"github.com/stefankostic/efakture/internal/domain/entity"
)

// fakeProductRepo serves a fixed catalog keyed by product id.
type fakeProductRepo struct {
	products map[int64]*entity.Product
}

func (f *fakeProductRepo) Create(*entity.Product) error                 { return nil }
func (f *fakeProductRepo) GetByID(id int64) (*entity.Product, error)    { return f.products[id], nil }
func (f *fakeProductRepo) ListByOwner(int64) ([]*entity.Product, error) { return nil, nil }
func (f *fakeProductRepo) ListAll() ([]*entity.Product, error)          { return nil, nil }
func (f *fakeProductRepo) Delete(int64) error                           { return nil }

func companyCaller() *entity.User {
	pib := "100000001"
	return &entity.User{ID: 1, Role: entity.RoleCompany, PIB: &pib}
}

func catalogFor(ownerID int64) *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*entity.Product{
		10: {ID: 10, OwnerUserID: ownerID, Name: "Usluga", Code: "USL-001"},
		20: {ID: 20, OwnerUserID: 99, Name: "Tudji artikal", Code: "X-001"},
	}}
}

func validRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Number:       "2026-0001",
		IssueDate:    "2026-09-01",
		RecipientPIB: "100000002",
		Items: []dto.InvoiceItemRequest{
			{ProductID: float64(10), Qty: float64(2), UnitPrice: float64(250), TaxRate: float64(20)},
		},
	}
}

func TestValidatePayloadHappyPath(t *testing.T) {
	v := invoicing.NewValidator()
	payload, errs := v.ValidatePayload(validRequest(), companyCaller(), catalogFor(1))

	require.Empty(t, errs)
	require.NotNil(t, payload)
	assert.Equal(t, "2026-0001", payload.Number)
	assert.Equal(t, "RSD", payload.Currency, "currency defaults to RSD")
	assert.Equal(t, entity.StatusDraft, payload.Status, "status defaults to draft")
	assert.Equal(t, "100000002", payload.RecipientPIB)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Usluga", payload.Items[0].Name, "item snapshots catalog fields")
	assert.Equal(t, "USL-001", payload.Items[0].Code)
}

func TestValidatePayloadAccumulatesErrors(t *testing.T) {
	v := invoicing.NewValidator()
	in := dto.CreateInvoiceRequest{
		Number:       "   ",
		IssueDate:    "01.09.2026",
		RecipientPIB: "12345",
		Currency:     "GBP",
		Status:       "archived",
		Items:        nil,
	}
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Nil(t, payload)
	assert.Equal(t, []string{
		"number is required",
		"issue_date must be ISO date (YYYY-MM-DD)",
		"recipient_pib must be 9 digits",
		"currency must be one of EUR, RSD, USD",
		"status must be one of cancelled, draft, paid, sent",
		"at least one item is required",
	}, errs)
}

func TestValidatePayloadMalformedDueDateIsDropped(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.DueDate = "not-a-date"
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Empty(t, errs)
	assert.Nil(t, payload.DueDate)
}

func TestValidatePayloadCurrencyCaseInsensitive(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.Currency = "eur"
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Empty(t, errs)
	assert.Equal(t, "EUR", payload.Currency)
}

func TestValidatePayloadCompanyStatusRestricted(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.Status = "paid"
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Nil(t, payload)
	assert.Contains(t, errs, "company can set status only to 'draft' or 'sent'")
}

func TestValidatePayloadAdminMayUseAnyStatus(t *testing.T) {
	v := invoicing.NewValidator()
	admin := &entity.User{ID: 1, Role: entity.RoleAdmin}
	in := validRequest()
	in.Status = "paid"
	payload, errs := v.ValidatePayload(in, admin, catalogFor(1))

	require.Empty(t, errs)
	assert.Equal(t, entity.StatusPaid, payload.Status)
}

func TestValidatePayloadNoteTrimmedAndEmptyDropped(t *testing.T) {
	v := invoicing.NewValidator()

	in := validRequest()
	in.Note = "   "
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))
	require.Empty(t, errs)
	assert.Nil(t, payload.Note)

	in.Note = "  hitno  "
	payload, errs = v.ValidatePayload(in, companyCaller(), catalogFor(1))
	require.Empty(t, errs)
	require.NotNil(t, payload.Note)
	assert.Equal(t, "hitno", *payload.Note)
}

func TestItemErrorsArePositional(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.Items = []dto.InvoiceItemRequest{
		{ProductID: "abc", Qty: float64(1), UnitPrice: float64(1), TaxRate: float64(0)},
		{ProductID: float64(777), Qty: float64(1), UnitPrice: float64(1), TaxRate: float64(0)},
		{ProductID: float64(20), Qty: float64(1), UnitPrice: float64(1), TaxRate: float64(0)},
		{ProductID: float64(10), Qty: "x", UnitPrice: float64(1), TaxRate: float64(0)},
	}
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Nil(t, payload)
	assert.Equal(t, []string{
		"item #1: product_id is required and must be integer",
		"item #2: product not found",
		"item #3: product does not belong to issuer",
		"item #4: invalid numeric fields",
	}, errs)
}

func TestItemRangeChecksDoNotShortCircuit(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.Items = []dto.InvoiceItemRequest{
		{ProductID: float64(10), Qty: float64(0), UnitPrice: float64(-1), TaxRate: float64(7)},
	}
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Nil(t, payload)
	assert.Equal(t, []string{
		"item #1: qty must be > 0",
		"item #1: unit_price must be >= 0",
		"item #1: tax_rate must be one of 0, 10, 20",
	}, errs)
}

func TestOneBadItemRejectsWholeBatch(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.Items = append(in.Items, dto.InvoiceItemRequest{
		ProductID: float64(10), Qty: float64(-1), UnitPrice: float64(1), TaxRate: float64(0),
	})
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Nil(t, payload)
	assert.Equal(t, []string{"item #2: qty must be > 0"}, errs)
}

func TestItemNumericFieldsAcceptStrings(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.Items = []dto.InvoiceItemRequest{
		{ProductID: "10", Qty: "2.5", UnitPrice: "99.99", TaxRate: "10"},
	}
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Empty(t, errs)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "2.5", payload.Items[0].Qty.String())
	assert.Equal(t, "99.99", payload.Items[0].UnitPrice.String())
	assert.Equal(t, int64(10), payload.Items[0].TaxRate)
}

func TestFractionalProductIDRejected(t *testing.T) {
	v := invoicing.NewValidator()
	in := validRequest()
	in.Items = []dto.InvoiceItemRequest{
		{ProductID: float64(10.5), Qty: float64(1), UnitPrice: float64(1), TaxRate: float64(0)},
	}
	payload, errs := v.ValidatePayload(in, companyCaller(), catalogFor(1))

	require.Nil(t, payload)
	assert.Equal(t, []string{"item #1: product_id is required and must be integer"}, errs)
}
