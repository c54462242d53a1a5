// Package pdf renders the printable representation of an invoice with
// Maroto v2.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────┐
//	│  HEADER: site name        │  Faktura broj + datum       │
//	│  ───────────────────────────────────────────────────    │
//	│  IZDAVALAC: naziv + PIB                                  │
//	│  KOMITENT: naziv + PIB                                   │
//	│  ───────────────────────────────────────────────────    │
//	│  TABELA: # | Opis | Količina | Cena | PDV | Iznos        │
//	│  ───────────────────────────────────────────────────    │
//	│  TOTALI: Osnovica / PDV / UKUPNO ZA UPLATU               │
//	│  NAPOMENA (opciono)                                      │
//	└─────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/stefankostic/efakture/internal/application/invoicing"
	"github.com/stefankostic/efakture/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 20, Green: 60, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ invoicing.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implements invoicing.PDFGenerator using Maroto v2.
type MarotoPDFGenerator struct {
	siteName string
}

// NewMarotoPDFGenerator builds the generator. siteName goes into the header
// and document metadata.
func NewMarotoPDFGenerator(siteName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{siteName: siteName}
}

// Render renders the invoice and returns the PDF bytes. recipient may be nil
// when the recipient PIB is not a registered company.
func (g *MarotoPDFGenerator) Render(
	_ context.Context,
	invoice *entity.Invoice,
	issuer, recipient *entity.User,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Faktura "+invoice.Number, true).
		WithAuthor(g.siteName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("IZDAVALAC", issuerName(issuer), invoice.IssuerPIB))
	m.AddRows(partyRow("KOMITENT", recipientName(recipient), invoice.RecipientPIB))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(invoice) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	if invoice.Note != nil {
		m.AddRows(noteRow(*invoice.Note))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: site name left, invoice number and dates right.
func (g *MarotoPDFGenerator) headerRow(invoice *entity.Invoice) core.Row {
	issued := "Datum izdavanja: " + invoice.IssueDate.Format("02.01.2006.")
	due := ""
	if invoice.DueDate != nil {
		due = "Rok plaćanja: " + invoice.DueDate.Format("02.01.2006.")
	}
	return row.New(20).Add(
		col.New(6).Add(
			text.New(g.siteName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(6).Add(
			text.New("FAKTURA "+invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New(issued, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New(due, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partyRow: one party block with name and PIB.
func partyRow(label, name, pib string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   PIB: %s", name, pib), props.Text{
				Size: 9, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: item table header.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Opis", 4, align.Left),
		h("Količina", 2, align.Right),
		h("Cena", 2, align.Right),
		h("PDV", 1, align.Center),
		h("Iznos", 2, align.Right),
	)
}

// tableItemRows: one row per line item, tax-inclusive amount in the last
// column.
func tableItemRows(invoice *entity.Invoice) []core.Row {
	result := make([]core.Row, 0, len(invoice.Items))
	for i, it := range invoice.Items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				itemLabel(it),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.Qty.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				money(it.UnitPrice, invoice.Currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				fmt.Sprintf("%d%%", it.TaxRate),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				money(it.LineTotalWithTax(), invoice.Currency),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: tax base, tax and grand total, right-aligned.
func totalsRow(invoice *entity.Invoice) core.Row {
	base := decimal.Zero
	for _, it := range invoice.Items {
		base = base.Add(it.LineTotal())
	}
	base = base.Round(2)
	tax := invoice.TotalAmount.Sub(base)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Osnovica:"),
			label("PDV:"),
			text.New("UKUPNO ZA UPLATU:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2,
			}),
		),
		col.New(4).Add(
			value(money(base, invoice.Currency)),
			value(money(tax, invoice.Currency)),
			text.New(money(invoice.TotalAmount, invoice.Currency), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1,
			}),
		),
	)
}

func noteRow(note string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("NAPOMENA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3,
			}),
			text.New(note, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
	)
}

func itemLabel(it *entity.InvoiceItem) string {
	label := fmt.Sprintf("%s (%s)", it.Name, it.Code)
	if it.MaterialType != nil {
		label += " - " + *it.MaterialType
	}
	return label
}

func money(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

func issuerName(issuer *entity.User) string {
	if issuer == nil {
		return "-"
	}
	return issuer.Name
}

func recipientName(recipient *entity.User) string {
	if recipient == nil {
		return "Neregistrovan komitent"
	}
	return recipient.Name
}
