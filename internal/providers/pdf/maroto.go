package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	appconfig "github.com/smallbiznis/gendoc/internal/config"
)

type marotoProvider struct {
	company appconfig.Company
}

// New creates the maroto-backed renderer.
func New(cfg appconfig.Config) Provider {
	return &marotoProvider{company: cfg.Company}
}

func (p *marotoProvider) newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()
	return maroto.New(cfg)
}

func (p *marotoProvider) addHeader(m core.Maroto, title string) {
	if p.company.LogoPath != "" {
		m.AddRow(30,
			image.NewFromFileCol(3, p.company.LogoPath, props.Rect{Percent: 80}),
			col.New(9),
		)
	}
	m.AddRow(12,
		text.NewCol(12, title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
}

func (p *marotoProvider) companyCol(width int) core.Col {
	c := col.New(width).Add(
		text.New(p.company.Name, props.Text{Style: fontstyle.Bold}),
		text.New(p.company.Address, props.Text{Top: 5, Size: 9}),
		text.New(p.company.PostalCode+" "+p.company.City, props.Text{Top: 9, Size: 9}),
	)
	if p.company.SIRET != "" {
		c.Add(text.New("SIRET : "+p.company.SIRET, props.Text{Top: 13, Size: 9}))
	}
	if p.company.TVAIntra != "" {
		c.Add(text.New("TVA : "+p.company.TVAIntra, props.Text{Top: 17, Size: 9}))
	}
	return c
}

func (p *marotoProvider) RenderInvoice(_ context.Context, doc InvoiceDocument) ([]byte, error) {
	m := p.newDocument()
	p.addHeader(m, "FACTURE "+doc.Number)

	m.AddRow(12,
		col.New(6).Add(
			text.New("Date d'émission : "+doc.Date.Format("02/01/2006"), props.Text{Size: 9}),
			text.New("Numéro : "+doc.Number, props.Text{Top: 4, Size: 9}),
		),
		col.New(6),
	)

	clientCol := col.New(6).Add(
		text.New("Client", props.Text{Style: fontstyle.Bold}),
		text.New(doc.Client.Name, props.Text{Top: 5, Size: 9}),
		text.New(doc.Client.Address, props.Text{Top: 9, Size: 9}),
		text.New(doc.Client.PostalCode+" "+doc.Client.City, props.Text{Top: 13, Size: 9}),
	)
	if doc.Client.SIRET != "" {
		clientCol.Add(text.New("SIRET : "+doc.Client.SIRET, props.Text{Top: 17, Size: 9}))
	}
	m.AddRow(35, p.companyCol(6), clientCol)

	m.AddRow(8,
		text.NewCol(5, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qté", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "PU HT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(1, "TVA %", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Montant HT", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, line := range doc.Totals.Lines {
		m.AddRow(8,
			text.NewCol(5, line.Designation, props.Text{Size: 9}),
			text.NewCol(1, line.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, euro(line.UnitPriceHT.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(1, line.TaxRate.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, euro(line.AmountHT.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
		)
	}

	// per-rate VAT summary, in the order the rates appeared
	m.AddRow(8,
		col.New(4),
		text.NewCol(8, "Détail TVA", props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
	)
	for _, tax := range doc.Totals.TaxBreakdown {
		m.AddRow(7,
			col.New(4),
			text.NewCol(3, "Base "+tax.Rate.String()+" %", props.Text{Size: 9}),
			text.NewCol(2, euro(tax.Base.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, "TVA "+euro(tax.TVA.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(7),
		text.NewCol(2, "Total HT", props.Text{Size: 9}),
		text.NewCol(3, euro(doc.Totals.TotalHT.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(7),
		text.NewCol(2, "Total TVA", props.Text{Size: 9}),
		text.NewCol(3, euro(doc.Totals.TotalTVA.StringFixed(2)), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(7),
		text.NewCol(2, "Total TTC", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(3, euro(doc.Totals.TotalTTC.StringFixed(2)), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if doc.QRPayload != "" {
		m.AddRow(35,
			code.NewQrCol(3, doc.QRPayload, props.Rect{Center: false, Percent: 90}),
			col.New(9).Add(
				text.New("Payer par virement en scannant ce code", props.Text{Size: 8, Top: 5}),
				text.New("IBAN : "+p.company.IBAN, props.Text{Size: 8, Top: 10}),
			),
		)
	}

	mentions := doc.PaymentTerms
	if doc.LateRate != "" {
		mentions += fmt.Sprintf(" — Pénalités de retard : %s %% — Indemnité forfaitaire de recouvrement : %s €", doc.LateRate, doc.RecoveryFee)
	}
	m.AddRow(15, text.NewCol(12, mentions, props.Text{Size: 8, Top: 4}))

	rendered, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", doc.Number, err)
	}
	return rendered.GetBytes(), nil
}

func (p *marotoProvider) RenderPayslip(_ context.Context, doc PayslipDocument) ([]byte, error) {
	m := p.newDocument()
	p.addHeader(m, "BULLETIN DE PAIE")

	employeeCol := col.New(6).Add(
		text.New("Salarié", props.Text{Style: fontstyle.Bold}),
		text.New(doc.Employee.FirstName+" "+doc.Employee.LastName, props.Text{Top: 5, Size: 9}),
	)
	if doc.Employee.Position != "" {
		employeeCol.Add(text.New("Poste : "+doc.Employee.Position, props.Text{Top: 9, Size: 9}))
	}
	employeeCol.Add(text.New("Période : "+doc.Period.Format("01/2006"), props.Text{Top: 13, Size: 9}))
	m.AddRow(35, p.companyCol(6), employeeCol)

	m.AddRow(8,
		text.NewCol(5, "Cotisation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Base", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Part salariale", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Part patronale", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, line := range doc.Result.Contributions {
		m.AddRow(7,
			text.NewCol(5, line.Label, props.Text{Size: 8}),
			text.NewCol(2, euro(line.Base.StringFixed(2)), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, euro(line.EmployeeShare.StringFixed(2)), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(3, euro(line.EmployerShare.StringFixed(2)), props.Text{Size: 8, Align: align.Right}),
		)
	}

	aggregates := []struct {
		label string
		value string
		bold  bool
	}{
		{"Salaire brut", doc.Result.GrossSalary.StringFixed(2), false},
		{"Total cotisations salariales", doc.Result.TotalEmployee.StringFixed(2), false},
		{"Net à payer avant impôt", doc.Result.NetBeforeTax.StringFixed(2), true},
		{"Montant net social", doc.Result.NetSocial.StringFixed(2), false},
		{"Coût total employeur", doc.Result.EmployerCost.StringFixed(2), false},
	}
	for _, agg := range aggregates {
		style := props.Text{Size: 9, Align: align.Right}
		if agg.bold {
			style.Style = fontstyle.Bold
			style.Size = 10
		}
		labelStyle := style
		labelStyle.Align = align.Left
		m.AddRow(8,
			col.New(5),
			text.NewCol(4, agg.label, labelStyle),
			text.NewCol(3, euro(agg.value), style),
		)
	}

	rendered, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render payslip %s: %w", doc.Number, err)
	}
	return rendered.GetBytes(), nil
}

func euro(amount string) string {
	return amount + " €"
}
