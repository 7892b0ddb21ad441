// Package domain defines the invoice calculation types.
package domain

import "github.com/shopspring/decimal"

// LineItem is a single billed line. Inputs are validated upstream;
// the calculator assumes quantity > 0, price >= 0 and 0 <= rate <= 100.
type LineItem struct {
	Designation string
	Quantity    decimal.Decimal
	UnitPriceHT decimal.Decimal
	TaxRate     decimal.Decimal
	DiscountPct decimal.Decimal
}

// ComputedLine carries the per-line derived amounts, rounded to the cent.
type ComputedLine struct {
	LineItem
	AmountHT  decimal.Decimal
	AmountTVA decimal.Decimal
	AmountTTC decimal.Decimal
}

// TaxLine accumulates the taxable base and tax for one exact rate.
type TaxLine struct {
	Rate decimal.Decimal
	Base decimal.Decimal
	TVA  decimal.Decimal
}

// InvoiceTotals is the result of computing a full invoice.
type InvoiceTotals struct {
	Lines    []ComputedLine
	TotalHT  decimal.Decimal
	TotalTVA decimal.Decimal
	TotalTTC decimal.Decimal

	// TaxBreakdown preserves first-seen rate order for rendering.
	TaxBreakdown []TaxLine
}

// ByRate returns the breakdown entry for an exact rate, if present.
func (t InvoiceTotals) ByRate(rate decimal.Decimal) (TaxLine, bool) {
	for _, line := range t.TaxBreakdown {
		if line.Rate.Equal(rate) {
			return line, true
		}
	}
	return TaxLine{}, false
}
