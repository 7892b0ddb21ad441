// Package calc computes invoice amounts with exact decimal arithmetic.
package calc

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gendoc/internal/invoice/domain"
	"github.com/smallbiznis/gendoc/internal/money"
)

// ComputeLine derives the rounded HT, TVA and TTC amounts for one line.
// The discount applies to the exact quantity*price product before rounding.
func ComputeLine(item domain.LineItem) domain.ComputedLine {
	base := item.Quantity.Mul(item.UnitPriceHT)
	base = money.ApplyDiscount(base, item.DiscountPct)

	ht := money.RoundLegal(base)
	tva := money.VATAmount(ht, item.TaxRate)

	return domain.ComputedLine{
		LineItem:  item,
		AmountHT:  ht,
		AmountTVA: tva,
		AmountTTC: ht.Add(tva),
	}
}

// Compute aggregates the lines of one invoice. Totals are sums of the
// per-line rounded amounts, re-rounded; the tax breakdown groups lines by
// exact rate in first-seen order.
func Compute(items []domain.LineItem) domain.InvoiceTotals {
	totals := domain.InvoiceTotals{
		TotalHT:  decimal.Zero,
		TotalTVA: decimal.Zero,
		TotalTTC: decimal.Zero,
	}

	for _, item := range items {
		line := ComputeLine(item)
		totals.Lines = append(totals.Lines, line)
		totals.TotalHT = totals.TotalHT.Add(line.AmountHT)
		totals.TotalTVA = totals.TotalTVA.Add(line.AmountTVA)
		totals.TotalTTC = totals.TotalTTC.Add(line.AmountTTC)

		accumulate(&totals, line)
	}

	totals.TotalHT = money.RoundLegal(totals.TotalHT)
	totals.TotalTVA = money.RoundLegal(totals.TotalTVA)
	totals.TotalTTC = money.RoundLegal(totals.TotalTTC)
	return totals
}

func accumulate(totals *domain.InvoiceTotals, line domain.ComputedLine) {
	for i := range totals.TaxBreakdown {
		if totals.TaxBreakdown[i].Rate.Equal(line.TaxRate) {
			totals.TaxBreakdown[i].Base = totals.TaxBreakdown[i].Base.Add(line.AmountHT)
			totals.TaxBreakdown[i].TVA = totals.TaxBreakdown[i].TVA.Add(line.AmountTVA)
			return
		}
	}
	totals.TaxBreakdown = append(totals.TaxBreakdown, domain.TaxLine{
		Rate: line.TaxRate,
		Base: line.AmountHT,
		TVA:  line.AmountTVA,
	})
}
