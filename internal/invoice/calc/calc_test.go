package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gendoc/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(qty, price, rate string) domain.LineItem {
	return domain.LineItem{
		Designation: "Prestation",
		Quantity:    dec(qty),
		UnitPriceHT: dec(price),
		TaxRate:     dec(rate),
	}
}

func TestComputeSingleRate(t *testing.T) {
	totals := Compute([]domain.LineItem{
		line("1", "100", "20"),
		line("2", "50", "20"),
	})

	assert.True(t, totals.TotalHT.Equal(dec("200.00")), "HT = %s", totals.TotalHT)
	assert.True(t, totals.TotalTVA.Equal(dec("40.00")), "TVA = %s", totals.TotalTVA)
	assert.True(t, totals.TotalTTC.Equal(dec("240.00")), "TTC = %s", totals.TotalTTC)
	require.Len(t, totals.TaxBreakdown, 1)
	assert.True(t, totals.TaxBreakdown[0].Base.Equal(dec("200.00")))
	assert.True(t, totals.TaxBreakdown[0].TVA.Equal(dec("40.00")))
}

func TestComputeBreakdownPerRate(t *testing.T) {
	totals := Compute([]domain.LineItem{
		line("1", "100", "20"),
		line("1", "100", "10"),
		line("3", "10", "20"),
	})

	require.Len(t, totals.TaxBreakdown, 2)

	twenty, ok := totals.ByRate(dec("20"))
	require.True(t, ok)
	assert.True(t, twenty.Base.Equal(dec("130.00")))
	assert.True(t, twenty.TVA.Equal(dec("26.00")))

	ten, ok := totals.ByRate(dec("10"))
	require.True(t, ok)
	assert.True(t, ten.Base.Equal(dec("100.00")))
	assert.True(t, ten.TVA.Equal(dec("10.00")))

	// first-seen order drives rendering
	assert.True(t, totals.TaxBreakdown[0].Rate.Equal(dec("20")))
	assert.True(t, totals.TaxBreakdown[1].Rate.Equal(dec("10")))
}

func TestComputeLineDiscount(t *testing.T) {
	item := line("2", "100", "20")
	item.DiscountPct = dec("10")

	computed := ComputeLine(item)
	assert.True(t, computed.AmountHT.Equal(dec("180.00")), "HT = %s", computed.AmountHT)
	assert.True(t, computed.AmountTVA.Equal(dec("36.00")))
	assert.True(t, computed.AmountTTC.Equal(dec("216.00")))

	// discounted line never exceeds the undiscounted one
	full := ComputeLine(line("2", "100", "20"))
	assert.True(t, computed.AmountTTC.LessThanOrEqual(full.AmountTTC))
}

func TestComputeLineRounding(t *testing.T) {
	// 3 * 33.335 = 100.005, half away from zero -> 100.01
	computed := ComputeLine(line("3", "33.335", "20"))
	assert.True(t, computed.AmountHT.Equal(dec("100.01")), "HT = %s", computed.AmountHT)
	assert.True(t, computed.AmountTVA.Equal(dec("20.00")), "TVA = %s", computed.AmountTVA)
}

func TestComputeEmpty(t *testing.T) {
	totals := Compute(nil)
	assert.True(t, totals.TotalHT.IsZero())
	assert.True(t, totals.TotalTVA.IsZero())
	assert.True(t, totals.TotalTTC.IsZero())
	assert.Empty(t, totals.TaxBreakdown)
}
