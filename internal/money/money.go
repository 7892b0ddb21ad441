// Package money implements the decimal arithmetic rules for French
// business documents: amounts carry two fractional digits and round
// half away from zero, per the legal rounding convention.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// RoundLegal rounds an amount to 2 decimal places, half away from zero.
// decimal.Round already implements half-away-from-zero; RoundBank (half
// to even) must not be used for invoice or payroll amounts.
func RoundLegal(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// Percent applies rate% to base and rounds the result.
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return RoundLegal(base.Mul(rate).Div(hundred))
}

// VATAmount returns the TVA due on an HT amount at the given rate.
func VATAmount(amountHT, rate decimal.Decimal) decimal.Decimal {
	return Percent(amountHT, rate)
}

// GrossUp returns the TTC amount for an HT amount at the given rate.
func GrossUp(amountHT, rate decimal.Decimal) decimal.Decimal {
	return amountHT.Add(VATAmount(amountHT, rate))
}

// ApplyDiscount reduces an amount by pct%. The result stays unrounded;
// callers round via RoundLegal after the multiplicative steps they
// control. A zero or negative percentage returns the amount unchanged.
func ApplyDiscount(amount, pct decimal.Decimal) decimal.Decimal {
	if pct.IsZero() || pct.IsNegative() {
		return amount
	}
	return amount.Sub(amount.Mul(pct).Div(hundred))
}

// Min returns the smaller of two decimals.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThanOrEqual(b) {
		return a
	}
	return b
}
