// Package domain defines the payroll contribution model.
package domain

import "github.com/shopspring/decimal"

// CapKind says which base a contribution line is computed on.
type CapKind int

const (
	// CapNone computes on the full gross salary.
	CapNone CapKind = iota
	// CapMonthlyCeiling computes on min(gross, monthly ceiling).
	CapMonthlyCeiling
)

// Deductibility classifies a contribution for the net-social aggregate.
type Deductibility int

const (
	// Deductible employee shares reduce the net social amount.
	Deductible Deductibility = iota
	// NonDeductible shares are withheld but do not reduce net social.
	NonDeductible
	// FlatSocialDebt covers CRDS, withheld like a non-deductible share.
	FlatSocialDebt
)

// ContributionRate is one row of the fixed contribution scale.
type ContributionRate struct {
	Label         string
	EmployeeRate  decimal.Decimal
	EmployerRate  decimal.Decimal
	Cap           CapKind
	Deductibility Deductibility
}

// ContributionLine is a computed contribution with its rounded shares.
type ContributionLine struct {
	ContributionRate
	Base          decimal.Decimal
	EmployeeShare decimal.Decimal
	EmployerShare decimal.Decimal
}

// PayrollResult aggregates one pay period.
type PayrollResult struct {
	GrossSalary   decimal.Decimal
	HoursWorked   decimal.Decimal
	Contributions []ContributionLine
	TotalEmployee decimal.Decimal
	TotalEmployer decimal.Decimal
	NetBeforeTax  decimal.Decimal
	NetSocial     decimal.Decimal
	EmployerCost  decimal.Decimal
}

// MonthlyCeiling is the 2024 monthly social security ceiling (PMSS), in euros.
var MonthlyCeiling = decimal.NewFromInt(3864)

func rate(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Rates2024 is the simplified 2024 contribution scale. Order is load-bearing:
// it drives payslip rendering. Both Vieillesse lines carry the ceiling cap to
// keep historical payslip output stable; Retraite complémentaire T1 is
// tranche-1 work but is computed on full gross for the same reason.
var Rates2024 = []ContributionRate{
	{Label: "Santé - Maladie", EmployeeRate: rate("0"), EmployerRate: rate("7.00"), Cap: CapNone, Deductibility: Deductible},
	{Label: "Accidents du travail", EmployeeRate: rate("0"), EmployerRate: rate("2.21"), Cap: CapNone, Deductibility: Deductible},
	{Label: "Retraite - Vieillesse plafonnée", EmployeeRate: rate("6.90"), EmployerRate: rate("8.55"), Cap: CapMonthlyCeiling, Deductibility: Deductible},
	{Label: "Retraite - Vieillesse déplafonnée", EmployeeRate: rate("0.40"), EmployerRate: rate("2.02"), Cap: CapMonthlyCeiling, Deductibility: Deductible},
	{Label: "Famille", EmployeeRate: rate("0"), EmployerRate: rate("3.45"), Cap: CapNone, Deductibility: Deductible},
	{Label: "Chômage", EmployeeRate: rate("0"), EmployerRate: rate("4.05"), Cap: CapNone, Deductibility: Deductible},
	{Label: "Retraite complémentaire T1", EmployeeRate: rate("3.15"), EmployerRate: rate("4.72"), Cap: CapNone, Deductibility: Deductible},
	{Label: "CSG déductible", EmployeeRate: rate("6.80"), EmployerRate: rate("0"), Cap: CapNone, Deductibility: Deductible},
	{Label: "CSG non déductible", EmployeeRate: rate("2.40"), EmployerRate: rate("0"), Cap: CapNone, Deductibility: NonDeductible},
	{Label: "CRDS", EmployeeRate: rate("0.50"), EmployerRate: rate("0"), Cap: CapNone, Deductibility: FlatSocialDebt},
}
