// Package calc computes payslip contributions and aggregates.
package calc

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gendoc/internal/money"
	"github.com/smallbiznis/gendoc/internal/payroll/domain"
)

// Compute runs the full contribution scale against one gross salary.
// Gross is validated upstream (> 0); hours is informational.
func Compute(gross, hours decimal.Decimal) domain.PayrollResult {
	result := domain.PayrollResult{
		GrossSalary:   gross,
		HoursWorked:   hours,
		TotalEmployee: decimal.Zero,
		TotalEmployer: decimal.Zero,
	}

	deductibleEmployee := decimal.Zero
	for _, r := range domain.Rates2024 {
		base := gross
		if r.Cap == domain.CapMonthlyCeiling {
			base = money.Min(gross, domain.MonthlyCeiling)
		}

		line := domain.ContributionLine{
			ContributionRate: r,
			Base:             base,
			EmployeeShare:    money.Percent(base, r.EmployeeRate),
			EmployerShare:    money.Percent(base, r.EmployerRate),
		}
		result.Contributions = append(result.Contributions, line)

		result.TotalEmployee = result.TotalEmployee.Add(line.EmployeeShare)
		result.TotalEmployer = result.TotalEmployer.Add(line.EmployerShare)
		if r.Deductibility == domain.Deductible {
			deductibleEmployee = deductibleEmployee.Add(line.EmployeeShare)
		}
	}

	result.TotalEmployee = money.RoundLegal(result.TotalEmployee)
	result.TotalEmployer = money.RoundLegal(result.TotalEmployer)
	result.NetBeforeTax = money.RoundLegal(gross.Sub(result.TotalEmployee))
	result.NetSocial = money.RoundLegal(gross.Sub(deductibleEmployee))
	result.EmployerCost = money.RoundLegal(gross.Add(result.TotalEmployer))
	return result
}
