package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gendoc/internal/payroll/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeGross3000(t *testing.T) {
	result := Compute(dec("3000"), dec("151.67"))

	require.Len(t, result.Contributions, 10)
	assert.True(t, result.NetBeforeTax.GreaterThan(dec("2000")), "net = %s", result.NetBeforeTax)
	assert.True(t, result.NetBeforeTax.LessThan(dec("3000")))
	assert.True(t, result.EmployerCost.GreaterThan(dec("3000")), "cost = %s", result.EmployerCost)

	// 20.15% of 3000 withheld in total
	assert.True(t, result.TotalEmployee.Equal(dec("604.50")), "employee = %s", result.TotalEmployee)
	assert.True(t, result.NetBeforeTax.Equal(dec("2395.50")))
}

func TestComputeNetSocialExcludesNonDeductible(t *testing.T) {
	result := Compute(dec("3000"), dec("151.67"))

	// deductible employee shares: 6.90 + 0.40 + 3.15 + 6.80 = 17.25%
	assert.True(t, result.NetSocial.Equal(dec("2482.50")), "net social = %s", result.NetSocial)
	assert.True(t, result.NetSocial.GreaterThan(result.NetBeforeTax))
}

func TestComputeCeilingCapsPensionBases(t *testing.T) {
	result := Compute(dec("5000"), dec("151.67"))

	lines := make(map[string]domain.ContributionLine)
	for _, line := range result.Contributions {
		lines[line.Label] = line
	}

	// both Vieillesse lines compute on min(gross, ceiling)
	capped, ok := lines["Retraite - Vieillesse plafonnée"]
	require.True(t, ok)
	assert.True(t, capped.Base.Equal(domain.MonthlyCeiling), "base = %s", capped.Base)
	assert.True(t, capped.EmployeeShare.Equal(dec("266.62")), "share = %s", capped.EmployeeShare)

	uncapped, ok := lines["Retraite - Vieillesse déplafonnée"]
	require.True(t, ok)
	assert.True(t, uncapped.Base.Equal(domain.MonthlyCeiling), "base = %s", uncapped.Base)
	assert.True(t, uncapped.EmployeeShare.Equal(dec("15.46")), "share = %s", uncapped.EmployeeShare)
	assert.True(t, uncapped.EmployerShare.Equal(dec("78.05")), "share = %s", uncapped.EmployerShare)

	// T1 stays on full gross
	t1, ok := lines["Retraite complémentaire T1"]
	require.True(t, ok)
	assert.True(t, t1.Base.Equal(dec("5000")))
}

func TestComputeBelowCeilingUsesGross(t *testing.T) {
	result := Compute(dec("2500"), dec("151.67"))
	for _, line := range result.Contributions {
		assert.True(t, line.Base.Equal(dec("2500")), "%s base = %s", line.Label, line.Base)
	}
}

func TestScaleOrderIsStable(t *testing.T) {
	require.Len(t, domain.Rates2024, 10)
	assert.Equal(t, "Santé - Maladie", domain.Rates2024[0].Label)
	assert.Equal(t, "CRDS", domain.Rates2024[9].Label)
}
