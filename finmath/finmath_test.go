package finmath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeEMI_ZeroRateIsStraightDivision(t *testing.T) {
	cases := []struct {
		principal string
		months    int
		want      string
	}{
		{"1200", 12, "100"},
		{"100000", 24, "4166.67"},
		{"999.99", 3, "333.33"},
	}
	for _, tc := range cases {
		got := ComputeEMI(dec(tc.principal), decimal.Zero, tc.months)
		assert.True(t, got.Equal(dec(tc.want)),
			"principal=%s months=%d: got %s want %s", tc.principal, tc.months, got, tc.want)
	}
}

func TestComputeEMI_ReferenceAmortization(t *testing.T) {
	// 800,000 at 9% over 24 months.
	emi := ComputeEMI(dec("800000"), dec("9.0"), 24)
	assert.True(t, emi.Equal(dec("36547.79")), "got %s", emi)

	total := emi.Mul(decimal.NewFromInt(24))
	interest := total.Sub(dec("800000"))
	assert.True(t, interest.IsPositive())
}

func TestComputeEMI_InvalidInputs(t *testing.T) {
	assert.True(t, ComputeEMI(decimal.Zero, dec("10"), 12).IsZero())
	assert.True(t, ComputeEMI(dec("-5"), dec("10"), 12).IsZero())
	assert.True(t, ComputeEMI(dec("1000"), dec("-1"), 12).IsZero())
	assert.True(t, ComputeEMI(dec("1000"), dec("10"), 0).IsZero())
}

func TestMaxPrincipalForEMI_RoundTrips(t *testing.T) {
	principal := MaxPrincipalForEMI(dec("36547.79"), dec("9.0"), 24)
	// Re-deriving the EMI from the recovered principal stays within a rupee.
	emi := ComputeEMI(principal, dec("9.0"), 24)
	diff := emi.Sub(dec("36547.79")).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromInt(1)), "diff %s", diff)
}

func TestDownpaymentImpact(t *testing.T) {
	split := DownpaymentImpact(dec("1050000"), dec("20"))
	assert.True(t, split.DownpaymentAmount.Equal(dec("210000")))
	assert.True(t, split.LoanAmount.Equal(dec("840000")))
}

func TestDownpaymentImpact_ClampsOutOfRange(t *testing.T) {
	for _, pct := range []string{"-5", "150"} {
		split := DownpaymentImpact(dec("1000"), dec(pct))
		assert.True(t, split.DownpaymentAmount.Equal(dec("200")), "pct=%s", pct)
		assert.True(t, split.LoanAmount.Equal(dec("800")), "pct=%s", pct)
	}
}

func TestAffordabilityRatio_Bands(t *testing.T) {
	cases := []struct {
		emi, income string
		want        AffordabilityClass
	}{
		{"10000", "50000", AffordabilityComfortable}, // exactly 20% is still comfortable
		{"10001", "50000", AffordabilityManageable},
		{"15000", "50000", AffordabilityManageable},
		{"17500", "50000", AffordabilityCaution},
		{"25000", "50000", AffordabilityHighRisk},
	}
	for _, tc := range cases {
		got := AffordabilityRatio(dec(tc.emi), dec(tc.income))
		assert.Equal(t, tc.want, got.Class, "emi=%s income=%s ratio=%s", tc.emi, tc.income, got.RatioPercent)
	}
}

func TestAffordabilityRatio_NoIncome(t *testing.T) {
	got := AffordabilityRatio(dec("5000"), decimal.Zero)
	assert.Equal(t, AffordabilityNoIncome, got.Class)
}

func TestAffordabilityRatio_Monotonic(t *testing.T) {
	income := dec("60000")
	prev := decimal.Zero
	for _, emi := range []string{"5000", "10000", "20000", "40000"} {
		ratio := AffordabilityRatio(dec(emi), income).RatioPercent
		assert.True(t, ratio.GreaterThan(prev), "ratio should grow with emi")
		prev = ratio
	}

	emi := dec("12000")
	prev = dec("1000000")
	for _, inc := range []string{"30000", "60000", "120000"} {
		ratio := AffordabilityRatio(emi, dec(inc)).RatioPercent
		assert.True(t, ratio.LessThan(prev), "ratio should shrink with income")
		prev = ratio
	}
}

func TestProjectSavingPlan(t *testing.T) {
	proj, err := ProjectSavingPlan(dec("100000"), decimal.Zero, dec("10000"))
	require.NoError(t, err)
	assert.Equal(t, 10, proj.MonthsNeeded)
	assert.True(t, proj.TotalAccumulated.Equal(dec("100000")))
}

func TestProjectSavingPlan_CeilingDivision(t *testing.T) {
	proj, err := ProjectSavingPlan(dec("100000"), decimal.Zero, dec("15000"))
	require.NoError(t, err)
	assert.Equal(t, 7, proj.MonthsNeeded)
}

func TestProjectSavingPlan_TargetAlreadyReached(t *testing.T) {
	proj, err := ProjectSavingPlan(dec("5000"), dec("8000"), dec("1000"))
	require.NoError(t, err)
	assert.Equal(t, 0, proj.MonthsNeeded)
}

func TestProjectSavingPlan_RejectsNonPositiveContribution(t *testing.T) {
	_, err := ProjectSavingPlan(dec("1000"), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrNonPositiveContribution)
}

func TestAccelerationScenarios(t *testing.T) {
	base, err := ProjectSavingPlan(dec("100000"), decimal.Zero, dec("10000"))
	require.NoError(t, err)

	scenarios := AccelerationScenarios(base)
	require.Len(t, scenarios, 3)

	fifty := scenarios[2]
	assert.Equal(t, 50, fifty.AccelerationPercent)
	assert.True(t, fifty.MonthlyContribution.Equal(dec("15000")))
	assert.Equal(t, 7, fifty.MonthsNeeded)
	assert.Equal(t, 3, fifty.TimeSavedMonths)
}

func TestIncomeGrowthScenarios_PercentageModeRederivesContribution(t *testing.T) {
	income := dec("50000")
	// 20% of income saved each month.
	base, err := ProjectSavingPlan(dec("120000"), decimal.Zero, dec("10000"))
	require.NoError(t, err)

	scenarios := IncomeGrowthScenarios(base, income, dec("20"))
	require.Len(t, scenarios, 3)

	ten := scenarios[1]
	assert.Equal(t, 10, ten.IncomeGrowthPercent)
	assert.True(t, ten.NewIncome.Equal(dec("55000")))
	assert.True(t, ten.MonthlyContribution.Equal(dec("11000")))
}

func TestIncomeGrowthScenarios_AbsoluteModeHoldsContribution(t *testing.T) {
	base, err := ProjectSavingPlan(dec("120000"), decimal.Zero, dec("10000"))
	require.NoError(t, err)

	scenarios := IncomeGrowthScenarios(base, dec("50000"), decimal.Zero)
	require.Len(t, scenarios, 3)
	for _, s := range scenarios {
		assert.True(t, s.MonthlyContribution.Equal(dec("10000")),
			"contribution must stay constant in absolute mode")
		assert.Equal(t, base.MonthsNeeded, s.MonthsNeeded)
	}
}
