// Package finmath contains the pure loan and saving-plan arithmetic used by
// the dialogue engine. All functions are stateless; every currency result is
// rounded to two decimal places, which downstream totals depend on exactly.
package finmath

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNonPositiveContribution is returned when a saving plan is projected
// with a monthly contribution of zero or less.
var ErrNonPositiveContribution = errors.New("monthly contribution must be positive")

// DefaultDownpaymentPercent is applied when a caller supplies an
// out-of-range downpayment percentage.
const DefaultDownpaymentPercent = 20

var (
	one           = decimal.NewFromInt(1)
	hundred       = decimal.NewFromInt(100)
	twelveHundred = decimal.NewFromInt(1200)
)

// ComputeEMI returns the equated monthly installment for a loan, rounded to
// two decimals. Invalid inputs (non-positive principal or tenure, negative
// rate) yield zero.
func ComputeEMI(principal, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 || !principal.IsPositive() || annualRatePercent.IsNegative() {
		return decimal.Zero
	}
	months := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePercent.IsZero() {
		return principal.Div(months).Round(2)
	}
	r := annualRatePercent.Div(twelveHundred)
	growth := one.Add(r).Pow(months)
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one)).Round(2)
}

// MaxPrincipalForEMI inverts the amortization formula: the largest loan a
// given monthly installment services over the tenure at the given rate.
func MaxPrincipalForEMI(emi, annualRatePercent decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 || !emi.IsPositive() || annualRatePercent.IsNegative() {
		return decimal.Zero
	}
	months := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePercent.IsZero() {
		return emi.Mul(months).Round(2)
	}
	r := annualRatePercent.Div(twelveHundred)
	growth := one.Add(r).Pow(months)
	return emi.Mul(growth.Sub(one)).Div(r.Mul(growth)).Round(2)
}

// DownpaymentSplit is the result of splitting a price into the upfront
// portion and the financed portion.
type DownpaymentSplit struct {
	DownpaymentAmount decimal.Decimal
	LoanAmount        decimal.Decimal
}

// DownpaymentImpact splits a price by downpayment percentage. Percentages
// outside [0,100] clamp to the 20% default rather than failing.
func DownpaymentImpact(price, downpaymentPercent decimal.Decimal) DownpaymentSplit {
	pct := downpaymentPercent
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		pct = decimal.NewFromInt(DefaultDownpaymentPercent)
	}
	down := price.Mul(pct).Div(hundred).Round(2)
	return DownpaymentSplit{
		DownpaymentAmount: down,
		LoanAmount:        price.Sub(down).Round(2),
	}
}

// AffordabilityClass is the advisory band an EMI-to-income ratio falls in.
type AffordabilityClass string

const (
	AffordabilityComfortable AffordabilityClass = "comfortable"
	AffordabilityManageable  AffordabilityClass = "manageable"
	AffordabilityCaution     AffordabilityClass = "caution"
	AffordabilityHighRisk    AffordabilityClass = "high-risk"
	AffordabilityNoIncome    AffordabilityClass = "no-income-data"
)

// Advisory band bounds in percent. Callers may apply a stricter local
// threshold; these bounds are for commentary and alternative filtering.
var (
	ComfortableMaxPercent = decimal.NewFromInt(20)
	ManageableMaxPercent  = decimal.NewFromInt(30)
	CautionMaxPercent     = decimal.NewFromInt(40)
)

// Affordability is the classified EMI-to-income ratio.
type Affordability struct {
	RatioPercent decimal.Decimal
	Class        AffordabilityClass
}

// AffordabilityRatio classifies emi against monthly income. A non-positive
// income yields the no-income-data class. The 20% boundary is inclusive of
// comfortable.
func AffordabilityRatio(emi, monthlyIncome decimal.Decimal) Affordability {
	if !monthlyIncome.IsPositive() {
		return Affordability{Class: AffordabilityNoIncome}
	}
	ratio := emi.Div(monthlyIncome).Mul(hundred).Round(2)
	switch {
	case ratio.LessThanOrEqual(ComfortableMaxPercent):
		return Affordability{RatioPercent: ratio, Class: AffordabilityComfortable}
	case ratio.LessThanOrEqual(ManageableMaxPercent):
		return Affordability{RatioPercent: ratio, Class: AffordabilityManageable}
	case ratio.LessThanOrEqual(CautionMaxPercent):
		return Affordability{RatioPercent: ratio, Class: AffordabilityCaution}
	default:
		return Affordability{RatioPercent: ratio, Class: AffordabilityHighRisk}
	}
}

// SavingProjection is the baseline timeline for accumulating a target.
type SavingProjection struct {
	TargetAmount        decimal.Decimal `json:"target_amount"`
	CurrentSavings      decimal.Decimal `json:"current_savings"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	MonthsNeeded        int             `json:"months_needed"`
	TotalAccumulated    decimal.Decimal `json:"total_accumulated"`
}

// ProjectSavingPlan computes the months needed to reach target from the
// current savings at the given monthly contribution (ceiling division).
func ProjectSavingPlan(target, currentSavings, monthlyContribution decimal.Decimal) (SavingProjection, error) {
	if !monthlyContribution.IsPositive() {
		return SavingProjection{}, ErrNonPositiveContribution
	}
	months := 0
	if remaining := target.Sub(currentSavings); remaining.IsPositive() {
		months = int(remaining.Div(monthlyContribution).Ceil().IntPart())
	}
	total := currentSavings.Add(monthlyContribution.Mul(decimal.NewFromInt(int64(months)))).Round(2)
	return SavingProjection{
		TargetAmount:        target.Round(2),
		CurrentSavings:      currentSavings.Round(2),
		MonthlyContribution: monthlyContribution.Round(2),
		MonthsNeeded:        months,
		TotalAccumulated:    total,
	}, nil
}

// Scenario multipliers. Acceleration boosts the contribution; income growth
// raises the income the contribution may be derived from.
var (
	accelerationPercents = []int64{10, 20, 50}
	incomeGrowthPercents = []int64{5, 10, 20}
)

// AccelerationScenario shows the effect of contributing a fixed percentage
// more each month.
type AccelerationScenario struct {
	AccelerationPercent int             `json:"acceleration_percent"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	MonthsNeeded        int             `json:"months_needed"`
	TimeSavedMonths     int             `json:"time_saved_months"`
}

// AccelerationScenarios derives the +10/+20/+50% contribution scenarios for
// a baseline projection.
func AccelerationScenarios(base SavingProjection) []AccelerationScenario {
	scenarios := make([]AccelerationScenario, 0, len(accelerationPercents))
	for _, pct := range accelerationPercents {
		boosted := base.MonthlyContribution.
			Mul(hundred.Add(decimal.NewFromInt(pct))).
			Div(hundred).Round(2)
		proj, err := ProjectSavingPlan(base.TargetAmount, base.CurrentSavings, boosted)
		if err != nil {
			continue
		}
		scenarios = append(scenarios, AccelerationScenario{
			AccelerationPercent: int(pct),
			MonthlyContribution: boosted,
			MonthsNeeded:        proj.MonthsNeeded,
			TimeSavedMonths:     base.MonthsNeeded - proj.MonthsNeeded,
		})
	}
	return scenarios
}

// IncomeGrowthScenario shows the timeline if income grows by a fixed
// percentage.
type IncomeGrowthScenario struct {
	IncomeGrowthPercent int             `json:"income_growth_percent"`
	NewIncome           decimal.Decimal `json:"new_income"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	MonthsNeeded        int             `json:"months_needed"`
}

// IncomeGrowthScenarios derives the +5/+10/+20% income scenarios. When
// savingsPercent is positive the contribution is a percentage of income and
// is re-derived from the grown income; otherwise the contribution is held
// constant and only the new income is reported. That asymmetry is the
// intended behavior, not an oversight.
func IncomeGrowthScenarios(base SavingProjection, income, savingsPercent decimal.Decimal) []IncomeGrowthScenario {
	if !income.IsPositive() {
		return nil
	}
	scenarios := make([]IncomeGrowthScenario, 0, len(incomeGrowthPercents))
	for _, pct := range incomeGrowthPercents {
		newIncome := income.Mul(hundred.Add(decimal.NewFromInt(pct))).Div(hundred).Round(2)
		contribution := base.MonthlyContribution
		if savingsPercent.IsPositive() {
			contribution = newIncome.Mul(savingsPercent).Div(hundred).Round(2)
		}
		proj, err := ProjectSavingPlan(base.TargetAmount, base.CurrentSavings, contribution)
		if err != nil {
			continue
		}
		scenarios = append(scenarios, IncomeGrowthScenario{
			IncomeGrowthPercent: int(pct),
			NewIncome:           newIncome,
			MonthlyContribution: contribution,
			MonthsNeeded:        proj.MonthsNeeded,
		})
	}
	return scenarios
}
