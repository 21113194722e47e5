package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finplan-agent/domain"
	"finplan-agent/finmath"
)

var savingFactor = decimal.RequireFromString(savingTargetPriceFactor)

// defaultSavingPercent is assumed when the user asks for an EMI-free plan
// without naming a contribution.
var defaultSavingPercent = decimal.NewFromInt(20)

// handleSavingInquiry starts a saving flow outside a pending state. With a
// selected product the target is implied; otherwise the flow collects
// contribution first, target next.
func (e *Engine) handleSavingInquiry(cc *domain.ConversationContext, message string) domain.Response {
	parsed := ParseAmount(message)

	if cc.SelectedProduct != nil {
		return e.resolveSavingAmount(cc, parsed)
	}

	switch parsed.Kind {
	case AmountAbsolute:
		cc.SavingContribution = parsed.Value
		cc.SavingPercent = decimal.Zero
		cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
		return domain.Response{Text: fmt.Sprintf(
			"Got it, you can set aside %s per month. What amount are you saving towards?",
			formatINR(parsed.Value))}
	case AmountPercent:
		if !cc.AverageIncome.IsPositive() {
			return domain.Response{Text: "I do not have income data for you, so I cannot work " +
				"with a percentage. Tell me a monthly amount instead, like \"save 10000 per month\"."}
		}
		contribution := cc.AverageIncome.Mul(parsed.Value).Div(hundred).Round(2)
		cc.SavingContribution = contribution
		cc.SavingPercent = parsed.Value
		cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
		return domain.Response{Text: fmt.Sprintf(
			"%s%% of your income is %s per month. What amount are you saving towards?",
			parsed.Value, formatINR(contribution))}
	default:
		// A fresh inquiry restarts the flow; inputs from an earlier
		// completed plan must not leak into this one.
		cc.SavingContribution = decimal.Zero
		cc.SavingPercent = decimal.Zero
		cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
		return domain.Response{Text: "Happy to help you save. How much can you set aside " +
			"each month? Give me an amount (\"10000\") or a share of income (\"20%\")."}
	}
}

// handlePendingSavings resumes the saving flow with whatever is still
// missing: the contribution, or the target when no product is selected.
func (e *Engine) handlePendingSavings(cc *domain.ConversationContext, message string) domain.Response {
	parsed := ParseAmount(message)

	if cc.SelectedProduct != nil {
		return e.resolveSavingAmount(cc, parsed)
	}

	if cc.SavingContribution.IsPositive() {
		if parsed.Kind != AmountAbsolute {
			return domain.Response{Text: "Tell me the target amount as a number, " +
				"for example \"100000\" or \"2 lakh\"."}
		}
		cc.ClearPending()
		return e.projectAndFormat(cc, parsed.Value, cc.SavingContribution, cc.SavingPercent, "")
	}

	switch parsed.Kind {
	case AmountAbsolute:
		cc.SavingContribution = parsed.Value
		cc.SavingPercent = decimal.Zero
		return domain.Response{Text: fmt.Sprintf(
			"Got it, %s per month. What amount are you saving towards?", formatINR(parsed.Value))}
	case AmountPercent:
		if !cc.AverageIncome.IsPositive() {
			return domain.Response{Text: "I do not have income data for you, so I cannot work " +
				"with a percentage. Tell me a monthly amount instead."}
		}
		contribution := cc.AverageIncome.Mul(parsed.Value).Div(hundred).Round(2)
		cc.SavingContribution = contribution
		cc.SavingPercent = parsed.Value
		return domain.Response{Text: fmt.Sprintf(
			"%s%% of your income is %s per month. What amount are you saving towards?",
			parsed.Value, formatINR(contribution))}
	default:
		return domain.Response{Text: "I need a monthly contribution to continue: an amount " +
			"(\"10000\"), a share of income (\"20%\"), or say \"full payment\" to save for " +
			"the entire price."}
	}
}

// resolveSavingAmount finishes the product saving flow: the target is the
// financed share of the selected product's price, or the full price for an
// EMI-free request.
func (e *Engine) resolveSavingAmount(cc *domain.ConversationContext, parsed ParsedAmount) domain.Response {
	product := cc.SelectedProduct
	target := product.Price.Mul(savingFactor).Round(2)
	note := fmt.Sprintf("The target is %s, the loan portion of %s after a %d%% downpayment.",
		formatINR(target), product.Name, ReferenceDownpaymentPercent)

	var contribution decimal.Decimal
	percent := decimal.Zero

	switch parsed.Kind {
	case AmountAbsolute:
		contribution = parsed.Value
	case AmountPercent:
		if !cc.AverageIncome.IsPositive() {
			cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
			return domain.Response{Text: "I do not have income data for you, so I cannot work " +
				"with a percentage. Tell me a monthly amount instead."}
		}
		percent = parsed.Value
		contribution = cc.AverageIncome.Mul(percent).Div(hundred).Round(2)
	case AmountEmiFree:
		target = product.Price
		note = fmt.Sprintf("Saving for the full price of %s, no loan needed.", product.Name)
		if cc.AverageIncome.IsPositive() {
			percent = defaultSavingPercent
			contribution = cc.AverageIncome.Mul(percent).Div(hundred).Round(2)
		} else {
			cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
			return domain.Response{Text: "Saving for the full price works. How much can you " +
				"set aside each month?"}
		}
	default:
		cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
		return domain.Response{Text: "How much can you save monthly? Give me an amount " +
			"(\"10000\"), a share of income (\"20%\"), or say \"full payment\" to skip the loan."}
	}

	cc.ClearPending()
	cc.SavingContribution = contribution
	cc.SavingPercent = percent
	return e.projectAndFormat(cc, target, contribution, percent, note)
}

// projectAndFormat runs the projection plus both scenario families and
// renders the full saving plan.
func (e *Engine) projectAndFormat(cc *domain.ConversationContext, target, contribution, percent decimal.Decimal, note string) domain.Response {
	proj, err := finmath.ProjectSavingPlan(target, decimal.Zero, contribution)
	if err != nil {
		cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
		return domain.Response{Text: "The monthly contribution has to be above zero. " +
			"How much can you set aside each month?"}
	}

	var b strings.Builder
	b.WriteString("Here is your saving plan:\n\n")
	if note != "" {
		b.WriteString(note + "\n\n")
	}
	fmt.Fprintf(&b, "Target: %s\nMonthly contribution: %s\nTime needed: %s\n",
		formatINR(proj.TargetAmount), formatINR(proj.MonthlyContribution), formatMonths(proj.MonthsNeeded))

	if scenarios := finmath.AccelerationScenarios(proj); len(scenarios) > 0 {
		b.WriteString("\nSave a little more and you get there faster:\n")
		for _, s := range scenarios {
			fmt.Fprintf(&b, "• +%d%% (%s/month): %s, %s sooner\n",
				s.AccelerationPercent, formatINR(s.MonthlyContribution),
				formatMonths(s.MonthsNeeded), formatMonths(s.TimeSavedMonths))
		}
	}
	if growth := finmath.IncomeGrowthScenarios(proj, cc.AverageIncome, percent); len(growth) > 0 {
		b.WriteString("\nIf your income grows:\n")
		for _, s := range growth {
			fmt.Fprintf(&b, "• +%d%% income (%s): contribute %s, done in %s\n",
				s.IncomeGrowthPercent, formatINR(s.NewIncome),
				formatINR(s.MonthlyContribution), formatMonths(s.MonthsNeeded))
		}
	}

	return domain.Response{
		Text:  b.String(),
		Flags: domain.ResponseFlags{SavingPlanGenerated: true},
	}
}
