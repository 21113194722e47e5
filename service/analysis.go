package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/finmath"
	"finplan-agent/metrics"
)

// analyzeProduct is the core transition: compute a reference loan for the
// selected product and either present ranked plans or interrupt with the
// affordability question.
func (e *Engine) analyzeProduct(cc *domain.ConversationContext, product domain.Product) domain.Response {
	cc.SelectedProduct = &product
	cc.ProductSelected = true
	cc.Category = product.Category
	cc.GeneratedPlans = nil

	offers := e.ratesFor(product.Category)
	if len(offers) == 0 {
		return domain.Response{
			Text: fmt.Sprintf("I could not find financing offers for %s right now. Please try again in a bit.", product.Name),
			Flags: domain.ResponseFlags{ProductSelected: true},
		}
	}
	best := offers[0]

	split := finmath.DownpaymentImpact(product.Price, referenceDown)
	refEMI := finmath.ComputeEMI(split.LoanAmount, best.AnnualRatePercent, ReferenceTenureMonths)
	if refEMI.IsNegative() {
		metrics.InvariantViolations.Inc()
		e.logger.Error("negative reference EMI",
			zap.String("product", product.Name), zap.String("emi", refEMI.String()))
	}

	income := cc.AverageIncome
	genericRule := !income.IsPositive()

	aff := finmath.AffordabilityRatio(refEMI, income)
	if !genericRule && aff.Class != finmath.AffordabilityComfortable {
		cc.Affordable = false
		cc.Pending = domain.PendingAction{Kind: domain.PendingAffordabilityYesNo}
		affordable := false
		text := fmt.Sprintf(
			"%s costs %s. With a %d%% downpayment (%s) the loan of %s at %s's best rate of %s%% "+
				"works out to an EMI of %s over %s.\n\n"+
				"That is %s%% of your monthly income of %s, above the %d%% level I consider safe. %s\n\n"+
				"Would you like me to build a saving plan so you can afford it comfortably? (yes/no)",
			product.Name, formatINR(product.Price), ReferenceDownpaymentPercent,
			formatINR(split.DownpaymentAmount), formatINR(split.LoanAmount),
			best.BankName, best.AnnualRatePercent, formatINR(refEMI),
			formatMonths(ReferenceTenureMonths),
			aff.RatioPercent.Round(1), formatINR(income), StrictGatePercent,
			affordabilityComment(aff))
		return domain.Response{Text: text, Flags: domain.ResponseFlags{
			ProductSelected: true,
			Affordable:      &affordable,
		}}
	}

	cc.Affordable = true
	plans := e.buildPlans(product, offers, income)
	cc.GeneratedPlans = plans

	affordable := true
	var b strings.Builder
	fmt.Fprintf(&b, "Great choice! Here are loan plans for %s (%s):\n\n", product.Name, formatINR(product.Price))
	if product.Specs != "" {
		fmt.Fprintf(&b, "Specs: %s\n\n", product.Specs)
	}
	for i, p := range plans {
		fmt.Fprintf(&b, "%d. %s | %s | %s%% p.a. | EMI %s | downpayment %s | total payable %s\n",
			i+1, p.Bank, formatMonths(p.TenureMonths), p.AnnualRatePercent,
			formatINR(p.EMI), formatINR(p.DownpaymentAmount), formatINR(p.TotalPayable))
	}
	if genericRule {
		b.WriteString("\nNote: I have no income data for you, so this analysis uses a generic affordability rule.")
	} else {
		fmt.Fprintf(&b, "\n%s", affordabilityComment(aff))
	}
	fmt.Fprintf(&b, "\nSay \"save this plan\" or \"save plan <n>\" (1-%d) to keep one.", MaxSavablePlanIndex)

	return domain.Response{Text: b.String(), Flags: domain.ResponseFlags{
		ProductSelected: true,
		Affordable:      &affordable,
	}}
}

// affordabilityComment renders the advisory band of the reference EMI.
func affordabilityComment(a finmath.Affordability) string {
	switch a.Class {
	case finmath.AffordabilityComfortable:
		return "Excellent: this EMI sits comfortably within your income."
	case finmath.AffordabilityManageable:
		return "Good, but tighter than I would recommend."
	case finmath.AffordabilityCaution:
		return "Caution: this would strain your monthly budget."
	case finmath.AffordabilityHighRisk:
		return "High Risk: this EMI would dominate your monthly income."
	default:
		return ""
	}
}

// buildPlans generates up to 10 plans across the tenure buckets, cycling
// through the ranked offers. With income data, any plan whose EMI breaches
// the strict gate is silently dropped, so low incomes see fewer plans.
func (e *Engine) buildPlans(product domain.Product, offers []domain.BankOffer, income decimal.Decimal) []domain.LoanPlan {
	var maxEMI decimal.Decimal
	gated := income.IsPositive()
	if gated {
		maxEMI = income.Mul(strictGate).Div(hundred)
	}

	var plans []domain.LoanPlan
	offerIdx := 0
	for bi, tenure := range tenureBuckets {
		for n := 0; n < bucketTargets[bi]; n++ {
			offer := offers[offerIdx%len(offers)]
			offerIdx++

			plan := domain.LoanPlan{
				Product:            product,
				DownpaymentPercent: referenceDown,
				Bank:               offer.BankName,
				AnnualRatePercent:  offer.AnnualRatePercent,
				TenureMonths:       tenure,
			}
			recomputePlan(&plan)
			if gated && plan.EMI.GreaterThan(maxEMI) {
				continue
			}
			plans = append(plans, plan)
		}
	}
	return plans
}

// suggestAlternatives handles a "no" to the saving-plan offer: derive the
// price ceiling from the advisory band and re-filter the category.
func (e *Engine) suggestAlternatives(cc *domain.ConversationContext) domain.Response {
	cc.ClearPending()

	income := cc.AverageIncome
	if !income.IsPositive() {
		return domain.Response{Text: "No problem. I do not have income data for you yet, " +
			"so I cannot compute a safe budget. You can still ask me about any specific product."}
	}

	category := cc.Category
	if category == "" && cc.SelectedProduct != nil {
		category = cc.SelectedProduct.Category
	}
	offers := e.ratesFor(category)
	var bestRate decimal.Decimal
	if len(offers) > 0 {
		bestRate = offers[0].AnnualRatePercent
	}

	maxEMI := income.Mul(alternativesBand).Div(hundred).Round(2)
	maxLoan := finmath.MaxPrincipalForEMI(maxEMI, bestRate, ReferenceTenureMonths)
	// The loan covers 80% after the reference downpayment, so the price
	// ceiling is loan / 0.8.
	maxPrice := maxLoan.Div(decimal.RequireFromString(savingTargetPriceFactor)).Round(2)

	candidates := e.advisor.Suggest(category)
	var fits []domain.Product
	for _, p := range candidates {
		if p.Price.GreaterThan(maxPrice) {
			continue
		}
		split := finmath.DownpaymentImpact(p.Price, referenceDown)
		emi := finmath.ComputeEMI(split.LoanAmount, bestRate, ReferenceTenureMonths)
		if emi.GreaterThan(maxEMI) {
			continue
		}
		fits = append(fits, p)
	}

	if len(fits) == 0 {
		return domain.Response{Text: fmt.Sprintf(
			"No problem. Within a comfortable budget of %s (EMI up to %s per month) "+
				"I could not find alternatives in this category. A saving plan might still be worth it later.",
			formatINR(maxPrice), formatINR(maxEMI))}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "No problem. Based on your income of %s, you can comfortably afford up to about %s "+
		"(EMI within %s per month). Alternatives that fit:\n\n", formatINR(income), formatINR(maxPrice), formatINR(maxEMI))
	for i, p := range fits {
		fmt.Fprintf(&b, "%d. %s - %s", i+1, p.Name, formatINR(p.Price))
		if p.Specs != "" {
			fmt.Fprintf(&b, " (%s)", p.Specs)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nTell me a number or a name and I will run the full analysis.")

	cc.AvailableSuggestions = fits
	cc.SelectedProduct = nil
	cc.ProductSelected = false
	return domain.Response{Text: b.String()}
}

// ratesFor wraps the rate source with its fallback contract: on error or
// empty result the built-in ranked offers are used and the failure is
// counted, never surfaced.
func (e *Engine) ratesFor(category domain.Category) []domain.BankOffer {
	offers, err := e.rates.RatesFor(category)
	if err != nil || len(offers) == 0 {
		if err != nil {
			e.logger.Warn("rate source unavailable, using fallback",
				zap.String("category", string(category)), zap.Error(err))
			metrics.UpstreamFallbacks.WithLabelValues("rates").Inc()
		}
		offers, _ = e.fallbackRates.RatesFor(category)
	}
	return offers
}
