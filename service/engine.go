package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/finmath"
	"finplan-agent/metrics"
	"finplan-agent/repository"
)

// Engine is the turn orchestrator. One call to ProcessMessage consumes a
// message, mutates the caller-owned context in place and returns the
// response. Bad user input never surfaces as an error; the reply itself
// says what is missing.
type Engine struct {
	classifier    *Classifier
	advisor       *Advisor
	rates         repository.RateSource
	fallbackRates *repository.StaticRates
	plans         *PlanManager
	enhancer      ResponseEnhancer
	logger        *zap.Logger
}

func NewEngine(
	catalog repository.ProductCatalog,
	rates repository.RateSource,
	store repository.PlanStore,
	enhancer ResponseEnhancer,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if enhancer == nil {
		enhancer = NopEnhancer{}
	}
	return &Engine{
		classifier:    NewClassifier(catalog, logger),
		advisor:       NewAdvisor(catalog, logger),
		rates:         rates,
		fallbackRates: repository.NewStaticRates(),
		plans:         NewPlanManager(store, logger),
		enhancer:      enhancer,
		logger:        logger,
	}
}

// ProcessMessage advances the conversation by one turn.
func (e *Engine) ProcessMessage(ctx context.Context, userID, message string, cc *domain.ConversationContext) domain.Response {
	cc.EnsureAverageIncome()

	cl := e.classifier.Classify(message, cc)

	// A bare ordinal or name replying to a suggestion list carries no
	// keywords, so it lands in the fallback. Resolve it against the open
	// suggestions before giving up.
	if (cl.Intent == IntentOffTopic || cl.Intent == IntentCapability) && len(cc.AvailableSuggestions) > 0 {
		if p := MatchSelection(message, cc.AvailableSuggestions); p != nil {
			cl = Classification{Intent: IntentProductDirect, Product: p, Category: p.Category}
		}
	}
	metrics.Turns.WithLabelValues(cl.Intent.String()).Inc()
	e.logger.Debug("turn classified",
		zap.String("user_id", userID), zap.String("intent", cl.Intent.String()))

	var resp domain.Response
	switch cl.Intent {
	case IntentGreeting:
		resp = domain.Response{Text: greetingLine, Flags: domain.ResponseFlags{
			ShowGreeting:       true,
			IsGreetingResponse: true,
		}}
	case IntentOffTopic:
		resp = domain.Response{Text: offTopicReply, Flags: domain.ResponseFlags{OffTopic: true}}
	case IntentCapability:
		resp = domain.Response{Text: capabilityReply}
	case IntentProductDirect:
		resp = e.analyzeProduct(cc, *cl.Product)
	case IntentCategorySuggest:
		resp = e.suggestForCategory(cc, cl.Category)
	case IntentPendingYesNo:
		resp = e.handlePendingYesNo(cc, message)
	case IntentPendingSavingsAmount:
		resp = e.handlePendingSavings(cc, message)
	case IntentPendingModification:
		resp = e.handlePendingModification(ctx, userID, cc, cl.PlanID, message)
	case IntentSavePlan:
		resp = e.handleSavePlan(ctx, userID, cc, message)
	case IntentListPlans:
		resp = e.handleListPlans(ctx, userID)
	case IntentModifyPlan:
		resp = e.handleModifyIntent(ctx, userID, cc, cl.PlanID, message)
	case IntentUnsavePlan:
		resp = e.handleUnsavePlan(ctx, userID, cl.PlanID)
	case IntentSaving:
		resp = e.handleSavingInquiry(cc, message)
	case IntentAffordability:
		resp = e.handleAffordability(cc)
	}

	if !resp.Flags.OffTopic && !resp.Flags.IsGreetingResponse {
		resp.Text = greetingLine + "\n\n" + resp.Text
		resp.Flags.ShowGreeting = true
		resp.Text = e.enhancer.Enhance(ctx, message, resp.Text)
	}

	cc.LastMessage = message
	return resp
}

func (e *Engine) suggestForCategory(cc *domain.ConversationContext, category domain.Category) domain.Response {
	suggestions := e.advisor.Suggest(category)
	if len(suggestions) == 0 {
		return domain.Response{Text: "I could not find products in that category right now. " +
			"Try naming a specific product instead."}
	}

	cc.Category = category
	cc.AvailableSuggestions = suggestions
	cc.SelectedProduct = nil
	cc.ProductSelected = false
	cc.GeneratedPlans = nil

	var b strings.Builder
	fmt.Fprintf(&b, "Here are some options across budgets:\n\n")
	for i, p := range suggestions {
		fmt.Fprintf(&b, "%d. %s - %s", i+1, p.Name, formatINR(p.Price))
		if p.Specs != "" {
			fmt.Fprintf(&b, " (%s)", p.Specs)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nReply with a number or a name and I will work out the financing.")
	return domain.Response{Text: b.String()}
}

func (e *Engine) handlePendingYesNo(cc *domain.ConversationContext, message string) domain.Response {
	switch {
	case IsYes(message):
		cc.Pending = domain.PendingAction{Kind: domain.PendingSavingsAmount}
		return domain.Response{Text: "Let us build that saving plan. How much can you set " +
			"aside each month? Give me an amount (\"10000\"), a share of income (\"20%\"), " +
			"or say \"full payment\" if you want to skip the loan entirely."}
	case IsNo(message):
		return e.suggestAlternatives(cc)
	default:
		return domain.Response{Text: "Just to confirm: should I build a saving plan for it? " +
			"Please answer yes or no."}
	}
}

func (e *Engine) handleSavePlan(ctx context.Context, userID string, cc *domain.ConversationContext, message string) domain.Response {
	idx := ParsePlanIndex(message)
	saved, err := e.plans.SavePlan(ctx, userID, cc, idx)
	if err != nil {
		return domain.Response{Text: userMessage(err)}
	}
	return domain.Response{
		Text: fmt.Sprintf("Saved as %s: %s via %s, EMI %s over %s. "+
			"Say \"show my saved plans\" any time.",
			saved.PlanID, saved.Plan.Product.Name, saved.Plan.Bank,
			formatINR(saved.Plan.EMI), formatMonths(saved.Plan.TenureMonths)),
		Flags: domain.ResponseFlags{PlanSaved: true},
	}
}

func (e *Engine) handleListPlans(ctx context.Context, userID string) domain.Response {
	plans, err := e.plans.ListPlans(ctx, userID)
	if err != nil {
		e.logger.Error("listing plans failed", zap.String("user_id", userID), zap.Error(err))
		return domain.Response{Text: "I could not load your saved plans right now. Please try again."}
	}
	if len(plans) == 0 {
		return domain.Response{Text: "You have no saved plans yet. Analyze a product and say " +
			"\"save this plan\" to keep one."}
	}

	var b strings.Builder
	b.WriteString("Your saved plans, newest first:\n\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "%s: %s via %s | %s%% p.a. | EMI %s | %s | saved %s\n",
			p.PlanID, p.Plan.Product.Name, p.Plan.Bank, p.Plan.AnnualRatePercent,
			formatINR(p.Plan.EMI), formatMonths(p.Plan.TenureMonths),
			p.CreatedAt.Format("02 Jan 2006"))
		if p.Notes != "" {
			fmt.Fprintf(&b, "   %s\n", p.Notes)
		}
	}
	b.WriteString("\nSay \"modify plan_<n> ...\" or \"unsave plan_<n>\" to manage them.")
	return domain.Response{Text: b.String(), Flags: domain.ResponseFlags{PlansListed: true}}
}

func (e *Engine) handleModifyIntent(ctx context.Context, userID string, cc *domain.ConversationContext, planID, message string) domain.Response {
	if planID == "" {
		return domain.Response{Text: "Which plan should I modify? Tell me its id, for example " +
			"\"modify plan_1\". Say \"show my saved plans\" if you are not sure."}
	}

	changes := ParsePlanChanges(message)
	if changes.Empty() {
		cc.Pending = domain.PendingAction{Kind: domain.PendingPlanModification, PlanID: planID}
		return domain.Response{Text: fmt.Sprintf("What should I change on %s? You can set "+
			"downpayment (0-100%%), tenure (6-60 months) or interest rate (8-25%%), "+
			"for example \"downpayment to 30%% and tenure to 36 months\".", planID)}
	}
	return e.applyModification(ctx, userID, cc, planID, changes)
}

func (e *Engine) handlePendingModification(ctx context.Context, userID string, cc *domain.ConversationContext, planID, message string) domain.Response {
	changes := ParsePlanChanges(message)
	if changes.Empty() {
		return domain.Response{Text: "I did not catch any change. You can set downpayment " +
			"(0-100%), tenure (6-60 months) or interest rate (8-25%), for example " +
			"\"tenure to 36 months\"."}
	}
	return e.applyModification(ctx, userID, cc, planID, changes)
}

func (e *Engine) applyModification(ctx context.Context, userID string, cc *domain.ConversationContext, planID string, changes domain.PlanChanges) domain.Response {
	saved, err := e.plans.ModifyPlan(ctx, userID, planID, changes)
	if err != nil {
		if domain.IsNotFound(err) {
			cc.ClearPending()
			return domain.Response{Text: fmt.Sprintf("I could not find %s among your saved plans.", planID)}
		}
		if domain.IsInput(err) {
			cc.Pending = domain.PendingAction{Kind: domain.PendingPlanModification, PlanID: planID}
			return domain.Response{Text: userMessage(err) + " Nothing was changed."}
		}
		e.logger.Error("plan modification failed",
			zap.String("user_id", userID), zap.String("plan_id", planID), zap.Error(err))
		return domain.Response{Text: "I could not update the plan right now. Please try again."}
	}

	cc.ClearPending()
	return domain.Response{
		Text: fmt.Sprintf("Updated %s: %s via %s | %s%% p.a. | downpayment %s | EMI %s over %s | total payable %s.",
			saved.PlanID, saved.Plan.Product.Name, saved.Plan.Bank, saved.Plan.AnnualRatePercent,
			formatINR(saved.Plan.DownpaymentAmount), formatINR(saved.Plan.EMI),
			formatMonths(saved.Plan.TenureMonths), formatINR(saved.Plan.TotalPayable)),
		Flags: domain.ResponseFlags{PlanModified: true},
	}
}

func (e *Engine) handleUnsavePlan(ctx context.Context, userID, planID string) domain.Response {
	if planID == "" {
		return domain.Response{Text: "Which plan should I remove? Tell me its id, for example " +
			"\"unsave plan_1\"."}
	}
	if err := e.plans.RemovePlan(ctx, userID, planID); err != nil {
		if domain.IsNotFound(err) {
			return domain.Response{Text: fmt.Sprintf("I could not find %s among your saved plans.", planID)}
		}
		e.logger.Error("plan removal failed", zap.String("plan_id", planID), zap.Error(err))
		return domain.Response{Text: "I could not remove the plan right now. Please try again."}
	}
	return domain.Response{
		Text:  fmt.Sprintf("Done, %s has been removed.", planID),
		Flags: domain.ResponseFlags{PlanRemoved: true},
	}
}

func (e *Engine) handleAffordability(cc *domain.ConversationContext) domain.Response {
	income := cc.AverageIncome
	if !income.IsPositive() {
		return domain.Response{Text: "I do not have income data for you yet, so I cannot " +
			"compute a budget. Income is picked up from your profile automatically once it " +
			"is available."}
	}

	category := cc.Category
	if category == "" {
		category = domain.CategoryFourWheeler
	}
	offers := e.ratesFor(category)
	var bestRate decimal.Decimal
	var bank string
	if len(offers) > 0 {
		bestRate = offers[0].AnnualRatePercent
		bank = offers[0].BankName
	}

	maxEMI := income.Mul(alternativesBand).Div(hundred).Round(2)
	maxLoan := finmath.MaxPrincipalForEMI(maxEMI, bestRate, ReferenceTenureMonths)
	maxPrice := maxLoan.Div(savingFactor).Round(2)

	return domain.Response{Text: fmt.Sprintf(
		"With a monthly income of %s, a comfortable EMI is up to %s per month (%s%% of income). "+
			"At %s's rate of %s%% over %s with a %d%% downpayment, that finances a purchase "+
			"up to about %s. Name a product or category and I will run the numbers.",
		formatINR(income), formatINR(maxEMI), alternativesBand, bank, bestRate,
		formatMonths(ReferenceTenureMonths), ReferenceDownpaymentPercent, formatINR(maxPrice))}
}

// userMessage extracts the user-facing text from a classified error.
func userMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return strings.ToUpper(de.Message[:1]) + de.Message[1:] + "."
	}
	return "Something went wrong. Please try again."
}
