package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/finmath"
	"finplan-agent/metrics"
	"finplan-agent/repository"
)

// PlanManager implements the saved-plan lifecycle over a PlanStore.
type PlanManager struct {
	store  repository.PlanStore
	logger *zap.Logger
}

func NewPlanManager(store repository.PlanStore, logger *zap.Logger) *PlanManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanManager{store: store, logger: logger}
}

// SavePlan persists one of the plans generated this conversation.
// planIndex is 1-based; 0 means "the first plan". The persisted EMI is
// always recomputed at the fixed persistence tenure, whatever tenure the
// plan was presented with.
func (m *PlanManager) SavePlan(ctx context.Context, userID string, cc *domain.ConversationContext, planIndex int) (domain.SavedPlan, error) {
	if len(cc.GeneratedPlans) == 0 {
		return domain.SavedPlan{}, domain.NewError(domain.CodePrecondition,
			"no loan plans have been generated yet; analyze a product first")
	}
	if planIndex == 0 {
		planIndex = 1
	}
	if planIndex < 1 || planIndex > MaxSavablePlanIndex {
		return domain.SavedPlan{}, domain.NewError(domain.CodeInput,
			"invalid plan number %d: choose between 1 and %d", planIndex, MaxSavablePlanIndex)
	}
	if planIndex > len(cc.GeneratedPlans) {
		return domain.SavedPlan{}, domain.NewError(domain.CodeInput,
			"invalid plan number %d: only %d plans are available", planIndex, len(cc.GeneratedPlans))
	}

	plan := cc.GeneratedPlans[planIndex-1]
	plan.TenureMonths = PersistenceTenureMonths
	recomputePlan(&plan)
	if plan.EMI.IsNegative() {
		metrics.InvariantViolations.Inc()
		return domain.SavedPlan{}, domain.NewError(domain.CodeInvariant,
			"computed a negative EMI for %s", plan.Product.Name)
	}

	notes := fmt.Sprintf("Saved during consultation: %s via %s at %s%% p.a., EMI %s over %s.",
		plan.Product.Name, plan.Bank, plan.AnnualRatePercent,
		formatINR(plan.EMI), formatMonths(plan.TenureMonths))
	saved, err := m.store.Create(ctx, userID, plan, notes)
	if err != nil {
		return domain.SavedPlan{}, domain.WrapError(err, domain.CodeUpstream, "persisting plan")
	}
	metrics.PlansSaved.Inc()
	m.logger.Info("plan saved",
		zap.String("user_id", userID),
		zap.String("plan_id", saved.PlanID),
		zap.String("product", plan.Product.Name))
	return saved, nil
}

// ListPlans returns the user's saved plans, newest first.
func (m *PlanManager) ListPlans(ctx context.Context, userID string) ([]domain.SavedPlan, error) {
	return m.store.ListByUser(ctx, userID)
}

// ModifyPlan applies validated field changes to a saved plan and
// recomputes the derived amounts. Validation is all-or-nothing: a single
// out-of-range field rejects the whole modification.
func (m *PlanManager) ModifyPlan(ctx context.Context, userID, planID string, changes domain.PlanChanges) (domain.SavedPlan, error) {
	if changes.Empty() {
		return domain.SavedPlan{}, domain.NewError(domain.CodeInput,
			"no recognized changes: specify downpayment (0-100%%), tenure (6-60 months) or rate (8-25%%)")
	}
	if err := validateChanges(changes); err != nil {
		return domain.SavedPlan{}, err
	}

	saved, err := m.store.GetByUserAndID(ctx, userID, planID)
	if err != nil {
		return domain.SavedPlan{}, err
	}

	if changes.DownpaymentPercent != nil {
		saved.Plan.DownpaymentPercent = *changes.DownpaymentPercent
	}
	if changes.TenureMonths != nil {
		saved.Plan.TenureMonths = *changes.TenureMonths
	}
	if changes.RatePercent != nil {
		saved.Plan.AnnualRatePercent = *changes.RatePercent
	}
	recomputePlan(&saved.Plan)

	if err := m.store.Update(ctx, saved); err != nil {
		return domain.SavedPlan{}, domain.WrapError(err, domain.CodeUpstream, "updating plan %s", planID)
	}
	m.logger.Info("plan modified", zap.String("user_id", userID), zap.String("plan_id", planID))
	return saved, nil
}

// RemovePlan deletes a saved plan owned by the user.
func (m *PlanManager) RemovePlan(ctx context.Context, userID, planID string) error {
	if err := m.store.Delete(ctx, userID, planID); err != nil {
		return err
	}
	m.logger.Info("plan removed", zap.String("user_id", userID), zap.String("plan_id", planID))
	return nil
}

func validateChanges(ch domain.PlanChanges) error {
	if ch.DownpaymentPercent != nil &&
		(ch.DownpaymentPercent.LessThan(modDownpaymentMin) || ch.DownpaymentPercent.GreaterThan(modDownpaymentMax)) {
		return domain.NewError(domain.CodeInput,
			"downpayment must be between 0%% and 100%%, got %s%%", ch.DownpaymentPercent)
	}
	if ch.TenureMonths != nil && (*ch.TenureMonths < modTenureMin || *ch.TenureMonths > modTenureMax) {
		return domain.NewError(domain.CodeInput,
			"tenure must be between %d and %d months, got %d", modTenureMin, modTenureMax, *ch.TenureMonths)
	}
	if ch.RatePercent != nil &&
		(ch.RatePercent.LessThan(modRateMin) || ch.RatePercent.GreaterThan(modRateMax)) {
		return domain.NewError(domain.CodeInput,
			"interest rate must be between %s%% and %s%%, got %s%%", modRateMin, modRateMax, ch.RatePercent)
	}
	return nil
}

// recomputePlan refreshes every derived field from price, downpayment
// percent, rate and tenure.
func recomputePlan(p *domain.LoanPlan) {
	split := finmath.DownpaymentImpact(p.Product.Price, p.DownpaymentPercent)
	p.DownpaymentAmount = split.DownpaymentAmount
	p.LoanAmount = split.LoanAmount
	p.EMI = finmath.ComputeEMI(p.LoanAmount, p.AnnualRatePercent, p.TenureMonths)
	tenure := decimal.NewFromInt(int64(p.TenureMonths))
	p.TotalPayable = p.EMI.Mul(tenure).Add(p.DownpaymentAmount).Round(2)
	p.InterestPaid = p.TotalPayable.Sub(p.Product.Price).Round(2)
}
