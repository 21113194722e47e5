package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/repository"
)

func testPlanContext() *domain.ConversationContext {
	product := domain.Product{
		Name:     "Kia Sonet",
		Price:    dec("1050000"),
		Category: domain.CategoryFourWheeler,
	}
	plan := domain.LoanPlan{
		Product:            product,
		DownpaymentPercent: dec("20"),
		Bank:               "SBI",
		AnnualRatePercent:  dec("9"),
		TenureMonths:       12,
	}
	recomputePlan(&plan)
	return &domain.ConversationContext{GeneratedPlans: []domain.LoanPlan{plan}}
}

func TestSavePlanRecomputesAtPersistenceTenure(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	cc := testPlanContext()

	saved, err := m.SavePlan(context.Background(), "u1", cc, 0)
	require.NoError(t, err)
	assert.Equal(t, "plan_1", saved.PlanID)
	assert.Equal(t, PersistenceTenureMonths, saved.Plan.TenureMonths)
	// 840000 at 9% over 48 months.
	assert.True(t, saved.Plan.EMI.Equal(dec("20903.44")), "got %s", saved.Plan.EMI)
	assert.Contains(t, saved.Notes, saved.Plan.Product.Name)
}

func TestSavePlanSequentialIDsSurviveDeletion(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	cc := testPlanContext()
	ctx := context.Background()

	first, err := m.SavePlan(ctx, "u1", cc, 1)
	require.NoError(t, err)
	second, err := m.SavePlan(ctx, "u1", cc, 1)
	require.NoError(t, err)
	assert.Equal(t, "plan_1", first.PlanID)
	assert.Equal(t, "plan_2", second.PlanID)

	require.NoError(t, m.RemovePlan(ctx, "u1", "plan_2"))
	third, err := m.SavePlan(ctx, "u1", cc, 1)
	require.NoError(t, err)
	assert.Equal(t, "plan_2", third.PlanID, "id restarts from max(existing)+1")
}

func TestSavePlanIndexValidation(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	cc := testPlanContext()
	ctx := context.Background()

	_, err := m.SavePlan(ctx, "u1", cc, 6)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInput, domain.CodeOf(err))

	_, err = m.SavePlan(ctx, "u1", cc, 2)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInput, domain.CodeOf(err))

	_, err = m.SavePlan(ctx, "u1", &domain.ConversationContext{}, 1)
	require.Error(t, err)
	assert.Equal(t, domain.CodePrecondition, domain.CodeOf(err))
}

func TestModifyPlanRejectsOutOfRangeWithoutPartialApply(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	ctx := context.Background()
	saved, err := m.SavePlan(ctx, "u1", testPlanContext(), 1)
	require.NoError(t, err)

	badTenure := 120
	dp := dec("30")
	_, err = m.ModifyPlan(ctx, "u1", saved.PlanID, domain.PlanChanges{
		DownpaymentPercent: &dp,
		TenureMonths:       &badTenure,
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInput, domain.CodeOf(err))

	unchanged, err := m.store.GetByUserAndID(ctx, "u1", saved.PlanID)
	require.NoError(t, err)
	assert.True(t, unchanged.Plan.DownpaymentPercent.Equal(dec("20")),
		"rejected modification must not partially apply")
}

func TestModifyPlanRecomputesDerivedFields(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	ctx := context.Background()
	saved, err := m.SavePlan(ctx, "u1", testPlanContext(), 1)
	require.NoError(t, err)

	tenure := 24
	got, err := m.ModifyPlan(ctx, "u1", saved.PlanID, domain.PlanChanges{TenureMonths: &tenure})
	require.NoError(t, err)
	assert.Equal(t, 24, got.Plan.TenureMonths)
	// 840000 at 9% over 24 months.
	assert.True(t, got.Plan.EMI.Equal(dec("38375.18")), "got %s", got.Plan.EMI)
	expectedTotal := got.Plan.EMI.Mul(dec("24")).Add(got.Plan.DownpaymentAmount).Round(2)
	assert.True(t, got.Plan.TotalPayable.Equal(expectedTotal))
}

func TestModifyPlanEmptyChanges(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	_, err := m.ModifyPlan(context.Background(), "u1", "plan_1", domain.PlanChanges{})
	require.Error(t, err)
	assert.Equal(t, domain.CodeInput, domain.CodeOf(err))
}

func TestRemovePlanNotFound(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	err := m.RemovePlan(context.Background(), "u1", "plan_9")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestListPlansNewestFirst(t *testing.T) {
	m := NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop())
	cc := testPlanContext()
	ctx := context.Background()

	_, err := m.SavePlan(ctx, "u1", cc, 1)
	require.NoError(t, err)
	_, err = m.SavePlan(ctx, "u1", cc, 1)
	require.NoError(t, err)

	plans, err := m.ListPlans(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "plan_2", plans[0].PlanID)
	assert.Equal(t, "plan_1", plans[1].PlanID)
}
