package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/repository"
)

func newTestClassifier() *Classifier {
	return NewClassifier(repository.NewStaticCatalog(), zap.NewNop())
}

func TestClassifyPendingFlagsWinFirst(t *testing.T) {
	c := newTestClassifier()

	cc := &domain.ConversationContext{Pending: domain.PendingAction{Kind: domain.PendingAffordabilityYesNo}}
	assert.Equal(t, IntentPendingYesNo, c.Classify("yes please", cc).Intent)
	// Even a product mention defers to the pending question.
	assert.Equal(t, IntentPendingYesNo, c.Classify("kia sonet", cc).Intent)

	cc = &domain.ConversationContext{Pending: domain.PendingAction{Kind: domain.PendingSavingsAmount}}
	assert.Equal(t, IntentPendingSavingsAmount, c.Classify("25000", cc).Intent)

	cc = &domain.ConversationContext{Pending: domain.PendingAction{Kind: domain.PendingPlanModification, PlanID: "plan_2"}}
	got := c.Classify("downpayment to 30%", cc)
	assert.Equal(t, IntentPendingModification, got.Intent)
	assert.Equal(t, "plan_2", got.PlanID)
}

func TestClassifyGreeting(t *testing.T) {
	c := newTestClassifier()
	cc := &domain.ConversationContext{}

	assert.Equal(t, IntentGreeting, c.Classify("Hi there!", cc).Intent)
	assert.Equal(t, IntentGreeting, c.Classify("hello", cc).Intent)
	// Long messages are not greetings even when they start with one.
	assert.NotEqual(t, IntentGreeting,
		c.Classify("hello I would like to buy a new car this month", cc).Intent)
}

func TestClassifyDirectProductBeatsCategory(t *testing.T) {
	c := newTestClassifier()
	cc := &domain.ConversationContext{}

	got := c.Classify("I want to buy a Kia Sonet", cc)
	require.Equal(t, IntentProductDirect, got.Intent)
	require.NotNil(t, got.Product)
	assert.Equal(t, "Kia Sonet", got.Product.Name)
	assert.Equal(t, domain.CategoryFourWheeler, got.Category)
}

func TestClassifyCategoryNeedsPurchaseVerb(t *testing.T) {
	c := newTestClassifier()
	cc := &domain.ConversationContext{}

	got := c.Classify("I want to buy a car", cc)
	assert.Equal(t, IntentCategorySuggest, got.Intent)
	assert.Equal(t, domain.CategoryFourWheeler, got.Category)

	got = c.Classify("I want to purchase a laptop", cc)
	assert.Equal(t, IntentCategorySuggest, got.Intent)
	assert.Equal(t, domain.CategoryElectronics, got.Category)
}

func TestClassifyPlanCommands(t *testing.T) {
	c := newTestClassifier()
	cc := &domain.ConversationContext{}

	assert.Equal(t, IntentSavePlan, c.Classify("save this plan", cc).Intent)
	assert.Equal(t, IntentSavePlan, c.Classify("save plan 2", cc).Intent)
	assert.Equal(t, IntentListPlans, c.Classify("show my saved plans", cc).Intent)

	got := c.Classify("modify plan_1", cc)
	assert.Equal(t, IntentModifyPlan, got.Intent)
	assert.Equal(t, "plan_1", got.PlanID)

	got = c.Classify("unsave plan_3", cc)
	assert.Equal(t, IntentUnsavePlan, got.Intent)
	assert.Equal(t, "plan_3", got.PlanID)
}

func TestClassifyKeywordGroups(t *testing.T) {
	c := newTestClassifier()
	cc := &domain.ConversationContext{}

	assert.Equal(t, IntentSaving, c.Classify("help me start saving for a trip", cc).Intent)
	assert.Equal(t, IntentAffordability, c.Classify("what can I afford?", cc).Intent)
}

func TestClassifyFallback(t *testing.T) {
	c := newTestClassifier()
	cc := &domain.ConversationContext{}

	assert.Equal(t, IntentOffTopic, c.Classify("Tell me about cricket scores", cc).Intent)
	assert.Equal(t, IntentCapability, c.Classify("what are good interest rates these days", cc).Intent)
}

func TestYesNoTokens(t *testing.T) {
	assert.True(t, IsYes("Yes"))
	assert.True(t, IsYes("yeah, why not"))
	assert.True(t, IsYes("haan"))
	assert.False(t, IsYes("maybe"))

	assert.True(t, IsNo("No"))
	assert.True(t, IsNo("nahi"))
	assert.False(t, IsNo("yes"))
}
