package domain

import "github.com/shopspring/decimal"

// PendingKind names the multi-turn flow the next message must resume.
type PendingKind string

const (
	PendingNone               PendingKind = ""
	PendingAffordabilityYesNo PendingKind = "affordability_yes_no"
	PendingSavingsAmount      PendingKind = "savings_amount"
	PendingPlanModification   PendingKind = "plan_modification"
)

// PendingAction is the single inspectable value describing the
// conversation's current phase. Exactly one flow can be pending at a time.
type PendingAction struct {
	Kind   PendingKind `json:"kind,omitempty"`
	PlanID string      `json:"plan_id,omitempty"`
}

// ConversationContext is the per-user state carried across turns. It is
// caller-owned and caller-persisted; every field must serialize cleanly.
type ConversationContext struct {
	// IncomeHistory holds monthly income samples, most recent last.
	// It is supplied externally, never written by the engine.
	IncomeHistory []decimal.Decimal `json:"income_history,omitempty"`

	// AverageIncome is derived from the last six samples of IncomeHistory
	// when not explicitly set. Once positive it is never recomputed from a
	// shorter window.
	AverageIncome decimal.Decimal `json:"average_income"`

	Category             Category  `json:"category,omitempty"`
	SelectedProduct      *Product  `json:"selected_product,omitempty"`
	AvailableSuggestions []Product `json:"available_suggestions,omitempty"`

	// GeneratedPlans are the loan plans presented in the last product
	// analysis, savable by 1-based index on a later turn.
	GeneratedPlans []LoanPlan `json:"generated_plans,omitempty"`

	ProductSelected bool          `json:"product_selected,omitempty"`
	Affordable      bool          `json:"affordable,omitempty"`
	Pending         PendingAction `json:"pending,omitempty"`

	// SavingContribution and SavingPercent hold a partially collected
	// saving-plan input while the target amount is still pending.
	SavingContribution decimal.Decimal `json:"saving_contribution"`
	SavingPercent      decimal.Decimal `json:"saving_percent"`

	// LastMessage is the most recent raw input, kept for handlers that
	// resume a multi-turn flow on the following turn.
	LastMessage string `json:"last_message,omitempty"`
}

const incomeAverageWindow = 6

// EnsureAverageIncome derives AverageIncome from the income history when it
// has not been set. An already-positive average is left untouched so a
// shorter window never silently overwrites it.
func (c *ConversationContext) EnsureAverageIncome() {
	if c.AverageIncome.IsPositive() || len(c.IncomeHistory) == 0 {
		return
	}
	samples := c.IncomeHistory
	if len(samples) > incomeAverageWindow {
		samples = samples[len(samples)-incomeAverageWindow:]
	}
	sum := decimal.Zero
	for _, s := range samples {
		sum = sum.Add(s)
	}
	c.AverageIncome = sum.Div(decimal.NewFromInt(int64(len(samples)))).Round(2)
}

// ClearPending resets the multi-turn state back to a fresh turn.
func (c *ConversationContext) ClearPending() {
	c.Pending = PendingAction{}
}

// ResponseFlags mirrors the per-turn outcome for the caller.
type ResponseFlags struct {
	ShowGreeting        bool  `json:"show_greeting"`
	IsGreetingResponse  bool  `json:"is_greeting_response,omitempty"`
	OffTopic            bool  `json:"off_topic,omitempty"`
	ProductSelected     bool  `json:"product_selected,omitempty"`
	Affordable          *bool `json:"affordable,omitempty"`
	SavingPlanGenerated bool  `json:"saving_plan_generated,omitempty"`
	PlanSaved           bool  `json:"plan_saved,omitempty"`
	PlansListed         bool  `json:"plans_listed,omitempty"`
	PlanModified        bool  `json:"plan_modified,omitempty"`
	PlanRemoved         bool  `json:"plan_removed,omitempty"`
}

// Response is the outcome of one processed turn. The context passed to
// ProcessMessage is mutated in place and persisted by the caller.
type Response struct {
	Text  string        `json:"reply"`
	Flags ResponseFlags `json:"flags"`
}
