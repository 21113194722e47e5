package service

import "github.com/shopspring/decimal"

const (
	// StrictGatePercent is the analysis-time affordability gate: a
	// reference EMI above this share of income interrupts the flow with a
	// yes/no prompt. It is deliberately stricter than the advisory bands
	// in finmath and must stay a separate constant.
	StrictGatePercent = 20

	// AlternativesBandPercent is the advisory ceiling used to recompute a
	// maximum affordable price when the user declines a saving plan.
	AlternativesBandPercent = 30

	// ReferenceDownpaymentPercent and ReferenceTenureMonths parameterize
	// the reference loan computed during product analysis.
	ReferenceDownpaymentPercent = 20
	ReferenceTenureMonths       = 48

	// PersistenceTenureMonths is the fixed tenure a plan's EMI is
	// recomputed at when saved, regardless of the tenure displayed.
	PersistenceTenureMonths = 48

	// MaxSavablePlanIndex bounds the 1-based index accepted by
	// "save plan <n>".
	MaxSavablePlanIndex = 5

	// Suggestion list size bounds.
	SuggestionMin = 3
	SuggestionMax = 8

	// SavingTargetPriceFactor: a saving plan for a product targets the
	// financed share of the price (the 80% remaining after the reference
	// downpayment).
	savingTargetPriceFactor = "0.8"

	greetingLine = "Hello! How can I help you today?"

	offTopicReply = "Maaf kijiye, main sirf financial planning mein aapki madad kar " +
		"sakta hoon. (Sorry, I can only help with financial planning: purchases, " +
		"EMIs, affordability and saving plans.)"

	capabilityReply = "I can help you plan a purchase end to end:\n" +
		"• Suggest products, try \"I want to buy a car\"\n" +
		"• Analyze EMIs and affordability for a specific product, try \"Kia Sonet\"\n" +
		"• Build saving plans, try \"help me save 25000 per month\"\n" +
		"• Manage saved plans: \"save this plan\", \"show my saved plans\", " +
		"\"modify plan 1\", \"unsave plan 1\""
)

// Tenure buckets for plan presentation and the target plan count per
// bucket (10 candidates before affordability filtering).
var (
	tenureBuckets = []int{12, 24, 48}
	bucketTargets = []int{3, 3, 4}
)

var (
	strictGate       = decimal.NewFromInt(StrictGatePercent)
	alternativesBand = decimal.NewFromInt(AlternativesBandPercent)
	referenceDown    = decimal.NewFromInt(ReferenceDownpaymentPercent)
	hundred          = decimal.NewFromInt(100)
)

// Modification safe ranges.
var (
	modDownpaymentMin = decimal.NewFromInt(0)
	modDownpaymentMax = decimal.NewFromInt(100)
	modRateMin        = decimal.NewFromInt(8)
	modRateMax        = decimal.NewFromInt(25)
)

const (
	modTenureMin = 6
	modTenureMax = 60
)
