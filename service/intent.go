package service

import (
	"strings"

	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/repository"
)

// Intent is the resolved routing decision for one turn.
type Intent int

const (
	IntentOffTopic Intent = iota
	IntentCapability
	IntentGreeting
	IntentProductDirect
	IntentCategorySuggest
	IntentSavePlan
	IntentListPlans
	IntentModifyPlan
	IntentUnsavePlan
	IntentSaving
	IntentAffordability
	IntentPendingYesNo
	IntentPendingSavingsAmount
	IntentPendingModification
)

func (i Intent) String() string {
	switch i {
	case IntentCapability:
		return "capability"
	case IntentGreeting:
		return "greeting"
	case IntentProductDirect:
		return "product_direct"
	case IntentCategorySuggest:
		return "category_suggest"
	case IntentSavePlan:
		return "save_plan"
	case IntentListPlans:
		return "list_plans"
	case IntentModifyPlan:
		return "modify_plan"
	case IntentUnsavePlan:
		return "unsave_plan"
	case IntentSaving:
		return "saving"
	case IntentAffordability:
		return "affordability"
	case IntentPendingYesNo:
		return "pending_yes_no"
	case IntentPendingSavingsAmount:
		return "pending_savings_amount"
	case IntentPendingModification:
		return "pending_modification"
	default:
		return "off_topic"
	}
}

// Classification carries the intent plus whatever the classifier already
// resolved from the message so handlers do not re-scan it.
type Classification struct {
	Intent   Intent
	Product  *domain.Product
	Category domain.Category
	PlanID   string
}

var greetingWords = []string{
	"hi", "hello", "hey", "namaste", "good morning", "good afternoon", "good evening",
}

var purchaseVerbs = []string{
	"buy", "purchase", "loan for", "finance", "emi for", "want a", "want an", "looking for",
}

var categoryVocabulary = map[domain.Category][]string{
	domain.CategoryTwoWheeler:   {"bike", "scooter", "scooty", "motorcycle", "two wheeler", "two-wheeler"},
	domain.CategoryFourWheeler:  {"car", "suv", "sedan", "hatchback", "four wheeler", "four-wheeler", "vehicle"},
	domain.CategoryElectronics:  {"laptop", "phone", "smartphone", "mobile", "tv", "television", "fridge", "refrigerator", "electronics", "gadget"},
	domain.CategoryHomeLoan:     {"home loan", "house loan", "housing loan", "home", "house", "flat", "apartment"},
	domain.CategoryPersonalLoan: {"personal loan"},
	domain.CategoryGoldLoan:     {"gold loan", "gold"},
}

// onTopicWords gate the fallback: a message touching none of these gets
// the off-topic reply.
var onTopicWords = []string{
	"loan", "emi", "finance", "bank", "interest", "rate", "money", "rupee",
	"income", "salary", "budget", "plan", "save", "saving", "afford",
	"buy", "purchase", "invest", "payment", "downpayment", "car", "bike",
	"laptop", "phone", "home", "house", "gold",
}

var yesTokens = []string{"yes", "yeah", "yep", "sure", "ok", "okay", "haan", "ha", "please do", "go ahead"}
var noTokens = []string{"no", "nope", "nah", "not now", "nahi", "na", "don't", "dont"}

// Classifier resolves a message plus context to an intent. Priorities are
// fixed because the vocabularies overlap: pending flows first, then
// greeting, direct product, category, plan commands, keyword groups, and
// finally the on-topic check.
type Classifier struct {
	catalog repository.ProductCatalog
	logger  *zap.Logger
}

func NewClassifier(catalog repository.ProductCatalog, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{catalog: catalog, logger: logger}
}

func (c *Classifier) Classify(message string, cc *domain.ConversationContext) Classification {
	text := strings.ToLower(strings.TrimSpace(message))

	switch cc.Pending.Kind {
	case domain.PendingAffordabilityYesNo:
		return Classification{Intent: IntentPendingYesNo}
	case domain.PendingSavingsAmount:
		return Classification{Intent: IntentPendingSavingsAmount}
	case domain.PendingPlanModification:
		return Classification{Intent: IntentPendingModification, PlanID: cc.Pending.PlanID}
	}

	if isGreeting(text) {
		return Classification{Intent: IntentGreeting}
	}

	if p := c.matchAnyProduct(text); p != nil {
		return Classification{Intent: IntentProductDirect, Product: p, Category: p.Category}
	}

	if cat, ok := matchCategory(text); ok && hasPurchaseVerb(text) {
		return Classification{Intent: IntentCategorySuggest, Category: cat}
	}

	if cl, ok := matchPlanCommand(text); ok {
		return cl
	}

	if containsAny(text, []string{"save", "saving", "savings"}) {
		return Classification{Intent: IntentSaving}
	}
	if strings.Contains(text, "afford") {
		return Classification{Intent: IntentAffordability}
	}

	if containsAny(text, onTopicWords) {
		return Classification{Intent: IntentCapability}
	}
	c.logger.Debug("message classified off topic", zap.Int("length", len(message)))
	return Classification{Intent: IntentOffTopic}
}

func isGreeting(text string) bool {
	if len(strings.Fields(text)) > 5 {
		return false
	}
	cleaned := strings.Trim(text, "!.?, ")
	for _, w := range greetingWords {
		if cleaned == w || strings.HasPrefix(cleaned, w+" ") || strings.HasPrefix(cleaned, w+",") {
			return true
		}
	}
	return false
}

func (c *Classifier) matchAnyProduct(text string) *domain.Product {
	for _, cat := range domain.AllCategories() {
		products, err := c.catalog.ListByCategory(cat)
		if err != nil {
			c.logger.Warn("catalog lookup failed during classification",
				zap.String("category", string(cat)), zap.Error(err))
			continue
		}
		if p := MatchDirect(text, products); p != nil {
			return p
		}
	}
	return nil
}

func matchCategory(text string) (domain.Category, bool) {
	for _, cat := range domain.AllCategories() {
		for _, w := range categoryVocabulary[cat] {
			if strings.Contains(text, w) {
				return cat, true
			}
		}
	}
	return "", false
}

func hasPurchaseVerb(text string) bool {
	return containsAny(text, purchaseVerbs)
}

func matchPlanCommand(text string) (Classification, bool) {
	hasPlan := strings.Contains(text, "plan")
	switch {
	case hasPlan && (strings.Contains(text, "unsave") || strings.Contains(text, "cancel") || strings.Contains(text, "delete") || strings.Contains(text, "remove")):
		return Classification{Intent: IntentUnsavePlan, PlanID: ParsePlanID(text)}, true
	case hasPlan && (strings.Contains(text, "modify") || strings.Contains(text, "change") || strings.Contains(text, "edit")):
		return Classification{Intent: IntentModifyPlan, PlanID: ParsePlanID(text)}, true
	case hasPlan && (strings.Contains(text, "show") || strings.Contains(text, "list") || strings.Contains(text, "my saved")):
		return Classification{Intent: IntentListPlans}, true
	case strings.Contains(text, "save this plan") || strings.Contains(text, "save plan"):
		return Classification{Intent: IntentSavePlan}, true
	}
	return Classification{}, false
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// IsYes and IsNo resolve a pending yes/no answer. Unrecognized text is
// neither, and the caller re-prompts.
func IsYes(message string) bool { return matchToken(message, yesTokens) }
func IsNo(message string) bool  { return matchToken(message, noTokens) }

func matchToken(message string, tokens []string) bool {
	text := strings.ToLower(strings.Trim(strings.TrimSpace(message), "!.?, "))
	for _, tok := range tokens {
		if text == tok || strings.HasPrefix(text, tok+" ") || strings.HasPrefix(text, tok+",") {
			return true
		}
	}
	return false
}
