package domain

import "github.com/shopspring/decimal"

// Category identifies a loan product family. The values match the
// loan dataset the catalog is loaded from.
type Category string

const (
	CategoryTwoWheeler   Category = "two_wheeler"
	CategoryFourWheeler  Category = "four_wheeler"
	CategoryElectronics  Category = "electronics"
	CategoryHomeLoan     Category = "home_loan"
	CategoryPersonalLoan Category = "personal_loan"
	CategoryGoldLoan     Category = "gold_loan"
)

// AllCategories returns every known category in a stable order.
func AllCategories() []Category {
	return []Category{
		CategoryTwoWheeler,
		CategoryFourWheeler,
		CategoryElectronics,
		CategoryHomeLoan,
		CategoryPersonalLoan,
		CategoryGoldLoan,
	}
}

// Tier is a coarse price bucket used to diversify product suggestions.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Product is an immutable catalog entry. Identity is the name
// (case-insensitive, substring-tolerant matching).
type Product struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Specs    string          `json:"specs,omitempty"`
	Tier     Tier            `json:"tier"`
	Category Category        `json:"category"`
}

// BankOffer is a financing offer for a category, sourced from the rate
// source ranked ascending by rate.
type BankOffer struct {
	BankName          string          `json:"bank_name"`
	AnnualRatePercent decimal.Decimal `json:"annual_rate_percent"`
	Pros              []string        `json:"pros,omitempty"`
	Cons              []string        `json:"cons,omitempty"`
}
