package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanPlan is a fully computed financing option for one product. It is not
// persisted until the user saves it.
//
// Invariants: LoanAmount = Price - DownpaymentAmount,
// TotalPayable = EMI*TenureMonths + DownpaymentAmount,
// InterestPaid = TotalPayable - Price.
type LoanPlan struct {
	Product            Product         `json:"product"`
	DownpaymentPercent decimal.Decimal `json:"downpayment_percent"`
	DownpaymentAmount  decimal.Decimal `json:"downpayment_amount"`
	LoanAmount         decimal.Decimal `json:"loan_amount"`
	Bank               string          `json:"bank"`
	AnnualRatePercent  decimal.Decimal `json:"annual_rate_percent"`
	TenureMonths       int             `json:"tenure_months"`
	EMI                decimal.Decimal `json:"emi"`
	TotalPayable       decimal.Decimal `json:"total_payable"`
	InterestPaid       decimal.Decimal `json:"interest_paid"`
}

// SavedPlan is the persisted form of a LoanPlan. PlanID is sequential per
// user ("plan_<n>") with a monotonically increasing numeric suffix.
type SavedPlan struct {
	PlanID    string    `json:"plan_id"`
	UserID    string    `json:"user_id"`
	Plan      LoanPlan  `json:"plan"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanChanges carries the optional fields of a plan modification. Nil means
// "keep the stored value". A modification with no recognized field is
// rejected as a whole.
type PlanChanges struct {
	DownpaymentPercent *decimal.Decimal `json:"downpayment_percent,omitempty"`
	TenureMonths       *int             `json:"tenure_months,omitempty"`
	RatePercent        *decimal.Decimal `json:"rate_percent,omitempty"`
}

// Empty reports whether no recognized field was supplied.
func (c PlanChanges) Empty() bool {
	return c.DownpaymentPercent == nil && c.TenureMonths == nil && c.RatePercent == nil
}
