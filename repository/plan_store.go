package repository

import (
	"context"

	"finplan-agent/domain"
)

// PlanStore persists saved plans per user. Create must assign the next
// sequential plan id atomically ("plan_<n>", n = max existing suffix + 1)
// so concurrent saves for one user never reuse a number, even after
// deletions.
type PlanStore interface {
	Create(ctx context.Context, userID string, plan domain.LoanPlan, notes string) (domain.SavedPlan, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SavedPlan, error)
	GetByUserAndID(ctx context.Context, userID, planID string) (domain.SavedPlan, error)
	Update(ctx context.Context, saved domain.SavedPlan) error
	Delete(ctx context.Context, userID, planID string) error
}
