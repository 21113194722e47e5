package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"finplan-agent/domain"
)

// PlanStoreMemory is the in-memory PlanStore. The single mutex covers the
// read-max-id-then-insert sequence, which is the one place genuine mutual
// exclusion is required.
type PlanStoreMemory struct {
	mu    sync.Mutex
	plans map[string][]domain.SavedPlan
}

func NewPlanStoreMemory() *PlanStoreMemory {
	return &PlanStoreMemory{plans: make(map[string][]domain.SavedPlan)}
}

func planSuffix(planID string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(planID, "plan_"))
	if err != nil {
		return 0
	}
	return n
}

func (s *PlanStoreMemory) Create(_ context.Context, userID string, plan domain.LoanPlan, notes string) (domain.SavedPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxID := 0
	for _, p := range s.plans[userID] {
		if n := planSuffix(p.PlanID); n > maxID {
			maxID = n
		}
	}
	saved := domain.SavedPlan{
		PlanID:    fmt.Sprintf("plan_%d", maxID+1),
		UserID:    userID,
		Plan:      plan,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
	s.plans[userID] = append(s.plans[userID], saved)
	return saved, nil
}

func (s *PlanStoreMemory) ListByUser(_ context.Context, userID string) ([]domain.SavedPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.SavedPlan, len(s.plans[userID]))
	copy(out, s.plans[userID])
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return planSuffix(out[i].PlanID) > planSuffix(out[j].PlanID)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *PlanStoreMemory) GetByUserAndID(_ context.Context, userID, planID string) (domain.SavedPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.plans[userID] {
		if p.PlanID == planID {
			return p, nil
		}
	}
	return domain.SavedPlan{}, domain.NewError(domain.CodeNotFound, "plan %s not found", planID)
}

func (s *PlanStoreMemory) Update(_ context.Context, saved domain.SavedPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.plans[saved.UserID] {
		if p.PlanID == saved.PlanID {
			s.plans[saved.UserID][i] = saved
			return nil
		}
	}
	return domain.NewError(domain.CodeNotFound, "plan %s not found", saved.PlanID)
}

func (s *PlanStoreMemory) Delete(_ context.Context, userID, planID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans := s.plans[userID]
	for i, p := range plans {
		if p.PlanID == planID {
			s.plans[userID] = append(plans[:i], plans[i+1:]...)
			return nil
		}
	}
	return domain.NewError(domain.CodeNotFound, "plan %s not found", planID)
}
