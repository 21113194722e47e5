package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"finplan-agent/domain"
)

// PlanStoreRedis keeps saved plans in a per-user hash. Plan ids come from a
// per-user INCR counter, which gives the monotonic never-reused suffix
// without any client-side locking.
type PlanStoreRedis struct {
	client *redis.Client
}

func NewPlanStoreRedis(client *redis.Client) *PlanStoreRedis {
	return &PlanStoreRedis{client: client}
}

func plansKey(userID string) string { return "plans:" + userID }
func seqKey(userID string) string   { return "plans:" + userID + ":seq" }

func (s *PlanStoreRedis) Create(ctx context.Context, userID string, plan domain.LoanPlan, notes string) (domain.SavedPlan, error) {
	n, err := s.client.Incr(ctx, seqKey(userID)).Result()
	if err != nil {
		return domain.SavedPlan{}, domain.WrapError(err, domain.CodeUpstream, "allocating plan id")
	}
	createdAt, err := s.client.Time(ctx).Result()
	if err != nil {
		createdAt = time.Now()
	}
	saved := domain.SavedPlan{
		PlanID:    fmt.Sprintf("plan_%d", n),
		UserID:    userID,
		Plan:      plan,
		Notes:     notes,
		CreatedAt: createdAt,
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		return domain.SavedPlan{}, domain.WrapError(err, domain.CodeUpstream, "encoding plan")
	}
	if err := s.client.HSet(ctx, plansKey(userID), saved.PlanID, raw).Err(); err != nil {
		return domain.SavedPlan{}, domain.WrapError(err, domain.CodeUpstream, "storing plan")
	}
	return saved, nil
}

func (s *PlanStoreRedis) ListByUser(ctx context.Context, userID string) ([]domain.SavedPlan, error) {
	rows, err := s.client.HGetAll(ctx, plansKey(userID)).Result()
	if err != nil {
		return nil, domain.WrapError(err, domain.CodeUpstream, "listing plans")
	}
	out := make([]domain.SavedPlan, 0, len(rows))
	for _, raw := range rows {
		var p domain.SavedPlan
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, domain.WrapError(err, domain.CodeUpstream, "decoding plan")
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return planSuffix(out[i].PlanID) > planSuffix(out[j].PlanID)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *PlanStoreRedis) GetByUserAndID(ctx context.Context, userID, planID string) (domain.SavedPlan, error) {
	raw, err := s.client.HGet(ctx, plansKey(userID), planID).Result()
	if err == redis.Nil {
		return domain.SavedPlan{}, domain.NewError(domain.CodeNotFound, "plan %s not found", planID)
	}
	if err != nil {
		return domain.SavedPlan{}, domain.WrapError(err, domain.CodeUpstream, "loading plan")
	}
	var p domain.SavedPlan
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return domain.SavedPlan{}, domain.WrapError(err, domain.CodeUpstream, "decoding plan")
	}
	return p, nil
}

func (s *PlanStoreRedis) Update(ctx context.Context, saved domain.SavedPlan) error {
	exists, err := s.client.HExists(ctx, plansKey(saved.UserID), saved.PlanID).Result()
	if err != nil {
		return domain.WrapError(err, domain.CodeUpstream, "checking plan")
	}
	if !exists {
		return domain.NewError(domain.CodeNotFound, "plan %s not found", saved.PlanID)
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		return domain.WrapError(err, domain.CodeUpstream, "encoding plan")
	}
	return s.client.HSet(ctx, plansKey(saved.UserID), saved.PlanID, raw).Err()
}

func (s *PlanStoreRedis) Delete(ctx context.Context, userID, planID string) error {
	removed, err := s.client.HDel(ctx, plansKey(userID), planID).Result()
	if err != nil {
		return domain.WrapError(err, domain.CodeUpstream, "deleting plan")
	}
	if removed == 0 {
		return domain.NewError(domain.CodeNotFound, "plan %s not found", planID)
	}
	return nil
}
