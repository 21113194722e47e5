package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/repository"
	"finplan-agent/service"
)

func seedPlan(t *testing.T, store repository.PlanStore) domain.SavedPlan {
	t.Helper()
	plan := domain.LoanPlan{
		Product: domain.Product{
			Name:     "Honda Activa 6G",
			Price:    decimal.NewFromInt(90000),
			Category: domain.CategoryTwoWheeler,
		},
		DownpaymentPercent: decimal.NewFromInt(20),
		Bank:               "SBI",
		AnnualRatePercent:  decimal.RequireFromString("9.0"),
		TenureMonths:       48,
	}
	saved, err := store.Create(context.Background(), "u1", plan, "")
	require.NoError(t, err)
	return saved
}

func TestPlansListAndDelete(t *testing.T) {
	store := repository.NewPlanStoreMemory()
	h := NewPlansHandler(service.NewPlanManager(store, zap.NewNop()), zap.NewNop())
	saved := seedPlan(t, store)

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	req.Header.Set(userIDHeader, "u1")
	rec := httptest.NewRecorder()
	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var plans []domain.SavedPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, saved.PlanID, plans[0].PlanID)

	req = httptest.NewRequest(http.MethodDelete, "/plans/"+saved.PlanID, nil)
	req.Header.Set(userIDHeader, "u1")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/plans/"+saved.PlanID, nil)
	req.Header.Set(userIDHeader, "u1")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlansRequireUserID(t *testing.T) {
	h := NewPlansHandler(service.NewPlanManager(repository.NewPlanStoreMemory(), zap.NewNop()), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/plans/plan_1", nil)
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("u1"))
	}
	assert.False(t, rl.Allow("u1"))
	// Other clients are unaffected.
	assert.True(t, rl.Allow("u2"))
}
