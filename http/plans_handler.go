package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/service"
)

type PlansHandler struct {
	plans  *service.PlanManager
	logger *zap.Logger
}

func NewPlansHandler(plans *service.PlanManager, logger *zap.Logger) *PlansHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlansHandler{plans: plans, logger: logger}
}

// List returns the caller's saved plans, newest first.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}

	plans, err := h.plans.ListPlans(r.Context(), userID)
	if err != nil {
		h.logger.Error("listing plans failed", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if plans == nil {
		plans = []domain.SavedPlan{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

// Delete removes the plan named by the trailing path segment,
// e.g. DELETE /plans/plan_2.
func (h *PlansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		http.Error(w, "X-User-ID header is required", http.StatusBadRequest)
		return
	}
	planID := strings.TrimPrefix(r.URL.Path, "/plans/")
	if planID == "" || strings.Contains(planID, "/") {
		http.Error(w, "plan id is required", http.StatusBadRequest)
		return
	}

	if err := h.plans.RemovePlan(r.Context(), userID, planID); err != nil {
		if domain.IsNotFound(err) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		h.logger.Error("removing plan failed",
			zap.String("user_id", userID), zap.String("plan_id", planID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
