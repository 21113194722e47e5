// Package metrics exposes the engine's Prometheus collectors. Upstream
// failures are recovered with fallback data and never surface to the user,
// so these counters are the only place they stay visible.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Turns counts processed turns by classified intent.
	Turns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finplan_turns_total",
		Help: "Processed conversation turns by intent.",
	}, []string{"intent"})

	// UpstreamFallbacks counts catalog/rate lookups served from fallback
	// data after an upstream failure or empty result.
	UpstreamFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finplan_upstream_fallbacks_total",
		Help: "Lookups answered from static fallback data.",
	}, []string{"source"})

	// EnhancerFailures counts response-enhancer calls that fell back to the
	// base response.
	EnhancerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finplan_enhancer_failures_total",
		Help: "Response enhancer calls that failed and used the base text.",
	})

	// PlansSaved counts plans persisted through the lifecycle manager.
	PlansSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finplan_plans_saved_total",
		Help: "Loan plans saved to the plan store.",
	})

	// InvariantViolations counts computed values that validated inputs
	// should have made impossible.
	InvariantViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "finplan_invariant_violations_total",
		Help: "Internal arithmetic invariant violations.",
	})
)
