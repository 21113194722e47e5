package service

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/metrics"
	"finplan-agent/repository"
)

// Advisor turns a category into a short, varied product list and matches
// user text against candidates.
type Advisor struct {
	catalog  repository.ProductCatalog
	fallback *repository.StaticCatalog
	logger   *zap.Logger
}

func NewAdvisor(catalog repository.ProductCatalog, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{catalog: catalog, fallback: repository.NewStaticCatalog(), logger: logger}
}

// Suggest returns 3 to 8 products for a category, sorted by price and
// sampled across low, mid and high terciles for variety. A failing or
// empty catalog degrades to the built-in list instead of erroring.
func (a *Advisor) Suggest(category domain.Category) []domain.Product {
	products, err := a.catalog.ListByCategory(category)
	if err != nil || len(products) == 0 {
		if err != nil {
			a.logger.Warn("catalog unavailable, using fallback",
				zap.String("category", string(category)), zap.Error(err))
			metrics.UpstreamFallbacks.WithLabelValues("catalog").Inc()
		}
		products, _ = a.fallback.ListByCategory(category)
	}
	if len(products) == 0 {
		return nil
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Price.LessThan(products[j].Price)
	})
	if len(products) <= SuggestionMax {
		return products
	}

	// Sample evenly across price terciles so the list spans budgets.
	third := len(products) / 3
	terciles := [][]domain.Product{
		products[:third],
		products[third : 2*third],
		products[2*third:],
	}
	var out []domain.Product
	for len(out) < SuggestionMax {
		added := false
		for _, t := range terciles {
			idx := len(out) / 3
			if idx < len(t) && len(out) < SuggestionMax {
				out = append(out, t[idx])
				added = true
			}
		}
		if !added {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

// MatchDirect finds a candidate mentioned in the message. Containment is
// checked in both directions so "sonet" hits "Kia Sonet" and a message
// that is a fragment of a name still resolves. First match wins.
func MatchDirect(message string, candidates []domain.Product) *domain.Product {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return nil
	}
	// Reverse containment only for fragments that can plausibly be a name,
	// so ordinals and stray digits never hit numbered model names.
	fragment := len(text) >= 3 && strings.ContainsFunc(text, func(r rune) bool {
		return r < '0' || r > '9'
	})
	for i := range candidates {
		name := strings.ToLower(candidates[i].Name)
		if strings.Contains(text, name) || (fragment && strings.Contains(name, text)) {
			return &candidates[i]
		}
	}
	return nil
}

// MatchSelection resolves a reply to a suggestion list: a 1-based ordinal
// or a name. An out-of-range ordinal is no match, not an error.
func MatchSelection(message string, candidates []domain.Product) *domain.Product {
	text := strings.TrimSpace(message)
	if n, err := strconv.Atoi(strings.Trim(text, ".) ")); err == nil {
		if n >= 1 && n <= len(candidates) {
			return &candidates[n-1]
		}
		return nil
	}
	return MatchDirect(text, candidates)
}
