package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finplan-agent/domain"
	"finplan-agent/repository"
)

type failingCatalog struct{}

func (failingCatalog) ListByCategory(domain.Category) ([]domain.Product, error) {
	return nil, errors.New("catalog down")
}

func TestSuggestSortsAndBounds(t *testing.T) {
	a := NewAdvisor(repository.NewStaticCatalog(), zap.NewNop())

	got := a.Suggest(domain.CategoryFourWheeler)
	require.GreaterOrEqual(t, len(got), SuggestionMin)
	require.LessOrEqual(t, len(got), SuggestionMax)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Price.LessThanOrEqual(got[i].Price),
			"suggestions must be price ordered")
	}
}

func TestSuggestSpansTiers(t *testing.T) {
	a := NewAdvisor(repository.NewStaticCatalog(), zap.NewNop())

	got := a.Suggest(domain.CategoryFourWheeler)
	tiers := map[domain.Tier]bool{}
	for _, p := range got {
		tiers[p.Tier] = true
	}
	assert.True(t, tiers[domain.TierLow])
	assert.True(t, tiers[domain.TierHigh])
}

func TestSuggestFallsBackWhenCatalogFails(t *testing.T) {
	a := NewAdvisor(failingCatalog{}, zap.NewNop())

	got := a.Suggest(domain.CategoryTwoWheeler)
	assert.NotEmpty(t, got)
}

func TestMatchDirect(t *testing.T) {
	candidates := []domain.Product{
		{Name: "Kia Sonet"},
		{Name: "Hyundai Creta"},
	}

	p := MatchDirect("I am interested in the kia sonet", candidates)
	require.NotNil(t, p)
	assert.Equal(t, "Kia Sonet", p.Name)

	p = MatchDirect("sonet", candidates)
	require.NotNil(t, p)
	assert.Equal(t, "Kia Sonet", p.Name)

	assert.Nil(t, MatchDirect("something else", candidates))
	assert.Nil(t, MatchDirect("", candidates))
}

func TestMatchSelection(t *testing.T) {
	candidates := []domain.Product{
		{Name: "Hero Splendor Plus"},
		{Name: "Honda Activa 6G"},
	}

	p := MatchSelection("2", candidates)
	require.NotNil(t, p)
	assert.Equal(t, "Honda Activa 6G", p.Name)

	assert.Nil(t, MatchSelection("3", candidates))
	assert.Nil(t, MatchSelection("0", candidates))

	p = MatchSelection("activa", candidates)
	require.NotNil(t, p)
	assert.Equal(t, "Honda Activa 6G", p.Name)
}
