package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finplan-agent/domain"
)

func TestStaticRatesRankedAscending(t *testing.T) {
	src := NewStaticRates()

	offers, err := src.RatesFor(domain.CategoryFourWheeler)
	require.NoError(t, err)
	require.NotEmpty(t, offers)
	assert.Equal(t, "SBI", offers[0].BankName)
	for i := 1; i < len(offers); i++ {
		assert.True(t, offers[i-1].AnnualRatePercent.LessThanOrEqual(offers[i].AnnualRatePercent))
	}
}

func TestStaticRatesUnknownCategoryFallsBack(t *testing.T) {
	src := NewStaticRates()

	offers, err := src.RatesFor(domain.Category("boat_loan"))
	require.NoError(t, err)
	assert.NotEmpty(t, offers)
}

type countingSource struct {
	calls int
	inner RateSource
}

func (c *countingSource) RatesFor(cat domain.Category) ([]domain.BankOffer, error) {
	c.calls++
	return c.inner.RatesFor(cat)
}

type failingSource struct{}

func (failingSource) RatesFor(domain.Category) ([]domain.BankOffer, error) {
	return nil, errors.New("rates API down")
}

func TestCachedRateSourceMemoizes(t *testing.T) {
	counting := &countingSource{inner: NewStaticRates()}
	cached := NewCachedRateSource(counting, NewMockCache(), time.Hour, zap.NewNop())

	first, err := cached.RatesFor(domain.CategoryTwoWheeler)
	require.NoError(t, err)
	second, err := cached.RatesFor(domain.CategoryTwoWheeler)
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
	assert.Equal(t, len(first), len(second))
	assert.Equal(t, first[0].BankName, second[0].BankName)
}

func TestCachedRateSourcePropagatesErrors(t *testing.T) {
	cached := NewCachedRateSource(failingSource{}, NewMockCache(), time.Hour, zap.NewNop())

	_, err := cached.RatesFor(domain.CategoryElectronics)
	assert.Error(t, err)
}
