package repository

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"finplan-agent/domain"
)

// RateSource ranks bank financing offers for a category, ascending by
// annual rate. Implementations may be remote; callers must tolerate errors
// and fall back to StaticRates.
type RateSource interface {
	RatesFor(category domain.Category) ([]domain.BankOffer, error)
}

// StaticRates serves the built-in ranked offers. It is also the fallback
// when a remote rate source is unavailable.
type StaticRates struct {
	offers map[domain.Category][]domain.BankOffer
}

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func NewStaticRates() *StaticRates {
	autoOffers := []domain.BankOffer{
		{BankName: "SBI", AnnualRatePercent: rate("9.0"),
			Pros: []string{"Lowest rate among large banks", "No prepayment penalty"},
			Cons: []string{"Slower processing", "Stricter income documentation"}},
		{BankName: "HDFC Bank", AnnualRatePercent: rate("9.25"),
			Pros: []string{"Quick digital approval", "Flexible tenure options"},
			Cons: []string{"Processing fee up to 1%"}},
		{BankName: "ICICI Bank", AnnualRatePercent: rate("9.4"),
			Pros: []string{"Pre-approved offers for account holders"},
			Cons: []string{"Higher rate for used vehicles"}},
		{BankName: "Axis Bank", AnnualRatePercent: rate("9.6"),
			Pros: []string{"Doorstep documentation"},
			Cons: []string{"Foreclosure charges apply"}},
		{BankName: "Kotak Mahindra", AnnualRatePercent: rate("9.8"),
			Pros: []string{"Fast disbursal"},
			Cons: []string{"Higher rate", "Limited branch network"}},
	}
	electronicsOffers := []domain.BankOffer{
		{BankName: "Bajaj Finserv", AnnualRatePercent: rate("10.5"),
			Pros: []string{"No-cost EMI tie-ups with retailers", "Instant card approval"},
			Cons: []string{"Penal charges on missed EMI are steep"}},
		{BankName: "HDFC Bank", AnnualRatePercent: rate("11.0"),
			Pros: []string{"Consumer durable loans at point of sale"},
			Cons: []string{"Needs existing relationship for best rate"}},
		{BankName: "ICICI Bank", AnnualRatePercent: rate("11.5"),
			Pros: []string{"Cardless EMI"},
			Cons: []string{"Processing fee on small tickets"}},
		{BankName: "Axis Bank", AnnualRatePercent: rate("12.0"),
			Pros: []string{"Wide merchant coverage"},
			Cons: []string{"Higher rate band"}},
	}
	homeOffers := []domain.BankOffer{
		{BankName: "SBI", AnnualRatePercent: rate("8.5"),
			Pros: []string{"Lowest home loan rate", "Balance transfer friendly"},
			Cons: []string{"Valuation process can be slow"}},
		{BankName: "HDFC Bank", AnnualRatePercent: rate("8.7"),
			Pros: []string{"Strong service network"},
			Cons: []string{"Conversion fee for rate resets"}},
		{BankName: "LIC Housing", AnnualRatePercent: rate("8.9"),
			Pros: []string{"Long tenures available"},
			Cons: []string{"Less flexible prepayment"}},
		{BankName: "ICICI Bank", AnnualRatePercent: rate("9.1"),
			Pros: []string{"Digital sanction"},
			Cons: []string{"Rate premium for self-employed"}},
	}
	personalOffers := []domain.BankOffer{
		{BankName: "HDFC Bank", AnnualRatePercent: rate("10.75"),
			Pros: []string{"10-second disbursal for existing customers"},
			Cons: []string{"Rate depends heavily on credit score"}},
		{BankName: "SBI", AnnualRatePercent: rate("11.0"),
			Pros: []string{"Low processing fee"},
			Cons: []string{"Salary account usually required"}},
		{BankName: "ICICI Bank", AnnualRatePercent: rate("11.25"),
			Pros: []string{"Flexible top-ups"},
			Cons: []string{"Foreclosure charges in first year"}},
		{BankName: "Axis Bank", AnnualRatePercent: rate("11.5"),
			Pros: []string{"Minimal documentation"},
			Cons: []string{"Higher rate band"}},
	}
	goldOffers := []domain.BankOffer{
		{BankName: "SBI", AnnualRatePercent: rate("9.1"),
			Pros: []string{"Transparent valuation"},
			Cons: []string{"Branch visit required"}},
		{BankName: "Muthoot Finance", AnnualRatePercent: rate("9.5"),
			Pros: []string{"Instant disbursal", "Wide branch network"},
			Cons: []string{"Rate rises with LTV"}},
		{BankName: "HDFC Bank", AnnualRatePercent: rate("9.9"),
			Pros: []string{"Bank-grade vault storage"},
			Cons: []string{"Conservative valuation"}},
	}
	return &StaticRates{offers: map[domain.Category][]domain.BankOffer{
		domain.CategoryFourWheeler:  autoOffers,
		domain.CategoryTwoWheeler:   autoOffers,
		domain.CategoryElectronics:  electronicsOffers,
		domain.CategoryHomeLoan:     homeOffers,
		domain.CategoryPersonalLoan: personalOffers,
		domain.CategoryGoldLoan:     goldOffers,
	}}
}

func (r *StaticRates) RatesFor(category domain.Category) ([]domain.BankOffer, error) {
	offers, ok := r.offers[category]
	if !ok {
		offers = r.offers[domain.CategoryPersonalLoan]
	}
	out := make([]domain.BankOffer, len(offers))
	copy(out, offers)
	return out, nil
}

// CachedRateSource memoizes rate lookups in a CacheRepository. Cache
// failures are logged and ignored; the wrapped source stays authoritative.
type CachedRateSource struct {
	src    RateSource
	cache  CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRateSource(src RateSource, cache CacheRepository, ttl time.Duration, logger *zap.Logger) *CachedRateSource {
	return &CachedRateSource{src: src, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedRateSource) RatesFor(category domain.Category) ([]domain.BankOffer, error) {
	key := "rates:" + string(category)
	if raw, ok := c.cache.Get(key); ok {
		var offers []domain.BankOffer
		if err := json.Unmarshal([]byte(raw), &offers); err == nil {
			return offers, nil
		}
		c.logger.Warn("discarding corrupt rate cache entry", zap.String("category", string(category)))
	}
	offers, err := c.src.RatesFor(category)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(offers); err == nil {
		if err := c.cache.Set(key, string(raw), c.ttl); err != nil {
			c.logger.Warn("rate cache write failed", zap.Error(err))
		}
	}
	return offers, nil
}
