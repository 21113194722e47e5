package repository

import (
	"github.com/shopspring/decimal"

	"finplan-agent/domain"
)

// ProductCatalog lists purchasable products per category. An empty result
// is legal; callers fall back to the static catalog instead of erroring.
type ProductCatalog interface {
	ListByCategory(category domain.Category) ([]domain.Product, error)
}

// StaticCatalog serves the built-in product dataset. It doubles as the
// fallback when an external catalog is empty or failing.
type StaticCatalog struct {
	products map[domain.Category][]domain.Product
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{products: map[domain.Category][]domain.Product{
		domain.CategoryFourWheeler: {
			{Name: "Maruti Alto K10", Price: price(399000), Specs: "1.0L petrol, 5MT, 24.39 km/l", Tier: domain.TierLow, Category: domain.CategoryFourWheeler},
			{Name: "Tata Punch", Price: price(610000), Specs: "1.2L petrol, 5-star safety", Tier: domain.TierLow, Category: domain.CategoryFourWheeler},
			{Name: "Maruti Baleno", Price: price(670000), Specs: "1.2L petrol, premium hatchback", Tier: domain.TierLow, Category: domain.CategoryFourWheeler},
			{Name: "Hyundai i20", Price: price(720000), Specs: "1.2L petrol, sunroof variant", Tier: domain.TierMedium, Category: domain.CategoryFourWheeler},
			{Name: "Kia Sonet", Price: price(1050000), Specs: "1.0L turbo, compact SUV", Tier: domain.TierMedium, Category: domain.CategoryFourWheeler},
			{Name: "Hyundai Creta", Price: price(1180000), Specs: "1.5L, mid-size SUV", Tier: domain.TierMedium, Category: domain.CategoryFourWheeler},
			{Name: "Mahindra XUV700", Price: price(1450000), Specs: "2.0L turbo, 7-seater", Tier: domain.TierHigh, Category: domain.CategoryFourWheeler},
			{Name: "Toyota Fortuner", Price: price(3300000), Specs: "2.8L diesel, 4x4", Tier: domain.TierHigh, Category: domain.CategoryFourWheeler},
		},
		domain.CategoryTwoWheeler: {
			{Name: "Hero Splendor Plus", Price: price(75000), Specs: "97cc, 70 km/l", Tier: domain.TierLow, Category: domain.CategoryTwoWheeler},
			{Name: "Honda Activa 6G", Price: price(90000), Specs: "110cc scooter", Tier: domain.TierLow, Category: domain.CategoryTwoWheeler},
			{Name: "TVS Apache RTR 160", Price: price(135000), Specs: "160cc, sports commuter", Tier: domain.TierMedium, Category: domain.CategoryTwoWheeler},
			{Name: "Bajaj Pulsar N250", Price: price(152000), Specs: "250cc, naked sport", Tier: domain.TierMedium, Category: domain.CategoryTwoWheeler},
			{Name: "Royal Enfield Classic 350", Price: price(193000), Specs: "349cc, retro cruiser", Tier: domain.TierHigh, Category: domain.CategoryTwoWheeler},
			{Name: "KTM Duke 390", Price: price(311000), Specs: "373cc, performance naked", Tier: domain.TierHigh, Category: domain.CategoryTwoWheeler},
		},
		domain.CategoryElectronics: {
			{Name: "LG 1.5 Ton AC", Price: price(46990), Specs: "5-star inverter split AC", Tier: domain.TierLow, Category: domain.CategoryElectronics},
			{Name: "Samsung Galaxy S24", Price: price(74999), Specs: "6.2\" AMOLED, 256GB", Tier: domain.TierLow, Category: domain.CategoryElectronics},
			{Name: "iPhone 15", Price: price(79900), Specs: "6.1\" OLED, 128GB", Tier: domain.TierMedium, Category: domain.CategoryElectronics},
			{Name: "Sony Bravia 55\" 4K", Price: price(89990), Specs: "55\" 4K Google TV", Tier: domain.TierMedium, Category: domain.CategoryElectronics},
			{Name: "MacBook Air M3", Price: price(114900), Specs: "13.6\" Liquid Retina, 8/256GB", Tier: domain.TierHigh, Category: domain.CategoryElectronics},
			{Name: "Samsung 653L Refrigerator", Price: price(135000), Specs: "French door, convertible", Tier: domain.TierHigh, Category: domain.CategoryElectronics},
		},
		domain.CategoryHomeLoan: {
			{Name: "Home Loan", Price: price(3500000), Specs: "Typical home purchase financing", Tier: domain.TierMedium, Category: domain.CategoryHomeLoan},
		},
		domain.CategoryPersonalLoan: {
			{Name: "Personal Loan", Price: price(300000), Specs: "Unsecured personal financing", Tier: domain.TierMedium, Category: domain.CategoryPersonalLoan},
		},
		domain.CategoryGoldLoan: {
			{Name: "Gold Loan", Price: price(200000), Specs: "Financing against pledged gold", Tier: domain.TierMedium, Category: domain.CategoryGoldLoan},
		},
	}}
}

func (c *StaticCatalog) ListByCategory(category domain.Category) ([]domain.Product, error) {
	out := make([]domain.Product, len(c.products[category]))
	copy(out, c.products[category])
	return out, nil
}

