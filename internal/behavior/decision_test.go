package behavior

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/maxxxara/meama-simulation/internal/campaign"
	"github.com/maxxxara/meama-simulation/internal/customer"
)

// neutralConfig flattens every behavioral modifier to 1.0 so only the base
// probability survives. Campaign effects stay off.
func neutralConfig() campaign.Config {
	cfg := campaign.DefaultConfig()
	cfg.EnableCampaignEffects = false
	cfg.FridayBoost = 1.0
	cfg.MondayDip = 1.0
	cfg.WeekendImpulseBoost = 1.0
	cfg.PaydayBoost = 1.0
	cfg.EndOfMonthFactor = 1.0
	cfg.SatisfactionPenaltyFactor = 1.0
	cfg.SatisfactionBoostFactor = 1.0
	cfg.ImpulseOnlyFactor = 1.0
	cfg.PlannedPurchaseFactor = 1.0
	cfg.SeasonalBoostFactor = 1.0
	cfg.SeasonalLowFactor = 1.0
	cfg.PriceSensitiveReductionFactor = 1.0
	cfg.PriceInsensitiveBoostFactor = 1.0
	cfg.BrandLoyaltyBoostFactor = 1.0
	cfg.LowLoyaltyReductionFactor = 1.0
	cfg.NegativeExperiencePenaltyFactor = 1.0
	cfg.ProductDiscoveryChance = 0
	return cfg
}

func neutralCustomer() *customer.Customer {
	return &customer.Customer{
		ID:                   1,
		Email:                "c1@example.com",
		CreatedAt:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Satisfaction:         0.5,
		PurchaseIntent:       0.5,
		PriceSensitivity:     0.5,
		BrandLoyalty:         0.5,
		DaysSinceNegativeExp: 999,
		Lifecycle:            customer.LifecycleActive,
		CampaignImpactFactor: 1.3,
	}
}

func orderOn(date string) customer.Order {
	return customer.Order{ID: 1, TotalSpent: 30, OrderDate: date, Lines: []customer.OrderLine{
		{ProductName: "espresso blend", ProductPrice: 15, Quantity: 2},
	}}
}

func TestMinimalProbability(t *testing.T) {
	e := NewEngine(campaign.DefaultConfig(), rand.New(rand.NewSource(1)))

	// No history falls back to the new-customer baseline.
	if got := e.MinimalOrderProbability(1.0, 0, 0); got != 0.01 {
		t.Errorf("expected baseline 0.01, got %v", got)
	}
	// Negative historical days counts as no history.
	if got := e.MinimalOrderProbability(1.0, 5, -3); got != 0.01 {
		t.Errorf("expected baseline 0.01 for negative days, got %v", got)
	}
	// Historical frequency scaled by impact factor.
	if got := e.MinimalOrderProbability(1.5, 10, 100); math.Abs(got-0.15) > 1e-12 {
		t.Errorf("expected 0.15, got %v", got)
	}
	// Never exceeds 1.0.
	if got := e.MinimalOrderProbability(2.0, 90, 100); got > 1.0 {
		t.Errorf("probability exceeded 1.0: %v", got)
	}
}

func TestDecideMinimalEmpiricalRate(t *testing.T) {
	e := NewEngine(campaign.DefaultConfig(), rand.New(rand.NewSource(19)))

	// 10 orders over 100 days at impact 1.5: probability 0.15.
	const trials = 100000
	hits := 0
	for i := 0; i < trials; i++ {
		if e.DecideMinimal(1.5, 10, 100) {
			hits++
		}
	}
	rate := float64(hits) / trials
	if math.Abs(rate-0.15) > 0.005 {
		t.Errorf("empirical rate %v too far from 0.15", rate)
	}

	// A certain probability always buys.
	for i := 0; i < 100; i++ {
		if !e.DecideMinimal(2.0, 90, 100) {
			t.Fatal("purchase rejected at probability 1.0")
		}
	}
}

func TestEnhancedBaselineEmpiricalRate(t *testing.T) {
	cfg := neutralConfig()
	e := NewEngine(cfg, rand.New(rand.NewSource(7)))
	// Wednesday, mid-month, non-seasonal, no payday.
	day := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	c := neutralCustomer()

	want := cfg.NewCustomerBaselineProbability * cfg.EnhancedBaselineScale
	if got := e.OrderProbability(c, 0, day); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected scaled baseline %v, got %v", want, got)
	}

	const trials = 200000
	hits := 0
	for i := 0; i < trials; i++ {
		if e.Decide(c, 0, day) {
			hits++
		}
	}
	rate := float64(hits) / trials
	if math.Abs(rate-want) > 0.0005 {
		t.Errorf("empirical rate %v too far from %v", rate, want)
	}
}

func TestProbabilityMonotonicInImpactFactor(t *testing.T) {
	cfg := campaign.DefaultConfig()
	day := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)

	c := neutralCustomer()
	c.HistoricalOrders = []customer.Order{orderOn("2025-06-01T00:00:00")}

	prev := -1.0
	for impact := 1.0; impact <= 2.0; impact += 0.05 {
		// Fresh source per evaluation keeps the random sequence identical
		// across impact factors.
		e := NewEngine(cfg, rand.New(rand.NewSource(99)))
		c.CampaignImpactFactor = impact
		p := e.OrderProbability(c, 200, day)
		if p < prev {
			t.Fatalf("probability decreased from %v to %v at impact %v", prev, p, impact)
		}
		prev = p
	}
}

func TestProbabilityCeilings(t *testing.T) {
	cfg := campaign.DefaultConfig()
	c := neutralCustomer()
	c.Satisfaction = 1.0
	c.PurchaseIntent = 1.0
	c.BrandLoyalty = 1.0
	c.PriceSensitivity = 0.0
	c.CampaignImpactFactor = 2.0
	// Dense history: an order every day for 100 days.
	for i := 0; i < 100; i++ {
		d := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		c.HistoricalOrders = append(c.HistoricalOrders, orderOn(d.Format(customer.OrderDateLayout)))
	}

	e := NewEngine(cfg, rand.New(rand.NewSource(3)))

	inCampaign := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	if p := e.OrderProbability(c, 200, inCampaign); p > cfg.CampaignProbabilityCap {
		t.Errorf("campaign probability %v above ceiling %v", p, cfg.CampaignProbabilityCap)
	}

	outside := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	if p := e.OrderProbability(c, 300, outside); p > cfg.BaselineProbabilityCap {
		t.Errorf("baseline probability %v above ceiling %v", p, cfg.BaselineProbabilityCap)
	}
}

func TestRepeatPurchaseSafeguard(t *testing.T) {
	cfg := neutralConfig()
	cfg.RepeatPurchaseRejectChance = 1.0
	e := NewEngine(cfg, rand.New(rand.NewSource(5)))

	day := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	c := neutralCustomer()
	c.HistoricalOrders = []customer.Order{orderOn("2025-04-08T00:00:00")}

	for i := 0; i < 1000; i++ {
		if e.Decide(c, 100, day) {
			t.Fatal("purchase allowed the day after an order despite certain rejection")
		}
	}
}

func TestLowSatisfactionSafeguard(t *testing.T) {
	cfg := neutralConfig()
	cfg.LowSatisfactionRejectChance = 1.0
	e := NewEngine(cfg, rand.New(rand.NewSource(5)))

	day := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	c := neutralCustomer()
	c.Satisfaction = 0.1

	for i := 0; i < 1000; i++ {
		if e.Decide(c, 0, day) {
			t.Fatal("purchase allowed below the satisfaction floor despite certain rejection")
		}
	}
}

func TestInterpolatedFactor(t *testing.T) {
	// Penalty below, boost above, linear between.
	if got := interpolatedFactor(0.1, 0.3, 0.8, 0.3, 1.2); got != 0.3 {
		t.Errorf("below low: got %v", got)
	}
	if got := interpolatedFactor(0.9, 0.3, 0.8, 0.3, 1.2); got != 1.2 {
		t.Errorf("above high: got %v", got)
	}
	mid := interpolatedFactor(0.55, 0.3, 0.8, 0.3, 1.2)
	if math.Abs(mid-0.75) > 1e-12 {
		t.Errorf("midpoint: expected 0.75, got %v", mid)
	}
}
