// Package behavior implements the per-customer daily decision process:
// order placement probability, campaign impact evolution, lifecycle
// classification, churn, and the satisfaction/intent attribute dynamics.
//
// All randomness comes from the single *rand.Rand injected at
// construction; nothing here reads global state or the wall clock.
package behavior

import (
	"math"
	"math/rand"
	"time"

	"github.com/maxxxara/meama-simulation/internal/campaign"
	"github.com/maxxxara/meama-simulation/internal/customer"
)

// Engine evaluates daily purchase decisions and state updates for one
// parameter set. It is cheap to construct and holds no per-customer state.
type Engine struct {
	cfg campaign.Config
	rng *rand.Rand
}

// NewEngine creates an Engine bound to a config and a shared random source.
func NewEngine(cfg campaign.Config, rng *rand.Rand) *Engine {
	return &Engine{cfg: cfg, rng: rng}
}

// MinimalOrderProbability is the history-only probability model: base daily
// rate from historical order frequency, scaled by the campaign impact
// factor, capped at 1.0. Out-of-range history counts as no history.
func (e *Engine) MinimalOrderProbability(impactFactor float64, ordersCount, historicalDays int) float64 {
	var daily float64
	if historicalDays <= 0 || ordersCount == 0 {
		daily = e.cfg.NewCustomerBaselineProbability
	} else {
		daily = float64(ordersCount) / float64(historicalDays)
	}
	return math.Min(daily*impactFactor, 1.0)
}

// DecideMinimal performs the history-only purchase decision.
func (e *Engine) DecideMinimal(impactFactor float64, ordersCount, historicalDays int) bool {
	return e.rng.Float64() <= e.MinimalOrderProbability(impactFactor, ordersCount, historicalDays)
}

// OrderProbability is the enhanced probability model: the historical base
// rate multiplied by behavioral, calendar, and campaign modifiers, then
// capped. It consumes exactly one random draw (the product-discovery
// check), so for a fixed random sequence it is a deterministic,
// monotonically non-decreasing function of the campaign impact factor.
func (e *Engine) OrderProbability(c *customer.Customer, historicalDays int, now time.Time) float64 {
	cfg := e.cfg

	var base float64
	if historicalDays <= 0 || len(c.HistoricalOrders) == 0 {
		base = cfg.NewCustomerBaselineProbability * cfg.EnhancedBaselineScale
	} else {
		interval := float64(historicalDays) / float64(len(c.HistoricalOrders))
		if interval < cfg.MinPurchaseIntervalDays {
			interval = cfg.MinPurchaseIntervalDays
		}
		base = math.Min(1/interval, cfg.BaselineProbabilityCap)
	}

	daysSinceLast, hasLast := c.DaysSinceLastOrder(now)

	p := base
	p *= recencyFactor(daysSinceLast, hasLast)
	p *= dayOfWeekFactor(cfg, now)
	p *= budgetCycleFactor(cfg, now)
	p *= interpolatedFactor(c.Satisfaction, cfg.SatisfactionLowThreshold, cfg.SatisfactionHighThreshold,
		cfg.SatisfactionPenaltyFactor, cfg.SatisfactionBoostFactor)
	p *= interpolatedFactor(c.PurchaseIntent, cfg.ImpulsePurchaseThreshold, cfg.PlannedPurchaseThreshold,
		cfg.ImpulseOnlyFactor, cfg.PlannedPurchaseFactor)
	p *= seasonalFactor(cfg, now)
	p *= cfg.EconomicSentimentFactor
	p *= priceSensitivityFactor(cfg, c.PriceSensitivity)
	p *= brandLoyaltyFactor(cfg, c.BrandLoyalty)
	if c.DaysSinceNegativeExp < cfg.NegativeExperienceWindowDays {
		p *= cfg.NegativeExperiencePenaltyFactor
	}
	p *= e.interestFactor(daysSinceLast, hasLast)

	ceiling := cfg.BaselineProbabilityCap
	if cfg.InCampaign(now) {
		p *= 1 + (c.CampaignImpactFactor-1)*cfg.CampaignAggressiveness
		p *= urgencyFactor(cfg, now)
		p *= reactivationFactor(cfg, c.Lifecycle)
		if containsInt(cfg.PromoDays, now.Day()) {
			p *= cfg.PromoDayBoost
		}
		ceiling = cfg.CampaignProbabilityCap
	}

	return math.Min(p, ceiling)
}

// Decide performs the enhanced purchase decision: probability, final
// safeguards, one weighted coin flip. A false outcome is terminal for the
// customer for the day.
func (e *Engine) Decide(c *customer.Customer, historicalDays int, now time.Time) bool {
	p := e.OrderProbability(c, historicalDays, now)

	if days, ok := c.DaysSinceLastOrder(now); ok && days < e.cfg.RepeatPurchaseRejectDays {
		if e.rng.Float64() < e.cfg.RepeatPurchaseRejectChance {
			return false
		}
	}
	if c.Satisfaction < e.cfg.LowSatisfactionRejectThreshold {
		if e.rng.Float64() < e.cfg.LowSatisfactionRejectChance {
			return false
		}
	}

	return e.rng.Float64() <= p
}

// recencyFactor cools purchases down right after an order and releases the
// brake over a month.
func recencyFactor(daysSinceLast int, hasHistory bool) float64 {
	if !hasHistory {
		return 1.0
	}
	switch {
	case daysSinceLast < 3:
		return 0.05
	case daysSinceLast < 7:
		return 0.2
	case daysSinceLast < 14:
		return 0.5
	case daysSinceLast < 30:
		return 0.8
	default:
		return 1.0
	}
}

func dayOfWeekFactor(cfg campaign.Config, now time.Time) float64 {
	switch now.Weekday() {
	case time.Friday:
		return cfg.FridayBoost
	case time.Saturday, time.Sunday:
		return cfg.WeekendImpulseBoost
	case time.Monday:
		return cfg.MondayDip
	default:
		return 1.0
	}
}

func budgetCycleFactor(cfg campaign.Config, now time.Time) float64 {
	if containsInt(cfg.PaydayBoostDays, now.Day()) {
		return cfg.PaydayBoost
	}
	if now.Day() >= cfg.EndOfMonthDay {
		return cfg.EndOfMonthFactor
	}
	return 1.0
}

// interpolatedFactor maps a [0,1] score onto a multiplier: the penalty
// value below the low threshold, the boost value above the high threshold,
// linear in between.
func interpolatedFactor(score, low, high, penalty, boost float64) float64 {
	switch {
	case score < low:
		return penalty
	case score > high:
		return boost
	case high == low:
		return boost
	default:
		return penalty + (score-low)/(high-low)*(boost-penalty)
	}
}

func seasonalFactor(cfg campaign.Config, now time.Time) float64 {
	month := int(now.Month())
	if containsInt(cfg.SeasonalBoostMonths, month) {
		return cfg.SeasonalBoostFactor
	}
	if containsInt(cfg.SeasonalLowMonths, month) {
		return cfg.SeasonalLowFactor
	}
	return 1.0
}

func priceSensitivityFactor(cfg campaign.Config, sensitivity float64) float64 {
	if sensitivity > cfg.HighPriceSensitivityThreshold {
		return cfg.PriceSensitiveReductionFactor
	}
	if sensitivity < cfg.LowPriceSensitivityThreshold {
		return cfg.PriceInsensitiveBoostFactor
	}
	return 1.0
}

func brandLoyaltyFactor(cfg campaign.Config, loyalty float64) float64 {
	if loyalty > cfg.HighBrandLoyaltyThreshold {
		return cfg.BrandLoyaltyBoostFactor
	}
	if loyalty < cfg.LowBrandLoyaltyThreshold {
		return cfg.LowLoyaltyReductionFactor
	}
	return 1.0
}

// interestFactor models the tug between stumbling onto something new and
// gradually losing interest in the assortment.
func (e *Engine) interestFactor(daysSinceLast int, hasHistory bool) float64 {
	if e.rng.Float64() < e.cfg.ProductDiscoveryChance {
		return 1 + e.cfg.ProductDiscoveryBoost
	}
	if !hasHistory {
		return 1.0
	}
	decline := 1 - e.cfg.ProductInterestDeclineRate*float64(daysSinceLast)
	return math.Max(e.cfg.MinInterestFactor, decline)
}

func urgencyFactor(cfg campaign.Config, now time.Time) float64 {
	remaining := int(cfg.CampaignEnd.Sub(now).Hours() / 24)
	switch {
	case remaining <= 7:
		return cfg.UrgencyFinalWeekBoost
	case remaining <= 30:
		return cfg.UrgencyFinalMonthBoost
	default:
		return 1.0
	}
}

func reactivationFactor(cfg campaign.Config, state customer.LifecycleState) float64 {
	switch state {
	case customer.LifecycleDormant:
		return cfg.ReactivationDormant
	case customer.LifecycleAtRisk:
		return cfg.ReactivationAtRisk
	default:
		return 1.0
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
