package behavior

import (
	"github.com/maxxxara/meama-simulation/internal/customer"
)

// UpdateSatisfaction applies one day's satisfaction dynamics: steady decay,
// slow recovery once a negative experience is far enough in the past, a
// bump on purchase, and a hard penalty on a fresh negative experience.
// The score stays within [0,1].
func (e *Engine) UpdateSatisfaction(c *customer.Customer, daysPassed int, purchased, negativeEvent bool) {
	cfg := e.cfg

	s := c.Satisfaction
	s -= float64(daysPassed) * cfg.SatisfactionDecayRate

	if c.DaysSinceNegativeExp < 999 {
		c.DaysSinceNegativeExp += daysPassed
		if c.DaysSinceNegativeExp > cfg.NegativeRecoveryDelayDays {
			s += float64(daysPassed) * cfg.SatisfactionRecoveryRate
		}
	}

	if purchased {
		s += cfg.SatisfactionPurchaseBoost
	}
	if negativeEvent {
		s -= cfg.NegativeExperiencePenalty
		c.DaysSinceNegativeExp = 0
	}

	c.Satisfaction = customer.Clamp01(s)
}

// UpdatePurchaseIntent applies one day's intent dynamics: decay plus an
// occasional browsing boost. Browsing either happens explicitly (browsed)
// or by the daily random chance.
func (e *Engine) UpdatePurchaseIntent(c *customer.Customer, daysPassed int, browsed bool) {
	cfg := e.cfg

	intent := c.PurchaseIntent
	intent -= float64(daysPassed) * cfg.PurchaseIntentDecayRate

	if browsed || e.rng.Float64() < cfg.DailyBrowseChance {
		intent += cfg.PurchaseIntentBrowseBoost
	}

	c.PurchaseIntent = customer.Clamp01(intent)
}

// ResetIntentAfterPurchase drops intent right after a successful purchase.
// The urge is spent, but never below the post-purchase floor.
func (e *Engine) ResetIntentAfterPurchase(c *customer.Customer) {
	intent := c.PurchaseIntent - e.cfg.IntentPurchaseReset
	if intent < e.cfg.IntentPostPurchaseFloor {
		intent = e.cfg.IntentPostPurchaseFloor
	}
	c.PurchaseIntent = customer.Clamp01(intent)
}

// SimulateExperiences injects the day's random customer experiences:
// rare negative events, minor delights, and slow random walks on loyalty
// and price sensitivity. Returns whether a negative experience occurred so
// the satisfaction update can apply its penalty path.
func (e *Engine) SimulateExperiences(c *customer.Customer) (negativeEvent bool) {
	cfg := e.cfg

	if e.rng.Float64() < cfg.NegativeEventChance {
		negativeEvent = true
	}
	if e.rng.Float64() < cfg.PositiveEventChance {
		c.Satisfaction = customer.Clamp01(c.Satisfaction + cfg.PositiveEventBoost)
	}
	if e.rng.Float64() < cfg.LoyaltyDriftChance {
		step := cfg.LoyaltyDriftStep
		if e.rng.Float64() < 0.5 {
			step = -step
		}
		c.BrandLoyalty = customer.Clamp01(c.BrandLoyalty + step)
	}
	if e.rng.Float64() < cfg.SensitivityDriftChance {
		step := cfg.SensitivityDriftStep
		if e.rng.Float64() < 0.5 {
			step = -step
		}
		c.PriceSensitivity = customer.Clamp01(c.PriceSensitivity + step)
	}
	return negativeEvent
}
