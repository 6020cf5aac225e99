package behavior

import (
	"math"
	"time"

	"github.com/maxxxara/meama-simulation/internal/customer"
)

// ClassifyLifecycle recomputes a customer's lifecycle state from order
// recency, frequency, and value. This variant drives the per-day
// behavioral multiplier refresh.
//
// Priority: no history -> ACTIVE; stale beyond the dormant window ->
// DORMANT; stale and infrequent -> AT_RISK; valuable and frequent ->
// CHAMPION; otherwise ACTIVE. Idempotent for a fixed (history, date) pair.
func (e *Engine) ClassifyLifecycle(c *customer.Customer, now time.Time) customer.LifecycleState {
	cfg := e.cfg

	days, ok := c.DaysSinceLastOrder(now)
	if !ok {
		return customer.LifecycleActive
	}
	freq := c.MonthlyOrderFrequency(now)

	switch {
	case days > cfg.DormantDays:
		return customer.LifecycleDormant
	case days > cfg.AtRiskDays && freq < cfg.AtRiskMaxMonthlyFrequency:
		return customer.LifecycleAtRisk
	case c.AverageOrderValue > cfg.ChampionMinAvgValue && freq > cfg.ChampionMinMonthlyFreq:
		return customer.LifecycleChampion
	default:
		return customer.LifecycleActive
	}
}

// ClassifyLifecycleTrend is the stricter variant used for churn decisions.
// On top of the base classification it compares the most recent six months
// of orders against the six months before that, and flags a customer
// AT_RISK when recent activity has collapsed to under half of the prior
// window.
func (e *Engine) ClassifyLifecycleTrend(c *customer.Customer, now time.Time) customer.LifecycleState {
	state := e.ClassifyLifecycle(c, now)
	if state != customer.LifecycleActive && state != customer.LifecycleChampion {
		return state
	}

	recent, prior := 0, 0
	sixMonthsAgo := now.AddDate(0, -6, 0)
	twelveMonthsAgo := now.AddDate(0, -12, 0)
	for _, o := range c.HistoricalOrders {
		t, err := o.Date()
		if err != nil {
			continue
		}
		switch {
		case t.After(sixMonthsAgo):
			recent++
		case t.After(twelveMonthsAgo):
			prior++
		}
	}
	if prior >= 2 && recent*2 < prior {
		return customer.LifecycleAtRisk
	}
	return state
}

// ChurnProbability is the per-day probability that the customer silently
// leaves for good. Churned customers stop transacting for the rest of the
// run; there is no recovery path.
func (e *Engine) ChurnProbability(c *customer.Customer, now time.Time) float64 {
	cfg := e.cfg

	p := cfg.BaseChurnProbability
	switch e.ClassifyLifecycleTrend(c, now) {
	case customer.LifecycleChampion:
		p *= cfg.ChurnChampionMultiplier
	case customer.LifecycleAtRisk:
		p *= cfg.ChurnAtRiskMultiplier
	case customer.LifecycleDormant:
		p *= cfg.ChurnDormantMultiplier
	default:
		p *= cfg.ChurnActiveMultiplier
	}

	if days, ok := c.DaysSinceLastOrder(now); ok && days > cfg.ChurnInactivityDays {
		p *= 1 + float64(days)/365
	}

	// Over-marketed but unmoved customers burn out faster.
	if c.NewOrderCount > cfg.CampaignFatigueOrderCount && c.CampaignImpactFactor < cfg.CampaignFatigueImpactThreshold {
		p *= cfg.CampaignFatigueChurnMultiplier
	}

	return math.Min(p, cfg.MaxChurnProbability)
}

// DecideChurn draws the daily churn coin.
func (e *Engine) DecideChurn(c *customer.Customer, now time.Time) bool {
	return e.rng.Float64() < e.ChurnProbability(c, now)
}
