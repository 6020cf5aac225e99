package behavior

import (
	"math"
	"time"
)

// CampaignImpactFactor evolves a customer's impact factor from campaign
// engagement: square-root diminishing returns on order count, fatigue past
// a configured order count, bounded into [1, max]. Returns exactly 1.0
// when campaign effects are disabled or the date is outside the window.
func (e *Engine) CampaignImpactFactor(current float64, campaignOrders int, now time.Time) float64 {
	cfg := e.cfg
	if !cfg.EnableCampaignEffects || !cfg.InCampaign(now) {
		return 1.0
	}

	boost := math.Sqrt(float64(campaignOrders)) * cfg.CampaignEngagementMultiplier
	factor := current + boost

	if campaignOrders > cfg.ImpactFatigueOrderCount {
		fatigue := 1 - float64(campaignOrders-cfg.ImpactFatigueOrderCount)*cfg.ImpactFatigueStep
		factor *= math.Max(cfg.ImpactFatigueFloor, fatigue)
	}

	if factor < 1.0 {
		return 1.0
	}
	return math.Min(factor, cfg.MaxCampaignImpactFactor)
}
