// Package acquisition decides how many new customers join the roster each
// day and mints their initial records.
package acquisition

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/maxxxara/meama-simulation/internal/campaign"
	"github.com/maxxxara/meama-simulation/internal/customer"
	"github.com/maxxxara/meama-simulation/internal/order"
)

// Engine runs the daily acquisition trials. New customer ids come from the
// caller-supplied allocator so they never collide with the existing roster.
type Engine struct {
	cfg campaign.Config
	gen *order.Generator
	rng *rand.Rand
}

// NewEngine creates an acquisition Engine.
func NewEngine(cfg campaign.Config, gen *order.Generator, rng *rand.Rand) *Engine {
	return &Engine{cfg: cfg, gen: gen, rng: rng}
}

// AcquireDaily returns the customers acquired on the given day.
//
// With campaign effects disabled only a single baseline-rate trial runs and
// the acquired customer starts cold: empty history, zero tickets, no
// immediate order. With effects enabled the acquired customers place an
// immediate first order; inside the campaign window up to MaxCustomersPerDay
// independent trials run (every trial happens regardless of earlier
// failures), with an occasional weekend bonus batch on top.
func (e *Engine) AcquireDaily(now time.Time, existingCount int, nextID func() int64, metrics *customer.CampaignEngagementMetrics) ([]*customer.Customer, error) {
	if !e.cfg.EnableCampaignEffects {
		if e.rng.Float64() <= e.cfg.AcquisitionBaselineRate {
			return []*customer.Customer{e.mintCustomer(nextID(), now, 0)}, nil
		}
		return nil, nil
	}

	if !e.cfg.InCampaign(now) {
		if e.rng.Float64() <= e.cfg.AcquisitionBaselineRate {
			c := e.mintCustomer(nextID(), now, 1)
			if err := e.placeFirstOrder(c, now); err != nil {
				return nil, err
			}
			return []*customer.Customer{c}, nil
		}
		return nil, nil
	}

	p := e.acquisitionProbability(now, existingCount, metrics)

	count := 0
	for trial := 0; trial < e.cfg.MaxCustomersPerDay; trial++ {
		if e.rng.Float64() <= p {
			count++
		}
	}

	weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday
	if weekend && e.rng.Float64() < e.cfg.BonusAcquisitionChance {
		count += e.rng.Intn(e.cfg.BonusAcquisitionMax) + 1
	}

	acquired := make([]*customer.Customer, 0, count)
	for i := 0; i < count; i++ {
		c := e.mintCustomer(nextID(), now, 1)
		if err := e.placeFirstOrder(c, now); err != nil {
			return acquired, err
		}
		acquired = append(acquired, c)
	}
	return acquired, nil
}

// acquisitionProbability combines campaign timing, word of mouth, market
// saturation, and the weekend factor into one per-trial probability.
func (e *Engine) acquisitionProbability(now time.Time, existingCount int, metrics *customer.CampaignEngagementMetrics) float64 {
	cfg := e.cfg

	duration := float64(cfg.CampaignDays())
	if duration < 1 {
		duration = 1
	}
	progress := math.Min(now.Sub(cfg.CampaignStart).Hours()/24/duration, 1.0)

	timing := 1.0
	if progress < cfg.EarlyCampaignThreshold {
		timing = cfg.EarlyCampaignBoost
	} else if progress > cfg.LateCampaignThreshold {
		timing = cfg.LateCampaignBoost
	}

	wordOfMouth := 1.0
	if metrics != nil && metrics.TotalOrders > 0 && metrics.ActiveCustomers > 0 {
		engagement := math.Min(float64(metrics.TotalOrders)/float64(metrics.ActiveCustomers), cfg.WordOfMouthMaxEngagement)
		wordOfMouth = 1 + engagement*cfg.WordOfMouthMultiplier
	}

	saturation := math.Max(cfg.SaturationMinFactor, 1-float64(existingCount)/float64(cfg.MaxCustomerLimit))

	weekend := 1.0
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		weekend = cfg.WeekendAcquisitionBoost
	}

	p := cfg.AcquisitionCampaignRate * timing * wordOfMouth * saturation * weekend
	return math.Min(p, cfg.MaxNewCustomerShare)
}

// mintCustomer creates a fresh customer record with the configured initial
// behavioral state.
func (e *Engine) mintCustomer(id int64, now time.Time, tickets int) *customer.Customer {
	return &customer.Customer{
		ID:                   id,
		Email:                fmt.Sprintf("newcustomer%d@example.com", id),
		CreatedAt:            now,
		Satisfaction:         e.cfg.InitialSatisfaction,
		PurchaseIntent:       e.cfg.InitialPurchaseIntent,
		PriceSensitivity:     e.cfg.InitialPriceSensitivity,
		BrandLoyalty:         e.cfg.InitialBrandLoyalty,
		DaysSinceNegativeExp: 999,
		Lifecycle:            customer.LifecycleActive,
		CampaignImpactFactor: e.cfg.BaseCampaignImpactFactor,
		HasWonImpactFactor:   1.0,
		TicketsCount:         tickets,
		IsNewCustomer:        true,
	}
}

func (e *Engine) placeFirstOrder(c *customer.Customer, now time.Time) error {
	o, err := e.gen.Generate(c, now)
	if err != nil {
		return err
	}
	c.HistoricalOrders = append(c.HistoricalOrders, o)
	c.HistoricalSpending += o.TotalSpent
	c.TotalOrders++
	c.AverageOrderValue = c.HistoricalSpending / float64(c.TotalOrders)
	return nil
}
