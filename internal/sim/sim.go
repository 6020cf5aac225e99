// Package sim stitches together the prize engine, customer agents, and the
// acquisition engine into the daily simulation loop.
//
// Everything is single-threaded and strictly sequential: one simulated day
// fully completes before the next begins, agents step in roster insertion
// order, and all randomness is drawn from the one injected source, so a
// fixed seed reproduces a run bit for bit.
package sim

import (
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/maxxxara/meama-simulation/internal/acquisition"
	"github.com/maxxxara/meama-simulation/internal/behavior"
	"github.com/maxxxara/meama-simulation/internal/campaign"
	"github.com/maxxxara/meama-simulation/internal/catalog"
	"github.com/maxxxara/meama-simulation/internal/customer"
	"github.com/maxxxara/meama-simulation/internal/order"
	"github.com/maxxxara/meama-simulation/internal/prize"
)

// DailyMetrics is one day's aggregate snapshot. Revenue, order, and
// customer counts are cumulative over the run.
type DailyMetrics struct {
	Date         time.Time `json:"date"`
	NewCustomers int       `json:"new_customers_count"`
	Revenue      float64   `json:"generated_revenue"`
	OrderCount   int       `json:"received_orders_count"`
}

// Sim owns the customer roster and all aggregate counters for one run.
type Sim struct {
	cfg campaign.Config
	rng *rand.Rand

	engine *behavior.Engine
	gen    *order.Generator
	acq    *acquisition.Engine

	agents  []*Agent
	current time.Time
	nextID  int64

	revenue      float64
	orderCount   int
	newCustomers int
	series       []DailyMetrics
}

// New builds a simulation over a loaded roster and catalog. The roster
// order fixes the agent iteration order for the whole run.
func New(cfg campaign.Config, cat *catalog.Catalog, customers []*customer.Customer, rng *rand.Rand) *Sim {
	engine := behavior.NewEngine(cfg, rng)
	gen := order.NewGenerator(cfg, cat, rng)

	s := &Sim{
		cfg:     cfg,
		rng:     rng,
		engine:  engine,
		gen:     gen,
		acq:     acquisition.NewEngine(cfg, gen, rng),
		current: cfg.CampaignStart,
		nextID:  1,
	}

	for _, c := range customers {
		s.normalize(c)
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
		s.agents = append(s.agents, NewAgent(c, engine, gen))
	}
	return s
}

// normalize seeds run-scoped state on records loaded from legacy rosters
// that predate the behavioral fields.
func (s *Sim) normalize(c *customer.Customer) {
	if c.Satisfaction == 0 && c.PurchaseIntent == 0 && c.BrandLoyalty == 0 {
		c.Satisfaction = s.cfg.InitialSatisfaction
		c.PurchaseIntent = s.cfg.InitialPurchaseIntent
		c.PriceSensitivity = s.cfg.InitialPriceSensitivity
		c.BrandLoyalty = s.cfg.InitialBrandLoyalty
		c.DaysSinceNegativeExp = 999
	}
	if c.Lifecycle == "" {
		c.Lifecycle = customer.LifecycleActive
	}
	if c.CampaignImpactFactor == 0 {
		c.CampaignImpactFactor = s.cfg.BaseCampaignImpactFactor
	}
	if c.HasWonImpactFactor == 0 {
		c.HasWonImpactFactor = 1.0
	}
}

func (s *Sim) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// CurrentDate returns the day the next Step will simulate.
func (s *Sim) CurrentDate() time.Time { return s.current }

// Done reports whether the run has passed the campaign end.
func (s *Sim) Done() bool { return s.current.After(s.cfg.CampaignEnd) }

// Step simulates one day: prize award, per-agent stepping in roster order,
// acquisition, aggregate bookkeeping, clock advance. Returns false once
// the campaign window has been fully simulated.
func (s *Sim) Step() bool {
	if s.Done() {
		return false
	}

	s.awardDailyPrize()

	for _, a := range s.agents {
		if a.Customer.IsChurned {
			continue
		}
		res, err := a.Step(s.current)
		if err != nil {
			// The customer skips ordering today; the day goes on.
			log.Printf("sim: customer %d: %v", a.Customer.ID, err)
			continue
		}
		if res.Order != nil {
			s.revenue += res.Order.TotalSpent
			s.orderCount++
		}
	}

	s.acquire()

	s.series = append(s.series, DailyMetrics{
		Date:         s.current,
		NewCustomers: s.newCustomers,
		Revenue:      s.revenue,
		OrderCount:   s.orderCount,
	})

	s.current = s.current.AddDate(0, 0, 1)
	return true
}

// Run simulates the entire campaign window. onDay, when non-nil, is called
// after each completed day.
func (s *Sim) Run(onDay func(DailyMetrics)) {
	for s.Step() {
		if onDay != nil {
			onDay(s.series[len(s.series)-1])
		}
	}
}

func (s *Sim) awardDailyPrize() {
	if !s.cfg.EnableCampaignEffects {
		return
	}
	p := prize.DailyPrize(s.current)
	if p == nil {
		return
	}
	winner, err := prize.PickWinner(s.roster(), s.rng)
	if err != nil {
		if errors.Is(err, prize.ErrNoEligibleWinner) {
			// Nobody holds a ticket yet; the prize is simply not drawn.
			return
		}
		log.Printf("sim: prize draw: %v", err)
		return
	}
	prize.Award(winner, p)
}

func (s *Sim) acquire() {
	metrics := &customer.CampaignEngagementMetrics{
		TotalOrders:     s.orderCount,
		ActiveCustomers: s.activeCustomers(),
	}
	acquired, err := s.acq.AcquireDaily(s.current, len(s.agents), s.allocID, metrics)
	if err != nil {
		log.Printf("sim: acquisition: %v", err)
	}
	for _, c := range acquired {
		s.agents = append(s.agents, NewAgent(c, s.engine, s.gen))
		s.newCustomers++
	}
}

// activeCustomers counts customers who placed at least one order this run.
func (s *Sim) activeCustomers() int {
	n := 0
	for _, a := range s.agents {
		if a.Customer.NewOrderCount > 0 {
			n++
		}
	}
	return n
}

func (s *Sim) roster() []*customer.Customer {
	customers := make([]*customer.Customer, len(s.agents))
	for i, a := range s.agents {
		customers[i] = a.Customer
	}
	return customers
}
