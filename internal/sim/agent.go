package sim

import (
	"time"

	"github.com/maxxxara/meama-simulation/internal/behavior"
	"github.com/maxxxara/meama-simulation/internal/customer"
	"github.com/maxxxara/meama-simulation/internal/order"
)

// Agent wraps one customer for daily stepping. The agent exclusively owns
// its customer's mutable state; results flow back to the driver through
// StepResult, never by reaching into driver internals.
type Agent struct {
	Customer *customer.Customer

	engine *behavior.Engine
	gen    *order.Generator
}

// StepResult reports what happened to one agent on one day.
type StepResult struct {
	Order   *customer.Order
	Churned bool
}

// NewAgent wraps a customer record for simulation.
func NewAgent(c *customer.Customer, engine *behavior.Engine, gen *order.Generator) *Agent {
	return &Agent{Customer: c, engine: engine, gen: gen}
}

// historicalDays is the observation window for the customer's base rate:
// days since the first order, floored at 30; a year for blank histories.
func (a *Agent) historicalDays(now time.Time) int {
	c := a.Customer
	for _, o := range c.HistoricalOrders {
		first, err := o.Date()
		if err != nil {
			continue
		}
		days := int(now.Sub(first).Hours() / 24)
		if days < 30 {
			days = 30
		}
		return days
	}
	return 365
}

// Step runs one simulated day for this agent: churn check, attribute and
// lifecycle refresh, impact evolution, purchase decision, and conditional
// order generation. An order-generation error aborts only this customer's
// order for the day.
func (a *Agent) Step(now time.Time) (StepResult, error) {
	c := a.Customer

	if a.engine.DecideChurn(c, now) {
		c.IsChurned = true
		return StepResult{Churned: true}, nil
	}

	negative := a.engine.SimulateExperiences(c)
	a.engine.UpdateSatisfaction(c, 1, false, negative)
	a.engine.UpdatePurchaseIntent(c, 1, false)
	c.Lifecycle = a.engine.ClassifyLifecycle(c, now)
	c.CampaignImpactFactor = a.engine.CampaignImpactFactor(c.CampaignImpactFactor, c.NewOrderCount, now)

	if !a.engine.Decide(c, a.historicalDays(now), now) {
		return StepResult{}, nil
	}

	o, err := a.gen.Generate(c, now)
	if err != nil {
		return StepResult{}, err
	}

	c.RecordOrder(o)
	a.engine.UpdateSatisfaction(c, 0, true, false)
	a.engine.ResetIntentAfterPurchase(c)

	return StepResult{Order: &o}, nil
}
