package sim

import "github.com/maxxxara/meama-simulation/internal/customer"

// CustomerOutcome is one customer's final run-level summary.
type CustomerOutcome struct {
	ID               int64
	Email            string
	ImpactFactor     float64
	PrizeWins        []string
	Tickets          int
	Lifecycle        customer.LifecycleState
	OrdersThisRun    int
	CampaignSpending float64
	IsNew            bool
	Churned          bool
}

// Results is the read-only snapshot handed to reporting collaborators.
type Results struct {
	TotalRevenue float64
	TotalOrders  int
	NewCustomers int
	Days         []DailyMetrics
	Customers    []CustomerOutcome
}

// Results captures the run's aggregates. The returned value shares nothing
// mutable with the simulation.
func (s *Sim) Results() Results {
	r := Results{
		TotalRevenue: s.revenue,
		TotalOrders:  s.orderCount,
		NewCustomers: s.newCustomers,
		Days:         append([]DailyMetrics(nil), s.series...),
	}
	for _, a := range s.agents {
		c := a.Customer
		r.Customers = append(r.Customers, CustomerOutcome{
			ID:               c.ID,
			Email:            c.Email,
			ImpactFactor:     c.CampaignImpactFactor,
			PrizeWins:        append([]string(nil), c.PrizeWins...),
			Tickets:          c.TicketsCount,
			Lifecycle:        c.Lifecycle,
			OrdersThisRun:    c.NewOrderCount,
			CampaignSpending: c.CampaignSpending,
			IsNew:            c.IsNewCustomer,
			Churned:          c.IsChurned,
		})
	}
	return r
}

// Roster exposes the final customer records for persistence. Callers must
// treat the records as read-only.
func (s *Sim) Roster() []*customer.Customer {
	return s.roster()
}
