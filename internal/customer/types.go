// Package customer defines the records exchanged between the simulation
// core and its collaborators: customers, orders, and run-level engagement
// metrics.
package customer

import (
	"math"
	"time"
)

// OrderDateLayout is the canonical ISO-8601 form used for order dates.
const OrderDateLayout = "2006-01-02T15:04:05"

// OrderLine is a single product line in an order. Price may be zero only
// in historical records imported from legacy data; generated lines always
// carry a catalog-resolved price.
type OrderLine struct {
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
}

// Order is an immutable record of a placed order.
type Order struct {
	ID         int64       `json:"order_id"`
	TotalSpent float64     `json:"total_spent"`
	OrderDate  string      `json:"order_date"`
	Lines      []OrderLine `json:"order_lines"`
}

// Date parses the order date. Accepts both the canonical layout and plain
// calendar days found in legacy rosters.
func (o Order) Date() (time.Time, error) {
	if t, err := time.Parse(OrderDateLayout, o.OrderDate); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, o.OrderDate); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", o.OrderDate)
}

// LifecycleState classifies a customer's engagement trajectory.
type LifecycleState string

const (
	LifecycleActive   LifecycleState = "ACTIVE"
	LifecycleChampion LifecycleState = "CHAMPION"
	LifecycleAtRisk   LifecycleState = "AT_RISK"
	LifecycleDormant  LifecycleState = "DORMANT"
)

// Customer is the full per-agent record: identity, cumulative purchase
// stats, behavioral state, and campaign state. Bounded scores stay within
// [0,1]; AverageOrderValue == HistoricalSpending/TotalOrders whenever
// TotalOrders > 0.
type Customer struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`

	HistoricalOrders   []Order `json:"historical_purchase_frequency"`
	HistoricalSpending float64 `json:"historical_spending"`
	AverageOrderValue  float64 `json:"average_order_value"`
	TotalOrders        int     `json:"total_orders"`

	Satisfaction          float64        `json:"satisfaction"`
	PurchaseIntent        float64        `json:"purchase_intent"`
	PriceSensitivity      float64        `json:"price_sensitivity"`
	BrandLoyalty          float64        `json:"brand_loyalty"`
	DaysSinceNegativeExp  int            `json:"days_since_negative_experience"`
	Lifecycle             LifecycleState `json:"lifecycle_state"`

	CampaignImpactFactor float64  `json:"campaign_impact_factor"`
	HasWonImpactFactor   float64  `json:"has_won_impact_factor"`
	PrizeWins            []string `json:"prize_wins"`
	TicketsCount         int      `json:"tickets_count"`
	NewOrderCount        int      `json:"new_order_count"`
	CampaignSpending     float64  `json:"campaign_spending"`

	IsNewCustomer bool `json:"is_new_customer"`
	IsChurned     bool `json:"is_churned"`
}

// LastOrderDate returns the date of the most recent historical order, or
// false when the customer has no usable history.
func (c *Customer) LastOrderDate() (time.Time, bool) {
	for i := len(c.HistoricalOrders) - 1; i >= 0; i-- {
		if t, err := c.HistoricalOrders[i].Date(); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysSinceLastOrder returns whole days between the last order and now.
// Reports false when there is no order history.
func (c *Customer) DaysSinceLastOrder(now time.Time) (int, bool) {
	last, ok := c.LastOrderDate()
	if !ok {
		return 0, false
	}
	return int(now.Sub(last).Hours() / 24), true
}

// MonthlyOrderFrequency is orders per 30-day window since account creation.
func (c *Customer) MonthlyOrderFrequency(now time.Time) float64 {
	days := now.Sub(c.CreatedAt).Hours() / 24
	if days < 1 {
		days = 1
	}
	return float64(len(c.HistoricalOrders)) / days * 30
}

// RecordOrder appends a generated order and updates the cumulative stats,
// keeping the average-order-value invariant.
func (c *Customer) RecordOrder(o Order) {
	c.HistoricalOrders = append(c.HistoricalOrders, o)
	c.HistoricalSpending += o.TotalSpent
	c.TotalOrders++
	c.AverageOrderValue = c.HistoricalSpending / float64(c.TotalOrders)
	c.NewOrderCount++
	c.CampaignSpending += o.TotalSpent
	c.TicketsCount++
}

// CampaignEngagementMetrics is the run-scoped aggregate fed back into
// acquisition's word-of-mouth factor.
type CampaignEngagementMetrics struct {
	TotalOrders     int `json:"total_orders"`
	ActiveCustomers int `json:"active_customers"`
}

// Clamp01 bounds a score to [0,1].
func Clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
