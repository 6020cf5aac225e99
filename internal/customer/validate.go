package customer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ValidationError reports a malformed field in a loaded customer record.
type ValidationError struct {
	CustomerID int64
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("customer %d: field %q: %s", e.CustomerID, e.Field, e.Reason)
}

// Validate checks a customer record loaded from external input. Out-of-range
// values are rejected, never silently coerced.
func (c *Customer) Validate() error {
	check := func(field, reason string) error {
		return &ValidationError{CustomerID: c.ID, Field: field, Reason: reason}
	}
	if c.ID <= 0 {
		return check("id", "must be positive")
	}
	if c.Email == "" {
		return check("email", "must not be empty")
	}
	if c.HistoricalSpending < 0 {
		return check("historical_spending", "must not be negative")
	}
	if c.AverageOrderValue < 0 {
		return check("average_order_value", "must not be negative")
	}
	if c.TotalOrders < 0 {
		return check("total_orders", "must not be negative")
	}
	if c.TicketsCount < 0 {
		return check("tickets_count", "must not be negative")
	}
	for _, score := range []struct {
		name  string
		value float64
	}{
		{"satisfaction", c.Satisfaction},
		{"purchase_intent", c.PurchaseIntent},
		{"price_sensitivity", c.PriceSensitivity},
		{"brand_loyalty", c.BrandLoyalty},
	} {
		if score.value < 0 || score.value > 1 {
			return check(score.name, "must be in [0,1]")
		}
	}
	switch c.Lifecycle {
	case "", LifecycleActive, LifecycleChampion, LifecycleAtRisk, LifecycleDormant:
	default:
		return check("lifecycle_state", fmt.Sprintf("unknown state %q", c.Lifecycle))
	}
	for i, o := range c.HistoricalOrders {
		if o.TotalSpent < 0 {
			return check(fmt.Sprintf("historical_purchase_frequency[%d].total_spent", i), "must not be negative")
		}
		for j, line := range o.Lines {
			if line.Quantity < 1 {
				return check(fmt.Sprintf("historical_purchase_frequency[%d].order_lines[%d].quantity", i, j), "must be >= 1")
			}
		}
	}
	return nil
}

// LoadRoster reads and validates a customer roster from a JSON file.
func LoadRoster(path string) ([]*Customer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var customers []*Customer
	if err := json.Unmarshal(data, &customers); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	for _, c := range customers {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return customers, nil
}
