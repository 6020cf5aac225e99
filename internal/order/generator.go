// Package order generates realistic orders from a customer's purchase
// history and the shared product catalog.
package order

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/maxxxara/meama-simulation/internal/campaign"
	"github.com/maxxxara/meama-simulation/internal/catalog"
	"github.com/maxxxara/meama-simulation/internal/customer"
)

// Generator produces orders whose aggregate value approximates a target
// informed by the customer's history and randomness.
type Generator struct {
	cfg campaign.Config
	cat *catalog.Catalog
	rng *rand.Rand
	seq int64
}

// NewGenerator creates a Generator over a loaded catalog.
func NewGenerator(cfg campaign.Config, cat *catalog.Catalog, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, cat: cat, rng: rng}
}

// preference is one product the customer has shown a habit for.
type preference struct {
	name        string
	frequency   float64
	score       float64
	avgQuantity float64
}

// preferences summarizes a customer's purchasing habits.
type preferences struct {
	preferred    []preference
	typicalItems float64
}

// Generate builds a new order for the customer dated on the current
// simulated day. An unresolvable product aborts the order; there is no
// fallback pricing.
func (g *Generator) Generate(c *customer.Customer, now time.Time) (customer.Order, error) {
	prefs := g.analyzePreferences(c.HistoricalOrders)

	target := g.targetOrderValue(c)

	lines, err := g.generateLines(prefs, target, now)
	if err != nil {
		return customer.Order{}, fmt.Errorf("generate order for customer %d: %w", c.ID, err)
	}

	var total float64
	for _, line := range lines {
		total += line.ProductPrice * float64(line.Quantity)
	}

	// Timestamp plus a monotonic suffix. The suffix never resets, so ids
	// stay unique across the run; one day spans 86.4M milliseconds, far
	// beyond any run's order count, so days cannot collide either.
	g.seq++
	id := now.UnixMilli() + g.seq

	return customer.Order{
		ID:         id,
		TotalSpent: math.Round(total*100) / 100,
		OrderDate:  now.Format(customer.OrderDateLayout),
		Lines:      lines,
	}, nil
}

// analyzePreferences ranks the products in the customer's history by
// purchase frequency and keeps the top max(3, 70%) as preferred. With no
// history the catalog's global frequency ranking stands in.
func (g *Generator) analyzePreferences(history []customer.Order) preferences {
	if len(history) == 0 {
		return g.defaultPreferences()
	}

	freq := make(map[string]float64)
	qty := make(map[string]float64)
	items := 0
	for _, o := range history {
		for _, line := range o.Lines {
			if line.ProductName == "" || line.ProductPrice <= 0 {
				continue
			}
			freq[line.ProductName]++
			qty[line.ProductName] += float64(line.Quantity)
			items++
		}
	}
	if len(freq) == 0 {
		return g.defaultPreferences()
	}

	names := make([]string, 0, len(freq))
	for name := range freq {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if freq[names[i]] != freq[names[j]] {
			return freq[names[i]] > freq[names[j]]
		}
		return names[i] < names[j]
	})

	// Summed in sorted order so runs are bit-identical for a fixed seed.
	var totalFreq float64
	for _, name := range names {
		totalFreq += freq[name]
	}

	keep := max(3, int(float64(len(names))*g.cfg.ProductPreferenceThreshold))
	if keep > len(names) {
		keep = len(names)
	}

	preferred := make([]preference, 0, keep)
	for _, name := range names[:keep] {
		preferred = append(preferred, preference{
			name:        name,
			frequency:   freq[name],
			score:       freq[name] / totalFreq,
			avgQuantity: qty[name] / freq[name],
		})
	}

	return preferences{
		preferred:    preferred,
		typicalItems: float64(items) / float64(len(history)),
	}
}

// defaultPreferences builds the preference profile of a customer we know
// nothing about from the catalog's global ranking.
func (g *Generator) defaultPreferences() preferences {
	products := g.cat.Products()
	preferred := make([]preference, 0, len(products))
	for _, p := range products {
		preferred = append(preferred, preference{
			name:        p.Name,
			frequency:   p.Frequency,
			score:       p.PreferenceScore,
			avgQuantity: p.AvgQuantity,
		})
	}
	return preferences{
		preferred:    preferred,
		typicalItems: g.cat.TypicalItemsPerOrder(),
	}
}

// targetOrderValue derives the value the order should land near. Campaign
// value effects are configured but currently disabled, so the multiplier
// stays at 1.0 and only the random jitter applies.
func (g *Generator) targetOrderValue(c *customer.Customer) float64 {
	base := g.cfg.DefaultNewCustomerOrderValue
	if c.AverageOrderValue > 0 && len(c.HistoricalOrders) > 0 {
		base = c.AverageOrderValue
	}

	jitter := g.cfg.ValueJitterLow + g.rng.Float64()*(g.cfg.ValueJitterHigh-g.cfg.ValueJitterLow)
	target := base * 1.0 * jitter

	return math.Max(target, g.cfg.MinimumOrderValue)
}

// generateLines fills the order line by line until the item count is
// reached or the remaining budget drops to the minimum order value.
func (g *Generator) generateLines(prefs preferences, target float64, now time.Time) ([]customer.OrderLine, error) {
	numItems := int(math.Max(1, prefs.typicalItems+g.rng.NormFloat64()*0.5))
	if numItems > g.cfg.MaximumItemsPerOrder {
		numItems = g.cfg.MaximumItemsPerOrder
	}

	var lines []customer.OrderLine
	remaining := target

	for i := 0; i < numItems; i++ {
		var (
			name    string
			baseQty int
			price   float64
			err     error
		)

		if len(prefs.preferred) > 0 && g.rng.Float64() < g.cfg.PreferredPickChance {
			pick := g.pickPreferred(prefs.preferred)
			name = pick.name
			baseQty = max(1, int(pick.avgQuantity))
			price, err = g.cat.Price(name)
			if err != nil {
				return nil, err
			}
		} else {
			p := g.cat.RandomProduct(g.rng)
			name = p.Name
			baseQty = 1
			price = p.AvgPrice
		}

		affordable := 1
		if price > 0 {
			affordable = max(1, int(remaining/price))
		}
		quantity := min(baseQty+g.rng.Intn(2), affordable)

		// Leave budget for the remaining lines.
		if i < numItems-1 && price > 0 {
			byBudget := int(remaining * g.cfg.MaxLineBudgetShare / price)
			quantity = min(quantity, max(1, byBudget))
		}

		lines = append(lines, customer.OrderLine{
			ProductName:  name,
			ProductPrice: price,
			Quantity:     quantity,
		})

		remaining -= price * float64(quantity)
		if remaining <= g.cfg.MinimumOrderValue {
			break
		}
	}

	return lines, nil
}

// pickPreferred draws one preferred product weighted by preference score.
func (g *Generator) pickPreferred(preferred []preference) preference {
	var total float64
	for _, p := range preferred {
		total += p.score
	}
	target := g.rng.Float64() * total
	for _, p := range preferred {
		target -= p.score
		if target <= 0 {
			return p
		}
	}
	return preferred[len(preferred)-1]
}
