// Package catalog provides the read-only product catalog consumed by the
// order generator: price-by-name lookup, frequency-weighted random
// selection, and the global preference ranking used for customers with no
// purchase history.
//
// The catalog is loaded once at startup and shared for the whole run. A
// missing catalog or an unresolvable product is always an error; there is
// no fallback pricing.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
)

var (
	ErrEmptyCatalog    = errors.New("catalog has no valid products")
	ErrProductNotFound = errors.New("product not found in catalog")
)

// Product is one catalog entry derived from historical order analysis.
type Product struct {
	Name            string  `json:"name"`
	Frequency       float64 `json:"frequency"`
	PreferenceScore float64 `json:"preference_score"`
	AvgQuantity     float64 `json:"avg_quantity"`
	AvgPrice        float64 `json:"avg_price"`
	Category        string  `json:"category"`
}

// Catalog is an immutable product lookup. Safe for shared read-only use.
type Catalog struct {
	products  []Product
	byName    map[string]*Product
	totalFreq float64
}

// New builds a catalog from product entries, dropping entries with no
// recorded price or frequency (they cannot participate in generation).
func New(products []Product) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]*Product)}
	for _, p := range products {
		if p.Frequency <= 0 || p.AvgPrice <= 0 {
			continue
		}
		c.products = append(c.products, p)
		c.totalFreq += p.Frequency
	}
	if len(c.products) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i := range c.products {
		c.byName[c.products[i].Name] = &c.products[i]
	}
	return c, nil
}

// Load reads a catalog JSON file produced by the historical-order analysis.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(products)
}

// Len returns the number of usable products.
func (c *Catalog) Len() int { return len(c.products) }

// Products returns the catalog entries ordered by descending frequency as
// loaded. Callers must not mutate the returned slice.
func (c *Catalog) Products() []Product { return c.products }

// Price returns the average unit price for a product by exact name.
func (c *Catalog) Price(name string) (float64, error) {
	p, ok := c.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}
	return p.AvgPrice, nil
}

// Lookup returns the full catalog entry for a product by exact name.
func (c *Catalog) Lookup(name string) (Product, error) {
	p, ok := c.byName[name]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}
	return *p, nil
}

// RandomProduct draws one product weighted by historical frequency.
func (c *Catalog) RandomProduct(rng *rand.Rand) Product {
	target := rng.Float64() * c.totalFreq
	for i := range c.products {
		target -= c.products[i].Frequency
		if target <= 0 {
			return c.products[i]
		}
	}
	return c.products[len(c.products)-1]
}

// TypicalItemsPerOrder estimates items per order across the whole catalog,
// used when a customer has no history of their own.
func (c *Catalog) TypicalItemsPerOrder() float64 {
	return c.totalFreq / float64(len(c.products))
}
