package catalog

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
)

func TestLoadDropsUnusableProducts(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "catalog.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// The fixture carries five entries; one has zero frequency.
	if cat.Len() != 4 {
		t.Errorf("expected 4 usable products, got %d", cat.Len())
	}
	if _, err := cat.Price("legacy capsule"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("zero-frequency product should be dropped, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join("testdata", "nope.json")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestPriceAndLookup(t *testing.T) {
	cat, err := Load(filepath.Join("testdata", "catalog.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	price, err := cat.Price("espresso blend")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if price != 15.0 {
		t.Errorf("expected 15.0, got %v", price)
	}

	p, err := cat.Lookup("descaling kit")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.Category != "accessory" || p.AvgPrice != 22.0 {
		t.Errorf("unexpected product %+v", p)
	}

	if _, err := cat.Price("unknown roast"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestNewEmptyCatalog(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
	// All entries unusable counts as empty too.
	if _, err := New([]Product{{Name: "free sample", Frequency: 5, AvgPrice: 0}}); !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog for priceless products, got %v", err)
	}
}

func TestTypicalItemsPerOrder(t *testing.T) {
	cat, err := New([]Product{
		{Name: "common", Frequency: 9, AvgPrice: 10},
		{Name: "rare", Frequency: 3, AvgPrice: 10},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := cat.TypicalItemsPerOrder(); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
}

func TestRandomProductFrequencyWeighted(t *testing.T) {
	cat, err := New([]Product{
		{Name: "common", Frequency: 90, AvgPrice: 10},
		{Name: "rare", Frequency: 10, AvgPrice: 10},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rng := rand.New(rand.NewSource(17))
	counts := map[string]int{}
	const draws = 50000
	for i := 0; i < draws; i++ {
		counts[cat.RandomProduct(rng).Name]++
	}

	share := float64(counts["common"]) / draws
	if share < 0.87 || share > 0.93 {
		t.Errorf("common product drawn %.3f of the time, expected about 0.9", share)
	}
}
