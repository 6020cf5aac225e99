// Command simulate runs the promotional-campaign customer simulation over
// a loaded roster and product catalog, prints a summary, and optionally
// persists the run to SQLite.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/maxxxara/meama-simulation/internal/campaign"
	"github.com/maxxxara/meama-simulation/internal/catalog"
	"github.com/maxxxara/meama-simulation/internal/customer"
	"github.com/maxxxara/meama-simulation/internal/report"
	"github.com/maxxxara/meama-simulation/internal/sim"
	"github.com/maxxxara/meama-simulation/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	configPath := flag.String("config", "", "JSON config override file (optional)")
	catalogPath := flag.String("catalog", "data/product_catalog.json", "product catalog JSON file")
	rosterPath := flag.String("customers", "data/customers.json", "customer roster JSON file")
	dbPath := flag.String("db", "", "SQLite file to persist the run into (optional)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed (fixed seed reproduces a run)")
	verbose := flag.Bool("v", false, "log daily aggregates")
	flag.Parse()

	cfg := campaign.DefaultConfig()
	if *configPath != "" {
		loaded, err := campaign.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	customers, err := customer.LoadRoster(*rosterPath)
	if err != nil {
		log.Fatalf("load roster: %v", err)
	}
	log.Printf("loaded %d customers, %d products, seed=%d", len(customers), cat.Len(), *seed)

	rng := rand.New(rand.NewSource(*seed))
	s := sim.New(cfg, cat, customers, rng)

	bar := progressbar.Default(int64(cfg.CampaignDays() + 1))
	s.Run(func(day sim.DailyMetrics) {
		bar.Add(1)
		if *verbose {
			log.Printf("%s revenue=%.2f orders=%d new=%d",
				day.Date.Format("2006-01-02"), day.Revenue, day.OrderCount, day.NewCustomers)
		}
	})

	results := s.Results()
	fmt.Println(report.Render(results))

	if *dbPath != "" {
		db, err := store.Open(*dbPath)
		if err != nil {
			log.Fatalf("open store: %v", err)
		}
		defer db.Close()

		runID, err := db.SaveRun(*seed, cfg.CampaignStart, cfg.CampaignEnd, results, s.Roster())
		if err != nil {
			log.Fatalf("save run: %v", err)
		}
		log.Printf("run saved as %s", runID)
	}
}
