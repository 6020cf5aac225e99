// Package store persists run outputs to SQLite for the reporting
// collaborators: the run record, the daily time series, and the final
// per-customer state.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/maxxxara/meama-simulation/internal/customer"
	"github.com/maxxxara/meama-simulation/internal/sim"
)

// Store writes simulation outputs to a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		campaign_start DATE NOT NULL,
		campaign_end DATE NOT NULL,
		total_revenue REAL NOT NULL,
		total_orders INTEGER NOT NULL,
		new_customers INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_metrics (
		run_id TEXT NOT NULL REFERENCES runs(id),
		date DATE NOT NULL,
		new_customers INTEGER NOT NULL,
		revenue REAL NOT NULL,
		order_count INTEGER NOT NULL,
		PRIMARY KEY (run_id, date)
	);

	CREATE TABLE IF NOT EXISTS customers (
		run_id TEXT NOT NULL REFERENCES runs(id),
		customer_id INTEGER NOT NULL,
		email TEXT NOT NULL,
		impact_factor REAL NOT NULL,
		prize_wins TEXT NOT NULL,
		tickets INTEGER NOT NULL,
		lifecycle TEXT NOT NULL,
		orders_this_run INTEGER NOT NULL,
		campaign_spending REAL NOT NULL,
		is_new INTEGER NOT NULL,
		churned INTEGER NOT NULL,
		PRIMARY KEY (run_id, customer_id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		run_id TEXT NOT NULL REFERENCES runs(id),
		order_id INTEGER NOT NULL,
		customer_id INTEGER NOT NULL,
		order_date TEXT NOT NULL,
		total_spent REAL NOT NULL,
		lines TEXT NOT NULL,
		PRIMARY KEY (run_id, order_id)
	);`
	_, err := s.db.Exec(schema)
	return err
}

// SaveRun writes one completed run. Returns the generated run id.
func (s *Store) SaveRun(seed int64, start, end time.Time, results sim.Results, roster []*customer.Customer) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, seed, started_at, campaign_start, campaign_end, total_revenue, total_orders, new_customers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seed, time.Now().UTC(), start.Format("2006-01-02"), end.Format("2006-01-02"),
		results.TotalRevenue, results.TotalOrders, results.NewCustomers,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, d := range results.Days {
		_, err = tx.Exec(
			`INSERT INTO daily_metrics (run_id, date, new_customers, revenue, order_count) VALUES (?, ?, ?, ?, ?)`,
			runID, d.Date.Format("2006-01-02"), d.NewCustomers, d.Revenue, d.OrderCount,
		)
		if err != nil {
			return "", fmt.Errorf("insert daily metrics: %w", err)
		}
	}

	for _, c := range results.Customers {
		wins, err := json.Marshal(c.PrizeWins)
		if err != nil {
			return "", fmt.Errorf("marshal prize wins: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO customers (run_id, customer_id, email, impact_factor, prize_wins, tickets, lifecycle, orders_this_run, campaign_spending, is_new, churned)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, c.ID, c.Email, c.ImpactFactor, string(wins), c.Tickets, string(c.Lifecycle),
			c.OrdersThisRun, c.CampaignSpending, c.IsNew, c.Churned,
		)
		if err != nil {
			return "", fmt.Errorf("insert customer %d: %w", c.ID, err)
		}
	}

	for _, c := range roster {
		// Only orders placed during this run belong to the run record. A
		// customer acquired during the run has no prior history at all.
		start := len(c.HistoricalOrders) - c.NewOrderCount
		if c.IsNewCustomer || start < 0 {
			start = 0
		}
		for _, o := range c.HistoricalOrders[start:] {
			lines, err := json.Marshal(o.Lines)
			if err != nil {
				return "", fmt.Errorf("marshal order lines: %w", err)
			}
			_, err = tx.Exec(
				`INSERT INTO orders (run_id, order_id, customer_id, order_date, total_spent, lines)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				runID, o.ID, c.ID, o.OrderDate, o.TotalSpent, string(lines),
			)
			if err != nil {
				return "", fmt.Errorf("insert order %d: %w", o.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}
