// Package report renders the end-of-run summary for the terminal.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maxxxara/meama-simulation/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9CA3AF"))

	churnedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))
)

// Render formats a run summary: totals, the last simulated days, and the
// customers who engaged most with the campaign.
func Render(r sim.Results) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Campaign simulation results"))
	b.WriteString("\n")

	totals := fmt.Sprintf("%s %s   %s %s   %s %s",
		labelStyle.Render("Revenue:"), valueStyle.Render(fmt.Sprintf("%.2f", r.TotalRevenue)),
		labelStyle.Render("Orders:"), valueStyle.Render(fmt.Sprintf("%d", r.TotalOrders)),
		labelStyle.Render("New customers:"), valueStyle.Render(fmt.Sprintf("%d", r.NewCustomers)),
	)
	b.WriteString(panelStyle.Render(totals))
	b.WriteString("\n")

	b.WriteString(renderDailyTail(r, 7))
	b.WriteString("\n")
	b.WriteString(renderTopCustomers(r, 10))

	return b.String()
}

func renderDailyTail(r sim.Results, n int) string {
	days := r.Days
	if len(days) > n {
		days = days[len(days)-n:]
	}

	var rows []string
	rows = append(rows, headerStyle.Render(fmt.Sprintf("%-12s %12s %8s %8s", "date", "revenue", "orders", "new")))
	for _, d := range days {
		rows = append(rows, fmt.Sprintf("%-12s %12.2f %8d %8d",
			d.Date.Format("2006-01-02"), d.Revenue, d.OrderCount, d.NewCustomers))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func renderTopCustomers(r sim.Results, n int) string {
	customers := append([]sim.CustomerOutcome(nil), r.Customers...)
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CampaignSpending > customers[j].CampaignSpending
	})
	if len(customers) > n {
		customers = customers[:n]
	}

	var rows []string
	rows = append(rows, headerStyle.Render(fmt.Sprintf("%-8s %-10s %8s %8s %7s %8s  %s",
		"id", "state", "orders", "spent", "impact", "tickets", "prizes")))
	for _, c := range customers {
		row := fmt.Sprintf("%-8d %-10s %8d %8.2f %7.2f %8d  %s",
			c.ID, c.Lifecycle, c.OrdersThisRun, c.CampaignSpending, c.ImpactFactor,
			c.Tickets, strings.Join(c.PrizeWins, ", "))
		if c.Churned {
			row = churnedStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}
