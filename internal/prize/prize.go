// Package prize implements the daily prize calendar and the
// ticket-weighted winner draw.
package prize

import (
	"errors"
	"math/rand"
	"time"

	"github.com/maxxxara/meama-simulation/internal/customer"
)

// ErrNoEligibleWinner is returned when no customer holds a ticket.
var ErrNoEligibleWinner = errors.New("no customers with tickets available for prize selection")

// Prize is the day's promotional prize. Ephemeral: computed from the
// calendar, applied to the winner, never persisted.
type Prize struct {
	Label                  string
	CampaignImpactIncrease float64
}

// DailyPrize returns the prize for a calendar date, or nil when no prize
// is drawn that day. Fixed-date grand prizes take priority over the
// weekday ladder; weekends have no draw.
func DailyPrize(date time.Time) *Prize {
	if date.Month() == time.October && date.Day() == 15 {
		return &Prize{Label: "BMW M4", CampaignImpactIncrease: 0.2}
	}
	if date.Month() == time.November && date.Day() == 30 {
		return &Prize{Label: "CyberTruck", CampaignImpactIncrease: 0.0}
	}

	switch date.Weekday() {
	case time.Monday:
		return &Prize{Label: "1000 GEL", CampaignImpactIncrease: 0.5}
	case time.Tuesday:
		return &Prize{Label: "1500 GEL", CampaignImpactIncrease: 0.5}
	case time.Wednesday:
		return &Prize{Label: "2000 GEL", CampaignImpactIncrease: 0.6}
	case time.Thursday:
		return &Prize{Label: "3000 GEL", CampaignImpactIncrease: 0.7}
	case time.Friday:
		return &Prize{Label: "3500 GEL", CampaignImpactIncrease: 0.7}
	default:
		return nil
	}
}

// PickWinner draws one customer weighted by ticket count: a customer
// holding k of the N outstanding tickets wins with probability k/N.
// Customers without tickets are not eligible.
func PickWinner(customers []*customer.Customer, rng *rand.Rand) (*customer.Customer, error) {
	total := 0
	for _, c := range customers {
		if c.TicketsCount > 0 {
			total += c.TicketsCount
		}
	}
	if total == 0 {
		return nil, ErrNoEligibleWinner
	}

	draw := rng.Intn(total)
	for _, c := range customers {
		if c.TicketsCount <= 0 {
			continue
		}
		draw -= c.TicketsCount
		if draw < 0 {
			return c, nil
		}
	}
	return nil, ErrNoEligibleWinner
}

// Award applies a prize to the winner: both the campaign impact factor and
// the has-won multiplier grow by the prize increment, and the label is
// appended to the winner's prize history.
func Award(winner *customer.Customer, p *Prize) {
	winner.CampaignImpactFactor += p.CampaignImpactIncrease
	winner.HasWonImpactFactor += p.CampaignImpactIncrease
	winner.PrizeWins = append(winner.PrizeWins, p.Label)
}
