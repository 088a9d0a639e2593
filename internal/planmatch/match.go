// Package planmatch compares a trader's pre-declared intentions against
// executed round-trips.
package planmatch

import (
	"math"

	"tradehabit/internal/config"
	"tradehabit/internal/models"
	"tradehabit/internal/symbols"
)

// Match pairs plans with executed trips: contracts must be equal exactly
// on (underlying, expiry, strike, kind), the side must match, and the
// entry price must fall within the configured tolerance. Each plan matches
// at most one trip and each trip satisfies at most one plan, earliest
// first.
func Match(plans []models.TradePlan, trips []models.RoundTrip, cfg config.PlanMatchConfig) []models.PlanMatch {
	var matches []models.PlanMatch
	taken := make(map[int]bool)

	for _, plan := range plans {
		planContract := symbols.Parse(plan.Symbol)
		for i := range trips {
			if taken[i] || trips[i].Entry.Side != plan.Side {
				continue
			}
			if !planContract.Equal(symbols.Parse(trips[i].Symbol)) {
				continue
			}
			diff := math.Abs(trips[i].Entry.Price - plan.EntryPrice)
			if !withinTolerance(diff, plan.EntryPrice, cfg.PriceTolerancePercent) {
				continue
			}
			taken[i] = true
			matches = append(matches, models.PlanMatch{
				Plan:      plan,
				TripIndex: i,
				PriceDiff: diff,
			})
			break
		}
	}

	return matches
}

// Apply copies each matched plan's stop and target onto its trip so the
// risk/reward tagging rules have a known stop distance to work with.
func Apply(matches []models.PlanMatch, trips []models.RoundTrip) {
	for _, m := range matches {
		if m.TripIndex < 0 || m.TripIndex >= len(trips) {
			continue
		}
		trips[m.TripIndex].StopLoss = m.Plan.StopLoss
		trips[m.TripIndex].Target = m.Plan.Target
	}
}

func withinTolerance(diff, reference, tolerancePercent float64) bool {
	if reference == 0 {
		return diff == 0
	}
	return diff <= math.Abs(reference)*tolerancePercent/100
}
