package tagging

import (
	"sort"

	"tradehabit/internal/models"
)

// Totals accumulates per-tag cost and profit across classified trips. Only
// the primary (first) tag of each trip contributes, so one trip never
// counts in more than one bucket.
func Totals(trips []models.RoundTrip) (demonCosts, goodGains []models.TagTotal) {
	costs := make(map[string]*models.TagTotal)
	gains := make(map[string]*models.TagTotal)

	for _, trip := range trips {
		if trip.IsBadTrade && len(trip.Demons) > 0 {
			accumulate(costs, trip.Demons[0], trip.PnL)
		}
		if trip.IsGoodTrade && len(trip.GoodPractices) > 0 {
			accumulate(gains, trip.GoodPractices[0], trip.PnL)
		}
	}

	return sortedTotals(costs), sortedTotals(gains)
}

func accumulate(m map[string]*models.TagTotal, tag string, pnl float64) {
	total, ok := m[tag]
	if !ok {
		total = &models.TagTotal{Tag: tag}
		m[tag] = total
	}
	total.Trades++
	total.Amount += pnl
}

func sortedTotals(m map[string]*models.TagTotal) []models.TagTotal {
	out := make([]models.TagTotal, 0, len(m))
	for _, t := range m {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trades != out[j].Trades {
			return out[i].Trades > out[j].Trades
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

// TopDemons returns the three most frequent demon tags with remediation
// text, padded with generic fillers when fewer than three distinct demons
// occurred.
func TopDemons(trips []models.RoundTrip) []models.DemonSuggestion {
	counts := make(map[string]int)
	for _, trip := range trips {
		for _, tag := range trip.Demons {
			counts[tag]++
		}
	}

	type freq struct {
		tag   string
		count int
	}
	ranked := make([]freq, 0, len(counts))
	for tag, count := range counts {
		ranked = append(ranked, freq{tag, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].tag < ranked[j].tag
	})

	top := make([]models.DemonSuggestion, 0, 3)
	for _, f := range ranked {
		if len(top) == 3 {
			break
		}
		top = append(top, models.DemonSuggestion{
			Tag:        f.tag,
			Count:      f.count,
			Suggestion: remediation[f.tag],
		})
	}
	for i := 0; len(top) < 3; i++ {
		top = append(top, models.DemonSuggestion{
			Suggestion: genericSuggestions[i%len(genericSuggestions)],
		})
	}
	return top
}
