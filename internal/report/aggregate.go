// Package report folds raw rows and tagged round-trips into the behavioral
// performance report.
//
// Two P&L bases are computed and both surfaced. The raw paired-symbol
// basis sums sell notional minus buy notional minus full per-row charges
// for every symbol holding at least one buy and one sell row; it is the
// authoritative headline figure because it is insensitive to pairing-order
// assumptions. The round-trip basis feeds everything needing a per-trade
// decomposition. Their difference is exposed as a diagnostic instead of
// being hidden.
package report

import (
	"math"
	"sort"

	"tradehabit/internal/models"
	"tradehabit/internal/tagging"
)

// Build computes the full Stats report. Raw trades are the normalizer's
// output before pairing; trips must already be tagged. An input producing
// no round-trips yields a well-formed report with the empty flag set, not
// an error.
func Build(trades []models.Trade, trips []models.RoundTrip, open []models.OpenPosition, warnings []models.Warning) *models.Stats {
	stats := models.EmptyStats()
	stats.Warnings = warnings
	if open != nil {
		stats.OpenPositions = open
	}

	stats.ScripSummary = scripSummary(trades)
	for _, row := range stats.ScripSummary {
		stats.NetPnL += row.NetPnL
	}

	if len(trips) == 0 {
		return stats
	}

	stats.Empty = false
	stats.RoundTrips = trips
	stats.TotalTrips = len(trips)

	var badTrades int
	dayPnL := make(map[string]float64)
	for _, trip := range trips {
		stats.RoundTripPnL += trip.PnL
		dayPnL[trip.Exit.Date] += trip.PnL
		switch {
		case trip.PnL > 0:
			stats.Wins++
			stats.GrossProfit += trip.PnL
		case trip.PnL < 0:
			stats.Losses++
			stats.GrossLoss += -trip.PnL
		}
		if trip.IsBadTrade {
			badTrades++
		}
	}

	stats.BasisGap = stats.NetPnL - stats.RoundTripPnL
	stats.WinRate = 100 * float64(stats.Wins) / float64(stats.TotalTrips)
	stats.DayWinRate = dayWinRate(dayPnL)
	if stats.Wins > 0 {
		stats.AvgWin = stats.GrossProfit / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AvgLoss = stats.GrossLoss / float64(stats.Losses)
	}
	stats.ProfitFactor = profitFactor(stats.GrossProfit, stats.GrossLoss)

	// Discipline score: the win rate averaged with the share of trips that
	// avoided a bad classification.
	cleanShare := 100 * float64(stats.TotalTrips-badTrades) / float64(stats.TotalTrips)
	stats.Score = (stats.WinRate + cleanShare) / 2

	stats.DemonCosts, stats.GoodGains = tagging.Totals(trips)
	stats.TopDemons = tagging.TopDemons(trips)

	return stats
}

// profitFactor is gross profit over gross loss: +Inf with profit and zero
// loss, 0 when both are zero.
func profitFactor(grossProfit, grossLoss float64) models.Ratio {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return models.Ratio(math.Inf(1))
		}
		return 0
	}
	return models.Ratio(grossProfit / grossLoss)
}

// dayWinRate is the percentage of trading days whose summed trip P&L was
// positive.
func dayWinRate(dayPnL map[string]float64) float64 {
	if len(dayPnL) == 0 {
		return 0
	}
	var winDays int
	for _, pnl := range dayPnL {
		if pnl > 0 {
			winDays++
		}
	}
	return 100 * float64(winDays) / float64(len(dayPnL))
}

// scripSummary builds the per-symbol ledger directly from raw rows. A
// symbol with trades on only one side never enters: that is an open
// position, not a realized trade. Values use each row's own price basis
// and full (un-prorated) charges.
func scripSummary(trades []models.Trade) []models.ScripSummaryRow {
	rows := make(map[string]*models.ScripSummaryRow)
	for _, t := range trades {
		row, ok := rows[t.Symbol]
		if !ok {
			row = &models.ScripSummaryRow{Symbol: t.Symbol}
			rows[t.Symbol] = row
		}
		switch t.Side {
		case models.SideBuy:
			row.BuyQty += t.FullQty
			row.BuyValue += t.RawPrice() * float64(t.FullQty)
		case models.SideSell:
			row.SellQty += t.FullQty
			row.SellValue += t.RawPrice() * float64(t.FullQty)
		}
		row.Charges += t.Charges
	}

	out := make([]models.ScripSummaryRow, 0, len(rows))
	for _, row := range rows {
		if row.BuyQty == 0 || row.SellQty == 0 {
			continue
		}
		row.NetPnL = row.SellValue - row.BuyValue - row.Charges
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
