package planmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehabit/internal/config"
	"tradehabit/internal/models"
)

func matchConfig() config.PlanMatchConfig {
	return config.PlanMatchConfig{PriceTolerancePercent: 0.5}
}

func executedTrip(symbol string, side models.Side, entryPrice float64) models.RoundTrip {
	return models.RoundTrip{
		Symbol: symbol,
		Entry: models.Trade{
			Date: "2025-06-05", Time: "09:30", Symbol: symbol,
			Side: side, Quantity: 75, Price: entryPrice, FullQty: 75,
		},
		Quantity: 75,
	}
}

func TestMatchWithinPriceTolerance(t *testing.T) {
	plans := []models.TradePlan{{
		ID: "PLAN-1", Symbol: "NIFTY25JUN24500CE", Side: models.SideBuy,
		EntryPrice: 100, StopLoss: 95, Target: 115,
	}}
	trips := []models.RoundTrip{
		executedTrip("NIFTY25JUN24500CE", models.SideBuy, 100.40),
	}

	matches := Match(plans, trips, matchConfig())

	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].TripIndex)
	assert.InDelta(t, 0.40, matches[0].PriceDiff, 1e-9)
}

func TestMatchRejectsPriceOutsideTolerance(t *testing.T) {
	plans := []models.TradePlan{{
		ID: "PLAN-1", Symbol: "NIFTY25JUN24500CE", Side: models.SideBuy,
		EntryPrice: 100,
	}}
	trips := []models.RoundTrip{
		executedTrip("NIFTY25JUN24500CE", models.SideBuy, 101), // 1% off
	}

	assert.Empty(t, Match(plans, trips, matchConfig()))
}

func TestMatchRequiresSameContractAndSide(t *testing.T) {
	plans := []models.TradePlan{{
		ID: "PLAN-1", Symbol: "NIFTY25JUN24500CE", Side: models.SideBuy,
		EntryPrice: 100,
	}}

	wrongStrike := []models.RoundTrip{executedTrip("NIFTY25JUN24600CE", models.SideBuy, 100)}
	assert.Empty(t, Match(plans, wrongStrike, matchConfig()))

	wrongSide := []models.RoundTrip{executedTrip("NIFTY25JUN24500CE", models.SideSell, 100)}
	assert.Empty(t, Match(plans, wrongSide, matchConfig()))
}

func TestMatchAcrossDialects(t *testing.T) {
	// The plan uses the spaced contract-note form; the broker export uses
	// the compact monthly form normalized to the first of the month.
	plans := []models.TradePlan{{
		ID: "PLAN-1", Symbol: "NIFTY 1-Jun-2025 24500 CE", Side: models.SideBuy,
		EntryPrice: 100,
	}}
	trips := []models.RoundTrip{
		executedTrip("NIFTY25JUN24500CE", models.SideBuy, 100),
	}

	assert.Len(t, Match(plans, trips, matchConfig()), 1)
}

func TestMatchIsOneToOne(t *testing.T) {
	plans := []models.TradePlan{
		{ID: "PLAN-1", Symbol: "RELIANCE", Side: models.SideBuy, EntryPrice: 100},
		{ID: "PLAN-2", Symbol: "RELIANCE", Side: models.SideBuy, EntryPrice: 100},
	}
	trips := []models.RoundTrip{
		executedTrip("RELIANCE", models.SideBuy, 100),
	}

	matches := Match(plans, trips, matchConfig())

	require.Len(t, matches, 1)
	assert.Equal(t, "PLAN-1", matches[0].Plan.ID)
}

func TestApplyCopiesStopAndTarget(t *testing.T) {
	plans := []models.TradePlan{{
		ID: "PLAN-1", Symbol: "RELIANCE", Side: models.SideBuy,
		EntryPrice: 100, StopLoss: 95, Target: 112,
	}}
	trips := []models.RoundTrip{
		executedTrip("RELIANCE", models.SideBuy, 100),
		executedTrip("RELIANCE", models.SideBuy, 100),
	}

	matches := Match(plans, trips, matchConfig())
	Apply(matches, trips)

	assert.Equal(t, 95.0, trips[0].StopLoss)
	assert.Equal(t, 112.0, trips[0].Target)
	assert.Zero(t, trips[1].StopLoss)
}
