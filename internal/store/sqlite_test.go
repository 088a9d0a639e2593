package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehabit/internal/errors"
	"tradehabit/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTrade() models.Trade {
	return models.Trade{
		Date:     "2025-06-05",
		Time:     "09:16",
		Symbol:   "RELIANCE",
		Side:     models.SideBuy,
		Quantity: 100,
		Price:    2450.50,
		Charges:  12.40,
		FullQty:  100,
	}
}

func TestSaveExecutionIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trade := testTrade()

	inserted, err := store.SaveExecution(ctx, trade)
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same identity key again: no new row.
	inserted, err = store.SaveExecution(ctx, trade)
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := store.CountExecutions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	seen, err := store.HasExecution(ctx, trade)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestSaveExecutionDistinguishesIdentityKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := testTrade()
	variants := []models.Trade{base, base, base, base}
	variants[1].Price = 2451.00
	variants[2].Side = models.SideSell
	variants[3].Date = "2025-06-06"

	for _, v := range variants {
		inserted, err := store.SaveExecution(ctx, v)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	count, err := store.CountExecutions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestReportRoundTripPerSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	stats := models.EmptyStats()
	stats.Empty = false
	stats.NetPnL = 1234.56
	stats.TotalTrips = 3
	stats.ProfitFactor = models.Ratio(math.Inf(1)) // must survive the JSON column

	require.NoError(t, store.SaveReport(ctx, "default", stats))

	got, err := store.GetReport(ctx, "default")
	require.NoError(t, err)
	assert.InDelta(t, 1234.56, got.NetPnL, 1e-9)
	assert.Equal(t, 3, got.TotalTrips)
	assert.True(t, math.IsInf(float64(got.ProfitFactor), 1))

	// Sessions are isolated.
	_, err = store.GetReport(ctx, "other")
	assert.ErrorIs(t, err, errors.ErrReportNotFound)

	// Saving again overwrites.
	stats.NetPnL = -10
	require.NoError(t, store.SaveReport(ctx, "default", stats))
	got, err = store.GetReport(ctx, "default")
	require.NoError(t, err)
	assert.InDelta(t, -10.0, got.NetPnL, 1e-9)
}

func TestPlanLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plan := &models.TradePlan{
		ID:         "PLAN-1",
		Symbol:     "NIFTY25JUN24500CE",
		Side:       models.SideBuy,
		EntryPrice: 100,
		StopLoss:   95,
		Target:     115,
		Quantity:   75,
		Status:     models.PlanPending,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.SavePlan(ctx, plan))

	plans, err := store.GetPlans(ctx, PlanFilter{Status: models.PlanPending})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "PLAN-1", plans[0].ID)
	assert.Equal(t, models.SideBuy, plans[0].Side)
	assert.Equal(t, 95.0, plans[0].StopLoss)

	require.NoError(t, store.UpdatePlanStatus(ctx, "PLAN-1", models.PlanExecuted))

	plans, err = store.GetPlans(ctx, PlanFilter{Status: models.PlanPending})
	require.NoError(t, err)
	assert.Empty(t, plans)

	plans, err = store.GetPlans(ctx, PlanFilter{Status: models.PlanExecuted})
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	err = store.UpdatePlanStatus(ctx, "PLAN-404", models.PlanMissed)
	assert.ErrorIs(t, err, errors.ErrDataNotFound)
}

func TestGetPlansFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, symbol := range []string{"RELIANCE", "INFY", "RELIANCE"} {
		plan := &models.TradePlan{
			ID:         string(rune('A' + i)),
			Symbol:     symbol,
			Side:       models.SideBuy,
			EntryPrice: 100,
			Status:     models.PlanPending,
			CreatedAt:  time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.SavePlan(ctx, plan))
	}

	plans, err := store.GetPlans(ctx, PlanFilter{Symbol: "RELIANCE"})
	require.NoError(t, err)
	assert.Len(t, plans, 2)

	plans, err = store.GetPlans(ctx, PlanFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	// Newest first.
	assert.Equal(t, "C", plans[0].ID)
}
