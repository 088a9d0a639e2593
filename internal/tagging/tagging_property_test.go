package tagging

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradehabit/internal/models"
)

// randomTrips builds a day of round-trips with random sides, sizes,
// outcomes, and occasional planned stops, in chronological order.
func randomTrips(n int, seed int64) []models.RoundTrip {
	rng := rand.New(rand.NewSource(seed))
	trips := make([]models.RoundTrip, 0, n)
	for i := 0; i < n; i++ {
		side := models.SideBuy
		if rng.Intn(2) == 1 {
			side = models.SideSell
		}
		entryMin := 9*60 + 15 + i*11
		exitMin := entryMin + rng.Intn(180)
		qty := 1 + rng.Intn(200)
		pnl := (rng.Float64() - 0.5) * 4000

		rt := models.RoundTrip{
			Symbol: "NIFTY",
			Entry: models.Trade{
				Date: "2025-06-05", Time: clock(entryMin),
				Symbol: "NIFTY", Side: side, Quantity: qty,
				Price: 100 + rng.Float64()*50, FullQty: qty,
			},
			Exit: models.Trade{
				Date: "2025-06-05", Time: clock(exitMin),
				Symbol: "NIFTY", Side: side.Opposite(), Quantity: qty,
				Price: 100 + rng.Float64()*50, FullQty: qty,
			},
			Quantity:       qty,
			PnL:            pnl,
			HoldingMinutes: exitMin - entryMin,
		}
		if rng.Intn(3) == 0 {
			rt.StopLoss = rt.Entry.Price * (1 - rng.Float64()*0.05)
			rt.Target = rt.Entry.Price * (1 + rng.Float64()*0.1)
		}
		trips = append(trips, rt)
	}
	return trips
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}

// Property: the bad and good classifications are mutually exclusive. Bad
// requires a demon and a loss; good requires zero demons, so no trip can
// ever carry both.
func TestProperty_ClassificationNeverBothBadAndGood(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("no trip is both bad and good", prop.ForAll(
		func(n int, seed int64) bool {
			trips := randomTrips(n, seed)
			New(testConfig()).Tag(trips)
			for _, trip := range trips {
				if trip.IsBadTrade && trip.IsGoodTrade {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 25),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// Property: classification is consistent with its tags. A bad trip always
// has at least one demon and negative P&L; a good trip always has at least
// two good practices and zero demons.
func TestProperty_ClassificationMatchesTags(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("classifications imply their tag preconditions", prop.ForAll(
		func(n int, seed int64) bool {
			trips := randomTrips(n, seed)
			New(testConfig()).Tag(trips)
			for _, trip := range trips {
				if trip.IsBadTrade && (len(trip.Demons) == 0 || trip.PnL >= 0) {
					return false
				}
				if trip.IsGoodTrade && (len(trip.GoodPractices) < 2 || len(trip.Demons) != 0) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 25),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
