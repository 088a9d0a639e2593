package pairing

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradehabit/internal/models"
)

// randomLegs builds a single-symbol leg sequence with random sides,
// quantities, and prices, timestamped one minute apart.
func randomLegs(qtys []int, seed int64) []models.Trade {
	rng := rand.New(rand.NewSource(seed))
	legs := make([]models.Trade, 0, len(qtys))
	for i, q := range qtys {
		side := models.SideBuy
		if rng.Intn(2) == 1 {
			side = models.SideSell
		}
		legs = append(legs, models.Trade{
			Date:     "2025-06-05",
			Time:     fmt.Sprintf("%02d:%02d", 9+i/45, 15+i%45),
			Symbol:   "NIFTY",
			Side:     side,
			Quantity: q,
			Price:    100 + rng.Float64()*50,
			Charges:  rng.Float64() * 20,
			FullQty:  q,
		})
	}
	return legs
}

// Property: quantity is conserved through pairing. Every unit of every leg
// ends up either in a round-trip slice (which consumes one entry unit and
// one exit unit) or in the open position.
func TestProperty_PairingConservesQuantity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("matched units plus open units equal input units", prop.ForAll(
		func(qtys []int, seed int64) bool {
			legs := randomLegs(qtys, seed)
			trips, open := Pair(legs)

			total := 0
			for _, l := range legs {
				total += l.Quantity
			}
			matched := 0
			for _, trip := range trips {
				matched += trip.Quantity
			}
			openQty := 0
			for _, pos := range open {
				openQty += pos.Quantity
			}
			return 2*matched+openQty == total
		},
		gen.SliceOfN(12, gen.IntRange(1, 50)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// Property: exits consume the oldest open leg first, so the entry
// timestamps of successive round-trips never move backwards.
func TestProperty_PairingClosesOldestFirst(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("round-trip entry timestamps are non-decreasing", prop.ForAll(
		func(qtys []int, seed int64) bool {
			trips, _ := Pair(randomLegs(qtys, seed))
			for i := 1; i < len(trips); i++ {
				if trips[i].Entry.Timestamp().Before(trips[i-1].Entry.Timestamp()) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(1, 50)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// Property: pro-rating never invents charges. The charges consumed by all
// slices can never exceed the charges that came in, and when the book ends
// flat every leg is fully consumed so the sums match exactly.
func TestProperty_PairingConservesCharges(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("slice charges never exceed input charges, exact when flat", prop.ForAll(
		func(qtys []int, seed int64) bool {
			legs := randomLegs(qtys, seed)
			trips, open := Pair(legs)

			totalIn := 0.0
			for _, l := range legs {
				totalIn += l.Charges
			}
			consumed := 0.0
			for _, trip := range trips {
				consumed += trip.Entry.Charges + trip.Exit.Charges
			}
			if consumed > totalIn+1e-6 {
				return false
			}
			if len(open) == 0 && math.Abs(consumed-totalIn) > 1e-6 {
				return false
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(1, 50)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}
