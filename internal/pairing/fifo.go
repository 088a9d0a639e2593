// Package pairing reconstructs closed round-trips from a stream of
// execution legs using strict FIFO matching.
package pairing

import (
	"sort"

	"tradehabit/internal/models"
)

// Pair consumes the legs of one upload and returns closed round-trips plus
// whatever is left open per symbol.
//
// Legs are ordered ascending by (date, time); a missing time sorts as
// start-of-day. Per symbol, a queue holds unmatched legs on the currently
// open side. A same-side leg extends the position; an opposite-side leg
// closes the oldest legs first, in slices of min(incoming, front), and any
// remainder after the queue drains flips the position to the new side.
// Oldest-first is a deliberate design choice, not a P&L-optimizing match.
func Pair(trades []models.Trade) ([]models.RoundTrip, []models.OpenPosition) {
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp().Before(ordered[j].Timestamp())
	})

	queues := make(map[string][]*models.Trade)
	var symbols []string // insertion order, for deterministic output

	var trips []models.RoundTrip
	for i := range ordered {
		incoming := ordered[i]
		queue := queues[incoming.Symbol]

		if len(queue) == 0 || queue[0].Side == incoming.Side {
			leg := incoming
			if _, seen := queues[incoming.Symbol]; !seen {
				symbols = append(symbols, incoming.Symbol)
			}
			queues[incoming.Symbol] = append(queue, &leg)
			continue
		}

		remaining := incoming.Quantity
		for remaining > 0 && len(queue) > 0 {
			front := queue[0]
			slice := remaining
			if front.Quantity < slice {
				slice = front.Quantity
			}

			trips = append(trips, closeSlice(front, &incoming, slice))

			front.Quantity -= slice
			remaining -= slice
			if front.Quantity == 0 {
				queue = queue[1:]
			}
		}

		if remaining > 0 {
			// Position flips direction: the leftover becomes the first
			// open leg on the new side. FullQty keeps the original row
			// quantity so later slices still pro-rate charges correctly.
			leg := incoming
			leg.Quantity = remaining
			queue = append(queue, &leg)
		}
		queues[incoming.Symbol] = queue
	}

	return trips, openPositions(queues, symbols)
}

// closeSlice builds one round-trip for a matched quantity slice. Both legs
// carry the slice quantity with charges pro-rated by slice over the leg's
// original full quantity.
func closeSlice(entry, exit *models.Trade, slice int) models.RoundTrip {
	entryLeg := *entry
	entryLeg.Quantity = slice
	entryLeg.Charges = prorate(entry.Charges, slice, entry.FullQty)

	exitLeg := *exit
	exitLeg.Quantity = slice
	exitLeg.Charges = prorate(exit.Charges, slice, exit.FullQty)

	gross := (exitLeg.Price - entryLeg.Price) * float64(slice)
	if entryLeg.Side == models.SideSell {
		gross = -gross
	}

	return models.RoundTrip{
		Symbol:         entryLeg.Symbol,
		Entry:          entryLeg,
		Exit:           exitLeg,
		Quantity:       slice,
		PnL:            gross - entryLeg.Charges - exitLeg.Charges,
		HoldingMinutes: holdingMinutes(entryLeg, exitLeg),
	}
}

func prorate(charges float64, slice, fullQty int) float64 {
	if fullQty <= 0 {
		return charges
	}
	return charges * float64(slice) / float64(fullQty)
}

// holdingMinutes is the entry-to-exit duration. Missing timestamps default
// to same-minute; a negative duration from inconsistent vendor data clamps
// to zero.
func holdingMinutes(entry, exit models.Trade) int {
	minutes := int(exit.Timestamp().Sub(entry.Timestamp()).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// openPositions folds each symbol's queue leftovers into one position with
// a quantity-weighted average of the raw side-matching prices.
func openPositions(queues map[string][]*models.Trade, symbols []string) []models.OpenPosition {
	var open []models.OpenPosition
	for _, symbol := range symbols {
		queue := queues[symbol]
		if len(queue) == 0 {
			continue
		}

		var qty int
		var notional float64
		for _, leg := range queue {
			qty += leg.Quantity
			notional += leg.RawPrice() * float64(leg.Quantity)
		}
		if qty == 0 {
			continue
		}

		open = append(open, models.OpenPosition{
			Symbol:   symbol,
			Side:     queue[0].Side,
			Quantity: qty,
			AvgPrice: notional / float64(qty),
		})
	}

	sort.Slice(open, func(i, j int) bool { return open[i].Symbol < open[j].Symbol })
	return open
}
