// Package tagging walks round-trips chronologically and attaches demon and
// good-practice tags using a fixed rule set with cross-trade state.
//
// The classification is a coaching heuristic, not a ledger: rules are
// independently evaluable, several may fire on one trip, and the
// thresholds live in config.TaggingConfig so they stay testable.
package tagging

import (
	"math"
	"sort"
	"time"

	"tradehabit/internal/config"
	"tradehabit/internal/models"
)

// Tagger applies the behavioral rule set. State carried across trips: a
// per-day trade counter for overtrading, the time and side of the most
// recent losing trip for revenge detection, and running win/loss averages.
type Tagger struct {
	cfg config.TaggingConfig

	dayCounts    map[string]int
	lastLossAt   time.Time
	lastLossSide models.Side
	sawLoss      bool

	winSum    float64
	winCount  int
	lossSum   float64 // absolute
	lossCount int

	// EarlyEntries counts entries before the cutoff, kept separately from
	// the CHASED ENTRY tag so the report can surface it as its own figure.
	EarlyEntries int
}

// New creates a Tagger with the given thresholds.
func New(cfg config.TaggingConfig) *Tagger {
	return &Tagger{
		cfg:       cfg,
		dayCounts: make(map[string]int),
	}
}

// Tag mutates each trip in place with demon and good-practice tags and the
// derived bad/good classification. Trips are processed in exit order.
func (tg *Tagger) Tag(trips []models.RoundTrip) {
	order := make([]int, len(trips))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return trips[order[a]].Exit.Timestamp().Before(trips[order[b]].Exit.Timestamp())
	})

	for _, idx := range order {
		tg.tagOne(&trips[idx])
	}
}

func (tg *Tagger) tagOne(trip *models.RoundTrip) {
	trip.Demons = []string{}
	trip.GoodPractices = []string{}

	// Running averages reflect prior trips only; rules comparing a trip to
	// "the average" must not include the trip itself.
	avgWin := tg.avgWin()
	avgLoss := tg.avgLoss()

	tg.dayCounts[trip.Exit.Date]++
	dayCount := tg.dayCounts[trip.Exit.Date]

	loss := trip.PnL < 0
	win := trip.PnL > 0
	riskPerUnit := tg.riskPerUnit(trip)

	// Risk/reward rules apply only when a stop distance is known.
	if riskPerUnit > 0 {
		if rr := tg.rewardPerUnit(trip) / riskPerUnit; rr < tg.cfg.MinRiskReward {
			trip.Demons = append(trip.Demons, DemonPoorRiskReward)
		} else {
			trip.GoodPractices = append(trip.GoodPractices, GoodRiskReward)
		}
	}

	if loss && trip.HoldingMinutes > tg.cfg.LossHoldMinutes {
		trip.Demons = append(trip.Demons, DemonHeldLossTooLong)
	}

	if win && trip.HoldingMinutes < tg.cfg.PrematureExitMinutes &&
		tg.winCount > 0 && trip.PnL < avgWin/2 {
		trip.Demons = append(trip.Demons, DemonPrematureExit)
	} else if win && trip.HoldingMinutes >= tg.cfg.PrematureExitMinutes {
		trip.GoodPractices = append(trip.GoodPractices, GoodProperExit)
	}

	if loss && tg.lossCount > 0 && math.Abs(trip.PnL) > tg.cfg.StopTolerance*avgLoss {
		trip.Demons = append(trip.Demons, DemonMissedStopLoss)
	} else if loss && tg.respectedStop(trip, riskPerUnit, avgLoss) {
		trip.GoodPractices = append(trip.GoodPractices, GoodStopLossRespected)
	}

	if entryMinute(trip) < tg.cfg.CutoffMinutes() {
		trip.Demons = append(trip.Demons, DemonChasedEntry)
		tg.EarlyEntries++
	} else {
		trip.GoodPractices = append(trip.GoodPractices, GoodProperEntry)
	}

	if tg.oversized(trip, riskPerUnit, avgLoss) {
		trip.Demons = append(trip.Demons, DemonWrongPositionSize)
	}

	if win && tg.heldForTarget(trip, avgWin) {
		trip.GoodPractices = append(trip.GoodPractices, GoodHeldForTarget)
	}

	if dayCount > tg.cfg.OvertradeCount {
		trip.Demons = append(trip.Demons, DemonOvertrading)
	}

	if loss && tg.isRevenge(trip) {
		trip.Demons = append(trip.Demons, DemonRevengeTrade)
	}

	if len(trip.Demons) == 0 && len(trip.GoodPractices) >= 2 {
		trip.GoodPractices = append(trip.GoodPractices, GoodDisciplined)
	}

	tg.classify(trip)

	if loss {
		tg.lastLossAt = trip.Exit.Timestamp()
		tg.lastLossSide = trip.Entry.Side
		tg.sawLoss = true
		tg.lossSum += math.Abs(trip.PnL)
		tg.lossCount++
	} else if win {
		tg.winSum += trip.PnL
		tg.winCount++
	}
}

// classify derives the exclusive bad/good booleans. A trip is bad only
// with at least one demon and negative P&L; good only with at least two
// good tags, zero demons, and either positive P&L or a respected stop on a
// loss. The conditions cannot overlap.
func (tg *Tagger) classify(trip *models.RoundTrip) {
	trip.IsBadTrade = len(trip.Demons) >= 1 && trip.PnL < 0
	trip.IsGoodTrade = len(trip.GoodPractices) >= 2 && len(trip.Demons) == 0 &&
		(trip.PnL > 0 || (trip.PnL < 0 && hasTag(trip.GoodPractices, GoodStopLossRespected)))
}

// riskPerUnit is the stop distance when a matched plan declared one.
// Zero means unknown and disables the risk/reward rules.
func (tg *Tagger) riskPerUnit(trip *models.RoundTrip) float64 {
	if trip.StopLoss <= 0 {
		return 0
	}
	return math.Abs(trip.Entry.Price - trip.StopLoss)
}

// rewardPerUnit prefers the declared target distance; without one the
// realized favorable move stands in.
func (tg *Tagger) rewardPerUnit(trip *models.RoundTrip) float64 {
	if trip.Target > 0 {
		return math.Abs(trip.Target - trip.Entry.Price)
	}
	move := trip.Exit.Price - trip.Entry.Price
	if trip.Entry.Side == models.SideSell {
		move = -move
	}
	if move < 0 {
		return 0
	}
	return move
}

// respectedStop holds when a loss stayed within the declared stop distance
// (with tolerance) or, lacking a stop, within the running average loss.
func (tg *Tagger) respectedStop(trip *models.RoundTrip, riskPerUnit, avgLoss float64) bool {
	perUnitLoss := math.Abs(trip.PnL) / float64(trip.Quantity)
	if riskPerUnit > 0 {
		return perUnitLoss <= riskPerUnit*tg.cfg.StopTolerance
	}
	return tg.lossCount > 0 && math.Abs(trip.PnL) <= avgLoss
}

// oversized approximates per-trip risk as stop distance times quantity,
// falling back to the realized loss, and checks it against the capital
// percentage cap and the average-loss multiple.
func (tg *Tagger) oversized(trip *models.RoundTrip, riskPerUnit, avgLoss float64) bool {
	risk := riskPerUnit * float64(trip.Quantity)
	if risk == 0 && trip.PnL < 0 {
		risk = math.Abs(trip.PnL)
	}
	if risk == 0 {
		return false
	}
	if risk > tg.cfg.Capital*tg.cfg.CapitalRiskPercent/100 {
		return true
	}
	return tg.lossCount > 0 && risk > tg.cfg.SizeLossMultiple*avgLoss
}

// heldForTarget holds when the exit reached a declared target, or the win
// beat the running average.
func (tg *Tagger) heldForTarget(trip *models.RoundTrip, avgWin float64) bool {
	if trip.Target > 0 {
		if trip.Entry.Side == models.SideBuy {
			return trip.Exit.Price >= trip.Target
		}
		return trip.Exit.Price <= trip.Target
	}
	return tg.winCount > 0 && trip.PnL >= avgWin
}

// isRevenge holds when a losing trip was entered within the revenge window
// after the previous loss, in the same direction.
func (tg *Tagger) isRevenge(trip *models.RoundTrip) bool {
	if !tg.sawLoss || trip.Entry.Side != tg.lastLossSide {
		return false
	}
	gap := trip.Entry.Timestamp().Sub(tg.lastLossAt)
	return gap >= 0 && gap <= time.Duration(tg.cfg.RevengeWindowMinutes)*time.Minute
}

func (tg *Tagger) avgWin() float64 {
	if tg.winCount == 0 {
		return 0
	}
	return tg.winSum / float64(tg.winCount)
}

func (tg *Tagger) avgLoss() float64 {
	if tg.lossCount == 0 {
		return 0
	}
	return tg.lossSum / float64(tg.lossCount)
}

// entryMinute is the entry time as minutes after midnight; a missing time
// sorts as start-of-day and never counts as chased.
func entryMinute(trip *models.RoundTrip) int {
	if trip.Entry.Time == "" {
		return 24 * 60
	}
	ts := trip.Entry.Timestamp()
	return ts.Hour()*60 + ts.Minute()
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
