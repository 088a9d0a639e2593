package tagging

// Demon tags: negative habits detected from a round-trip's timing, size,
// and outcome.
const (
	DemonPoorRiskReward    = "POOR RISK REWARD"
	DemonHeldLossTooLong   = "HELD LOSS TOO LONG"
	DemonPrematureExit     = "PREMATURE EXIT"
	DemonMissedStopLoss    = "MISSED STOP LOSS"
	DemonChasedEntry       = "CHASED ENTRY"
	DemonWrongPositionSize = "WRONG POSITION SIZE"
	DemonOvertrading       = "OVERTRADING"
	DemonRevengeTrade      = "REVENGE TRADE"
)

// Good-practice tags mirror the demons.
const (
	GoodProperEntry       = "PROPER ENTRY"
	GoodProperExit        = "PROPER EXIT"
	GoodStopLossRespected = "STOP LOSS RESPECTED"
	GoodHeldForTarget     = "HELD FOR TARGET"
	GoodRiskReward        = "GOOD RISK REWARD"
	GoodDisciplined       = "DISCIPLINED"
)

// remediation maps each demon to prose coaching text for the demon finder.
var remediation = map[string]string{
	DemonPoorRiskReward:    "Skip setups where the reward is less than 1.2x the risk. Write the ratio down before entering.",
	DemonHeldLossTooLong:   "Decide the maximum time you will sit in a red trade before you enter it, and exit when the clock runs out.",
	DemonPrematureExit:     "Let winners run to your planned target. Move the stop to break-even instead of booking tiny profits.",
	DemonMissedStopLoss:    "Place the stop-loss order with the entry, not after. A mental stop is not a stop.",
	DemonChasedEntry:       "Avoid entries in the opening minutes. Let the range establish before committing.",
	DemonWrongPositionSize: "Size every position from the stop distance, not from conviction. Risk a fixed fraction of capital per trade.",
	DemonOvertrading:       "Set a hard daily trade count and stop when you reach it. More trades rarely means more profit.",
	DemonRevengeTrade:      "After a loss, step away for fifteen minutes. Re-entering the same direction immediately is revenge, not analysis.",
}

// genericSuggestions pad the demon finder when fewer than three distinct
// demons occurred.
var genericSuggestions = []string{
	"Review each trade against your written plan at the end of the day.",
	"Track your average win and average loss weekly; the ratio matters more than the win rate.",
	"Trade smaller when you feel the urge to trade more.",
}
