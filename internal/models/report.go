package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a float64 that survives JSON encoding when infinite. Profit
// factor is +Inf whenever there is profit and zero loss, and encoding/json
// rejects infinities, so infinite ratios marshal as the string "Infinity".
type Ratio float64

// MarshalJSON implements json.Marshaler.
func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsInf(f, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(f, -1) {
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Infinity"`:
		*r = Ratio(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*r = Ratio(math.Inf(-1))
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// ScripSummaryRow is the per-symbol ledger computed directly from raw rows.
// Only symbols with at least one buy and one sell row appear.
type ScripSummaryRow struct {
	Symbol    string  `json:"symbol"`
	BuyQty    int     `json:"buyQty"`
	SellQty   int     `json:"sellQty"`
	BuyValue  float64 `json:"buyValue"`
	SellValue float64 `json:"sellValue"`
	Charges   float64 `json:"charges"`
	NetPnL    float64 `json:"netPnl"`
}

// DemonSuggestion pairs a detected demon tag with remediation text.
type DemonSuggestion struct {
	Tag        string `json:"tag"`
	Count      int    `json:"count"`
	Suggestion string `json:"suggestion"`
}

// TagTotal accumulates cost or profit attributed to one tag. Only the
// primary (first) tag of each classified round-trip contributes, so one
// trip never counts in more than one bucket.
type TagTotal struct {
	Tag    string  `json:"tag"`
	Trades int     `json:"trades"`
	Amount float64 `json:"amount"`
}

// Stats is the full behavioral performance report for one upload.
type Stats struct {
	Empty bool `json:"empty"`

	// NetPnL is the raw paired-symbol basis: authoritative headline figure,
	// insensitive to pairing order. RoundTripPnL is the FIFO-derived basis.
	// BasisGap surfaces their difference as a diagnostic.
	NetPnL       float64 `json:"netPnl"`
	RoundTripPnL float64 `json:"roundTripPnl"`
	BasisGap     float64 `json:"basisGap"`

	TotalTrips   int     `json:"totalTrips"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	WinRate      float64 `json:"winRate"`
	DayWinRate   float64 `json:"dayWinRate"`
	GrossProfit  float64 `json:"grossProfit"`
	GrossLoss    float64 `json:"grossLoss"`
	AvgWin       float64 `json:"avgWin"`
	AvgLoss      float64 `json:"avgLoss"`
	ProfitFactor Ratio   `json:"profitFactor"`
	Score        float64 `json:"score"`

	DemonCosts    []TagTotal        `json:"demonCosts"`
	GoodGains     []TagTotal        `json:"goodGains"`
	TopDemons     []DemonSuggestion `json:"topDemons"`
	RoundTrips    []RoundTrip       `json:"roundTrips"`
	ScripSummary  []ScripSummaryRow `json:"scripSummary"`
	OpenPositions []OpenPosition    `json:"openPositions"`
	Warnings      []Warning         `json:"warnings,omitempty"`
}

// EmptyStats returns the well-formed zero report served before any upload,
// so consumers never need to null-check.
func EmptyStats() *Stats {
	return &Stats{
		Empty:         true,
		DemonCosts:    []TagTotal{},
		GoodGains:     []TagTotal{},
		TopDemons:     []DemonSuggestion{},
		RoundTrips:    []RoundTrip{},
		ScripSummary:  []ScripSummaryRow{},
		OpenPositions: []OpenPosition{},
	}
}
