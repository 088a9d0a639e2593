package models

import "time"

// Side is the direction of an execution leg.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Trade is one execution leg normalized from a vendor orderbook row.
//
// Price is the side-selected price used for matching. BuyPrice and SellPrice
// keep the row's own basis (one of the two is always zero on buy/sell-column
// exports) and must be used for headline netting, never Price.
type Trade struct {
	Date     string  `json:"date"`           // YYYY-MM-DD
	Time     string  `json:"time,omitempty"` // HH:MM, empty when the export has no time
	Symbol   string  `json:"symbol"`
	Side     Side    `json:"side"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Charges  float64 `json:"charges"`

	// FullQty is the quantity before any partial consumption by pairing.
	// Charges are pro-rated against it when a leg is split across slices.
	FullQty int `json:"fullQty"`

	BuyPrice  float64 `json:"buyPrice,omitempty"`
	SellPrice float64 `json:"sellPrice,omitempty"`
}

// Timestamp parses the leg's date and time. A missing or malformed time
// sorts as start-of-day.
func (t Trade) Timestamp() time.Time {
	if t.Time != "" {
		if ts, err := time.Parse("2006-01-02 15:04", t.Date+" "+t.Time); err == nil {
			return ts
		}
	}
	ts, _ := time.Parse("2006-01-02", t.Date)
	return ts
}

// RawPrice returns the row's own price basis for the leg's side.
func (t Trade) RawPrice() float64 {
	if t.Side == SideBuy && t.BuyPrice != 0 {
		return t.BuyPrice
	}
	if t.Side == SideSell && t.SellPrice != 0 {
		return t.SellPrice
	}
	return t.Price
}

// Valid reports whether the leg can participate in pairing. A row missing
// any of symbol, side, quantity, or price is vendor-export noise.
func (t Trade) Valid() bool {
	return t.Symbol != "" && (t.Side == SideBuy || t.Side == SideSell) &&
		t.Quantity > 0 && t.Price > 0
}

// RoundTrip is one matched entry/exit pair, or a quantity slice of one.
// Entry and Exit carry the matched slice quantity with charges pro-rated
// to that slice. Tag lists are attached later by the tagger.
type RoundTrip struct {
	Symbol         string  `json:"symbol"`
	Entry          Trade   `json:"entry"`
	Exit           Trade   `json:"exit"`
	Quantity       int     `json:"quantity"`
	PnL            float64 `json:"pnl"`
	HoldingMinutes int     `json:"holdingMinutes"`

	// StopLoss and Target come from a matched trade plan when one exists;
	// zero means unknown and disables the risk/reward rules.
	StopLoss float64 `json:"stopLoss,omitempty"`
	Target   float64 `json:"target,omitempty"`

	Demons        []string `json:"demons"`
	GoodPractices []string `json:"goodPractices"`
	IsBadTrade    bool     `json:"isBadTrade"`
	IsGoodTrade   bool     `json:"isGoodTrade"`
}

// OpenPosition is quantity left unmatched after pairing, per symbol.
type OpenPosition struct {
	Symbol   string  `json:"symbol"`
	Side     Side    `json:"side"`
	Quantity int     `json:"quantity"`
	AvgPrice float64 `json:"avgPrice"`
}

// Warning flags a data-quality issue found during normalization, such as a
// date that matched no known pattern and was truncated best-effort.
type Warning struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}
