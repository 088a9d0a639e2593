// Package ingest detects vendor orderbook formats and normalizes their rows
// into canonical trade legs.
//
// Brokerage exports disagree on everything: column names, date forms,
// whether price is one side-marked column or a buy/sell pair, and how many
// preamble lines of disclaimers precede the actual table. Detection slices
// the file to the first recognizable header; normalization maps each
// schema's columns onto one Trade shape.
package ingest

import (
	"encoding/csv"
	"strconv"
	"strings"

	"tradehabit/internal/errors"
	"tradehabit/internal/models"
)

// Result is the output of one parse: the detected schema, the normalized
// legs in file order, data-quality warnings, and the count of rows dropped
// as vendor-export noise.
type Result struct {
	Schema   Schema
	Trades   []models.Trade
	Warnings []models.Warning
	Dropped  int
}

// Parse detects the orderbook format in raw file text and normalizes every
// data row. It fails only when no known header signature is found; rows
// missing symbol, side, quantity, or price are dropped silently since they
// cannot participate in pairing.
func Parse(text string) (*Result, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	schema, start := Detect(lines)
	if schema == SchemaUnknown {
		return nil, errors.ErrNoTradeTable
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[start:], "\n")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading trade table")
	}
	if len(records) == 0 {
		return nil, errors.ErrNoTradeTable
	}

	cols := indexColumns(records[0])
	res := &Result{Schema: schema}

	for i, record := range records[1:] {
		line := start + i + 2 // 1-based line of the row in the original file
		var trade models.Trade
		var ok bool
		switch schema {
		case SchemaKite:
			trade, ok = normalizeKiteRow(record, cols, line, res)
		default:
			trade, ok = normalizeLedgerRow(record, cols, line, res)
		}
		if !ok || !trade.Valid() {
			res.Dropped++
			continue
		}
		trade.FullQty = trade.Quantity
		res.Trades = append(res.Trades, trade)
	}

	return res, nil
}

// indexColumns maps canonical column names to positions.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[canonicalHeader(name)] = i
	}
	return cols
}

// field returns the first present alias, trimmed.
func field(record []string, cols map[string]int, names ...string) string {
	for _, name := range names {
		if idx, ok := cols[name]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
	}
	return ""
}

// normalizeKiteRow maps one Kite tradebook row: an explicit direction
// column, direct price and quantity, and a combined execution timestamp.
func normalizeKiteRow(record []string, cols map[string]int, line int, res *Result) (models.Trade, bool) {
	t := models.Trade{
		Symbol: field(record, cols, "symbol", "tradingsymbol"),
		Side:   normalizeSide(field(record, cols, "trade_type")),
	}

	t.Quantity = parseQuantity(field(record, cols, "quantity", "qty"))
	t.Price = parseAmount(field(record, cols, "price"))

	rawDate, clock := splitTimestamp(field(record, cols, "order_execution_time"))
	if rawDate == "" {
		rawDate = field(record, cols, "trade_date")
	}
	t.Date = normalizeRowDate(rawDate, line, res)
	t.Time = clock

	return t, t.Symbol != "" && t.Side != ""
}

// normalizeLedgerRow maps one buy/sell-column row (Angel, Sharekhan): the
// active price is chosen by the side marker, itemized charge columns are
// summed into one figure, and both raw prices are retained because the
// headline ledger must use the row's own price basis.
func normalizeLedgerRow(record []string, cols map[string]int, line int, res *Result) (models.Trade, bool) {
	t := models.Trade{
		Symbol: field(record, cols, "scripname", "scrip", "symbol"),
		Side:   normalizeSide(field(record, cols, "buy/sell", "b/s", "side")),
	}

	t.Quantity = parseQuantity(field(record, cols, "quantity", "qty"))
	t.BuyPrice = parseAmount(field(record, cols, "buyprice", "buyrate"))
	t.SellPrice = parseAmount(field(record, cols, "sellprice", "sellrate"))

	switch t.Side {
	case models.SideBuy:
		t.Price = t.BuyPrice
	case models.SideSell:
		t.Price = t.SellPrice
	}

	for _, name := range []string{"brokerage", "stt", "transactioncharges", "turnovertax", "stampduty", "othercharges"} {
		t.Charges += parseAmount(field(record, cols, name))
	}

	t.Date = normalizeRowDate(field(record, cols, "date", "tradedate"), line, res)
	t.Time = normalizeClock(field(record, cols, "tradetime", "time"))

	return t, t.Symbol != "" && t.Side != ""
}

// normalizeRowDate normalizes a date and records a warning when the value
// matched no known pattern and the 10-character fallback was used. A
// misfiled date silently moves a trade to the wrong day, so the guess is
// surfaced rather than hidden.
func normalizeRowDate(raw string, line int, res *Result) string {
	date, ok := normalizeDate(raw)
	if !ok && date != "" {
		res.Warnings = append(res.Warnings, models.Warning{
			Line:    line,
			Field:   "date",
			Value:   raw,
			Message: "date matched no known pattern; first 10 characters used verbatim",
		})
	}
	return date
}

func normalizeSide(raw string) models.Side {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy", "b":
		return models.SideBuy
	case "sell", "s":
		return models.SideSell
	default:
		return ""
	}
}

// parseAmount reads a price or charge figure, tolerating currency symbols
// and Indian digit grouping.
func parseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseQuantity(raw string) int {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Some vendors write quantity as a float ("100.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return 0
}
