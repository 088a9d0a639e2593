package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradehabit/internal/errors"
	"tradehabit/internal/models"
)

const kiteExport = `Some disclaimer text the vendor prepends
Account: AB1234,,,,,,,

symbol,trade_date,exchange,segment,trade_type,quantity,price,order_execution_time
RELIANCE,2025-06-05,NSE,EQ,buy,100,2450.50,2025-06-05T09:16:03
RELIANCE,2025-06-05,NSE,EQ,sell,100,2465.00,2025-06-05T09:20:45
INFY,2025-06-05,NSE,EQ,buy,50,1510.00,2025-06-05 10:02:10
`

const angelExport = `Trade Register for client 555,,,,,,,,,,
,,,,,,,,,,

Date,Scrip Name,Buy/Sell,Quantity,Buy Price,Sell Price,Brokerage,STT,Transaction Charges,Stamp Duty,Other Charges
05/06/2025,TCS,B,10,3400.00,0,20.00,3.40,1.10,0.50,0.25
05/06/2025,TCS,S,10,0,3450.00,20.00,3.45,1.15,0,0.30
`

const sharekhanExport = `Trade Date,Scrip,B/S,Qty,Buy Rate,Sell Rate,Brokerage,STT,Turnover Tax,Stamp Duty,Other Charges
05-Jun-2025,HDFCBANK,B,25,1600.00,0,15.00,2.00,0.80,0.40,0
06-Jun-2025,HDFCBANK,S,25,0,1630.00,15.00,2.05,0.85,0,0
`

func TestParseKiteExport(t *testing.T) {
	res, err := Parse(kiteExport)
	require.NoError(t, err)

	assert.Equal(t, SchemaKite, res.Schema)
	require.Len(t, res.Trades, 3)

	first := res.Trades[0]
	assert.Equal(t, "RELIANCE", first.Symbol)
	assert.Equal(t, models.SideBuy, first.Side)
	assert.Equal(t, 100, first.Quantity)
	assert.Equal(t, 100, first.FullQty)
	assert.Equal(t, 2450.50, first.Price)
	assert.Equal(t, "2025-06-05", first.Date)
	assert.Equal(t, "09:16", first.Time)

	// Space-separated timestamp splits the same way as T-separated.
	assert.Equal(t, "10:02", res.Trades[2].Time)
}

func TestParseAngelExportSumsChargesAndKeepsRawPrices(t *testing.T) {
	res, err := Parse(angelExport)
	require.NoError(t, err)

	assert.Equal(t, SchemaAngel, res.Schema)
	require.Len(t, res.Trades, 2)

	buy := res.Trades[0]
	assert.Equal(t, models.SideBuy, buy.Side)
	assert.Equal(t, 3400.00, buy.Price)
	assert.Equal(t, 3400.00, buy.BuyPrice)
	assert.Equal(t, 0.0, buy.SellPrice)
	assert.InDelta(t, 25.25, buy.Charges, 1e-9)
	assert.Equal(t, "2025-06-05", buy.Date) // day-first slash date

	sell := res.Trades[1]
	assert.Equal(t, 3450.00, sell.Price)
	assert.Equal(t, 3450.00, sell.SellPrice)
	assert.InDelta(t, 24.90, sell.Charges, 1e-9)
}

func TestParseSharekhanExport(t *testing.T) {
	res, err := Parse(sharekhanExport)
	require.NoError(t, err)

	assert.Equal(t, SchemaSharekhan, res.Schema)
	require.Len(t, res.Trades, 2)
	assert.Equal(t, "2025-06-05", res.Trades[0].Date)
	assert.Equal(t, "2025-06-06", res.Trades[1].Date)
}

func TestParseUnrecognizedFileFails(t *testing.T) {
	_, err := Parse("just,some,random\ncsv,without,headers\n")
	assert.ErrorIs(t, err, errors.ErrNoTradeTable)

	_, err = Parse("")
	assert.ErrorIs(t, err, errors.ErrNoTradeTable)
}

func TestParseDropsIncompleteRowsSilently(t *testing.T) {
	export := `symbol,trade_date,exchange,segment,trade_type,quantity,price,order_execution_time
RELIANCE,2025-06-05,NSE,EQ,buy,100,2450.50,2025-06-05T09:16:03
,2025-06-05,NSE,EQ,buy,100,2450.50,2025-06-05T09:16:03
RELIANCE,2025-06-05,NSE,EQ,,100,2450.50,2025-06-05T09:16:03
RELIANCE,2025-06-05,NSE,EQ,sell,0,2450.50,2025-06-05T09:16:03
RELIANCE,2025-06-05,NSE,EQ,sell,100,,2025-06-05T09:16:03
`
	res, err := Parse(export)
	require.NoError(t, err)
	assert.Len(t, res.Trades, 1)
	assert.Equal(t, 4, res.Dropped)
	assert.Empty(t, res.Warnings)
}

func TestParseFlagsUnparseableDates(t *testing.T) {
	export := `symbol,trade_date,exchange,segment,trade_type,quantity,price,order_execution_time
RELIANCE,2025-06-05,NSE,EQ,buy,100,2450.50,2025/06/05-09:16 oddball
`
	res, err := Parse(export)
	require.NoError(t, err)
	require.Len(t, res.Trades, 1)

	// Best-effort truncation keeps the row but surfaces a warning.
	assert.Equal(t, "2025/06/05", res.Trades[0].Date)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "date", res.Warnings[0].Field)
}

func TestNormalizeDateForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2025-06-05", "2025-06-05", true},
		{"05/06/2025", "2025-06-05", true},  // day-first default
		{"25/06/2025", "2025-06-25", true},  // forced day-first
		{"06/25/2025", "2025-06-25", true},  // forced month-first
		{"05-Jun-2025", "2025-06-05", true},
		{"5-Jun-2025", "2025-06-05", true},
		{"garbage-date-text", "garbage-da", false},
	}
	for _, tc := range cases {
		got, ok := normalizeDate(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}
