package ingest

import "strings"

// Schema identifies a known vendor orderbook layout.
type Schema int

const (
	SchemaUnknown Schema = iota
	// SchemaKite is the Kite tradebook export: one side-marked row with a
	// combined execution timestamp.
	SchemaKite
	// SchemaAngel is the Angel trade register: separate buy/sell price
	// columns and itemized charges.
	SchemaAngel
	// SchemaSharekhan is the Sharekhan trade report: same buy/sell-column
	// shape as Angel with DD-Mon-YYYY dates.
	SchemaSharekhan
)

// String returns the schema name.
func (s Schema) String() string {
	switch s {
	case SchemaKite:
		return "kite"
	case SchemaAngel:
		return "angel"
	case SchemaSharekhan:
		return "sharekhan"
	default:
		return "unknown"
	}
}

// Header signatures compared case-insensitively with whitespace stripped.
// Vendors prepend disclaimers and account summaries, so only the first few
// columns are matched as a prefix.
var headerSignatures = []struct {
	prefix string
	schema Schema
}{
	{"symbol,trade_date,exchange", SchemaKite},
	{"date,scripname,buy/sell", SchemaAngel},
	{"tradedate,scrip,b/s", SchemaSharekhan},
}

// Detect scans raw lines for a known header signature and returns the
// matched schema and the index of the header line. Everything before the
// header is vendor preamble and is discarded by the caller. Detect returns
// SchemaUnknown and -1 when no signature matches.
func Detect(lines []string) (Schema, int) {
	for i, line := range lines {
		key := canonicalHeader(line)
		for _, sig := range headerSignatures {
			if strings.HasPrefix(key, sig.prefix) {
				return sig.schema, i
			}
		}
	}
	return SchemaUnknown, -1
}

// canonicalHeader lowercases a line and strips whitespace and quotes so
// header comparison survives vendor formatting quirks.
func canonicalHeader(line string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(line) {
		switch r {
		case ' ', '\t', '"', '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
