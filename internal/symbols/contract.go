// Package symbols parses vendor-specific derivative symbol encodings into
// one canonical contract tuple.
//
// Every brokerage writes the same contract differently: compact monthly
// options (NIFTY25JUN24500CE), NSE weekly compacts with a single-character
// month (NIFTY2560524500CE), spaced contract-note forms
// (NIFTY 25-Jun-2025 24500 CE), compact futures (BANKNIFTY25JUNFUT), and
// bare equity symbols. Parse tries one case per known dialect and falls
// back to an unparsed variant rather than failing.
package symbols

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the contract type.
type Kind string

const (
	KindCall     Kind = "CE"
	KindPut      Kind = "PE"
	KindFuture   Kind = "FUT"
	KindEquity   Kind = "EQ"
	KindUnparsed Kind = "UNPARSED"
)

// Contract is the canonical (underlying, expiry, strike, kind) tuple.
// Dialects that omit the expiry day normalize to the first of the contract
// month. Raw always keeps the original symbol text.
type Contract struct {
	Raw        string    `json:"raw"`
	Underlying string    `json:"underlying"`
	Expiry     time.Time `json:"expiry,omitempty"`
	Strike     float64   `json:"strike,omitempty"`
	Kind       Kind      `json:"kind"`
}

// Equal reports whether two contracts name the same instrument: exact on
// underlying, expiry, strike, and kind. Unparsed contracts compare by raw
// text only.
func (c Contract) Equal(other Contract) bool {
	if c.Kind == KindUnparsed || other.Kind == KindUnparsed {
		return c.Kind == other.Kind && c.Raw == other.Raw
	}
	return c.Underlying == other.Underlying &&
		c.Expiry.Equal(other.Expiry) &&
		c.Strike == other.Strike &&
		c.Kind == other.Kind
}

var (
	// NIFTY25JUN24500CE
	monthlyOptionRe = regexp.MustCompile(`^([A-Z][A-Z0-9&]*?)(\d{2})(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)(\d+(?:\.\d+)?)(CE|PE)$`)
	// NIFTY2560524500CE: YY, single-char month (1-9, O, N, D), DD
	weeklyOptionRe = regexp.MustCompile(`^([A-Z][A-Z0-9&]*?)(\d{2})([1-9OND])(\d{2})(\d+(?:\.\d+)?)(CE|PE)$`)
	// NIFTY 25-Jun-2025 24500 CE
	spacedOptionRe = regexp.MustCompile(`^([A-Z][A-Z0-9&]*)\s+(\d{1,2}-[A-Za-z]{3}-\d{4})\s+(\d+(?:\.\d+)?)\s+(CE|PE)$`)
	// BANKNIFTY25JUNFUT
	futureRe = regexp.MustCompile(`^([A-Z][A-Z0-9&]*?)(\d{2})(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)FUT$`)
	// RELIANCE or RELIANCE-EQ
	equityRe = regexp.MustCompile(`^([A-Z][A-Z0-9&]*)(-EQ)?$`)
)

var months = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// weeklyMonths decodes the NSE weekly single-character month.
var weeklyMonths = map[string]time.Month{
	"1": time.January, "2": time.February, "3": time.March,
	"4": time.April, "5": time.May, "6": time.June,
	"7": time.July, "8": time.August, "9": time.September,
	"O": time.October, "N": time.November, "D": time.December,
}

// Parse maps a raw instrument symbol to a canonical contract. It never
// fails: symbols matching no known dialect come back as KindUnparsed with
// the raw text retained.
func Parse(raw string) Contract {
	s := strings.ToUpper(strings.TrimSpace(raw))
	c := Contract{Raw: raw, Kind: KindUnparsed}
	if s == "" {
		return c
	}

	// Weekly before monthly: a weekly symbol's digit run would otherwise
	// misread as part of a monthly strike.
	if m := weeklyOptionRe.FindStringSubmatch(s); m != nil {
		month, ok := weeklyMonths[m[3]]
		day, _ := strconv.Atoi(m[4])
		if ok && validDay(day) {
			c.Underlying = m[1]
			c.Expiry = date(2000+atoi(m[2]), month, day)
			c.Strike = atof(m[5])
			c.Kind = Kind(m[6])
			return c
		}
	}

	if m := monthlyOptionRe.FindStringSubmatch(s); m != nil {
		c.Underlying = m[1]
		c.Expiry = date(2000+atoi(m[2]), months[m[3]], 1)
		c.Strike = atof(m[4])
		c.Kind = Kind(m[5])
		return c
	}

	if m := spacedOptionRe.FindStringSubmatch(s); m != nil {
		if expiry, err := time.Parse("2-Jan-2006", m[2]); err == nil {
			c.Underlying = m[1]
			c.Expiry = expiry
			c.Strike = atof(m[3])
			c.Kind = Kind(m[4])
			return c
		}
	}

	if m := futureRe.FindStringSubmatch(s); m != nil {
		c.Underlying = m[1]
		c.Expiry = date(2000+atoi(m[2]), months[m[3]], 1)
		c.Kind = KindFuture
		return c
	}

	if m := equityRe.FindStringSubmatch(s); m != nil {
		c.Underlying = m[1]
		c.Kind = KindEquity
		return c
	}

	return c
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
