package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// normalizeDate maps the date forms seen across vendor exports (ISO,
// MM/DD/YYYY, DD/MM/YYYY, DD-Mon-YYYY) to YYYY-MM-DD. The boolean reports
// whether a known pattern matched; on a miss the first 10 characters are
// returned verbatim as a best-effort fallback and the caller must record a
// data-quality warning.
func normalizeDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if t, err := time.Parse("2006-01-02", truncate(s, 10)); err == nil {
		return t.Format("2006-01-02"), true
	}

	if strings.Count(s, "/") == 2 {
		if d, ok := normalizeSlashDate(s); ok {
			return d, true
		}
	}

	for _, layout := range []string{"02-Jan-2006", "2-Jan-2006", "02-Jan-06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	return truncate(s, 10), false
}

// normalizeSlashDate resolves the DD/MM/YYYY vs MM/DD/YYYY ambiguity: a
// first component over 12 forces day-first, a second over 12 forces
// month-first, and the ambiguous remainder reads day-first since Indian
// brokerage exports are day-first.
func normalizeSlashDate(s string) (string, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false
	}
	a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	y, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if y < 100 {
		y += 2000
	}

	day, month := a, b
	if a <= 12 && b > 12 {
		day, month = b, a
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}

	t := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// splitTimestamp separates a combined execution timestamp into date and
// HH:MM time on its separator (T or space). A bare date yields an empty
// time.
func splitTimestamp(raw string) (date, clock string) {
	s := strings.TrimSpace(raw)
	sep := strings.IndexAny(s, "T ")
	if sep < 0 {
		return s, ""
	}
	date = s[:sep]
	rest := strings.TrimSpace(s[sep+1:])
	if len(rest) >= 5 {
		if _, err := time.Parse("15:04", rest[:5]); err == nil {
			return date, rest[:5]
		}
	}
	return date, ""
}

// normalizeClock maps a bare time column to HH:MM.
func normalizeClock(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 5 {
		if _, err := time.Parse("15:04", s[:5]); err == nil {
			return s[:5]
		}
	}
	if len(s) == 4 && !strings.Contains(s, ":") {
		// HHMM without separator
		if _, err := time.Parse("1504", s); err == nil {
			return fmt.Sprintf("%s:%s", s[:2], s[2:])
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
