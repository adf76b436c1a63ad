package dates

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DefaultFormats is the layout try-order used when no override is
// configured. Month-first comes before day-first, which decides how
// ambiguous strings like "3/4/2022" are read; deployments with
// day-first source data should reorder via configuration rather than
// rely on the fallback.
var DefaultFormats = []string{
	"1/2/2006",
	"2006-01-02",
	"02-01-2006",
}

// Parse attempts each layout in order and returns the first match.
// Strings no layout accepts go through a permissive last-chance parse.
// ok is false when nothing matched; callers skip the row.
func Parse(raw string, formats []string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// MonthKey derives the chronological grouping bucket for a date.
// Lexicographic order of the keys equals chronological order.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
