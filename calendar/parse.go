package calendar

import (
	"fmt"
	"time"
)

// Timestamp formats accepted from clients, tried in order. time.Parse
// rejects out-of-range components (month 40, day 32), so a successful parse
// means a real calendar date.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a client-supplied date or date-time string.
// Returns the parsed instant in UTC, or an error for anything that does not
// resolve to a real calendar date.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	var lastErr error
	for _, layout := range timestampFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, lastErr)
}
