package relational

import (
	"time"
)

// FormatTimeForDB stores comment timestamps as RFC3339 text in UTC.
// Comment order comes from the row id, never from this column.
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimeFromDB parses a stored timestamp. An empty value is the zero time.
func ParseTimeFromDB(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
