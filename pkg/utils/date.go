package utils

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar-date layout used for article dates, price
// bars, and job ranges. Lexicographic comparison of dates in this layout
// matches chronological order, which the range filters rely on.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DatesBetween returns every calendar date in [start, end] inclusive as
// YYYY-MM-DD strings, in ascending order.
func DatesBetween(start, end string) ([]string, error) {
	startT, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	endT, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if endT.Before(startT) {
		return nil, fmt.Errorf("end date %s is before start date %s", end, start)
	}

	var dates []string
	for d := startT; !d.After(endT); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates, nil
}

// InDateRange reports whether date falls within [start, end] inclusive.
// All three are YYYY-MM-DD strings; string comparison is intentional.
func InDateRange(date, start, end string) bool {
	return date >= start && date <= end
}
