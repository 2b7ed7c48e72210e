package timeutil

import (
	"fmt"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

// DayLayout is the calendar date format accepted on the command line.
const DayLayout = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func FormatDay(value time.Time) string {
	return value.Format(DayLayout)
}

// ParseDay resolves a date argument. Exact YYYY-MM-DD values are tried first;
// anything else is interpreted as natural language ("last monday", "2 weeks ago")
// relative to ref. Input that contains no date expression at all is rejected.
// The result is normalized to the start of the resolved day.
func ParseDay(value string, ref time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if parsed, err := time.ParseInLocation(DayLayout, trimmed, ref.Location()); err == nil {
		return parsed, nil
	}

	// The natural-language grammar swallows unrecognized words without moving
	// the reference time. Anchored at noon, every date phrase yields a time
	// that differs from the anchor, so an unchanged result means the input
	// held no date expression.
	anchor := time.Date(ref.Year(), ref.Month(), ref.Day(), 12, 0, 0, 0, ref.Location())
	parsed, err := naturaldate.Parse(trimmed, anchor)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", value, err)
	}
	if parsed.Equal(anchor) {
		return time.Time{}, fmt.Errorf("parse day %q: no date expression found", value)
	}
	return StartOfDay(parsed), nil
}
