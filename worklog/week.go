package worklog

import (
	"fmt"
	"time"

	"github.com/ClearDemand/tempo-utils/internal/timeutil"
)

// Week is a seven day range identified by its first day. The start is used
// exactly as given; it is not snapped to a particular weekday.
type Week struct {
	Start time.Time
}

// NewWeek anchors a week at the start of the given day.
func NewWeek(start time.Time) Week {
	return Week{Start: timeutil.StartOfDay(start)}
}

// ParseWeek resolves a week start argument, exact date or natural language.
func ParseWeek(value string, ref time.Time) (Week, error) {
	day, err := timeutil.ParseDay(value, ref)
	if err != nil {
		return Week{}, err
	}
	return NewWeek(day), nil
}

// End returns the last day covered by the week.
func (w Week) End() time.Time {
	return w.Start.AddDate(0, 0, 6)
}

// Contains reports whether day falls inside the week. UTC midnights make the
// comparison independent of the zones the two times carry.
func (w Week) Contains(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(start) && !d.After(start.AddDate(0, 0, 6))
}

// Days lists the seven days of the week in order.
func (w Week) Days() []time.Time {
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, w.Start.AddDate(0, 0, i))
	}
	return days
}

// DaysUntil returns the whole-day offset from this week's start to other's
// start. UTC midnights keep the subtraction in whole days across DST changes.
func (w Week) DaysUntil(other Week) int {
	a := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(other.Start.Year(), other.Start.Month(), other.Start.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}

func (w Week) String() string {
	return fmt.Sprintf("%s..%s", timeutil.FormatDay(w.Start), timeutil.FormatDay(w.End()))
}
