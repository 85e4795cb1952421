package stats

import (
	"fmt"
	"slices"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day counted from 1970-01-01.
type Day int

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// ParseDay accepts "YYYY-MM-DD" or any string starting with it, such as an
// RFC 3339 timestamp.
func ParseDay(s string) (Day, error) {
	if len(s) < len(dayLayout) {
		return 0, fmt.Errorf("parse day %q: too short", s)
	}
	t, err := time.Parse(dayLayout, s[:len(dayLayout)])
	if err != nil {
		return 0, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

func (d Day) String() string {
	return d.Time().Format(dayLayout)
}

// Weekday with Monday as 0.
func (d Day) weekdayIndex() int {
	return (int(d.Time().Weekday()) + 6) % 7
}

// distinct returns the sorted unique days.
func distinct(days []Day) []Day {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}
