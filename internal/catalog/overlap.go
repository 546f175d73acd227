package catalog

import (
	"cmp"
	"time"
)

// MonthDay is a calendar day with the year discarded.
// Month uses the time.Month convention (January == 1).
type MonthDay struct {
	Month time.Month
	Day   int
}

// MonthDayOf returns the month and day of t in t's own location.
func MonthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// Compare orders month/day pairs lexicographically: month first, then day.
// It returns -1, 0 or +1.
func (m MonthDay) Compare(o MonthDay) int {
	if c := cmp.Compare(m.Month, o.Month); c != 0 {
		return c
	}
	return cmp.Compare(m.Day, o.Day)
}

// InAnnualRange reports whether date falls inside the yearly recurring window
// [start, end], both ends inclusive.
//
// A window with start <= end lies within one calendar year. A window with
// start > end crosses new year (e.g. Nov 15 -> Mar 15) and matches the tail of
// one year OR the head of the next. start == end matches that single day.
func InAnnualRange(date, start, end MonthDay) bool {
	if start.Compare(end) <= 0 {
		return start.Compare(date) <= 0 && date.Compare(end) <= 0
	}
	return date.Compare(start) >= 0 || date.Compare(end) <= 0
}
