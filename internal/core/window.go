package core

import "time"

// Window is an inclusive calendar-month range. Start is the first instant of
// the month and End the last, so a date-only comparison against [Start, End]
// keeps both the first and the last day.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the full calendar month containing ref.
func MonthWindow(ref time.Time) Window {
	y, m, _ := ref.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

// Contains reports whether the calendar date of t falls inside the window.
// Comparison is on year/month/day, never on the instant, so a transaction
/// stamped 23:59 on the last day of the month in any zone offset still counts.
func (w Window) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.Start.Location())
	return !d.Before(truncateToDay(w.Start)) && !d.After(truncateToDay(w.End))
}

// AdvanceMonth shifts ref by whole months, clamping the day of month to the
// target month's length so that advancing from Jan 31 by one month lands in
// February, not March. Advancing by +k then -k is always month-equal to the
// original reference.
func AdvanceMonth(ref time.Time, months int) time.Time {
	y, m, d := ref.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, ref.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}

// CurrentMonth resets the reference date to now.
func CurrentMonth() time.Time {
	return time.Now()
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}
