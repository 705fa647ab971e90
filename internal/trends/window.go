// Package trends turns a window of raw observations into the dense daily
// summaries, weekly trends and overall statistics rendered by the dashboard.
//
// Everything here is pure and deterministic: the same observations and the
// same window always produce the same result. Nothing is cached and nothing
// is mutated after it is built.
package trends

import "time"

// DateLayout is the calendar-date key used for grouping and in responses.
const DateLayout = "2006-01-02"

// Window is a run of consecutive UTC calendar dates ending at End.
type Window struct {
	End  time.Time
	Days int
}

// NewWindow returns the days-long window whose last date is the UTC date of now.
func NewWindow(now time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	return Window{End: truncateDay(now), Days: days}
}

// Start is the first calendar date of the window.
func (w Window) Start() time.Time {
	return w.End.AddDate(0, 0, -(w.Days - 1))
}

// Dates lists every date key in the window, oldest first.
func (w Window) Dates() []string {
	start := w.Start()
	dates := make([]string, w.Days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// QueryRange is the storage read range for a days-long window ending at now:
// [now - days, now]. It starts before the window's first date; FillGaps
// drops anything outside the window.
func QueryRange(now time.Time, days int) (time.Time, time.Time) {
	// Step back in UTC; a local zone with DST can shorten a calendar day
	now = now.UTC()
	return now.AddDate(0, 0, -days), now
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
