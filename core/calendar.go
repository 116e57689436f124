package core

import "time"

// Calendar resolves the reporting window boundaries for one run. It is
// anchored at a fixed Now so every component in the run sees the same
// instants and tests can pin the clock.
type Calendar struct {
	Now time.Time
}

// NewCalendar returns a calendar anchored at the given instant.
func NewCalendar(now time.Time) *Calendar {
	return &Calendar{Now: now}
}

// WeekSpan is one Monday-Sunday slice of a month, clipped at the month
// boundaries. Index is 1-based in calendar order; the first and last span
// of a month may be shorter than seven days.
type WeekSpan struct {
	Index int
	Start time.Time // first day of the span at 00:00:00
	End   time.Time // last day of the span at 23:59:59
}

// LastFriday returns Friday 23:59:59 of the week immediately preceding the
// week containing Now. Weeks run Monday through Sunday, so on a Monday this
// reaches back three days and on a Sunday eight.
func (c *Calendar) LastFriday() time.Time {
	monday := mondayOf(c.Now)
	friday := monday.AddDate(0, 0, -7).AddDate(0, 0, 4)
	return endOfDay(friday)
}

// QuarterStart returns the first day of the quarter containing Now at
// 00:00:00. Quarters anchor at January, April, July and October.
func (c *Calendar) QuarterStart() time.Time {
	month := time.Month(((int(c.Now.Month())-1)/3)*3 + 1)
	return time.Date(c.Now.Year(), month, 1, 0, 0, 0, 0, c.Now.Location())
}

// LastMonthEnd returns the final instant of the month before Now's month.
func (c *Calendar) LastMonthEnd() time.Time {
	firstOfMonth := time.Date(c.Now.Year(), c.Now.Month(), 1, 0, 0, 0, 0, c.Now.Location())
	return endOfDay(firstOfMonth.AddDate(0, 0, -1))
}

// WeeksInMonth partitions a month into Monday-Sunday spans clipped at the
// month boundaries, in calendar order.
func (c *Calendar) WeeksInMonth(year int, month time.Month) []WeekSpan {
	loc := c.Now.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	var spans []WeekSpan
	cursor := first
	for !cursor.After(last) {
		endDay := sundayOf(cursor)
		if endDay.After(last) {
			endDay = last
		}
		spans = append(spans, WeekSpan{
			Index: len(spans) + 1,
			Start: cursor,
			End:   endOfDay(endDay),
		})
		cursor = endDay.AddDate(0, 0, 1)
	}
	return spans
}

// WeekOfMonth returns the 1-based index of the week span containing Now.
func (c *Calendar) WeekOfMonth() int {
	day := time.Date(c.Now.Year(), c.Now.Month(), c.Now.Day(), 0, 0, 0, 0, c.Now.Location())
	for _, span := range c.WeeksInMonth(c.Now.Year(), c.Now.Month()) {
		if !day.Before(span.Start) && !day.After(span.End) {
			return span.Index
		}
	}
	return 1
}

// IsLastWeekOfMonth reports whether Now falls in the month's final week span.
func (c *Calendar) IsLastWeekOfMonth() bool {
	spans := c.WeeksInMonth(c.Now.Year(), c.Now.Month())
	return c.WeekOfMonth() == len(spans)
}

// ShouldCalculateMonthlyShift reports whether monthly shifts are meaningful
// right now. In the early weeks of a quarter-start month the previous month
// end lies across the quarter boundary, so monthly movement is suppressed
// until week 4 of that month.
func (c *Calendar) ShouldCalculateMonthlyShift() bool {
	if !isQuarterStartMonth(c.Now.Month()) {
		return true
	}
	week := c.WeekOfMonth()
	return week == 4 || week == 5
}

func isQuarterStartMonth(m time.Month) bool {
	switch m {
	case time.January, time.April, time.July, time.October:
		return true
	default:
		return false
	}
}

// mondayOf returns the Monday of the week containing t, at 00:00:00.
func mondayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 { // time.Sunday
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}

// sundayOf returns the Sunday of the week containing t, at 00:00:00.
func sundayOf(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, 7-weekday)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
