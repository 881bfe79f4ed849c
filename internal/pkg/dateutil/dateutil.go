package dateutil

import "time"

// CountBusinessDays counts the days in [start, end] inclusive that fall on
// Monday through Friday. No holiday calendar is applied. Returns 0 when
// start is after end.
func CountBusinessDays(start, end time.Time) int {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if start.After(end) {
		return 0
	}

	days := 0
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		switch cur.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}

// MonthBounds returns the first and last day of the given month.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
