package dateutil

import (
	"testing"
	"time"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestCountBusinessDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"start after end", date(2024, 3, 10), date(2024, 3, 1), 0},
		{"single weekday", date(2024, 3, 4), date(2024, 3, 4), 1},
		{"single saturday", date(2024, 3, 2), date(2024, 3, 2), 0},
		{"full mon-fri week", date(2024, 3, 4), date(2024, 3, 8), 5},
		{"week including weekend", date(2024, 3, 4), date(2024, 3, 10), 5},
		{"march 2024", date(2024, 3, 1), date(2024, 3, 31), 21},
		{"february 2024", date(2024, 2, 1), date(2024, 2, 29), 21},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := CountBusinessDays(c.start, c.end)
			if got != c.want {
				t.Errorf("CountBusinessDays(%s, %s) = %d, want %d",
					c.start.Format("2006-01-02"), c.end.Format("2006-01-02"), got, c.want)
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(2024, 2)
	if !start.Equal(date(2024, 2, 1)) {
		t.Errorf("start = %s, want 2024-02-01", start.Format("2006-01-02"))
	}
	if !end.Equal(date(2024, 2, 29)) {
		t.Errorf("end = %s, want 2024-02-29", end.Format("2006-01-02"))
	}
}
