package view

import (
	"time"

	"github.com/mindtask/mindtask/internal/tree"
)

// MonthGrid lays out a month in Monday-first weeks. Leading and trailing
// cells outside the month are zero times.
func MonthGrid(year int, month time.Month) [][7]time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lead := (int(first.Weekday()) + 6) % 7
	days := first.AddDate(0, 1, -1).Day()

	var weeks [][7]time.Time
	var week [7]time.Time
	col := lead
	for d := 1; d <= days; d++ {
		week[col] = time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]time.Time{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

// DayTasks lists nodes whose deadline or schedule start falls on day,
// deadlines first.
func DayTasks(r tree.Reader, day string, energy int) []tree.Node {
	var out []tree.Node
	for _, n := range Deadlines(r, energy) {
		if onDay(n.Time.Deadline, day) {
			out = append(out, n)
		}
	}
	for _, n := range Schedules(r, energy) {
		if onDay(n.Time.Start, day) {
			out = append(out, n)
		}
	}
	return out
}

func onDay(stamp, day string) bool {
	t, ok := ParseStamp(stamp, time.UTC)
	return ok && t.Format(DayLayout) == day
}
