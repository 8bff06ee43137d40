package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/mindtask/mindtask/internal/config"
)

// NextAt computes the next occurrence of reminder time that is on a configured workday and not a holiday.
func NextAt(now time.Time, cfg config.Config) time.Time {
	loc := cfg.Location()
	now = now.In(loc)

	// parse "HH:MM"
	hour, min := 9, 0
	if t, err := time.ParseInLocation("15:04", strings.TrimSpace(cfg.Reminder.Time), loc); err == nil {
		hour = t.Hour()
		min = t.Minute()
	}
	workdays := map[string]bool{}
	for _, d := range cfg.Reminder.Workdays {
		workdays[d] = true
	}
	if len(workdays) == 0 {
		for _, d := range config.Default().Reminder.Workdays {
			workdays[d] = true
		}
	}
	holidays := map[string]bool{}
	for _, h := range cfg.Reminder.Holidays {
		holidays[strings.TrimSpace(h)] = true
	}

	// candidate today at hh:mm
	cand := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	for i := 0; i < 366; i++ {
		if workdays[cand.Weekday().String()[:3]] && !holidays[cand.Format("2006-01-02")] {
			return cand
		}
		cand = cand.AddDate(0, 0, 1)
	}
	return cand
}

// RunConfigured runs the reminder callback at the configured schedule until ctx is canceled.
func RunConfigured(ctx context.Context, cfg config.Config, f func()) {
	run(ctx, func() time.Time { return NextAt(time.Now(), cfg) }, f)
}

func run(ctx context.Context, next func() time.Time, f func()) {
	t := time.NewTimer(time.Until(next()))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f()
			t.Reset(time.Until(next()))
		}
	}
}

// After calls f once d has elapsed, unless ctx is canceled first. It reports
// whether f ran.
func After(ctx context.Context, d time.Duration, f func()) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		f()
		return true
	}
}
