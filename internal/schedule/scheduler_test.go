package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mindtask/mindtask/internal/config"
)

func TestNextAt(t *testing.T) {
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.Reminder.Time = "09:30"
	cfg.Reminder.Holidays = []string{"2024-06-03"}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before time on a workday", time.Date(2024, 6, 4, 8, 0, 0, 0, time.UTC), time.Date(2024, 6, 4, 9, 30, 0, 0, time.UTC)},
		{"after time rolls to next day", time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC), time.Date(2024, 6, 5, 9, 30, 0, 0, time.UTC)},
		{"skips weekend and holiday", time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC), time.Date(2024, 6, 4, 9, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := NextAt(tt.now, cfg); !got.Equal(tt.want) {
			t.Errorf("%s: NextAt = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAfter(t *testing.T) {
	var ran atomic.Bool
	if !After(context.Background(), time.Millisecond, func() { ran.Store(true) }) || !ran.Load() {
		t.Fatalf("After did not run f")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if After(ctx, time.Hour, func() { t.Error("f ran after cancel") }) {
		t.Fatalf("After reported running after cancel")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		run(ctx, func() time.Time { return time.Now().Add(time.Millisecond) }, func() {
			if calls.Add(1) == 3 {
				cancel()
			}
		})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
	if calls.Load() < 3 {
		t.Fatalf("calls = %d", calls.Load())
	}
}
