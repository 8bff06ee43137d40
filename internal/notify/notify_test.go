package notify

import "testing"

func TestFormatDueReminder(t *testing.T) {
	if _, _, ok := FormatDueReminder(nil, nil); ok {
		t.Fatalf("nothing due should not notify")
	}
	title, msg, ok := FormatDueReminder([]string{"Ship", ""}, []string{"a", "b", "c", "d"})
	if !ok || title == "" {
		t.Fatalf("expected a reminder")
	}
	want := "4 overdue: a, b, c, +1 more\n2 due today: Ship, (untitled)"
	if msg != want {
		t.Fatalf("msg = %q, want %q", msg, want)
	}
}

func TestFormatUpdate(t *testing.T) {
	_, msg := FormatUpdate("1.0.0", "v1.1.0")
	if msg != "Version v1.1.0 is available (you have 1.0.0)." {
		t.Fatalf("msg = %q", msg)
	}
}
