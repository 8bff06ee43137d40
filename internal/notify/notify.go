package notify

import (
	"fmt"
	"strings"

	"github.com/gen2brain/beeep"
)

const appName = "MindTask"

func Info(title, message string) error {
	return beeep.Notify(title, message, "")
}

func Alert(message string) error {
	return beeep.Alert(appName, message, "")
}

// FormatDueReminder builds the daily reminder for deadlines due today and
// overdue. ok is false when there is nothing to report.
func FormatDueReminder(dueToday, overdue []string) (title, msg string, ok bool) {
	if len(dueToday) == 0 && len(overdue) == 0 {
		return "", "", false
	}
	title = "MindTask deadlines"
	var parts []string
	if len(overdue) > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue: %s", len(overdue), list(overdue)))
	}
	if len(dueToday) > 0 {
		parts = append(parts, fmt.Sprintf("%d due today: %s", len(dueToday), list(dueToday)))
	}
	return title, strings.Join(parts, "\n"), true
}

// FormatUpdate builds the new-release notification.
func FormatUpdate(current, latest string) (string, string) {
	return "MindTask update available",
		fmt.Sprintf("Version %s is available (you have %s).", latest, current)
}

func list(texts []string) string {
	const max = 3
	names := make([]string, 0, max)
	for i, t := range texts {
		if i == max {
			names = append(names, fmt.Sprintf("+%d more", len(texts)-max))
			break
		}
		if t == "" {
			t = "(untitled)"
		}
		names = append(names, t)
	}
	return strings.Join(names, ", ")
}
