package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	offsetPattern = regexp.MustCompile(`^([+-]\d+)d?$`)
	inPattern     = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks)$`)
	clockSuffix   = regexp.MustCompile(`^(.+?)\s+(\d{1,2}):(\d{2})$`)
)

// ParseFlexibleDate understands today/tomorrow/yesterday, day offsets such as
// "+3" or "in 2 weeks", weekday names (the next such day) and common date
// and date-time layouts. hasTime reports whether the input named a time of
// day.
func ParseFlexibleDate(input string, now time.Time) (t time.Time, hasTime bool, err error) {
	raw := strings.TrimSpace(input)
	input = strings.ToLower(raw)
	if input == "" {
		return time.Time{}, false, fmt.Errorf("empty date input")
	}
	loc := now.Location()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	// Handle natural language patterns
	switch input {
	case "today":
		return day, false, nil
	case "tomorrow":
		return day.AddDate(0, 0, 1), false, nil
	case "yesterday":
		return day.AddDate(0, 0, -1), false, nil
	case "now":
		return now.Truncate(time.Minute), true, nil
	}

	if m := offsetPattern.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		return day.AddDate(0, 0, n), false, nil
	}
	if m := inPattern.FindStringSubmatch(input); m != nil {
		n, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(m[2], "week") {
			n *= 7
		}
		return day.AddDate(0, 0, n), false, nil
	}
	for i := 1; i <= 7; i++ {
		cand := day.AddDate(0, 0, i)
		name := strings.ToLower(cand.Weekday().String())
		if input == name || input == name[:3] || input == "next "+name {
			return cand, false, nil
		}
	}

	dateFormats := []string{
		"2006-01-02",
		"2006/01/02",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
	}
	timeFormats := []string{
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/01/02 15:04",
	}
	for _, format := range timeFormats {
		if t, err := time.ParseInLocation(format, raw, loc); err == nil {
			return t, true, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), true, nil
	}
	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, raw, loc); err == nil {
			return t, false, nil
		}
	}

	// "<day> HH:MM", e.g. "tomorrow 14:00" or "fri 9:30"
	if m := clockSuffix.FindStringSubmatch(raw); m != nil {
		h, _ := strconv.Atoi(m[2])
		mi, _ := strconv.Atoi(m[3])
		if d, dayHasTime, err := ParseFlexibleDate(m[1], now); err == nil && !dayHasTime && h < 24 && mi < 60 {
			return time.Date(d.Year(), d.Month(), d.Day(), h, mi, 0, 0, loc), true, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("unable to parse date: %s", input)
}

// ParseDay returns the "2006-01-02" day named by input.
func ParseDay(input string, now time.Time) (string, error) {
	t, _, err := ParseFlexibleDate(input, now)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// ParseStamp returns input in stored form: "2006-01-02" for dates,
// "2006-01-02T15:04" for date-times.
func ParseStamp(input string, now time.Time) (string, error) {
	t, hasTime, err := ParseFlexibleDate(input, now)
	if err != nil {
		return "", err
	}
	if hasTime {
		return t.Format("2006-01-02T15:04"), nil
	}
	return t.Format("2006-01-02"), nil
}

// ParseMonth reads "2006-01" (or "" for now's month).
func ParseMonth(input string, now time.Time) (int, time.Month, error) {
	if strings.TrimSpace(input) == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", strings.TrimSpace(input))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (want YYYY-MM)", input)
	}
	return t.Year(), t.Month(), nil
}

// GetDateRange returns start and end time for common presets
func GetDateRange(preset string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch strings.ToLower(preset) {
	case "", "today":
		return today, today.AddDate(0, 0, 1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), today.AddDate(0, 0, 2), nil
	case "week":
		weekday := int(now.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		start := today.AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 7), nil
	case "next7days", "next-7-days":
		return today, today.AddDate(0, 0, 7), nil
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown date preset: %s", preset)
	}
}
