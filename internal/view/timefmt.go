package view

import (
	"fmt"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	StampLayout = "2006-01-02T15:04"
)

var stampLayouts = []string{StampLayout, "2006-01-02T15:04:05", DayLayout}

// zone is where stamps that carry an offset are read. Zone-less stamps keep
// their wall clock reading whatever it is.
var zone = time.Local

// SetZone sets the zone used to read and display stamps with an offset.
func SetZone(loc *time.Location) {
	if loc != nil {
		zone = loc
	}
}

// ParseStamp reads a stored date or date-time. Values without a zone are wall
// clock times in loc.
func ParseStamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range stampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOnly reports whether s carries no time of day.
func DateOnly(s string) bool { return len(s) == len(DayLayout) }

// deadlineAt resolves a deadline; a bare date means the end of that day.
func deadlineAt(ddl string, loc *time.Location) (time.Time, bool) {
	if DateOnly(ddl) {
		ddl += "T23:59:59"
	}
	return ParseStamp(ddl, loc)
}

// FormatTime renders a stored stamp as "M/D" or "M/D HH:MM". End-of-day
// times render as dates.
func FormatTime(s string) string {
	t, ok := ParseStamp(s, zone)
	if !ok {
		return s
	}
	if DateOnly(s) || (t.Hour() == 23 && t.Minute() == 59) {
		return t.Format("1/2")
	}
	return t.Format("1/2 15:04")
}

// FormatSchedule renders a schedule range. A same-day end shows only its
// time.
func FormatSchedule(start, end string) string {
	if start == "" {
		return "unset"
	}
	if end == "" {
		return FormatTime(start)
	}
	s, ok1 := ParseStamp(start, zone)
	e, ok2 := ParseStamp(end, zone)
	if ok1 && ok2 && s.Format(DayLayout) == e.Format(DayLayout) {
		return fmt.Sprintf("%s - %d:%02d", FormatTime(start), e.Hour(), e.Minute())
	}
	return fmt.Sprintf("%s - %s", FormatTime(start), FormatTime(end))
}

// Urgency grades a deadline against now.
type Urgency int

const (
	UrgencyNone Urgency = iota
	Overdue
	DueToday // within 24 hours
	DueSoon  // within 3 days
	DueLater
)

func (u Urgency) String() string {
	switch u {
	case Overdue:
		return "overdue"
	case DueToday:
		return "due-24h"
	case DueSoon:
		return "due-3d"
	case DueLater:
		return "later"
	default:
		return "none"
	}
}

func DeadlineUrgency(ddl string, now time.Time) Urgency {
	at, ok := deadlineAt(ddl, now.Location())
	if !ok {
		return UrgencyNone
	}
	switch diff := at.Sub(now); {
	case diff < 0:
		return Overdue
	case diff < 24*time.Hour:
		return DueToday
	case diff < 3*24*time.Hour:
		return DueSoon
	default:
		return DueLater
	}
}
