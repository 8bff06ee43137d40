// Package tree holds the node store: every task node of every page, keyed by id,
// linked into disjoint trees by parent/children references.
package tree

import (
	"fmt"
	"strings"
)

// PlannerRootID is the parent id of nodes created directly from the planner.
// No node with this id exists; such nodes live outside every page tree.
const PlannerRootID = "planner-hidden-root"

const (
	MaxEnergy       = 5
	MaxHeadingDepth = 2
)

// Period is a coarse time-of-day bucket used by the planner.
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

// Periods lists the planner periods in display order.
var Periods = []Period{Morning, Afternoon, Evening}

// ParsePeriod accepts a period name or its first letter.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "m", "am":
		return Morning, nil
	case "afternoon", "a", "pm":
		return Afternoon, nil
	case "evening", "e", "night":
		return Evening, nil
	}
	return "", fmt.Errorf("unknown period %q (want morning|afternoon|evening)", s)
}

// PeriodOfHour maps an hour of day to its period: before 12 is morning,
// 12 to 18 afternoon, 18 and later evening.
func PeriodOfHour(hour int) Period {
	switch {
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// Slot is a manual planner placement.
type Slot struct {
	Date   string `json:"date"`
	Period Period `json:"period"`
}

// TimeKind tags which time association a node carries.
type TimeKind int

const (
	TimeNone TimeKind = iota
	TimeDeadline
	TimeSchedule
)

func (k TimeKind) String() string {
	switch k {
	case TimeDeadline:
		return "deadline"
	case TimeSchedule:
		return "schedule"
	default:
		return "none"
	}
}

// TimeSpec is a node's time association. Only the fields of the active kind
// are meaningful; constructors zero the rest.
type TimeSpec struct {
	Kind     TimeKind
	Deadline string // "2006-01-02" or "2006-01-02T15:04"
	Start    string // "2006-01-02T15:04"
	End      string
	ShowTime bool
}

func NoTime() TimeSpec { return TimeSpec{} }

func DeadlineAt(ddl string) TimeSpec {
	return TimeSpec{Kind: TimeDeadline, Deadline: ddl}
}

func ScheduleAt(start, end string, showTime bool) TimeSpec {
	return TimeSpec{Kind: TimeSchedule, Start: start, End: end, ShowTime: showTime}
}

// Node is one task, heading or page root.
type Node struct {
	ID        string
	Text      string
	Children  []string
	ParentID  string // empty for roots
	IsRoot    bool
	Collapsed bool
	Completed bool
	Energy    int
	Time      TimeSpec
	Notes     string
	Slots     []Slot
	Heading   bool
	New       bool
}

// PlannerOnly reports whether the node hangs off the hidden planner root.
func (n Node) PlannerOnly() bool { return n.ParentID == PlannerRootID }

// HasSlot reports whether the node is manually planned into (date, period).
func (n Node) HasSlot(date string, p Period) bool {
	for _, s := range n.Slots {
		if s.Date == date && s.Period == p {
			return true
		}
	}
	return false
}

func (n *Node) clone() *Node {
	c := *n
	c.Children = append([]string{}, n.Children...)
	c.Slots = append([]Slot{}, n.Slots...)
	return &c
}

func newNode(id, parentID string) *Node {
	return &Node{ID: id, ParentID: parentID, Children: []string{}, Slots: []Slot{}, New: true}
}
