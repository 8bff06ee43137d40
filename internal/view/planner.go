package view

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/mindtask/mindtask/internal/tree"
)

// Hours are the start hours used when a task is dropped into or created in a
// period.
type Hours struct {
	Morning   int
	Afternoon int
	Evening   int
}

var DefaultHours = Hours{Morning: 9, Afternoon: 14, Evening: 19}

func (h Hours) For(p tree.Period) int {
	switch p {
	case tree.Afternoon:
		return h.Afternoon
	case tree.Evening:
		return h.Evening
	default:
		return h.Morning
	}
}

// StartOf returns the stamp of period p on day.
func (h Hours) StartOf(day string, p tree.Period) string {
	return fmt.Sprintf("%sT%02d:00", day, h.For(p))
}

// InPeriod reports whether n belongs in the (day, p) bucket: either its
// schedule starts on day within p's hours, or it carries a matching slot.
// The two rules are independent.
func InPeriod(n tree.Node, day string, p tree.Period) bool {
	if n.Time.Kind == tree.TimeSchedule && n.Time.Start != "" {
		if start, ok := ParseStamp(n.Time.Start, zone); ok &&
			start.Format(DayLayout) == day && tree.PeriodOfHour(start.Hour()) == p {
			return true
		}
	}
	return n.HasSlot(day, p)
}

// Bucket lists the nodes planned into (day, p), ordered by schedule start
// then text.
func Bucket(r tree.Reader, day string, p tree.Period) []tree.Node {
	var out []tree.Node
	r.Each(func(n tree.Node) bool {
		if !n.IsRoot && InPeriod(n, day, p) {
			out = append(out, n)
		}
		return true
	})
	slices.SortStableFunc(out, func(a, b tree.Node) int {
		return cmp.Or(
			cmp.Compare(a.Time.Start, b.Time.Start),
			cmp.Compare(a.Text, b.Text),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return out
}

// Board is the planner for one day, keyed by period.
func Board(r tree.Reader, day string) map[tree.Period][]tree.Node {
	b := make(map[tree.Period][]tree.Node, len(tree.Periods))
	for _, p := range tree.Periods {
		b[p] = Bucket(r, day, p)
	}
	return b
}

// PlanPatch computes the change that drops n into (day, p). Scheduled nodes
// move to the period's start hour, keeping their duration; other nodes gain
// a slot. ok is false when n is already in the slot.
func PlanPatch(n tree.Node, day string, p tree.Period, h Hours) (tree.Patch, bool) {
	if n.Time.Kind == tree.TimeSchedule {
		start := h.StartOf(day, p)
		end := n.Time.End
		if old, ok := ParseStamp(n.Time.Start, zone); ok {
			if e, ok := ParseStamp(end, zone); ok {
				s, _ := ParseStamp(start, zone)
				end = s.Add(e.Sub(old)).Format(StampLayout)
			}
		}
		if start == n.Time.Start && end == n.Time.End {
			return tree.Patch{}, false
		}
		return tree.Patch{Time: tree.Ptr(tree.ScheduleAt(start, end, n.Time.ShowTime))}, true
	}
	if n.HasSlot(day, p) {
		return tree.Patch{}, false
	}
	slots := append(slices.Clone(n.Slots), tree.Slot{Date: day, Period: p})
	return tree.Patch{Slots: &slots}, true
}

// Removal says how taking a node off the planner affects it.
type Removal int

const (
	RemoveSlot          Removal = iota // drop the matching slot
	RemoveSchedule                     // clear the schedule, needs confirmation
	RemovePlannerTask                  // delete the planner-only node, needs confirmation
)

func (r Removal) NeedsConfirm() bool { return r != RemoveSlot }

// UnplanPatch describes taking n out of (day, p). For RemovePlannerTask the
// patch is empty and the caller deletes the node.
func UnplanPatch(n tree.Node, day string, p tree.Period) (Removal, tree.Patch) {
	switch {
	case n.PlannerOnly():
		return RemovePlannerTask, tree.Patch{}
	case n.Time.Kind == tree.TimeSchedule:
		return RemoveSchedule, tree.Patch{Time: tree.Ptr(tree.NoTime())}
	}
	slots := slices.DeleteFunc(slices.Clone(n.Slots), func(s tree.Slot) bool {
		return s.Date == day && s.Period == p
	})
	return RemoveSlot, tree.Patch{Slots: &slots}
}

// PlannerTaskTime is the time given to a task created in (day, p).
func PlannerTaskTime(day string, p tree.Period, h Hours) tree.TimeSpec {
	return tree.ScheduleAt(h.StartOf(day, p), "", false)
}

// ShiftDay moves a "2006-01-02" day by offset days.
func ShiftDay(day string, offset int) string {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, offset).Format(DayLayout)
}
