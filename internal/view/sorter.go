package view

import (
	"slices"
	"strings"
	"time"

	"github.com/mindtask/mindtask/internal/tree"
)

// Deadlines lists non-root nodes with a deadline, soonest first.
func Deadlines(r tree.Reader, energy int) []tree.Node {
	return sortedBy(r, energy, func(n tree.Node) string {
		if n.Time.Kind != tree.TimeDeadline {
			return ""
		}
		return n.Time.Deadline
	})
}

// Schedules lists non-root nodes with a schedule start, earliest first.
func Schedules(r tree.Reader, energy int) []tree.Node {
	return sortedBy(r, energy, func(n tree.Node) string {
		if n.Time.Kind != tree.TimeSchedule {
			return ""
		}
		return n.Time.Start
	})
}

func sortedBy(r tree.Reader, energy int, key func(tree.Node) string) []tree.Node {
	type keyed struct {
		n  tree.Node
		at time.Time
	}
	f := Filter{Energy: energy}
	var items []keyed
	r.Each(func(n tree.Node) bool {
		if n.IsRoot || !f.matchEnergy(n) {
			return true
		}
		s := key(n)
		at, ok := ParseStamp(s, zone)
		if s != "" && ok {
			items = append(items, keyed{n, at})
		}
		return true
	})
	slices.SortStableFunc(items, func(a, b keyed) int {
		if c := a.at.Compare(b.at); c != 0 {
			return c
		}
		return strings.Compare(a.n.ID, b.n.ID)
	})
	out := make([]tree.Node, len(items))
	for i, it := range items {
		out[i] = it.n
	}
	return out
}

// Search matches q case-insensitively against node text and notes.
func Search(r tree.Reader, q string) []tree.Node {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var out []tree.Node
	r.Each(func(n tree.Node) bool {
		if strings.Contains(strings.ToLower(n.Text), q) || strings.Contains(strings.ToLower(n.Notes), q) {
			out = append(out, n)
		}
		return true
	})
	slices.SortFunc(out, func(a, b tree.Node) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Stats summarises one page tree, root excluded.
type Stats struct {
	Tasks     int `json:"tasks"`
	Completed int `json:"completed"`
	Energy    int `json:"energy"`
	Headings  int `json:"headings"`
}

func Summarize(r tree.Reader, rootID string) Stats {
	var st Stats
	seen := map[string]bool{}
	var walk func(string)
	walk = func(id string) {
		n, ok := r.Node(id)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		switch {
		case n.IsRoot:
		case n.Heading:
			st.Headings++
		default:
			st.Tasks++
			st.Energy += n.Energy
			if n.Completed {
				st.Completed++
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(rootID)
	return st
}

// Due splits open deadlines into overdue ones and ones falling on now's day.
func Due(r tree.Reader, now time.Time) (today, overdue []tree.Node) {
	day := now.Format(DayLayout)
	for _, n := range Deadlines(r, 0) {
		if n.Completed {
			continue
		}
		switch at, _ := deadlineAt(n.Time.Deadline, now.Location()); {
		case at.Before(now):
			overdue = append(overdue, n)
		case at.Format(DayLayout) == day:
			today = append(today, n)
		}
	}
	return today, overdue
}

// Texts returns the text of each node, in order.
func Texts(nodes []tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text
	}
	return out
}
