// Package view holds the read-only projections the interface renders: the
// outline of one page, the planner board and the sorter lists. Nothing here
// mutates the store.
package view

import "github.com/mindtask/mindtask/internal/tree"

// Filter is the transient view state shared by the projections.
type Filter struct {
	Energy        int // 0 shows every level
	ShowCompleted bool
}

func (f Filter) matchEnergy(n tree.Node) bool {
	return f.Energy == 0 || n.Energy == f.Energy
}

// Row is one visible line of the outline.
type Row struct {
	Node        tree.Node
	Depth       int
	Heading     bool // rendered as a section label
	Dimmed      bool
	HasChildren bool
}

// Outline walks the page rooted at rootID in display order. Collapsed nodes
// hide their children; completed nodes and their subtrees are skipped unless
// f.ShowCompleted is set. Energy filtering dims instead of hiding.
func Outline(r tree.Reader, rootID string, f Filter) []Row {
	var rows []Row
	seen := map[string]bool{}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := r.Node(id)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		if !f.ShowCompleted && n.Completed && !n.IsRoot {
			return
		}
		rows = append(rows, Row{
			Node:        n,
			Depth:       depth,
			Heading:     n.Heading && !n.IsRoot && depth <= tree.MaxHeadingDepth,
			Dimmed:      f.Energy > 0 && n.Energy != f.Energy && !n.IsRoot,
			HasChildren: len(n.Children) > 0,
		})
		if n.Collapsed {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(rootID, 0)
	return rows
}

// IndexOf returns the row position of id, or -1.
func IndexOf(rows []Row, id string) int {
	for i, row := range rows {
		if row.Node.ID == id {
			return i
		}
	}
	return -1
}
