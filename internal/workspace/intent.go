package workspace

import (
	"fmt"

	"github.com/mindtask/mindtask/internal/tree"
)

// Kind names an edit request.
type Kind int

const (
	AddSibling Kind = iota + 1
	AddChild
	AddPlannerTask
	Reparent
	Outdent
	Reorder
	Delete
	SetText
	SetFields
	ToggleCompleted
	ToggleCollapsed
	MarkSeen
	PlanInto
	Unplan
)

var kindNames = map[Kind]string{
	AddSibling:      "add-sibling",
	AddChild:        "add-child",
	AddPlannerTask:  "add-planner-task",
	Reparent:        "reparent",
	Outdent:         "outdent",
	Reorder:         "reorder",
	Delete:          "delete",
	SetText:         "set-text",
	SetFields:       "set-fields",
	ToggleCompleted: "toggle-completed",
	ToggleCollapsed: "toggle-collapsed",
	MarkSeen:        "mark-seen",
	PlanInto:        "plan-into",
	Unplan:          "unplan",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Recorded reports whether edits of this kind are undoable. Text edits,
// collapse toggles and focus bookkeeping skip the history.
func (k Kind) Recorded() bool {
	switch k {
	case SetText, ToggleCollapsed, MarkSeen:
		return false
	}
	return true
}

// Intent is an edit request emitted by a view. Only the fields its Kind uses
// are read.
type Intent struct {
	Kind   Kind
	ID     string      // target node; the anchor for AddSibling, the parent for AddChild
	Target string      // new parent for Reparent
	Dir    int         // Reorder: negative moves up
	Text   string      // SetText, or initial text for created nodes
	Patch  tree.Patch  // SetFields
	Day    string      // PlanInto, Unplan, AddPlannerTask
	Period tree.Period // PlanInto, Unplan, AddPlannerTask
}

func (in Intent) String() string {
	return fmt.Sprintf("%s(%s)", in.Kind, in.ID)
}

// Result reports what an applied intent did.
type Result struct {
	ID      string   // the created node for add intents, else the target
	Removed []string // ids deleted by Delete or a planner-task Unplan
	Changed bool     // false when the intent turned out to be a no-op
}
