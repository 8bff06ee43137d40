// Package workspace is the application root. It owns the node store, its
// undo history, the page index and the active page, applies edit intents
// and saves every change through a key-value backend.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mindtask/mindtask/internal/db"
	"github.com/mindtask/mindtask/internal/pages"
	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/view"
)

const (
	NewPageTitle = "New project"
	NewRootText  = "New project goal"
)

// ErrNothingToUndo is returned by Undo on an empty history.
var ErrNothingToUndo = errors.New("nothing to undo")

type Options struct {
	HistoryLimit int
	Hours        view.Hours
	Now          func() time.Time
	Logger       *slog.Logger
}

type Workspace struct {
	kv      db.KV
	log     *slog.Logger
	now     func() time.Time
	hours   view.Hours
	store   *tree.Store
	history *tree.History
	pages   *pages.Index
	active  string
}

func (w *Workspace) Today() string { return w.now().Format(view.DayLayout) }
func (w *Workspace) Now() time.Time { return w.now() }
func (w *Workspace) Hours() view.Hours { return w.hours }

// Nodes exposes the store read-only; nodes are returned as copies.
func (w *Workspace) Nodes() tree.Reader { return w.store }

func (w *Workspace) Node(id string) (tree.Node, bool) { return w.store.Node(id) }
func (w *Workspace) Depth(id string) int             { return w.store.DepthOf(id) }
func (w *Workspace) Path(id string) []string         { return w.store.Path(id) }

// Descendants counts the nodes below id.
func (w *Workspace) Descendants(id string) int {
	if d := w.store.Descendants(id); len(d) > 0 {
		return len(d) - 1
	}
	return 0
}

// CanHeading reports whether id may be flagged as a heading.
func (w *Workspace) CanHeading(id string) bool {
	n, ok := w.store.Node(id)
	return ok && !n.IsRoot && !n.PlannerOnly() && w.store.DepthOf(id) <= tree.MaxHeadingDepth
}

// IsHeading reports whether id renders as a section heading rather than a
// task.
func (w *Workspace) IsHeading(id string) bool {
	n, ok := w.store.Node(id)
	return ok && n.Heading && w.CanHeading(id)
}

// Snapshot returns a detached copy of the store.
func (w *Workspace) Snapshot() *tree.Store { return w.store.Clone() }

func (w *Workspace) HistoryLen() int { return w.history.Len() }

// Apply performs one intent. Undoable kinds record the pre-edit store when,
// and only when, the edit changes something. Rejected edits leave the store
// untouched; tree.IsNoop tells silent refusals from real errors.
func (w *Workspace) Apply(in Intent) (Result, error) {
	before := w.store.Clone()
	res, err := w.apply(in)
	if err != nil {
		w.log.Debug("edit rejected", "intent", in.Kind.String(), "id", in.ID, "err", err)
		return res, err
	}
	if !res.Changed {
		return res, nil
	}
	if in.Kind.Recorded() {
		w.history.Push(before)
	}
	return res, w.saveNodes()
}

func (w *Workspace) apply(in Intent) (Result, error) {
	s := w.store
	res := Result{ID: in.ID, Changed: true}
	var err error
	switch in.Kind {
	case AddSibling:
		res.ID, err = s.InsertSibling(in.ID)
		err = w.initText(res.ID, in.Text, err)
	case AddChild:
		res.ID, err = s.InsertChild(in.ID)
		err = w.initText(res.ID, in.Text, err)
	case AddPlannerTask:
		if _, perr := tree.ParsePeriod(string(in.Period)); perr != nil {
			return res, perr
		}
		res.ID = s.AddPlannerTask(view.PlannerTaskTime(in.Day, in.Period, w.hours), nil)
		err = w.initText(res.ID, in.Text, nil)
	case Reparent:
		err = s.Reparent(in.ID, in.Target)
	case Outdent:
		err = s.Outdent(in.ID)
	case Reorder:
		err = s.Reorder(in.ID, in.Dir)
	case Delete:
		res.Removed, err = s.DeleteSubtree(in.ID)
	case SetText:
		err = s.SetText(in.ID, in.Text)
	case SetFields:
		err = s.Apply(in.ID, in.Patch)
	case ToggleCompleted:
		err = s.ToggleCompleted(in.ID)
	case ToggleCollapsed:
		err = s.ToggleCollapsed(in.ID)
	case MarkSeen:
		n, ok := s.Node(in.ID)
		if !ok || !n.New {
			return Result{ID: in.ID}, nil
		}
		err = s.MarkSeen(in.ID)
	case PlanInto:
		n, ok := s.Node(in.ID)
		if !ok {
			return res, tree.NotFoundError{Kind: "node", ID: in.ID}
		}
		patch, changed := view.PlanPatch(n, in.Day, in.Period, w.hours)
		if !changed {
			return Result{ID: in.ID}, nil
		}
		err = s.Apply(in.ID, patch)
	case Unplan:
		n, ok := s.Node(in.ID)
		if !ok {
			return res, tree.NotFoundError{Kind: "node", ID: in.ID}
		}
		removal, patch := view.UnplanPatch(n, in.Day, in.Period)
		if removal == view.RemovePlannerTask {
			res.Removed, err = s.DeleteSubtree(in.ID)
		} else {
			err = s.Apply(in.ID, patch)
		}
	default:
		err = fmt.Errorf("unknown intent %s", in.Kind)
	}
	if err != nil {
		return Result{ID: in.ID}, err
	}
	return res, nil
}

func (w *Workspace) initText(id, text string, err error) error {
	if err != nil || text == "" {
		return err
	}
	return w.store.SetText(id, text)
}

// Removal reports how Unplan would treat id, so callers can confirm first.
func (w *Workspace) Removal(id, day string, p tree.Period) (view.Removal, bool) {
	n, ok := w.store.Node(id)
	if !ok {
		return view.RemoveSlot, false
	}
	r, _ := view.UnplanPatch(n, day, p)
	return r, true
}

// Undo restores the store recorded before the last undoable edit. Pages
// created since keep their (now empty) roots.
func (w *Workspace) Undo() error {
	prev, ok := w.history.Pop()
	if !ok {
		return ErrNothingToUndo
	}
	for _, p := range w.pages.List() {
		if prev.Has(p.RootID) {
			continue
		}
		if root, ok := w.store.Node(p.RootID); ok {
			root.Children = nil
			prev.Put(root)
		}
	}
	w.store = prev
	return w.saveNodes()
}

func (w *Workspace) Pages() []pages.Page { return w.pages.List() }

func (w *Workspace) ActivePage() (pages.Page, bool) { return w.pages.Find(w.active) }

// ActiveRoot is the root node id of the active page.
func (w *Workspace) ActiveRoot() string {
	p, _ := w.ActivePage()
	return p.RootID
}

// NewPage adds a page with a fresh root and makes it active. Page creation is
// not undoable.
func (w *Workspace) NewPage(title string) (pages.Page, error) {
	if title == "" {
		title = NewPageTitle
	}
	root := w.store.AddRoot(NewRootText)
	p := w.pages.Append(title, root)
	w.active = p.ID
	return p, errors.Join(w.saveNodes(), w.savePages(), w.saveActive())
}

func (w *Workspace) RenamePage(id, title string) error {
	if !w.pages.Rename(id, title) {
		return tree.NotFoundError{Kind: "page", ID: id}
	}
	return w.savePages()
}

func (w *Workspace) SetActive(id string) error {
	if _, ok := w.pages.Find(id); !ok {
		return tree.NotFoundError{Kind: "page", ID: id}
	}
	if id == w.active {
		return nil
	}
	w.active = id
	return w.saveActive()
}

// CyclePage activates the page offset steps from the active one.
func (w *Workspace) CyclePage(offset int) error {
	p, ok := w.pages.Neighbor(w.active, offset)
	if !ok {
		return nil
	}
	return w.SetActive(p.ID)
}

// PageOf returns the page owning nodeID without activating it.
func (w *Workspace) PageOf(nodeID string) (pages.Page, bool) {
	return w.pages.OwnerOf(w.store, nodeID)
}

// Validate checks the structural invariants of the current store.
func (w *Workspace) Validate() error { return tree.Validate(w.store) }

// JumpTo activates the page owning nodeID. ok is false for planner-only and
// unknown nodes.
func (w *Workspace) JumpTo(nodeID string) (pages.Page, bool, error) {
	p, ok := w.pages.OwnerOf(w.store, nodeID)
	if !ok {
		return pages.Page{}, false, nil
	}
	return p, true, w.SetActive(p.ID)
}

func (w *Workspace) Close() error { return w.kv.Close() }
