package workspace

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/mindtask/mindtask/internal/db"
	"github.com/mindtask/mindtask/internal/tree"
	"github.com/mindtask/mindtask/internal/view"
)

var fixedNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func open(t *testing.T, kv db.KV) *Workspace {
	t.Helper()
	w, err := Open(kv, Options{Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}

func mustApply(t *testing.T, w *Workspace, in Intent) Result {
	t.Helper()
	res, err := w.Apply(in)
	if err != nil {
		t.Fatalf("Apply(%s): %v", in, err)
	}
	return res
}

func TestOpenSeedsEmptyStorage(t *testing.T) {
	w := open(t, db.NewMemory())
	p, ok := w.ActivePage()
	if !ok || p.ID != "page-1" || p.RootID != tree.SeedRootID {
		t.Fatalf("active page = %+v, %v", p, ok)
	}
	n, _ := w.Node("node-1")
	if n.Time != tree.DeadlineAt("2024-06-01") {
		t.Fatalf("seed deadline = %+v", n.Time)
	}
}

func TestOpenFallsBackOnCorruptNodes(t *testing.T) {
	kv := db.NewMemory()
	_ = kv.Save(KeyNodes, "{not json")
	_ = kv.Save(KeyActive, "page-9")
	w := open(t, kv)
	if !w.Nodes().(*tree.Store).Has(tree.SeedRootID) {
		t.Fatalf("expected seed root")
	}
	if p, _ := w.ActivePage(); p.ID != "page-1" {
		t.Fatalf("unknown active page should fall back to the first, got %q", p.ID)
	}
}

func TestWrongPassphraseKeepsSealedData(t *testing.T) {
	inner := db.NewMemory()
	salt := db.SaltPath(t.TempDir())
	seal := func(pass string) db.KV {
		kv, err := db.NewSealed(inner, pass, salt, nil)
		if err != nil {
			t.Fatal(err)
		}
		return kv
	}

	w := open(t, seal("right"))
	mustApply(t, w, Intent{Kind: SetText, ID: "node-1", Text: "precious"})
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	saves := inner.Saves()

	if _, err := Open(seal("wrong"), Options{}); !errors.Is(err, db.ErrWrongPassphrase) {
		t.Fatalf("Open with the wrong passphrase = %v", err)
	}
	if inner.Saves() != saves {
		t.Fatalf("wrong passphrase wrote %d value(s)", inner.Saves()-saves)
	}

	again := open(t, seal("right"))
	if n, _ := again.Node("node-1"); n.Text != "precious" {
		t.Fatalf("node-1 after reopen = %q", n.Text)
	}
}

func TestChangesPersistAndReload(t *testing.T) {
	kv := db.NewMemory()
	w := open(t, kv)
	res := mustApply(t, w, Intent{Kind: AddChild, ID: tree.SeedRootID, Text: "Ship it"})
	page, err := w.NewPage("Side")
	if err != nil {
		t.Fatal(err)
	}
	if err := w.RenamePage(page.ID, "Side quest"); err != nil {
		t.Fatal(err)
	}

	again := open(t, kv)
	if n, ok := again.Node(res.ID); !ok || n.Text != "Ship it" || !n.New {
		t.Fatalf("reloaded node = %+v, %v", n, ok)
	}
	got, ok := again.ActivePage()
	if !ok || got.ID != page.ID || got.Title != "Side quest" {
		t.Fatalf("reloaded active page = %+v", got)
	}
	if len(again.Pages()) != 2 {
		t.Fatalf("pages = %+v", again.Pages())
	}
}

func TestUndoRestoresPreEditStore(t *testing.T) {
	w := open(t, db.NewMemory())
	edits := []Intent{
		{Kind: AddSibling, ID: "node-1"},
		{Kind: AddChild, ID: "node-2"},
		{Kind: Reparent, ID: "node-1-1", Target: "node-2"},
		{Kind: Outdent, ID: "node-1-1"},
		{Kind: Reorder, ID: "node-2", Dir: -1},
		{Kind: Delete, ID: "node-1"},
		{Kind: SetFields, ID: "node-2", Patch: tree.Patch{Energy: tree.Ptr(1)}},
		{Kind: ToggleCompleted, ID: "node-1-1"},
		{Kind: PlanInto, ID: "node-1-1", Day: "2024-06-02", Period: tree.Evening},
		{Kind: AddPlannerTask, Day: "2024-06-02", Period: tree.Morning},
	}
	for _, in := range edits {
		before := w.Snapshot()
		mustApply(t, w, in)
		if w.Snapshot().Equal(before) {
			t.Fatalf("%s changed nothing", in)
		}
		if err := w.Undo(); err != nil {
			t.Fatal(err)
		}
		if !w.Snapshot().Equal(before) {
			t.Fatalf("undo after %s did not restore the store", in)
		}
	}
	if err := w.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("Undo on empty history = %v", err)
	}
}

func TestUnrecordedEdits(t *testing.T) {
	w := open(t, db.NewMemory())
	res := mustApply(t, w, Intent{Kind: AddChild, ID: tree.SeedRootID})
	base := w.HistoryLen()
	mustApply(t, w, Intent{Kind: SetText, ID: res.ID, Text: "typing"})
	mustApply(t, w, Intent{Kind: ToggleCollapsed, ID: "node-1"})
	mustApply(t, w, Intent{Kind: MarkSeen, ID: res.ID})
	if w.HistoryLen() != base {
		t.Fatalf("history grew from %d to %d", base, w.HistoryLen())
	}
	if n, _ := w.Node(res.ID); n.New || n.Text != "typing" {
		t.Fatalf("node = %+v", n)
	}
}

func TestRejectedEditsSkipHistory(t *testing.T) {
	kv := db.NewMemory()
	w := open(t, kv)
	saves := kv.Saves()
	rejected := []struct {
		in   Intent
		noop bool
	}{
		{Intent{Kind: Reparent, ID: "node-1", Target: "node-1-1"}, false},
		{Intent{Kind: Delete, ID: tree.SeedRootID}, false},
		{Intent{Kind: AddSibling, ID: tree.SeedRootID}, false},
		{Intent{Kind: Outdent, ID: "node-1"}, true},
		{Intent{Kind: Reorder, ID: "node-1", Dir: -1}, true},
		{Intent{Kind: ToggleCompleted, ID: "ghost"}, true},
		{Intent{Kind: SetFields, ID: "node-1-1", Patch: tree.Patch{Heading: tree.Ptr(true), Energy: tree.Ptr(9)}}, false},
	}
	for _, tt := range rejected {
		before := w.Snapshot()
		_, err := w.Apply(tt.in)
		if err == nil {
			t.Fatalf("%s: expected error", tt.in)
		}
		if tree.IsNoop(err) != tt.noop {
			t.Fatalf("%s: IsNoop(%v) = %v", tt.in, err, !tt.noop)
		}
		if !w.Snapshot().Equal(before) {
			t.Fatalf("%s changed the store", tt.in)
		}
	}
	if w.HistoryLen() != 0 || kv.Saves() != saves {
		t.Fatalf("rejected edits recorded history (%d) or saved (%d)", w.HistoryLen(), kv.Saves()-saves)
	}

	// dropping into a slot the node already has is a quiet no-op
	mustApply(t, w, Intent{Kind: PlanInto, ID: "node-1-1", Day: "2024-06-02", Period: tree.Evening})
	res := mustApply(t, w, Intent{Kind: PlanInto, ID: "node-1-1", Day: "2024-06-02", Period: tree.Evening})
	if res.Changed || w.HistoryLen() != 1 {
		t.Fatalf("repeated drop: changed %v, history %d", res.Changed, w.HistoryLen())
	}
}

func TestPlannerFlow(t *testing.T) {
	w := open(t, db.NewMemory())
	res := mustApply(t, w, Intent{Kind: AddPlannerTask, Day: "2024-06-02", Period: tree.Afternoon, Text: "Call Ann"})
	n, _ := w.Node(res.ID)
	if !n.PlannerOnly() || n.Time != tree.ScheduleAt("2024-06-02T14:00", "", false) {
		t.Fatalf("planner task = %+v", n)
	}
	if got := view.Bucket(w.Nodes(), "2024-06-02", tree.Afternoon); len(got) != 1 || got[0].ID != res.ID {
		t.Fatalf("afternoon bucket = %+v", got)
	}
	if _, ok, _ := w.JumpTo(res.ID); ok {
		t.Fatalf("planner-only tasks have no page")
	}
	if r, _ := w.Removal(res.ID, "2024-06-02", tree.Afternoon); r != view.RemovePlannerTask {
		t.Fatalf("removal = %v", r)
	}
	out := mustApply(t, w, Intent{Kind: Unplan, ID: res.ID, Day: "2024-06-02", Period: tree.Afternoon})
	if !slices.Equal(out.Removed, []string{res.ID}) {
		t.Fatalf("removed = %v", out.Removed)
	}

	// the seed schedule moves when dropped into the evening
	mustApply(t, w, Intent{Kind: PlanInto, ID: "node-2", Day: "2024-06-03", Period: tree.Evening})
	n, _ = w.Node("node-2")
	if n.Time.Start != "2024-06-03T19:00" || n.Time.End != "2024-06-03T21:00" {
		t.Fatalf("moved schedule = %+v", n.Time)
	}
	mustApply(t, w, Intent{Kind: Unplan, ID: "node-2", Day: "2024-06-03", Period: tree.Evening})
	if n, _ = w.Node("node-2"); n.Time.Kind != tree.TimeNone {
		t.Fatalf("unplanned schedule = %+v", n.Time)
	}
}

func TestJumpToActivatesOwningPage(t *testing.T) {
	w := open(t, db.NewMemory())
	side, _ := w.NewPage("")
	if side.Title != NewPageTitle {
		t.Fatalf("default title = %q", side.Title)
	}
	p, ok, err := w.JumpTo("node-1-1")
	if err != nil || !ok || p.ID != "page-1" || w.ActiveRoot() != tree.SeedRootID {
		t.Fatalf("JumpTo = %+v, %v, %v", p, ok, err)
	}
	if err := w.CyclePage(1); err != nil || w.ActiveRoot() != side.RootID {
		t.Fatalf("CyclePage: active root %q, err %v", w.ActiveRoot(), err)
	}
	if err := w.SetActive("nope"); err == nil {
		t.Fatalf("SetActive of unknown page succeeded")
	}
}

func TestUndoKeepsNewPageRoots(t *testing.T) {
	w := open(t, db.NewMemory())
	mustApply(t, w, Intent{Kind: ToggleCompleted, ID: "node-1-1"})
	p, _ := w.NewPage("Later")
	if err := w.Undo(); err != nil {
		t.Fatal(err)
	}
	if n, ok := w.Node(p.RootID); !ok || !n.IsRoot {
		t.Fatalf("page root lost on undo")
	}
	if err := tree.Validate(w.Snapshot()); err != nil {
		t.Fatalf("store invalid after undo: %v", err)
	}
}

func TestHistoryLimit(t *testing.T) {
	w, err := Open(db.NewMemory(), Options{HistoryLimit: 3})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		mustApply(t, w, Intent{Kind: ToggleCompleted, ID: "node-1-1"})
	}
	if w.HistoryLen() != 3 {
		t.Fatalf("history = %d, want 3", w.HistoryLen())
	}
}

func TestPageOfDoesNotActivate(t *testing.T) {
	w := open(t, db.NewMemory())
	seed, _ := w.ActivePage()
	other, err := w.NewPage("Other")
	if err != nil {
		t.Fatal(err)
	}
	p, ok := w.PageOf("node-1-1")
	if !ok || p.ID != seed.ID {
		t.Fatalf("PageOf = %+v, %v", p, ok)
	}
	if active, _ := w.ActivePage(); active.ID != other.ID {
		t.Fatalf("active page changed to %+v", active)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
