package view

import (
	"slices"
	"testing"
	"time"

	"github.com/mindtask/mindtask/internal/tree"
)

func ids(nodes []tree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Node.ID
	}
	return out
}

func TestScheduledMorningBucket(t *testing.T) {
	s := tree.NewStore()
	s.Put(tree.Node{ID: "R", IsRoot: true, Children: []string{"X"}})
	s.Put(tree.Node{ID: "X", ParentID: "R", Time: tree.ScheduleAt("2024-06-01T09:30", "", false)})

	if got := ids(Bucket(s, "2024-06-01", tree.Morning)); !slices.Equal(got, []string{"X"}) {
		t.Fatalf("morning = %v, want [X]", got)
	}
	if got := Bucket(s, "2024-06-01", tree.Afternoon); len(got) != 0 {
		t.Fatalf("afternoon = %v, want empty", ids(got))
	}
	if got := Bucket(s, "2024-06-02", tree.Morning); len(got) != 0 {
		t.Fatalf("next day = %v, want empty", ids(got))
	}
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		start string
		want  tree.Period
	}{
		{"2024-06-01T00:00", tree.Morning},
		{"2024-06-01T11:59", tree.Morning},
		{"2024-06-01T12:00", tree.Afternoon},
		{"2024-06-01T17:59", tree.Afternoon},
		{"2024-06-01T18:00", tree.Evening},
		{"2024-06-01T23:30", tree.Evening},
	}
	for _, tt := range tests {
		n := tree.Node{ID: "x", Time: tree.ScheduleAt(tt.start, "", false)}
		for _, p := range tree.Periods {
			if got := InPeriod(n, "2024-06-01", p); got != (p == tt.want) {
				t.Errorf("InPeriod(%s, %s) = %v", tt.start, p, got)
			}
		}
	}
}

func TestSlotAndScheduleAreIndependent(t *testing.T) {
	n := tree.Node{
		ID:    "x",
		Time:  tree.ScheduleAt("2024-06-01T09:00", "", false),
		Slots: []tree.Slot{{Date: "2024-06-01", Period: tree.Evening}},
	}
	if !InPeriod(n, "2024-06-01", tree.Morning) || !InPeriod(n, "2024-06-01", tree.Evening) {
		t.Fatalf("node should show in both the scheduled and the slotted period")
	}
	if InPeriod(n, "2024-06-01", tree.Afternoon) {
		t.Fatalf("node should not show in the afternoon")
	}
}

func TestPlanPatch(t *testing.T) {
	plain := tree.Node{ID: "p"}
	patch, ok := PlanPatch(plain, "2024-06-01", tree.Afternoon, DefaultHours)
	if !ok || patch.Slots == nil || !slices.Equal(*patch.Slots, []tree.Slot{{Date: "2024-06-01", Period: tree.Afternoon}}) {
		t.Fatalf("plain patch = %+v, %v", patch, ok)
	}
	plain.Slots = *patch.Slots
	if _, ok := PlanPatch(plain, "2024-06-01", tree.Afternoon, DefaultHours); ok {
		t.Fatalf("second drop into the same slot should be a no-op")
	}

	sched := tree.Node{ID: "s", Time: tree.ScheduleAt("2024-06-01T09:30", "2024-06-01T10:30", true)}
	patch, ok = PlanPatch(sched, "2024-06-03", tree.Evening, DefaultHours)
	if !ok || patch.Time == nil {
		t.Fatalf("schedule patch = %+v, %v", patch, ok)
	}
	want := tree.ScheduleAt("2024-06-03T19:00", "2024-06-03T20:00", true)
	if *patch.Time != want {
		t.Fatalf("time = %+v, want %+v", *patch.Time, want)
	}
	if patch.Slots != nil {
		t.Fatalf("scheduled nodes should not gain slots")
	}
}

func TestUnplanPatch(t *testing.T) {
	planner := tree.Node{ID: "a", ParentID: tree.PlannerRootID, Time: tree.ScheduleAt("2024-06-01T09:00", "", false)}
	if r, _ := UnplanPatch(planner, "2024-06-01", tree.Morning); r != RemovePlannerTask || !r.NeedsConfirm() {
		t.Fatalf("planner task removal = %v", r)
	}

	sched := tree.Node{ID: "b", ParentID: "R", Time: tree.ScheduleAt("2024-06-01T09:00", "", false)}
	r, patch := UnplanPatch(sched, "2024-06-01", tree.Morning)
	if r != RemoveSchedule || patch.Time == nil || patch.Time.Kind != tree.TimeNone {
		t.Fatalf("schedule removal = %v %+v", r, patch)
	}

	slotted := tree.Node{ID: "c", ParentID: "R", Slots: []tree.Slot{
		{Date: "2024-06-01", Period: tree.Morning},
		{Date: "2024-06-02", Period: tree.Morning},
	}}
	r, patch = UnplanPatch(slotted, "2024-06-01", tree.Morning)
	if r != RemoveSlot || r.NeedsConfirm() {
		t.Fatalf("slot removal = %v", r)
	}
	if !slices.Equal(*patch.Slots, []tree.Slot{{Date: "2024-06-02", Period: tree.Morning}}) {
		t.Fatalf("slots = %v", *patch.Slots)
	}
	if len(slotted.Slots) != 2 {
		t.Fatalf("UnplanPatch mutated its input")
	}
}

func TestOutline(t *testing.T) {
	s := tree.Seed("2024-06-01")
	rows := Outline(s, tree.SeedRootID, Filter{ShowCompleted: true})
	if got := rowIDs(rows); !slices.Equal(got, []string{"root-1", "node-1", "node-1-1", "node-2"}) {
		t.Fatalf("rows = %v", got)
	}
	if rows[2].Depth != 2 || !rows[1].Heading || rows[0].Heading {
		t.Fatalf("row metadata = %+v", rows)
	}

	rows = Outline(s, tree.SeedRootID, Filter{})
	if got := rowIDs(rows); !slices.Equal(got, []string{"root-1", "node-1", "node-2"}) {
		t.Fatalf("completed hidden: rows = %v", got)
	}

	rows = Outline(s, tree.SeedRootID, Filter{Energy: 3, ShowCompleted: true})
	for _, r := range rows {
		want := r.Node.ID == "node-1" || r.Node.ID == "node-1-1"
		if r.Dimmed != want {
			t.Fatalf("row %s dimmed = %v", r.Node.ID, r.Dimmed)
		}
	}

	_ = s.ToggleCollapsed("node-1")
	if got := rowIDs(Outline(s, tree.SeedRootID, Filter{ShowCompleted: true})); !slices.Equal(got, []string{"root-1", "node-1", "node-2"}) {
		t.Fatalf("collapsed: rows = %v", got)
	}
	if IndexOf(rows, "node-2") != 3 || IndexOf(rows, "nope") != -1 {
		t.Fatalf("IndexOf mismatch")
	}
}

func TestSorterLists(t *testing.T) {
	s := tree.NewStore()
	s.Put(tree.Node{ID: "R", IsRoot: true, Children: []string{"a", "b", "c"}, Time: tree.DeadlineAt("2024-01-01")})
	s.Put(tree.Node{ID: "a", ParentID: "R", Energy: 2, Time: tree.DeadlineAt("2024-06-10")})
	s.Put(tree.Node{ID: "b", ParentID: "R", Energy: 3, Time: tree.DeadlineAt("2024-06-02T08:00")})
	s.Put(tree.Node{ID: "c", ParentID: "R", Energy: 2, Time: tree.ScheduleAt("2024-06-05T10:00", "", false)})
	s.AddPlannerTask(tree.ScheduleAt("2024-06-01T09:00", "", false), nil)

	if got := ids(Deadlines(s, 0)); !slices.Equal(got, []string{"b", "a"}) {
		t.Fatalf("deadlines = %v", got)
	}
	if got := ids(Deadlines(s, 2)); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("deadlines energy 2 = %v", got)
	}
	sched := Schedules(s, 0)
	if len(sched) != 2 || sched[1].ID != "c" || !sched[0].PlannerOnly() {
		t.Fatalf("schedules = %v", ids(sched))
	}
	if got := ids(DayTasks(s, "2024-06-05", 0)); !slices.Equal(got, []string{"c"}) {
		t.Fatalf("day tasks = %v", got)
	}
}

func TestMonthGridIsMondayFirst(t *testing.T) {
	// June 2024 starts on a Saturday.
	weeks := MonthGrid(2024, time.June)
	if len(weeks) != 5 {
		t.Fatalf("weeks = %d, want 5", len(weeks))
	}
	for i := 0; i < 5; i++ {
		if !weeks[0][i].IsZero() {
			t.Fatalf("cell %d should be blank", i)
		}
	}
	if weeks[0][5].Day() != 1 || weeks[0][6].Weekday() != time.Sunday {
		t.Fatalf("first week = %v", weeks[0])
	}
	if last := weeks[4][6]; last.Day() != 30 || last.Weekday() != time.Sunday {
		t.Fatalf("last week = %v", weeks[4])
	}
	// July 2024 starts on a Monday and leaves three trailing blanks.
	july := MonthGrid(2024, time.July)
	if july[0][0].Day() != 1 || !july[len(july)-1][3].IsZero() || july[len(july)-1][2].Day() != 31 {
		t.Fatalf("july = %v", july)
	}
}

func TestDeadlineUrgency(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ddl  string
		want Urgency
	}{
		{"2024-05-31", Overdue},
		{"2024-06-01T11:00", Overdue},
		{"2024-06-01", DueToday},
		{"2024-06-02T11:00", DueToday},
		{"2024-06-03", DueSoon},
		{"2024-06-10", DueLater},
		{"", UrgencyNone},
		{"soon", UrgencyNone},
	}
	for _, tt := range tests {
		if got := DeadlineUrgency(tt.ddl, now); got != tt.want {
			t.Errorf("DeadlineUrgency(%q) = %v, want %v", tt.ddl, got, tt.want)
		}
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2024-06-01", "6/1"},
		{"2024-06-01T09:05", "6/1 09:05"},
		{"2024-12-31T23:59", "12/31"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := FormatSchedule("2024-06-01T14:00", "2024-06-01T16:30"); got != "6/1 14:00 - 16:30" {
		t.Errorf("same day = %q", got)
	}
	if got := FormatSchedule("2024-06-01T14:00", "2024-06-02T09:00"); got != "6/1 14:00 - 6/2 09:00" {
		t.Errorf("two days = %q", got)
	}
	if got := FormatSchedule("", ""); got != "unset" {
		t.Errorf("empty = %q", got)
	}
}

func TestOffsetStampsReadInZone(t *testing.T) {
	prev := zone
	t.Cleanup(func() { zone = prev })
	SetZone(time.FixedZone("UTC+9", 9*60*60))

	s := tree.NewStore()
	s.Put(tree.Node{ID: "R", IsRoot: true, Children: []string{"X", "Y"}})
	s.Put(tree.Node{ID: "X", ParentID: "R", Time: tree.ScheduleAt("2024-06-01T22:30:00Z", "", false)})
	s.Put(tree.Node{ID: "Y", ParentID: "R", Time: tree.ScheduleAt("2024-06-01T22:30", "", false)})

	if got := ids(Bucket(s, "2024-06-02", tree.Morning)); !slices.Equal(got, []string{"X"}) {
		t.Fatalf("morning of 6/2 = %v, want [X]", got)
	}
	if got := ids(Bucket(s, "2024-06-01", tree.Evening)); !slices.Equal(got, []string{"Y"}) {
		t.Fatalf("evening of 6/1 = %v, want [Y]", got)
	}
	if got := FormatTime("2024-06-01T22:30:00Z"); got != "6/2 07:30" {
		t.Errorf("FormatTime(offset) = %q", got)
	}
	if got := FormatTime("2024-06-01T22:30"); got != "6/1 22:30" {
		t.Errorf("FormatTime(wall clock) = %q", got)
	}
}

func TestSummarizeAndSearch(t *testing.T) {
	s := tree.Seed("2024-06-01")
	st := Summarize(s, tree.SeedRootID)
	if st != (Stats{Tasks: 1, Completed: 1, Energy: 2, Headings: 2}) {
		t.Fatalf("stats = %+v", st)
	}
	if got := ids(Search(s, "FIGMA")); !slices.Equal(got, []string{"node-2"}) {
		t.Fatalf("search = %v", got)
	}
	if Search(s, "  ") != nil {
		t.Fatalf("blank query should match nothing")
	}
}

func TestDue(t *testing.T) {
	s := tree.NewStore()
	s.Put(tree.Node{ID: "R", IsRoot: true, Children: []string{"a", "b", "c", "d"}})
	s.Put(tree.Node{ID: "a", ParentID: "R", Time: tree.DeadlineAt("2024-05-30")})
	s.Put(tree.Node{ID: "b", ParentID: "R", Time: tree.DeadlineAt("2024-06-01")})
	s.Put(tree.Node{ID: "c", ParentID: "R", Time: tree.DeadlineAt("2024-06-01T08:00"), Completed: true})
	s.Put(tree.Node{ID: "d", ParentID: "R", Time: tree.DeadlineAt("2024-06-02")})

	today, overdue := Due(s, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	if got := ids(today); !slices.Equal(got, []string{"b"}) {
		t.Fatalf("today = %v", got)
	}
	if got := ids(overdue); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("overdue = %v", got)
	}
}
