package tree

import (
	"slices"
	"testing"
)

func TestDepthOf(t *testing.T) {
	s := newTestStore(t)
	cases := map[string]int{"R": 0, "a": 1, "a1": 2, "a1x": 3, "c": 1, "missing": 0}
	for id, want := range cases {
		if got := s.DepthOf(id); got != want {
			t.Fatalf("DepthOf(%s) = %d, want %d", id, got, want)
		}
	}
}

func TestIsAncestor(t *testing.T) {
	s := newTestStore(t)
	cases := []struct {
		anc, id string
		want    bool
	}{
		{"R", "a1x", true},
		{"a", "a1x", true},
		{"a1x", "a", false},
		{"a", "a", false},
		{"b", "a1", false},
		{"a", "missing", false},
		{"missing", "a", false},
	}
	for _, tc := range cases {
		if got := s.IsAncestor(tc.anc, tc.id); got != tc.want {
			t.Fatalf("IsAncestor(%s, %s) = %v, want %v", tc.anc, tc.id, got, tc.want)
		}
	}
}

func TestPathAndRoot(t *testing.T) {
	s := newTestStore(t)
	if got := s.Path("a1x"); !slices.Equal(got, []string{"R", "a", "a1", "a1x"}) {
		t.Fatalf("Path = %v", got)
	}
	if root, ok := s.RootOf("a2"); !ok || root != "R" {
		t.Fatalf("RootOf = %q, %v", root, ok)
	}
	id := s.AddPlannerTask(NoTime(), nil)
	if _, ok := s.RootOf(id); ok {
		t.Fatalf("planner task should have no root")
	}
}

func TestDescendantsPreorder(t *testing.T) {
	s := newTestStore(t)
	want := []string{"a", "a1", "a1x", "a2"}
	if got := s.Descendants("a"); !slices.Equal(got, want) {
		t.Fatalf("Descendants = %v, want %v", got, want)
	}
	if got := s.Descendants("missing"); got != nil {
		t.Fatalf("Descendants(missing) = %v", got)
	}
}
