package tree

import (
	"fmt"
	"slices"
	"testing"
)

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

// newTestStore builds:
//
//	R
//	├── a
//	│   ├── a1
//	│   │   └── a1x
//	│   └── a2
//	├── b
//	└── c
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore().WithIDs(counterIDs())
	s.Put(Node{ID: "R", Text: "root", IsRoot: true, Children: []string{"a", "b", "c"}})
	s.Put(Node{ID: "a", ParentID: "R", Children: []string{"a1", "a2"}})
	s.Put(Node{ID: "a1", ParentID: "a", Children: []string{"a1x"}})
	s.Put(Node{ID: "a1x", ParentID: "a1"})
	s.Put(Node{ID: "a2", ParentID: "a"})
	s.Put(Node{ID: "b", ParentID: "R"})
	s.Put(Node{ID: "c", ParentID: "R"})
	if err := Validate(s); err != nil {
		t.Fatalf("fixture invalid: %v", err)
	}
	return s
}

func mustNode(t *testing.T, s *Store, id string) Node {
	t.Helper()
	n, ok := s.Node(id)
	if !ok {
		t.Fatalf("node %s missing", id)
	}
	return n
}

func assertChildren(t *testing.T, s *Store, id string, want ...string) {
	t.Helper()
	got := mustNode(t, s, id).Children
	if len(want) == 0 {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("children of %s = %v, want %v", id, got, want)
	}
}
