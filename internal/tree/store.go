package tree

import (
	"reflect"
	"sort"

	"github.com/google/uuid"
)

// Reader is the read-only face of a Store handed to projections.
type Reader interface {
	Node(id string) (Node, bool)
	Each(fn func(Node) bool)
}

// Store maps node ids to nodes. It is not safe for concurrent use; the
// application mutates it from a single goroutine.
type Store struct {
	nodes map[string]*Node
	newID func() string
}

func NewStore() *Store {
	return &Store{nodes: map[string]*Node{}, newID: shortID}
}

func shortID() string { return uuid.NewString()[:8] }

// WithIDs replaces the id generator. Used by tests for stable ids.
func (s *Store) WithIDs(gen func() string) *Store {
	s.newID = gen
	return s
}

func (s *Store) nextID() string {
	for {
		id := s.newID()
		if _, taken := s.nodes[id]; !taken && id != PlannerRootID {
			return id
		}
	}
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n.clone(), true
}

func (s *Store) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

func (s *Store) Len() int { return len(s.nodes) }

// IDs returns all node ids in lexical order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Each calls fn with a copy of every node in id order until fn returns false.
func (s *Store) Each(fn func(Node) bool) {
	for _, id := range s.IDs() {
		if !fn(*s.nodes[id].clone()) {
			return
		}
	}
}

// Put inserts or replaces a node verbatim. It performs no link maintenance and
// exists for loading snapshots.
func (s *Store) Put(n Node) {
	if n.Children == nil {
		n.Children = []string{}
	}
	if n.Slots == nil {
		n.Slots = []Slot{}
	}
	s.nodes[n.ID] = n.clone()
}

// AddRoot creates a fresh page root and returns its id.
func (s *Store) AddRoot(text string) string {
	id := s.nextID()
	n := newNode(id, "")
	n.IsRoot = true
	n.New = false
	n.Text = text
	s.nodes[id] = n
	return id
}

// Clone returns a deep copy sharing nothing with s.
func (s *Store) Clone() *Store {
	c := &Store{nodes: make(map[string]*Node, len(s.nodes)), newID: s.newID}
	for id, n := range s.nodes {
		c.nodes[id] = n.clone()
	}
	return c
}

// Equal reports whether both stores hold identical nodes.
func (s *Store) Equal(o *Store) bool {
	if s == nil || o == nil {
		return s == o
	}
	return reflect.DeepEqual(s.nodes, o.nodes)
}

func (s *Store) lookup(id string) (*Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return nil, NotFoundError{Kind: "node", ID: id}
	}
	return n, nil
}
