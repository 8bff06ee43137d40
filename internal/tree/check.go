package tree

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of the store and returns every
// violation joined into one error.
func Validate(s *Store) error {
	var errs []error
	owner := map[string]string{}
	for _, id := range s.IDs() {
		n := s.nodes[id]
		for _, c := range n.Children {
			if prev, dup := owner[c]; dup {
				errs = append(errs, fmt.Errorf("node %s is a child of both %s and %s", c, prev, id))
				continue
			}
			owner[c] = id
			child, ok := s.nodes[c]
			if !ok {
				errs = append(errs, fmt.Errorf("node %s lists missing child %s", id, c))
				continue
			}
			if child.ParentID != id {
				errs = append(errs, fmt.Errorf("node %s has parent %q but is listed under %s", c, child.ParentID, id))
			}
		}
	}
	for _, id := range s.IDs() {
		n := s.nodes[id]
		switch {
		case n.IsRoot:
			if n.ParentID != "" {
				errs = append(errs, fmt.Errorf("root %s has a parent", id))
			}
			if n.Heading {
				errs = append(errs, fmt.Errorf("root %s is marked as heading", id))
			}
			continue
		case n.PlannerOnly():
			continue
		}
		if _, listed := owner[id]; !listed {
			errs = append(errs, fmt.Errorf("node %s is not listed by its parent %q", id, n.ParentID))
		}
		if err := s.checkAncestry(id); err != nil {
			errs = append(errs, err)
			continue
		}
		if n.Heading && s.DepthOf(id) > MaxHeadingDepth {
			errs = append(errs, fmt.Errorf("heading %s sits at depth %d", id, s.DepthOf(id)))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) checkAncestry(id string) error {
	seen := map[string]bool{}
	cur := s.nodes[id]
	for {
		if seen[cur.ID] {
			return fmt.Errorf("node %s is part of a parent cycle", id)
		}
		seen[cur.ID] = true
		if cur.IsRoot {
			return nil
		}
		next, ok := s.nodes[cur.ParentID]
		if !ok {
			return fmt.Errorf("node %s does not lead to a root (stops at %s)", id, cur.ID)
		}
		cur = next
	}
}
