package tree

// DepthOf counts the edges between id and its root. Unknown ids and roots
// have depth 0.
func (s *Store) DepthOf(id string) int {
	depth := 0
	seen := map[string]bool{}
	cur, ok := s.nodes[id]
	for ok && cur.ParentID != "" && !cur.IsRoot && !seen[cur.ID] {
		seen[cur.ID] = true
		depth++
		cur, ok = s.nodes[cur.ParentID]
	}
	return depth
}

// IsAncestor reports whether ancestorID is a strict ancestor of id, walking
// parent links upward from id. Unknown ids are never ancestors.
func (s *Store) IsAncestor(ancestorID, id string) bool {
	seen := map[string]bool{}
	cur, ok := s.nodes[id]
	for ok && cur.ParentID != "" && !seen[cur.ID] {
		seen[cur.ID] = true
		if cur.ParentID == ancestorID {
			return true
		}
		cur, ok = s.nodes[cur.ParentID]
	}
	return false
}

// RootOf walks from id to the top of its tree. ok is false when the walk ends
// anywhere but a root node, e.g. for planner-only tasks.
func (s *Store) RootOf(id string) (string, bool) {
	path := s.Path(id)
	if len(path) == 0 {
		return "", false
	}
	top := s.nodes[path[0]]
	return top.ID, top.IsRoot
}

// Path returns the ids from the top of id's tree down to id.
func (s *Store) Path(id string) []string {
	var up []string
	seen := map[string]bool{}
	cur, ok := s.nodes[id]
	for ok && !seen[cur.ID] {
		seen[cur.ID] = true
		up = append(up, cur.ID)
		if cur.IsRoot || cur.ParentID == "" {
			break
		}
		cur, ok = s.nodes[cur.ParentID]
	}
	for i, j := 0, len(up)-1; i < j; i, j = i+1, j-1 {
		up[i], up[j] = up[j], up[i]
	}
	return up
}

// Descendants returns id followed by every node reachable through children,
// in pre-order.
func (s *Store) Descendants(id string) []string {
	if _, ok := s.nodes[id]; !ok {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	var walk func(string)
	walk = func(cur string) {
		if seen[cur] {
			return
		}
		seen[cur] = true
		out = append(out, cur)
		if n, ok := s.nodes[cur]; ok {
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(id)
	return out
}

// Roots returns the ids of all root nodes in id order.
func (s *Store) Roots() []string {
	var roots []string
	for _, id := range s.IDs() {
		if s.nodes[id].IsRoot {
			roots = append(roots, id)
		}
	}
	return roots
}
