package tree

import "slices"

// Patch carries the attributes to merge into a node. Nil fields are left alone.
type Patch struct {
	Text      *string
	Notes     *string
	Energy    *int
	Completed *bool
	Collapsed *bool
	Heading   *bool
	Time      *TimeSpec
	Slots     *[]Slot
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T { return &v }

// InsertSibling creates an empty node right after afterID in its parent's
// child order.
func (s *Store) InsertSibling(afterID string) (string, error) {
	n, err := s.lookup(afterID)
	if err != nil {
		return "", err
	}
	if n.IsRoot {
		return "", ErrRootNode
	}
	if n.PlannerOnly() {
		return "", ErrPlannerOnly
	}
	parent, err := s.lookup(n.ParentID)
	if err != nil {
		return "", err
	}
	id := s.nextID()
	s.nodes[id] = newNode(id, parent.ID)
	at := slices.Index(parent.Children, afterID) + 1
	parent.Children = slices.Insert(slices.Clone(parent.Children), at, id)
	return id, nil
}

// InsertChild appends an empty node to parentID and expands the parent.
func (s *Store) InsertChild(parentID string) (string, error) {
	parent, err := s.lookup(parentID)
	if err != nil {
		return "", err
	}
	if parent.PlannerOnly() {
		return "", ErrPlannerOnly
	}
	id := s.nextID()
	s.nodes[id] = newNode(id, parentID)
	parent.Children = append(slices.Clone(parent.Children), id)
	parent.Collapsed = false
	return id, nil
}

// AddPlannerTask creates a node under the hidden planner root.
func (s *Store) AddPlannerTask(t TimeSpec, slots []Slot) string {
	id := s.nextID()
	n := newNode(id, PlannerRootID)
	n.Time = t
	n.Slots = append(n.Slots, slots...)
	s.nodes[id] = n
	return id
}

// Reparent moves id to the end of newParentID's children. Moving a node under
// itself or one of its descendants fails with ErrCycle and changes nothing.
func (s *Store) Reparent(id, newParentID string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if n.IsRoot {
		return ErrRootNode
	}
	target, err := s.lookup(newParentID)
	if err != nil {
		return err
	}
	if id == newParentID || s.IsAncestor(id, newParentID) {
		return ErrCycle
	}
	if target.PlannerOnly() {
		return ErrPlannerOnly
	}
	if old, ok := s.nodes[n.ParentID]; ok {
		old.Children = remove(old.Children, id)
	}
	target.Children = append(remove(target.Children, id), id)
	target.Collapsed = false
	n.ParentID = newParentID
	s.demoteDeepHeadings(id)
	return nil
}

// Outdent promotes id to be the sibling right after its former parent.
func (s *Store) Outdent(id string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if n.IsRoot {
		return ErrRootNode
	}
	if n.PlannerOnly() {
		return ErrPlannerOnly
	}
	parent, err := s.lookup(n.ParentID)
	if err != nil {
		return err
	}
	if parent.IsRoot {
		return ErrTopLevel
	}
	grand, err := s.lookup(parent.ParentID)
	if err != nil {
		return err
	}
	parent.Children = remove(parent.Children, id)
	at := slices.Index(grand.Children, parent.ID) + 1
	grand.Children = slices.Insert(slices.Clone(grand.Children), at, id)
	n.ParentID = grand.ID
	return nil
}

// Reorder swaps id with its neighbour in direction dir (negative is up).
func (s *Store) Reorder(id string, dir int) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if n.IsRoot {
		return ErrRootNode
	}
	if n.PlannerOnly() {
		return ErrPlannerOnly
	}
	parent, err := s.lookup(n.ParentID)
	if err != nil {
		return err
	}
	i := slices.Index(parent.Children, id)
	j := i + sign(dir)
	if dir == 0 || j < 0 || j >= len(parent.Children) {
		return ErrBoundary
	}
	kids := slices.Clone(parent.Children)
	kids[i], kids[j] = kids[j], kids[i]
	parent.Children = kids
	return nil
}

// DeleteSubtree removes id and every descendant, returning the removed ids.
func (s *Store) DeleteSubtree(id string) ([]string, error) {
	n, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if n.IsRoot {
		return nil, ErrRootNode
	}
	doomed := s.Descendants(id)
	if parent, ok := s.nodes[n.ParentID]; ok && n.ParentID != PlannerRootID {
		parent.Children = remove(parent.Children, id)
	}
	for _, d := range doomed {
		delete(s.nodes, d)
	}
	return doomed, nil
}

func (s *Store) SetText(id, text string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.Text = text
	return nil
}

// Apply validates p against id and merges it. Nothing is written when
// validation fails.
func (s *Store) Apply(id string, p Patch) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if p.Energy != nil && (*p.Energy < 0 || *p.Energy > MaxEnergy) {
		return ErrEnergyRange
	}
	if p.Heading != nil && *p.Heading {
		if n.IsRoot {
			return ErrRootNode
		}
		if n.PlannerOnly() || s.DepthOf(id) > MaxHeadingDepth {
			return ErrHeadingDepth
		}
	}
	heading := n.Heading
	if p.Heading != nil {
		heading = *p.Heading
	}
	if p.Completed != nil && *p.Completed {
		if err := s.checkCompletable(n, heading); err != nil {
			return err
		}
	}
	if p.Text != nil {
		n.Text = *p.Text
	}
	if p.Notes != nil {
		n.Notes = *p.Notes
	}
	if p.Energy != nil {
		n.Energy = *p.Energy
	}
	if p.Completed != nil {
		n.Completed = *p.Completed
	}
	if p.Collapsed != nil {
		n.Collapsed = *p.Collapsed
	}
	if p.Heading != nil {
		n.Heading = *p.Heading
		if n.Heading {
			n.Completed = false
		}
	}
	if p.Time != nil {
		n.Time = normalize(*p.Time)
	}
	if p.Slots != nil {
		n.Slots = append([]Slot{}, (*p.Slots)...)
	}
	return nil
}

// ToggleCompleted flips completion. Roots and headings are not tasks and
// refuse to be completed; reopening is always allowed.
func (s *Store) ToggleCompleted(id string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	if !n.Completed {
		if err := s.checkCompletable(n, n.Heading); err != nil {
			return err
		}
	}
	n.Completed = !n.Completed
	return nil
}

func (s *Store) ToggleCollapsed(id string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.Collapsed = !n.Collapsed
	return nil
}

// MarkSeen clears the transient new-node flag.
func (s *Store) MarkSeen(id string) error {
	n, err := s.lookup(id)
	if err != nil {
		return err
	}
	n.New = false
	return nil
}

// checkCompletable rejects completion of roots and of n when it is a heading
// shallow enough to render as one.
func (s *Store) checkCompletable(n *Node, heading bool) error {
	if n.IsRoot {
		return ErrRootNode
	}
	if heading && s.DepthOf(n.ID) <= MaxHeadingDepth {
		return ErrHeadingTask
	}
	return nil
}

// demoteDeepHeadings clears the heading flag on nodes of id's subtree that a
// move pushed below MaxHeadingDepth.
func (s *Store) demoteDeepHeadings(id string) {
	for _, d := range s.Descendants(id) {
		if n := s.nodes[d]; n.Heading && s.DepthOf(d) > MaxHeadingDepth {
			n.Heading = false
		}
	}
}

func normalize(t TimeSpec) TimeSpec {
	switch t.Kind {
	case TimeDeadline:
		return DeadlineAt(t.Deadline)
	case TimeSchedule:
		return ScheduleAt(t.Start, t.End, t.ShowTime)
	default:
		return NoTime()
	}
}

func remove(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(x string) bool { return x == id })
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
