package tree

// SeedRootID is the root of the sample page shipped on first start.
const SeedRootID = "root-1"

// Seed returns the sample store: one root with two heading phases, the first
// holding a completed research task. today is a "2006-01-02" date.
func Seed(today string) *Store {
	s := NewStore()
	s.Put(Node{
		ID:       SeedRootID,
		Text:     "Project goal",
		Children: []string{"node-1", "node-2"},
		IsRoot:   true,
	})
	s.Put(Node{
		ID:       "node-1",
		Text:     "Phase one: requirements",
		Children: []string{"node-1-1"},
		ParentID: SeedRootID,
		Energy:   5,
		Time:     DeadlineAt(today),
		Notes:    "Focus on competitor analysis",
		Heading:  true,
	})
	s.Put(Node{
		ID:        "node-1-1",
		Text:      "Survey competing products",
		ParentID:  "node-1",
		Completed: true,
		Energy:    2,
	})
	s.Put(Node{
		ID:       "node-2",
		Text:     "Phase two: prototype",
		ParentID: SeedRootID,
		Energy:   3,
		Time:     ScheduleAt(today+"T14:00", today+"T16:00", true),
		Notes:    "Design it in Figma",
		Heading:  true,
	})
	return s
}
