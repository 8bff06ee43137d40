package tree

import (
	"encoding/json"
	"fmt"
)

// wireNode is the persisted shape of a node. The time association is stored
// flat under timeType/ddl/scheduleStart/scheduleEnd.
type wireNode struct {
	ID               string   `json:"id"`
	Text             string   `json:"text"`
	Children         []string `json:"children"`
	ParentID         *string  `json:"parentId"`
	IsRoot           bool     `json:"isRoot,omitempty"`
	Collapsed        bool     `json:"collapsed"`
	Completed        bool     `json:"completed"`
	Energy           int      `json:"energy"`
	TimeType         *string  `json:"timeType"`
	DDL              string   `json:"ddl"`
	ScheduleStart    string   `json:"scheduleStart"`
	ScheduleEnd      string   `json:"scheduleEnd"`
	ShowSpecificTime bool     `json:"showSpecificTime,omitempty"`
	Notes            string   `json:"notes"`
	PlannedSlots     []Slot   `json:"plannedSlots"`
	IsHeading        bool     `json:"isHeading"`
	IsNew            bool     `json:"isNew,omitempty"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	w := wireNode{
		ID:           n.ID,
		Text:         n.Text,
		Children:     n.Children,
		IsRoot:       n.IsRoot,
		Collapsed:    n.Collapsed,
		Completed:    n.Completed,
		Energy:       n.Energy,
		Notes:        n.Notes,
		PlannedSlots: n.Slots,
		IsHeading:    n.Heading,
		IsNew:        n.New,
	}
	if w.Children == nil {
		w.Children = []string{}
	}
	if w.PlannedSlots == nil {
		w.PlannedSlots = []Slot{}
	}
	if n.ParentID != "" {
		w.ParentID = Ptr(n.ParentID)
	}
	switch n.Time.Kind {
	case TimeDeadline:
		w.TimeType = Ptr("ddl")
		w.DDL = n.Time.Deadline
	case TimeSchedule:
		w.TimeType = Ptr("schedule")
		w.ScheduleStart = n.Time.Start
		w.ScheduleEnd = n.Time.End
		w.ShowSpecificTime = n.Time.ShowTime
	}
	return json.Marshal(w)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Node{
		ID:        w.ID,
		Text:      w.Text,
		Children:  w.Children,
		IsRoot:    w.IsRoot,
		Collapsed: w.Collapsed,
		Completed: w.Completed,
		Energy:    min(max(w.Energy, 0), MaxEnergy),
		Notes:     w.Notes,
		Slots:     w.PlannedSlots,
		Heading:   w.IsHeading,
		New:       w.IsNew,
	}
	if w.ParentID != nil {
		n.ParentID = *w.ParentID
	}
	if w.TimeType != nil {
		switch *w.TimeType {
		case "ddl", "deadline":
			n.Time = DeadlineAt(w.DDL)
		case "schedule":
			n.Time = ScheduleAt(w.ScheduleStart, w.ScheduleEnd, w.ShowSpecificTime)
		}
	}
	return nil
}

// MarshalJSON encodes the store as an object keyed by node id.
func (s *Store) MarshalJSON() ([]byte, error) {
	out := make(map[string]*Node, len(s.nodes))
	for id, n := range s.nodes {
		out[id] = n
	}
	return json.Marshal(out)
}

func (s *Store) UnmarshalJSON(data []byte) error {
	var in map[string]Node
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if s.newID == nil {
		s.newID = shortID
	}
	s.nodes = make(map[string]*Node, len(in))
	for id, n := range in {
		if n.ID == "" {
			n.ID = id
		}
		if n.ID != id {
			return fmt.Errorf("node keyed %q carries id %q", id, n.ID)
		}
		s.Put(n)
	}
	return nil
}
