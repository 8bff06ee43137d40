package tree

// DefaultHistoryLimit is the number of snapshots kept for undo.
const DefaultHistoryLimit = 20

// History is a bounded stack of whole-store snapshots. Snapshots are cloned on
// the way in and handed out as-is on the way out.
type History struct {
	limit int
	snaps []*Store
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records a copy of s, evicting the oldest snapshot when full.
func (h *History) Push(s *Store) {
	h.snaps = append(h.snaps, s.Clone())
	if over := len(h.snaps) - h.limit; over > 0 {
		h.snaps = append([]*Store(nil), h.snaps[over:]...)
	}
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (*Store, bool) {
	if len(h.snaps) == 0 {
		return nil, false
	}
	last := h.snaps[len(h.snaps)-1]
	h.snaps = h.snaps[:len(h.snaps)-1]
	return last, true
}

func (h *History) Len() int   { return len(h.snaps) }
func (h *History) Limit() int { return h.limit }
func (h *History) Clear()     { h.snaps = nil }
