package tree

import (
	"errors"
	"fmt"
)

var (
	ErrRootNode     = errors.New("not allowed on a root node")
	ErrCycle        = errors.New("cannot move a node into itself or its descendants")
	ErrTopLevel     = errors.New("already at top level")
	ErrBoundary     = errors.New("already at the edge of its siblings")
	ErrHeadingDepth = fmt.Errorf("headings are only allowed up to depth %d", MaxHeadingDepth)
	ErrEnergyRange  = fmt.Errorf("energy must be between 0 and %d", MaxEnergy)
	ErrPlannerOnly  = errors.New("not allowed on a planner-only task")
	ErrHeadingTask  = errors.New("headings cannot be completed")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// IsNoop reports whether err means the edit had nothing to act on: a stale
// id or a move past the edge of the tree. Callers may drop these silently.
func IsNoop(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf) || errors.Is(err, ErrTopLevel) || errors.Is(err, ErrBoundary)
}
