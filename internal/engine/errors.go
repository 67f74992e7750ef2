package engine

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by a search stopped before it could finish.
var ErrCancelled = errors.New("engine: search cancelled")

// IllegalPositionError reports a position that violates the structural
// invariants a search requires, such as a missing king.
type IllegalPositionError struct {
	Reason string
}

func (e *IllegalPositionError) Error() string {
	return fmt.Sprintf("engine: illegal position: %s", e.Reason)
}
