package optimistic

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound indicates that update/delete referenced an id absent from the collection
	ErrEntityNotFound = errors.New("entity not found")

	// ErrMutationInFlight indicates that the id already has an outstanding mutation
	ErrMutationInFlight = errors.New("mutation already in flight")
)

// GatewayError wraps a failed gateway call. The optimistic change has already
// been rolled back when it is returned.
type GatewayError struct {
	Err error
	Op  OpKind
	ID  string
}

func (e *GatewayError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.ID, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
