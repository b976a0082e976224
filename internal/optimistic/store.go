package optimistic

import (
	"fmt"
	"sync"
)

// Store holds the ordered collection and the pending operation per id.
// Every method is atomic; the multi-step mutation protocol built on top of it
// is not.
type Store[T Entity] struct {
	pending map[string]OpKind
	items   []T
	mu      sync.Mutex
}

// NewStore creates a store seeded with confirmed entities.
func NewStore[T Entity](initial ...T) *Store[T] {
	s := &Store[T]{pending: make(map[string]OpKind)}
	s.ReplaceAll(initial)
	return s
}

// All returns the collection in order, head first.
func (s *Store[T]) All() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the entity with the given id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.items, id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of entities in the collection.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Items returns every entity tagged with its synchronization state.
func (s *Store[T]) Items() []Item[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item[T], 0, len(s.items))
	for _, e := range s.items {
		item := Item[T]{Entity: e, State: StateConfirmed}
		if op, ok := s.pending[e.GetID()]; ok {
			item.State = StatePending
			item.Op = op
		}
		out = append(out, item)
	}
	return out
}

// State reports whether the entity with id is confirmed or pending.
func (s *Store[T]) State(id string) (StateKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pending[id]; busy {
		return StatePending, true
	}
	if indexOf(s.items, id) >= 0 {
		return StateConfirmed, true
	}
	return StateConfirmed, false
}

// ReplaceAll replaces the collection wholesale. Entities with a temporary id
// and duplicate ids are dropped. Pending records are left untouched.
func (s *Store[T]) ReplaceAll(entities []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = Rebase(nil, entities, nil)
}

// Pending returns the outstanding operation for id, if any.
func (s *Store[T]) Pending(id string) (OpKind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.pending[id]
	return op, ok
}

// PendingCount returns the number of ids with an outstanding operation.
func (s *Store[T]) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// stageCreate prepends an optimistic entity and records a pending create.
func (s *Store[T]) stageCreate(e T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := e.GetID()
	if _, busy := s.pending[id]; busy {
		return fmt.Errorf("%w: %s", ErrMutationInFlight, id)
	}
	if indexOf(s.items, id) >= 0 {
		return fmt.Errorf("duplicate id %s", id)
	}

	s.items = append([]T{e}, s.items...)
	s.pending[id] = OpCreate
	return nil
}

// stageUpdate swaps the entity in place and returns the value it replaced.
func (s *Store[T]) stageUpdate(e T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	id := e.GetID()
	if _, busy := s.pending[id]; busy {
		return zero, fmt.Errorf("%w: %s", ErrMutationInFlight, id)
	}
	i := indexOf(s.items, id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	original := s.items[i]
	s.items[i] = e
	s.pending[id] = OpUpdate
	return original, nil
}

// stageDelete removes the entity and returns it with its former index.
func (s *Store[T]) stageDelete(id string) (T, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if _, busy := s.pending[id]; busy {
		return zero, -1, fmt.Errorf("%w: %s", ErrMutationInFlight, id)
	}
	i := indexOf(s.items, id)
	if i < 0 {
		return zero, -1, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}

	original := s.items[i]
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.pending[id] = OpDelete
	return original, i, nil
}

// confirmCreate swaps the optimistic entity for the authoritative one.
func (s *Store[T]) confirmCreate(tempID string, confirmed T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = Reconcile(s.items, tempID, confirmed)
	delete(s.pending, tempID)
}

// discardCreate removes the optimistic entity minted under tempID.
func (s *Store[T]) discardCreate(tempID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.items, tempID); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	delete(s.pending, tempID)
}

// settle writes value at id (if still present) and clears the pending record.
// Used both to apply the authoritative value and to restore the original.
func (s *Store[T]) settle(id string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.items, id); i >= 0 {
		s.items[i] = value
	}
	delete(s.pending, id)
}

// restoreAt re-inserts a deleted entity at its former index, clamped to the
// current length, and clears the pending record.
func (s *Store[T]) restoreAt(index int, e T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := e.GetID()
	delete(s.pending, id)

	if i := indexOf(s.items, id); i >= 0 {
		s.items[i] = e
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.items) {
		index = len(s.items)
	}
	s.items = append(s.items[:index:index], append([]T{e}, s.items[index:]...)...)
}

// clear drops the pending record for id.
func (s *Store[T]) clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// rebase merges a refreshed snapshot with outstanding mutations.
func (s *Store[T]) rebase(snapshot []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = Rebase(s.items, snapshot, s.pending)
}
