package optimistic

import "context"

//go:generate moq -out gateway_mock.go . Gateway

// Gateway is the remote CRUD backend for one entity type.
type Gateway[T Entity, In any] interface {
	// List returns the authoritative collection
	List(ctx context.Context) ([]T, error)

	// Create stores a new entity and returns it with the server-assigned id
	Create(ctx context.Context, in In) (T, error)

	// Update replaces an existing entity and returns the stored value
	Update(ctx context.Context, entity T) (T, error)

	// Delete removes the entity with the given id
	Delete(ctx context.Context, id string) error
}
