package storage

import (
	"context"
	"time"
)

// Record одна сущность пользователя в виде JSON.
// Kind совпадает с именем REST ресурса (expenses, categories, ...).
type Record struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	UserID    string
	Kind      string
	Payload   []byte
}

// RecordStorage defines interface for schema-agnostic record persistence.
// All lookups are scoped by user and kind.
type RecordStorage interface {
	// Insert stores a new record.
	// Returns ErrRecordExists if the id is taken.
	Insert(ctx context.Context, rec Record) error

	// Update replaces payload and updated_at of an existing record.
	// Returns ErrRecordNotFound if nothing matched.
	Update(ctx context.Context, rec Record) error

	// Delete removes a record.
	// Returns ErrRecordNotFound if nothing matched.
	Delete(ctx context.Context, userID, kind, id string) error

	// Get retrieves a single record.
	// Returns ErrRecordNotFound if the record doesn't exist.
	Get(ctx context.Context, userID, kind, id string) (*Record, error)

	// List returns records of one kind, newest first.
	// Returns empty slice if no records found.
	List(ctx context.Context, userID, kind string) ([]Record, error)
}
