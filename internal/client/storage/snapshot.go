package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

//go:generate moq -out snapshot_mock.go . SnapshotStorage

// SnapshotStorage keeps the last confirmed state of every collection so the
// client can start without the server
type SnapshotStorage interface {
	// SaveSnapshot replaces the cached snapshot of a collection
	SaveSnapshot(ctx context.Context, collection string, payload []byte) error

	// LoadSnapshot returns the cached snapshot
	// Returns ErrSnapshotNotFound if nothing was cached yet
	LoadSnapshot(ctx context.Context, collection string) ([]byte, error)

	// ClearSnapshots removes every cached snapshot
	ClearSnapshots(ctx context.Context) error
}

// SaveCollection сериализует коллекцию и сохраняет как снимок
func SaveCollection[T any](ctx context.Context, s SnapshotStorage, collection string, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal %s snapshot: %w", collection, err)
	}
	return s.SaveSnapshot(ctx, collection, payload)
}

// LoadCollection читает снимок коллекции. Отсутствующий снимок дает пустой список.
func LoadCollection[T any](ctx context.Context, s SnapshotStorage, collection string) ([]T, error) {
	payload, err := s.LoadSnapshot(ctx, collection)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return []T{}, nil
		}
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s snapshot: %w", collection, err)
	}
	return items, nil
}
