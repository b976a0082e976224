package storage

import (
	"context"
	"time"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastRefresh saves the time of the last successful refresh of a collection
	SaveLastRefresh(ctx context.Context, collection string, at time.Time) error

	// GetLastRefresh retrieves the time of the last successful refresh
	// Returns zero time if the collection was never refreshed
	GetLastRefresh(ctx context.Context, collection string) (time.Time, error)
}
