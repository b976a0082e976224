package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/finkeeper/internal/client/storage"
)

const keyLastRefreshPrefix = "last_refresh:"

// SaveLastRefresh saves the time of the last successful refresh of a collection
func (s *Storage) SaveLastRefresh(ctx context.Context, collection string, at time.Time) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		// Храним unix nano в big endian
		value := make([]byte, 8)
		binary.BigEndian.PutUint64(value, uint64(at.UnixNano()))

		if err := bucket.Put([]byte(keyLastRefreshPrefix+collection), value); err != nil {
			return fmt.Errorf("failed to save last refresh time: %w", err)
		}

		return nil
	})
}

// GetLastRefresh retrieves the time of the last successful refresh
// Returns zero time if the collection was never refreshed
func (s *Storage) GetLastRefresh(ctx context.Context, collection string) (time.Time, error) {
	if s.db == nil {
		return time.Time{}, storage.ErrStorageClosed
	}

	var at time.Time

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		value := bucket.Get([]byte(keyLastRefreshPrefix + collection))
		if value == nil {
			// коллекцию еще не обновляли
			return nil
		}
		if len(value) != 8 {
			return fmt.Errorf("corrupted last refresh value for %s", collection)
		}

		at = time.Unix(0, int64(binary.BigEndian.Uint64(value)))
		return nil
	})

	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last refresh time: %w", err)
	}

	return at, nil
}
