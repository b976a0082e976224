package boltdb

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/finkeeper/internal/client/storage"
)

// SaveSnapshot replaces the cached snapshot of a collection
func (s *Storage) SaveSnapshot(ctx context.Context, collection string, payload []byte) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return fmt.Errorf("snapshots bucket not found")
		}

		if err := bucket.Put([]byte(collection), payload); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// LoadSnapshot returns the cached snapshot of a collection
func (s *Storage) LoadSnapshot(ctx context.Context, collection string) ([]byte, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var payload []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshots)
		if bucket == nil {
			return fmt.Errorf("snapshots bucket not found")
		}

		data := bucket.Get([]byte(collection))
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		// Данные валидны только внутри транзакции, копируем
		payload = make([]byte, len(data))
		copy(payload, data)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return payload, nil
}

// ClearSnapshots removes every cached snapshot
func (s *Storage) ClearSnapshots(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketSnapshots); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return fmt.Errorf("failed to delete snapshots bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketSnapshots); err != nil {
			return fmt.Errorf("failed to recreate snapshots bucket: %w", err)
		}
		return nil
	})
}
