package sync

import (
	"context"

	"github.com/iudanet/finkeeper/internal/client/storage"
	"github.com/iudanet/finkeeper/internal/optimistic"
)

// collection стирает типы синхронизатора для общих операций сервиса
type collection interface {
	name() string
	len() int
	pending() int
	refresh(ctx context.Context) error
	load(ctx context.Context, snapshots storage.SnapshotStorage) error
	persist(ctx context.Context, snapshots storage.SnapshotStorage) error
}

type binding[T optimistic.Entity, In any] struct {
	sync *optimistic.Synchronizer[T, In]
	key  string
}

func bind[T optimistic.Entity, In any](key string, s *optimistic.Synchronizer[T, In]) collection {
	return &binding[T, In]{key: key, sync: s}
}

func (b *binding[T, In]) name() string { return b.key }

func (b *binding[T, In]) len() int { return b.sync.Store().Len() }

func (b *binding[T, In]) pending() int { return b.sync.Store().PendingCount() }

func (b *binding[T, In]) refresh(ctx context.Context) error {
	return b.sync.Refresh(ctx)
}

func (b *binding[T, In]) load(ctx context.Context, snapshots storage.SnapshotStorage) error {
	items, err := storage.LoadCollection[T](ctx, snapshots, b.key)
	if err != nil {
		return err
	}
	b.sync.Seed(items)
	return nil
}

// persist сохраняет только подтвержденные записи: временные id в кэш не попадают
func (b *binding[T, In]) persist(ctx context.Context, snapshots storage.SnapshotStorage) error {
	items := b.sync.Store().Items()
	confirmed := make([]T, 0, len(items))
	for _, it := range items {
		if optimistic.IsTempID(it.Entity.GetID()) {
			continue
		}
		confirmed = append(confirmed, it.Entity)
	}
	return storage.SaveCollection(ctx, snapshots, b.key, confirmed)
}
