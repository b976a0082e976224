package optimistic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Options configures a Synchronizer.
type Options[T Entity, In any] struct {
	// Placeholder builds the optimistic entity shown until the gateway answers.
	// Server-computed fields should take neutral defaults.
	Placeholder func(tempID string, in In) T

	// Touch stamps a fresh update time on an entity before it is sent.
	// Nil leaves entities untouched.
	Touch func(entity T, at time.Time) T

	Notifier Notifier
	Logger   *slog.Logger

	// Now and NewTempID are overridable for tests.
	Now       func() time.Time
	NewTempID func() string

	// Name is the human readable entity name used in notifications ("Expense").
	Name string
}

// Synchronizer applies create/update/delete optimistically to a Store and
// reconciles them with the Gateway.
//
// A second mutation on an id that still has one outstanding is rejected with
// ErrMutationInFlight. Mutations on different ids may run concurrently.
type Synchronizer[T Entity, In any] struct {
	gateway Gateway[T, In]
	store   *Store[T]
	logger  *slog.Logger
	opts    Options[T, In]
}

// New creates a synchronizer with an empty store.
func New[T Entity, In any](gateway Gateway[T, In], opts Options[T, In]) *Synchronizer[T, In] {
	if opts.Notifier == nil {
		opts.Notifier = Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewTempID == nil {
		opts.NewTempID = NewTempID
	}
	if opts.Name == "" {
		opts.Name = "Item"
	}

	return &Synchronizer[T, In]{
		gateway: gateway,
		store:   NewStore[T](),
		logger:  opts.Logger.With("collection", opts.Name),
		opts:    opts,
	}
}

// Store exposes the underlying collection for reads.
func (s *Synchronizer[T, In]) Store() *Store[T] {
	return s.store
}

// Seed replaces the collection with previously confirmed entities, e.g. a
// cached snapshot loaded at startup.
func (s *Synchronizer[T, In]) Seed(entities []T) {
	s.store.ReplaceAll(entities)
}

// Create inserts an optimistic entity at the head of the collection, calls the
// gateway and swaps the placeholder for the authoritative entity. On failure
// the placeholder is removed and a *GatewayError is returned.
func (s *Synchronizer[T, In]) Create(ctx context.Context, in In) (T, error) {
	var zero T
	if s.opts.Placeholder == nil {
		return zero, errors.New("placeholder builder is not configured")
	}

	tempID := s.opts.NewTempID()
	placeholder := s.opts.Placeholder(tempID, in)
	if placeholder.GetID() != tempID {
		return zero, fmt.Errorf("placeholder id %q does not match temporary id %q", placeholder.GetID(), tempID)
	}
	if err := s.store.stageCreate(placeholder); err != nil {
		return zero, err
	}

	s.logger.Debug("Optimistic create applied", "temp_id", tempID)

	created, err := s.gateway.Create(ctx, in)
	if err != nil {
		s.store.discardCreate(tempID)
		s.logger.Warn("Create rolled back", "temp_id", tempID, "error", err)
		s.fail(OpCreate, err)
		return zero, &GatewayError{Op: OpCreate, ID: tempID, Err: err}
	}

	s.store.confirmCreate(tempID, created)
	s.logger.Debug("Create reconciled", "temp_id", tempID, "entity_id", created.GetID())
	s.succeed(OpCreate)

	return created, nil
}

// Update replaces the entity in place, calls the gateway and applies the
// authoritative value. On failure the original value is restored.
func (s *Synchronizer[T, In]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	id := entity.GetID()

	if s.opts.Touch != nil {
		entity = s.opts.Touch(entity, s.opts.Now())
	}

	original, err := s.store.stageUpdate(entity)
	if err != nil {
		return zero, err
	}

	updated, err := s.gateway.Update(ctx, entity)
	if err != nil {
		s.store.settle(id, original)
		s.logger.Warn("Update rolled back", "entity_id", id, "error", err)
		s.fail(OpUpdate, err)
		return zero, &GatewayError{Op: OpUpdate, ID: id, Err: err}
	}

	s.store.settle(id, updated)
	s.succeed(OpUpdate)

	return updated, nil
}

// Delete removes the entity immediately and calls the gateway. On failure the
// entity is re-inserted at the index it had before the call.
func (s *Synchronizer[T, In]) Delete(ctx context.Context, id string) error {
	original, index, err := s.store.stageDelete(id)
	if err != nil {
		return err
	}

	if err := s.gateway.Delete(ctx, id); err != nil {
		s.store.restoreAt(index, original)
		s.logger.Warn("Delete rolled back", "entity_id", id, "index", index, "error", err)
		s.fail(OpDelete, err)
		return &GatewayError{Op: OpDelete, ID: id, Err: err}
	}

	s.store.clear(id)
	s.succeed(OpDelete)

	return nil
}

// Refresh lists the gateway and rebases the collection on the result, keeping
// outstanding optimistic mutations visible. Refresh twice against an unchanged
// backend yields the same collection.
func (s *Synchronizer[T, In]) Refresh(ctx context.Context) error {
	entities, err := s.gateway.List(ctx)
	if err != nil {
		s.logger.Warn("Refresh failed", "error", err)
		s.opts.Notifier.Notify(Notification{
			Title:       fmt.Sprintf("Failed to load %s", plural(s.opts.Name)),
			Description: err.Error(),
			Variant:     VariantDestructive,
		})
		return &GatewayError{Op: OpRefresh, Err: err}
	}

	s.store.rebase(entities)
	s.logger.Debug("Collection refreshed", "count", len(entities), "pending", s.store.PendingCount())

	return nil
}

func (s *Synchronizer[T, In]) succeed(op OpKind) {
	s.opts.Notifier.Notify(Notification{
		Title:       fmt.Sprintf("%s %s", s.opts.Name, pastTense(op)),
		Description: fmt.Sprintf("Your %s has been %s successfully.", strings.ToLower(s.opts.Name), pastTense(op)),
		Variant:     VariantSuccess,
	})
}

func (s *Synchronizer[T, In]) fail(op OpKind, err error) {
	s.opts.Notifier.Notify(Notification{
		Title:       fmt.Sprintf("Failed to %s %s", verb(op), strings.ToLower(s.opts.Name)),
		Description: err.Error(),
		Variant:     VariantDestructive,
	})
}

func verb(op OpKind) string {
	switch op {
	case OpCreate:
		return "add"
	case OpDelete:
		return "delete"
	default:
		return "update"
	}
}

func pastTense(op OpKind) string {
	switch op {
	case OpCreate:
		return "added"
	case OpDelete:
		return "deleted"
	default:
		return "updated"
	}
}

func plural(name string) string {
	name = strings.ToLower(name)
	if strings.HasSuffix(name, "y") {
		return strings.TrimSuffix(name, "y") + "ies"
	}
	return name + "s"
}
