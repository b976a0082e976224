package optimistic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordInput struct {
	Amount int
}

var errBackend = errors.New("backend unavailable")

func newTestSynchronizer(gw Gateway[record, recordInput], rec *Recorder) *Synchronizer[record, recordInput] {
	return New(gw, Options[record, recordInput]{
		Name: "Expense",
		Placeholder: func(tempID string, in recordInput) record {
			return record{ID: tempID, Amount: in.Amount, UserID: "optimistic"}
		},
		Notifier: rec,
	})
}

func TestSynchronizer_CreateSuccess(t *testing.T) {
	rec := &Recorder{}
	gw := &GatewayMock[record, recordInput]{
		CreateFunc: func(ctx context.Context, in recordInput) (record, error) {
			return record{ID: "srv-1", Amount: in.Amount, UserID: "u1"}, nil
		},
	}
	s := newTestSynchronizer(gw, rec)
	s.Seed([]record{{ID: "a"}})

	created, err := s.Create(context.Background(), recordInput{Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)

	all := s.Store().All()
	assert.Len(t, all, 2)
	assert.Equal(t, []string{"srv-1", "a"}, ids(all))
	for _, r := range all {
		assert.False(t, IsTempID(r.ID))
	}
	assert.Equal(t, 0, s.Store().PendingCount())

	notes := rec.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, VariantSuccess, notes[0].Variant)
	assert.Equal(t, "Expense added", notes[0].Title)
}

func TestSynchronizer_CreateFailureRollsBack(t *testing.T) {
	rec := &Recorder{}
	gw := &GatewayMock[record, recordInput]{
		CreateFunc: func(ctx context.Context, in recordInput) (record, error) {
			return record{}, errBackend
		},
	}
	s := newTestSynchronizer(gw, rec)
	s.Seed([]record{{ID: "a"}, {ID: "b"}})

	_, err := s.Create(context.Background(), recordInput{Amount: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, OpCreate, gwErr.Op)

	assert.Equal(t, []string{"a", "b"}, ids(s.Store().All()))
	assert.Equal(t, 0, s.Store().PendingCount())

	notes := rec.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, VariantDestructive, notes[0].Variant)
	assert.Equal(t, "Failed to add expense", notes[0].Title)
	assert.Equal(t, errBackend.Error(), notes[0].Description)
}

func TestSynchronizer_CreateWorkedExample(t *testing.T) {
	type expense struct {
		ID       string
		Merchant string
		UserID   string
		Amount   int
	}
	type expenseInput struct {
		Merchant string
		Amount   int
	}

	release := make(chan struct{})
	started := make(chan struct{})
	gw := &GatewayMock[entityAdapter[expense], expenseInput]{
		CreateFunc: func(ctx context.Context, in expenseInput) (entityAdapter[expense], error) {
			close(started)
			<-release
			return entityAdapter[expense]{id: "srv-9", v: expense{ID: "srv-9", Amount: in.Amount, Merchant: in.Merchant, UserID: "u1"}}, nil
		},
	}
	s := New(gw, Options[entityAdapter[expense], expenseInput]{
		Placeholder: func(tempID string, in expenseInput) entityAdapter[expense] {
			return entityAdapter[expense]{id: tempID, v: expense{ID: tempID, Amount: in.Amount, Merchant: in.Merchant, UserID: "optimistic"}}
		},
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Create(context.Background(), expenseInput{Amount: 50, Merchant: "Coffee"})
		done <- err
	}()

	<-started
	pending := s.Store().All()
	require.Len(t, pending, 1)
	assert.True(t, IsTempID(pending[0].id))
	assert.Equal(t, expense{ID: pending[0].id, Amount: 50, Merchant: "Coffee", UserID: "optimistic"}, pending[0].v)

	close(release)
	require.NoError(t, <-done)

	final := s.Store().All()
	require.Len(t, final, 1)
	assert.Equal(t, expense{ID: "srv-9", Amount: 50, Merchant: "Coffee", UserID: "u1"}, final[0].v)
}

type entityAdapter[V any] struct {
	v  V
	id string
}

func (e entityAdapter[V]) GetID() string { return e.id }

func TestSynchronizer_CreateFailureKeepsOtherPendingCreates(t *testing.T) {
	release := make(chan struct{})
	gw := &GatewayMock[record, recordInput]{
		CreateFunc: func(ctx context.Context, in recordInput) (record, error) {
			if in.Amount == 1 {
				<-release
				return record{ID: "srv-1", Amount: 1}, nil
			}
			return record{}, errBackend
		},
	}
	n := 0
	s := New(gw, Options[record, recordInput]{
		Placeholder: func(tempID string, in recordInput) record {
			return record{ID: tempID, Amount: in.Amount}
		},
		NewTempID: func() string {
			n++
			return TempIDPrefix + string(rune('a'+n))
		},
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Create(context.Background(), recordInput{Amount: 1})
		done <- err
	}()
	require.Eventually(t, func() bool { return s.Store().Len() == 1 }, time.Second, time.Millisecond)

	_, err := s.Create(context.Background(), recordInput{Amount: 2})
	require.Error(t, err)

	all := s.Store().All()
	require.Len(t, all, 1)
	assert.Equal(t, 1, all[0].Amount)
	assert.True(t, IsTempID(all[0].ID))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"srv-1"}, ids(s.Store().All()))
}

func TestSynchronizer_CreateRejectsMismatchedPlaceholder(t *testing.T) {
	gw := &GatewayMock[record, recordInput]{}
	s := New(gw, Options[record, recordInput]{
		Placeholder: func(string, recordInput) record { return record{ID: "fixed"} },
	})

	_, err := s.Create(context.Background(), recordInput{})
	require.Error(t, err)
	assert.Empty(t, gw.CreateCalls())
	assert.Equal(t, 0, s.Store().Len())
}

func TestSynchronizer_UpdateRollback(t *testing.T) {
	rec := &Recorder{}
	gw := &GatewayMock[record, recordInput]{
		UpdateFunc: func(ctx context.Context, entity record) (record, error) {
			return record{}, errBackend
		},
	}
	s := newTestSynchronizer(gw, rec)
	s.Seed([]record{{ID: "a", Amount: 10}})

	_, err := s.Update(context.Background(), record{ID: "a", Amount: 20})
	require.ErrorIs(t, err, errBackend)

	got, ok := s.Store().Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, got.Amount)
	assert.Equal(t, 0, s.Store().PendingCount())

	notes := rec.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, VariantDestructive, notes[0].Variant)
	assert.Equal(t, "Failed to update expense", notes[0].Title)
}

func TestSynchronizer_UpdateSuccessAppliesAuthoritativeValue(t *testing.T) {
	rec := &Recorder{}
	stamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var sent record
	gw := &GatewayMock[record, recordInput]{
		UpdateFunc: func(ctx context.Context, entity record) (record, error) {
			sent = entity
			return record{ID: entity.ID, Amount: entity.Amount, UserID: "u1"}, nil
		},
	}
	s := New(gw, Options[record, recordInput]{
		Notifier: rec,
		Now:      func() time.Time { return stamp },
		Touch: func(e record, at time.Time) record {
			e.UserID = at.Format(time.RFC3339)
			return e
		},
	})
	s.Seed([]record{{ID: "a", Amount: 10}})

	updated, err := s.Update(context.Background(), record{ID: "a", Amount: 20})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.UserID)
	assert.Equal(t, stamp.Format(time.RFC3339), sent.UserID)

	got, _ := s.Store().Get("a")
	assert.Equal(t, record{ID: "a", Amount: 20, UserID: "u1"}, got)

	notes := rec.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, VariantSuccess, notes[0].Variant)
	assert.Equal(t, "Item updated", notes[0].Title)
}

func TestSynchronizer_PreconditionFailures(t *testing.T) {
	rec := &Recorder{}
	gw := &GatewayMock[record, recordInput]{}
	s := newTestSynchronizer(gw, rec)

	_, err := s.Update(context.Background(), record{ID: "missing"})
	assert.ErrorIs(t, err, ErrEntityNotFound)

	err = s.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEntityNotFound)

	assert.Empty(t, gw.UpdateCalls())
	assert.Empty(t, gw.DeleteCalls())
	assert.Empty(t, rec.Notifications())
}

func TestSynchronizer_RejectsSecondMutationOnSameID(t *testing.T) {
	rec := &Recorder{}
	release := make(chan struct{})
	gw := &GatewayMock[record, recordInput]{
		UpdateFunc: func(ctx context.Context, entity record) (record, error) {
			<-release
			return entity, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return nil
		},
	}
	s := newTestSynchronizer(gw, rec)
	s.Seed([]record{{ID: "a", Amount: 10}, {ID: "b"}})

	done := make(chan error, 1)
	go func() {
		_, err := s.Update(context.Background(), record{ID: "a", Amount: 20})
		done <- err
	}()
	require.Eventually(t, func() bool {
		_, busy := s.Store().Pending("a")
		return busy
	}, time.Second, time.Millisecond)

	err := s.Delete(context.Background(), "a")
	assert.ErrorIs(t, err, ErrMutationInFlight)
	_, err = s.Update(context.Background(), record{ID: "a", Amount: 30})
	assert.ErrorIs(t, err, ErrMutationInFlight)

	// другой id не блокируется
	require.NoError(t, s.Delete(context.Background(), "b"))

	close(release)
	require.NoError(t, <-done)

	got, _ := s.Store().Get("a")
	assert.Equal(t, 20, got.Amount)
	assert.Len(t, rec.Notifications(), 2)
}

func TestSynchronizer_DeleteSuccess(t *testing.T) {
	rec := &Recorder{}
	gw := &GatewayMock[record, recordInput]{
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	s := newTestSynchronizer(gw, rec)
	s.Seed([]record{{ID: "a"}, {ID: "b"}})

	require.NoError(t, s.Delete(context.Background(), "a"))
	assert.Equal(t, []string{"b"}, ids(s.Store().All()))
	assert.Equal(t, 0, s.Store().PendingCount())

	notes := rec.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "Expense deleted", notes[0].Title)
	assert.Equal(t, "Your expense has been deleted successfully.", notes[0].Description)
}

func TestSynchronizer_DeleteRollbackRestoresIndex(t *testing.T) {
	rec := &Recorder{}
	gw := &GatewayMock[record, recordInput]{
		DeleteFunc: func(ctx context.Context, id string) error { return errBackend },
	}
	s := newTestSynchronizer(gw, rec)
	s.Seed([]record{{ID: "A"}, {ID: "B"}, {ID: "C"}})

	err := s.Delete(context.Background(), "B")
	require.ErrorIs(t, err, errBackend)

	assert.Equal(t, []string{"A", "B", "C"}, ids(s.Store().All()))
	notes := rec.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, VariantDestructive, notes[0].Variant)
}

func TestSynchronizer_RefreshIsIdempotent(t *testing.T) {
	backend := []record{{ID: "a", Amount: 1}, {ID: "b", Amount: 2}}
	gw := &GatewayMock[record, recordInput]{
		ListFunc: func(ctx context.Context) ([]record, error) {
			return backend, nil
		},
	}
	rec := &Recorder{}
	s := newTestSynchronizer(gw, rec)

	require.NoError(t, s.Refresh(context.Background()))
	first := s.Store().All()
	require.NoError(t, s.Refresh(context.Background()))
	second := s.Store().All()

	assert.Equal(t, first, second)
	assert.Equal(t, backend, first)
	assert.Empty(t, rec.Notifications())
}

func TestSynchronizer_RefreshKeepsPendingCreate(t *testing.T) {
	release := make(chan struct{})
	gw := &GatewayMock[record, recordInput]{
		CreateFunc: func(ctx context.Context, in recordInput) (record, error) {
			<-release
			return record{ID: "srv-1", Amount: in.Amount}, nil
		},
		ListFunc: func(ctx context.Context) ([]record, error) {
			// сервер уже сохранил запись, ответ на create ещё не пришёл
			return []record{{ID: "srv-1", Amount: 7}, {ID: "a"}}, nil
		},
	}
	s := newTestSynchronizer(gw, &Recorder{})
	s.Seed([]record{{ID: "a"}})

	done := make(chan error, 1)
	go func() {
		_, err := s.Create(context.Background(), recordInput{Amount: 7})
		done <- err
	}()
	require.Eventually(t, func() bool { return s.Store().PendingCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, s.Refresh(context.Background()))
	all := s.Store().All()
	require.Len(t, all, 3)
	assert.True(t, IsTempID(all[0].ID))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"srv-1", "a"}, ids(s.Store().All()))
}

func TestSynchronizer_RefreshFailure(t *testing.T) {
	rec := &Recorder{}
	gw := &GatewayMock[record, recordInput]{
		ListFunc: func(ctx context.Context) ([]record, error) { return nil, errBackend },
	}
	s := newTestSynchronizer(gw, rec)
	s.Seed([]record{{ID: "a"}})

	err := s.Refresh(context.Background())
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, []string{"a"}, ids(s.Store().All()))

	notes := rec.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "Failed to load expenses", notes[0].Title)
}

func TestSynchronizer_ExactlyOneNotificationPerOutcome(t *testing.T) {
	for _, fail := range []bool{false, true} {
		rec := &Recorder{}
		gw := &GatewayMock[record, recordInput]{
			CreateFunc: func(ctx context.Context, in recordInput) (record, error) {
				if fail {
					return record{}, errBackend
				}
				return record{ID: "srv-1"}, nil
			},
			UpdateFunc: func(ctx context.Context, e record) (record, error) {
				if fail {
					return record{}, errBackend
				}
				return e, nil
			},
			DeleteFunc: func(ctx context.Context, id string) error {
				if fail {
					return errBackend
				}
				return nil
			},
		}
		s := newTestSynchronizer(gw, rec)
		s.Seed([]record{{ID: "a"}, {ID: "b"}})
		ctx := context.Background()

		want := VariantSuccess
		if fail {
			want = VariantDestructive
		}

		_, _ = s.Create(ctx, recordInput{})
		require.Len(t, rec.Notifications(), 1)
		_, _ = s.Update(ctx, record{ID: "a", Amount: 3})
		require.Len(t, rec.Notifications(), 2)
		_ = s.Delete(ctx, "b")
		require.Len(t, rec.Notifications(), 3)

		for _, n := range rec.Notifications() {
			assert.Equal(t, want, n.Variant)
		}
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "categories", plural("Category"))
	assert.Equal(t, "budgets", plural("Budget"))
}
