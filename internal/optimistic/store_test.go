package optimistic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadAccessors(t *testing.T) {
	s := NewStore(record{ID: "a", Amount: 1}, record{ID: "b", Amount: 2})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, ids(s.All()))

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, got.Amount)

	_, ok = s.Get("missing")
	assert.False(t, ok)

	all := s.All()
	all[0].Amount = 100
	first, _ := s.Get("a")
	assert.Equal(t, 1, first.Amount, "All must return a copy")
}

func TestStore_ReplaceAllDropsTempIDs(t *testing.T) {
	s := NewStore[record]()
	s.ReplaceAll([]record{{ID: "temp-1"}, {ID: "a"}, {ID: "b"}})

	assert.Equal(t, []string{"a", "b"}, ids(s.All()))
}

func TestStore_StageCreate(t *testing.T) {
	s := NewStore(record{ID: "a"})

	require.NoError(t, s.stageCreate(record{ID: "temp-1"}))
	assert.Equal(t, []string{"temp-1", "a"}, ids(s.All()))

	op, ok := s.Pending("temp-1")
	require.True(t, ok)
	assert.Equal(t, OpCreate, op)

	err := s.stageCreate(record{ID: "temp-1"})
	assert.ErrorIs(t, err, ErrMutationInFlight)

	err = s.stageCreate(record{ID: "a"})
	assert.Error(t, err)
}

func TestStore_StageUpdate(t *testing.T) {
	s := NewStore(record{ID: "a", Amount: 10})

	original, err := s.stageUpdate(record{ID: "a", Amount: 20})
	require.NoError(t, err)
	assert.Equal(t, 10, original.Amount)

	current, _ := s.Get("a")
	assert.Equal(t, 20, current.Amount)

	_, err = s.stageUpdate(record{ID: "a", Amount: 30})
	assert.ErrorIs(t, err, ErrMutationInFlight)

	_, err = s.stageUpdate(record{ID: "zzz"})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestStore_StageDeleteAndRestore(t *testing.T) {
	s := NewStore(record{ID: "a"}, record{ID: "b"}, record{ID: "c"})

	original, index, err := s.stageDelete("b")
	require.NoError(t, err)
	assert.Equal(t, 1, index)
	assert.Equal(t, []string{"a", "c"}, ids(s.All()))

	state, ok := s.State("b")
	require.True(t, ok)
	assert.Equal(t, StatePending, state)

	s.restoreAt(index, original)
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.All()))
	assert.Equal(t, 0, s.PendingCount())

	_, _, err = s.stageDelete("missing")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestStore_RestoreAtClampsIndex(t *testing.T) {
	s := NewStore(record{ID: "a"})
	s.restoreAt(5, record{ID: "z"})
	assert.Equal(t, []string{"a", "z"}, ids(s.All()))

	s.restoreAt(-1, record{ID: "y"})
	assert.Equal(t, []string{"y", "a", "z"}, ids(s.All()))
}

func TestStore_Items(t *testing.T) {
	s := NewStore(record{ID: "a"})
	require.NoError(t, s.stageCreate(record{ID: "temp-1"}))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, StatePending, items[0].State)
	assert.Equal(t, OpCreate, items[0].Op)
	assert.Equal(t, StateConfirmed, items[1].State)
	assert.Empty(t, items[1].Op)
	assert.Equal(t, "pending", items[0].State.String())
}
