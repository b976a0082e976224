// Package optimistic keeps an ordered in-memory collection of entities in sync
// with a remote CRUD gateway. Mutations are applied to the local collection
// immediately and reconciled (or rolled back) once the gateway answers.
package optimistic

import (
	"strings"

	"github.com/google/uuid"
)

// TempIDPrefix marks ids minted on the client for entities the gateway has not
// acknowledged yet. Server ids are bare UUIDs and never carry it.
const TempIDPrefix = "temp-"

// Entity is any record that can live in a synchronized collection.
type Entity interface {
	GetID() string
}

// OpKind names a mutation kind tracked per entity id.
type OpKind string

const (
	OpCreate  OpKind = "create"
	OpUpdate  OpKind = "update"
	OpDelete  OpKind = "delete"
	OpRefresh OpKind = "refresh" // only used in errors, never recorded as pending
)

// StateKind tags an entity as confirmed by the gateway or optimistic.
type StateKind int

const (
	StateConfirmed StateKind = iota
	StatePending
)

func (k StateKind) String() string {
	if k == StatePending {
		return "pending"
	}
	return "confirmed"
}

// Item is an entity together with its synchronization state.
type Item[T Entity] struct {
	Entity T
	State  StateKind
	Op     OpKind // empty for confirmed entities
}

// NewTempID mints a temporary id. Ids are never reused.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was minted by NewTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
