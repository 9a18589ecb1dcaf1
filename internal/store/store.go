// Package store defines the storage port the ledger services persist through
// and its in-memory and GORM-backed adapters.
package store

import (
	"context"
	"errors"
)

// Kind names an entity collection behind the port.
type Kind string

const (
	KindCategory    Kind = "category"
	KindTransaction Kind = "transaction"
	KindBudget      Kind = "budget"
	KindSavingsGoal Kind = "savings_goal"
	KindAuditLog    Kind = "audit_log"
)

// ErrNotFound is returned by FetchOne and UpdateOne for an absent id.
var ErrNotFound = errors.New("record not found")

// Record is implemented by every persisted model (via models.Base).
type Record interface {
	GetID() uint
	SetID(id uint)
}

// Store is the CRUD port for one entity kind. Implementations return value
// copies so callers never alias internal state.
type Store[T any] interface {
	Kind() Kind
	FetchAll(ctx context.Context) ([]T, error)
	FetchOne(ctx context.Context, id uint) (*T, error)
	// CreateOne persists rec and writes the assigned id back into it.
	CreateOne(ctx context.Context, rec *T) error
	// UpdateOne applies fn to the current record and persists the result
	// atomically. An error from fn aborts the update and is returned as is.
	UpdateOne(ctx context.Context, id uint, fn func(*T) error) (*T, error)
	// DeleteOne reports whether a record was removed.
	DeleteOne(ctx context.Context, id uint) (bool, error)
}
