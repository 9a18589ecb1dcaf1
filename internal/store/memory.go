package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in a map guarded by a RWMutex. Identifiers are
// assigned from a monotonically increasing counter and never reused.
type MemoryStore[T any, P interface {
	*T
	Record
}] struct {
	mu     sync.RWMutex
	kind   Kind
	nextID uint
	rows   map[uint]T
}

// NewMemoryStore creates an empty in-memory store for kind.
func NewMemoryStore[T any, P interface {
	*T
	Record
}](kind Kind) *MemoryStore[T, P] {
	return &MemoryStore[T, P]{kind: kind, rows: make(map[uint]T)}
}

func (s *MemoryStore[T, P]) Kind() Kind { return s.kind }

// FetchAll returns copies of all records ordered by id.
func (s *MemoryStore[T, P]) FetchAll(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rows[id])
	}
	return out, nil
}

func (s *MemoryStore[T, P]) FetchOne(_ context.Context, id uint) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *MemoryStore[T, P]) CreateOne(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	P(rec).SetID(s.nextID)
	s.rows[s.nextID] = *rec
	return nil
}

func (s *MemoryStore[T, P]) UpdateOne(_ context.Context, id uint, fn func(*T) error) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&row); err != nil {
		return nil, err
	}
	P(&row).SetID(id)
	s.rows[id] = row
	return &row, nil
}

func (s *MemoryStore[T, P]) DeleteOne(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}
