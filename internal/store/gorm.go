package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormStore persists records through GORM. It works with any dialect the
// database manager opens (PostgreSQL in production, SQLite locally and in
// tests).
type GormStore[T any] struct {
	db   *gorm.DB
	kind Kind
}

// NewGormStore creates a store for kind on db.
func NewGormStore[T any](db *gorm.DB, kind Kind) *GormStore[T] {
	return &GormStore[T]{db: db, kind: kind}
}

func (s *GormStore[T]) Kind() Kind { return s.kind }

func (s *GormStore[T]) FetchAll(ctx context.Context) ([]T, error) {
	var out []T
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore[T]) FetchOne(ctx context.Context, id uint) (*T, error) {
	var rec T
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *GormStore[T]) CreateOne(ctx context.Context, rec *T) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// UpdateOne re-reads the row and saves fn's result inside a database transaction.
func (s *GormStore[T]) UpdateOne(ctx context.Context, id uint, fn func(*T) error) (*T, error) {
	var rec T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := fn(&rec); err != nil {
			return err
		}
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteOne soft-deletes the row; soft-deleted rows are invisible to every
// other method.
func (s *GormStore[T]) DeleteOne(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
