package repository

import (
	"context"

	"gorm.io/gorm"
)

// ReferenceRepository data access shared by zones, locations and access levels.
type ReferenceRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	GetByCode(ctx context.Context, code string) (*T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, query string, args ...interface{}) (int64, error)
}

type referenceRepo[T any] struct {
	db       *gorm.DB
	idColumn string
}

// NewReferenceRepo creates a ReferenceRepository keyed by idColumn.
func NewReferenceRepo[T any](db *gorm.DB, idColumn string) ReferenceRepository[T] {
	return &referenceRepo[T]{db: db, idColumn: idColumn}
}

func (r *referenceRepo[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *referenceRepo[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where(r.idColumn+" = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *referenceRepo[T]) GetByCode(ctx context.Context, code string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *referenceRepo[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := r.db.WithContext(ctx).Order("code ASC").Find(&out).Error
	return out, err
}

func (r *referenceRepo[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *referenceRepo[T]) Delete(ctx context.Context, id string) error {
	var zero T
	result := r.db.WithContext(ctx).Where(r.idColumn+" = ?", id).Delete(&zero)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *referenceRepo[T]) Count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var n int64
	var zero T
	err := r.db.WithContext(ctx).Model(&zero).Where(query, args...).Count(&n).Error
	return n, err
}
