package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fittrack/internal/repository"
)

// gormRepository implements repository.Repository for one entity type on top
// of a shared *gorm.DB. Every query is untracked; GORM carries no EF-style
// change tracker, so NoTracking needs no special handling here.
type gormRepository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a GORM-backed repository for T.
func NewRepository[T any](db *gorm.DB) repository.Repository[T] {
	return &gormRepository[T]{db: db}
}

func (r *gormRepository[T]) apply(ctx context.Context, pred repository.Predicate, opts []repository.QueryOption) *gorm.DB {
	q := repository.BuildQuery(opts...)
	tx := r.db.WithContext(ctx)
	tx = applyPredicate(tx, pred)
	for _, path := range q.Preloads {
		tx = tx.Preload(path)
	}
	for _, o := range q.Orders {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", o.Column, dir))
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit).Offset(q.Offset)
	}
	return tx
}

// applyPredicate translates the structured predicate into WHERE clauses.
// Columns come from code, never from request input.
func applyPredicate(tx *gorm.DB, pred repository.Predicate) *gorm.DB {
	for _, c := range pred.Conds {
		switch c.Op {
		case repository.OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", c.Column), c.Value)
		case repository.OpContains:
			tx = tx.Where(fmt.Sprintf("%s ILIKE ?", c.Column), "%"+fmt.Sprint(c.Value)+"%")
		case repository.OpIn:
			tx = tx.Where(fmt.Sprintf("%s IN ?", c.Column), c.Value)
		case repository.OpIsNull:
			tx = tx.Where(fmt.Sprintf("%s IS NULL", c.Column))
		}
	}
	return tx
}

func (r *gormRepository[T]) GetAll(ctx context.Context, opts ...repository.QueryOption) ([]T, error) {
	return r.Find(ctx, repository.All(), opts...)
}

func (r *gormRepository[T]) Find(ctx context.Context, pred repository.Predicate, opts ...repository.QueryOption) ([]T, error) {
	var rows []T
	if err := r.apply(ctx, pred, opts).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository[T]) FindOne(ctx context.Context, pred repository.Predicate, opts ...repository.QueryOption) (*T, error) {
	var row T
	err := r.apply(ctx, pred, opts).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *gormRepository[T]) GetByID(ctx context.Context, id uint, opts ...repository.QueryOption) (*T, error) {
	return r.FindOne(ctx, repository.Eq("id", id), opts...)
}

func (r *gormRepository[T]) Count(ctx context.Context, pred repository.Predicate) (int64, error) {
	var model T
	var count int64
	tx := applyPredicate(r.db.WithContext(ctx).Model(&model), pred)
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormRepository[T]) Insert(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *gormRepository[T]) Update(ctx context.Context, entity *T) error {
	result := r.db.WithContext(ctx).Save(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrUpdateFailed
	}
	return nil
}

func (r *gormRepository[T]) Remove(ctx context.Context, entity *T) error {
	result := r.db.WithContext(ctx).Delete(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *gormRepository[T]) BulkInsert(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entities {
			if err := tx.Create(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRepository[T]) BulkUpdate(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entities {
			if err := tx.Save(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRepository[T]) BulkRemove(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entities {
			if err := tx.Delete(e).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRepository[T]) RemoveByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var model T
	return r.db.WithContext(ctx).Delete(&model, ids).Error
}
