package memory

import (
	"context"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// table binds a generic repository to one of the store's maps, with optional
// association resolution for reads and join-row cascade for removals.
type table[T any] struct {
	rows    func(*Store) map[uint]T
	resolve func(*Store, *T, []string)
	cascade func(*Store, T)
}

type memRepository[T any] struct {
	s *Store
	t table[T]
}

func newRepository[T any](s *Store, t table[T]) repository.Repository[T] {
	return &memRepository[T]{s: s, t: t}
}

func asEntity[T any](e *T) domain.Entity { return any(e).(domain.Entity) }

func (r *memRepository[T]) resolve(row *T, q repository.Query) {
	if r.t.resolve != nil && len(q.Preloads) > 0 {
		r.t.resolve(r.s, row, q.Preloads)
	}
}

func (r *memRepository[T]) GetAll(ctx context.Context, opts ...repository.QueryOption) ([]T, error) {
	return r.Find(ctx, repository.All(), opts...)
}

func (r *memRepository[T]) Find(ctx context.Context, pred repository.Predicate, opts ...repository.QueryOption) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.countOp()
	q := repository.BuildQuery(opts...)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []T
	for _, row := range r.t.rows(r.s) {
		row := row
		if matches(&row, pred) {
			rows = append(rows, row)
		}
	}
	sortRows(rows, q.Orders)
	if q.Offset > 0 {
		if q.Offset >= len(rows) {
			rows = nil
		} else {
			rows = rows[q.Offset:]
		}
	}
	if q.Limit > 0 && q.Limit < len(rows) {
		rows = rows[:q.Limit]
	}
	for i := range rows {
		r.resolve(&rows[i], q)
	}
	return rows, nil
}

func (r *memRepository[T]) FindOne(ctx context.Context, pred repository.Predicate, opts ...repository.QueryOption) (*T, error) {
	rows, err := r.Find(ctx, pred, opts...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

func (r *memRepository[T]) GetByID(ctx context.Context, id uint, opts ...repository.QueryOption) (*T, error) {
	return r.FindOne(ctx, repository.Eq("id", id), opts...)
}

func (r *memRepository[T]) Count(ctx context.Context, pred repository.Predicate) (int64, error) {
	rows, err := r.Find(ctx, pred)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r *memRepository[T]) Insert(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.countOp()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.insertLocked(entity)
	return nil
}

func (r *memRepository[T]) insertLocked(entity *T) {
	e := asEntity(entity)
	if e.GetID() == 0 {
		e.SetID(r.s.nextID())
	}
	e.Touch(time.Now().UTC())
	r.t.rows(r.s)[e.GetID()] = *entity
}

func (r *memRepository[T]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.countOp()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.updateLocked(entity)
}

func (r *memRepository[T]) updateLocked(entity *T) error {
	e := asEntity(entity)
	rows := r.t.rows(r.s)
	if _, ok := rows[e.GetID()]; !ok {
		return repository.ErrUpdateFailed
	}
	e.Touch(time.Now().UTC())
	rows[e.GetID()] = *entity
	return nil
}

func (r *memRepository[T]) Remove(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.countOp()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.removeLocked(asEntity(entity).GetID())
}

func (r *memRepository[T]) removeLocked(id uint) error {
	rows := r.t.rows(r.s)
	row, ok := rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(rows, id)
	if r.t.cascade != nil {
		r.t.cascade(r.s, row)
	}
	return nil
}

func (r *memRepository[T]) BulkInsert(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.countOp()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range entities {
		r.insertLocked(e)
	}
	return nil
}

func (r *memRepository[T]) BulkUpdate(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.countOp()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := r.t.rows(r.s)
	for _, e := range entities {
		if _, ok := rows[asEntity(e).GetID()]; !ok {
			return repository.ErrUpdateFailed
		}
	}
	for _, e := range entities {
		if err := r.updateLocked(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *memRepository[T]) BulkRemove(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, asEntity(e).GetID())
	}
	return r.RemoveByIDs(ctx, ids)
}

func (r *memRepository[T]) RemoveByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.countOp()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		// Missing ids are skipped, matching relational DELETE semantics.
		if _, ok := r.t.rows(r.s)[id]; ok {
			if err := r.removeLocked(id); err != nil {
				return err
			}
		}
	}
	return nil
}
