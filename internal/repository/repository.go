package repository

import (
	"context"

	"fittrack/internal/domain"
)

// Error constants for the repository layer. An empty result from GetAll/Find
// is not an error; only single-row lookups report ErrNotFound, and callers
// translate that into a domain-level signal.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors from store errors.
type RepositoryError string

func (e RepositoryError) Error() string { return string(e) }

// Repository provides type-safe, composable data access for one entity type.
// Single-row mutations commit immediately; multi-step operations group under
// UnitOfWork.Transaction. Bulk variants with empty input perform no store
// calls.
type Repository[T any] interface {
	// GetAll returns all rows, optionally eager-loading navigation paths.
	GetAll(ctx context.Context, opts ...QueryOption) ([]T, error)
	// Find returns the rows matching the predicate.
	Find(ctx context.Context, pred Predicate, opts ...QueryOption) ([]T, error)
	// FindOne returns the first row matching the predicate, or ErrNotFound.
	FindOne(ctx context.Context, pred Predicate, opts ...QueryOption) (*T, error)
	// GetByID returns the row with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id uint, opts ...QueryOption) (*T, error)
	Count(ctx context.Context, pred Predicate) (int64, error)

	Insert(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Remove(ctx context.Context, entity *T) error

	BulkInsert(ctx context.Context, entities []*T) error
	BulkUpdate(ctx context.Context, entities []*T) error
	BulkRemove(ctx context.Context, entities []*T) error
	// RemoveByIDs is the id-based removal variant; entities and ids are both
	// accepted across the Bulk API.
	RemoveByIDs(ctx context.Context, ids []uint) error
}

// UnitOfWork hands out one repository instance per entity type; repeated
// calls to the same accessor within one unit of work return the same
// instance. Transaction is the explicit commit boundary for multi-step
// operations: the callback's unit of work shares a single store transaction,
// and any error rolls the whole batch back.
type UnitOfWork interface {
	Users() Repository[domain.User]
	Roles() Repository[domain.Role]
	UserRoles() Repository[domain.UserRole]
	Categories() Repository[domain.Category]
	Exercises() Repository[domain.Exercise]
	ExerciseCategories() Repository[domain.ExerciseCategory]
	Images() Repository[domain.Image]
	Videos() Repository[domain.Video]
	Workouts() Repository[domain.Workout]
	WorkoutExercises() Repository[domain.WorkoutExercise]

	Transaction(ctx context.Context, fn func(UnitOfWork) error) error
}
