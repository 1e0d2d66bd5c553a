package postgres

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// unitOfWork memoizes one repository per entity type over a shared session.
// Transaction re-roots a child unit of work on the store transaction so that
// every repository call inside the callback commits or rolls back together.
type unitOfWork struct {
	db *gorm.DB

	mu                 sync.Mutex
	users              repository.Repository[domain.User]
	roles              repository.Repository[domain.Role]
	userRoles          repository.Repository[domain.UserRole]
	categories         repository.Repository[domain.Category]
	exercises          repository.Repository[domain.Exercise]
	exerciseCategories repository.Repository[domain.ExerciseCategory]
	images             repository.Repository[domain.Image]
	videos             repository.Repository[domain.Video]
	workouts           repository.Repository[domain.Workout]
	workoutExercises   repository.Repository[domain.WorkoutExercise]
}

// NewUnitOfWork wraps a GORM session in a unit of work.
func NewUnitOfWork(db *gorm.DB) repository.UnitOfWork {
	return &unitOfWork{db: db}
}

func memoize[T any](u *unitOfWork, slot *repository.Repository[T]) repository.Repository[T] {
	u.mu.Lock()
	defer u.mu.Unlock()
	if *slot == nil {
		*slot = NewRepository[T](u.db)
	}
	return *slot
}

func (u *unitOfWork) Users() repository.Repository[domain.User]   { return memoize(u, &u.users) }
func (u *unitOfWork) Roles() repository.Repository[domain.Role]   { return memoize(u, &u.roles) }
func (u *unitOfWork) UserRoles() repository.Repository[domain.UserRole] {
	return memoize(u, &u.userRoles)
}
func (u *unitOfWork) Categories() repository.Repository[domain.Category] {
	return memoize(u, &u.categories)
}
func (u *unitOfWork) Exercises() repository.Repository[domain.Exercise] {
	return memoize(u, &u.exercises)
}
func (u *unitOfWork) ExerciseCategories() repository.Repository[domain.ExerciseCategory] {
	return memoize(u, &u.exerciseCategories)
}
func (u *unitOfWork) Images() repository.Repository[domain.Image] { return memoize(u, &u.images) }
func (u *unitOfWork) Videos() repository.Repository[domain.Video] { return memoize(u, &u.videos) }
func (u *unitOfWork) Workouts() repository.Repository[domain.Workout] {
	return memoize(u, &u.workouts)
}
func (u *unitOfWork) WorkoutExercises() repository.Repository[domain.WorkoutExercise] {
	return memoize(u, &u.workoutExercises)
}

func (u *unitOfWork) Transaction(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnitOfWork(tx))
	})
}
