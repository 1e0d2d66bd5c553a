package memory

import (
	"context"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// unitOfWork builds every repository eagerly over the shared store, so
// repeated accessor calls return the same instance.
type unitOfWork struct {
	s *Store

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

// NewUnitOfWork wraps the store in a unit of work.
func NewUnitOfWork(s *Store) repository.UnitOfWork {
	return &unitOfWork{
		s: s,
		users: newRepository(s, table[domain.User]{
			rows:    func(s *Store) map[uint]domain.User { return s.users },
			resolve: resolveUser,
			cascade: cascadeUser,
		}),
		roles: newRepository(s, table[domain.Role]{
			rows:    func(s *Store) map[uint]domain.Role { return s.roles },
			cascade: cascadeRole,
		}),
		userRoles: newRepository(s, table[domain.UserRole]{
			rows: func(s *Store) map[uint]domain.UserRole { return s.userRoles },
		}),
		categories: newRepository(s, table[domain.Category]{
			rows:    func(s *Store) map[uint]domain.Category { return s.categories },
			cascade: cascadeCategory,
		}),
		exercises: newRepository(s, table[domain.Exercise]{
			rows:    func(s *Store) map[uint]domain.Exercise { return s.exercises },
			resolve: resolveExercise,
			cascade: cascadeExercise,
		}),
		exerciseCategories: newRepository(s, table[domain.ExerciseCategory]{
			rows: func(s *Store) map[uint]domain.ExerciseCategory { return s.exerciseCategories },
		}),
		images: newRepository(s, table[domain.Image]{
			rows: func(s *Store) map[uint]domain.Image { return s.images },
		}),
		videos: newRepository(s, table[domain.Video]{
			rows: func(s *Store) map[uint]domain.Video { return s.videos },
		}),
		workouts: newRepository(s, table[domain.Workout]{
			rows:    func(s *Store) map[uint]domain.Workout { return s.workouts },
			resolve: resolveWorkout,
			cascade: cascadeWorkout,
		}),
		workoutExercises: newRepository(s, table[domain.WorkoutExercise]{
			rows:    func(s *Store) map[uint]domain.WorkoutExercise { return s.workoutExercises },
			resolve: resolveWorkoutExercise,
		}),
	}
}

func (u *unitOfWork) Users() repository.Repository[domain.User]         { return u.users }
func (u *unitOfWork) Roles() repository.Repository[domain.Role]         { return u.roles }
func (u *unitOfWork) UserRoles() repository.Repository[domain.UserRole] { return u.userRoles }
func (u *unitOfWork) Categories() repository.Repository[domain.Category] {
	return u.categories
}
func (u *unitOfWork) Exercises() repository.Repository[domain.Exercise] { return u.exercises }
func (u *unitOfWork) ExerciseCategories() repository.Repository[domain.ExerciseCategory] {
	return u.exerciseCategories
}
func (u *unitOfWork) Images() repository.Repository[domain.Image]       { return u.images }
func (u *unitOfWork) Videos() repository.Repository[domain.Video]       { return u.videos }
func (u *unitOfWork) Workouts() repository.Repository[domain.Workout]   { return u.workouts }
func (u *unitOfWork) WorkoutExercises() repository.Repository[domain.WorkoutExercise] {
	return u.workoutExercises
}

// Transaction emulates atomicity by snapshotting the tables and restoring
// them when the callback fails. Good enough for dev and tests; it does not
// isolate concurrent writers the way the relational backend does.
func (u *unitOfWork) Transaction(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sn := u.s.snapshot()
	if err := fn(u); err != nil {
		u.s.restore(sn)
		return err
	}
	return nil
}
