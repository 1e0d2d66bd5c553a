// Package memory implements the repository contract on in-process maps. It
// backs local development and the service test suite; the Postgres backend is
// the production store. Association resolution and join-row cascades are
// wired by hand so both backends uphold the same invariants.
package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"fittrack/internal/domain"
)

// Store holds one table per entity type behind a single RWMutex.
type Store struct {
	mu  sync.RWMutex
	seq uint
	ops atomic.Int64

	users              map[uint]domain.User
	roles              map[uint]domain.Role
	userRoles          map[uint]domain.UserRole
	categories         map[uint]domain.Category
	exercises          map[uint]domain.Exercise
	exerciseCategories map[uint]domain.ExerciseCategory
	images             map[uint]domain.Image
	videos             map[uint]domain.Video
	workouts           map[uint]domain.Workout
	workoutExercises   map[uint]domain.WorkoutExercise
}

// NewStore constructs an empty store seeded with the built-in roles.
func NewStore() *Store {
	s := &Store{
		users:              make(map[uint]domain.User),
		roles:              make(map[uint]domain.Role),
		userRoles:          make(map[uint]domain.UserRole),
		categories:         make(map[uint]domain.Category),
		exercises:          make(map[uint]domain.Exercise),
		exerciseCategories: make(map[uint]domain.ExerciseCategory),
		images:             make(map[uint]domain.Image),
		videos:             make(map[uint]domain.Video),
		workouts:           make(map[uint]domain.Workout),
		workoutExercises:   make(map[uint]domain.WorkoutExercise),
	}
	s.seedRoles()
	return s
}

func (s *Store) seedRoles() {
	now := time.Now().UTC()
	for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
		role := domain.Role{Name: name}
		role.SetID(s.nextID())
		role.Touch(now)
		s.roles[role.ID] = role
	}
}

// nextID assigns identities; the caller holds the write lock (or owns the
// store exclusively, as in seeding).
func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

// Ops counts data-store calls; tests use it to assert that empty bulk
// operations touch the store zero times.
func (s *Store) Ops() int64 { return s.ops.Load() }

func (s *Store) countOp() { s.ops.Add(1) }

type snapshot struct {
	seq                uint
	users              map[uint]domain.User
	roles              map[uint]domain.Role
	userRoles          map[uint]domain.UserRole
	categories         map[uint]domain.Category
	exercises          map[uint]domain.Exercise
	exerciseCategories map[uint]domain.ExerciseCategory
	images             map[uint]domain.Image
	videos             map[uint]domain.Video
	workouts           map[uint]domain.Workout
	workoutExercises   map[uint]domain.WorkoutExercise
}

func copyTable[T any](src map[uint]T) map[uint]T {
	dst := make(map[uint]T, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		seq:                s.seq,
		users:              copyTable(s.users),
		roles:              copyTable(s.roles),
		userRoles:          copyTable(s.userRoles),
		categories:         copyTable(s.categories),
		exercises:          copyTable(s.exercises),
		exerciseCategories: copyTable(s.exerciseCategories),
		images:             copyTable(s.images),
		videos:             copyTable(s.videos),
		workouts:           copyTable(s.workouts),
		workoutExercises:   copyTable(s.workoutExercises),
	}
}

func (s *Store) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = sn.seq
	s.users = sn.users
	s.roles = sn.roles
	s.userRoles = sn.userRoles
	s.categories = sn.categories
	s.exercises = sn.exercises
	s.exerciseCategories = sn.exerciseCategories
	s.images = sn.images
	s.videos = sn.videos
	s.workouts = sn.workouts
	s.workoutExercises = sn.workoutExercises
}
