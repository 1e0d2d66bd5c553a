package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/domain"
)

func TestWorkoutCreate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")
	user := env.register(t, "sam", "sam@example.com")

	t.Run("custom workout carries its owner", func(t *testing.T) {
		w, err := env.workouts.Create(ctx, user, WorkoutInput{Name: "My Plan", Kind: domain.WorkoutCustom})
		require.NoError(t, err)
		require.NotNil(t, w.OwnerID)
		assert.Equal(t, user.UserID, *w.OwnerID)
	})

	t.Run("predefined workout has no owner", func(t *testing.T) {
		w, err := env.workouts.Create(ctx, admin, WorkoutInput{Name: "Starting Strength", Kind: domain.WorkoutPredefined})
		require.NoError(t, err)
		assert.Nil(t, w.OwnerID)
	})

	t.Run("non-admin cannot create predefined", func(t *testing.T) {
		_, err := env.workouts.Create(ctx, user, WorkoutInput{Name: "Sneaky", Kind: domain.WorkoutPredefined})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("anonymous cannot create", func(t *testing.T) {
		_, err := env.workouts.Create(ctx, domain.Caller{}, WorkoutInput{Name: "Nope", Kind: domain.WorkoutCustom})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("kind is validated", func(t *testing.T) {
		_, err := env.workouts.Create(ctx, user, WorkoutInput{Name: "Oddball", Kind: "weekly"})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestWorkoutOwnershipGating(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")
	owner := env.register(t, "owner", "owner@example.com")
	stranger := env.register(t, "stranger", "stranger@example.com")

	custom, err := env.workouts.Create(ctx, owner, WorkoutInput{Name: "Mine", Kind: domain.WorkoutCustom})
	require.NoError(t, err)
	predefined, err := env.workouts.Create(ctx, admin, WorkoutInput{Name: "Catalog", Kind: domain.WorkoutPredefined})
	require.NoError(t, err)

	t.Run("stranger cannot mutate a custom workout", func(t *testing.T) {
		_, err := env.workouts.Update(ctx, stranger, custom.ID, WorkoutInput{Name: "Hijacked", Kind: domain.WorkoutCustom})
		assert.ErrorIs(t, err, ErrForbidden)
		assert.ErrorIs(t, env.workouts.Delete(ctx, stranger, custom.ID), ErrForbidden)
	})

	t.Run("owner can mutate their custom workout", func(t *testing.T) {
		w, err := env.workouts.Update(ctx, owner, custom.ID, WorkoutInput{Name: "Mine v2", Kind: domain.WorkoutCustom})
		require.NoError(t, err)
		assert.Equal(t, "Mine v2", w.Name)
	})

	t.Run("admin can mutate any workout", func(t *testing.T) {
		_, err := env.workouts.Update(ctx, admin, custom.ID, WorkoutInput{Name: "Mine v3", Kind: domain.WorkoutCustom})
		assert.NoError(t, err)
	})

	t.Run("regular user cannot mutate predefined", func(t *testing.T) {
		_, err := env.workouts.Update(ctx, owner, predefined.ID, WorkoutInput{Name: "Nope", Kind: domain.WorkoutPredefined})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("bulk delete checks every row", func(t *testing.T) {
		err := env.workouts.DeleteBulk(ctx, owner, []uint{custom.ID, predefined.ID})
		require.ErrorIs(t, err, ErrForbidden)

		_, err = env.workouts.GetByID(ctx, custom.ID)
		assert.NoError(t, err, "nothing deleted when any row is forbidden")
	})
}

func TestWorkoutExercises(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")
	owner := env.register(t, "owner", "owner@example.com")

	squat, err := env.exercises.Create(ctx, admin, ExerciseInput{Name: "Squat"})
	require.NoError(t, err)
	bench, err := env.exercises.Create(ctx, admin, ExerciseInput{Name: "Bench Press"})
	require.NoError(t, err)

	w, err := env.workouts.Create(ctx, owner, WorkoutInput{Name: "Full Body", Kind: domain.WorkoutCustom})
	require.NoError(t, err)

	t.Run("entries are appended in order", func(t *testing.T) {
		first, err := env.workouts.AddExercise(ctx, owner, w.ID, AddWorkoutExerciseInput{ExerciseID: squat.ID, Sets: 3, Reps: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, first.Position)

		second, err := env.workouts.AddExercise(ctx, owner, w.ID, AddWorkoutExerciseInput{ExerciseID: bench.ID, Sets: 5, Reps: 5})
		require.NoError(t, err)
		assert.Equal(t, 2, second.Position)
	})

	t.Run("detail view resolves nested exercises", func(t *testing.T) {
		got, err := env.workouts.GetByID(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, got.Exercises, 2)
		assert.Equal(t, "Squat", got.Exercises[0].Exercise.Name)
		assert.Equal(t, 3, got.Exercises[0].Sets)
		assert.Equal(t, 10, got.Exercises[0].Reps)
	})

	t.Run("unknown exercise", func(t *testing.T) {
		_, err := env.workouts.AddExercise(ctx, owner, w.ID, AddWorkoutExerciseInput{ExerciseID: 9999, Sets: 3, Reps: 10})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("prescription is validated", func(t *testing.T) {
		_, err := env.workouts.AddExercise(ctx, owner, w.ID, AddWorkoutExerciseInput{ExerciseID: squat.ID, Sets: 0, Reps: 10})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("stranger cannot add entries", func(t *testing.T) {
		stranger := env.register(t, "stranger", "stranger@example.com")
		_, err := env.workouts.AddExercise(ctx, stranger, w.ID, AddWorkoutExerciseInput{ExerciseID: squat.ID, Sets: 1, Reps: 1})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("removal renumbers the remaining entries", func(t *testing.T) {
		got, err := env.workouts.GetByID(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, got.Exercises, 2)

		require.NoError(t, env.workouts.RemoveExercise(ctx, owner, w.ID, got.Exercises[0].ID))

		after, err := env.workouts.GetByID(ctx, w.ID)
		require.NoError(t, err)
		require.Len(t, after.Exercises, 1)
		assert.Equal(t, "Bench Press", after.Exercises[0].Exercise.Name)
		assert.Equal(t, 1, after.Exercises[0].Position)
	})

	t.Run("entry must belong to the workout", func(t *testing.T) {
		other, err := env.workouts.Create(ctx, owner, WorkoutInput{Name: "Other", Kind: domain.WorkoutCustom})
		require.NoError(t, err)
		entry, err := env.workouts.AddExercise(ctx, owner, other.ID, AddWorkoutExerciseInput{ExerciseID: squat.ID, Sets: 2, Reps: 8})
		require.NoError(t, err)

		assert.ErrorIs(t, env.workouts.RemoveExercise(ctx, owner, w.ID, entry.ID), ErrNotFound)
	})
}

func TestWorkoutFilters(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")
	user := env.register(t, "sam", "sam@example.com")

	_, err := env.workouts.Create(ctx, admin, WorkoutInput{Name: "Starting Strength", Kind: domain.WorkoutPredefined})
	require.NoError(t, err)
	_, err = env.workouts.Create(ctx, user, WorkoutInput{Name: "Sam Special", Kind: domain.WorkoutCustom})
	require.NoError(t, err)

	t.Run("by kind", func(t *testing.T) {
		rows, err := env.workouts.GetAll(ctx, WorkoutFilter{Kind: string(domain.WorkoutPredefined)})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Starting Strength", rows[0].Name)
	})

	t.Run("by owner", func(t *testing.T) {
		rows, err := env.workouts.GetAll(ctx, WorkoutFilter{OwnerID: user.UserID})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Sam Special", rows[0].Name)
	})

	t.Run("by name substring", func(t *testing.T) {
		rows, err := env.workouts.GetAll(ctx, WorkoutFilter{Name: "special"})
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})
}
