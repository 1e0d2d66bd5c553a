package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/domain"
)

// TestFullWorkflow walks the whole stack the way a client would: register,
// sign in, build a catalog, assemble a workout and read it back.
func TestFullWorkflow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.registerAdmin(t, "coach", "coach@example.com")

	login, err := env.auth.Login(ctx, "coach@example.com", "correct-horse")
	require.NoError(t, err)
	claims, err := env.tokens.Parse(login.Token)
	require.NoError(t, err)
	caller, err := claims.Caller()
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, caller.UserID)
	require.True(t, caller.IsAdmin(), "granted roles travel in the token")

	category, err := env.categories.Create(ctx, caller, CategoryInput{Name: "Legs", Description: "lower body"})
	require.NoError(t, err)

	exercise, err := env.exercises.Create(ctx, caller, ExerciseInput{
		Name:        "Back Squat",
		MuscleGroup: "quads",
		Difficulty:  "intermediate",
		CategoryIDs: []uint{category.ID},
	})
	require.NoError(t, err)

	workout, err := env.workouts.Create(ctx, caller, WorkoutInput{
		Name: "Leg Day", Kind: domain.WorkoutPredefined,
	})
	require.NoError(t, err)

	entry, err := env.workouts.AddExercise(ctx, caller, workout.ID, AddWorkoutExerciseInput{
		ExerciseID: exercise.ID, Sets: 3, Reps: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)

	got, err := env.workouts.GetByID(ctx, workout.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, "Back Squat", got.Exercises[0].Exercise.Name)
	assert.Equal(t, 3, got.Exercises[0].Sets)
	assert.Equal(t, 10, got.Exercises[0].Reps)
	require.Len(t, got.Exercises[0].Exercise.Categories, 1)
	assert.Equal(t, "Legs", got.Exercises[0].Exercise.Categories[0].Name)
}
