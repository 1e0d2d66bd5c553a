package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseCreate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")

	legs, err := env.categories.Create(ctx, admin, CategoryInput{Name: "Legs"})
	require.NoError(t, err)

	t.Run("with categories and videos", func(t *testing.T) {
		ex, err := env.exercises.Create(ctx, admin, ExerciseInput{
			Name:        "Squat",
			MuscleGroup: "quads",
			Difficulty:  "intermediate",
			CategoryIDs: []uint{legs.ID},
			Videos:      []VideoInput{{URL: "https://v/squat", Title: "form"}},
		})
		require.NoError(t, err)
		require.Len(t, ex.Categories, 1)
		assert.Equal(t, "Legs", ex.Categories[0].Name)
		require.Len(t, ex.Videos, 1)

		got, err := env.exercises.GetByID(ctx, ex.ID)
		require.NoError(t, err)
		assert.Len(t, got.Categories, 1)
		assert.Len(t, got.Videos, 1)
	})

	t.Run("unknown category id fails atomically", func(t *testing.T) {
		before, err := env.exercises.GetAll(ctx, ExerciseFilter{})
		require.NoError(t, err)

		_, err = env.exercises.Create(ctx, admin, ExerciseInput{
			Name: "Lunge", CategoryIDs: []uint{9999},
		})
		require.ErrorIs(t, err, ErrNotFound)

		after, err := env.exercises.GetAll(ctx, ExerciseFilter{})
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := env.exercises.Create(ctx, admin, ExerciseInput{Name: "x"})
		assert.ErrorIs(t, err, ErrValidationFailed)

		_, err = env.exercises.Create(ctx, admin, ExerciseInput{
			Name: "Deadlift", Videos: []VideoInput{{URL: "  "}},
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestExerciseFilters(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")

	legs, err := env.categories.Create(ctx, admin, CategoryInput{Name: "Legs"})
	require.NoError(t, err)
	push, err := env.categories.Create(ctx, admin, CategoryInput{Name: "Push"})
	require.NoError(t, err)

	_, err = env.exercises.CreateBulk(ctx, admin, []ExerciseInput{
		{Name: "Back Squat", MuscleGroup: "quads", Difficulty: "advanced", CategoryIDs: []uint{legs.ID}},
		{Name: "Front Squat", MuscleGroup: "quads", Difficulty: "intermediate", CategoryIDs: []uint{legs.ID}},
		{Name: "Bench Press", MuscleGroup: "chest", Difficulty: "intermediate", CategoryIDs: []uint{push.ID}},
	})
	require.NoError(t, err)

	cases := []struct {
		name   string
		filter ExerciseFilter
		want   []string
	}{
		{"no filter", ExerciseFilter{}, []string{"Back Squat", "Bench Press", "Front Squat"}},
		{"name substring", ExerciseFilter{Name: "squat"}, []string{"Back Squat", "Front Squat"}},
		{"muscle group", ExerciseFilter{MuscleGroup: "chest"}, []string{"Bench Press"}},
		{"difficulty exact", ExerciseFilter{Difficulty: "intermediate"}, []string{"Bench Press", "Front Squat"}},
		{"category", ExerciseFilter{CategoryID: legs.ID}, []string{"Back Squat", "Front Squat"}},
		{"filters AND together", ExerciseFilter{Name: "squat", Difficulty: "advanced"}, []string{"Back Squat"}},
		{"unknown category", ExerciseFilter{CategoryID: 9999}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := env.exercises.GetAll(ctx, tc.filter)
			require.NoError(t, err)
			var names []string
			for _, r := range rows {
				names = append(names, r.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestExerciseCategoryAssociation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")

	cat, err := env.categories.Create(ctx, admin, CategoryInput{Name: "Pull"})
	require.NoError(t, err)
	ex, err := env.exercises.Create(ctx, admin, ExerciseInput{Name: "Pull Up"})
	require.NoError(t, err)

	require.NoError(t, env.exercises.AddCategory(ctx, admin, ex.ID, cat.ID))

	t.Run("duplicate association conflicts", func(t *testing.T) {
		err := env.exercises.AddCategory(ctx, admin, ex.ID, cat.ID)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown parents", func(t *testing.T) {
		assert.ErrorIs(t, env.exercises.AddCategory(ctx, admin, 9999, cat.ID), ErrNotFound)
		assert.ErrorIs(t, env.exercises.AddCategory(ctx, admin, ex.ID, 9999), ErrNotFound)
	})

	t.Run("remove association", func(t *testing.T) {
		require.NoError(t, env.exercises.RemoveCategory(ctx, admin, ex.ID, cat.ID))
		got, err := env.exercises.GetByID(ctx, ex.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Categories)

		assert.ErrorIs(t, env.exercises.RemoveCategory(ctx, admin, ex.ID, cat.ID), ErrNotFound)
	})
}

func TestExerciseImages(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")

	ex, err := env.exercises.Create(ctx, admin, ExerciseInput{Name: "Overhead Press"})
	require.NoError(t, err)

	upload, err := env.exercises.RequestImageUpload(ctx, admin, ex.ID, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.Image.ObjectKey, "exercises/"), "object key is namespaced per exercise")
	assert.Contains(t, upload.UploadURL, upload.Image.ObjectKey)
	assert.Equal(t, 0, upload.Image.Position)

	second, err := env.exercises.RequestImageUpload(ctx, admin, ex.ID, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Image.Position)

	t.Run("download url", func(t *testing.T) {
		url, err := env.exercises.ImageDownloadURL(ctx, upload.Image.ID)
		require.NoError(t, err)
		assert.Contains(t, url, upload.Image.ObjectKey)
	})

	t.Run("delete image removes row and object", func(t *testing.T) {
		require.NoError(t, env.exercises.DeleteImage(ctx, admin, upload.Image.ID))
		assert.Contains(t, env.files.deleted, upload.Image.ObjectKey)
		_, err := env.exercises.ImageDownloadURL(ctx, upload.Image.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleting the exercise cleans up remaining objects", func(t *testing.T) {
		require.NoError(t, env.exercises.Delete(ctx, admin, ex.ID))
		assert.Contains(t, env.files.deleted, second.Image.ObjectKey)
	})
}

func TestExerciseUpdateReplacesCategories(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.registerAdmin(t, "root", "root@example.com")

	legs, err := env.categories.Create(ctx, admin, CategoryInput{Name: "Legs"})
	require.NoError(t, err)
	core, err := env.categories.Create(ctx, admin, CategoryInput{Name: "Core"})
	require.NoError(t, err)

	ex, err := env.exercises.Create(ctx, admin, ExerciseInput{Name: "Squat", CategoryIDs: []uint{legs.ID}})
	require.NoError(t, err)

	updated, err := env.exercises.Update(ctx, admin, ex.ID, ExerciseInput{
		Name: "Goblet Squat", CategoryIDs: []uint{core.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Goblet Squat", updated.Name)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Core", updated.Categories[0].Name)
}
