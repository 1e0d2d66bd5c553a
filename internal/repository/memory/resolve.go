package memory

import (
	"sort"
	"strings"

	"fittrack/internal/domain"
)

// subPaths reports whether assoc is requested and returns the nested paths
// below it ("Exercises.Exercise.Images" under "Exercises" yields
// "Exercise.Images").
func subPaths(paths []string, assoc string) ([]string, bool) {
	var nested []string
	requested := false
	for _, p := range paths {
		if p == assoc {
			requested = true
			continue
		}
		if strings.HasPrefix(p, assoc+".") {
			requested = true
			nested = append(nested, strings.TrimPrefix(p, assoc+"."))
		}
	}
	return nested, requested
}

// The resolvers below run under the store's read lock and only read tables.

func resolveUser(s *Store, u *domain.User, paths []string) {
	if _, ok := subPaths(paths, "Roles"); !ok {
		return
	}
	u.Roles = nil
	for _, ur := range s.userRoles {
		if ur.UserID != u.ID {
			continue
		}
		if role, ok := s.roles[ur.RoleID]; ok {
			u.Roles = append(u.Roles, role)
		}
	}
	sort.Slice(u.Roles, func(i, j int) bool { return u.Roles[i].ID < u.Roles[j].ID })
}

func resolveExercise(s *Store, e *domain.Exercise, paths []string) {
	if _, ok := subPaths(paths, "Categories"); ok {
		e.Categories = nil
		for _, ec := range s.exerciseCategories {
			if ec.ExerciseID != e.ID {
				continue
			}
			if cat, ok := s.categories[ec.CategoryID]; ok {
				e.Categories = append(e.Categories, cat)
			}
		}
		sort.Slice(e.Categories, func(i, j int) bool { return e.Categories[i].ID < e.Categories[j].ID })
	}
	if _, ok := subPaths(paths, "Images"); ok {
		e.Images = nil
		for _, img := range s.images {
			if img.ExerciseID == e.ID {
				e.Images = append(e.Images, img)
			}
		}
		sort.Slice(e.Images, func(i, j int) bool {
			if e.Images[i].Position != e.Images[j].Position {
				return e.Images[i].Position < e.Images[j].Position
			}
			return e.Images[i].ID < e.Images[j].ID
		})
	}
	if _, ok := subPaths(paths, "Videos"); ok {
		e.Videos = nil
		for _, v := range s.videos {
			if v.ExerciseID == e.ID {
				e.Videos = append(e.Videos, v)
			}
		}
		sort.Slice(e.Videos, func(i, j int) bool { return e.Videos[i].ID < e.Videos[j].ID })
	}
}

func resolveWorkoutExercise(s *Store, we *domain.WorkoutExercise, paths []string) {
	nested, ok := subPaths(paths, "Exercise")
	if !ok {
		return
	}
	if ex, found := s.exercises[we.ExerciseID]; found {
		resolveExercise(s, &ex, nested)
		we.Exercise = ex
	}
}

func resolveWorkout(s *Store, w *domain.Workout, paths []string) {
	nested, ok := subPaths(paths, "Exercises")
	if !ok {
		return
	}
	w.Exercises = nil
	for _, we := range s.workoutExercises {
		if we.WorkoutID != w.ID {
			continue
		}
		we := we
		resolveWorkoutExercise(s, &we, nested)
		w.Exercises = append(w.Exercises, we)
	}
	sort.Slice(w.Exercises, func(i, j int) bool {
		if w.Exercises[i].Position != w.Exercises[j].Position {
			return w.Exercises[i].Position < w.Exercises[j].Position
		}
		return w.Exercises[i].ID < w.Exercises[j].ID
	})
}

// The cascade hooks run under the store's write lock; removing a parent
// removes its join and child rows, mirroring the relational FK constraints.

func cascadeUser(s *Store, u domain.User) {
	for id, ur := range s.userRoles {
		if ur.UserID == u.ID {
			delete(s.userRoles, id)
		}
	}
}

func cascadeRole(s *Store, r domain.Role) {
	for id, ur := range s.userRoles {
		if ur.RoleID == r.ID {
			delete(s.userRoles, id)
		}
	}
}

func cascadeCategory(s *Store, c domain.Category) {
	for id, ec := range s.exerciseCategories {
		if ec.CategoryID == c.ID {
			delete(s.exerciseCategories, id)
		}
	}
}

func cascadeExercise(s *Store, e domain.Exercise) {
	for id, ec := range s.exerciseCategories {
		if ec.ExerciseID == e.ID {
			delete(s.exerciseCategories, id)
		}
	}
	for id, img := range s.images {
		if img.ExerciseID == e.ID {
			delete(s.images, id)
		}
	}
	for id, v := range s.videos {
		if v.ExerciseID == e.ID {
			delete(s.videos, id)
		}
	}
	for id, we := range s.workoutExercises {
		if we.ExerciseID == e.ID {
			delete(s.workoutExercises, id)
		}
	}
}

func cascadeWorkout(s *Store, w domain.Workout) {
	for id, we := range s.workoutExercises {
		if we.WorkoutID == w.ID {
			delete(s.workoutExercises, id)
		}
	}
}
