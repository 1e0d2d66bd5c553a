package service

import (
	"time"

	"fittrack/internal/domain"
)

// DTOs are the shapes crossing the service boundary. Mapping is hand-written
// per pair; the password hash never leaves the service layer.

type UserDTO struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"isActive"`
	Roles       []string   `json:"roles"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type CategoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ImageDTO struct {
	ID          uint   `json:"id"`
	ObjectKey   string `json:"objectKey"`
	ContentType string `json:"contentType,omitempty"`
	Position    int    `json:"position"`
}

type VideoDTO struct {
	ID    uint   `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type ExerciseDTO struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	MuscleGroup string        `json:"muscleGroup,omitempty"`
	Difficulty  string        `json:"difficulty,omitempty"`
	Categories  []CategoryDTO `json:"categories,omitempty"`
	Images      []ImageDTO    `json:"images,omitempty"`
	Videos      []VideoDTO    `json:"videos,omitempty"`
}

type WorkoutExerciseDTO struct {
	ID         uint         `json:"id"`
	ExerciseID uint         `json:"exerciseId"`
	Sets       int          `json:"sets"`
	Reps       int          `json:"reps"`
	Position   int          `json:"position"`
	Exercise   *ExerciseDTO `json:"exercise,omitempty"`
}

type WorkoutDTO struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Kind        domain.WorkoutKind   `json:"kind"`
	OwnerID     *uint                `json:"ownerId,omitempty"`
	Exercises   []WorkoutExerciseDTO `json:"exercises,omitempty"`
}

// AuthResult is the profile+token pair returned by login and token refresh.
type AuthResult struct {
	User      UserDTO   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func mapUser(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsActive:    u.IsActive,
		Roles:       u.RoleNames(),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func mapCategory(c *domain.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description}
}

func mapCategories(cs []domain.Category) []CategoryDTO {
	if len(cs) == 0 {
		return nil
	}
	out := make([]CategoryDTO, 0, len(cs))
	for i := range cs {
		out = append(out, mapCategory(&cs[i]))
	}
	return out
}

func mapImage(img *domain.Image) ImageDTO {
	return ImageDTO{ID: img.ID, ObjectKey: img.ObjectKey, ContentType: img.ContentType, Position: img.Position}
}

func mapVideo(v *domain.Video) VideoDTO {
	return VideoDTO{ID: v.ID, URL: v.URL, Title: v.Title}
}

func mapExercise(e *domain.Exercise) ExerciseDTO {
	dto := ExerciseDTO{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		MuscleGroup: e.MuscleGroup,
		Difficulty:  e.Difficulty,
		Categories:  mapCategories(e.Categories),
	}
	for i := range e.Images {
		dto.Images = append(dto.Images, mapImage(&e.Images[i]))
	}
	for i := range e.Videos {
		dto.Videos = append(dto.Videos, mapVideo(&e.Videos[i]))
	}
	return dto
}

func mapWorkoutExercise(we *domain.WorkoutExercise) WorkoutExerciseDTO {
	dto := WorkoutExerciseDTO{
		ID:         we.ID,
		ExerciseID: we.ExerciseID,
		Sets:       we.Sets,
		Reps:       we.Reps,
		Position:   we.Position,
	}
	if we.Exercise.ID != 0 {
		ex := mapExercise(&we.Exercise)
		dto.Exercise = &ex
	}
	return dto
}

func mapWorkout(w *domain.Workout) WorkoutDTO {
	dto := WorkoutDTO{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Kind:        w.Kind,
		OwnerID:     w.OwnerID,
	}
	for i := range w.Exercises {
		dto.Exercises = append(dto.Exercises, mapWorkoutExercise(&w.Exercises[i]))
	}
	return dto
}
