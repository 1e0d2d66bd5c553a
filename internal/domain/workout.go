package domain

// WorkoutKind discriminates predefined (catalog) workouts from user-owned
// custom workouts.
type WorkoutKind string

const (
	WorkoutPredefined WorkoutKind = "predefined"
	WorkoutCustom     WorkoutKind = "custom"
)

// Workout is an ordered collection of exercises. A custom workout carries the
// owning user's id; a predefined one has none. Only the owner or an admin may
// mutate a custom workout.
type Workout struct {
	Model
	Name        string      `gorm:"not null" json:"name"`
	Description string      `json:"description,omitempty"`
	Kind        WorkoutKind `gorm:"type:varchar(16);not null;index" json:"kind"`
	OwnerID     *uint       `gorm:"index" json:"ownerId,omitempty"`

	Exercises []WorkoutExercise `gorm:"foreignKey:WorkoutID;constraint:OnDelete:CASCADE" json:"exercises,omitempty"`
}

// OwnedBy reports whether the workout is a custom workout owned by userID.
func (w *Workout) OwnedBy(userID uint) bool {
	return w.Kind == WorkoutCustom && w.OwnerID != nil && *w.OwnerID == userID
}

// WorkoutExercise links one exercise into a workout with its prescription.
type WorkoutExercise struct {
	Model
	WorkoutID  uint `gorm:"index;not null" json:"workoutId"`
	ExerciseID uint `gorm:"index;not null" json:"exerciseId"`
	Sets       int  `gorm:"not null" json:"sets"`
	Reps       int  `gorm:"not null" json:"reps"`
	Position   int  `json:"position"`

	Exercise Exercise `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"exercise"`
}
