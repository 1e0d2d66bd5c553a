package domain

// Exercise is a single entry in the exercise library.
type Exercise struct {
	Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`
	MuscleGroup string `gorm:"index" json:"muscleGroup,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`

	Categories []Category `gorm:"many2many:exercise_categories;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	Images     []Image    `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Videos     []Video    `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
}

// ExerciseCategory is the join entity between exercises and categories.
// The pair is unique; a duplicate association is a conflict at the service
// layer. Deleting either parent cascades to its join rows.
type ExerciseCategory struct {
	Model
	ExerciseID uint `gorm:"uniqueIndex:ux_exercise_category;not null" json:"exerciseId"`
	CategoryID uint `gorm:"uniqueIndex:ux_exercise_category;not null" json:"categoryId"`
}

// Image is a media row bound to an exercise. ObjectKey addresses the stored
// object; access goes through presigned URLs, the key itself is opaque.
type Image struct {
	Model
	ExerciseID  uint   `gorm:"index;not null" json:"exerciseId"`
	ObjectKey   string `gorm:"not null" json:"objectKey"`
	ContentType string `json:"contentType,omitempty"`
	Position    int    `json:"position"`
}

// Video is an external video reference bound to an exercise.
type Video struct {
	Model
	ExerciseID uint   `gorm:"index;not null" json:"exerciseId"`
	URL        string `gorm:"not null" json:"url"`
	Title      string `json:"title,omitempty"`
}
