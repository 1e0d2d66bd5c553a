package domain

// Category groups exercises (e.g. "Legs", "Back").
type Category struct {
	Model
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description,omitempty"`
}
