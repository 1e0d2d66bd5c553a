package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fittrack/internal/domain"
)

// Connect opens a GORM connection against Postgres.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for every entity. Join tables are
// registered first so the explicit join entities back the many-to-many
// associations.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.User{}, "Roles", &domain.UserRole{}); err != nil {
		return fmt.Errorf("setup user_roles join table: %w", err)
	}
	if err := db.SetupJoinTable(&domain.Exercise{}, "Categories", &domain.ExerciseCategory{}); err != nil {
		return fmt.Errorf("setup exercise_categories join table: %w", err)
	}

	models := []interface{}{
		&domain.Role{},
		&domain.User{},
		&domain.UserRole{},
		&domain.Category{},
		&domain.Exercise{},
		&domain.ExerciseCategory{},
		&domain.Image{},
		&domain.Video{},
		&domain.Workout{},
		&domain.WorkoutExercise{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}

// SeedRoles makes sure the built-in roles exist.
func SeedRoles(db *gorm.DB) error {
	for _, name := range []string{domain.RoleAdmin, domain.RoleUser} {
		role := domain.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %q: %w", name, err)
		}
	}
	return nil
}
