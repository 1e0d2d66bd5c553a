package service

import (
	"context"
	"fmt"
	"strings"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// WorkoutService manages predefined and custom workout plans. Predefined
// plans are curated by admins and visible to everyone; custom plans belong
// to the user who created them. Ownership is checked on every mutation.
type WorkoutService interface {
	GetByID(ctx context.Context, id uint) (*WorkoutDTO, error)
	GetAll(ctx context.Context, filter WorkoutFilter) ([]WorkoutDTO, error)
	Create(ctx context.Context, caller domain.Caller, in WorkoutInput) (*WorkoutDTO, error)
	CreateBulk(ctx context.Context, caller domain.Caller, in []WorkoutInput) ([]WorkoutDTO, error)
	Update(ctx context.Context, caller domain.Caller, id uint, in WorkoutInput) (*WorkoutDTO, error)
	UpdateBulk(ctx context.Context, caller domain.Caller, in []WorkoutUpdate) ([]WorkoutDTO, error)
	Delete(ctx context.Context, caller domain.Caller, id uint) error
	DeleteBulk(ctx context.Context, caller domain.Caller, ids []uint) error

	AddExercise(ctx context.Context, caller domain.Caller, workoutID uint, in AddWorkoutExerciseInput) (*WorkoutExerciseDTO, error)
	RemoveExercise(ctx context.Context, caller domain.Caller, workoutID, entryID uint) error
}

// WorkoutFilter fields are optional and combine with AND. Name matches a
// substring; Kind and OwnerID match exactly.
type WorkoutFilter struct {
	Name    string `form:"name"`
	Kind    string `form:"kind"`
	OwnerID uint   `form:"ownerId"`
}

type WorkoutInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Kind        domain.WorkoutKind `json:"kind"`
}

type WorkoutUpdate struct {
	ID uint `json:"id"`
	WorkoutInput
}

type AddWorkoutExerciseInput struct {
	ExerciseID uint `json:"exerciseId"`
	Sets       int  `json:"sets"`
	Reps       int  `json:"reps"`
}

type workoutService struct {
	uow repository.UnitOfWork
}

func NewWorkoutService(uow repository.UnitOfWork) WorkoutService {
	return &workoutService{uow: uow}
}

func (in WorkoutInput) validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return fmt.Errorf("%w: workout name must be at least 2 characters", ErrValidationFailed)
	}
	if in.Kind != domain.WorkoutPredefined && in.Kind != domain.WorkoutCustom {
		return fmt.Errorf("%w: workout kind must be %q or %q", ErrValidationFailed, domain.WorkoutPredefined, domain.WorkoutCustom)
	}
	return nil
}

func (in AddWorkoutExerciseInput) validate() error {
	if in.ExerciseID == 0 {
		return fmt.Errorf("%w: exerciseId is required", ErrValidationFailed)
	}
	if in.Sets <= 0 || in.Reps <= 0 {
		return fmt.Errorf("%w: sets and reps must be positive", ErrValidationFailed)
	}
	return nil
}

// authorizeWrite enforces the mutation rules: predefined plans are admin-only,
// custom plans are open to the owner or an admin.
func authorizeWrite(caller domain.Caller, w *domain.Workout) error {
	if caller.Anonymous() {
		return ErrUnauthenticated
	}
	if caller.IsAdmin() {
		return nil
	}
	if w.Kind == domain.WorkoutCustom && w.OwnedBy(caller.UserID) {
		return nil
	}
	return ErrForbidden
}

func (s *workoutService) GetByID(ctx context.Context, id uint) (*WorkoutDTO, error) {
	w, err := s.uow.Workouts().GetByID(ctx, id,
		repository.WithNoTracking(),
		repository.WithPreload("Exercises.Exercise.Categories", "Exercises.Exercise.Images", "Exercises.Exercise.Videos"))
	if err != nil {
		return nil, translateNotFound(err, "workout")
	}
	dto := mapWorkout(w)
	return &dto, nil
}

func (s *workoutService) GetAll(ctx context.Context, filter WorkoutFilter) ([]WorkoutDTO, error) {
	pred := repository.All()
	if filter.Name != "" {
		pred = pred.And(repository.Contains("name", filter.Name))
	}
	if filter.Kind != "" {
		pred = pred.And(repository.Eq("kind", filter.Kind))
	}
	if filter.OwnerID != 0 {
		pred = pred.And(repository.Eq("owner_id", filter.OwnerID))
	}
	ws, err := s.uow.Workouts().Find(ctx, pred,
		repository.WithNoTracking(),
		repository.WithOrder("name", false))
	if err != nil {
		return nil, err
	}
	out := make([]WorkoutDTO, 0, len(ws))
	for i := range ws {
		out = append(out, mapWorkout(&ws[i]))
	}
	return out, nil
}

func (s *workoutService) Create(ctx context.Context, caller domain.Caller, in WorkoutInput) (*WorkoutDTO, error) {
	dtos, err := s.CreateBulk(ctx, caller, []WorkoutInput{in})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *workoutService) CreateBulk(ctx context.Context, caller domain.Caller, in []WorkoutInput) ([]WorkoutDTO, error) {
	if caller.Anonymous() {
		return nil, ErrUnauthenticated
	}
	if len(in) == 0 {
		return nil, nil
	}
	for _, item := range in {
		if err := item.validate(); err != nil {
			return nil, err
		}
		if item.Kind == domain.WorkoutPredefined && !caller.IsAdmin() {
			return nil, ErrForbidden
		}
	}

	var out []WorkoutDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		for _, item := range in {
			w := domain.Workout{
				Name:        strings.TrimSpace(item.Name),
				Description: item.Description,
				Kind:        item.Kind,
			}
			if item.Kind == domain.WorkoutCustom {
				owner := caller.UserID
				w.OwnerID = &owner
			}
			if err := tx.Workouts().Insert(ctx, &w); err != nil {
				return err
			}
			out = append(out, mapWorkout(&w))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *workoutService) Update(ctx context.Context, caller domain.Caller, id uint, in WorkoutInput) (*WorkoutDTO, error) {
	dtos, err := s.UpdateBulk(ctx, caller, []WorkoutUpdate{{ID: id, WorkoutInput: in}})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// UpdateBulk edits name and description only; a plan never changes kind or
// owner after creation.
func (s *workoutService) UpdateBulk(ctx context.Context, caller domain.Caller, in []WorkoutUpdate) ([]WorkoutDTO, error) {
	if caller.Anonymous() {
		return nil, ErrUnauthenticated
	}
	if len(in) == 0 {
		return nil, nil
	}
	for _, item := range in {
		if len(strings.TrimSpace(item.Name)) < 2 {
			return nil, fmt.Errorf("%w: workout name must be at least 2 characters", ErrValidationFailed)
		}
	}

	var out []WorkoutDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		for _, item := range in {
			w, err := tx.Workouts().GetByID(ctx, item.ID)
			if err != nil {
				return translateNotFound(err, "workout")
			}
			if err := authorizeWrite(caller, w); err != nil {
				return err
			}
			w.Name = strings.TrimSpace(item.Name)
			w.Description = item.Description
			if err := tx.Workouts().Update(ctx, w); err != nil {
				return err
			}
			out = append(out, mapWorkout(w))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *workoutService) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	return s.DeleteBulk(ctx, caller, []uint{id})
}

func (s *workoutService) DeleteBulk(ctx context.Context, caller domain.Caller, ids []uint) error {
	if caller.Anonymous() {
		return ErrUnauthenticated
	}
	if len(ids) == 0 {
		return nil
	}
	return s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		existing, err := tx.Workouts().Find(ctx, repository.In("id", ids))
		if err != nil {
			return err
		}
		if len(existing) != len(uniqueIDs(ids)) {
			return fmt.Errorf("%w: workout", ErrNotFound)
		}
		for i := range existing {
			if err := authorizeWrite(caller, &existing[i]); err != nil {
				return err
			}
		}
		return tx.Workouts().RemoveByIDs(ctx, ids)
	})
}

func (s *workoutService) AddExercise(ctx context.Context, caller domain.Caller, workoutID uint, in AddWorkoutExerciseInput) (*WorkoutExerciseDTO, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var dto WorkoutExerciseDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		w, err := tx.Workouts().GetByID(ctx, workoutID)
		if err != nil {
			return translateNotFound(err, "workout")
		}
		if err := authorizeWrite(caller, w); err != nil {
			return err
		}
		ex, err := tx.Exercises().GetByID(ctx, in.ExerciseID)
		if err != nil {
			return translateNotFound(err, "exercise")
		}
		count, err := tx.WorkoutExercises().Count(ctx, repository.Eq("workout_id", workoutID))
		if err != nil {
			return err
		}
		entry := domain.WorkoutExercise{
			WorkoutID:  workoutID,
			ExerciseID: ex.ID,
			Sets:       in.Sets,
			Reps:       in.Reps,
			Position:   int(count) + 1,
		}
		if err := tx.WorkoutExercises().Insert(ctx, &entry); err != nil {
			return err
		}
		entry.Exercise = *ex
		dto = mapWorkoutExercise(&entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *workoutService) RemoveExercise(ctx context.Context, caller domain.Caller, workoutID, entryID uint) error {
	return s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		w, err := tx.Workouts().GetByID(ctx, workoutID)
		if err != nil {
			return translateNotFound(err, "workout")
		}
		if err := authorizeWrite(caller, w); err != nil {
			return err
		}
		entry, err := tx.WorkoutExercises().GetByID(ctx, entryID)
		if err != nil {
			return translateNotFound(err, "workout exercise")
		}
		if entry.WorkoutID != workoutID {
			return fmt.Errorf("%w: workout exercise", ErrNotFound)
		}
		if err := tx.WorkoutExercises().Remove(ctx, entry); err != nil {
			return err
		}
		// Close the gap so positions stay contiguous.
		rest, err := tx.WorkoutExercises().Find(ctx,
			repository.Eq("workout_id", workoutID),
			repository.WithOrder("position", false))
		if err != nil {
			return err
		}
		for i := range rest {
			if rest[i].Position != i+1 {
				rest[i].Position = i + 1
				if err := tx.WorkoutExercises().Update(ctx, &rest[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
