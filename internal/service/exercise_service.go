package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/storage"
)

// ExerciseService manages the exercise library: CRUD, category associations
// and media. Mutations are admin-gated. Creation is atomic: the exercise,
// its category associations and its video rows commit together or not at
// all.
type ExerciseService interface {
	GetByID(ctx context.Context, id uint) (*ExerciseDTO, error)
	GetAll(ctx context.Context, filter ExerciseFilter) ([]ExerciseDTO, error)
	Create(ctx context.Context, caller domain.Caller, in ExerciseInput) (*ExerciseDTO, error)
	CreateBulk(ctx context.Context, caller domain.Caller, in []ExerciseInput) ([]ExerciseDTO, error)
	Update(ctx context.Context, caller domain.Caller, id uint, in ExerciseInput) (*ExerciseDTO, error)
	UpdateBulk(ctx context.Context, caller domain.Caller, in []ExerciseUpdate) ([]ExerciseDTO, error)
	Delete(ctx context.Context, caller domain.Caller, id uint) error
	DeleteBulk(ctx context.Context, caller domain.Caller, ids []uint) error

	AddCategory(ctx context.Context, caller domain.Caller, exerciseID, categoryID uint) error
	RemoveCategory(ctx context.Context, caller domain.Caller, exerciseID, categoryID uint) error

	// RequestImageUpload records an image row and returns a presigned PUT URL
	// the client uploads the object to.
	RequestImageUpload(ctx context.Context, caller domain.Caller, exerciseID uint, contentType string) (*ImageUploadDTO, error)
	ImageDownloadURL(ctx context.Context, imageID uint) (string, error)
	DeleteImage(ctx context.Context, caller domain.Caller, imageID uint) error
}

// ExerciseFilter fields are optional and combine with AND. Name and
// MuscleGroup match substrings; Difficulty and CategoryID match exactly.
type ExerciseFilter struct {
	Name        string `form:"name"`
	MuscleGroup string `form:"muscleGroup"`
	Difficulty  string `form:"difficulty"`
	CategoryID  uint   `form:"categoryId"`
}

type VideoInput struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type ExerciseInput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	MuscleGroup string       `json:"muscleGroup"`
	Difficulty  string       `json:"difficulty"`
	CategoryIDs []uint       `json:"categoryIds"`
	Videos      []VideoInput `json:"videos"`
}

type ExerciseUpdate struct {
	ID uint `json:"id"`
	ExerciseInput
}

type ImageUploadDTO struct {
	Image     ImageDTO `json:"image"`
	UploadURL string   `json:"uploadUrl"`
}

const exercisePreloads = "Categories"

type exerciseService struct {
	uow   repository.UnitOfWork
	files storage.FileStorage
}

func NewExerciseService(uow repository.UnitOfWork, files storage.FileStorage) ExerciseService {
	return &exerciseService{uow: uow, files: files}
}

func (in ExerciseInput) validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return fmt.Errorf("%w: exercise name must be at least 2 characters", ErrValidationFailed)
	}
	for _, v := range in.Videos {
		if strings.TrimSpace(v.URL) == "" {
			return fmt.Errorf("%w: video url is required", ErrValidationFailed)
		}
	}
	return nil
}

func (s *exerciseService) GetByID(ctx context.Context, id uint) (*ExerciseDTO, error) {
	ex, err := s.uow.Exercises().GetByID(ctx, id,
		repository.WithNoTracking(),
		repository.WithPreload("Categories", "Images", "Videos"))
	if err != nil {
		return nil, translateNotFound(err, "exercise")
	}
	dto := mapExercise(ex)
	return &dto, nil
}

func (s *exerciseService) GetAll(ctx context.Context, filter ExerciseFilter) ([]ExerciseDTO, error) {
	pred := repository.All()
	if filter.Name != "" {
		pred = pred.And(repository.Contains("name", filter.Name))
	}
	if filter.MuscleGroup != "" {
		pred = pred.And(repository.Contains("muscle_group", filter.MuscleGroup))
	}
	if filter.Difficulty != "" {
		pred = pred.And(repository.Eq("difficulty", filter.Difficulty))
	}
	if filter.CategoryID != 0 {
		joins, err := s.uow.ExerciseCategories().Find(ctx, repository.Eq("category_id", filter.CategoryID))
		if err != nil {
			return nil, err
		}
		if len(joins) == 0 {
			return []ExerciseDTO{}, nil
		}
		ids := make([]uint, 0, len(joins))
		for _, j := range joins {
			ids = append(ids, j.ExerciseID)
		}
		pred = pred.And(repository.In("id", ids))
	}

	exs, err := s.uow.Exercises().Find(ctx, pred,
		repository.WithNoTracking(),
		repository.WithPreload(exercisePreloads),
		repository.WithOrder("name", false))
	if err != nil {
		return nil, err
	}
	out := make([]ExerciseDTO, 0, len(exs))
	for i := range exs {
		out = append(out, mapExercise(&exs[i]))
	}
	return out, nil
}

func (s *exerciseService) Create(ctx context.Context, caller domain.Caller, in ExerciseInput) (*ExerciseDTO, error) {
	dtos, err := s.CreateBulk(ctx, caller, []ExerciseInput{in})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *exerciseService) CreateBulk(ctx context.Context, caller domain.Caller, in []ExerciseInput) ([]ExerciseDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, nil
	}
	for _, item := range in {
		if err := item.validate(); err != nil {
			return nil, err
		}
	}

	var out []ExerciseDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		for _, item := range in {
			cats, err := s.resolveCategories(ctx, tx, item.CategoryIDs)
			if err != nil {
				return err
			}
			ex := domain.Exercise{
				Name:        strings.TrimSpace(item.Name),
				Description: item.Description,
				MuscleGroup: item.MuscleGroup,
				Difficulty:  item.Difficulty,
			}
			if err := tx.Exercises().Insert(ctx, &ex); err != nil {
				return err
			}
			for _, cat := range cats {
				join := domain.ExerciseCategory{ExerciseID: ex.ID, CategoryID: cat.ID}
				if err := tx.ExerciseCategories().Insert(ctx, &join); err != nil {
					return err
				}
			}
			for _, v := range item.Videos {
				video := domain.Video{ExerciseID: ex.ID, URL: v.URL, Title: v.Title}
				if err := tx.Videos().Insert(ctx, &video); err != nil {
					return err
				}
				ex.Videos = append(ex.Videos, video)
			}
			ex.Categories = cats
			out = append(out, mapExercise(&ex))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *exerciseService) Update(ctx context.Context, caller domain.Caller, id uint, in ExerciseInput) (*ExerciseDTO, error) {
	dtos, err := s.UpdateBulk(ctx, caller, []ExerciseUpdate{{ID: id, ExerciseInput: in}})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *exerciseService) UpdateBulk(ctx context.Context, caller domain.Caller, in []ExerciseUpdate) ([]ExerciseDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, nil
	}
	for _, item := range in {
		if err := item.validate(); err != nil {
			return nil, err
		}
	}

	var out []ExerciseDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		for _, item := range in {
			ex, err := tx.Exercises().GetByID(ctx, item.ID)
			if err != nil {
				return translateNotFound(err, "exercise")
			}
			ex.Name = strings.TrimSpace(item.Name)
			ex.Description = item.Description
			ex.MuscleGroup = item.MuscleGroup
			ex.Difficulty = item.Difficulty
			if err := tx.Exercises().Update(ctx, ex); err != nil {
				return err
			}

			// A non-nil id list replaces the category associations.
			if item.CategoryIDs != nil {
				cats, err := s.resolveCategories(ctx, tx, item.CategoryIDs)
				if err != nil {
					return err
				}
				existing, err := tx.ExerciseCategories().Find(ctx, repository.Eq("exercise_id", ex.ID))
				if err != nil {
					return err
				}
				joins := make([]*domain.ExerciseCategory, 0, len(existing))
				for i := range existing {
					joins = append(joins, &existing[i])
				}
				if err := tx.ExerciseCategories().BulkRemove(ctx, joins); err != nil {
					return err
				}
				for _, cat := range cats {
					join := domain.ExerciseCategory{ExerciseID: ex.ID, CategoryID: cat.ID}
					if err := tx.ExerciseCategories().Insert(ctx, &join); err != nil {
						return err
					}
				}
				ex.Categories = cats
			}
			out = append(out, mapExercise(ex))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *exerciseService) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	return s.DeleteBulk(ctx, caller, []uint{id})
}

func (s *exerciseService) DeleteBulk(ctx context.Context, caller domain.Caller, ids []uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	var images []domain.Image
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		existing, err := tx.Exercises().Find(ctx, repository.In("id", ids))
		if err != nil {
			return err
		}
		if len(existing) != len(uniqueIDs(ids)) {
			return fmt.Errorf("%w: exercise", ErrNotFound)
		}
		images, err = tx.Images().Find(ctx, repository.In("exercise_id", ids))
		if err != nil {
			return err
		}
		return tx.Exercises().RemoveByIDs(ctx, ids)
	})
	if err != nil {
		return err
	}

	// Rows are gone; now drop the stored objects.
	for _, img := range images {
		if err := s.files.DeleteObject(ctx, img.ObjectKey); err != nil {
			return fmt.Errorf("delete image object %s: %w", img.ObjectKey, err)
		}
	}
	return nil
}

func (s *exerciseService) AddCategory(ctx context.Context, caller domain.Caller, exerciseID, categoryID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if _, err := s.uow.Exercises().GetByID(ctx, exerciseID); err != nil {
		return translateNotFound(err, "exercise")
	}
	if _, err := s.uow.Categories().GetByID(ctx, categoryID); err != nil {
		return translateNotFound(err, "category")
	}

	pred := repository.Eq("exercise_id", exerciseID).And(repository.Eq("category_id", categoryID))
	_, err := s.uow.ExerciseCategories().FindOne(ctx, pred)
	if err == nil {
		return fmt.Errorf("%w: exercise already associated with category", ErrConflict)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	join := domain.ExerciseCategory{ExerciseID: exerciseID, CategoryID: categoryID}
	return s.uow.ExerciseCategories().Insert(ctx, &join)
}

func (s *exerciseService) RemoveCategory(ctx context.Context, caller domain.Caller, exerciseID, categoryID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	pred := repository.Eq("exercise_id", exerciseID).And(repository.Eq("category_id", categoryID))
	join, err := s.uow.ExerciseCategories().FindOne(ctx, pred)
	if err != nil {
		return translateNotFound(err, "exercise category association")
	}
	return s.uow.ExerciseCategories().Remove(ctx, join)
}

func (s *exerciseService) RequestImageUpload(ctx context.Context, caller domain.Caller, exerciseID uint, contentType string) (*ImageUploadDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if _, err := s.uow.Exercises().GetByID(ctx, exerciseID); err != nil {
		return nil, translateNotFound(err, "exercise")
	}

	count, err := s.uow.Images().Count(ctx, repository.Eq("exercise_id", exerciseID))
	if err != nil {
		return nil, err
	}
	img := domain.Image{
		ExerciseID:  exerciseID,
		ObjectKey:   fmt.Sprintf("exercises/%d/images/%s", exerciseID, uuid.NewString()),
		ContentType: contentType,
		Position:    int(count),
	}
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, img.ObjectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	if err := s.uow.Images().Insert(ctx, &img); err != nil {
		return nil, err
	}
	return &ImageUploadDTO{Image: mapImage(&img), UploadURL: uploadURL}, nil
}

func (s *exerciseService) ImageDownloadURL(ctx context.Context, imageID uint) (string, error) {
	img, err := s.uow.Images().GetByID(ctx, imageID)
	if err != nil {
		return "", translateNotFound(err, "image")
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, img.ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

func (s *exerciseService) DeleteImage(ctx context.Context, caller domain.Caller, imageID uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	img, err := s.uow.Images().GetByID(ctx, imageID)
	if err != nil {
		return translateNotFound(err, "image")
	}
	if err := s.uow.Images().Remove(ctx, img); err != nil {
		return err
	}
	if err := s.files.DeleteObject(ctx, img.ObjectKey); err != nil {
		return fmt.Errorf("delete image object %s: %w", img.ObjectKey, err)
	}
	return nil
}

func (s *exerciseService) resolveCategories(ctx context.Context, tx repository.UnitOfWork, ids []uint) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cats, err := tx.Categories().Find(ctx, repository.In("id", ids))
	if err != nil {
		return nil, err
	}
	if len(cats) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: category", ErrNotFound)
	}
	return cats, nil
}
