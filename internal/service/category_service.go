package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// CategoryService manages the exercise category catalog. Mutations are
// admin-gated; reads are open to any caller.
type CategoryService interface {
	GetByID(ctx context.Context, id uint) (*CategoryDTO, error)
	GetAll(ctx context.Context, filter CategoryFilter) ([]CategoryDTO, error)
	Create(ctx context.Context, caller domain.Caller, in CategoryInput) (*CategoryDTO, error)
	CreateBulk(ctx context.Context, caller domain.Caller, in []CategoryInput) ([]CategoryDTO, error)
	Update(ctx context.Context, caller domain.Caller, id uint, in CategoryInput) (*CategoryDTO, error)
	UpdateBulk(ctx context.Context, caller domain.Caller, in []CategoryUpdate) ([]CategoryDTO, error)
	Delete(ctx context.Context, caller domain.Caller, id uint) error
	DeleteBulk(ctx context.Context, caller domain.Caller, ids []uint) error
}

// CategoryFilter fields are optional and combine with AND; Name is a
// substring match.
type CategoryFilter struct {
	Name string `form:"name"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryUpdate struct {
	ID uint `json:"id"`
	CategoryInput
}

type categoryService struct {
	uow repository.UnitOfWork
}

func NewCategoryService(uow repository.UnitOfWork) CategoryService {
	return &categoryService{uow: uow}
}

func requireAdmin(caller domain.Caller) error {
	if caller.Anonymous() {
		return ErrUnauthenticated
	}
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (in CategoryInput) validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return fmt.Errorf("%w: category name must be at least 2 characters", ErrValidationFailed)
	}
	return nil
}

func (s *categoryService) GetByID(ctx context.Context, id uint) (*CategoryDTO, error) {
	cat, err := s.uow.Categories().GetByID(ctx, id, repository.WithNoTracking())
	if err != nil {
		return nil, translateNotFound(err, "category")
	}
	dto := mapCategory(cat)
	return &dto, nil
}

func (s *categoryService) GetAll(ctx context.Context, filter CategoryFilter) ([]CategoryDTO, error) {
	pred := repository.All()
	if filter.Name != "" {
		pred = pred.And(repository.Contains("name", filter.Name))
	}
	cats, err := s.uow.Categories().Find(ctx, pred, repository.WithNoTracking(), repository.WithOrder("name", false))
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDTO, 0, len(cats))
	for i := range cats {
		out = append(out, mapCategory(&cats[i]))
	}
	return out, nil
}

func (s *categoryService) Create(ctx context.Context, caller domain.Caller, in CategoryInput) (*CategoryDTO, error) {
	dtos, err := s.CreateBulk(ctx, caller, []CategoryInput{in})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *categoryService) CreateBulk(ctx context.Context, caller domain.Caller, in []CategoryInput) ([]CategoryDTO, error) {
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

	var out []CategoryDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		for _, item := range in {
			if err := s.ensureNameFree(ctx, tx, strings.TrimSpace(item.Name), 0); err != nil {
				return err
			}
			cat := domain.Category{Name: strings.TrimSpace(item.Name), Description: item.Description}
			if err := tx.Categories().Insert(ctx, &cat); err != nil {
				return err
			}
			out = append(out, mapCategory(&cat))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, caller domain.Caller, id uint, in CategoryInput) (*CategoryDTO, error) {
	dtos, err := s.UpdateBulk(ctx, caller, []CategoryUpdate{{ID: id, CategoryInput: in}})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *categoryService) UpdateBulk(ctx context.Context, caller domain.Caller, in []CategoryUpdate) ([]CategoryDTO, error) {
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

	var out []CategoryDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		for _, item := range in {
			cat, err := tx.Categories().GetByID(ctx, item.ID)
			if err != nil {
				return translateNotFound(err, "category")
			}
			name := strings.TrimSpace(item.Name)
			if name != cat.Name {
				if err := s.ensureNameFree(ctx, tx, name, cat.ID); err != nil {
					return err
				}
			}
			cat.Name = name
			cat.Description = item.Description
			if err := tx.Categories().Update(ctx, cat); err != nil {
				return err
			}
			out = append(out, mapCategory(cat))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *categoryService) Delete(ctx context.Context, caller domain.Caller, id uint) error {
	return s.DeleteBulk(ctx, caller, []uint{id})
}

// DeleteBulk removes the categories atomically; an empty id set is a no-op.
// Join rows referencing a deleted category are cascaded by the store.
func (s *categoryService) DeleteBulk(ctx context.Context, caller domain.Caller, ids []uint) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		existing, err := tx.Categories().Find(ctx, repository.In("id", ids))
		if err != nil {
			return err
		}
		if len(existing) != len(uniqueIDs(ids)) {
			return fmt.Errorf("%w: category", ErrNotFound)
		}
		return tx.Categories().RemoveByIDs(ctx, ids)
	})
}

func (s *categoryService) ensureNameFree(ctx context.Context, tx repository.UnitOfWork, name string, selfID uint) error {
	existing, err := tx.Categories().FindOne(ctx, repository.Eq("name", name))
	if err == nil {
		if existing.ID != selfID {
			return fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func translateNotFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
