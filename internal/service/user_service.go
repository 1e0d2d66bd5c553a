package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// UserService covers account administration: listing, profile edits, soft
// activation state and role assignment. Listing and role changes are
// admin-only; a user may read and edit their own profile.
type UserService interface {
	GetByID(ctx context.Context, caller domain.Caller, id uint) (*UserDTO, error)
	GetAll(ctx context.Context, caller domain.Caller, filter UserFilter) ([]UserDTO, error)
	Update(ctx context.Context, caller domain.Caller, id uint, in UserUpdateInput) (*UserDTO, error)
	Deactivate(ctx context.Context, caller domain.Caller, id uint) error
	Activate(ctx context.Context, caller domain.Caller, id uint) error
	AssignRole(ctx context.Context, caller domain.Caller, userID uint, roleName string) (*UserDTO, error)
	RemoveRole(ctx context.Context, caller domain.Caller, userID uint, roleName string) (*UserDTO, error)
}

// UserFilter fields are optional and combine with AND. Username and Email
// match substrings; Active, when set, matches the activation flag exactly.
type UserFilter struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Active   *bool  `form:"active"`
}

type UserUpdateInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userService struct {
	uow repository.UnitOfWork
}

func NewUserService(uow repository.UnitOfWork) UserService {
	return &userService{uow: uow}
}

// requireSelfOrAdmin lets a user act on their own account and admins on any.
func requireSelfOrAdmin(caller domain.Caller, id uint) error {
	if caller.Anonymous() {
		return ErrUnauthenticated
	}
	if caller.UserID != id && !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, caller domain.Caller, id uint) (*UserDTO, error) {
	if err := requireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	user, err := s.uow.Users().GetByID(ctx, id,
		repository.WithNoTracking(),
		repository.WithPreload("Roles"))
	if err != nil {
		return nil, translateNotFound(err, "user")
	}
	dto := mapUser(user)
	return &dto, nil
}

func (s *userService) GetAll(ctx context.Context, caller domain.Caller, filter UserFilter) ([]UserDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	pred := repository.All()
	if filter.Username != "" {
		pred = pred.And(repository.Contains("username", filter.Username))
	}
	if filter.Email != "" {
		pred = pred.And(repository.Contains("email", filter.Email))
	}
	if filter.Active != nil {
		pred = pred.And(repository.Eq("is_active", *filter.Active))
	}
	users, err := s.uow.Users().Find(ctx, pred,
		repository.WithNoTracking(),
		repository.WithPreload("Roles"),
		repository.WithOrder("username", false))
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, mapUser(&users[i]))
	}
	return out, nil
}

func (s *userService) Update(ctx context.Context, caller domain.Caller, id uint, in UserUpdateInput) (*UserDTO, error) {
	if err := requireSelfOrAdmin(caller, id); err != nil {
		return nil, err
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if len(in.Username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", ErrValidationFailed)
	}
	if !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidationFailed)
	}

	var dto UserDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		user, err := tx.Users().GetByID(ctx, id, repository.WithPreload("Roles"))
		if err != nil {
			return translateNotFound(err, "user")
		}
		if in.Email != user.Email {
			if err := ensureUnique(ctx, tx.Users(), "email", in.Email); err != nil {
				return err
			}
		}
		if in.Username != user.Username {
			if err := ensureUnique(ctx, tx.Users(), "username", in.Username); err != nil {
				return err
			}
		}
		user.Username = in.Username
		user.Email = in.Email
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		dto = mapUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *userService) Deactivate(ctx context.Context, caller domain.Caller, id uint) error {
	return s.setActive(ctx, caller, id, false)
}

func (s *userService) Activate(ctx context.Context, caller domain.Caller, id uint) error {
	return s.setActive(ctx, caller, id, true)
}

func (s *userService) setActive(ctx context.Context, caller domain.Caller, id uint, active bool) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	user, err := s.uow.Users().GetByID(ctx, id)
	if err != nil {
		return translateNotFound(err, "user")
	}
	if user.IsActive == active {
		return nil
	}
	user.IsActive = active
	return s.uow.Users().Update(ctx, user)
}

func (s *userService) AssignRole(ctx context.Context, caller domain.Caller, userID uint, roleName string) (*UserDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var dto UserDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		user, err := tx.Users().GetByID(ctx, userID, repository.WithPreload("Roles"))
		if err != nil {
			return translateNotFound(err, "user")
		}
		role, err := tx.Roles().FindOne(ctx, repository.Eq("name", roleName))
		if err != nil {
			return translateNotFound(err, "role")
		}
		if user.HasRole(role.Name) {
			return fmt.Errorf("%w: user already has role %q", ErrConflict, role.Name)
		}
		if err := tx.UserRoles().Insert(ctx, &domain.UserRole{UserID: user.ID, RoleID: role.ID}); err != nil {
			return err
		}
		user.Roles = append(user.Roles, *role)
		dto = mapUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *userService) RemoveRole(ctx context.Context, caller domain.Caller, userID uint, roleName string) (*UserDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var dto UserDTO
	err := s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		user, err := tx.Users().GetByID(ctx, userID, repository.WithPreload("Roles"))
		if err != nil {
			return translateNotFound(err, "user")
		}
		role, err := tx.Roles().FindOne(ctx, repository.Eq("name", roleName))
		if err != nil {
			return translateNotFound(err, "role")
		}
		pred := repository.Eq("user_id", userID).And(repository.Eq("role_id", role.ID))
		join, err := tx.UserRoles().FindOne(ctx, pred)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: role %q not assigned", ErrNotFound, role.Name)
			}
			return err
		}
		if err := tx.UserRoles().Remove(ctx, join); err != nil {
			return err
		}
		kept := user.Roles[:0]
		for _, r := range user.Roles {
			if r.ID != role.ID {
				kept = append(kept, r)
			}
		}
		user.Roles = kept
		dto = mapUser(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}
