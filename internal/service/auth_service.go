package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
	"fittrack/internal/token"
)

// AuthService turns verified credentials into bearer tokens and resolves an
// inbound caller identity back into a profile.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*UserDTO, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// GetAuthenticatedUser re-derives the profile and a fresh token from a
	// caller identity already validated by the middleware.
	GetAuthenticatedUser(ctx context.Context, caller domain.Caller) (*AuthResult, error)
	// Logout is bookkeeping only; issued tokens stay valid until expiry.
	Logout(ctx context.Context, caller domain.Caller) error
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	uow    repository.UnitOfWork
	tokens *token.Manager
}

func NewAuthService(uow repository.UnitOfWork, tokens *token.Manager) AuthService {
	return &authService{uow: uow, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if len(in.Username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", ErrValidationFailed)
	}
	if !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidationFailed)
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	err = s.uow.Transaction(ctx, func(tx repository.UnitOfWork) error {
		if err := ensureUnique(ctx, tx.Users(), "email", in.Email); err != nil {
			return err
		}
		if err := ensureUnique(ctx, tx.Users(), "username", in.Username); err != nil {
			return err
		}
		if err := tx.Users().Insert(ctx, &user); err != nil {
			return err
		}
		role, err := tx.Roles().FindOne(ctx, repository.Eq("name", domain.RoleUser))
		if err != nil {
			return fmt.Errorf("default role missing: %w", err)
		}
		user.Roles = []domain.Role{*role}
		return tx.UserRoles().Insert(ctx, &domain.UserRole{UserID: user.ID, RoleID: role.ID})
	})
	if err != nil {
		return nil, err
	}

	dto := mapUser(&user)
	return &dto, nil
}

func ensureUnique(ctx context.Context, users repository.Repository[domain.User], column, value string) error {
	_, err := users.FindOne(ctx, repository.Eq(column, value))
	if err == nil {
		return fmt.Errorf("%w: %s already taken", ErrConflict, column)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.uow.Users().FindOne(ctx, repository.Eq("email", email), repository.WithPreload("Roles"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.uow.Users().Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *authService) GetAuthenticatedUser(ctx context.Context, caller domain.Caller) (*AuthResult, error) {
	if caller.Anonymous() {
		return nil, ErrUnauthenticated
	}
	user, err := s.uow.Users().GetByID(ctx, caller.UserID, repository.WithPreload("Roles"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: account", ErrNotFound)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return s.issue(user)
}

func (s *authService) Logout(ctx context.Context, caller domain.Caller) error {
	if caller.Anonymous() {
		return ErrUnauthenticated
	}
	// Stateless token model: nothing to revoke server-side.
	return nil
}

func (s *authService) issue(user *domain.User) (*AuthResult, error) {
	signed, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: mapUser(user), Token: signed, ExpiresAt: expiresAt}, nil
}
