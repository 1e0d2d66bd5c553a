package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("assigns the default role", func(t *testing.T) {
		user, err := env.auth.Register(ctx, RegisterInput{
			Username: "sam", Email: "Sam@Example.com", Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.Equal(t, "sam@example.com", user.Email, "email is normalized")
		assert.Equal(t, []string{domain.RoleUser}, user.Roles)
		assert.True(t, user.IsActive)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := env.auth.Register(ctx, RegisterInput{
			Username: "other", Email: "sam@example.com", Password: "correct-horse",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, err := env.auth.Register(ctx, RegisterInput{
			Username: "sam", Email: "sam2@example.com", Password: "correct-horse",
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []RegisterInput{
			{Username: "ab", Email: "a@b.c", Password: "long-enough"},
			{Username: "valid", Email: "not-an-email", Password: "long-enough"},
			{Username: "valid", Email: "a@b.c", Password: "short"},
		}
		for _, in := range cases {
			_, err := env.auth.Register(ctx, in)
			assert.ErrorIs(t, err, ErrValidationFailed)
		}
	})

	t.Run("failed registration leaves no partial rows", func(t *testing.T) {
		before, err := env.uow.Users().Count(ctx, repository.All())
		require.NoError(t, err)
		_, err = env.auth.Register(ctx, RegisterInput{
			Username: "sam", Email: "fresh@example.com", Password: "correct-horse",
		})
		require.ErrorIs(t, err, ErrConflict)
		after, err := env.uow.Users().Count(ctx, repository.All())
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "sam", "sam@example.com")

	t.Run("success returns a parseable token", func(t *testing.T) {
		result, err := env.auth.Login(ctx, "sam@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "sam", result.User.Username)
		require.NotNil(t, result.User.LastLoginAt)

		claims, err := env.tokens.Parse(result.Token)
		require.NoError(t, err)
		id, err := claims.UserID()
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, id)
		assert.Equal(t, []string{domain.RoleUser}, claims.Roles)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, "sam@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.auth.Login(ctx, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		admin := env.registerAdmin(t, "root", "root@example.com")
		victim := env.register(t, "victim", "victim@example.com")
		require.NoError(t, env.users.Deactivate(ctx, admin, victim.UserID))

		_, err := env.auth.Login(ctx, "victim@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrAccountDeactivated)
	})
}

func TestGetAuthenticatedUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	caller := env.register(t, "sam", "sam@example.com")

	t.Run("issues a fresh token", func(t *testing.T) {
		result, err := env.auth.GetAuthenticatedUser(ctx, caller)
		require.NoError(t, err)
		assert.Equal(t, caller.UserID, result.User.ID)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		_, err := env.auth.GetAuthenticatedUser(ctx, domain.Caller{})
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("deleted account", func(t *testing.T) {
		ghost := domain.Caller{UserID: 9999, Username: "ghost"}
		_, err := env.auth.GetAuthenticatedUser(ctx, ghost)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	caller := env.register(t, "sam", "sam@example.com")
	assert.NoError(t, env.auth.Logout(ctx, caller))
	assert.ErrorIs(t, env.auth.Logout(ctx, domain.Caller{}), ErrUnauthenticated)
}
