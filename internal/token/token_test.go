package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *domain.User {
	u := &domain.User{
		Username: "sam",
		Email:    "sam@example.com",
		Roles:    []domain.Role{{Name: domain.RoleAdmin}, {Name: domain.RoleUser}},
	}
	u.SetID(42)
	return u
}

func TestNewManagerRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewManager("too-short", "fittrack", "fittrack-api", time.Hour)
	assert.Error(t, err)
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	m, err := NewManager(testSecret, "fittrack", "fittrack-api", time.Hour)
	require.NoError(t, err)

	signed, expiresAt, err := m.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.Parse(signed)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "sam", claims.Username)
	assert.Equal(t, "sam@example.com", claims.Email)
	assert.Equal(t, []string{domain.RoleAdmin, domain.RoleUser}, claims.Roles)
	assert.NotEmpty(t, claims.ID, "every token carries a unique jti")

	caller, err := claims.Caller()
	require.NoError(t, err)
	assert.Equal(t, uint(42), caller.UserID)
	assert.True(t, caller.IsAdmin())
}

func TestUniqueTokenIDs(t *testing.T) {
	t.Parallel()

	m, err := NewManager(testSecret, "fittrack", "fittrack-api", time.Hour)
	require.NoError(t, err)

	first, _, err := m.Issue(testUser())
	require.NoError(t, err)
	second, _, err := m.Issue(testUser())
	require.NoError(t, err)

	c1, err := m.Parse(first)
	require.NoError(t, err)
	c2, err := m.Parse(second)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestParseFailures(t *testing.T) {
	t.Parallel()

	m, err := NewManager(testSecret, "fittrack", "fittrack-api", time.Hour)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewManager("ffffffffffffffffffffffffffffffff", "fittrack", "fittrack-api", time.Hour)
		require.NoError(t, err)
		signed, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := &Manager{secret: []byte(testSecret), issuer: "fittrack", audience: "fittrack-api", ttl: -time.Minute}
		signed, _, err := expired.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		other, err := NewManager(testSecret, "someone-else", "fittrack-api", time.Hour)
		require.NoError(t, err)
		signed, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		other, err := NewManager(testSecret, "fittrack", "another-api", time.Hour)
		require.NoError(t, err)
		signed, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := m.Parse("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
