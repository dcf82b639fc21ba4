package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createTestUser(t *testing.T) *User {
	user, err := NewUser(uuid.New(), "JDoe", "John.Doe@Example.com", "secret123")
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalizes username and email", func(t *testing.T) {
		user, err := NewUser(tenantID, " JDoe ", "John.Doe@Example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "jdoe", user.Username)
		assert.Equal(t, "john.doe@example.com", user.Email)
		assert.Equal(t, tenantID, user.TenantID)
		assert.True(t, user.IsActive)
		assert.False(t, user.IsSuperadmin)
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	tests := []struct {
		name     string
		tenantID uuid.UUID
		username string
		email    string
		password string
		code     string
	}{
		{"missing tenant", uuid.Nil, "jdoe", "a@b.com", "secret123", "ORGANIZATION_REQUIRED"},
		{"short username", tenantID, "jd", "a@b.com", "secret123", "INVALID_USERNAME"},
		{"bad username chars", tenantID, "j doe", "a@b.com", "secret123", "INVALID_USERNAME"},
		{"empty email", tenantID, "jdoe", "", "secret123", "INVALID_EMAIL"},
		{"bad email", tenantID, "jdoe", "not-an-email", "secret123", "INVALID_EMAIL"},
		{"short password", tenantID, "jdoe", "a@b.com", "abc1", "INVALID_PASSWORD"},
		{"password without digit", tenantID, "jdoe", "a@b.com", "abcdefgh", "INVALID_PASSWORD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.tenantID, tt.username, tt.email, tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.code, shared.CodeOf(err))
		})
	}
}

func TestUser_Password(t *testing.T) {
	user := createTestUser(t)

	assert.True(t, user.VerifyPassword("secret123"))
	assert.False(t, user.VerifyPassword("wrong-pass1"))

	err := user.ChangePassword("wrong-pass1", "newsecret456")
	assert.Equal(t, "INVALID_PASSWORD", shared.CodeOf(err))

	require.NoError(t, user.ChangePassword("secret123", "newsecret456"))
	assert.True(t, user.VerifyPassword("newsecret456"))
	assert.False(t, user.VerifyPassword("secret123"))
}

func TestVerifyAbsentPassword(t *testing.T) {
	assert.False(t, VerifyAbsentPassword("secret123"))
	assert.False(t, VerifyAbsentPassword("placeholder-password"), "never reports a match")

	cost, err := bcrypt.Cost(placeholderPasswordHash())
	require.NoError(t, err)
	assert.Equal(t, PasswordHashCost, cost, "costs as much as a real comparison")
}

func TestUser_ToggleSuperadmin(t *testing.T) {
	user := createTestUser(t)
	version := user.Version

	assert.True(t, user.ToggleSuperadmin())
	assert.True(t, user.IsSuperadmin)
	assert.False(t, user.ToggleSuperadmin())
	assert.False(t, user.IsSuperadmin)
	assert.Equal(t, version+2, user.Version)
}

func TestUser_SoftDelete(t *testing.T) {
	user := createTestUser(t)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.CanLogin())
	assert.ErrorIs(t, user.Deactivate(), shared.ErrAlreadyInactive)

	require.NoError(t, user.Activate())
	assert.True(t, user.CanLogin())
}

func TestUser_FullName(t *testing.T) {
	user := createTestUser(t)
	assert.Equal(t, "jdoe", user.FullName())

	require.NoError(t, user.SetProfile(" John ", "Doe", ""))
	assert.Equal(t, "John Doe", user.FullName())
}

func TestUser_RecordLogin(t *testing.T) {
	user := createTestUser(t)
	assert.Nil(t, user.LastLoginAt)
	user.RecordLogin()
	assert.NotNil(t, user.LastLoginAt)
}
