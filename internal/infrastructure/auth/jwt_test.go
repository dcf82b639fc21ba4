package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "backoffice-test",
		MaxRefreshCount:        2,
	})
}

func newTestSubject() Subject {
	return Subject{
		OrganizationID: uuid.New(),
		UserID:         uuid.New(),
		Username:       "ana",
	}
}

func TestNewJWTService_RefreshSecretFallback(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-one-secret"})
	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.OrganizationID, claims.OrganizationUUID())
	userID, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, subject.UserID, userID)
	assert.Equal(t, "ana", claims.Username)
	assert.False(t, claims.IsSuperadmin)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "backoffice-test", claims.Issuer)
}

func TestGenerateTokenPair_SuperadminWithoutOrganization(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(Subject{UserID: uuid.New(), Username: "root", IsSuperadmin: true})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsSuperadmin)
	assert.Empty(t, claims.OrganizationID)
	assert.Equal(t, uuid.Nil, claims.OrganizationUUID())
}

func TestValidate_WrongTokenType(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	// Refresh tokens are signed with a different secret.
	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	shared := NewJWTService(config.JWTConfig{
		Secret:                 "same",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
	})
	pair, err = shared.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)
	_, err = shared.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_Tampered(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestJWTService()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "backoffice-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:       uuid.NewString(),
		IsSuperadmin: true,
		TokenType:    AccessToken,
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	subject.IsSuperadmin = true
	refreshed, err := svc.RefreshTokenPair(pair.RefreshToken, subject)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.RefreshCount)
	assert.True(t, claims.IsSuperadmin)
}

func TestRefreshTokenPair_MaxCount(t *testing.T) {
	svc := newTestJWTService()
	subject := newTestSubject()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		pair, err = svc.RefreshTokenPair(pair.RefreshToken, subject)
		require.NoError(t, err)
	}

	_, err = svc.RefreshTokenPair(pair.RefreshToken, subject)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_SubjectMismatch(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.RefreshTokenPair(pair.RefreshToken, newTestSubject())
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestRemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := svc.RemainingTTL(claims)
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)

	assert.Zero(t, svc.RemainingTTL(&Claims{}))
}
