package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) session(args mock.Arguments) (*identityapp.SessionResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityapp.SessionResponse), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.SessionResponse, error) {
	return m.session(m.Called(ctx, req))
}

func (m *mockAuthService) Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.SessionResponse, error) {
	return m.session(m.Called(ctx, req))
}

func (m *mockAuthService) Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.SessionResponse, error) {
	return m.session(m.Called(ctx, req))
}

func (m *mockAuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	return m.Called(ctx, access, refreshToken).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identityapp.SessionResponse, error) {
	return m.session(m.Called(ctx, userID))
}

type mockPasswordChanger struct {
	mock.Mock
}

func (m *mockPasswordChanger) ChangePassword(ctx context.Context, userID uuid.UUID, req identityapp.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc, new(mockPasswordChanger))
	r := gin.New()
	r.POST("/auth/login", h.Login)

	t.Run("success", func(t *testing.T) {
		session := &identityapp.SessionResponse{
			Token:       &identityapp.TokenResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"},
			User:        identityapp.UserResponse{Username: "admin"},
			Permissions: []string{"product:read"},
		}
		svc.On("Login", mock.Anything, identityapp.LoginRequest{Login: "admin", Password: "s3cret-pass"}).Return(session, nil).Once()

		rec := doJSON(r, "POST", "/auth/login", map[string]string{"login": "admin", "password": "s3cret-pass"})

		require.Equal(t, http.StatusOK, rec.Code)
		var got identityapp.SessionResponse
		decodeResponse(t, rec, &got)
		assert.Equal(t, "access", got.Token.AccessToken)
		assert.Equal(t, []string{"product:read"}, got.Permissions)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")).Once()

		rec := doJSON(r, "POST", "/auth/login", map[string]string{"login": "admin", "password": "nope"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeResponse(t, rec, nil).Error.Code)
	})

	t.Run("deactivated account", func(t *testing.T) {
		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "The account is deactivated")).Once()

		rec := doJSON(r, "POST", "/auth/login", map[string]string{"login": "admin", "password": "s3cret-pass"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doJSON(r, "POST", "/auth/login", `{"login":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc, new(mockPasswordChanger))
	r := gin.New()
	r.POST("/auth/register", h.Register)

	svc.On("Register", mock.Anything, mock.MatchedBy(func(req identityapp.RegisterRequest) bool {
		return req.OrganizationName == "Bodega Lucia" && req.Username == "lucia"
	})).Return(&identityapp.SessionResponse{}, nil)

	rec := doJSON(r, "POST", "/auth/register", map[string]string{
		"organization_name": "Bodega Lucia",
		"tax_id":            "20123456789",
		"username":          "lucia",
		"email":             "lucia@example.com",
		"password":          "longenough",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(r, "POST", "/auth/register", map[string]string{
		"organization_name": "Bodega Lucia",
		"tax_id":            "20123456789",
		"username":          "lucia",
		"email":             "lucia@example.com",
		"password":          "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(mockAuthService)
	h := NewAuthHandler(svc, new(mockPasswordChanger))
	claims := &auth.Claims{UserID: uuid.NewString()}
	claims.ID = "jti-1"

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Next()
	}, h.Logout)
	r.POST("/anonymous/logout", h.Logout)

	svc.On("Logout", mock.Anything, claims, "refresh-token").Return(nil).Once()
	svc.On("Logout", mock.Anything, claims, "").Return(nil).Once()

	assert.Equal(t, http.StatusNoContent, doJSON(r, "POST", "/auth/logout", map[string]string{"refresh_token": "refresh-token"}).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(r, "POST", "/auth/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, "POST", "/anonymous/logout", nil).Code)
	svc.AssertExpectations(t)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	passwords := new(mockPasswordChanger)
	h := NewAuthHandler(new(mockAuthService), passwords)
	userID := uuid.New()
	r := newScopedRouter(&identity.Access{UserID: userID}, uuid.New())
	r.PUT("/auth/password", h.ChangePassword)

	req := identityapp.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}
	passwords.On("ChangePassword", mock.Anything, userID, req).Return(nil).Once()
	passwords.On("ChangePassword", mock.Anything, userID, req).
		Return(shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")).Once()

	assert.Equal(t, http.StatusNoContent, doJSON(r, "PUT", "/auth/password", req).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(r, "PUT", "/auth/password", req).Code)
}
