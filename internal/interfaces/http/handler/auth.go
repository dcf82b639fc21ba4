package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"github.com/negocio/backoffice/internal/interfaces/http/middleware"
)

// AuthService is the session API the auth handler depends on
type AuthService interface {
	Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.SessionResponse, error)
	Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.SessionResponse, error)
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.SessionResponse, error)
	Logout(ctx context.Context, access *auth.Claims, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.SessionResponse, error)
}

// PasswordChanger changes the password of the calling user
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, req identityapp.ChangePasswordRequest) error
}

// AuthHandler handles login, token refresh, registration and the caller's profile
type AuthHandler struct {
	BaseHandler
	auth      AuthService
	passwords PasswordChanger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthService, passwords PasswordChanger) *AuthHandler {
	return &AuthHandler{auth: authService, passwords: passwords}
}

// LogoutRequest optionally carries the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges username or email and password for a token pair
// @Summary      User login
// @Description  Exchange username or email and password for an access and refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=identityapp.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Refresh rotates a refresh token
// @Summary      Refresh tokens
// @Description  Rotate a refresh token into a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshRequest true "Refresh token"
// @Success      200 {object} dto.Response{data=identityapp.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Register creates an organization with its first administrator
// @Summary      Register an organization
// @Description  Create an organization with its first administrator and sign them in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "Registration request"
// @Success      201 {object} dto.Response{data=identityapp.SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// Logout revokes the access token and, when given, the refresh token
// @Summary      User logout
// @Description  Revoke the access token and, when given, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	var req LogoutRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the caller with organization and active permissions
// @Summary      Current user
// @Description  Return the caller with organization and active permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.SessionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session, err := h.auth.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// ChangePassword changes the caller's password
// @Summary      Change password
// @Description  Change the caller's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ChangePasswordRequest true "Current and new password"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req identityapp.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.passwords.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
