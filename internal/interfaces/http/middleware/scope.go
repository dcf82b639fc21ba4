package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/logger"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Scope context keys
const (
	AccessKey             = "access"
	OrganizationIDKey     = "organization_id"
	OrganizationHeaderKey = "X-Organization-ID"
)

// AccessResolver resolves the superadmin flag and active-role permissions of a user
type AccessResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*identity.Access, error)
}

// OrganizationScope resolves the caller's access and the organization the
// request acts in. Regular users always act in their own organization. A
// superadmin acts in the organization named by X-Organization-ID, or in
// none (uuid.Nil, every organization visible) when the header is absent.
func OrganizationScope(resolver AccessResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token")
			return
		}

		ctx := c.Request.Context()
		access, err := resolver.Resolve(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				abortWith(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
				return
			}
			var de *shared.DomainError
			if errors.As(err, &de) {
				abortWith(c, dto.GetHTTPStatus(de.Code), de.Code, de.Message)
				return
			}
			logger.L(ctx).Error("failed to resolve access", zap.Error(err))
			abortWith(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}

		orgID := access.OrganizationID
		header := c.GetHeader(OrganizationHeaderKey)
		switch {
		case access.IsSuperadmin && header == "":
			orgID = uuid.Nil
		case access.IsSuperadmin:
			orgID, err = uuid.Parse(header)
			if err != nil {
				abortWith(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid "+OrganizationHeaderKey+" header")
				return
			}
		case header != "" && header != access.OrganizationID.String():
			abortWith(c, http.StatusForbidden, dto.ErrCodeForbidden, "Only a superadmin may act in another organization")
			return
		}

		c.Set(AccessKey, access)
		c.Set(OrganizationIDKey, orgID)
		if orgID != uuid.Nil {
			c.Request = c.Request.WithContext(logger.WithOrganizationID(ctx, orgID.String()))
		}

		c.Next()
	}
}

// GetAccess returns the access resolved by OrganizationScope
func GetAccess(c *gin.Context) *identity.Access {
	if v, ok := c.Get(AccessKey); ok {
		if access, ok := v.(*identity.Access); ok {
			return access
		}
	}
	return nil
}

// GetOrganizationID returns the acting organization; uuid.Nil means every
// organization (superadmin without X-Organization-ID).
func GetOrganizationID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(OrganizationIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserID returns the authenticated user id, or uuid.Nil
func GetUserID(c *gin.Context) uuid.UUID {
	if access := GetAccess(c); access != nil {
		return access.UserID
	}
	if claims := GetJWTClaims(c); claims != nil {
		if id, err := claims.UserUUID(); err == nil {
			return id
		}
	}
	return uuid.Nil
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
