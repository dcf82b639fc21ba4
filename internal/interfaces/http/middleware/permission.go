package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/infrastructure/logger"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequirePermission creates middleware that requires a specific permission.
// Superadmins always pass.
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission creates middleware that requires any of the specified permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := GetAccess(c)
		if access == nil || !access.AllowsAny(permissions...) {
			denyPermission(c, access, permissions, "user lacks required permission")
			return
		}
		c.Next()
	}
}

// RequireAllPermissions creates middleware that requires all of the specified permissions
func RequireAllPermissions(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := GetAccess(c)
		if access == nil || !access.AllowsAll(permissions...) {
			denyPermission(c, access, permissions, "user lacks one or more required permissions")
			return
		}
		c.Next()
	}
}

// RequireResource checks resource:action where the action follows the HTTP
// method: GET read, POST create, PUT/PATCH update, DELETE delete.
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permission := identity.PermissionCode(resource, methodToAction(c.Request.Method))
		access := GetAccess(c)
		if access == nil || !access.Allows(permission) {
			denyPermission(c, access, []string{permission}, "user lacks required permission for resource")
			return
		}
		c.Next()
	}
}

// RequireSuperadmin restricts a route to superadmins
func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		access := GetAccess(c)
		if access == nil || !access.IsSuperadmin {
			denyPermission(c, access, nil, "superadmin required")
			return
		}
		c.Next()
	}
}

// methodToAction converts HTTP method to permission action
func methodToAction(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func denyPermission(c *gin.Context, access *identity.Access, required []string, reason string) {
	fields := []zap.Field{
		zap.String("reason", reason),
		zap.Strings("required_permissions", required),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	}
	if access != nil {
		fields = append(fields, zap.Strings("user_permissions", access.Permissions))
	}
	logger.L(c.Request.Context()).Warn("permission denied", fields...)

	abortWith(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: insufficient permissions")
}
