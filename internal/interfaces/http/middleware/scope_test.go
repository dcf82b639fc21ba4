package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

type stubResolver struct {
	access *identity.Access
	err    error
}

func (s stubResolver) Resolve(_ context.Context, _ uuid.UUID) (*identity.Access, error) {
	return s.access, s.err
}

func newScopeRouter(t *testing.T, resolver AccessResolver, seen *uuid.UUID) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	svc := newTestJWTService()
	r := gin.New()
	r.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{Tokens: svc}), OrganizationScope(resolver))
	r.GET("/scoped", func(c *gin.Context) {
		*seen = GetOrganizationID(c)
		okHandler(c)
	})
	return r, svc
}

func TestOrganizationScope(t *testing.T) {
	orgID, otherOrg := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		superadmin bool
		header     string
		wantStatus int
		wantOrg    uuid.UUID
	}{
		{"user acts in own organization", false, "", http.StatusOK, orgID},
		{"user may repeat own organization", false, orgID.String(), http.StatusOK, orgID},
		{"user cannot switch organization", false, otherOrg.String(), http.StatusForbidden, uuid.Nil},
		{"superadmin without header is unscoped", true, "", http.StatusOK, uuid.Nil},
		{"superadmin switches organization", true, otherOrg.String(), http.StatusOK, otherOrg},
		{"superadmin with malformed header", true, "acme", http.StatusBadRequest, uuid.Nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := uuid.New()
			access := &identity.Access{UserID: userID, OrganizationID: orgID, IsSuperadmin: tt.superadmin}
			var seen uuid.UUID
			r, svc := newScopeRouter(t, stubResolver{access: access}, &seen)
			pair := issueToken(t, svc, newSubject())

			headers := bearer(pair.AccessToken)
			if tt.header != "" {
				headers[OrganizationHeaderKey] = tt.header
			}
			rec := perform(r, http.MethodGet, "/scoped", headers)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrg, seen)
		})
	}
}

func TestOrganizationScope_ResolverErrors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		var seen uuid.UUID
		r, svc := newScopeRouter(t, stubResolver{err: shared.ErrUnauthorized}, &seen)
		rec := perform(r, http.MethodGet, "/scoped", bearer(issueToken(t, svc, newSubject()).AccessToken))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, rec).Code)
	})

	t.Run("deactivated account or organization", func(t *testing.T) {
		for _, code := range []string{"ACCOUNT_DEACTIVATED", "ORGANIZATION_INACTIVE"} {
			var seen uuid.UUID
			r, svc := newScopeRouter(t, stubResolver{err: shared.NewDomainError(code, "deactivated")}, &seen)
			rec := perform(r, http.MethodGet, "/scoped", bearer(issueToken(t, svc, newSubject()).AccessToken))

			assert.Equal(t, http.StatusForbidden, rec.Code, code)
			assert.Equal(t, code, decodeError(t, rec).Code)
			assert.Equal(t, uuid.Nil, seen)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		var seen uuid.UUID
		r, svc := newScopeRouter(t, stubResolver{err: errors.New("connection refused")}, &seen)
		rec := perform(r, http.MethodGet, "/scoped", bearer(issueToken(t, svc, newSubject()).AccessToken))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, dto.ErrCodeInternal, decodeError(t, rec).Code)
	})
}

func TestOrganizationScope_WithoutClaims(t *testing.T) {
	r := gin.New()
	r.Use(OrganizationScope(stubResolver{}))
	r.GET("/scoped", okHandler)

	rec := perform(r, http.MethodGet, "/scoped", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetUserID(c))

	id := uuid.New()
	c.Set(AccessKey, &identity.Access{UserID: id})
	assert.Equal(t, id, GetUserID(c))
}
