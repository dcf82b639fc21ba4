package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/infrastructure/config"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "backoffice-test",
		MaxRefreshCount:        5,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, subject auth.Subject) *auth.TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	return pair
}

func newSubject() auth.Subject {
	return auth.Subject{OrganizationID: uuid.New(), UserID: uuid.New(), Username: "cashier"}
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse("ok"))
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bearer(token string) map[string]string {
	return map[string]string{AuthHeaderKey: BearerPrefix + token}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}
