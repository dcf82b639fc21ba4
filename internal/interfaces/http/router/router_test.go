package router

import (
	"context"
	"go/parser"
	"go/token"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/infrastructure/config"
	"github.com/negocio/backoffice/internal/infrastructure/telemetry"
	"github.com/negocio/backoffice/internal/interfaces/http/handler"
	"github.com/negocio/backoffice/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.public)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup_AuthChainOnlyGuardsProtectedRoutes(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
	ok := func(c *gin.Context) { c.String(http.StatusOK, "pong") }

	NewRouter(engine, WithAuthChain(deny)).
		RegisterPublic(NewDomainGroup("open", "/open").GET("/ping", ok)).
		Register(NewDomainGroup("closed", "/closed").GET("/ping", ok)).
		Setup()

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/open/ping", http.StatusOK},
		{"/api/v1/closed/ping", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }

	dg := NewDomainGroup("items", "/items").
		GET("", echo).
		POST("", echo).
		PUT("/:id", echo).
		PATCH("/:id", echo).
		DELETE("/:id", echo)
	dg.RegisterRoutes(engine.Group("/api"))

	assert.Equal(t, "items", dg.Name())
	assert.Equal(t, "/items", dg.Prefix())

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/items"},
		{http.MethodPost, "/api/items"},
		{http.MethodPut, "/api/items/1"},
		{http.MethodPatch, "/api/items/1"},
		{http.MethodDelete, "/api/items/1"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tc.method)
		assert.Equal(t, tc.method, w.Body.String())
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	var trail []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			trail = append(trail, name)
			c.Next()
		}
	}

	dg := NewDomainGroup("warehouses", "/warehouses").Use(mark("outer"))
	dg.Group("stock", "/stock").Use(mark("inner")).GET("/low", func(c *gin.Context) {
		trail = append(trail, "handler")
		c.Status(http.StatusOK)
	})
	dg.RegisterRoutes(engine.Group(""))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/warehouses/stock/low", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"outer", "inner", "handler"}, trail)
}

type stubResolver struct {
	access *identity.Access
}

func (s stubResolver) Resolve(_ context.Context, _ uuid.UUID) (*identity.Access, error) {
	return s.access, nil
}

func newTestEngine(t *testing.T, access *identity.Access) (*gin.Engine, *auth.JWTService, *telemetry.Metrics) {
	t.Helper()

	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "backoffice-test",
		MaxRefreshCount:        3,
	})
	metrics := telemetry.NewMetrics()

	engine, err := New(Deps{
		Logger:    zap.NewNop(),
		App:       config.AppConfig{Name: "backoffice", Env: "test"},
		HTTP:      config.HTTPConfig{MaxBodySize: 1 << 20, CORSAllowOrigins: []string{"https://app.example.com"}},
		Metrics:   metrics,
		Tokens:    tokens,
		Blacklist: auth.NewInMemoryTokenBlacklist(),
		Access:    stubResolver{access: access},
	}, Handlers{
		Auth:          handler.NewAuthHandler(nil, nil),
		Organizations: handler.NewOrganizationHandler(nil, nil),
		Users:         handler.NewUserHandler(nil),
		Roles:         handler.NewRoleHandler(nil, nil),
		Plans:         handler.NewPlanHandler(nil),
		Products:      handler.NewProductHandler(nil),
		Warehouses:    handler.NewWarehouseHandler(nil, nil),
		Clients:       handler.NewClientHandler(nil),
		Suppliers:     handler.NewSupplierHandler(nil),
		Purchases:     handler.NewPurchaseHandler(nil),
		Sales:         handler.NewSaleHandler(nil),
		Reports:       handler.NewReportHandler(nil),
		System:        handler.NewSystemHandler("backoffice", "test", nil),
	})
	require.NoError(t, err)
	return engine, tokens, metrics
}

func TestNew_PublicEndpoints(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"liveness", "/health", http.StatusOK},
		{"readiness without checks", "/health/ready", http.StatusOK},
		{"system info", "/api/v1/system/info", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"unknown route", "/api/v1/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDKey))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestNew_ProtectedRoutesRequireToken(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	for _, path := range []string{"/api/v1/products", "/api/v1/sales", "/api/v1/auth/me", "/api/v1/reports/dashboard"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestNew_PermissionDenied(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()
	access := &identity.Access{
		UserID:         userID,
		OrganizationID: orgID,
		Permissions:    []string{"product:read"},
	}
	engine, tokens, _ := newTestEngine(t, access)

	pair, err := tokens.GenerateTokenPair(auth.Subject{OrganizationID: orgID, UserID: userID, Username: "cashier"})
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/products"},
		{http.MethodGet, "/api/v1/sales"},
		{http.MethodPost, "/api/v1/plans"},
		{http.MethodPost, "/api/v1/organizations"},
		{http.MethodGet, "/api/v1/warehouses/stock/low"},
		{http.MethodGet, "/api/v1/permissions"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestNew_MetricsRecordMatchedRoute(t *testing.T) {
	engine, _, metrics := newTestEngine(t, nil)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `route="/api/v1/products"`)
}

func TestNew_CORSPreflight(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

var (
	routerAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)
	pathParam        = regexp.MustCompile(`\{(\w+)\}`)
)

func TestNew_EveryRouteIsAnnotated(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	files, err := filepath.Glob("../handler/*.go")
	require.NoError(t, err)
	documented := map[string]bool{}
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ParseComments)
		require.NoError(t, err)
		for _, group := range f.Comments {
			for _, m := range routerAnnotation.FindAllStringSubmatch(group.Text(), -1) {
				path := pathParam.ReplaceAllString(m[1], ":$1")
				if !strings.HasPrefix(path, "/health") {
					path = "/api/v1" + path
				}
				documented[strings.ToUpper(m[2])+" "+path] = true
			}
		}
	}

	for _, route := range engine.Routes() {
		if route.Path == "/metrics" {
			continue
		}
		key := route.Method + " " + route.Path
		assert.True(t, documented[key], "no @Router annotation for %s", key)
	}
}
