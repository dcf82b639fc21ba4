package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/infrastructure/config"
	"github.com/negocio/backoffice/internal/infrastructure/logger"
	"github.com/negocio/backoffice/internal/infrastructure/telemetry"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"github.com/negocio/backoffice/internal/interfaces/http/handler"
	"github.com/negocio/backoffice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler mounted by New
type Handlers struct {
	Auth          *handler.AuthHandler
	Organizations *handler.OrganizationHandler
	Users         *handler.UserHandler
	Roles         *handler.RoleHandler
	Plans         *handler.PlanHandler
	Products      *handler.ProductHandler
	Warehouses    *handler.WarehouseHandler
	Clients       *handler.ClientHandler
	Suppliers     *handler.SupplierHandler
	Purchases     *handler.PurchaseHandler
	Sales         *handler.SaleHandler
	Reports       *handler.ReportHandler
	System        *handler.SystemHandler
}

// Deps holds what the HTTP engine needs besides the handlers
type Deps struct {
	Logger    *zap.Logger
	App       config.AppConfig
	HTTP      config.HTTPConfig
	Telemetry config.TelemetryConfig
	Metrics   *telemetry.Metrics

	Tokens    middleware.TokenValidator
	Blacklist auth.TokenBlacklist
	Access    middleware.AccessResolver

	// APILimiter and AuthLimiter are nil when rate limiting is disabled
	APILimiter  *middleware.RateLimiter
	AuthLimiter *middleware.RateLimiter
}

// New builds the gin engine with the global middleware chain and every route
func New(deps Deps, h Handlers) (*gin.Engine, error) {
	if deps.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(deps.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(deps.Logger),
		middleware.RequestID(),
		logger.GinMiddleware(deps.Logger),
		middleware.Tracing(deps.Telemetry.ServiceName, deps.Telemetry.Enabled),
	)
	if deps.Metrics != nil {
		engine.Use(middleware.Metrics(deps.Metrics))
	}
	engine.Use(
		middleware.CORS(corsConfig(deps.HTTP)),
		middleware.SecureHeaders(deps.App.IsProduction()),
	)
	if deps.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(deps.HTTP.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})

	engine.GET("/health", h.System.Health)
	engine.GET("/health/ready", h.System.Ready)
	if deps.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	chain := []gin.HandlerFunc{
		middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			Tokens:    deps.Tokens,
			Blacklist: deps.Blacklist,
			Logger:    deps.Logger,
		}),
		middleware.OrganizationScope(deps.Access),
		middleware.SpanAttributes(),
	}
	if deps.APILimiter != nil {
		chain = append(chain, middleware.RateLimit(deps.APILimiter))
	}

	r := NewRouter(engine, WithAPIVersion("v1"), WithAuthChain(chain...))
	r.RegisterPublic(publicAuthRoutes(h.Auth, deps.AuthLimiter))
	r.RegisterPublic(NewDomainGroup("system", "/system").GET("/info", h.System.Info))

	r.Register(authRoutes(h.Auth)).
		Register(organizationRoutes(h.Organizations)).
		Register(userRoutes(h.Users)).
		Register(roleRoutes(h.Roles)).
		Register(permissionRoutes(h.Roles)).
		Register(planRoutes(h.Plans)).
		Register(productRoutes(h.Products)).
		Register(warehouseRoutes(h.Warehouses)).
		Register(clientRoutes(h.Clients)).
		Register(supplierRoutes(h.Suppliers)).
		Register(purchaseRoutes(h.Purchases)).
		Register(saleRoutes(h.Sales)).
		Register(reportRoutes(h.Reports))
	r.Setup()

	return engine, nil
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		c.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		c.AllowHeaders = cfg.CORSAllowHeaders
	}
	return c
}

func can(resource, action string) gin.HandlerFunc {
	return middleware.RequirePermission(identity.PermissionCode(resource, action))
}

func publicAuthRoutes(h *handler.AuthHandler, limiter *middleware.RateLimiter) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	if limiter != nil {
		g.Use(middleware.RateLimit(limiter))
	}
	return g.
		POST("/login", h.Login).
		POST("/register", h.Register).
		POST("/refresh", h.Refresh)
}

func authRoutes(h *handler.AuthHandler) *DomainGroup {
	return NewDomainGroup("session", "/auth").
		POST("/logout", h.Logout).
		GET("/me", h.Me).
		PUT("/password", h.ChangePassword)
}

func organizationRoutes(h *handler.OrganizationHandler) *DomainGroup {
	const res = identity.ResourceOrganization
	return NewDomainGroup("organizations", "/organizations").
		POST("", middleware.RequireSuperadmin(), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		PUT("/:id", can(res, identity.ActionUpdate), h.Update).
		DELETE("/:id", middleware.RequireSuperadmin(), h.Deactivate).
		POST("/:id/activate", middleware.RequireSuperadmin(), h.Activate).
		POST("/:id/plan", middleware.RequireSuperadmin(), h.AssignPlan).
		GET("/:id/plan", can(res, identity.ActionRead), h.ActivePlan).
		GET("/:id/plans", can(res, identity.ActionRead), h.PlanHistory)
}

func userRoutes(h *handler.UserHandler) *DomainGroup {
	const res = identity.ResourceUser
	return NewDomainGroup("users", "/users").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		PUT("/:id", can(res, identity.ActionUpdate), h.Update).
		DELETE("/:id", can(res, identity.ActionDelete), h.Deactivate).
		POST("/:id/activate", can(res, identity.ActionUpdate), h.Activate).
		POST("/:id/superadmin/toggle", middleware.RequireSuperadmin(), h.ToggleSuperadmin).
		POST("/:id/roles", can(res, identity.ActionUpdate), h.AssignRole).
		DELETE("/:id/roles/:role_id", can(res, identity.ActionUpdate), h.RemoveRole).
		GET("/:id/active-role", can(res, identity.ActionRead), h.GetActiveRole).
		PUT("/:id/active-role", can(res, identity.ActionUpdate), h.SetActiveRole)
}

func roleRoutes(h *handler.RoleHandler) *DomainGroup {
	const res = identity.ResourceRole
	return NewDomainGroup("roles", "/roles").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		PUT("/:id", can(res, identity.ActionUpdate), h.Update).
		DELETE("/:id", can(res, identity.ActionDelete), h.Deactivate).
		POST("/:id/activate", can(res, identity.ActionUpdate), h.Activate).
		GET("/:id/permissions", can(res, identity.ActionRead), h.GetPermissions).
		PUT("/:id/permissions", can(res, identity.ActionUpdate), h.SetPermissions)
}

// permissionRoutes exposes the global permission catalog to whoever can
// read roles, since it only matters when editing a role.
func permissionRoutes(h *handler.RoleHandler) *DomainGroup {
	return NewDomainGroup("permissions", "/permissions").
		GET("", can(identity.ResourceRole, identity.ActionRead), h.ListPermissions)
}

func planRoutes(h *handler.PlanHandler) *DomainGroup {
	return NewDomainGroup("plans", "/plans").
		GET("", can(identity.ResourcePlan, identity.ActionRead), h.List).
		GET("/:id", can(identity.ResourcePlan, identity.ActionRead), h.GetByID).
		POST("", middleware.RequireSuperadmin(), h.Create).
		PUT("/:id", middleware.RequireSuperadmin(), h.Update).
		DELETE("/:id", middleware.RequireSuperadmin(), h.Deactivate).
		POST("/:id/activate", middleware.RequireSuperadmin(), h.Activate)
}

func productRoutes(h *handler.ProductHandler) *DomainGroup {
	const res = identity.ResourceProduct
	return NewDomainGroup("products", "/products").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		PUT("/:id", can(res, identity.ActionUpdate), h.Update).
		DELETE("/:id", can(res, identity.ActionDelete), h.Deactivate).
		POST("/:id/activate", can(res, identity.ActionUpdate), h.Activate).
		GET("/:id/stock", can(identity.ResourceStock, identity.ActionRead), h.Stock)
}

func warehouseRoutes(h *handler.WarehouseHandler) *DomainGroup {
	const res = identity.ResourceWarehouse
	return NewDomainGroup("warehouses", "/warehouses").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/stock/low", can(identity.ResourceStock, identity.ActionRead), h.ListLowStock).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		PUT("/:id", can(res, identity.ActionUpdate), h.Update).
		DELETE("/:id", can(res, identity.ActionDelete), h.Deactivate).
		POST("/:id/activate", can(res, identity.ActionUpdate), h.Activate).
		GET("/:id/stock", can(identity.ResourceStock, identity.ActionRead), h.ListStock).
		PUT("/:id/stock/:product_id", can(identity.ResourceStock, identity.ActionUpdate), h.SetStock).
		POST("/:id/stock/:product_id/adjust", can(identity.ResourceStock, identity.ActionUpdate), h.AdjustStock)
}

func clientRoutes(h *handler.ClientHandler) *DomainGroup {
	const res = identity.ResourceClient
	return NewDomainGroup("clients", "/clients").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		PUT("/:id", can(res, identity.ActionUpdate), h.Update).
		DELETE("/:id", can(res, identity.ActionDelete), h.Deactivate).
		POST("/:id/activate", can(res, identity.ActionUpdate), h.Activate)
}

func supplierRoutes(h *handler.SupplierHandler) *DomainGroup {
	const res = identity.ResourceSupplier
	return NewDomainGroup("suppliers", "/suppliers").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		PUT("/:id", can(res, identity.ActionUpdate), h.Update).
		DELETE("/:id", can(res, identity.ActionDelete), h.Deactivate).
		POST("/:id/activate", can(res, identity.ActionUpdate), h.Activate)
}

func purchaseRoutes(h *handler.PurchaseHandler) *DomainGroup {
	const res = identity.ResourcePurchase
	return NewDomainGroup("purchases", "/purchases").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		DELETE("/:id", can(res, identity.ActionDelete), h.Annul)
}

func saleRoutes(h *handler.SaleHandler) *DomainGroup {
	const res = identity.ResourceSale
	return NewDomainGroup("sales", "/sales").
		POST("", can(res, identity.ActionCreate), h.Create).
		GET("", can(res, identity.ActionRead), h.List).
		GET("/:id", can(res, identity.ActionRead), h.GetByID).
		DELETE("/:id", can(res, identity.ActionDelete), h.Annul)
}

func reportRoutes(h *handler.ReportHandler) *DomainGroup {
	return NewDomainGroup("reports", "/reports").
		GET("/dashboard", can(identity.ResourceReport, identity.ActionRead), h.Dashboard)
}
