package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/negocio/backoffice/internal/application/catalog"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	inventoryapp "github.com/negocio/backoffice/internal/application/inventory"
	partnerapp "github.com/negocio/backoffice/internal/application/partner"
	reportapp "github.com/negocio/backoffice/internal/application/report"
	tradeapp "github.com/negocio/backoffice/internal/application/trade"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/infrastructure/cache"
	"github.com/negocio/backoffice/internal/infrastructure/config"
	"github.com/negocio/backoffice/internal/infrastructure/event"
	"github.com/negocio/backoffice/internal/infrastructure/logger"
	"github.com/negocio/backoffice/internal/infrastructure/persistence"
	"github.com/negocio/backoffice/internal/infrastructure/scheduler"
	"github.com/negocio/backoffice/internal/infrastructure/telemetry"
	"github.com/negocio/backoffice/internal/interfaces/http/handler"
	"github.com/negocio/backoffice/internal/interfaces/http/middleware"
	"github.com/negocio/backoffice/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const planExpiryJob = "plan-expiry"

//	@title			Backoffice API
//	@version		1.0
//	@description	Multi-tenant inventory, purchasing and sales backoffice API

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting backoffice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Server exited")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(log, "tracer provider", cfg.HTTP.ShutdownTimeout, tp.Shutdown)

	// Log export: entries keep going to the configured output as well
	lp, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(log, "logger provider", cfg.HTTP.ShutdownTimeout, lp.Shutdown)
	log = lp.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level))

	// Profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Shutdown failed", zap.String("component", "profiler"), zap.Error(err))
		}
	}()

	// Database
	db, err := persistence.NewDatabase(cfg.Database, persistence.Options{
		Logger:        log,
		LogLevel:      logger.GormLevel(cfg.Log.Level),
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.DBName))

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:               cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThreshold:    cfg.Telemetry.DBSlowQueryThresh,
		IncludeQueryVariables: !cfg.App.IsProduction(),
	}, log); err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	if sqlDB, err := db.DB.DB(); err == nil {
		if err := metrics.RegisterDBStats(sqlDB, cfg.Database.DBName); err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		}
	}

	// Redis is optional: caches and the token blacklist fall back to memory
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var (
		blacklist   auth.TokenBlacklist
		accessCache identity.AccessCache
	)
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		accessCache = cache.NewAccessCache(redisClient, cfg.Redis.PermissionCacheTTL, log)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		accessCache = cache.NewAccessCache(nil, cfg.Redis.PermissionCacheTTL, log)
	}

	// Event bus
	bus := event.NewInMemoryEventBus(log, event.WithMetrics(metrics.Registry()))
	defer shutdownWithTimeout(log, "event bus", cfg.HTTP.ShutdownTimeout, bus.Stop)

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	permRepo := persistence.NewGormPermissionRepository(db.DB)
	rolePermRepo := persistence.NewGormRolePermissionRepository(db.DB)
	userRoleRepo := persistence.NewGormUserRoleRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	orgPlanRepo := persistence.NewGormOrganizationPlanRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRepo := persistence.NewGormWarehouseProductRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)

	txScope := persistence.NewGormTransactionScope(db.DB)
	identityRepos := identityapp.Repositories{
		Organizations:     orgRepo,
		Users:             userRepo,
		Roles:             roleRepo,
		Permissions:       permRepo,
		RolePermissions:   rolePermRepo,
		UserRoles:         userRoleRepo,
		Plans:             planRepo,
		OrganizationPlans: orgPlanRepo,
	}

	// Identity services
	tokens := auth.NewJWTService(cfg.JWT)
	resolver := identityapp.NewAccessResolver(orgRepo, userRepo, userRoleRepo, rolePermRepo, accessCache, log)
	bus.Subscribe(identityapp.NewAccessInvalidator(resolver, userRoleRepo))

	subscriptions := identityapp.NewSubscriptionService(txScope.Identity(), identityRepos, log)
	authService := identityapp.NewAuthService(identityapp.AuthServiceDeps{
		TxScope:   txScope.Identity(),
		Repos:     identityRepos,
		Resolver:  resolver,
		Tokens:    tokens,
		Blacklist: blacklist,
		Events:    bus,
		Config:    identityapp.AuthServiceConfig{DefaultPlanCode: cfg.Business.DefaultPlanCode},
		Logger:    log,
	})
	userService := identityapp.NewUserService(identityapp.UserServiceDeps{
		Users:      userRepo,
		Roles:      roleRepo,
		UserRoles:  userRoleRepo,
		Quota:      subscriptions,
		Sessions:   blacklist,
		SessionTTL: cfg.JWT.RefreshTokenExpiration,
		Events:     bus,
		Logger:     log,
	})
	orgService := identityapp.NewOrganizationService(orgRepo, bus, log)
	roleService := identityapp.NewRoleService(txScope.Identity(), roleRepo, permRepo, rolePermRepo, bus, log)
	permService := identityapp.NewPermissionService(permRepo)
	planService := identityapp.NewPlanService(planRepo, log)

	// Inventory and catalog services
	stockService := inventoryapp.NewStockService(txScope.Inventory(), stockRepo, warehouseRepo, productRepo, log)
	warehouseService := inventoryapp.NewWarehouseService(warehouseRepo, subscriptions, bus, log)
	bus.Subscribe(inventoryapp.NewLowStockAlertHandler(stockRepo, inventoryapp.NewLoggingStockAlertNotifier(log), log))
	productService := catalogapp.NewProductService(catalogapp.ProductServiceDeps{
		Products:  productRepo,
		Stock:     stockRepo,
		StockSync: stockService,
		Quota:     subscriptions,
		Events:    bus,
		Logger:    log,
	})

	// Partners
	clientService := partnerapp.NewClientService(clientRepo, bus, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, bus, log)

	// Trade
	tradeDeps := tradeapp.ServiceDeps{
		TxScope:    txScope.Trade(),
		Purchases:  purchaseRepo,
		Sales:      saleRepo,
		Suppliers:  supplierRepo,
		Clients:    clientRepo,
		Warehouses: warehouseRepo,
		Products:   productRepo,
		Events:     bus,
		Metrics:    metrics,
		TaxRate:    cfg.Business.TaxRate,
		Currency:   cfg.Business.Currency,
		Logger:     log,
	}
	purchaseService := tradeapp.NewPurchaseService(tradeDeps)
	saleService := tradeapp.NewSaleService(tradeDeps)

	dashboard := reportapp.NewDashboardService(reportapp.DashboardDeps{
		Products:   productRepo,
		Clients:    clientRepo,
		Suppliers:  supplierRepo,
		Warehouses: warehouseRepo,
		Stock:      stockRepo,
		Sales:      saleRepo,
		Currency:   cfg.Business.Currency,
		Logger:     log,
	})

	// Background jobs
	jobs := scheduler.New(scheduler.Config{Timeout: cfg.Scheduler.JobTimeout}, log)
	if cfg.Scheduler.Enabled {
		err := jobs.Register(planExpiryJob, cfg.Scheduler.PlanExpirySchedule, func(ctx context.Context) error {
			n, err := subscriptions.ExpirePlans(ctx, time.Now())
			if n > 0 {
				log.Info("Expired organization plans", zap.Int("count", n))
			}
			return err
		})
		if err != nil {
			return err
		}
		jobs.Start()
		defer shutdownWithTimeout(log, "scheduler", cfg.HTTP.ShutdownTimeout, jobs.Stop)
	}

	// Rate limiters
	sweep := make(chan struct{})
	defer close(sweep)
	var apiLimiter, authLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		apiLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go apiLimiter.RunSweeper(time.Minute, sweep)
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go authLimiter.RunSweeper(time.Minute, sweep)
	}

	// HTTP
	middleware.SetupValidator()
	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	engine, err := router.New(router.Deps{
		Logger:      log,
		App:         cfg.App,
		HTTP:        cfg.HTTP,
		Telemetry:   cfg.Telemetry,
		Metrics:     metrics,
		Tokens:      tokens,
		Blacklist:   blacklist,
		Access:      resolver,
		APILimiter:  apiLimiter,
		AuthLimiter: authLimiter,
	}, router.Handlers{
		Auth:          handler.NewAuthHandler(authService, userService),
		Organizations: handler.NewOrganizationHandler(orgService, subscriptions),
		Users:         handler.NewUserHandler(userService),
		Roles:         handler.NewRoleHandler(roleService, permService),
		Plans:         handler.NewPlanHandler(planService),
		Products:      handler.NewProductHandler(productService),
		Warehouses:    handler.NewWarehouseHandler(warehouseService, stockService),
		Clients:       handler.NewClientHandler(clientService),
		Suppliers:     handler.NewSupplierHandler(supplierService),
		Purchases:     handler.NewPurchaseHandler(purchaseService),
		Sales:         handler.NewSaleHandler(saleService),
		Reports:       handler.NewReportHandler(dashboard),
		System:        handler.NewSystemHandler(cfg.App.Name, version, checks),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func shutdownWithTimeout(log *zap.Logger, name string, timeout time.Duration, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
