package main

import (
	catalogapp "github.com/negocio/backoffice/internal/application/catalog"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	inventoryapp "github.com/negocio/backoffice/internal/application/inventory"
	partnerapp "github.com/negocio/backoffice/internal/application/partner"
	tradeapp "github.com/negocio/backoffice/internal/application/trade"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"github.com/negocio/backoffice/internal/infrastructure/event"
	"github.com/negocio/backoffice/internal/infrastructure/logger"
	"github.com/negocio/backoffice/internal/infrastructure/persistence"
	"github.com/negocio/backoffice/internal/infrastructure/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedOpts = seed.DefaultOptions()

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Register a demo organization and fill it with generated data",
	Long: `Creates an organization with its admin user through the signup flow, then
warehouses, products with stock, clients, suppliers, purchases and sales.
Run it after "migrate up"; plan limits of the default plan apply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := persistence.NewDatabase(cfg.Database, persistence.Options{
			Logger:   log,
			LogLevel: logger.GormLevel("warn"),
		})
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		res, err := seed.New(seedServices(db), seedOpts, log).Run(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("Seed completed",
			zap.String("organization_id", res.OrganizationID.String()),
			zap.String("username", res.Username),
		)
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.Uint64Var(&seedOpts.Seed, "seed", 0, "Random seed for reproducible data (0 = random)")
	f.StringVar(&seedOpts.Username, "username", seedOpts.Username, "Admin username of the demo organization")
	f.StringVar(&seedOpts.Password, "password", seedOpts.Password, "Admin password of the demo organization")
	f.IntVar(&seedOpts.Warehouses, "warehouses", seedOpts.Warehouses, "Warehouses to create")
	f.IntVar(&seedOpts.Products, "products", seedOpts.Products, "Products to create")
	f.IntVar(&seedOpts.Clients, "clients", seedOpts.Clients, "Clients to create")
	f.IntVar(&seedOpts.Suppliers, "suppliers", seedOpts.Suppliers, "Suppliers to create")
	f.IntVar(&seedOpts.Purchases, "purchases", seedOpts.Purchases, "Purchases to register")
	f.IntVar(&seedOpts.Sales, "sales", seedOpts.Sales, "Sales to register")
}

// seedServices wires the application services the seeder writes through.
// Events go to a bus without subscribers.
func seedServices(db *persistence.Database) seed.Services {
	bus := event.NewInMemoryEventBus(log)
	txScope := persistence.NewGormTransactionScope(db.DB)

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

	repos := identityapp.Repositories{
		Organizations:     orgRepo,
		Users:             userRepo,
		Roles:             roleRepo,
		Permissions:       permRepo,
		RolePermissions:   rolePermRepo,
		UserRoles:         userRoleRepo,
		Plans:             planRepo,
		OrganizationPlans: orgPlanRepo,
	}
	subscriptions := identityapp.NewSubscriptionService(txScope.Identity(), repos, log)
	stock := inventoryapp.NewStockService(txScope.Inventory(), stockRepo, warehouseRepo, productRepo, log)

	tradeDeps := tradeapp.ServiceDeps{
		TxScope:    txScope.Trade(),
		Purchases:  persistence.NewGormPurchaseRepository(db.DB),
		Sales:      persistence.NewGormSaleRepository(db.DB),
		Suppliers:  supplierRepo,
		Clients:    clientRepo,
		Warehouses: warehouseRepo,
		Products:   productRepo,
		Events:     bus,
		TaxRate:    cfg.Business.TaxRate,
		Logger:     log,
	}

	return seed.Services{
		Auth: identityapp.NewAuthService(identityapp.AuthServiceDeps{
			TxScope:   txScope.Identity(),
			Repos:     repos,
			Resolver:  identityapp.NewAccessResolver(orgRepo, userRepo, userRoleRepo, rolePermRepo, nil, log),
			Tokens:    auth.NewJWTService(cfg.JWT),
			Blacklist: auth.NewInMemoryTokenBlacklist(),
			Events:    bus,
			Config:    identityapp.AuthServiceConfig{DefaultPlanCode: cfg.Business.DefaultPlanCode},
			Logger:    log,
		}),
		Warehouses: inventoryapp.NewWarehouseService(warehouseRepo, subscriptions, bus, log),
		Products: catalogapp.NewProductService(catalogapp.ProductServiceDeps{
			Products:  productRepo,
			Stock:     stockRepo,
			StockSync: stock,
			Quota:     subscriptions,
			Events:    bus,
			Logger:    log,
		}),
		Clients:   partnerapp.NewClientService(clientRepo, bus, log),
		Suppliers: partnerapp.NewSupplierService(supplierRepo, bus, log),
		Purchases: tradeapp.NewPurchaseService(tradeDeps),
		Sales:     tradeapp.NewSaleService(tradeDeps),
	}
}
