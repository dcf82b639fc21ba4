// Package seed fills an empty installation with a demo organization:
// warehouses, products with stock, partners and a few purchases and sales.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	catalogapp "github.com/negocio/backoffice/internal/application/catalog"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	inventoryapp "github.com/negocio/backoffice/internal/application/inventory"
	partnerapp "github.com/negocio/backoffice/internal/application/partner"
	tradeapp "github.com/negocio/backoffice/internal/application/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Registrar interface {
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.SessionResponse, error)
}

type WarehouseCreator interface {
	Create(ctx context.Context, tenantID uuid.UUID, req inventoryapp.CreateWarehouseRequest) (*inventoryapp.WarehouseResponse, error)
}

type ProductCreator interface {
	Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
}

type ClientCreator interface {
	Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateClientRequest) (*partnerapp.ClientResponse, error)
}

type SupplierCreator interface {
	Create(ctx context.Context, tenantID uuid.UUID, req partnerapp.CreateSupplierRequest) (*partnerapp.SupplierResponse, error)
}

type PurchaseCreator interface {
	Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreatePurchaseRequest) (*tradeapp.PurchaseResponse, error)
}

type SaleCreator interface {
	Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreateSaleRequest) (*tradeapp.SaleResponse, error)
}

// Services are the application services the seeder writes through, so
// demo data passes the same validation and plan limits as real input.
type Services struct {
	Auth       Registrar
	Warehouses WarehouseCreator
	Products   ProductCreator
	Clients    ClientCreator
	Suppliers  SupplierCreator
	Purchases  PurchaseCreator
	Sales      SaleCreator
}

type Options struct {
	// Seed makes the generated data reproducible; 0 picks a random seed.
	Seed       uint64
	Username   string
	Password   string
	Warehouses int
	Products   int
	Clients    int
	Suppliers  int
	Purchases  int
	Sales      int
}

// DefaultOptions returns a small dataset that fits the FREE plan
func DefaultOptions() Options {
	return Options{
		Username:   "demo",
		Password:   "demo-password",
		Warehouses: 1,
		Products:   20,
		Clients:    10,
		Suppliers:  5,
		Purchases:  5,
		Sales:      10,
	}
}

type Result struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Username       string
	Warehouses     int
	Products       int
	Clients        int
	Suppliers      int
	Purchases      int
	Sales          int
}

type Seeder struct {
	svc    Services
	opts   Options
	faker  *gofakeit.Faker
	logger *zap.Logger
}

func New(svc Services, opts Options, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{svc: svc, opts: opts, faker: gofakeit.New(opts.Seed), logger: logger}
}

// Run creates the demo organization and its data. It stops at the first
// failure; rows written before it are kept.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	f := s.faker

	session, err := s.svc.Auth.Register(ctx, identityapp.RegisterRequest{
		OrganizationName: f.Company(),
		TaxID:            "20" + f.DigitN(9),
		Username:         s.opts.Username,
		Email:            s.opts.Username + "@" + f.DomainName(),
		Password:         s.opts.Password,
		FirstName:        f.FirstName(),
		LastName:         f.LastName(),
	})
	if err != nil {
		return nil, fmt.Errorf("register organization: %w", err)
	}
	res := &Result{
		OrganizationID: session.User.OrganizationID,
		UserID:         session.User.ID,
		Username:       session.User.Username,
	}
	tenant := res.OrganizationID
	log := s.logger.With(zap.String("organization_id", tenant.String()))
	log.Info("organization registered", zap.String("username", res.Username))

	warehouses := make([]uuid.UUID, 0, s.opts.Warehouses)
	for i := 0; i < s.opts.Warehouses; i++ {
		w, err := s.svc.Warehouses.Create(ctx, tenant, inventoryapp.CreateWarehouseRequest{
			Code:    fmt.Sprintf("ALM%02d", i+1),
			Name:    f.City() + " warehouse",
			Address: f.Street(),
			Phone:   f.Phone(),
		})
		if err != nil {
			return res, fmt.Errorf("create warehouse: %w", err)
		}
		warehouses = append(warehouses, w.ID)
	}
	res.Warehouses = len(warehouses)

	products := make([]uuid.UUID, 0, s.opts.Products)
	for i := 0; i < s.opts.Products; i++ {
		p, err := s.svc.Products.Create(ctx, tenant, s.product(i, warehouses))
		if err != nil {
			return res, fmt.Errorf("create product: %w", err)
		}
		products = append(products, p.ID)
	}
	res.Products = len(products)

	clients := make([]uuid.UUID, 0, s.opts.Clients)
	for i := 0; i < s.opts.Clients; i++ {
		c, err := s.svc.Clients.Create(ctx, tenant, partnerapp.CreateClientRequest{
			FirstName:      f.FirstName(),
			LastName:       f.LastName(),
			DocumentType:   "DNI",
			DocumentNumber: f.DigitN(8),
			Email:          f.Email(),
			Phone:          f.Phone(),
			Address:        f.Street(),
		})
		if err != nil {
			return res, fmt.Errorf("create client: %w", err)
		}
		clients = append(clients, c.ID)
	}
	res.Clients = len(clients)

	suppliers := make([]uuid.UUID, 0, s.opts.Suppliers)
	for i := 0; i < s.opts.Suppliers; i++ {
		sp, err := s.svc.Suppliers.Create(ctx, tenant, partnerapp.CreateSupplierRequest{
			TaxID:       fmt.Sprintf("20%07d%02d", f.Number(0, 9999999), i%100),
			Name:        f.Company(),
			ContactName: f.Name(),
			Email:       f.Email(),
			Phone:       f.Phone(),
			Address:     f.Street(),
		})
		if err != nil {
			return res, fmt.Errorf("create supplier: %w", err)
		}
		suppliers = append(suppliers, sp.ID)
	}
	res.Suppliers = len(suppliers)

	if len(warehouses) == 0 || len(products) == 0 {
		return res, nil
	}

	if len(suppliers) > 0 {
		for i := 0; i < s.opts.Purchases; i++ {
			_, err := s.svc.Purchases.Create(ctx, tenant, tradeapp.CreatePurchaseRequest{
				SupplierID:     pick(f, suppliers),
				WarehouseID:    pick(f, warehouses),
				DocumentNumber: "F001-" + f.DigitN(6),
				Items:          s.purchaseItems(products),
				UserID:         res.UserID,
			})
			if err != nil {
				return res, fmt.Errorf("create purchase: %w", err)
			}
			res.Purchases++
		}
	}

	for i := 0; i < s.opts.Sales; i++ {
		req := tradeapp.CreateSaleRequest{
			WarehouseID:   pick(f, warehouses),
			PaymentMethod: f.RandomString([]string{"CASH", "CARD", "TRANSFER"}),
			Items:         s.saleItems(products),
			UserID:        res.UserID,
		}
		// roughly one sale in four is a walk-in customer
		if len(clients) > 0 && f.Number(1, 4) > 1 {
			id := pick(f, clients)
			req.ClientID = &id
		}
		if _, err := s.svc.Sales.Create(ctx, tenant, req); err != nil {
			return res, fmt.Errorf("create sale: %w", err)
		}
		res.Sales++
	}

	log.Info("demo data seeded",
		zap.Int("warehouses", res.Warehouses),
		zap.Int("products", res.Products),
		zap.Int("clients", res.Clients),
		zap.Int("suppliers", res.Suppliers),
		zap.Int("purchases", res.Purchases),
		zap.Int("sales", res.Sales),
	)
	return res, nil
}

// product places enough stock in every warehouse that the generated sales
// never run short.
func (s *Seeder) product(i int, warehouses []uuid.UUID) catalogapp.CreateProductRequest {
	f := s.faker
	cost := decimal.NewFromFloat(f.Price(1, 200)).Round(2)
	price := cost.Mul(decimal.RequireFromString("1.35")).Round(2)
	minStock := decimal.NewFromInt(int64(f.Number(5, 20)))

	stock := make([]catalogapp.StockAllocationRequest, 0, len(warehouses))
	for _, w := range warehouses {
		stock = append(stock, catalogapp.StockAllocationRequest{
			WarehouseID: w,
			Quantity:    decimal.NewFromInt(int64(f.Number(500, 1000))),
		})
	}

	return catalogapp.CreateProductRequest{
		Code:          fmt.Sprintf("P%04d", i+1),
		Name:          f.ProductName(),
		Description:   f.ProductDescription(),
		Category:      f.ProductCategory(),
		Unit:          "UND",
		Barcode:       f.DigitN(13),
		PurchasePrice: &cost,
		SalePrice:     &price,
		MinStock:      &minStock,
		Stock:         stock,
	}
}

func (s *Seeder) purchaseItems(products []uuid.UUID) []tradeapp.PurchaseItemInput {
	f := s.faker
	ids := distinct(f, products, f.Number(1, 4))
	items := make([]tradeapp.PurchaseItemInput, 0, len(ids))
	for _, id := range ids {
		items = append(items, tradeapp.PurchaseItemInput{
			ProductID: id,
			Quantity:  decimal.NewFromInt(int64(f.Number(10, 50))),
			UnitCost:  decimal.NewFromFloat(f.Price(1, 200)).Round(2),
		})
	}
	return items
}

func (s *Seeder) saleItems(products []uuid.UUID) []tradeapp.SaleItemInput {
	f := s.faker
	ids := distinct(f, products, f.Number(1, 3))
	items := make([]tradeapp.SaleItemInput, 0, len(ids))
	for _, id := range ids {
		items = append(items, tradeapp.SaleItemInput{
			ProductID: id,
			Quantity:  decimal.NewFromInt(int64(f.Number(1, 5))),
		})
	}
	return items
}

func pick(f *gofakeit.Faker, ids []uuid.UUID) uuid.UUID {
	return ids[f.Number(0, len(ids)-1)]
}

// distinct returns up to n different ids
func distinct(f *gofakeit.Faker, ids []uuid.UUID, n int) []uuid.UUID {
	if n > len(ids) {
		n = len(ids)
	}
	perm := make([]uuid.UUID, len(ids))
	copy(perm, ids)
	f.ShuffleAnySlice(perm)
	return perm[:n]
}
