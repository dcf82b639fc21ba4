package persistence

import (
	"context"

	appidentity "github.com/negocio/backoffice/internal/application/identity"
	appinventory "github.com/negocio/backoffice/internal/application/inventory"
	apptrade "github.com/negocio/backoffice/internal/application/trade"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements the transaction scopes of the application
// layer using GORM transactions. Repositories handed to the callback share
// the transaction; an error returned by the callback rolls it back.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Identity returns the scope used by organization signup
func (s *GormTransactionScope) Identity() appidentity.TransactionScope {
	return identityScope{db: s.db}
}

// Inventory returns the scope used by stock writes
func (s *GormTransactionScope) Inventory() appinventory.TransactionScope {
	return inventoryScope{db: s.db}
}

// Trade returns the scope used by purchases and sales
func (s *GormTransactionScope) Trade() apptrade.TransactionScope {
	return tradeScope{db: s.db}
}

type identityScope struct{ db *gorm.DB }

func (s identityScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type inventoryScope struct{ db *gorm.DB }

func (s inventoryScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type tradeScope struct{ db *gorm.DB }

func (s tradeScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) OrganizationRepo() identity.OrganizationRepository {
	return NewGormOrganizationRepository(r.tx)
}

func (r *gormTransactionalRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) RoleRepo() identity.RoleRepository {
	return NewGormRoleRepository(r.tx)
}

func (r *gormTransactionalRepositories) PermissionRepo() identity.PermissionRepository {
	return NewGormPermissionRepository(r.tx)
}

func (r *gormTransactionalRepositories) RolePermissionRepo() identity.RolePermissionRepository {
	return NewGormRolePermissionRepository(r.tx)
}

func (r *gormTransactionalRepositories) UserRoleRepo() identity.UserRoleRepository {
	return NewGormUserRoleRepository(r.tx)
}

func (r *gormTransactionalRepositories) PlanRepo() identity.PlanRepository {
	return NewGormPlanRepository(r.tx)
}

func (r *gormTransactionalRepositories) OrganizationPlanRepo() identity.OrganizationPlanRepository {
	return NewGormOrganizationPlanRepository(r.tx)
}

// StockRepo returns the stock repository; FindForUpdate locks rows until commit.
func (r *gormTransactionalRepositories) StockRepo() inventory.WarehouseProductRepository {
	return NewGormWarehouseProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseRepo() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleRepo() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) SequenceRepo() trade.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

var (
	_ appidentity.TransactionScope           = identityScope{}
	_ appinventory.TransactionScope          = inventoryScope{}
	_ apptrade.TransactionScope              = tradeScope{}
	_ appidentity.TransactionalRepositories  = (*gormTransactionalRepositories)(nil)
	_ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ apptrade.TransactionalRepositories     = (*gormTransactionalRepositories)(nil)
)
