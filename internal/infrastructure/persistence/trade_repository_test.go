package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	apptrade "github.com/negocio/backoffice/internal/application/trade"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func createSale(t *testing.T, db *gorm.DB, tenantID, warehouseID, productID uuid.UUID, qty int64) *trade.Sale {
	t.Helper()
	sale, err := trade.NewSale(tenantID, trade.SaleHeader{WarehouseID: warehouseID, UserID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, sale.AddItem(productID, "RICE", "Rice", decimal.NewFromInt(qty), decimal.NewFromInt(5)))
	require.NoError(t, sale.Finalize("V-00000001", decimal.RequireFromString("0.18")))
	require.NoError(t, NewGormSaleRepository(db).Create(context.Background(), sale))
	return sale
}

func TestGormSaleRepository_SaveRejectsStaleVersion(t *testing.T) {
	db := newSQLiteDB(t, &models.SaleModel{}, &models.SaleItemModel{})
	repo := NewGormSaleRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	sale := createSale(t, db, tenantID, uuid.New(), uuid.New(), 4)

	first, err := repo.FindForUpdate(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	require.Len(t, second.Items, 1)

	require.NoError(t, first.Annul())
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Annul(), "the stale copy still looks active")
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, tenantID, sale.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
	assert.Equal(t, 2, stored.Version)

	_, err = repo.FindForUpdate(ctx, uuid.New(), sale.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSaleAnnul_RestoresStockOnce(t *testing.T) {
	db := newSQLiteDB(t, &models.SaleModel{}, &models.SaleItemModel{}, &models.WarehouseProductModel{})
	ctx := context.Background()
	tenantID, warehouseID, productID := uuid.New(), uuid.New(), uuid.New()
	stock := NewGormWarehouseProductRepository(db)

	row := inventory.NewWarehouseProduct(tenantID, warehouseID, productID)
	require.NoError(t, row.SetQuantity(decimal.NewFromInt(6)))
	require.NoError(t, stock.Save(ctx, row))
	sale := createSale(t, db, tenantID, warehouseID, productID, 4)

	svc := apptrade.NewSaleService(apptrade.ServiceDeps{
		TxScope: NewGormTransactionScope(db).Trade(),
		Sales:   NewGormSaleRepository(db),
		Logger:  zap.NewNop(),
	})
	require.NoError(t, svc.Annul(ctx, tenantID, sale.ID))

	err := svc.Annul(ctx, tenantID, sale.ID)
	assert.Equal(t, "ALREADY_ANNULLED", shared.CodeOf(err))

	got, err := stock.Find(ctx, tenantID, warehouseID, productID)
	require.NoError(t, err)
	assert.Equal(t, "10", got.Quantity.String())
}
