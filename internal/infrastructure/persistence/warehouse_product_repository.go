package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const stockLineSelect = "wp.*, p.code AS product_code, p.name AS product_name, p.unit AS unit, " +
	"p.min_stock AS min_stock, w.code AS warehouse_code, w.name AS warehouse_name"

var stockQuery = listQuery{
	alias:        "wp",
	searchFields: []string{"p.code", "p.name", "p.barcode"},
	sortFields:   StockSortFields,
	defaultSort:  "product_code",
	sortColumns: map[string]string{
		"product_code":   "p.code",
		"product_name":   "p.name",
		"warehouse_code": "w.code",
		"warehouse_name": "w.name",
	},
}

// GormWarehouseProductRepository implements inventory.WarehouseProductRepository using GORM
type GormWarehouseProductRepository struct {
	db *gorm.DB
}

// NewGormWarehouseProductRepository creates a new GormWarehouseProductRepository
func NewGormWarehouseProductRepository(db *gorm.DB) *GormWarehouseProductRepository {
	return &GormWarehouseProductRepository{db: db}
}

// Find returns the stock row of a product in a warehouse
func (r *GormWarehouseProductRepository) Find(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.WarehouseProduct, error) {
	return r.find(r.db.WithContext(ctx), tenantID, warehouseID, productID)
}

// FindForUpdate locks the stock row until the surrounding transaction ends
func (r *GormWarehouseProductRepository) FindForUpdate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.WarehouseProduct, error) {
	return r.find(lockForUpdate(r.db.WithContext(ctx)), tenantID, warehouseID, productID)
}

func (r *GormWarehouseProductRepository) find(db *gorm.DB, tenantID, warehouseID, productID uuid.UUID) (*inventory.WarehouseProduct, error) {
	var m models.WarehouseProductModel
	if tenantID != uuid.Nil {
		db = db.Where("tenant_id = ?", tenantID)
	}
	if err := db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// stockLines starts a query over warehouse_products joined with active
// products and warehouses
func (r *GormWarehouseProductRepository) stockLines(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).
		Table("warehouse_products AS wp").
		Joins("JOIN products p ON p.id = wp.product_id AND p.is_active = ?", true).
		Joins("JOIN warehouses w ON w.id = wp.warehouse_id AND w.is_active = ?", true)
	return stockQuery.scopeTenant(query, tenantID)
}

func (r *GormWarehouseProductRepository) listLines(query *gorm.DB, filter shared.Filter) ([]inventory.StockLine, int64, error) {
	query = stockQuery.apply(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockLineRow
	if err := stockQuery.page(query.Select(stockLineSelect), filter).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return stockLinesFromRows(rows), total, nil
}

// ListByWarehouse returns one page of the stock held in a warehouse
func (r *GormWarehouseProductRepository) ListByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockLine, int64, error) {
	return r.listLines(r.stockLines(ctx, tenantID).Where("wp.warehouse_id = ?", warehouseID), filter)
}

// ListByProduct returns the active stock rows of a product in every warehouse
func (r *GormWarehouseProductRepository) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockLine, error) {
	var rows []models.StockLineRow
	err := r.stockLines(ctx, tenantID).
		Where("wp.product_id = ? AND wp.is_active = ?", productID, true).
		Select(stockLineSelect).
		Order("w.code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return stockLinesFromRows(rows), nil
}

// ListLowStock returns one page of active rows below the product minimum
func (r *GormWarehouseProductRepository) ListLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockLine, int64, error) {
	filter.IncludeInactive = false
	return r.listLines(r.stockLines(ctx, tenantID).Where("wp.quantity < p.min_stock"), filter)
}

// CountLowStock counts active rows below the product minimum
func (r *GormWarehouseProductRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.stockLines(ctx, tenantID).
		Where("wp.is_active = ? AND wp.quantity < p.min_stock", true).
		Count(&count).Error
	return count, err
}

// Save creates or updates a stock row
func (r *GormWarehouseProductRepository) Save(ctx context.Context, stock *inventory.WarehouseProduct) error {
	return r.db.WithContext(ctx).Save(models.WarehouseProductModelFromDomain(stock)).Error
}

func stockLinesFromRows(rows []models.StockLineRow) []inventory.StockLine {
	out := make([]inventory.StockLine, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

var _ inventory.WarehouseProductRepository = (*GormWarehouseProductRepository)(nil)
