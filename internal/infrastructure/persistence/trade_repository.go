package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	purchaseQuery = listQuery{
		searchFields: []string{"number", "document_number"},
		sortFields:   PurchaseSortFields,
		defaultSort:  "purchase_date",
	}
	saleQuery = listQuery{
		searchFields: []string{"number"},
		sortFields:   SaleSortFields,
		defaultSort:  "sale_date",
	}
)

// saveHeader writes the columns a trade document may change after it is
// registered. Every change bumps the aggregate version, so the stored row
// must still hold the previous one; otherwise another request got there first.
func saveHeader(db *gorm.DB, doc shared.TenantAggregateRoot) error {
	result := db.Where("id = ? AND version = ?", doc.ID, doc.Version-1).
		Updates(map[string]interface{}{
			"is_active":  doc.IsActive,
			"updated_at": doc.UpdatedAt,
			"version":    doc.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// filterEquals adds column = value when key holds a non-nil uuid or a non-empty string
func filterEquals(db *gorm.DB, filter shared.Filter, key, column string) *gorm.DB {
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		if v != uuid.Nil {
			return db.Where(column+" = ?", v)
		}
	case string:
		if v != "" {
			return db.Where(column+" = ?", v)
		}
	}
	return db
}

// filterDateRange restricts column to [date_from, date_to]
func filterDateRange(db *gorm.DB, filter shared.Filter, column string) *gorm.DB {
	if from, ok := filter.Filters[trade.FilterDateFrom].(time.Time); ok && !from.IsZero() {
		db = db.Where(column+" >= ?", from)
	}
	if to, ok := filter.Filters[trade.FilterDateTo].(time.Time); ok && !to.IsZero() {
		db = db.Where(column+" <= ?", to)
	}
	return db
}

// GormPurchaseRepository implements trade.PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID loads a purchase with its items
func (r *GormPurchaseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var m models.PurchaseModel
	query := purchaseQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at, product_code")
	}).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of purchase headers
func (r *GormPurchaseRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Purchase, int64, error) {
	query := purchaseQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), tenantID)
	query = purchaseQuery.apply(query, filter)
	query = filterEquals(query, filter, trade.FilterSupplierID, "supplier_id")
	query = filterEquals(query, filter, trade.FilterWarehouseID, "warehouse_id")
	query = filterDateRange(query, filter, "purchase_date")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PurchaseModel
	if err := purchaseQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	purchases := make([]trade.Purchase, len(rows))
	for i := range rows {
		purchases[i] = *rows[i].ToDomain()
	}
	return purchases, total, nil
}

// Create inserts the header and its items
func (r *GormPurchaseRepository) Create(ctx context.Context, purchase *trade.Purchase) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Create(models.PurchaseModelFromDomain(purchase)).Error; err != nil {
		return err
	}
	items := models.PurchaseItemModelsFromDomain(purchase)
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// FindForUpdate loads a purchase and locks its header until the transaction ends
func (r *GormPurchaseRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Purchase, error) {
	var m models.PurchaseModel
	query := purchaseQuery.scopeTenant(lockForUpdate(r.db.WithContext(ctx)), tenantID)
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at, product_code")
	}).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// Save writes the mutable header columns
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return saveHeader(r.db.WithContext(ctx).Model(&models.PurchaseModel{}), purchase.TenantAggregateRoot)
}

// GormSaleRepository implements trade.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID loads a sale with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var m models.SaleModel
	query := saleQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at, product_code")
	}).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of sale headers
func (r *GormSaleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Sale, int64, error) {
	query := saleQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.SaleModel{}), tenantID)
	query = saleQuery.apply(query, filter)
	query = filterEquals(query, filter, trade.FilterClientID, "client_id")
	query = filterEquals(query, filter, trade.FilterWarehouseID, "warehouse_id")
	query = filterEquals(query, filter, trade.FilterPaymentMethod, "payment_method")
	query = filterDateRange(query, filter, "sale_date")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SaleModel
	if err := saleQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	sales := make([]trade.Sale, len(rows))
	for i := range rows {
		sales[i] = *rows[i].ToDomain()
	}
	return sales, total, nil
}

// Create inserts the header and its items
func (r *GormSaleRepository) Create(ctx context.Context, sale *trade.Sale) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Items").Create(models.SaleModelFromDomain(sale)).Error; err != nil {
		return err
	}
	items := models.SaleItemModelsFromDomain(sale)
	if len(items) == 0 {
		return nil
	}
	return db.Create(&items).Error
}

// FindForUpdate loads a sale and locks its header until the transaction ends
func (r *GormSaleRepository) FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.Sale, error) {
	var m models.SaleModel
	query := saleQuery.scopeTenant(lockForUpdate(r.db.WithContext(ctx)), tenantID)
	if err := query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at, product_code")
	}).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// Save writes the mutable header columns
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return saveHeader(r.db.WithContext(ctx).Model(&models.SaleModel{}), sale.TenantAggregateRoot)
}

// Summarize counts and totals active sales dated in [from, to)
func (r *GormSaleRepository) Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (trade.SalesSummary, error) {
	query := saleQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.SaleModel{}), tenantID).
		Where("is_active = ? AND sale_date >= ? AND sale_date < ?", true, from, to)

	var rows []struct {
		Total decimal.Decimal
	}
	if err := query.Select("total").Scan(&rows).Error; err != nil {
		return trade.SalesSummary{}, err
	}

	summary := trade.SalesSummary{Total: decimal.Zero}
	for _, row := range rows {
		summary.Count++
		summary.Total = summary.Total.Add(row.Total)
	}
	return summary, nil
}

var (
	_ trade.PurchaseRepository = (*GormPurchaseRepository)(nil)
	_ trade.SaleRepository     = (*GormSaleRepository)(nil)
)
