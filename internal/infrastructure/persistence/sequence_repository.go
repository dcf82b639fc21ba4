package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository implements trade.SequenceRepository on the
// document_sequences table. The row stays locked until the calling
// transaction commits, so numbers are gap-free per organization and kind.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next increments and returns the sequence of (tenantID, kind)
func (r *GormSequenceRepository) Next(ctx context.Context, tenantID uuid.UUID, kind string) (int64, error) {
	db := r.db.WithContext(ctx)

	seed := models.DocumentSequenceModel{TenantID: tenantID, Kind: kind, UpdatedAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	var seq models.DocumentSequenceModel
	if err := lockForUpdate(db).
		Where("tenant_id = ? AND kind = ?", tenantID, kind).
		First(&seq).Error; err != nil {
		return 0, err
	}

	seq.Value++
	if err := db.Model(&models.DocumentSequenceModel{}).
		Where("tenant_id = ? AND kind = ?", tenantID, kind).
		Updates(map[string]any{"value": seq.Value, "updated_at": time.Now()}).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

var _ trade.SequenceRepository = (*GormSequenceRepository)(nil)
