package inventory

import (
	"context"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// QuotaChecker enforces plan limits before a resource is created
type QuotaChecker interface {
	CheckQuota(ctx context.Context, orgID uuid.UUID, resource identity.QuotaResource, current int64) error
}

// WarehouseService handles warehouse-related business operations
type WarehouseService struct {
	warehouseRepo inventory.WarehouseRepository
	quota         QuotaChecker
	events        shared.EventPublisher
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService. quota may be nil.
func NewWarehouseService(
	warehouseRepo inventory.WarehouseRepository,
	quota QuotaChecker,
	events shared.EventPublisher,
	logger *zap.Logger,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		quota:         quota,
		events:        events,
		logger:        logger,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, tenantID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if s.quota != nil {
		count, err := s.warehouseRepo.CountActive(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if err := s.quota.CheckQuota(ctx, tenantID, identity.QuotaWarehouses, count); err != nil {
			return nil, err
		}
	}

	warehouse, err := inventory.NewWarehouse(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.warehouseRepo.ExistsByCode(ctx, tenantID, warehouse.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}
	if req.Address != "" || req.Phone != "" {
		if err := warehouse.Update(req.Name, req.Address, req.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, warehouse)

	s.logger.Info("warehouse created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("warehouse_id", warehouse.ID.String()),
		zap.String("code", warehouse.Code))

	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// List returns one page of warehouses matching the filter
func (s *WarehouseService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[WarehouseResponse], error) {
	filter = filter.Normalize()
	warehouses, total, err := s.warehouseRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		items[i] = ToWarehouseResponse(&warehouses[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the given fields of a warehouse
func (s *WarehouseService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := warehouse.UpdateCode(*req.Code); err != nil {
			return nil, err
		}
		exists, err := s.warehouseRepo.ExistsByCode(ctx, warehouse.TenantID, warehouse.Code, warehouse.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
		}
	}

	name, address, phone := warehouse.Name, warehouse.Address, warehouse.Phone
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := warehouse.Update(name, address, phone); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, warehouse)

	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}

// Deactivate soft-deletes a warehouse. Its stock rows are kept.
func (s *WarehouseService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := warehouse.Deactivate(); err != nil {
		return err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, warehouse)

	s.logger.Info("warehouse deactivated", zap.String("warehouse_id", id.String()))
	return nil
}

// Activate restores a soft-deleted warehouse
func (s *WarehouseService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := warehouse.Activate(); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(warehouse)
	return &resp, nil
}
