package partner

import (
	"context"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, events shared.EventPublisher, logger *zap.Logger) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(tenantID, req.TaxID, req.Name)
	if err != nil {
		return nil, err
	}

	// Check if tax id already exists
	exists, err := s.supplierRepo.ExistsByTaxID(ctx, tenantID, supplier.TaxID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this tax id already exists")
	}

	if req.ContactName != "" || req.Email != "" || req.Phone != "" || req.Address != "" {
		if err := supplier.SetContact(req.ContactName, req.Email, req.Phone, req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, supplier)

	s.logger.Info("supplier created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("tax_id", supplier.TaxID))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns one page of suppliers. Search matches name, tax id and contact name.
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SupplierResponse], error) {
	filter = filter.Normalize()
	suppliers, total, err := s.supplierRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		items[i] = ToSupplierResponse(&suppliers[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the given fields of a supplier
func (s *SupplierService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.TaxID != nil || req.Name != nil {
		taxID, name := supplier.TaxID, supplier.Name
		if req.TaxID != nil {
			taxID = *req.TaxID
		}
		if req.Name != nil {
			name = *req.Name
		}
		if err := supplier.Update(taxID, name); err != nil {
			return nil, err
		}
		exists, err := s.supplierRepo.ExistsByTaxID(ctx, supplier.TenantID, supplier.TaxID, supplier.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier with this tax id already exists")
		}
	}

	if req.ContactName != nil || req.Email != nil || req.Phone != nil || req.Address != nil {
		contact, email, phone, address := supplier.ContactName, supplier.Email, supplier.Phone, supplier.Address
		if req.ContactName != nil {
			contact = *req.ContactName
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := supplier.SetContact(contact, email, phone, address); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Deactivate soft-deletes a supplier
func (s *SupplierService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := supplier.Deactivate(); err != nil {
		return err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, supplier)

	s.logger.Info("supplier deactivated", zap.String("supplier_id", id.String()))
	return nil
}

// Activate restores a soft-deleted supplier
func (s *SupplierService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Activate(); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}
