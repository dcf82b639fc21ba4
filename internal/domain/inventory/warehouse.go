package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// Warehouse is a physical location holding stock of an organization
type Warehouse struct {
	shared.TenantAggregateRoot
	Code    string
	Name    string
	Address string
	Phone   string
}

// NewWarehouse creates a new active warehouse
func NewWarehouse(tenantID uuid.UUID, code, name string) (*Warehouse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateWarehouseCode(code); err != nil {
		return nil, err
	}
	if err := validateWarehouseName(name); err != nil {
		return nil, err
	}

	warehouse := &Warehouse{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
	}
	warehouse.AddDomainEvent(NewWarehouseEvent(EventTypeWarehouseCreated, warehouse))

	return warehouse, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name, address, phone string) error {
	if err := validateWarehouseName(name); err != nil {
		return err
	}
	phone = strings.TrimSpace(phone)
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	w.Name = strings.TrimSpace(name)
	w.Address = strings.TrimSpace(address)
	w.Phone = phone
	w.Touch()
	w.IncrementVersion()
	w.AddDomainEvent(NewWarehouseEvent(EventTypeWarehouseUpdated, w))

	return nil
}

// UpdateCode updates the warehouse's code
func (w *Warehouse) UpdateCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateWarehouseCode(code); err != nil {
		return err
	}
	w.Code = code
	w.Touch()
	w.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the warehouse
func (w *Warehouse) Deactivate() error {
	if err := w.TenantAggregateRoot.Deactivate(); err != nil {
		return err
	}
	w.AddDomainEvent(NewWarehouseEvent(EventTypeWarehouseDeactivated, w))
	return nil
}

func validateWarehouseCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateWarehouseName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name cannot exceed 200 characters")
	}
	return nil
}
