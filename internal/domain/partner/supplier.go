package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// Supplier is a vendor the organization purchases from
type Supplier struct {
	shared.TenantAggregateRoot
	TaxID       string
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
}

// NewSupplier creates a new active supplier
func NewSupplier(tenantID uuid.UUID, taxID, name string) (*Supplier, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	supplier := &Supplier{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := supplier.apply(taxID, name); err != nil {
		return nil, err
	}
	supplier.AddDomainEvent(NewPartnerEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID, tenantID, supplier.Name))
	return supplier, nil
}

// Update changes the identifying data
func (s *Supplier) Update(taxID, name string) error {
	if err := s.apply(taxID, name); err != nil {
		return err
	}
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetContact sets the contact data
func (s *Supplier) SetContact(contactName, email, phone, address string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	s.ContactName = strings.TrimSpace(contactName)
	s.Email = email
	s.Phone = strings.TrimSpace(phone)
	s.Address = strings.TrimSpace(address)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the supplier
func (s *Supplier) Deactivate() error {
	if err := s.TenantAggregateRoot.Deactivate(); err != nil {
		return err
	}
	s.AddDomainEvent(NewPartnerEvent(EventTypeSupplierDeactivated, AggregateTypeSupplier, s.ID, s.TenantID, s.Name))
	return nil
}

func (s *Supplier) apply(taxID, name string) error {
	taxID = strings.ToUpper(strings.TrimSpace(taxID))
	name = strings.TrimSpace(name)
	if taxID == "" {
		return shared.NewDomainError("INVALID_TAX_ID", "Supplier tax id cannot be empty")
	}
	if len(taxID) > 20 || !documentRegex.MatchString(taxID) {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax id must be up to 20 letters, digits or hyphens")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	s.TaxID = taxID
	s.Name = name
	return nil
}
