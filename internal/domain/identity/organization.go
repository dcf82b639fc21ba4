package identity

import (
	"strings"
	"time"

	"github.com/negocio/backoffice/internal/domain/shared"
)

// Organization is the tenant boundary: users, roles and business data
// belong to exactly one organization.
type Organization struct {
	shared.BaseAggregateRoot
	shared.Activatable
	Name    string
	TaxID   string
	Email   string
	Phone   string
	Address string
}

// NewOrganization creates a new active organization
func NewOrganization(name, taxID string) (*Organization, error) {
	org := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Activatable:       shared.NewActivatable(),
	}
	if err := org.Update(name, taxID); err != nil {
		return nil, err
	}
	org.Version = 1
	org.AddDomainEvent(NewOrganizationEvent(EventTypeOrganizationCreated, org))
	return org, nil
}

// Update sets the identifying data
func (o *Organization) Update(name, taxID string) error {
	name = strings.TrimSpace(name)
	taxID = strings.TrimSpace(taxID)
	if name == "" {
		return shared.NewDomainError("INVALID_ORGANIZATION_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_ORGANIZATION_NAME", "Organization name cannot exceed 200 characters")
	}
	if taxID == "" {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax id cannot be empty")
	}
	if len(taxID) > 20 {
		return shared.NewDomainError("INVALID_TAX_ID", "Tax id cannot exceed 20 characters")
	}

	o.Name = name
	o.TaxID = taxID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetContact sets the contact data
func (o *Organization) SetContact(email, phone, address string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	o.Email = email
	o.Phone = strings.TrimSpace(phone)
	o.Address = strings.TrimSpace(address)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the organization; its users can no longer sign in.
func (o *Organization) Deactivate() error {
	if err := o.Activatable.Deactivate(); err != nil {
		return err
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrganizationEvent(EventTypeOrganizationDeactivated, o))
	return nil
}

// Activate restores the organization
func (o *Organization) Activate() error {
	if err := o.Activatable.Activate(); err != nil {
		return err
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}
