package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/partner"
)

// =============================================================================
// Client DTOs
// =============================================================================

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	FirstName      string `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string `json:"last_name" binding:"max=100"`
	DocumentType   string `json:"document_type" binding:"omitempty,oneof=DNI RUC CE PASSPORT OTHER"`
	DocumentNumber string `json:"document_number" binding:"max=20"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	Phone          string `json:"phone" binding:"max=50"`
	Address        string `json:"address" binding:"max=500"`
}

// UpdateClientRequest represents a partial client update.
// FirstName and LastName are applied together; a missing half keeps its stored value.
type UpdateClientRequest struct {
	FirstName      *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" binding:"omitempty,max=100"`
	DocumentType   *string `json:"document_type" binding:"omitempty,oneof=DNI RUC CE PASSPORT OTHER"`
	DocumentNumber *string `json:"document_number" binding:"omitempty,max=20"`
	Email          *string `json:"email" binding:"omitempty,max=200"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID             uuid.UUID `json:"id"`
	TenantID       uuid.UUID `json:"tenant_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FullName       string    `json:"full_name"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// ToClientResponse converts a domain Client to ClientResponse
func ToClientResponse(c *partner.Client) ClientResponse {
	first, last := partner.SplitName(c.Name)
	return ClientResponse{
		ID:             c.ID,
		TenantID:       c.TenantID,
		FirstName:      first,
		LastName:       last,
		FullName:       c.Name,
		DocumentType:   string(c.DocumentType),
		DocumentNumber: c.DocumentNumber,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	TaxID       string `json:"tax_id" binding:"required,min=1,max=20"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address" binding:"max=500"`
}

// UpdateSupplierRequest represents a partial supplier update
type UpdateSupplierRequest struct {
	TaxID       *string `json:"tax_id" binding:"omitempty,min=1,max=20"`
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	TaxID       string    `json:"tax_id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		TenantID:    s.TenantID,
		TaxID:       s.TaxID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}
