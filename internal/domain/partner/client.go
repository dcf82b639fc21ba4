package partner

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// DocumentType is the identity document of a client
type DocumentType string

const (
	DocumentTypeDNI      DocumentType = "DNI"
	DocumentTypeRUC      DocumentType = "RUC"
	DocumentTypeCE       DocumentType = "CE"
	DocumentTypePassport DocumentType = "PASSPORT"
	DocumentTypeOther    DocumentType = "OTHER"
)

var (
	digitsRegex   = regexp.MustCompile(`^[0-9]+$`)
	documentRegex = regexp.MustCompile(`^[A-Za-z0-9\-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// IsValid reports whether the document type is known
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeDNI, DocumentTypeRUC, DocumentTypeCE, DocumentTypePassport, DocumentTypeOther:
		return true
	}
	return false
}

// Client is a customer of the organization. First and last name are kept
// in the single Name field; use FirstName/LastName to read them back.
type Client struct {
	shared.TenantAggregateRoot
	DocumentType   DocumentType
	DocumentNumber string
	Name           string
	Email          string
	Phone          string
	Address        string
}

// NewClient creates a new active client
func NewClient(tenantID uuid.UUID, firstName, lastName string) (*Client, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	client := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentType:        DocumentTypeOther,
	}
	if err := client.setName(firstName, lastName); err != nil {
		return nil, err
	}
	client.AddDomainEvent(NewPartnerEvent(EventTypeClientCreated, AggregateTypeClient, client.ID, tenantID, client.Name))
	return client, nil
}

// Rename replaces the stored name
func (c *Client) Rename(firstName, lastName string) error {
	if err := c.setName(firstName, lastName); err != nil {
		return err
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// FirstName returns the first name part of the stored name
func (c *Client) FirstName() string {
	first, _ := SplitName(c.Name)
	return first
}

// LastName returns the last name part of the stored name
func (c *Client) LastName() string {
	_, last := SplitName(c.Name)
	return last
}

// SetDocument sets the identity document. An empty number clears it.
func (c *Client) SetDocument(docType DocumentType, number string) error {
	docType = DocumentType(strings.ToUpper(strings.TrimSpace(string(docType))))
	number = strings.TrimSpace(number)
	if docType == "" {
		docType = DocumentTypeOther
	}
	if !docType.IsValid() {
		return shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Unknown document type")
	}
	if number != "" {
		if err := validateDocumentNumber(docType, number); err != nil {
			return err
		}
	}

	c.DocumentType = docType
	c.DocumentNumber = strings.ToUpper(number)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetContact sets the contact data
func (c *Client) SetContact(email, phone, address string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.Address = strings.TrimSpace(address)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the client
func (c *Client) Deactivate() error {
	if err := c.TenantAggregateRoot.Deactivate(); err != nil {
		return err
	}
	c.AddDomainEvent(NewPartnerEvent(EventTypeClientDeactivated, AggregateTypeClient, c.ID, c.TenantID, c.Name))
	return nil
}

func (c *Client) setName(firstName, lastName string) error {
	name := JoinName(firstName, lastName)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	c.Name = name
	return nil
}

func validateDocumentNumber(docType DocumentType, number string) error {
	switch docType {
	case DocumentTypeDNI:
		if len(number) != 8 || !digitsRegex.MatchString(number) {
			return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "DNI must have 8 digits")
		}
	case DocumentTypeRUC:
		if len(number) != 11 || !digitsRegex.MatchString(number) {
			return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "RUC must have 11 digits")
		}
	default:
		if len(number) > 20 || !documentRegex.MatchString(number) {
			return shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number must be up to 20 letters, digits or hyphens")
		}
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
