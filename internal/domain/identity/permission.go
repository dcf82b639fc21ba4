package identity

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/negocio/backoffice/internal/domain/shared"
)

// Resources guarded by permissions
const (
	ResourceOrganization = "organization"
	ResourceUser         = "user"
	ResourceRole         = "role"
	ResourcePlan         = "plan"
	ResourceProduct      = "product"
	ResourceWarehouse    = "warehouse"
	ResourceStock        = "stock"
	ResourceClient       = "client"
	ResourceSupplier     = "supplier"
	ResourcePurchase     = "purchase"
	ResourceSale         = "sale"
	ResourceReport       = "report"
)

// Actions that can be performed on a resource
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var permissionPartRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Permission is a functional permission following the resource:action pattern.
// The permission catalog is global; roles of every organization reference it.
type Permission struct {
	shared.BaseEntity
	shared.Activatable
	Code        string // e.g. "product:create"
	Resource    string
	Action      string
	Description string
}

// NewPermission creates a new active permission
func NewPermission(resource, action, description string) (*Permission, error) {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	if resource == "" {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission resource cannot be empty")
	}
	if action == "" {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission action cannot be empty")
	}
	if !permissionPartRegex.MatchString(resource) || !permissionPartRegex.MatchString(action) {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission resource and action must start with a letter and contain only lowercase letters, digits and underscores")
	}

	return &Permission{
		BaseEntity:  shared.NewBaseEntity(),
		Activatable: shared.NewActivatable(),
		Code:        PermissionCode(resource, action),
		Resource:    resource,
		Action:      action,
		Description: strings.TrimSpace(description),
	}, nil
}

// NewPermissionFromCode creates a Permission from a code string (e.g., "product:create")
func NewPermissionFromCode(code, description string) (*Permission, error) {
	resource, action, ok := strings.Cut(code, ":")
	if !ok {
		return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(resource, action, description)
}

// PermissionCode builds a resource:action code
func PermissionCode(resource, action string) string {
	return resource + ":" + action
}

// SetDescription updates the description
func (p *Permission) SetDescription(description string) {
	p.Description = strings.TrimSpace(description)
	p.UpdatedAt = time.Now()
}

// DefaultPermissionCatalog returns the permission codes every installation ships with.
func DefaultPermissionCatalog() []string {
	crud := []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	resources := []string{
		ResourceOrganization, ResourceUser, ResourceRole, ResourcePlan,
		ResourceProduct, ResourceWarehouse, ResourceClient, ResourceSupplier,
		ResourcePurchase, ResourceSale,
	}

	codes := make([]string, 0, len(resources)*len(crud)+3)
	for _, r := range resources {
		for _, a := range crud {
			codes = append(codes, PermissionCode(r, a))
		}
	}
	codes = append(codes,
		PermissionCode(ResourceStock, ActionRead),
		PermissionCode(ResourceStock, ActionUpdate),
		PermissionCode(ResourceReport, ActionRead),
	)
	return codes
}

// PermissionSet is a lookup set of permission codes
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from codes
func NewPermissionSet(codes ...string) PermissionSet {
	s := make(PermissionSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether code is in the set
func (s PermissionSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// HasAny reports whether at least one code is in the set
func (s PermissionSet) HasAny(codes ...string) bool {
	for _, c := range codes {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// HasAll reports whether every code is in the set. An empty list is satisfied.
func (s PermissionSet) HasAll(codes ...string) bool {
	for _, c := range codes {
		if !s.Has(c) {
			return false
		}
	}
	return true
}

// Codes returns the codes sorted
func (s PermissionSet) Codes() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
