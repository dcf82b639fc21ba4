package identity

import (
	"context"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService manages roles and their permission sets
type RoleService struct {
	txScope      TransactionScope
	roleRepo     identity.RoleRepository
	permRepo     identity.PermissionRepository
	rolePermRepo identity.RolePermissionRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(
	txScope TransactionScope,
	roleRepo identity.RoleRepository,
	permRepo identity.PermissionRepository,
	rolePermRepo identity.RolePermissionRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		txScope:      txScope,
		roleRepo:     roleRepo,
		permRepo:     permRepo,
		rolePermRepo: rolePermRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a role in the caller's organization, optionally granting
// an initial permission set.
func (s *RoleService) Create(ctx context.Context, tenantID uuid.UUID, req CreateRoleRequest) (*RoleResponse, error) {
	role, err := identity.NewRole(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.roleRepo.ExistsByCode(ctx, tenantID, role.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A role with this code already exists")
	}
	if req.Description != "" {
		if err := role.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	desired, err := s.resolvePermissions(ctx, req.PermissionIDs, nil)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.RoleRepo().Save(ctx, role); err != nil {
			return err
		}
		if len(desired) == 0 {
			return nil
		}
		rows := identity.DiffPermissions(role, nil, desired).Changed()
		return repos.RolePermissionRepo().SaveAll(ctx, rows)
	})
	if err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, role)

	s.logger.Info("role created",
		zap.String("organization_id", tenantID.String()),
		zap.String("role_code", role.Code),
		zap.Int("permissions", len(desired)))

	resp := ToRoleResponse(role)
	return &resp, nil
}

// GetByID returns a role
func (s *RoleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRoleResponse(role)
	return &resp, nil
}

// List returns roles matching filter
func (s *RoleService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[RoleResponse], error) {
	filter = filter.Normalize()
	roles, total, err := s.roleRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RoleResponse, len(roles))
	for i := range roles {
		items[i] = ToRoleResponse(&roles[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the name and description of a role
func (s *RoleService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := role.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, role)

	resp := ToRoleResponse(role)
	return &resp, nil
}

// Deactivate soft-deletes a role. Users holding it fall back to their next
// most recent role.
func (s *RoleService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := role.Deactivate(); err != nil {
		return err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, role)

	s.logger.Info("role deactivated", zap.String("role_id", id.String()), zap.String("role_code", role.Code))
	return nil
}

// Activate restores a soft-deleted role
func (s *RoleService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := role.Activate(); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, role)

	resp := ToRoleResponse(role)
	return &resp, nil
}

// SetPermissions replaces the permission set of a role: new permissions are
// granted, previously revoked ones reactivated and the rest revoked.
func (s *RoleService) SetPermissions(ctx context.Context, tenantID, id uuid.UUID, req SetPermissionsRequest) ([]PermissionResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	desired, err := s.resolvePermissions(ctx, req.PermissionIDs, req.PermissionCodes)
	if err != nil {
		return nil, err
	}

	var changes identity.PermissionChanges
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.RolePermissionRepo().FindByRole(ctx, role.TenantID, role.ID)
		if err != nil {
			return err
		}
		changes = identity.DiffPermissions(role, existing, desired)
		if changes.IsEmpty() {
			return nil
		}
		if err := repos.RolePermissionRepo().SaveAll(ctx, changes.Changed()); err != nil {
			return err
		}
		role.MarkPermissionsChanged()
		return repos.RoleRepo().Save(ctx, role)
	})
	if err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, role)

	if !changes.IsEmpty() {
		s.logger.Info("role permissions changed",
			zap.String("role_id", role.ID.String()),
			zap.Int("granted", len(changes.Create)+len(changes.Reactivate)),
			zap.Int("revoked", len(changes.Revoke)))
	}
	return s.GetPermissions(ctx, tenantID, id)
}

// GetPermissions returns the active permissions granted to a role
func (s *RoleService) GetPermissions(ctx context.Context, tenantID, id uuid.UUID) ([]PermissionResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	perms, err := s.rolePermRepo.FindActivePermissions(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	out := make([]PermissionResponse, len(perms))
	for i := range perms {
		out[i] = ToPermissionResponse(&perms[i])
	}
	return out, nil
}

// resolvePermissions validates the requested permissions and returns their
// ids without duplicates.
func (s *RoleService) resolvePermissions(ctx context.Context, ids []uuid.UUID, codes []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(ids)+len(codes))
	out := make([]uuid.UUID, 0, len(ids)+len(codes))
	add := func(perms []identity.Permission) error {
		for _, p := range perms {
			if !p.IsActive {
				return shared.NewDomainError("INVALID_PERMISSION", "Permission "+p.Code+" is inactive")
			}
			if !seen[p.ID] {
				seen[p.ID] = true
				out = append(out, p.ID)
			}
		}
		return nil
	}

	if len(ids) > 0 {
		perms, err := s.permRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		if len(perms) != len(uniqueIDs(ids)) {
			return nil, shared.NewDomainError("INVALID_PERMISSION", "One or more permissions do not exist")
		}
		if err := add(perms); err != nil {
			return nil, err
		}
	}
	if len(codes) > 0 {
		perms, err := s.permRepo.FindByCodes(ctx, codes)
		if err != nil {
			return nil, err
		}
		if len(perms) != len(identity.NewPermissionSet(codes...)) {
			return nil, shared.NewDomainError("INVALID_PERMISSION", "One or more permissions do not exist")
		}
		if err := add(perms); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// PermissionService exposes the global permission catalog
type PermissionService struct {
	permRepo identity.PermissionRepository
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(permRepo identity.PermissionRepository) *PermissionService {
	return &PermissionService{permRepo: permRepo}
}

// List returns catalog permissions; search covers code and description
func (s *PermissionService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PermissionResponse], error) {
	filter = filter.Normalize()
	perms, total, err := s.permRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PermissionResponse, len(perms))
	for i := range perms {
		items[i] = ToPermissionResponse(&perms[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}
