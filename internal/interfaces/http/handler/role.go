package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// RoleService manages organization roles and their permissions
type RoleService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req identityapp.CreateRoleRequest) (*identityapp.RoleResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*identityapp.RoleResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[identityapp.RoleResponse], error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req identityapp.UpdateRoleRequest) (*identityapp.RoleResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	Activate(ctx context.Context, tenantID, id uuid.UUID) (*identityapp.RoleResponse, error)
	SetPermissions(ctx context.Context, tenantID, id uuid.UUID, req identityapp.SetPermissionsRequest) ([]identityapp.PermissionResponse, error)
	GetPermissions(ctx context.Context, tenantID, id uuid.UUID) ([]identityapp.PermissionResponse, error)
}

// PermissionService lists the permission catalog
type PermissionService interface {
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[identityapp.PermissionResponse], error)
}

// RoleHandler handles role and permission endpoints
type RoleHandler struct {
	BaseHandler
	roles       RoleService
	permissions PermissionService
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roles RoleService, permissions PermissionService) *RoleHandler {
	return &RoleHandler{roles: roles, permissions: permissions}
}

// Create godoc
// @Summary      Create a role
// @Description  Create a new role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateRoleRequest true "Role creation request"
// @Success      201 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req identityapp.CreateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.roles.Create(c.Request.Context(), tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, role)
}

// GetByID godoc
// @Summary      Get role by ID
// @Description  Retrieve a role by its ID
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id} [get]
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	role, err := h.roles.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// List godoc
// @Summary      List roles
// @Description  Retrieve a paginated list of roles
// @Tags         roles
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include inactive records"
// @Success      200 {object} dto.Response{data=[]identityapp.RoleResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := h.roles.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Update godoc
// @Summary      Update a role
// @Description  Update an existing role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body identityapp.UpdateRoleRequest true "Role update request"
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateRoleRequest
	if !bindJSON(c, &req) {
		return
	}
	role, err := h.roles.Update(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// Deactivate godoc
// @Summary      Deactivate a role
// @Description  Soft delete a role
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id} [delete]
func (h *RoleHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roles.Deactivate(c.Request.Context(), tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @Summary      Activate a role
// @Description  Reactivate a deactivated role
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id}/activate [post]
func (h *RoleHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	role, err := h.roles.Activate(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// SetPermissions replaces the permission set of a role
// @Summary      Set role permissions
// @Description  Replace the permission set of a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body identityapp.SetPermissionsRequest true "Permission IDs"
// @Success      200 {object} dto.Response{data=[]identityapp.PermissionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id}/permissions [put]
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.SetPermissionsRequest
	if !bindJSON(c, &req) {
		return
	}
	perms, err := h.roles.SetPermissions(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, perms)
}

// GetPermissions godoc
// @Summary      Get role permissions
// @Description  List the permissions granted to a role
// @Tags         roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]identityapp.PermissionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /roles/{id}/permissions [get]
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	perms, err := h.roles.GetPermissions(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, perms)
}

// ListPermissions lists the global permission catalog
// @Summary      List permissions
// @Description  Retrieve the global permission catalog
// @Tags         permissions
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include inactive records"
// @Success      200 {object} dto.Response{data=[]identityapp.PermissionResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := h.permissions.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}
