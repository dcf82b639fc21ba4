package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// OrganizationService manages organizations. scope is uuid.Nil for a
// superadmin acting across organizations.
type OrganizationService interface {
	Create(ctx context.Context, req identityapp.CreateOrganizationRequest) (*identityapp.OrganizationResponse, error)
	GetByID(ctx context.Context, scope, id uuid.UUID) (*identityapp.OrganizationResponse, error)
	List(ctx context.Context, scope uuid.UUID, filter shared.Filter) (*shared.Paginated[identityapp.OrganizationResponse], error)
	Update(ctx context.Context, scope, id uuid.UUID, req identityapp.UpdateOrganizationRequest) (*identityapp.OrganizationResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*identityapp.OrganizationResponse, error)
}

// SubscriptionService assigns plans to organizations
type SubscriptionService interface {
	AssignPlan(ctx context.Context, orgID uuid.UUID, req identityapp.AssignPlanRequest) (*identityapp.OrganizationPlanResponse, error)
	GetActive(ctx context.Context, orgID uuid.UUID) (*identityapp.OrganizationPlanResponse, error)
	History(ctx context.Context, orgID uuid.UUID) ([]identityapp.OrganizationPlanResponse, error)
}

// OrganizationHandler handles organization and organization-plan endpoints
type OrganizationHandler struct {
	BaseHandler
	organizations OrganizationService
	subscriptions SubscriptionService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(organizations OrganizationService, subscriptions SubscriptionService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations, subscriptions: subscriptions}
}

// Create godoc
// @Summary      Create a organization
// @Description  Create a new organization
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateOrganizationRequest true "Organization creation request"
// @Success      201 {object} dto.Response{data=identityapp.OrganizationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req identityapp.CreateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	org, err := h.organizations.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, org)
}

// GetByID godoc
// @Summary      Get organization by ID
// @Description  Retrieve a organization by its ID
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.OrganizationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id} [get]
func (h *OrganizationHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	org, err := h.organizations.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// List godoc
// @Summary      List organizations
// @Description  Retrieve a paginated list of organizations
// @Tags         organizations
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include inactive records"
// @Success      200 {object} dto.Response{data=[]identityapp.OrganizationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := h.organizations.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Update godoc
// @Summary      Update a organization
// @Description  Update an existing organization
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Param        request body identityapp.UpdateOrganizationRequest true "Organization update request"
// @Success      200 {object} dto.Response{data=identityapp.OrganizationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id} [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	org, err := h.organizations.Update(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// Deactivate soft deletes an organization
// @Summary      Deactivate a organization
// @Description  Soft delete a organization
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id} [delete]
func (h *OrganizationHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.organizations.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @Summary      Activate a organization
// @Description  Reactivate a deactivated organization
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.OrganizationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/activate [post]
func (h *OrganizationHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	org, err := h.organizations.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, org)
}

// AssignPlan replaces the organization's active plan
// @Summary      Assign a plan
// @Description  Replace the organization's active plan
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Param        request body identityapp.AssignPlanRequest true "Plan assignment"
// @Success      201 {object} dto.Response{data=identityapp.OrganizationPlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/plan [post]
func (h *OrganizationHandler) AssignPlan(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.AssignPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.subscriptions.AssignPlan(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// ActivePlan godoc
// @Summary      Get active plan
// @Description  Return the organization's active plan
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.OrganizationPlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/plan [get]
func (h *OrganizationHandler) ActivePlan(c *gin.Context) {
	id, ok := h.scopedOrganization(c)
	if !ok {
		return
	}
	plan, err := h.subscriptions.GetActive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// PlanHistory godoc
// @Summary      List plan history
// @Description  List every plan the organization has held, newest first
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]identityapp.OrganizationPlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /organizations/{id}/plans [get]
func (h *OrganizationHandler) PlanHistory(c *gin.Context) {
	id, ok := h.scopedOrganization(c)
	if !ok {
		return
	}
	history, err := h.subscriptions.History(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// scopedOrganization reads the organization id from the path and hides
// other organizations from a scoped caller.
func (h *OrganizationHandler) scopedOrganization(c *gin.Context) (uuid.UUID, bool) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	if scope := tenantID(c); scope != uuid.Nil && scope != id {
		h.HandleError(c, shared.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
