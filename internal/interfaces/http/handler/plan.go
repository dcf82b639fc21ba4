package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/negocio/backoffice/internal/application/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// PlanService manages the subscription plan catalog
type PlanService interface {
	Create(ctx context.Context, req identityapp.CreatePlanRequest) (*identityapp.PlanResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*identityapp.PlanResponse, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[identityapp.PlanResponse], error)
	Update(ctx context.Context, id uuid.UUID, req identityapp.UpdatePlanRequest) (*identityapp.PlanResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*identityapp.PlanResponse, error)
}

// PlanHandler handles plan endpoints. Writes are restricted to superadmins by the router.
type PlanHandler struct {
	BaseHandler
	plans PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(plans PlanService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// Create godoc
// @Summary      Create a plan
// @Description  Create a new plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreatePlanRequest true "Plan creation request"
// @Success      201 {object} dto.Response{data=identityapp.PlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var req identityapp.CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.plans.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// GetByID godoc
// @Summary      Get plan by ID
// @Description  Retrieve a plan by its ID
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.PlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plans/{id} [get]
func (h *PlanHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// List godoc
// @Summary      List plans
// @Description  Retrieve a paginated list of plans
// @Tags         plans
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include inactive records"
// @Success      200 {object} dto.Response{data=[]identityapp.PlanResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := h.plans.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Update godoc
// @Summary      Update a plan
// @Description  Update an existing plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body identityapp.UpdatePlanRequest true "Plan update request"
// @Success      200 {object} dto.Response{data=identityapp.PlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.plans.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// Deactivate godoc
// @Summary      Deactivate a plan
// @Description  Soft delete a plan
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plans/{id} [delete]
func (h *PlanHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.plans.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @Summary      Activate a plan
// @Description  Reactivate a deactivated plan
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.PlanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /plans/{id}/activate [post]
func (h *PlanHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}
