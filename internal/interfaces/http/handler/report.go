package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/negocio/backoffice/internal/application/report"
)

// DashboardService builds the organization overview
type DashboardService interface {
	Dashboard(ctx context.Context, tenantID uuid.UUID) (*reportapp.DashboardResponse, error)
}

// ReportHandler handles report endpoints
type ReportHandler struct {
	BaseHandler
	dashboard DashboardService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboard DashboardService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard}
}

// Dashboard godoc
// @Summary      Dashboard
// @Description  Return the organization overview with counts, totals and low stock
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	resp, err := h.dashboard.Dashboard(c.Request.Context(), tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
