package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/negocio/backoffice/internal/application/trade"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/interfaces/http/middleware"
)

// PurchaseService records and annuls purchases
type PurchaseService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreatePurchaseRequest) (*tradeapp.PurchaseResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.PurchaseResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.PurchaseListFilter) (*shared.Paginated[tradeapp.PurchaseResponse], error)
	Annul(ctx context.Context, tenantID, id uuid.UUID) error
}

// SaleService records and annuls sales
type SaleService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req tradeapp.CreateSaleRequest) (*tradeapp.SaleResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.SaleResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter tradeapp.SaleListFilter) (*shared.Paginated[tradeapp.SaleResponse], error)
	Annul(ctx context.Context, tenantID, id uuid.UUID) error
}

// PurchaseHandler handles purchase endpoints
type PurchaseHandler struct {
	BaseHandler
	purchases PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchases PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchases: purchases}
}

// Create records a purchase and its stock entries in one transaction.
// The purchase is attributed to the calling user.
// @Summary      Create a purchase
// @Description  Record a purchase and its stock entries in one transaction
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseRequest true "Purchase creation request"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserID = middleware.GetUserID(c)
	purchase, err := h.purchases.Create(c.Request.Context(), tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// GetByID godoc
// @Summary      Get purchase by ID
// @Description  Retrieve a purchase with its items
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	purchase, err := h.purchases.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}

// List filters by supplier, warehouse and purchase date range
// @Summary      List purchases
// @Description  Retrieve a paginated list of purchases filtered by supplier, warehouse and date range
// @Tags         purchases
// @Produce      json
// @Param        search query string false "Search term"
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        date_from query string false "Start date" format(date)
// @Param        date_to query string false "End date" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include annulled documents"
// @Success      200 {object} dto.Response{data=[]tradeapp.PurchaseResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseListFilter
	if !bindQuery(c, &filter) {
		return
	}
	if !h.queryIDs(c, map[string]**uuid.UUID{
		"supplier_id":  &filter.SupplierID,
		"warehouse_id": &filter.WarehouseID,
	}) {
		return
	}
	page, err := h.purchases.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Annul soft deletes a purchase and takes its quantities back out of stock
// @Summary      Annul a purchase
// @Description  Soft delete a purchase and take its quantities back out of stock
// @Tags         purchases
// @Produce      json
// @Param        id path string true "Purchase ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchases/{id} [delete]
func (h *PurchaseHandler) Annul(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.purchases.Annul(c.Request.Context(), tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	sales SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// Create records a sale, deducting stock in the same transaction.
// A sale without client_id is a walk-in sale.
// @Summary      Create a sale
// @Description  Record a sale, deducting stock in the same transaction
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateSaleRequest true "Sale creation request"
// @Success      201 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if !bindJSON(c, &req) {
		return
	}
	req.UserID = middleware.GetUserID(c)
	sale, err := h.sales.Create(c.Request.Context(), tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID godoc
// @Summary      Get sale by ID
// @Description  Retrieve a sale with its items
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.SaleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	sale, err := h.sales.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// List godoc
// @Summary      List sales
// @Description  Retrieve a paginated list of sales filtered by client, warehouse, payment method and date range
// @Tags         sales
// @Produce      json
// @Param        search query string false "Search term"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        payment_method query string false "Payment method" Enums(CASH, CARD, TRANSFER, OTHER)
// @Param        date_from query string false "Start date" format(date)
// @Param        date_to query string false "End date" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include annulled documents"
// @Success      200 {object} dto.Response{data=[]tradeapp.SaleResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter tradeapp.SaleListFilter
	if !bindQuery(c, &filter) {
		return
	}
	if !h.queryIDs(c, map[string]**uuid.UUID{
		"client_id":    &filter.ClientID,
		"warehouse_id": &filter.WarehouseID,
	}) {
		return
	}
	page, err := h.sales.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Annul soft deletes a sale and returns its quantities to stock
// @Summary      Annul a sale
// @Description  Soft delete a sale and return its quantities to stock
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/{id} [delete]
func (h *SaleHandler) Annul(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sales.Annul(c.Request.Context(), tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
