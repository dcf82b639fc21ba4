package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/negocio/backoffice/internal/application/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// WarehouseService manages warehouses
type WarehouseService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req inventoryapp.CreateWarehouseRequest) (*inventoryapp.WarehouseResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*inventoryapp.WarehouseResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventoryapp.WarehouseResponse], error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req inventoryapp.UpdateWarehouseRequest) (*inventoryapp.WarehouseResponse, error)
	Deactivate(ctx context.Context, tenantID, id uuid.UUID) error
	Activate(ctx context.Context, tenantID, id uuid.UUID) (*inventoryapp.WarehouseResponse, error)
}

// StockService reads and corrects warehouse stock
type StockService interface {
	ListStock(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventoryapp.StockLineResponse], error)
	ListLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventoryapp.StockLineResponse], error)
	SetStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, req inventoryapp.SetStockRequest) (*inventoryapp.StockResponse, error)
	AdjustStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.StockResponse, error)
}

// WarehouseHandler handles warehouse and stock endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouses WarehouseService
	stock      StockService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouses WarehouseService, stock StockService) *WarehouseHandler {
	return &WarehouseHandler{warehouses: warehouses, stock: stock}
}

// Create godoc
// @Summary      Create a warehouse
// @Description  Create a new warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.CreateWarehouseRequest true "Warehouse creation request"
// @Success      201 {object} dto.Response{data=inventoryapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateWarehouseRequest
	if !bindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouses.Create(c.Request.Context(), tenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// GetByID godoc
// @Summary      Get warehouse by ID
// @Description  Retrieve a warehouse by its ID
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.warehouses.GetByID(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List godoc
// @Summary      List warehouses
// @Description  Retrieve a paginated list of warehouses
// @Tags         warehouses
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include inactive records"
// @Success      200 {object} dto.Response{data=[]inventoryapp.WarehouseResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := h.warehouses.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Update godoc
// @Summary      Update a warehouse
// @Description  Update an existing warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body inventoryapp.UpdateWarehouseRequest true "Warehouse update request"
// @Success      200 {object} dto.Response{data=inventoryapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req inventoryapp.UpdateWarehouseRequest
	if !bindJSON(c, &req) {
		return
	}
	warehouse, err := h.warehouses.Update(c.Request.Context(), tenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Deactivate godoc
// @Summary      Deactivate a warehouse
// @Description  Soft delete a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id} [delete]
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.warehouses.Deactivate(c.Request.Context(), tenantID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @Summary      Activate a warehouse
// @Description  Reactivate a deactivated warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.WarehouseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id}/activate [post]
func (h *WarehouseHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	warehouse, err := h.warehouses.Activate(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// ListStock lists the stock rows of one warehouse
// @Summary      List warehouse stock
// @Description  List the stock rows of one warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include inactive records"
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockLineResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id}/stock [get]
func (h *WarehouseHandler) ListStock(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := h.stock.ListStock(c.Request.Context(), tenantID(c), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// ListLowStock lists stock rows at or below the product minimum across warehouses
// @Summary      List low stock
// @Description  List stock rows at or below the product minimum across warehouses
// @Tags         warehouses
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        include_inactive query boolean false "Include inactive records"
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockLineResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/stock/low [get]
func (h *WarehouseHandler) ListLowStock(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	page, err := h.stock.ListLowStock(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// SetStock sets the absolute quantity of a product in a warehouse
// @Summary      Set stock
// @Description  Set the absolute quantity of a product in a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body inventoryapp.SetStockRequest true "New quantity"
// @Success      200 {object} dto.Response{data=inventoryapp.StockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id}/stock/{product_id} [put]
func (h *WarehouseHandler) SetStock(c *gin.Context) {
	warehouseID, productID, ok := h.stockIDs(c)
	if !ok {
		return
	}
	var req inventoryapp.SetStockRequest
	if !bindJSON(c, &req) {
		return
	}
	stock, err := h.stock.SetStock(c.Request.Context(), tenantID(c), warehouseID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// AdjustStock applies a signed change to the quantity
// @Summary      Adjust stock
// @Description  Apply a signed change to the quantity of a product in a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body inventoryapp.AdjustStockRequest true "Quantity change"
// @Success      200 {object} dto.Response{data=inventoryapp.StockResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /warehouses/{id}/stock/{product_id}/adjust [post]
func (h *WarehouseHandler) AdjustStock(c *gin.Context) {
	warehouseID, productID, ok := h.stockIDs(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}
	stock, err := h.stock.AdjustStock(c.Request.Context(), tenantID(c), warehouseID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

func (h *WarehouseHandler) stockIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	warehouseID, ok := h.pathID(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	productID, ok := h.pathID(c, "product_id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return warehouseID, productID, true
}
