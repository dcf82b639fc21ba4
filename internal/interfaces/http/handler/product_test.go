package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/negocio/backoffice/internal/application/catalog"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductService struct {
	mock.Mock
}

func (m *mockProductService) Create(ctx context.Context, tenantID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalogapp.ProductResponse]), args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProductService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *mockProductService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockProductService) GetStock(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.ProductStockResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductStockResponse), args.Error(1)
}

func setupProductRouter(svc ProductService, orgID uuid.UUID) http.Handler {
	h := NewProductHandler(svc)
	r := newScopedRouter(&identity.Access{UserID: uuid.New(), OrganizationID: orgID}, orgID)
	r.POST("/products", h.Create)
	r.GET("/products", h.List)
	r.GET("/products/:id", h.GetByID)
	r.PUT("/products/:id", h.Update)
	r.DELETE("/products/:id", h.Deactivate)
	r.GET("/products/:id/stock", h.Stock)
	return r
}

func TestProductHandler_Create(t *testing.T) {
	orgID := uuid.New()
	svc := new(mockProductService)
	r := setupProductRouter(svc, orgID)

	created := &catalogapp.ProductResponse{ID: uuid.New(), TenantID: orgID, Code: "P-001", Name: "Arroz"}
	svc.On("Create", mock.Anything, orgID, mock.MatchedBy(func(req catalogapp.CreateProductRequest) bool {
		return req.Code == "P-001" && len(req.Stock) == 1 && req.Stock[0].Quantity.Equal(decimal.NewFromInt(10))
	})).Return(created, nil)

	rec := doJSON(r, "POST", "/products", map[string]any{
		"code":       "P-001",
		"name":       "Arroz",
		"sale_price": "4.50",
		"stock":      []map[string]any{{"warehouse_id": uuid.NewString(), "quantity": "10"}},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got catalogapp.ProductResponse
	resp := decodeResponse(t, rec, &got)
	assert.True(t, resp.Success)
	assert.Equal(t, created.ID, got.ID)
	svc.AssertExpectations(t)
}

func TestProductHandler_Create_ValidationError(t *testing.T) {
	svc := new(mockProductService)
	r := setupProductRouter(svc, uuid.New())

	rec := doJSON(r, "POST", "/products", map[string]any{"name": "Sin codigo"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "code", resp.Error.Details[0].Field)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductHandler_List(t *testing.T) {
	orgID := uuid.New()
	svc := new(mockProductService)
	r := setupProductRouter(svc, orgID)

	page := shared.NewPaginated([]catalogapp.ProductResponse{{Code: "P-001"}, {Code: "P-002"}}, 12, 2, 5)
	svc.On("List", mock.Anything, orgID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 5 && f.Search == "arr" && f.Filters[catalog.FilterCategory] == "granos"
	})).Return(&page, nil)

	rec := doJSON(r, "GET", "/products?page=2&page_size=5&search=arr&category=granos", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var items []catalogapp.ProductResponse
	resp := decodeResponse(t, rec, &items)
	assert.Len(t, items, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	svc.AssertExpectations(t)
}

func TestProductHandler_List_InvalidPageSize(t *testing.T) {
	r := setupProductRouter(new(mockProductService), uuid.New())

	rec := doJSON(r, "GET", "/products?page_size=500", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_GetByID(t *testing.T) {
	orgID := uuid.New()
	svc := new(mockProductService)
	r := setupProductRouter(svc, orgID)

	t.Run("invalid id", func(t *testing.T) {
		rec := doJSON(r, "GET", "/products/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("other organization", func(t *testing.T) {
		id := uuid.New()
		svc.On("GetByID", mock.Anything, orgID, id).Return(nil, shared.ErrNotFound).Once()

		rec := doJSON(r, "GET", "/products/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProductHandler_DeactivateAndStock(t *testing.T) {
	orgID := uuid.New()
	svc := new(mockProductService)
	r := setupProductRouter(svc, orgID)
	id := uuid.New()

	svc.On("Deactivate", mock.Anything, orgID, id).Return(nil).Once()
	assert.Equal(t, http.StatusNoContent, doJSON(r, "DELETE", "/products/"+id.String(), nil).Code)

	svc.On("Deactivate", mock.Anything, orgID, id).Return(shared.ErrAlreadyInactive).Once()
	assert.Equal(t, http.StatusConflict, doJSON(r, "DELETE", "/products/"+id.String(), nil).Code)

	svc.On("GetStock", mock.Anything, orgID, id).Return(&catalogapp.ProductStockResponse{ProductID: id, Total: decimal.NewFromInt(7)}, nil)
	rec := doJSON(r, "GET", "/products/"+id.String()+"/stock", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":"7"`)
}
