package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSupplier(t *testing.T, tenantID uuid.UUID) *partner.Supplier {
	t.Helper()
	supplier, err := partner.NewSupplier(tenantID, "20512345678", "Molinos del Norte SAC")
	require.NoError(t, err)
	supplier.ClearDomainEvents()
	return supplier
}

func TestSupplierService_Create(t *testing.T) {
	repo := new(MockSupplierRepository)
	events := &recordingPublisher{}
	svc := NewSupplierService(repo, events, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID := uuid.New()

	repo.On("ExistsByTaxID", ctx, tenantID, "20512345678", uuid.Nil).Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

	resp, err := svc.Create(ctx, tenantID, CreateSupplierRequest{
		TaxID:       " 20512345678 ",
		Name:        "Molinos del Norte SAC",
		ContactName: "Luis Paredes",
		Email:       "VENTAS@molinos.pe",
		Phone:       "044-201100",
	})
	require.NoError(t, err)
	assert.Equal(t, "20512345678", resp.TaxID)
	assert.Equal(t, "Luis Paredes", resp.ContactName)
	assert.Equal(t, "ventas@molinos.pe", resp.Email)
	assert.True(t, resp.IsActive)
	assert.Equal(t, []string{partner.EventTypeSupplierCreated}, events.types())
}

func TestSupplierService_Create_DuplicateTaxID(t *testing.T) {
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID := uuid.New()
	repo.On("ExistsByTaxID", ctx, tenantID, "20512345678", uuid.Nil).Return(true, nil)

	_, err := svc.Create(ctx, tenantID, CreateSupplierRequest{TaxID: "20512345678", Name: "Otro"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSupplierService_Create_InvalidEmail(t *testing.T) {
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID := uuid.New()
	repo.On("ExistsByTaxID", ctx, tenantID, "20512345678", uuid.Nil).Return(false, nil)

	_, err := svc.Create(ctx, tenantID, CreateSupplierRequest{TaxID: "20512345678", Name: "Molinos", Email: "no-es-correo"})
	assert.Equal(t, "INVALID_EMAIL", shared.CodeOf(err))
}

func TestSupplierService_Update_Partial(t *testing.T) {
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	supplier := newTestSupplier(t, uuid.New())
	require.NoError(t, supplier.SetContact("Luis Paredes", "ventas@molinos.pe", "044-201100", "Av. España 1200"))
	repo.On("FindByID", ctx, supplier.TenantID, supplier.ID).Return(supplier, nil)
	repo.On("Save", ctx, supplier).Return(nil)

	phone := "044-209900"
	resp, err := svc.Update(ctx, supplier.TenantID, supplier.ID, UpdateSupplierRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "044-209900", resp.Phone)
	assert.Equal(t, "Luis Paredes", resp.ContactName)
	assert.Equal(t, "Av. España 1200", resp.Address)
	repo.AssertNotCalled(t, "ExistsByTaxID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSupplierService_Update_TaxIDTaken(t *testing.T) {
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	supplier := newTestSupplier(t, uuid.New())
	repo.On("FindByID", ctx, supplier.TenantID, supplier.ID).Return(supplier, nil)
	repo.On("ExistsByTaxID", ctx, supplier.TenantID, "20600011122", supplier.ID).Return(true, nil)

	taxID := "20600011122"
	_, err := svc.Update(ctx, supplier.TenantID, supplier.ID, UpdateSupplierRequest{TaxID: &taxID})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSupplierService_Deactivate_SaveError(t *testing.T) {
	repo := new(MockSupplierRepository)
	events := &recordingPublisher{}
	svc := NewSupplierService(repo, events, zaptest.NewLogger(t))
	ctx := context.Background()
	supplier := newTestSupplier(t, uuid.New())
	repo.On("FindByID", ctx, supplier.TenantID, supplier.ID).Return(supplier, nil)
	repo.On("Save", ctx, supplier).Return(errors.New("connection reset"))

	err := svc.Deactivate(ctx, supplier.TenantID, supplier.ID)
	assert.EqualError(t, err, "connection reset")
	assert.Empty(t, events.events)
}

func TestSupplierService_List(t *testing.T) {
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID := uuid.New()
	supplier := newTestSupplier(t, tenantID)

	filter := shared.Filter{}.Normalize()
	repo.On("FindAll", ctx, tenantID, filter).Return([]partner.Supplier{*supplier}, int64(1), nil)

	page, err := svc.List(ctx, tenantID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Molinos del Norte SAC", page.Items[0].Name)
	assert.Equal(t, 1, page.TotalPages)
}
