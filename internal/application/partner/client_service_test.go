package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, tenantID uuid.UUID) *partner.Client {
	t.Helper()
	client, err := partner.NewClient(tenantID, "María", "Quispe Huamán")
	require.NoError(t, err)
	client.ClearDomainEvents()
	return client
}

func TestClientService_Create_JoinsName(t *testing.T) {
	repo := new(MockClientRepository)
	events := &recordingPublisher{}
	svc := NewClientService(repo, events, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID := uuid.New()

	repo.On("ExistsByDocument", ctx, tenantID, "45781236", mock.AnythingOfType("uuid.UUID")).Return(false, nil)
	var saved *partner.Client
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Client")).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*partner.Client)
	}).Return(nil)

	resp, err := svc.Create(ctx, tenantID, CreateClientRequest{
		FirstName:      "  María ",
		LastName:       "Quispe   Huamán",
		DocumentType:   "DNI",
		DocumentNumber: "45781236",
		Email:          "Maria.Quispe@Example.com",
	})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, "María Quispe Huamán", saved.Name)
	assert.Equal(t, "María", resp.FirstName)
	assert.Equal(t, "Quispe Huamán", resp.LastName)
	assert.Equal(t, "maria.quispe@example.com", resp.Email)
	assert.Equal(t, "DNI", resp.DocumentType)
	assert.Equal(t, []string{partner.EventTypeClientCreated}, events.types())
}

func TestClientService_Create_DefaultsDocumentType(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	repo.On("Save", ctx, mock.Anything).Return(nil)

	resp, err := svc.Create(ctx, uuid.New(), CreateClientRequest{FirstName: "Cliente"})
	require.NoError(t, err)
	assert.Equal(t, string(partner.DocumentTypeOther), resp.DocumentType)
	assert.Equal(t, "Cliente", resp.FirstName)
	assert.Empty(t, resp.LastName)
	repo.AssertNotCalled(t, "ExistsByDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClientService_Create_DuplicateDocument(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID := uuid.New()
	repo.On("ExistsByDocument", ctx, tenantID, "20100066603", mock.Anything).Return(true, nil)

	_, err := svc.Create(ctx, tenantID, CreateClientRequest{
		FirstName:      "Distribuidora",
		LastName:       "Lima",
		DocumentType:   "RUC",
		DocumentNumber: "20100066603",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestClientService_Create_InvalidDocument(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, zaptest.NewLogger(t))

	_, err := svc.Create(context.Background(), uuid.New(), CreateClientRequest{
		FirstName:      "Juan",
		DocumentType:   "DNI",
		DocumentNumber: "1234",
	})
	assert.Equal(t, "INVALID_DOCUMENT_NUMBER", shared.CodeOf(err))
}

func TestClientService_Create_RequiresOrganization(t *testing.T) {
	svc := NewClientService(new(MockClientRepository), nil, zaptest.NewLogger(t))
	_, err := svc.Create(context.Background(), uuid.Nil, CreateClientRequest{FirstName: "Juan"})
	assert.ErrorIs(t, err, shared.ErrTenantRequired)
}

func TestClientService_Update_LastNameOnly(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	client := newTestClient(t, uuid.New())
	repo.On("FindByID", ctx, client.TenantID, client.ID).Return(client, nil)
	repo.On("Save", ctx, client).Return(nil)

	last := "Rojas"
	resp, err := svc.Update(ctx, client.TenantID, client.ID, UpdateClientRequest{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "María Rojas", client.Name)
	assert.Equal(t, "María", resp.FirstName)
	assert.Equal(t, "Rojas", resp.LastName)
}

func TestClientService_Update_DocumentExcludesSelf(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	client := newTestClient(t, uuid.New())
	repo.On("FindByID", ctx, client.TenantID, client.ID).Return(client, nil)
	repo.On("ExistsByDocument", ctx, client.TenantID, "X-991", client.ID).Return(false, nil)
	repo.On("Save", ctx, client).Return(nil)

	number := "x-991"
	resp, err := svc.Update(ctx, client.TenantID, client.ID, UpdateClientRequest{DocumentNumber: &number})
	require.NoError(t, err)
	assert.Equal(t, "X-991", resp.DocumentNumber)
	assert.Equal(t, "OTHER", resp.DocumentType)
	repo.AssertExpectations(t)
}

func TestClientService_GetByID_NotFound(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()
	repo.On("FindByID", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestClientService_List_SplitsNames(t *testing.T) {
	repo := new(MockClientRepository)
	svc := NewClientService(repo, nil, zaptest.NewLogger(t))
	ctx := context.Background()
	tenantID := uuid.New()
	client := newTestClient(t, tenantID)

	filter := shared.Filter{Search: "quispe"}.Normalize()
	repo.On("FindAll", ctx, tenantID, filter).Return([]partner.Client{*client}, int64(1), nil)

	page, err := svc.List(ctx, tenantID, shared.Filter{Search: "quispe"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Quispe Huamán", page.Items[0].LastName)
}

func TestClientService_DeactivateActivate(t *testing.T) {
	repo := new(MockClientRepository)
	events := &recordingPublisher{}
	svc := NewClientService(repo, events, zaptest.NewLogger(t))
	ctx := context.Background()
	client := newTestClient(t, uuid.New())
	repo.On("FindByID", ctx, client.TenantID, client.ID).Return(client, nil)
	repo.On("Save", ctx, client).Return(nil)

	require.NoError(t, svc.Deactivate(ctx, client.TenantID, client.ID))
	assert.False(t, client.IsActive)
	assert.Equal(t, []string{partner.EventTypeClientDeactivated}, events.types())

	resp, err := svc.Activate(ctx, client.TenantID, client.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	_, err = svc.Activate(ctx, client.TenantID, client.ID)
	assert.ErrorIs(t, err, shared.ErrAlreadyActive)
}
