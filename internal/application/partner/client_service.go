package partner

import (
	"context"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo partner.ClientRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo partner.ClientRepository, events shared.EventPublisher, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		events:     events,
		logger:     logger,
	}
}

// Create creates a new client from separate first and last names
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	client, err := partner.NewClient(tenantID, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	if err := client.SetDocument(partner.DocumentType(req.DocumentType), req.DocumentNumber); err != nil {
		return nil, err
	}
	if err := s.ensureDocumentFree(ctx, client); err != nil {
		return nil, err
	}
	if err := client.SetContact(req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, client)

	s.logger.Info("client created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("client_id", client.ID.String()))

	resp := ToClientResponse(client)
	return &resp, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// List returns one page of clients. Search matches name, document number and email.
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ClientResponse], error) {
	filter = filter.Normalize()
	clients, total, err := s.clientRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ClientResponse, len(clients))
	for i := range clients {
		items[i] = ToClientResponse(&clients[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the given fields of a client
func (s *ClientService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		first, last := partner.SplitName(client.Name)
		if req.FirstName != nil {
			first = *req.FirstName
		}
		if req.LastName != nil {
			last = *req.LastName
		}
		if err := client.Rename(first, last); err != nil {
			return nil, err
		}
	}

	if req.DocumentType != nil || req.DocumentNumber != nil {
		docType, number := client.DocumentType, client.DocumentNumber
		if req.DocumentType != nil {
			docType = partner.DocumentType(*req.DocumentType)
		}
		if req.DocumentNumber != nil {
			number = *req.DocumentNumber
		}
		if err := client.SetDocument(docType, number); err != nil {
			return nil, err
		}
		if err := s.ensureDocumentFree(ctx, client); err != nil {
			return nil, err
		}
	}

	if req.Email != nil || req.Phone != nil || req.Address != nil {
		email, phone, address := client.Email, client.Phone, client.Address
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Address != nil {
			address = *req.Address
		}
		if err := client.SetContact(email, phone, address); err != nil {
			return nil, err
		}
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, client)

	resp := ToClientResponse(client)
	return &resp, nil
}

// Deactivate soft-deletes a client
func (s *ClientService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := client.Deactivate(); err != nil {
		return err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, client)

	s.logger.Info("client deactivated", zap.String("client_id", id.String()))
	return nil
}

// Activate restores a soft-deleted client
func (s *ClientService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := client.Activate(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	resp := ToClientResponse(client)
	return &resp, nil
}

// ensureDocumentFree rejects a document number already used by another client
func (s *ClientService) ensureDocumentFree(ctx context.Context, client *partner.Client) error {
	if client.DocumentNumber == "" {
		return nil
	}
	exists, err := s.clientRepo.ExistsByDocument(ctx, client.TenantID, client.DocumentNumber, client.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Client with this document number already exists")
	}
	return nil
}
