package identity

import (
	"context"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// OrganizationService manages organizations. The scope argument of each
// method is the caller's organization; uuid.Nil grants access to all of
// them (superadmin).
type OrganizationService struct {
	orgRepo identity.OrganizationRepository
	events  shared.EventPublisher
	logger  *zap.Logger
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(
	orgRepo identity.OrganizationRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
		events:  events,
		logger:  logger,
	}
}

// Create creates a new organization
func (s *OrganizationService) Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error) {
	exists, err := s.orgRepo.ExistsByTaxID(ctx, req.TaxID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An organization with this tax id already exists")
	}

	org, err := identity.NewOrganization(req.Name, req.TaxID)
	if err != nil {
		return nil, err
	}
	if err := org.SetContact(req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, org)

	s.logger.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("tax_id", org.TaxID))

	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// GetByID returns an organization visible to scope
func (s *OrganizationService) GetByID(ctx context.Context, scope, id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// List returns every organization for a superadmin, otherwise only the
// caller's own organization.
func (s *OrganizationService) List(ctx context.Context, scope uuid.UUID, filter shared.Filter) (*shared.Paginated[OrganizationResponse], error) {
	filter = filter.Normalize()

	var (
		orgs  []identity.Organization
		total int64
	)
	if scope == uuid.Nil {
		var err error
		orgs, total, err = s.orgRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
	} else {
		org, err := s.orgRepo.FindByID(ctx, scope)
		if err != nil {
			return nil, err
		}
		orgs = shared.FilterBySearch([]identity.Organization{*org}, filter.Search, func(o identity.Organization) []string {
			return []string{o.Name, o.TaxID, o.Email}
		})
		if len(orgs) == 1 && !orgs[0].IsActive && !filter.IncludeInactive {
			orgs = nil
		}
		total = int64(len(orgs))
	}

	items := make([]OrganizationResponse, len(orgs))
	for i := range orgs {
		items[i] = ToOrganizationResponse(&orgs[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the data of an organization visible to scope
func (s *OrganizationService) Update(ctx context.Context, scope, id uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := s.find(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	name, taxID := org.Name, org.TaxID
	if req.Name != nil {
		name = *req.Name
	}
	if req.TaxID != nil && *req.TaxID != org.TaxID {
		exists, err := s.orgRepo.ExistsByTaxID(ctx, *req.TaxID, org.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An organization with this tax id already exists")
		}
		taxID = *req.TaxID
	}
	if err := org.Update(name, taxID); err != nil {
		return nil, err
	}

	email, phone, address := org.Email, org.Phone, org.Address
	if req.Email != nil {
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := org.SetContact(email, phone, address); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// Deactivate soft-deletes an organization; its users can no longer sign in.
func (s *OrganizationService) Deactivate(ctx context.Context, id uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := org.Deactivate(); err != nil {
		return err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, org)

	s.logger.Info("organization deactivated", zap.String("organization_id", id.String()))
	return nil
}

// Activate restores a soft-deleted organization
func (s *OrganizationService) Activate(ctx context.Context, id uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := org.Activate(); err != nil {
		return nil, err
	}
	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}
	resp := ToOrganizationResponse(org)
	return &resp, nil
}

func (s *OrganizationService) find(ctx context.Context, scope, id uuid.UUID) (*identity.Organization, error) {
	if scope != uuid.Nil && scope != id {
		return nil, shared.ErrNotFound
	}
	return s.orgRepo.FindByID(ctx, id)
}
