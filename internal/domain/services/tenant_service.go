package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/repositories"
	apperrors "github.com/gestionloc/gestionloc_service/pkg/errors"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// TenantService manages tenant occupancies
type TenantService struct {
	tenantRepo   repositories.TenantRepository
	propertyRepo repositories.PropertyRepository
	unitRepo     repositories.UnitRepository
	logger       *logger.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repositories.TenantRepository, propertyRepo repositories.PropertyRepository, unitRepo repositories.UnitRepository, logger *logger.Logger) *TenantService {
	return &TenantService{
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		logger:       logger,
	}
}

// CreateTenant validates and persists a new tenant
func (s *TenantService) CreateTenant(ctx context.Context, ownerID uuid.UUID, tenant *entities.Tenant) error {
	property, err := s.ownedProperty(ctx, ownerID, tenant.PropertyID)
	if err != nil {
		return err
	}

	if err := s.validateTenant(ctx, property, tenant); err != nil {
		return err
	}

	if tenant.ID == uuid.Nil {
		tenant.ID = uuid.New()
	}
	now := time.Now()
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		s.logger.CtxError(ctx, "Failed to create tenant", "error", err, "property_id", tenant.PropertyID.String())
		return fmt.Errorf("create tenant: %w", err)
	}

	if tenant.UnitID != nil {
		s.markUnitOccupied(ctx, *tenant.UnitID)
	}

	s.logger.CtxInfo(ctx, "Tenant created",
		"tenant_id", tenant.ID.String(),
		"property_id", tenant.PropertyID.String())

	return nil
}

// GetTenant returns a tenant whose property belongs to the given owner
func (s *TenantService) GetTenant(ctx context.Context, ownerID, tenantID uuid.UUID) (*entities.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrCodeTenantNotFound, "tenant")
	}
	if _, err := s.ownedProperty(ctx, ownerID, tenant.PropertyID); err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListTenants returns all tenants across an owner's properties
func (s *TenantService) ListTenants(ctx context.Context, ownerID uuid.UUID) ([]entities.Tenant, error) {
	return s.tenantRepo.ListByOwner(ctx, ownerID)
}

// ListTenantsByProperty returns the tenants of one property
func (s *TenantService) ListTenantsByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) ([]entities.Tenant, error) {
	if _, err := s.ownedProperty(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.tenantRepo.ListByProperty(ctx, propertyID)
}

// UpdateTenant validates and persists changes to a tenant
func (s *TenantService) UpdateTenant(ctx context.Context, ownerID uuid.UUID, tenant *entities.Tenant) error {
	existing, err := s.GetTenant(ctx, ownerID, tenant.ID)
	if err != nil {
		return err
	}
	tenant.PropertyID = existing.PropertyID

	property, err := s.propertyRepo.GetByID(ctx, tenant.PropertyID)
	if err != nil {
		return err
	}
	if err := s.validateTenant(ctx, property, tenant); err != nil {
		return err
	}
	tenant.CreatedAt = existing.CreatedAt
	tenant.UpdatedAt = time.Now()

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		s.logger.CtxError(ctx, "Failed to update tenant", "error", err, "tenant_id", tenant.ID.String())
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

// DeleteTenant removes a tenant and frees their unit
func (s *TenantService) DeleteTenant(ctx context.Context, ownerID, tenantID uuid.UUID) error {
	tenant, err := s.GetTenant(ctx, ownerID, tenantID)
	if err != nil {
		return err
	}

	if err := s.tenantRepo.Delete(ctx, tenantID); err != nil {
		s.logger.CtxError(ctx, "Failed to delete tenant", "error", err, "tenant_id", tenantID.String())
		return fmt.Errorf("delete tenant: %w", err)
	}

	if tenant.UnitID != nil {
		if unit, err := s.unitRepo.GetByID(ctx, *tenant.UnitID); err == nil {
			unit.Status = entities.UnitStatusAvailable
			if err := s.unitRepo.Update(ctx, unit); err != nil {
				s.logger.CtxError(ctx, "Failed to free unit", "error", err, "unit_id", unit.ID.String())
			}
		}
	}

	s.logger.CtxInfo(ctx, "Tenant deleted", "tenant_id", tenantID.String())
	return nil
}

func (s *TenantService) validateTenant(ctx context.Context, property *entities.Property, tenant *entities.Tenant) error {
	if tenant.FirstName == "" && tenant.LastName == "" {
		return apperrors.NewWithDetails(apperrors.ErrCodeMissingField, "tenant name is required", map[string]interface{}{"field": "last_name"})
	}
	if tenant.Email == "" {
		return apperrors.NewWithDetails(apperrors.ErrCodeMissingField, "tenant email is required", map[string]interface{}{"field": "email"})
	}
	if tenant.MonthlyRent.IsNegative() {
		return apperrors.ValidationError("monthly rent must not be negative")
	}
	if tenant.PaymentDueDate < 1 || tenant.PaymentDueDate > 31 {
		return apperrors.ValidationError("payment due date must be a day of month between 1 and 31")
	}
	if !tenant.LeaseEnd.IsZero() && tenant.LeaseEnd.Before(tenant.LeaseStart) {
		return apperrors.ValidationError("lease end must not precede lease start")
	}

	if tenant.UnitID != nil {
		unit, err := s.unitRepo.GetByID(ctx, *tenant.UnitID)
		if err != nil {
			return notFoundOr(err, apperrors.ErrCodeUnitNotFound, "unit")
		}
		if unit.PropertyID != property.ID {
			return apperrors.ValidationError("unit does not belong to the tenant's property")
		}
	} else if property.Type == entities.PropertyTypeShared {
		return apperrors.ValidationError("tenants of shared properties must be assigned a unit")
	}

	return nil
}

func (s *TenantService) markUnitOccupied(ctx context.Context, unitID uuid.UUID) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return
	}
	unit.Status = entities.UnitStatusOccupied
	if err := s.unitRepo.Update(ctx, unit); err != nil {
		s.logger.CtxError(ctx, "Failed to mark unit occupied", "error", err, "unit_id", unitID.String())
	}
}

func (s *TenantService) ownedProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*entities.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NotFound(apperrors.ErrCodePropertyNotFound, "property")
	}
	if property.OwnerID != ownerID {
		return nil, apperrors.Forbidden("property belongs to another owner")
	}
	return property, nil
}
