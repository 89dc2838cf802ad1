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

// PropertyService manages properties and their units
type PropertyService struct {
	propertyRepo repositories.PropertyRepository
	unitRepo     repositories.UnitRepository
	logger       *logger.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(propertyRepo repositories.PropertyRepository, unitRepo repositories.UnitRepository, logger *logger.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		logger:       logger,
	}
}

// CreateProperty validates and persists a new property
func (s *PropertyService) CreateProperty(ctx context.Context, property *entities.Property) error {
	if err := validateProperty(property); err != nil {
		return err
	}

	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	now := time.Now()
	property.CreatedAt = now
	property.UpdatedAt = now

	if err := s.propertyRepo.Create(ctx, property); err != nil {
		s.logger.CtxError(ctx, "Failed to create property", "error", err, "owner_id", property.OwnerID.String())
		return fmt.Errorf("create property: %w", err)
	}

	s.logger.CtxInfo(ctx, "Property created",
		"property_id", property.ID.String(),
		"owner_id", property.OwnerID.String(),
		"type", string(property.Type))

	return nil
}

// GetProperty returns a property owned by the given owner
func (s *PropertyService) GetProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*entities.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrCodePropertyNotFound, "property")
	}
	if property.OwnerID != ownerID {
		return nil, apperrors.Forbidden("property belongs to another owner")
	}
	return property, nil
}

// ListProperties returns all properties of an owner
func (s *PropertyService) ListProperties(ctx context.Context, ownerID uuid.UUID) ([]entities.Property, error) {
	return s.propertyRepo.ListByOwner(ctx, ownerID)
}

// UpdateProperty validates and persists changes to a property
func (s *PropertyService) UpdateProperty(ctx context.Context, ownerID uuid.UUID, property *entities.Property) error {
	existing, err := s.GetProperty(ctx, ownerID, property.ID)
	if err != nil {
		return err
	}
	property.OwnerID = existing.OwnerID

	if err := validateProperty(property); err != nil {
		return err
	}
	property.CreatedAt = existing.CreatedAt
	property.UpdatedAt = time.Now()

	if err := s.propertyRepo.Update(ctx, property); err != nil {
		s.logger.CtxError(ctx, "Failed to update property", "error", err, "property_id", property.ID.String())
		return fmt.Errorf("update property: %w", err)
	}

	return nil
}

// DeleteProperty removes a property and, through the schema, its dependents
func (s *PropertyService) DeleteProperty(ctx context.Context, ownerID, propertyID uuid.UUID) error {
	if _, err := s.GetProperty(ctx, ownerID, propertyID); err != nil {
		return err
	}

	if err := s.propertyRepo.Delete(ctx, propertyID); err != nil {
		s.logger.CtxError(ctx, "Failed to delete property", "error", err, "property_id", propertyID.String())
		return fmt.Errorf("delete property: %w", err)
	}

	s.logger.CtxInfo(ctx, "Property deleted", "property_id", propertyID.String())
	return nil
}

// CreateUnit adds a unit to a shared property
func (s *PropertyService) CreateUnit(ctx context.Context, ownerID uuid.UUID, unit *entities.Unit) error {
	property, err := s.GetProperty(ctx, ownerID, unit.PropertyID)
	if err != nil {
		return err
	}
	if property.Type != entities.PropertyTypeShared {
		return apperrors.ValidationError("units can only be added to shared properties")
	}
	if unit.Name == "" {
		return apperrors.NewWithDetails(apperrors.ErrCodeMissingField, "unit name is required", map[string]interface{}{"field": "name"})
	}
	if unit.Rent.IsNegative() {
		return apperrors.ValidationError("unit rent must not be negative")
	}
	if unit.Status == "" {
		unit.Status = entities.UnitStatusAvailable
	}

	if unit.ID == uuid.Nil {
		unit.ID = uuid.New()
	}
	now := time.Now()
	unit.CreatedAt = now
	unit.UpdatedAt = now

	if err := s.unitRepo.Create(ctx, unit); err != nil {
		s.logger.CtxError(ctx, "Failed to create unit", "error", err, "property_id", unit.PropertyID.String())
		return fmt.Errorf("create unit: %w", err)
	}

	return nil
}

// ListUnits returns the units of a property owned by the given owner
func (s *PropertyService) ListUnits(ctx context.Context, ownerID, propertyID uuid.UUID) ([]entities.Unit, error) {
	if _, err := s.GetProperty(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.unitRepo.ListByProperty(ctx, propertyID)
}

// UpdateUnit persists changes to a unit after checking ownership
func (s *PropertyService) UpdateUnit(ctx context.Context, ownerID uuid.UUID, unit *entities.Unit) error {
	existing, err := s.unitRepo.GetByID(ctx, unit.ID)
	if err != nil {
		return notFoundOr(err, apperrors.ErrCodeUnitNotFound, "unit")
	}
	if _, err := s.GetProperty(ctx, ownerID, existing.PropertyID); err != nil {
		return err
	}
	unit.PropertyID = existing.PropertyID

	if unit.Rent.IsNegative() {
		return apperrors.ValidationError("unit rent must not be negative")
	}
	unit.CreatedAt = existing.CreatedAt
	unit.UpdatedAt = time.Now()

	if err := s.unitRepo.Update(ctx, unit); err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	return nil
}

// DeleteUnit removes a unit after checking ownership
func (s *PropertyService) DeleteUnit(ctx context.Context, ownerID, unitID uuid.UUID) error {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return notFoundOr(err, apperrors.ErrCodeUnitNotFound, "unit")
	}
	if _, err := s.GetProperty(ctx, ownerID, unit.PropertyID); err != nil {
		return err
	}
	if err := s.unitRepo.Delete(ctx, unitID); err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	return nil
}

func validateProperty(property *entities.Property) error {
	if property.Name == "" {
		return apperrors.NewWithDetails(apperrors.ErrCodeMissingField, "property name is required", map[string]interface{}{"field": "name"})
	}
	if property.Type != entities.PropertyTypeEntire && property.Type != entities.PropertyTypeShared {
		return apperrors.ValidationError("property type must be entire or shared")
	}
	if property.MonthlyMortgage.IsNegative() || property.MonthlyFixedCharges.IsNegative() {
		return apperrors.ValidationError("monthly charges must not be negative")
	}
	if property.Rent != nil && property.Rent.IsNegative() {
		return apperrors.ValidationError("rent must not be negative")
	}
	if property.PurchasePrice != nil && property.PurchasePrice.IsNegative() {
		return apperrors.ValidationError("purchase price must not be negative")
	}
	return nil
}
