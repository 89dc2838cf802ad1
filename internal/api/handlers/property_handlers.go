package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/services"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// PropertyHandler handles property and unit endpoints
type PropertyHandler struct {
	propertyService *services.PropertyService
	logger          *logger.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *services.PropertyService, logger *logger.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		logger:          logger,
	}
}

// CreatePropertyRequest is the payload for creating or updating a property
type CreatePropertyRequest struct {
	Name                string                `json:"name" binding:"required"`
	Address             entities.Address      `json:"address"`
	Type                entities.PropertyType `json:"type" binding:"required"`
	TotalRooms          int                   `json:"total_rooms"`
	TotalBathrooms      int                   `json:"total_bathrooms"`
	TotalArea           decimal.Decimal       `json:"total_area"`
	Description         string                `json:"description"`
	Rent                *decimal.Decimal      `json:"rent"`
	MonthlyMortgage     decimal.Decimal       `json:"monthly_mortgage"`
	MonthlyFixedCharges decimal.Decimal       `json:"monthly_fixed_charges"`
	PurchasePrice       *decimal.Decimal      `json:"purchase_price"`
}

// CreateProperty creates a new property for the authenticated owner
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	property := &entities.Property{
		OwnerID:             ownerID,
		Name:                req.Name,
		Address:             req.Address,
		Type:                req.Type,
		TotalRooms:          req.TotalRooms,
		TotalBathrooms:      req.TotalBathrooms,
		TotalArea:           req.TotalArea,
		Description:         req.Description,
		Rent:                req.Rent,
		MonthlyMortgage:     req.MonthlyMortgage,
		MonthlyFixedCharges: req.MonthlyFixedCharges,
		PurchasePrice:       req.PurchasePrice,
	}

	if err := h.propertyService.CreateProperty(c.Request.Context(), property); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

// ListProperties returns the owner's properties
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	properties, err := h.propertyService.ListProperties(c.Request.Context(), ownerID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties, "count": len(properties)})
}

// GetProperty returns one property
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	property, err := h.propertyService.GetProperty(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// UpdateProperty replaces a property's mutable fields
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	property := &entities.Property{
		ID:                  propertyID,
		Name:                req.Name,
		Address:             req.Address,
		Type:                req.Type,
		TotalRooms:          req.TotalRooms,
		TotalBathrooms:      req.TotalBathrooms,
		TotalArea:           req.TotalArea,
		Description:         req.Description,
		Rent:                req.Rent,
		MonthlyMortgage:     req.MonthlyMortgage,
		MonthlyFixedCharges: req.MonthlyFixedCharges,
		PurchasePrice:       req.PurchasePrice,
	}

	if err := h.propertyService.UpdateProperty(c.Request.Context(), ownerID, property); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

// DeleteProperty removes a property
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.DeleteProperty(c.Request.Context(), ownerID, propertyID); err != nil {
		respondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateUnitRequest is the payload for creating a unit
type CreateUnitRequest struct {
	Name   string              `json:"name" binding:"required"`
	Rent   decimal.Decimal     `json:"rent"`
	Status entities.UnitStatus `json:"status"`
}

// CreateUnit adds a unit to a shared property
func (h *PropertyHandler) CreateUnit(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	unit := &entities.Unit{
		PropertyID: propertyID,
		Name:       req.Name,
		Rent:       req.Rent,
		Status:     req.Status,
	}

	if err := h.propertyService.CreateUnit(c.Request.Context(), ownerID, unit); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, unit)
}

// ListUnits returns the units of a property
func (h *PropertyHandler) ListUnits(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	units, err := h.propertyService.ListUnits(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"units": units, "count": len(units)})
}

// UpdateUnit replaces a unit's mutable fields
func (h *PropertyHandler) UpdateUnit(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	unitID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	unit := &entities.Unit{
		ID:     unitID,
		Name:   req.Name,
		Rent:   req.Rent,
		Status: req.Status,
	}

	if err := h.propertyService.UpdateUnit(c.Request.Context(), ownerID, unit); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, unit)
}

// DeleteUnit removes a unit
func (h *PropertyHandler) DeleteUnit(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	unitID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.DeleteUnit(c.Request.Context(), ownerID, unitID); err != nil {
		respondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
