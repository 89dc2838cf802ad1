package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/services"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// TenantHandler handles tenant endpoints
type TenantHandler struct {
	tenantService *services.TenantService
	logger        *logger.Logger
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *services.TenantService, logger *logger.Logger) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		logger:        logger,
	}
}

// CreateTenantRequest is the payload for creating or updating a tenant
type CreateTenantRequest struct {
	PropertyID     uuid.UUID       `json:"property_id" binding:"required"`
	UnitID         *uuid.UUID      `json:"unit_id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	Phone          string          `json:"phone"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent"`
	PaymentDueDate int             `json:"payment_due_date"`
	LeaseStart     time.Time       `json:"lease_start"`
	LeaseEnd       time.Time       `json:"lease_end"`
	DepositPaid    decimal.Decimal `json:"deposit_paid"`
}

func (r *CreateTenantRequest) toEntity() *entities.Tenant {
	return &entities.Tenant{
		PropertyID:     r.PropertyID,
		UnitID:         r.UnitID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		MonthlyRent:    r.MonthlyRent,
		PaymentDueDate: r.PaymentDueDate,
		LeaseStart:     r.LeaseStart,
		LeaseEnd:       r.LeaseEnd,
		DepositPaid:    r.DepositPaid,
	}
}

// CreateTenant registers a new tenant
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	tenant := req.toEntity()
	if err := h.tenantService.CreateTenant(c.Request.Context(), ownerID, tenant); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tenant)
}

// ListTenants returns all tenants across the owner's properties. An optional
// property_id query narrows the list to one property.
func (h *TenantHandler) ListTenants(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var (
		tenants []entities.Tenant
		err     error
	)
	if propertyParam := c.Query("property_id"); propertyParam != "" {
		propertyID, parseErr := uuid.Parse(propertyParam)
		if parseErr != nil {
			respondBadRequest(c, "invalid property_id")
			return
		}
		tenants, err = h.tenantService.ListTenantsByProperty(c.Request.Context(), ownerID, propertyID)
	} else {
		tenants, err = h.tenantService.ListTenants(c.Request.Context(), ownerID)
	}
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenants": tenants, "count": len(tenants)})
}

// GetTenant returns one tenant
func (h *TenantHandler) GetTenant(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	tenantID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), ownerID, tenantID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// UpdateTenant replaces a tenant's mutable fields
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	tenantID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	tenant := req.toEntity()
	tenant.ID = tenantID
	if err := h.tenantService.UpdateTenant(c.Request.Context(), ownerID, tenant); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// DeleteTenant removes a tenant
func (h *TenantHandler) DeleteTenant(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	tenantID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tenantService.DeleteTenant(c.Request.Context(), ownerID, tenantID); err != nil {
		respondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
