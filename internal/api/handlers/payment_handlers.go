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
	"github.com/gestionloc/gestionloc_service/pkg/pagination"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	logger         *logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreatePaymentRequest is the payload for recording a payment manually
type CreatePaymentRequest struct {
	TenantID uuid.UUID              `json:"tenant_id" binding:"required"`
	Amount   decimal.Decimal        `json:"amount"`
	DueDate  time.Time              `json:"due_date" binding:"required"`
	Status   entities.PaymentStatus `json:"status"`
}

// CreatePayment records a payment
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	payment := &entities.Payment{
		TenantID: req.TenantID,
		Amount:   req.Amount,
		DueDate:  req.DueDate,
		Status:   req.Status,
	}

	if err := h.paymentService.CreatePayment(c.Request.Context(), ownerID, payment); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

// ListPayments returns payments across the owner's portfolio, or one
// tenant's payments when a tenant_id query is given.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	if tenantParam := c.Query("tenant_id"); tenantParam != "" {
		tenantID, err := uuid.Parse(tenantParam)
		if err != nil {
			respondBadRequest(c, "invalid tenant_id")
			return
		}

		params := pagination.FromQuery(c.Query("limit"), c.Query("offset"))
		payments, err := h.paymentService.ListPaymentsByTenant(c.Request.Context(), ownerID, tenantID, params.Limit, params.Offset)
		if err != nil {
			respondAppError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"payments": payments,
			"page": pagination.PageInfo{
				Limit:  params.Limit,
				Offset: params.Offset,
				Count:  len(payments),
			},
		})
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), ownerID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "count": len(payments)})
}

// GetPayment returns one payment
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), ownerID, paymentID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// UpdateStatusRequest is the payload for a payment status transition
type UpdateStatusRequest struct {
	Status entities.PaymentStatus `json:"status" binding:"required"`
}

// UpdatePaymentStatus transitions a payment to a new status
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.paymentService.UpdatePaymentStatus(c.Request.Context(), ownerID, paymentID, req.Status); err != nil {
		respondAppError(c, err)
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), ownerID, paymentID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GeneratePayments creates the current month's pending payments on demand
func (h *PaymentHandler) GeneratePayments(c *gin.Context) {
	if _, ok := getOwnerID(c); !ok {
		respondUnauthorized(c)
		return
	}

	created, err := h.paymentService.GenerateMonthlyPayments(c.Request.Context(), time.Now())
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"created": created})
}
