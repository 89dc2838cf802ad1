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

// ExpenseHandler handles expense endpoints
type ExpenseHandler struct {
	expenseService *services.ExpenseService
	logger         *logger.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *services.ExpenseService, logger *logger.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// CreateExpenseRequest is the payload for recording an expense
type CreateExpenseRequest struct {
	PropertyID  *uuid.UUID           `json:"property_id"`
	UnitID      *uuid.UUID           `json:"unit_id"`
	Type        entities.ExpenseType `json:"type" binding:"required"`
	Amount      decimal.Decimal      `json:"amount"`
	Date        time.Time            `json:"date" binding:"required"`
	Description string               `json:"description"`
}

// CreateExpense records an expense
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	expense := &entities.Expense{
		PropertyID:  req.PropertyID,
		UnitID:      req.UnitID,
		Type:        req.Type,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	}

	if err := h.expenseService.CreateExpense(c.Request.Context(), ownerID, expense); err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// ListExpenses returns expenses across the owner's portfolio, or one
// property's expenses when a property_id query is given.
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	if propertyParam := c.Query("property_id"); propertyParam != "" {
		propertyID, err := uuid.Parse(propertyParam)
		if err != nil {
			respondBadRequest(c, "invalid property_id")
			return
		}

		params := pagination.FromQuery(c.Query("limit"), c.Query("offset"))
		expenses, err := h.expenseService.ListExpensesByProperty(c.Request.Context(), ownerID, propertyID, params.Limit, params.Offset)
		if err != nil {
			respondAppError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"expenses": expenses,
			"page": pagination.PageInfo{
				Limit:  params.Limit,
				Offset: params.Offset,
				Count:  len(expenses),
			},
		})
		return
	}

	expenses, err := h.expenseService.ListExpenses(c.Request.Context(), ownerID)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses, "count": len(expenses)})
}

// DeleteExpense removes an expense
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	expenseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), ownerID, expenseID); err != nil {
		respondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
