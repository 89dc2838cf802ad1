package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/gestionloc/gestionloc_service/pkg/errors"
)

// getOwnerID extracts the authenticated owner ID from the request context
func getOwnerID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("owner_id")
	if !exists {
		return uuid.Nil, false
	}

	switch v := val.(type) {
	case uuid.UUID:
		return v, true
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	default:
		return uuid.Nil, false
	}
}

// getRequestID extracts request ID from context
func getRequestID(c *gin.Context) string {
	if reqID, exists := c.Get("request_id"); exists {
		if id, ok := reqID.(string); ok {
			return id
		}
	}
	return ""
}

// respondAppError writes a standardized error response. Application errors
// carry their own status and code; anything else becomes a 500.
func respondAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode, gin.H{
			"code":       appErr.Code,
			"message":    appErr.Message,
			"details":    appErr.Details,
			"request_id": getRequestID(c),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"code":       apperrors.ErrCodeInternal,
		"message":    "Internal server error",
		"request_id": getRequestID(c),
	})
}

// respondUnauthorized sends an unauthorized error
func respondUnauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":       apperrors.ErrCodeUnauthorized,
		"message":    "Authentication required",
		"request_id": getRequestID(c),
	})
}

// respondBadRequest sends a bad request error
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":       apperrors.ErrCodeInvalidInput,
		"message":    message,
		"request_id": getRequestID(c),
	})
}

// parseUUIDParam parses a path parameter as a UUID
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondBadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
