package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/services"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
	"github.com/gestionloc/gestionloc_service/pkg/metrics"
)

// AnalyticsHandler exposes the profitability analysis endpoints
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	logger           *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// parsePeriod reads optional month/year query parameters, defaulting to the
// current calendar month.
func parsePeriod(c *gin.Context) (entities.Period, bool) {
	period := entities.PeriodOf(time.Now())

	if monthStr := c.Query("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			respondBadRequest(c, "month must be between 1 and 12")
			return entities.Period{}, false
		}
		period.Month = time.Month(month)
	}

	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil || year < 1900 || year > 3000 {
			respondBadRequest(c, "invalid year")
			return entities.Period{}, false
		}
		period.Year = year
	}

	return period, true
}

// PortfolioSummary returns the portfolio-wide profitability summary
func (h *AnalyticsHandler) PortfolioSummary(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.analyticsService.PortfolioSummary(c.Request.Context(), ownerID, period)
	if err != nil {
		respondAppError(c, err)
		return
	}

	metrics.RecordAnalysis("portfolio", false)
	c.JSON(http.StatusOK, summary)
}

// PropertyAnalysis returns the profitability analysis of one property
func (h *AnalyticsHandler) PropertyAnalysis(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	analysis, err := h.analyticsService.PropertyAnalysis(c.Request.Context(), ownerID, propertyID, period)
	if err != nil {
		respondAppError(c, err)
		return
	}

	metrics.RecordAnalysis("property", false)
	c.JSON(http.StatusOK, analysis)
}

// PropertyRecommendations returns advisory recommendations for one property
func (h *AnalyticsHandler) PropertyRecommendations(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	recommendations, err := h.analyticsService.PropertyRecommendations(c.Request.Context(), ownerID, propertyID, period)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}

// PropertyProjections returns flat projections for future months
func (h *AnalyticsHandler) PropertyProjections(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	monthsAhead := 0
	if monthsStr := c.Query("months"); monthsStr != "" {
		months, err := strconv.Atoi(monthsStr)
		if err != nil || months < 1 || months > 60 {
			respondBadRequest(c, "months must be between 1 and 60")
			return
		}
		monthsAhead = months
	}

	projections, err := h.analyticsService.PropertyProjections(c.Request.Context(), ownerID, propertyID, period, monthsAhead)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projections": projections})
}

// PropertyTrend returns a property's historical profitability
func (h *AnalyticsHandler) PropertyTrend(c *gin.Context) {
	ownerID, ok := getOwnerID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	propertyID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	monthsBack := 0
	if monthsStr := c.Query("months_back"); monthsStr != "" {
		months, err := strconv.Atoi(monthsStr)
		if err != nil || months < 1 || months > 36 {
			respondBadRequest(c, "months_back must be between 1 and 36")
			return
		}
		monthsBack = months
	}

	trend, err := h.analyticsService.PropertyTrend(c.Request.Context(), ownerID, propertyID, period, monthsBack)
	if err != nil {
		respondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}
