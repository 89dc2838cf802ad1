package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/repositories"
	"github.com/gestionloc/gestionloc_service/internal/domain/services/profit"
	apperrors "github.com/gestionloc/gestionloc_service/pkg/errors"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// DefaultTrendWindow is the number of past months included in a trend when
// the caller does not specify one.
const DefaultTrendWindow = 6

// SummaryCache caches portfolio summaries between recomputations
type SummaryCache interface {
	Get(ctx context.Context, ownerID uuid.UUID, period entities.Period) (*entities.PortfolioProfitSummary, bool)
	Set(ctx context.Context, ownerID uuid.UUID, period entities.Period, summary *entities.PortfolioProfitSummary)
}

// AnalyticsService computes profitability analyses on demand. It owns
// snapshot loading and caching; the calculation itself is delegated to the
// pure profit calculator.
type AnalyticsService struct {
	propertyRepo repositories.PropertyRepository
	unitRepo     repositories.UnitRepository
	tenantRepo   repositories.TenantRepository
	paymentRepo  repositories.PaymentRepository
	expenseRepo  repositories.ExpenseRepository
	cache        SummaryCache
	calculator   *profit.Calculator
	logger       *logger.Logger
}

// NewAnalyticsService creates a new analytics service. The cache may be nil,
// in which case every call recomputes from scratch.
func NewAnalyticsService(
	propertyRepo repositories.PropertyRepository,
	unitRepo repositories.UnitRepository,
	tenantRepo repositories.TenantRepository,
	paymentRepo repositories.PaymentRepository,
	expenseRepo repositories.ExpenseRepository,
	cache SummaryCache,
	logger *logger.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		tenantRepo:   tenantRepo,
		paymentRepo:  paymentRepo,
		expenseRepo:  expenseRepo,
		cache:        cache,
		calculator:   profit.NewCalculator(),
		logger:       logger,
	}
}

// loadSnapshot assembles the read-only entity snapshot for one owner
func (s *AnalyticsService) loadSnapshot(ctx context.Context, ownerID uuid.UUID) (*profit.Snapshot, error) {
	properties, err := s.propertyRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	units, err := s.unitRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load units: %w", err)
	}

	tenants, err := s.tenantRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}

	payments, err := s.paymentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	expenses, err := s.expenseRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	return &profit.Snapshot{
		Properties: properties,
		Units:      units,
		Tenants:    tenants,
		Payments:   payments,
		Expenses:   expenses,
	}, nil
}

// PortfolioSummary computes the portfolio-wide profitability summary for an
// owner and period
func (s *AnalyticsService) PortfolioSummary(ctx context.Context, ownerID uuid.UUID, period entities.Period) (*entities.PortfolioProfitSummary, error) {
	if s.cache != nil {
		if summary, ok := s.cache.Get(ctx, ownerID, period); ok {
			s.logger.CtxInfo(ctx, "Portfolio summary served from cache",
				"owner_id", ownerID.String(),
				"period", fmt.Sprintf("%d-%02d", period.Year, int(period.Month)))
			return summary, nil
		}
	}

	snapshot, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		s.logger.CtxError(ctx, "Failed to load snapshot", "error", err, "owner_id", ownerID.String())
		return nil, fmt.Errorf("portfolio summary: %w", err)
	}

	summary := s.calculator.PortfolioProfit(snapshot, period)

	if s.cache != nil {
		s.cache.Set(ctx, ownerID, period, &summary)
	}

	s.logger.CtxInfo(ctx, "Portfolio summary computed",
		"owner_id", ownerID.String(),
		"properties", len(summary.Properties),
		"net_profit", summary.NetProfit.String())

	return &summary, nil
}

// PropertyAnalysis computes the profitability analysis of one property
func (s *AnalyticsService) PropertyAnalysis(ctx context.Context, ownerID, propertyID uuid.UUID, period entities.Period) (*entities.PropertyProfitAnalysis, error) {
	property, err := s.ownedProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("property analysis: %w", err)
	}

	analysis := s.calculator.PropertyProfit(property, snapshot, period)
	return &analysis, nil
}

// PropertyRecommendations derives recommendations for one property
func (s *AnalyticsService) PropertyRecommendations(ctx context.Context, ownerID, propertyID uuid.UUID, period entities.Period) ([]string, error) {
	analysis, err := s.PropertyAnalysis(ctx, ownerID, propertyID, period)
	if err != nil {
		return nil, err
	}
	return s.calculator.Recommendations(analysis), nil
}

// PropertyProjections extrapolates a property's analysis into future months
func (s *AnalyticsService) PropertyProjections(ctx context.Context, ownerID, propertyID uuid.UUID, period entities.Period, monthsAhead int) ([]entities.ProfitProjection, error) {
	analysis, err := s.PropertyAnalysis(ctx, ownerID, propertyID, period)
	if err != nil {
		return nil, err
	}
	return s.calculator.Projections(analysis, monthsAhead), nil
}

// PropertyTrend computes a property's profitability over the monthsBack
// months up to and including the given period, oldest first.
func (s *AnalyticsService) PropertyTrend(ctx context.Context, ownerID, propertyID uuid.UUID, period entities.Period, monthsBack int) ([]entities.TrendPoint, error) {
	if monthsBack <= 0 {
		monthsBack = DefaultTrendWindow
	}

	property, err := s.ownedProperty(ctx, ownerID, propertyID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.loadSnapshot(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("property trend: %w", err)
	}

	// Walk back to the start of the window, then forward month by month
	start := period
	for i := 0; i < monthsBack; i++ {
		start = start.Prev()
	}

	points := make([]entities.TrendPoint, 0, monthsBack+1)
	current := start
	for i := 0; i <= monthsBack; i++ {
		analysis := s.calculator.PropertyProfit(property, snapshot, current)
		points = append(points, entities.TrendPoint{
			Period:    current,
			NetProfit: analysis.NetProfit.Net,
			Margin:    analysis.NetProfit.Margin,
			CashFlow:  analysis.CashFlow,
		})
		current = current.Next()
	}

	return points, nil
}

// CurrentPeriod returns the period of the present wall-clock month
func (s *AnalyticsService) CurrentPeriod() entities.Period {
	return entities.PeriodOf(time.Now())
}

func (s *AnalyticsService) ownedProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*entities.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NotFound(apperrors.ErrCodePropertyNotFound, "property")
	}
	if property.OwnerID != ownerID {
		return nil, apperrors.Forbidden("property belongs to another owner")
	}
	return property, nil
}
