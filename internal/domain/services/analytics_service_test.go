package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	apperrors "github.com/gestionloc/gestionloc_service/pkg/errors"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// fakeStore is an in-memory implementation of every repository interface
// the analytics service reads from.
type fakeStore struct {
	properties []entities.Property
	units      []entities.Unit
	tenants    []entities.Tenant
	payments   []entities.Payment
	expenses   []entities.Expense
}

func (f *fakeStore) Create(ctx context.Context, property *entities.Property) error { return nil }

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Property, error) {
	for i := range f.properties {
		if f.properties[i].ID == id {
			return &f.properties[i], nil
		}
	}
	return nil, apperrors.NotFound(apperrors.ErrCodePropertyNotFound, "property")
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Property, error) {
	var out []entities.Property
	for _, p := range f.properties {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, property *entities.Property) error { return nil }
func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error                { return nil }

type fakeUnitStore struct{ store *fakeStore }

func (f fakeUnitStore) Create(ctx context.Context, unit *entities.Unit) error { return nil }
func (f fakeUnitStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Unit, error) {
	return nil, apperrors.NotFound(apperrors.ErrCodeUnitNotFound, "unit")
}
func (f fakeUnitStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entities.Unit, error) {
	return f.store.units, nil
}
func (f fakeUnitStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Unit, error) {
	return f.store.units, nil
}
func (f fakeUnitStore) Update(ctx context.Context, unit *entities.Unit) error { return nil }
func (f fakeUnitStore) Delete(ctx context.Context, id uuid.UUID) error        { return nil }

type fakeTenantStore struct{ store *fakeStore }

func (f fakeTenantStore) Create(ctx context.Context, tenant *entities.Tenant) error { return nil }
func (f fakeTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error) {
	return nil, apperrors.NotFound(apperrors.ErrCodeTenantNotFound, "tenant")
}
func (f fakeTenantStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entities.Tenant, error) {
	return f.store.tenants, nil
}
func (f fakeTenantStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Tenant, error) {
	return f.store.tenants, nil
}
func (f fakeTenantStore) ListActive(ctx context.Context, asOf time.Time) ([]entities.Tenant, error) {
	return f.store.tenants, nil
}
func (f fakeTenantStore) Update(ctx context.Context, tenant *entities.Tenant) error { return nil }
func (f fakeTenantStore) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

type fakePaymentStore struct{ store *fakeStore }

func (f fakePaymentStore) Create(ctx context.Context, payment *entities.Payment) error { return nil }
func (f fakePaymentStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	return nil, apperrors.NotFound(apperrors.ErrCodePaymentNotFound, "payment")
}
func (f fakePaymentStore) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]entities.Payment, error) {
	return f.store.payments, nil
}
func (f fakePaymentStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Payment, error) {
	return f.store.payments, nil
}
func (f fakePaymentStore) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]entities.Payment, error) {
	return nil, nil
}
func (f fakePaymentStore) ExistsForTenantInMonth(ctx context.Context, tenantID uuid.UUID, period entities.Period) (bool, error) {
	return false, nil
}
func (f fakePaymentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidDate *time.Time) error {
	return nil
}
func (f fakePaymentStore) MarkLateBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeExpenseStore struct{ store *fakeStore }

func (f fakeExpenseStore) Create(ctx context.Context, expense *entities.Expense) error { return nil }
func (f fakeExpenseStore) GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	return nil, apperrors.NotFound(apperrors.ErrCodeExpenseNotFound, "expense")
}
func (f fakeExpenseStore) ListByProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]entities.Expense, error) {
	return f.store.expenses, nil
}
func (f fakeExpenseStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Expense, error) {
	return f.store.expenses, nil
}
func (f fakeExpenseStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

// recordingCache counts hits and misses to verify cache fall-through
type recordingCache struct {
	entries map[string]*entities.PortfolioProfitSummary
	gets    int
	sets    int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string]*entities.PortfolioProfitSummary)}
}

func (c *recordingCache) key(ownerID uuid.UUID, period entities.Period) string {
	return fmt.Sprintf("%s:%d-%d", ownerID, period.Year, int(period.Month))
}

func (c *recordingCache) Get(ctx context.Context, ownerID uuid.UUID, period entities.Period) (*entities.PortfolioProfitSummary, bool) {
	c.gets++
	summary, ok := c.entries[c.key(ownerID, period)]
	return summary, ok
}

func (c *recordingCache) Set(ctx context.Context, ownerID uuid.UUID, period entities.Period, summary *entities.PortfolioProfitSummary) {
	c.sets++
	c.entries[c.key(ownerID, period)] = summary
}

func newAnalyticsFixture(store *fakeStore, cache SummaryCache) *AnalyticsService {
	return NewAnalyticsService(
		store,
		fakeUnitStore{store},
		fakeTenantStore{store},
		fakePaymentStore{store},
		fakeExpenseStore{store},
		cache,
		logger.NewLogger(zap.NewNop()),
	)
}

func seededStore(ownerID uuid.UUID) (*fakeStore, uuid.UUID) {
	propertyID := uuid.New()
	tenantID := uuid.New()
	period := entities.Period{Month: time.March, Year: 2026}

	return &fakeStore{
		properties: []entities.Property{{
			ID:              propertyID,
			OwnerID:         ownerID,
			Name:            "Rue Sainte-Catherine",
			Type:            entities.PropertyTypeEntire,
			MonthlyMortgage: decimal.NewFromInt(700),
		}},
		tenants: []entities.Tenant{{
			ID:          tenantID,
			PropertyID:  propertyID,
			LastName:    "Roy",
			Email:       "roy@example.com",
			MonthlyRent: decimal.NewFromInt(1500),
		}},
		payments: []entities.Payment{{
			ID:       uuid.New(),
			TenantID: tenantID,
			Amount:   decimal.NewFromInt(1500),
			DueDate:  time.Date(period.Year, period.Month, 1, 0, 0, 0, 0, time.UTC),
			Status:   entities.PaymentStatusPaid,
		}},
	}, propertyID
}

func TestPortfolioSummary_ComputesAndCaches(t *testing.T) {
	ownerID := uuid.New()
	store, _ := seededStore(ownerID)
	cache := newRecordingCache()
	svc := newAnalyticsFixture(store, cache)
	period := entities.Period{Month: time.March, Year: 2026}

	first, err := svc.PortfolioSummary(context.Background(), ownerID, period)
	require.NoError(t, err)
	assert.Len(t, first.Properties, 1)
	assert.True(t, first.NetProfit.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, 1, cache.sets)

	second, err := svc.PortfolioSummary(context.Background(), ownerID, period)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second call should hit the cache")
	assert.True(t, second.NetProfit.Equal(first.NetProfit))
}

func TestPortfolioSummary_NilCacheRecomputes(t *testing.T) {
	ownerID := uuid.New()
	store, _ := seededStore(ownerID)
	svc := newAnalyticsFixture(store, nil)

	summary, err := svc.PortfolioSummary(context.Background(), ownerID, entities.Period{Month: time.March, Year: 2026})
	require.NoError(t, err)
	assert.Len(t, summary.Properties, 1)
}

func TestPropertyAnalysis_RejectsForeignOwner(t *testing.T) {
	ownerID := uuid.New()
	store, propertyID := seededStore(ownerID)
	svc := newAnalyticsFixture(store, nil)

	_, err := svc.PropertyAnalysis(context.Background(), uuid.New(), propertyID, entities.Period{Month: time.March, Year: 2026})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeForbidden, appErr.Code)
}

func TestPropertyTrend_WindowAndOrder(t *testing.T) {
	ownerID := uuid.New()
	store, propertyID := seededStore(ownerID)
	svc := newAnalyticsFixture(store, nil)
	period := entities.Period{Month: time.March, Year: 2026}

	trend, err := svc.PropertyTrend(context.Background(), ownerID, propertyID, period, 2)
	require.NoError(t, err)
	require.Len(t, trend, 3)

	assert.Equal(t, entities.Period{Month: time.January, Year: 2026}, trend[0].Period)
	assert.Equal(t, period, trend[2].Period)

	// Only March has a paid payment
	assert.True(t, trend[0].NetProfit.Equal(decimal.NewFromInt(-700)))
	assert.True(t, trend[2].NetProfit.Equal(decimal.NewFromInt(800)))
}

func TestPropertyTrend_DefaultWindow(t *testing.T) {
	ownerID := uuid.New()
	store, propertyID := seededStore(ownerID)
	svc := newAnalyticsFixture(store, nil)

	trend, err := svc.PropertyTrend(context.Background(), ownerID, propertyID, entities.Period{Month: time.March, Year: 2026}, 0)
	require.NoError(t, err)
	assert.Len(t, trend, DefaultTrendWindow+1)
}
