package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// stubPaymentRepo overrides the write paths of the in-memory payment store
type stubPaymentRepo struct {
	fakePaymentStore
	created []entities.Payment
	exists  map[uuid.UUID]bool
}

func (s *stubPaymentRepo) Create(ctx context.Context, payment *entities.Payment) error {
	s.created = append(s.created, *payment)
	return nil
}

func (s *stubPaymentRepo) ExistsForTenantInMonth(ctx context.Context, tenantID uuid.UUID, period entities.Period) (bool, error) {
	return s.exists[tenantID], nil
}

func newPaymentFixture(store *fakeStore, repo *stubPaymentRepo) *PaymentService {
	return NewPaymentService(repo, fakeTenantStore{store}, store, logger.NewLogger(zap.NewNop()))
}

func activeTenant(propertyID uuid.UUID, dueDay int, rent int64) entities.Tenant {
	return entities.Tenant{
		ID:             uuid.New(),
		PropertyID:     propertyID,
		LastName:       "Gagnon",
		Email:          "gagnon@example.com",
		MonthlyRent:    decimal.NewFromInt(rent),
		PaymentDueDate: dueDay,
	}
}

func TestGenerateMonthlyPayments_CreatesPendingForActiveTenants(t *testing.T) {
	propertyID := uuid.New()
	tenant := activeTenant(propertyID, 5, 1200)
	store := &fakeStore{tenants: []entities.Tenant{tenant}}
	repo := &stubPaymentRepo{exists: map[uuid.UUID]bool{}}
	svc := newPaymentFixture(store, repo)

	asOf := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	created, err := svc.GenerateMonthlyPayments(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, repo.created, 1)
	payment := repo.created[0]
	assert.Equal(t, tenant.ID, payment.TenantID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), payment.DueDate)
	assert.Equal(t, entities.PaymentStatusPending, payment.Status)
}

func TestGenerateMonthlyPayments_SkipsExistingPayments(t *testing.T) {
	propertyID := uuid.New()
	existing := activeTenant(propertyID, 1, 900)
	missing := activeTenant(propertyID, 1, 1100)
	store := &fakeStore{tenants: []entities.Tenant{existing, missing}}
	repo := &stubPaymentRepo{exists: map[uuid.UUID]bool{existing.ID: true}}
	svc := newPaymentFixture(store, repo)

	created, err := svc.GenerateMonthlyPayments(context.Background(), time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.Len(t, repo.created, 1)
	assert.Equal(t, missing.ID, repo.created[0].TenantID)
}

func TestGenerateMonthlyPayments_LateWhenDueDatePassed(t *testing.T) {
	propertyID := uuid.New()
	tenant := activeTenant(propertyID, 5, 1000)
	store := &fakeStore{tenants: []entities.Tenant{tenant}}
	repo := &stubPaymentRepo{exists: map[uuid.UUID]bool{}}
	svc := newPaymentFixture(store, repo)

	created, err := svc.GenerateMonthlyPayments(context.Background(), time.Date(2026, time.March, 20, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, entities.PaymentStatusLate, repo.created[0].Status)
}

func TestDueDateFor_ClampsToEndOfMonth(t *testing.T) {
	tenant := activeTenant(uuid.New(), 31, 1000)

	due := dueDateFor(&tenant, entities.Period{Month: time.February, Year: 2026})
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), due)

	due = dueDateFor(&tenant, entities.Period{Month: time.February, Year: 2028})
	assert.Equal(t, time.Date(2028, time.February, 29, 0, 0, 0, 0, time.UTC), due)

	due = dueDateFor(&tenant, entities.Period{Month: time.January, Year: 2026})
	assert.Equal(t, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), due)
}
