package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *entities.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *mockPaymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]entities.Payment, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]entities.Payment), args.Error(1)
}

func (m *mockPaymentRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Payment, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]entities.Payment), args.Error(1)
}

func (m *mockPaymentRepo) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]entities.Payment, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]entities.Payment), args.Error(1)
}

func (m *mockPaymentRepo) ExistsForTenantInMonth(ctx context.Context, tenantID uuid.UUID, period entities.Period) (bool, error) {
	args := m.Called(ctx, tenantID, period)
	return args.Bool(0), args.Error(1)
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidDate *time.Time) error {
	return m.Called(ctx, id, status, paidDate).Error(0)
}

func (m *mockPaymentRepo) MarkLateBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) Create(ctx context.Context, tenant *entities.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tenant), args.Error(1)
}

func (m *mockTenantRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entities.Tenant, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]entities.Tenant), args.Error(1)
}

func (m *mockTenantRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Tenant, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]entities.Tenant), args.Error(1)
}

func (m *mockTenantRepo) ListActive(ctx context.Context, asOf time.Time) ([]entities.Tenant, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]entities.Tenant), args.Error(1)
}

func (m *mockTenantRepo) Update(ctx context.Context, tenant *entities.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *entities.Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *mockNotificationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]entities.Notification, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]entities.Notification), args.Error(1)
}

func (m *mockNotificationRepo) ExistsForPaymentSince(ctx context.Context, paymentID uuid.UUID, notificationType entities.NotificationType, since time.Time) (bool, error) {
	args := m.Called(ctx, paymentID, notificationType, since)
	return args.Bool(0), args.Error(1)
}

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendCustomEmail(ctx context.Context, to, subject, htmlContent, textContent string) error {
	return m.Called(ctx, to, subject, htmlContent, textContent).Error(0)
}

func testLogger() *logger.Logger {
	return logger.NewLogger(zap.NewNop())
}

func pendingPayment(tenantID uuid.UUID, due time.Time) entities.Payment {
	return entities.Payment{
		ID:       uuid.New(),
		TenantID: tenantID,
		Amount:   decimal.NewFromInt(1200),
		DueDate:  due,
		Status:   entities.PaymentStatusPending,
	}
}

func testTenant(id uuid.UUID) *entities.Tenant {
	return &entities.Tenant{
		ID:             id,
		PropertyID:     uuid.New(),
		FirstName:      "Marie",
		LastName:       "Tremblay",
		Email:          "marie@example.com",
		MonthlyRent:    decimal.NewFromInt(1200),
		PaymentDueDate: 1,
	}
}

func TestRun_SendsReminderOnConfiguredOffset(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	payment := pendingPayment(tenantID, time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC))

	paymentRepo := new(mockPaymentRepo)
	tenantRepo := new(mockTenantRepo)
	notificationRepo := new(mockNotificationRepo)
	sender := new(mockEmailSender)

	paymentRepo.On("ListPendingDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]entities.Payment{payment}, nil)
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(testTenant(tenantID), nil)
	notificationRepo.On("ExistsForPaymentSince", mock.Anything, payment.ID, entities.NotificationTypePaymentReminder, mock.Anything).
		Return(false, nil)
	sender.On("SendCustomEmail", mock.Anything, "marie@example.com", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
		return n.TenantID == tenantID &&
			n.PaymentID != nil && *n.PaymentID == payment.ID &&
			n.Type == entities.NotificationTypePaymentReminder &&
			n.Channel == "email"
	})).Return(nil)

	svc := NewService(Config{DaysBefore: []int{2, 0}}, paymentRepo, tenantRepo, notificationRepo, sender, testLogger())

	sent, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sender.AssertExpectations(t)
	notificationRepo.AssertExpectations(t)
}

func TestRun_SkipsPaymentsOffSchedule(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	// Due in 1 day while only offsets 2 and 0 are configured
	payment := pendingPayment(uuid.New(), time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC))

	paymentRepo := new(mockPaymentRepo)
	tenantRepo := new(mockTenantRepo)
	notificationRepo := new(mockNotificationRepo)
	sender := new(mockEmailSender)

	paymentRepo.On("ListPendingDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]entities.Payment{payment}, nil)

	svc := NewService(Config{DaysBefore: []int{2, 0}}, paymentRepo, tenantRepo, notificationRepo, sender, testLogger())

	sent, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, sent)

	sender.AssertNotCalled(t, "SendCustomEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_DedupesSameDayReminders(t *testing.T) {
	now := time.Date(2026, time.March, 12, 8, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	payment := pendingPayment(tenantID, time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC))

	paymentRepo := new(mockPaymentRepo)
	tenantRepo := new(mockTenantRepo)
	notificationRepo := new(mockNotificationRepo)
	sender := new(mockEmailSender)

	paymentRepo.On("ListPendingDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]entities.Payment{payment}, nil)
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(testTenant(tenantID), nil)
	notificationRepo.On("ExistsForPaymentSince", mock.Anything, payment.ID, entities.NotificationTypePaymentReminder, mock.Anything).
		Return(true, nil)

	svc := NewService(Config{DaysBefore: []int{2, 0}}, paymentRepo, tenantRepo, notificationRepo, sender, testLogger())

	sent, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, sent)

	sender.AssertNotCalled(t, "SendCustomEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_SkipsMissingTenantAndContinues(t *testing.T) {
	now := time.Date(2026, time.March, 12, 8, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC)

	orphan := pendingPayment(uuid.New(), due)
	tenantID := uuid.New()
	valid := pendingPayment(tenantID, due)

	paymentRepo := new(mockPaymentRepo)
	tenantRepo := new(mockTenantRepo)
	notificationRepo := new(mockNotificationRepo)
	sender := new(mockEmailSender)

	paymentRepo.On("ListPendingDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]entities.Payment{orphan, valid}, nil)
	tenantRepo.On("GetByID", mock.Anything, orphan.TenantID).Return(nil, assert.AnError)
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(testTenant(tenantID), nil)
	notificationRepo.On("ExistsForPaymentSince", mock.Anything, valid.ID, entities.NotificationTypePaymentReminder, mock.Anything).
		Return(false, nil)
	sender.On("SendCustomEmail", mock.Anything, "marie@example.com", mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(Config{DaysBefore: []int{0}}, paymentRepo, tenantRepo, notificationRepo, sender, testLogger())

	sent, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestRun_EmailFailureDoesNotRecordNotification(t *testing.T) {
	now := time.Date(2026, time.March, 12, 8, 0, 0, 0, time.UTC)
	tenantID := uuid.New()
	payment := pendingPayment(tenantID, time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC))

	paymentRepo := new(mockPaymentRepo)
	tenantRepo := new(mockTenantRepo)
	notificationRepo := new(mockNotificationRepo)
	sender := new(mockEmailSender)

	paymentRepo.On("ListPendingDueBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]entities.Payment{payment}, nil)
	tenantRepo.On("GetByID", mock.Anything, tenantID).Return(testTenant(tenantID), nil)
	notificationRepo.On("ExistsForPaymentSince", mock.Anything, payment.ID, entities.NotificationTypePaymentReminder, mock.Anything).
		Return(false, nil)
	sender.On("SendCustomEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError)

	svc := NewService(Config{DaysBefore: []int{0}}, paymentRepo, tenantRepo, notificationRepo, sender, testLogger())

	sent, err := svc.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, sent)

	notificationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDefaultConfigApplied(t *testing.T) {
	svc := NewService(Config{}, new(mockPaymentRepo), new(mockTenantRepo), new(mockNotificationRepo), new(mockEmailSender), testLogger())
	assert.Equal(t, []int{2, 0}, svc.config.DaysBefore)
}
