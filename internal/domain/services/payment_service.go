package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/repositories"
	apperrors "github.com/gestionloc/gestionloc_service/pkg/errors"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// PaymentService manages rent payments and their lifecycle
type PaymentService struct {
	paymentRepo  repositories.PaymentRepository
	tenantRepo   repositories.TenantRepository
	propertyRepo repositories.PropertyRepository
	logger       *logger.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repositories.PaymentRepository, tenantRepo repositories.TenantRepository, propertyRepo repositories.PropertyRepository, logger *logger.Logger) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		tenantRepo:   tenantRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// CreatePayment validates and persists a manually entered payment
func (s *PaymentService) CreatePayment(ctx context.Context, ownerID uuid.UUID, payment *entities.Payment) error {
	if _, err := s.ownedTenant(ctx, ownerID, payment.TenantID); err != nil {
		return err
	}
	if payment.Amount.IsNegative() {
		return apperrors.ValidationError("payment amount must not be negative")
	}
	if payment.Status == "" {
		payment.Status = entities.PaymentStatusPending
	}
	switch payment.Status {
	case entities.PaymentStatusPending, entities.PaymentStatusPaid, entities.PaymentStatusLate, entities.PaymentStatusOverdue:
	default:
		return apperrors.ValidationError("unknown payment status")
	}

	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.CtxError(ctx, "Failed to create payment", "error", err, "tenant_id", payment.TenantID.String())
		return fmt.Errorf("create payment: %w", err)
	}

	return nil
}

// GetPayment returns a payment whose tenant belongs to the given owner
func (s *PaymentService) GetPayment(ctx context.Context, ownerID, paymentID uuid.UUID) (*entities.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrCodePaymentNotFound, "payment")
	}
	if _, err := s.ownedTenant(ctx, ownerID, payment.TenantID); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListPayments returns all payments across an owner's properties
func (s *PaymentService) ListPayments(ctx context.Context, ownerID uuid.UUID) ([]entities.Payment, error) {
	return s.paymentRepo.ListByOwner(ctx, ownerID)
}

// ListPaymentsByTenant returns a page of one tenant's payments
func (s *PaymentService) ListPaymentsByTenant(ctx context.Context, ownerID, tenantID uuid.UUID, limit, offset int) ([]entities.Payment, error) {
	if _, err := s.ownedTenant(ctx, ownerID, tenantID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByTenant(ctx, tenantID, limit, offset)
}

// UpdatePaymentStatus transitions a payment to a new status. Marking a
// payment paid stamps the paid date; any other transition clears it.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, ownerID, paymentID uuid.UUID, status entities.PaymentStatus) error {
	if _, err := s.GetPayment(ctx, ownerID, paymentID); err != nil {
		return err
	}

	var paidDate *time.Time
	switch status {
	case entities.PaymentStatusPaid:
		now := time.Now()
		paidDate = &now
	case entities.PaymentStatusPending, entities.PaymentStatusLate, entities.PaymentStatusOverdue:
	default:
		return apperrors.ValidationError("unknown payment status")
	}

	if err := s.paymentRepo.UpdateStatus(ctx, paymentID, status, paidDate); err != nil {
		s.logger.CtxError(ctx, "Failed to update payment status", "error", err, "payment_id", paymentID.String())
		return fmt.Errorf("update payment status: %w", err)
	}

	s.logger.CtxInfo(ctx, "Payment status updated",
		"payment_id", paymentID.String(),
		"status", string(status))

	return nil
}

// GenerateMonthlyPayments creates the pending payment of the month for every
// active tenant that does not have one yet. Safe to run repeatedly. Returns
// the number of payments created.
func (s *PaymentService) GenerateMonthlyPayments(ctx context.Context, asOf time.Time) (int, error) {
	period := entities.PeriodOf(asOf)

	tenants, err := s.tenantRepo.ListActive(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("list active tenants: %w", err)
	}

	created := 0
	for i := range tenants {
		tenant := &tenants[i]

		exists, err := s.paymentRepo.ExistsForTenantInMonth(ctx, tenant.ID, period)
		if err != nil {
			return created, fmt.Errorf("check existing payment: %w", err)
		}
		if exists {
			continue
		}

		dueDate := dueDateFor(tenant, period)
		status := entities.PaymentStatusPending
		if asOf.After(dueDate) {
			status = entities.PaymentStatusLate
		}

		payment := &entities.Payment{
			ID:        uuid.New(),
			TenantID:  tenant.ID,
			Amount:    tenant.MonthlyRent,
			DueDate:   dueDate,
			Status:    status,
			CreatedAt: asOf,
			UpdatedAt: asOf,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			s.logger.CtxError(ctx, "Failed to generate payment", "error", err, "tenant_id", tenant.ID.String())
			continue
		}
		created++
	}

	s.logger.CtxInfo(ctx, "Monthly payments generated",
		"period", fmt.Sprintf("%d-%02d", period.Year, int(period.Month)),
		"created", created,
		"tenants", len(tenants))

	return created, nil
}

// MarkOverduePayments flips pending payments past their due date to late.
// Returns the number of payments updated.
func (s *PaymentService) MarkOverduePayments(ctx context.Context, asOf time.Time) (int64, error) {
	cutoff := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())

	updated, err := s.paymentRepo.MarkLateBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("mark overdue payments: %w", err)
	}

	if updated > 0 {
		s.logger.CtxInfo(ctx, "Payments marked late", "count", updated)
	}

	return updated, nil
}

// dueDateFor places the tenant's due day in the given month, clamped to the
// month's last day (a due day of 31 falls on Feb 28/29).
func dueDateFor(tenant *entities.Tenant, period entities.Period) time.Time {
	lastDay := time.Date(period.Year, period.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := tenant.PaymentDueDate
	if day > lastDay {
		day = lastDay
	}
	if day < 1 {
		day = 1
	}
	return time.Date(period.Year, period.Month, day, 0, 0, 0, 0, time.UTC)
}

func (s *PaymentService) ownedTenant(ctx context.Context, ownerID, tenantID uuid.UUID) (*entities.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, apperrors.NotFound(apperrors.ErrCodeTenantNotFound, "tenant")
	}
	property, err := s.propertyRepo.GetByID(ctx, tenant.PropertyID)
	if err != nil {
		return nil, apperrors.NotFound(apperrors.ErrCodePropertyNotFound, "property")
	}
	if property.OwnerID != ownerID {
		return nil, apperrors.Forbidden("tenant belongs to another owner")
	}
	return tenant, nil
}
