package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/repositories"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
	"github.com/google/uuid"
)

// Config controls which payments get a reminder. DaysBefore lists day
// offsets relative to the due date; zero means the due date itself.
type Config struct {
	DaysBefore []int
}

// DefaultConfig reminds two days ahead and again on the due date
func DefaultConfig() Config {
	return Config{DaysBefore: []int{2, 0}}
}

// EmailSender sends a single email message
type EmailSender interface {
	SendCustomEmail(ctx context.Context, to, subject, htmlContent, textContent string) error
}

// Service sends rent payment reminders to tenants. Each run scans pending
// payments whose due date falls on one of the configured offsets, skips
// payments already reminded today, and records every sent notification.
type Service struct {
	config           Config
	paymentRepo      repositories.PaymentRepository
	tenantRepo       repositories.TenantRepository
	notificationRepo repositories.NotificationRepository
	emailSender      EmailSender
	logger           *logger.Logger
}

// NewService creates a new reminder service
func NewService(
	config Config,
	paymentRepo repositories.PaymentRepository,
	tenantRepo repositories.TenantRepository,
	notificationRepo repositories.NotificationRepository,
	emailSender EmailSender,
	logger *logger.Logger,
) *Service {
	if len(config.DaysBefore) == 0 {
		config = DefaultConfig()
	}
	return &Service{
		config:           config,
		paymentRepo:      paymentRepo,
		tenantRepo:       tenantRepo,
		notificationRepo: notificationRepo,
		emailSender:      emailSender,
		logger:           logger,
	}
}

// Run executes one reminder pass as of the given time. Returns the number of
// reminders sent. Individual failures are logged and skipped so one bad
// record never aborts the run.
func (s *Service) Run(ctx context.Context, now time.Time) (int, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	maxOffset := 0
	for _, d := range s.config.DaysBefore {
		if d > maxOffset {
			maxOffset = d
		}
	}

	payments, err := s.paymentRepo.ListPendingDueBetween(ctx, today, today.AddDate(0, 0, maxOffset+1))
	if err != nil {
		return 0, fmt.Errorf("list pending payments: %w", err)
	}

	sent := 0
	for i := range payments {
		payment := &payments[i]

		due := payment.DueDate
		daysUntil := int(time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC).Sub(today).Hours() / 24)
		if !s.offsetConfigured(daysUntil) {
			continue
		}

		tenant, err := s.tenantRepo.GetByID(ctx, payment.TenantID)
		if err != nil {
			s.logger.CtxError(ctx, "Reminder skipped, tenant not found",
				"payment_id", payment.ID.String(),
				"tenant_id", payment.TenantID.String())
			continue
		}

		already, err := s.notificationRepo.ExistsForPaymentSince(ctx, payment.ID, entities.NotificationTypePaymentReminder, today)
		if err != nil {
			s.logger.CtxError(ctx, "Reminder dedup check failed", "error", err, "payment_id", payment.ID.String())
			continue
		}
		if already {
			continue
		}

		subject, html, text := reminderMessage(tenant, payment, daysUntil)
		if err := s.emailSender.SendCustomEmail(ctx, tenant.Email, subject, html, text); err != nil {
			s.logger.CtxError(ctx, "Reminder email failed",
				"error", err,
				"payment_id", payment.ID.String(),
				"tenant_id", tenant.ID.String())
			continue
		}

		paymentID := payment.ID
		notification := &entities.Notification{
			ID:        uuid.New(),
			TenantID:  tenant.ID,
			PaymentID: &paymentID,
			Type:      entities.NotificationTypePaymentReminder,
			Subject:   subject,
			Body:      text,
			Channel:   "email",
			SentAt:    now,
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.CtxError(ctx, "Failed to record notification", "error", err, "payment_id", payment.ID.String())
		}

		sent++
	}

	s.logger.CtxInfo(ctx, "Reminder run completed",
		"scanned", len(payments),
		"sent", sent)

	return sent, nil
}

func (s *Service) offsetConfigured(daysUntil int) bool {
	for _, d := range s.config.DaysBefore {
		if d == daysUntil {
			return true
		}
	}
	return false
}

func reminderMessage(tenant *entities.Tenant, payment *entities.Payment, daysUntil int) (subject, html, text string) {
	due := payment.DueDate.Format("January 2, 2006")
	amount := payment.Amount.StringFixed(2)

	if daysUntil == 0 {
		subject = "Rent payment due today"
		text = fmt.Sprintf("Hello %s,\n\nYour rent payment of %s is due today (%s).\n\nThank you.",
			tenant.FullName(), amount, due)
	} else {
		subject = fmt.Sprintf("Rent payment due in %d days", daysUntil)
		if daysUntil == 1 {
			subject = "Rent payment due tomorrow"
		}
		text = fmt.Sprintf("Hello %s,\n\nThis is a reminder that your rent payment of %s is due on %s.\n\nThank you.",
			tenant.FullName(), amount, due)
	}

	html = fmt.Sprintf("<p>Hello %s,</p><p>Your rent payment of <strong>%s</strong> is due on %s.</p><p>Thank you.</p>",
		tenant.FullName(), amount, due)

	return subject, html, text
}
