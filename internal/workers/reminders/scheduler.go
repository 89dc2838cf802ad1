package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gestionloc/gestionloc_service/internal/domain/services"
	"github.com/gestionloc/gestionloc_service/internal/domain/services/reminder"
	"github.com/gestionloc/gestionloc_service/internal/infrastructure/config"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
	"github.com/gestionloc/gestionloc_service/pkg/metrics"
)

const runTimeout = 5 * time.Minute

// RunStats summarizes one scheduler pass
type RunStats struct {
	StartedAt         time.Time `json:"started_at"`
	PaymentsGenerated int       `json:"payments_generated"`
	PaymentsLate      int64     `json:"payments_late"`
	RemindersSent     int       `json:"reminders_sent"`
}

// Scheduler drives the daily payment lifecycle: it generates the month's
// pending payments, flips overdue ones to late, then sends reminders.
type Scheduler struct {
	cron            *cron.Cron
	schedule        string
	paymentService  *services.PaymentService
	reminderService *reminder.Service
	logger          *logger.Logger

	mu      sync.Mutex
	lastRun *RunStats
}

// NewScheduler creates a new reminder scheduler
func NewScheduler(cfg config.ReminderConfig, paymentService *services.PaymentService, reminderService *reminder.Service, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLogger(cronLogger{logger})),
		schedule:        cfg.Schedule,
		paymentService:  paymentService,
		reminderService: reminderService,
		logger:          logger,
	}
}

// Start registers the cron entry and begins scheduling
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Infow("Reminder scheduler started", "schedule", s.schedule)
	return nil
}

// Stop halts scheduling and waits for a running pass to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Infow("Reminder scheduler stopped")
}

// RunNow triggers one pass outside the schedule
func (s *Scheduler) RunNow() {
	s.runOnce()
}

// LastRun returns the stats of the most recent pass, or nil before the first
func (s *Scheduler) LastRun() *RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	now := time.Now()
	stats := RunStats{StartedAt: now}

	generated, err := s.paymentService.GenerateMonthlyPayments(ctx, now)
	if err != nil {
		s.logger.CtxError(ctx, "Payment generation failed", "error", err)
	}
	stats.PaymentsGenerated = generated
	metrics.PaymentsGeneratedTotal.Add(float64(generated))

	late, err := s.paymentService.MarkOverduePayments(ctx, now)
	if err != nil {
		s.logger.CtxError(ctx, "Overdue marking failed", "error", err)
	}
	stats.PaymentsLate = late
	metrics.PaymentsMarkedLateTotal.Add(float64(late))

	sent, err := s.reminderService.Run(ctx, now)
	if err != nil {
		s.logger.CtxError(ctx, "Reminder run failed", "error", err)
	}
	stats.RemindersSent = sent
	metrics.RemindersSentTotal.Add(float64(sent))

	s.mu.Lock()
	s.lastRun = &stats
	s.mu.Unlock()

	s.logger.CtxInfo(ctx, "Scheduler pass completed",
		"payments_generated", stats.PaymentsGenerated,
		"payments_late", stats.PaymentsLate,
		"reminders_sent", stats.RemindersSent)
}

// cronLogger adapts the application logger to the cron logging interface
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
