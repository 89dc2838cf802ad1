package di

import (
	"database/sql"
	"time"

	"github.com/gestionloc/gestionloc_service/internal/domain/repositories"
	"github.com/gestionloc/gestionloc_service/internal/domain/services"
	"github.com/gestionloc/gestionloc_service/internal/domain/services/reminder"
	"github.com/gestionloc/gestionloc_service/internal/infrastructure/adapters"
	"github.com/gestionloc/gestionloc_service/internal/infrastructure/cache"
	"github.com/gestionloc/gestionloc_service/internal/infrastructure/config"
	infraRepos "github.com/gestionloc/gestionloc_service/internal/infrastructure/repositories"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

const summaryCacheTTL = 5 * time.Minute

// Container wires repositories, adapters and services together
type Container struct {
	Config *config.Config
	Logger *logger.Logger
	DB     *sql.DB
	Cache  *cache.SummaryCache

	PropertyRepo     repositories.PropertyRepository
	UnitRepo         repositories.UnitRepository
	TenantRepo       repositories.TenantRepository
	PaymentRepo      repositories.PaymentRepository
	ExpenseRepo      repositories.ExpenseRepository
	NotificationRepo repositories.NotificationRepository

	EmailService *adapters.EmailService

	PropertyService  *services.PropertyService
	TenantService    *services.TenantService
	PaymentService   *services.PaymentService
	ExpenseService   *services.ExpenseService
	AnalyticsService *services.AnalyticsService
	ReminderService  *reminder.Service
}

// NewContainer builds the full dependency graph
func NewContainer(cfg *config.Config, log *logger.Logger, db *sql.DB) *Container {
	zapLog := log.Zap()

	summaryCache := cache.NewSummaryCache(cfg.Redis, summaryCacheTTL, zapLog)

	propertyRepo := infraRepos.NewPropertyRepository(db, zapLog)
	unitRepo := infraRepos.NewUnitRepository(db, zapLog)
	tenantRepo := infraRepos.NewTenantRepository(db, zapLog)
	paymentRepo := infraRepos.NewPaymentRepository(db, zapLog)
	expenseRepo := infraRepos.NewExpenseRepository(db, zapLog)
	notificationRepo := infraRepos.NewNotificationRepository(db, zapLog)

	emailService := adapters.NewEmailService(zapLog, adapters.EmailServiceConfig{
		APIKey:      cfg.Email.APIKey,
		FromEmail:   cfg.Email.FromEmail,
		FromName:    cfg.Email.FromName,
		Environment: cfg.Email.Environment,
	})

	reminderService := reminder.NewService(
		reminder.Config{DaysBefore: cfg.Reminder.DaysBefore},
		paymentRepo,
		tenantRepo,
		notificationRepo,
		emailService,
		log,
	)

	return &Container{
		Config: cfg,
		Logger: log,
		DB:     db,
		Cache:  summaryCache,

		PropertyRepo:     propertyRepo,
		UnitRepo:         unitRepo,
		TenantRepo:       tenantRepo,
		PaymentRepo:      paymentRepo,
		ExpenseRepo:      expenseRepo,
		NotificationRepo: notificationRepo,

		EmailService: emailService,

		PropertyService:  services.NewPropertyService(propertyRepo, unitRepo, log),
		TenantService:    services.NewTenantService(tenantRepo, propertyRepo, unitRepo, log),
		PaymentService:   services.NewPaymentService(paymentRepo, tenantRepo, propertyRepo, log),
		ExpenseService:   services.NewExpenseService(expenseRepo, propertyRepo, log),
		AnalyticsService: services.NewAnalyticsService(propertyRepo, unitRepo, tenantRepo, paymentRepo, expenseRepo, summaryCache, log),
		ReminderService:  reminderService,
	}
}
