package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
)

// PropertyRepository manages rental properties
type PropertyRepository interface {
	Create(ctx context.Context, property *entities.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Property, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Property, error)
	Update(ctx context.Context, property *entities.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UnitRepository manages units of shared properties
type UnitRepository interface {
	Create(ctx context.Context, unit *entities.Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Unit, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entities.Unit, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Unit, error)
	Update(ctx context.Context, unit *entities.Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TenantRepository manages tenant occupancies
type TenantRepository interface {
	Create(ctx context.Context, tenant *entities.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entities.Tenant, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Tenant, error)
	ListActive(ctx context.Context, asOf time.Time) ([]entities.Tenant, error)
	Update(ctx context.Context, tenant *entities.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentRepository manages rent payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]entities.Payment, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Payment, error)
	ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]entities.Payment, error)
	ExistsForTenantInMonth(ctx context.Context, tenantID uuid.UUID, period entities.Period) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidDate *time.Time) error
	MarkLateBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExpenseRepository manages property expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entities.Expense) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]entities.Expense, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository records outbound tenant notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]entities.Notification, error)
	ExistsForPaymentSince(ctx context.Context, paymentID uuid.UUID, notificationType entities.NotificationType, since time.Time) (bool, error)
}
