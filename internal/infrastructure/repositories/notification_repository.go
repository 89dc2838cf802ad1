package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
)

// NotificationRepository implements the notification repository interface using PostgreSQL
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create records an outbound notification
func (r *NotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	query := `
		INSERT INTO notifications (id, tenant_id, payment_id, type, subject, body, channel, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.TenantID,
		nullUUID(notification.PaymentID),
		string(notification.Type),
		notification.Subject,
		notification.Body,
		notification.Channel,
		notification.SentAt,
	)
	if err != nil {
		r.logger.Error("Failed to record notification", zap.Error(err), zap.String("tenant_id", notification.TenantID.String()))
		return fmt.Errorf("failed to record notification: %w", err)
	}

	return nil
}

// ListByTenant retrieves notifications sent to a tenant, most recent first
func (r *NotificationRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]entities.Notification, error) {
	query := `
		SELECT id, tenant_id, payment_id, type, subject, body, channel, sent_at
		FROM notifications WHERE tenant_id = $1
		ORDER BY sent_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []entities.Notification
	for rows.Next() {
		var notification entities.Notification
		var paymentID uuid.NullUUID
		if err := rows.Scan(
			&notification.ID,
			&notification.TenantID,
			&paymentID,
			&notification.Type,
			&notification.Subject,
			&notification.Body,
			&notification.Channel,
			&notification.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if paymentID.Valid {
			notification.PaymentID = &paymentID.UUID
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}

// ExistsForPaymentSince reports whether a notification of the given type was
// already sent for the payment after the given instant. Used to avoid
// duplicate reminders.
func (r *NotificationRepository) ExistsForPaymentSince(ctx context.Context, paymentID uuid.UUID, notificationType entities.NotificationType, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE payment_id = $1 AND type = $2 AND sent_at >= $3
		)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, paymentID, string(notificationType), since).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error("Failed to check notification existence", zap.Error(err))
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}

	return exists, nil
}
