package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType categorizes outbound tenant notifications
type NotificationType string

const (
	NotificationTypePaymentReminder NotificationType = "payment_reminder"
	NotificationTypePaymentOverdue  NotificationType = "payment_overdue"
	NotificationTypePaymentReceived NotificationType = "payment_received"
)

// Notification records an outbound message sent to a tenant, used to audit
// reminder delivery and avoid duplicate sends.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	TenantID  uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	PaymentID *uuid.UUID       `json:"payment_id,omitempty" db:"payment_id"`
	Type      NotificationType `json:"type" db:"type"`
	Subject   string           `json:"subject" db:"subject"`
	Body      string           `json:"body" db:"body"`
	Channel   string           `json:"channel" db:"channel"`
	SentAt    time.Time        `json:"sent_at" db:"sent_at"`
}
