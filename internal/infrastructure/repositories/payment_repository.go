package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
)

// PaymentRepository implements the payment repository interface using PostgreSQL
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

const paymentColumns = `id, tenant_id, amount, due_date, paid_date, status, created_at, updated_at`

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	query := `
		INSERT INTO payments (id, tenant_id, amount, due_date, paid_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.TenantID,
		payment.Amount,
		payment.DueDate,
		payment.PaidDate,
		string(payment.Status),
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("tenant does not exist: %w", err)
		}
		r.logger.Error("Failed to create payment", zap.Error(err), zap.String("tenant_id", payment.TenantID.String()))
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("payment not found: %w", err)
		}
		r.logger.Error("Failed to get payment", zap.Error(err), zap.String("payment_id", id.String()))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return payment, nil
}

// ListByTenant retrieves payments of a tenant, most recent first
func (r *PaymentRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]entities.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments WHERE tenant_id = $1
		ORDER BY due_date DESC
		LIMIT $2 OFFSET $3`
	return r.queryPayments(ctx, query, tenantID, limit, offset)
}

// ListByOwner retrieves every payment across an owner's properties
func (r *PaymentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Payment, error) {
	query := `
		SELECT pay.id, pay.tenant_id, pay.amount, pay.due_date, pay.paid_date,
		       pay.status, pay.created_at, pay.updated_at
		FROM payments pay
		JOIN tenants t ON t.id = pay.tenant_id
		JOIN properties p ON p.id = t.property_id
		WHERE p.owner_id = $1
		ORDER BY pay.due_date`
	return r.queryPayments(ctx, query, ownerID)
}

// ListPendingDueBetween retrieves pending payments whose due date falls in [from, to]
func (r *PaymentRepository) ListPendingDueBetween(ctx context.Context, from, to time.Time) ([]entities.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE status = 'pending' AND due_date >= $1 AND due_date <= $2
		ORDER BY due_date`
	return r.queryPayments(ctx, query, from, to)
}

// ExistsForTenantInMonth reports whether the tenant already has a payment due
// within the given calendar month
func (r *PaymentRepository) ExistsForTenantInMonth(ctx context.Context, tenantID uuid.UUID, period entities.Period) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE tenant_id = $1
			  AND EXTRACT(MONTH FROM due_date) = $2
			  AND EXTRACT(YEAR FROM due_date) = $3
		)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, tenantID, int(period.Month), period.Year).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check payment existence", zap.Error(err), zap.String("tenant_id", tenantID.String()))
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}

	return exists, nil
}

// UpdateStatus transitions a payment to a new status, optionally recording the paid date
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus, paidDate *time.Time) error {
	query := `UPDATE payments SET status = $2, paid_date = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, string(status), paidDate)
	if err != nil {
		r.logger.Error("Failed to update payment status", zap.Error(err), zap.String("payment_id", id.String()))
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("payment not found: %s", id)
	}

	return nil
}

// MarkLateBefore flips pending payments past their due date to late and
// returns how many rows changed
func (r *PaymentRepository) MarkLateBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE payments SET status = 'late', updated_at = NOW() WHERE status = 'pending' AND due_date < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		r.logger.Error("Failed to mark late payments", zap.Error(err))
		return 0, fmt.Errorf("failed to mark late payments: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count late payments: %w", err)
	}

	return affected, nil
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...interface{}) ([]entities.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list payments", zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []entities.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *payment)
	}

	return payments, rows.Err()
}

func scanPayment(row rowScanner) (*entities.Payment, error) {
	payment := &entities.Payment{}
	var paidDate sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.TenantID,
		&payment.Amount,
		&payment.DueDate,
		&paidDate,
		&payment.Status,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paidDate.Valid {
		payment.PaidDate = &paidDate.Time
	}

	return payment, nil
}
