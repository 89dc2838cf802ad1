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

// TenantRepository implements the tenant repository interface using PostgreSQL
type TenantRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *sql.DB, logger *zap.Logger) *TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger,
	}
}

const tenantColumns = `
	id, property_id, unit_id, first_name, last_name, email, phone, monthly_rent,
	payment_due_date, lease_start, lease_end, deposit_paid, created_at, updated_at`

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *entities.Tenant) error {
	query := `
		INSERT INTO tenants (
			id, property_id, unit_id, first_name, last_name, email, phone,
			monthly_rent, payment_due_date, lease_start, lease_end, deposit_paid,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		tenant.ID,
		tenant.PropertyID,
		nullUUID(tenant.UnitID),
		tenant.FirstName,
		tenant.LastName,
		tenant.Email,
		tenant.Phone,
		tenant.MonthlyRent,
		tenant.PaymentDueDate,
		tenant.LeaseStart,
		tenant.LeaseEnd,
		tenant.DepositPaid,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("property or unit does not exist: %w", err)
		}
		r.logger.Error("Failed to create tenant", zap.Error(err), zap.String("email", tenant.Email))
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	r.logger.Debug("Tenant created", zap.String("tenant_id", tenant.ID.String()))
	return nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`

	tenant, err := scanTenant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant not found: %w", err)
		}
		r.logger.Error("Failed to get tenant", zap.Error(err), zap.String("tenant_id", id.String()))
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}

// ListByProperty retrieves all tenants of a property
func (r *TenantRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entities.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE property_id = $1 ORDER BY created_at`
	return r.queryTenants(ctx, query, propertyID)
}

// ListByOwner retrieves all tenants across an owner's properties
func (r *TenantRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Tenant, error) {
	query := `
		SELECT t.id, t.property_id, t.unit_id, t.first_name, t.last_name, t.email,
		       t.phone, t.monthly_rent, t.payment_due_date, t.lease_start,
		       t.lease_end, t.deposit_paid, t.created_at, t.updated_at
		FROM tenants t
		JOIN properties p ON p.id = t.property_id
		WHERE p.owner_id = $1
		ORDER BY t.created_at`
	return r.queryTenants(ctx, query, ownerID)
}

// ListActive retrieves tenants whose lease covers the given instant
func (r *TenantRepository) ListActive(ctx context.Context, asOf time.Time) ([]entities.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE lease_start <= $1 AND lease_end >= $1`
	return r.queryTenants(ctx, query, asOf)
}

func (r *TenantRepository) queryTenants(ctx context.Context, query string, args ...interface{}) ([]entities.Tenant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list tenants", zap.Error(err))
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []entities.Tenant
	for rows.Next() {
		tenant, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, *tenant)
	}

	return tenants, rows.Err()
}

// Update updates an existing tenant
func (r *TenantRepository) Update(ctx context.Context, tenant *entities.Tenant) error {
	query := `
		UPDATE tenants SET
			property_id = $2, unit_id = $3, first_name = $4, last_name = $5,
			email = $6, phone = $7, monthly_rent = $8, payment_due_date = $9,
			lease_start = $10, lease_end = $11, deposit_paid = $12, updated_at = $13
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		tenant.ID,
		tenant.PropertyID,
		nullUUID(tenant.UnitID),
		tenant.FirstName,
		tenant.LastName,
		tenant.Email,
		tenant.Phone,
		tenant.MonthlyRent,
		tenant.PaymentDueDate,
		tenant.LeaseStart,
		tenant.LeaseEnd,
		tenant.DepositPaid,
		tenant.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update tenant", zap.Error(err), zap.String("tenant_id", tenant.ID.String()))
		return fmt.Errorf("failed to update tenant: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("tenant not found: %s", tenant.ID)
	}

	return nil
}

// Delete removes a tenant
func (r *TenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete tenant", zap.Error(err), zap.String("tenant_id", id.String()))
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("tenant not found: %s", id)
	}

	return nil
}

func scanTenant(row rowScanner) (*entities.Tenant, error) {
	tenant := &entities.Tenant{}
	var unitID uuid.NullUUID
	var phone sql.NullString

	err := row.Scan(
		&tenant.ID,
		&tenant.PropertyID,
		&unitID,
		&tenant.FirstName,
		&tenant.LastName,
		&tenant.Email,
		&phone,
		&tenant.MonthlyRent,
		&tenant.PaymentDueDate,
		&tenant.LeaseStart,
		&tenant.LeaseEnd,
		&tenant.DepositPaid,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tenant.Phone = phone.String
	if unitID.Valid {
		tenant.UnitID = &unitID.UUID
	}

	return tenant, nil
}
