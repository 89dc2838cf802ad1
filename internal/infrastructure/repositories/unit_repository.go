package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
)

// UnitRepository implements the unit repository interface using PostgreSQL
type UnitRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUnitRepository creates a new unit repository
func NewUnitRepository(db *sql.DB, logger *zap.Logger) *UnitRepository {
	return &UnitRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new unit
func (r *UnitRepository) Create(ctx context.Context, unit *entities.Unit) error {
	query := `
		INSERT INTO units (id, property_id, name, rent, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		unit.ID,
		unit.PropertyID,
		unit.Name,
		unit.Rent,
		string(unit.Status),
		unit.CreatedAt,
		unit.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("property does not exist: %w", err)
		}
		r.logger.Error("Failed to create unit", zap.Error(err), zap.String("property_id", unit.PropertyID.String()))
		return fmt.Errorf("failed to create unit: %w", err)
	}

	return nil
}

// GetByID retrieves a unit by ID
func (r *UnitRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Unit, error) {
	query := `
		SELECT id, property_id, name, rent, status, created_at, updated_at
		FROM units WHERE id = $1`

	unit := &entities.Unit{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&unit.ID,
		&unit.PropertyID,
		&unit.Name,
		&unit.Rent,
		&unit.Status,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("unit not found: %w", err)
		}
		r.logger.Error("Failed to get unit", zap.Error(err), zap.String("unit_id", id.String()))
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}

	return unit, nil
}

// ListByProperty retrieves all units of a property
func (r *UnitRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]entities.Unit, error) {
	query := `
		SELECT id, property_id, name, rent, status, created_at, updated_at
		FROM units WHERE property_id = $1 ORDER BY name`

	return r.queryUnits(ctx, query, propertyID)
}

// ListByOwner retrieves all units of all properties belonging to an owner
func (r *UnitRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Unit, error) {
	query := `
		SELECT u.id, u.property_id, u.name, u.rent, u.status, u.created_at, u.updated_at
		FROM units u
		JOIN properties p ON p.id = u.property_id
		WHERE p.owner_id = $1
		ORDER BY u.created_at`

	return r.queryUnits(ctx, query, ownerID)
}

func (r *UnitRepository) queryUnits(ctx context.Context, query string, args ...interface{}) ([]entities.Unit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list units", zap.Error(err))
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []entities.Unit
	for rows.Next() {
		var unit entities.Unit
		if err := rows.Scan(
			&unit.ID,
			&unit.PropertyID,
			&unit.Name,
			&unit.Rent,
			&unit.Status,
			&unit.CreatedAt,
			&unit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, unit)
	}

	return units, rows.Err()
}

// Update updates an existing unit
func (r *UnitRepository) Update(ctx context.Context, unit *entities.Unit) error {
	query := `
		UPDATE units SET name = $2, rent = $3, status = $4, updated_at = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		unit.ID,
		unit.Name,
		unit.Rent,
		string(unit.Status),
		unit.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update unit", zap.Error(err), zap.String("unit_id", unit.ID.String()))
		return fmt.Errorf("failed to update unit: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("unit not found: %s", unit.ID)
	}

	return nil
}

// Delete removes a unit
func (r *UnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM units WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete unit", zap.Error(err), zap.String("unit_id", id.String()))
		return fmt.Errorf("failed to delete unit: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("unit not found: %s", id)
	}

	return nil
}
