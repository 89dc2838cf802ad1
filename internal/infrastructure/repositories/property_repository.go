package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
)

// PropertyRepository implements the property repository interface using PostgreSQL
type PropertyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *sql.DB, logger *zap.Logger) *PropertyRepository {
	return &PropertyRepository{
		db:     db,
		logger: logger,
	}
}

const propertyColumns = `
	id, owner_id, name, street, apartment, postal_code, city, province, country,
	type, total_rooms, total_bathrooms, total_area, description, rent,
	monthly_mortgage, monthly_fixed_charges, purchase_price, purchase_date,
	created_at, updated_at`

// Create creates a new property
func (r *PropertyRepository) Create(ctx context.Context, property *entities.Property) error {
	query := `
		INSERT INTO properties (
			id, owner_id, name, street, apartment, postal_code, city, province, country,
			type, total_rooms, total_bathrooms, total_area, description, rent,
			monthly_mortgage, monthly_fixed_charges, purchase_price, purchase_date,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21
		)`

	_, err := r.db.ExecContext(ctx, query,
		property.ID,
		property.OwnerID,
		property.Name,
		property.Address.Street,
		property.Address.Apartment,
		property.Address.PostalCode,
		property.Address.City,
		property.Address.Province,
		property.Address.Country,
		string(property.Type),
		property.TotalRooms,
		property.TotalBathrooms,
		property.TotalArea,
		property.Description,
		nullDecimal(property.Rent),
		property.MonthlyMortgage,
		property.MonthlyFixedCharges,
		nullDecimal(property.PurchasePrice),
		property.PurchaseDate,
		property.CreatedAt,
		property.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("property already exists: %w", err)
		}
		r.logger.Error("Failed to create property", zap.Error(err), zap.String("name", property.Name))
		return fmt.Errorf("failed to create property: %w", err)
	}

	r.logger.Debug("Property created", zap.String("property_id", property.ID.String()))
	return nil
}

// GetByID retrieves a property by ID
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	property, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("property not found: %w", err)
		}
		r.logger.Error("Failed to get property", zap.Error(err), zap.String("property_id", id.String()))
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return property, nil
}

// ListByOwner retrieves all properties belonging to an owner
func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to list properties", zap.Error(err), zap.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []entities.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, *property)
	}

	return properties, rows.Err()
}

// Update updates an existing property
func (r *PropertyRepository) Update(ctx context.Context, property *entities.Property) error {
	query := `
		UPDATE properties SET
			name = $2, street = $3, apartment = $4, postal_code = $5, city = $6,
			province = $7, country = $8, type = $9, total_rooms = $10,
			total_bathrooms = $11, total_area = $12, description = $13, rent = $14,
			monthly_mortgage = $15, monthly_fixed_charges = $16,
			purchase_price = $17, purchase_date = $18, updated_at = $19
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		property.ID,
		property.Name,
		property.Address.Street,
		property.Address.Apartment,
		property.Address.PostalCode,
		property.Address.City,
		property.Address.Province,
		property.Address.Country,
		string(property.Type),
		property.TotalRooms,
		property.TotalBathrooms,
		property.TotalArea,
		property.Description,
		nullDecimal(property.Rent),
		property.MonthlyMortgage,
		property.MonthlyFixedCharges,
		nullDecimal(property.PurchasePrice),
		property.PurchaseDate,
		property.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update property", zap.Error(err), zap.String("property_id", property.ID.String()))
		return fmt.Errorf("failed to update property: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("property not found: %s", property.ID)
	}

	return nil
}

// Delete removes a property
func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete property", zap.Error(err), zap.String("property_id", id.String()))
		return fmt.Errorf("failed to delete property: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProperty(row rowScanner) (*entities.Property, error) {
	property := &entities.Property{}
	var rent, purchasePrice decimal.NullDecimal
	var purchaseDate sql.NullTime
	var apartment, description sql.NullString

	err := row.Scan(
		&property.ID,
		&property.OwnerID,
		&property.Name,
		&property.Address.Street,
		&apartment,
		&property.Address.PostalCode,
		&property.Address.City,
		&property.Address.Province,
		&property.Address.Country,
		&property.Type,
		&property.TotalRooms,
		&property.TotalBathrooms,
		&property.TotalArea,
		&description,
		&rent,
		&property.MonthlyMortgage,
		&property.MonthlyFixedCharges,
		&purchasePrice,
		&purchaseDate,
		&property.CreatedAt,
		&property.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	property.Address.Apartment = apartment.String
	property.Description = description.String
	if rent.Valid {
		property.Rent = &rent.Decimal
	}
	if purchasePrice.Valid {
		property.PurchasePrice = &purchasePrice.Decimal
	}
	if purchaseDate.Valid {
		property.PurchaseDate = &purchaseDate.Time
	}

	return property, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
