package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyType distinguishes whole-property rentals from room-by-room rentals
type PropertyType string

const (
	PropertyTypeEntire PropertyType = "entire"
	PropertyTypeShared PropertyType = "shared"
)

// UnitStatus represents the letting state of a unit within a shared property
type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "available"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusMaintenance UnitStatus = "maintenance"
)

// Address holds the postal address of a property
type Address struct {
	Street     string `json:"street" db:"street"`
	Apartment  string `json:"apartment,omitempty" db:"apartment"`
	PostalCode string `json:"postal_code" db:"postal_code"`
	City       string `json:"city" db:"city"`
	Province   string `json:"province" db:"province"`
	Country    string `json:"country" db:"country"`
}

// Property represents a rental property managed by an owner.
// MonthlyMortgage and MonthlyFixedCharges default to zero; PurchasePrice is
// optional and only meaningful when positive.
type Property struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	OwnerID             uuid.UUID        `json:"owner_id" db:"owner_id"`
	Name                string           `json:"name" db:"name"`
	Address             Address          `json:"address"`
	Type                PropertyType     `json:"type" db:"type"`
	TotalRooms          int              `json:"total_rooms" db:"total_rooms"`
	TotalBathrooms      int              `json:"total_bathrooms" db:"total_bathrooms"`
	TotalArea           decimal.Decimal  `json:"total_area" db:"total_area"`
	Description         string           `json:"description,omitempty" db:"description"`
	Rent                *decimal.Decimal `json:"rent,omitempty" db:"rent"`
	MonthlyMortgage     decimal.Decimal  `json:"monthly_mortgage" db:"monthly_mortgage"`
	MonthlyFixedCharges decimal.Decimal  `json:"monthly_fixed_charges" db:"monthly_fixed_charges"`
	PurchasePrice       *decimal.Decimal `json:"purchase_price,omitempty" db:"purchase_price"`
	PurchaseDate        *time.Time       `json:"purchase_date,omitempty" db:"purchase_date"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at" db:"updated_at"`
}

// Unit is a lettable room inside a shared property
type Unit struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	PropertyID uuid.UUID       `json:"property_id" db:"property_id"`
	Name       string          `json:"name" db:"name"`
	Rent       decimal.Decimal `json:"rent" db:"rent"`
	Status     UnitStatus      `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// Tenant represents an active occupancy of a property (and optionally a unit).
// The existence of a tenant row implies the slot is occupied; no lease-date
// filtering is applied when computing occupancy.
type Tenant struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	PropertyID     uuid.UUID       `json:"property_id" db:"property_id"`
	UnitID         *uuid.UUID      `json:"unit_id,omitempty" db:"unit_id"`
	FirstName      string          `json:"first_name" db:"first_name"`
	LastName       string          `json:"last_name" db:"last_name"`
	Email          string          `json:"email" db:"email"`
	Phone          string          `json:"phone,omitempty" db:"phone"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent" db:"monthly_rent"`
	PaymentDueDate int             `json:"payment_due_date" db:"payment_due_date"`
	LeaseStart     time.Time       `json:"lease_start" db:"lease_start"`
	LeaseEnd       time.Time       `json:"lease_end" db:"lease_end"`
	DepositPaid    decimal.Decimal `json:"deposit_paid" db:"deposit_paid"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// FullName returns the tenant's display name
func (t *Tenant) FullName() string {
	if t.FirstName == "" {
		return t.LastName
	}
	return t.FirstName + " " + t.LastName
}
