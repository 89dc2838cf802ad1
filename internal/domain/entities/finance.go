package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents the lifecycle state of a rent payment
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusLate    PaymentStatus = "late"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Payment is a rent payment owed by a tenant. It belongs to a property
// transitively through its tenant.
type Payment struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	TenantID  uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	DueDate   time.Time       `json:"due_date" db:"due_date"`
	PaidDate  *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
	Status    PaymentStatus   `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ExpenseType categorizes property expenses
type ExpenseType string

const (
	ExpenseTypeMaintenance ExpenseType = "maintenance"
	ExpenseTypeRenovation  ExpenseType = "renovation"
	ExpenseTypeUtilities   ExpenseType = "utilities"
	ExpenseTypeInsurance   ExpenseType = "insurance"
	ExpenseTypeTaxes       ExpenseType = "taxes"
	ExpenseTypeOther       ExpenseType = "other"
)

// Expense is a cost incurred against a property (and optionally a unit)
type Expense struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	PropertyID  *uuid.UUID      `json:"property_id,omitempty" db:"property_id"`
	UnitID      *uuid.UUID      `json:"unit_id,omitempty" db:"unit_id"`
	Type        ExpenseType     `json:"type" db:"type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
