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

// ExpenseRepository implements the expense repository interface using PostgreSQL
type ExpenseRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		db:     db,
		logger: logger,
	}
}

const expenseColumns = `id, property_id, unit_id, type, amount, date, description, created_at`

// Create creates a new expense
func (r *ExpenseRepository) Create(ctx context.Context, expense *entities.Expense) error {
	query := `
		INSERT INTO expenses (id, property_id, unit_id, type, amount, date, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		expense.ID,
		nullUUID(expense.PropertyID),
		nullUUID(expense.UnitID),
		string(expense.Type),
		expense.Amount,
		expense.Date,
		expense.Description,
		expense.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("property or unit does not exist: %w", err)
		}
		r.logger.Error("Failed to create expense", zap.Error(err))
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("expense not found: %w", err)
		}
		r.logger.Error("Failed to get expense", zap.Error(err), zap.String("expense_id", id.String()))
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// ListByProperty retrieves expenses of a property, most recent first
func (r *ExpenseRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]entities.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses WHERE property_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3`
	return r.queryExpenses(ctx, query, propertyID, limit, offset)
}

// ListByOwner retrieves every expense across an owner's properties
func (r *ExpenseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entities.Expense, error) {
	query := `
		SELECT e.id, e.property_id, e.unit_id, e.type, e.amount, e.date,
		       e.description, e.created_at
		FROM expenses e
		JOIN properties p ON p.id = e.property_id
		WHERE p.owner_id = $1
		ORDER BY e.date`
	return r.queryExpenses(ctx, query, ownerID)
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete expense", zap.Error(err), zap.String("expense_id", id.String()))
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return fmt.Errorf("expense not found: %s", id)
	}

	return nil
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]entities.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list expenses", zap.Error(err))
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []entities.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}

	return expenses, rows.Err()
}

func scanExpense(row rowScanner) (*entities.Expense, error) {
	expense := &entities.Expense{}
	var propertyID, unitID uuid.NullUUID
	var description sql.NullString

	err := row.Scan(
		&expense.ID,
		&propertyID,
		&unitID,
		&expense.Type,
		&expense.Amount,
		&expense.Date,
		&description,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Description = description.String
	if propertyID.Valid {
		expense.PropertyID = &propertyID.UUID
	}
	if unitID.Valid {
		expense.UnitID = &unitID.UUID
	}

	return expense, nil
}
