package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
	"github.com/gestionloc/gestionloc_service/internal/domain/repositories"
	apperrors "github.com/gestionloc/gestionloc_service/pkg/errors"
	"github.com/gestionloc/gestionloc_service/pkg/logger"
)

// ExpenseService manages property expenses
type ExpenseService struct {
	expenseRepo  repositories.ExpenseRepository
	propertyRepo repositories.PropertyRepository
	logger       *logger.Logger
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repositories.ExpenseRepository, propertyRepo repositories.PropertyRepository, logger *logger.Logger) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

// CreateExpense validates and persists an expense. Expenses without a
// property are allowed but never enter any property analysis.
func (s *ExpenseService) CreateExpense(ctx context.Context, ownerID uuid.UUID, expense *entities.Expense) error {
	if expense.PropertyID != nil {
		if _, err := s.ownedProperty(ctx, ownerID, *expense.PropertyID); err != nil {
			return err
		}
	}
	if expense.Amount.IsNegative() {
		return apperrors.ValidationError("expense amount must not be negative")
	}
	switch expense.Type {
	case entities.ExpenseTypeMaintenance, entities.ExpenseTypeRenovation, entities.ExpenseTypeUtilities,
		entities.ExpenseTypeInsurance, entities.ExpenseTypeTaxes, entities.ExpenseTypeOther:
	default:
		return apperrors.ValidationError("unknown expense type")
	}
	if expense.Date.IsZero() {
		return apperrors.NewWithDetails(apperrors.ErrCodeMissingField, "expense date is required", map[string]interface{}{"field": "date"})
	}

	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	expense.CreatedAt = time.Now()

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		s.logger.CtxError(ctx, "Failed to create expense", "error", err, "owner_id", ownerID.String())
		return fmt.Errorf("create expense: %w", err)
	}

	return nil
}

// ListExpenses returns all expenses across an owner's properties
func (s *ExpenseService) ListExpenses(ctx context.Context, ownerID uuid.UUID) ([]entities.Expense, error) {
	return s.expenseRepo.ListByOwner(ctx, ownerID)
}

// ListExpensesByProperty returns a page of one property's expenses
func (s *ExpenseService) ListExpensesByProperty(ctx context.Context, ownerID, propertyID uuid.UUID, limit, offset int) ([]entities.Expense, error) {
	if _, err := s.ownedProperty(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListByProperty(ctx, propertyID, limit, offset)
}

// DeleteExpense removes an expense after checking ownership
func (s *ExpenseService) DeleteExpense(ctx context.Context, ownerID, expenseID uuid.UUID) error {
	expense, err := s.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return notFoundOr(err, apperrors.ErrCodeExpenseNotFound, "expense")
	}
	if expense.PropertyID != nil {
		if _, err := s.ownedProperty(ctx, ownerID, *expense.PropertyID); err != nil {
			return err
		}
	}

	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		s.logger.CtxError(ctx, "Failed to delete expense", "error", err, "expense_id", expenseID.String())
		return fmt.Errorf("delete expense: %w", err)
	}

	return nil
}

func (s *ExpenseService) ownedProperty(ctx context.Context, ownerID, propertyID uuid.UUID) (*entities.Property, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, apperrors.NotFound(apperrors.ErrCodePropertyNotFound, "property")
	}
	if property.OwnerID != ownerID {
		return nil, apperrors.Forbidden("property belongs to another owner")
	}
	return property, nil
}
