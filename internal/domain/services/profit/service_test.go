package profit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func assertDecimal(t *testing.T, expected float64, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %v, got %s", expected, actual.String())
}

func newProperty(name string, propertyType entities.PropertyType) entities.Property {
	return entities.Property{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Name:    name,
		Type:    propertyType,
	}
}

func newTenant(propertyID uuid.UUID) entities.Tenant {
	return entities.Tenant{
		ID:         uuid.New(),
		PropertyID: propertyID,
		FirstName:  "Test",
		LastName:   "Tenant",
		Email:      "tenant@example.com",
	}
}

func newUnit(propertyID uuid.UUID) entities.Unit {
	return entities.Unit{
		ID:         uuid.New(),
		PropertyID: propertyID,
		Status:     entities.UnitStatusAvailable,
	}
}

func newPayment(tenantID uuid.UUID, amount float64, status entities.PaymentStatus, dueDate time.Time) entities.Payment {
	return entities.Payment{
		ID:       uuid.New(),
		TenantID: tenantID,
		Amount:   dec(amount),
		DueDate:  dueDate,
		Status:   status,
	}
}

func newExpense(propertyID uuid.UUID, amount float64, expenseType entities.ExpenseType, date time.Time) entities.Expense {
	return entities.Expense{
		ID:         uuid.New(),
		PropertyID: &propertyID,
		Type:       expenseType,
		Amount:     dec(amount),
		Date:       date,
	}
}

var testPeriod = entities.Period{Month: time.March, Year: 2026}

func periodDate(day int) time.Time {
	return time.Date(testPeriod.Year, testPeriod.Month, day, 0, 0, 0, 0, time.UTC)
}

func TestPortfolioProfit_EmptyPortfolio(t *testing.T) {
	calc := NewCalculator()

	summary := calc.PortfolioProfit(&Snapshot{}, testPeriod)

	assertDecimal(t, 0, summary.TotalRevenues)
	assertDecimal(t, 0, summary.TotalExpenses)
	assertDecimal(t, 0, summary.NetProfit)
	assertDecimal(t, 0, summary.AverageMargin)
	assertDecimal(t, 0, summary.TotalCashFlow)
	assert.Empty(t, summary.Properties)
	assert.Empty(t, summary.TopPerformers)
	assert.Empty(t, summary.UnderPerformers)
}

func TestPropertyProfit_RevenueConservation(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Rue Laval 12", entities.PropertyTypeEntire)
	tenant := newTenant(property.ID)

	snap := &Snapshot{
		Properties: []entities.Property{property},
		Tenants:    []entities.Tenant{tenant},
		Payments: []entities.Payment{
			newPayment(tenant.ID, 1000, entities.PaymentStatusPaid, periodDate(1)),
			newPayment(tenant.ID, 500, entities.PaymentStatusPending, periodDate(1)),
		},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	assertDecimal(t, 1500, analysis.Revenues.TotalRent)
	assertDecimal(t, 1000, analysis.Revenues.PaidRent)
	assertDecimal(t, 500, analysis.Revenues.PendingRent)
}

func TestPropertyProfit_NoPaymentsInPeriod(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Vacant", entities.PropertyTypeEntire)
	tenant := newTenant(property.ID)

	// Payment belongs to the previous month, not the target period
	snap := &Snapshot{
		Properties: []entities.Property{property},
		Tenants:    []entities.Tenant{tenant},
		Payments: []entities.Payment{
			newPayment(tenant.ID, 1000, entities.PaymentStatusPaid, periodDate(1).AddDate(0, -1, 0)),
		},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	assertDecimal(t, 0, analysis.Revenues.TotalRent)
	assertDecimal(t, 0, analysis.Revenues.PaidRent)
	assertDecimal(t, 0, analysis.Revenues.PendingRent)
	assertDecimal(t, 0, analysis.NetProfit.Margin)
}

func TestPropertyProfit_MarginSafetyOnZeroPaidRent(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Empty", entities.PropertyTypeEntire)
	property.MonthlyMortgage = dec(800)

	analysis := calc.PropertyProfit(&property, &Snapshot{Properties: []entities.Property{property}}, testPeriod)

	assertDecimal(t, 0, analysis.NetProfit.Margin)
	assertDecimal(t, -800, analysis.NetProfit.Net)
}

func TestPropertyProfit_ROISafety(t *testing.T) {
	calc := NewCalculator()

	t.Run("absent purchase price", func(t *testing.T) {
		property := newProperty("No price", entities.PropertyTypeEntire)

		analysis := calc.PropertyProfit(&property, &Snapshot{}, testPeriod)

		assertDecimal(t, 0, analysis.ROI.Monthly)
		assertDecimal(t, 0, analysis.ROI.Annual)
	})

	t.Run("non-positive purchase price", func(t *testing.T) {
		property := newProperty("Zero price", entities.PropertyTypeEntire)
		zero := decimal.Zero
		property.PurchasePrice = &zero

		analysis := calc.PropertyProfit(&property, &Snapshot{}, testPeriod)

		assertDecimal(t, 0, analysis.ROI.Monthly)
		assertDecimal(t, 0, analysis.ROI.Annual)
	})
}

func TestPropertyProfit_ROI(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Bought", entities.PropertyTypeEntire)
	price := dec(200000)
	property.PurchasePrice = &price
	tenant := newTenant(property.ID)

	snap := &Snapshot{
		Properties: []entities.Property{property},
		Tenants:    []entities.Tenant{tenant},
		Payments: []entities.Payment{
			newPayment(tenant.ID, 1000, entities.PaymentStatusPaid, periodDate(5)),
		},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	// net profit 1000 on a 200000 purchase: 0.5% monthly, 6% annual
	assertDecimal(t, 0.5, analysis.ROI.Monthly)
	assertDecimal(t, 6, analysis.ROI.Annual)
}

func TestPropertyProfit_ExpenseTotal(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Rue Principale 4", entities.PropertyTypeEntire)
	property.MonthlyMortgage = dec(800)
	property.MonthlyFixedCharges = dec(200)
	tenant := newTenant(property.ID)

	snap := &Snapshot{
		Properties: []entities.Property{property},
		Tenants:    []entities.Tenant{tenant},
		Payments: []entities.Payment{
			newPayment(tenant.ID, 1500, entities.PaymentStatusPaid, periodDate(1)),
		},
		Expenses: []entities.Expense{
			newExpense(property.ID, 150, entities.ExpenseTypeMaintenance, periodDate(10)),
			newExpense(property.ID, 50, entities.ExpenseTypeUtilities, periodDate(12)),
		},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	assertDecimal(t, 800, analysis.Expenses.Mortgage)
	assertDecimal(t, 200, analysis.Expenses.FixedCharges)
	assertDecimal(t, 150, analysis.Expenses.Maintenance)
	assertDecimal(t, 50, analysis.Expenses.Other)
	assertDecimal(t, 1200, analysis.Expenses.Total)
	assertDecimal(t, 500, analysis.NetProfit.Gross)
	assertDecimal(t, 300, analysis.NetProfit.Net)
	assertDecimal(t, 300, analysis.CashFlow)
}

func TestPropertyProfit_ExpenseMatchingIsDirect(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Mine", entities.PropertyTypeEntire)
	other := newProperty("Not mine", entities.PropertyTypeEntire)

	snap := &Snapshot{
		Properties: []entities.Property{property, other},
		Expenses: []entities.Expense{
			newExpense(other.ID, 300, entities.ExpenseTypeMaintenance, periodDate(3)),
			// No property link at all
			{ID: uuid.New(), Type: entities.ExpenseTypeOther, Amount: dec(75), Date: periodDate(4)},
			// Right property, wrong month
			newExpense(property.ID, 40, entities.ExpenseTypeOther, periodDate(1).AddDate(0, 1, 0)),
		},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	assertDecimal(t, 0, analysis.Expenses.Maintenance)
	assertDecimal(t, 0, analysis.Expenses.Other)
}

func TestPropertyProfit_OrphanedPaymentsExcluded(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Main", entities.PropertyTypeEntire)
	otherProperty := newProperty("Other", entities.PropertyTypeEntire)
	tenant := newTenant(property.ID)
	foreignTenant := newTenant(otherProperty.ID)

	snap := &Snapshot{
		Properties: []entities.Property{property, otherProperty},
		Tenants:    []entities.Tenant{tenant, foreignTenant},
		Payments: []entities.Payment{
			newPayment(tenant.ID, 900, entities.PaymentStatusPaid, periodDate(1)),
			// Tenant belongs to another property
			newPayment(foreignTenant.ID, 700, entities.PaymentStatusPaid, periodDate(1)),
			// Tenant no longer exists
			newPayment(uuid.New(), 600, entities.PaymentStatusPaid, periodDate(1)),
		},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	assertDecimal(t, 900, analysis.Revenues.TotalRent)
	assertDecimal(t, 900, analysis.Revenues.PaidRent)
}

func TestOccupancy_EntireProperty(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Whole house", entities.PropertyTypeEntire)

	t.Run("occupied", func(t *testing.T) {
		snap := &Snapshot{
			Properties: []entities.Property{property},
			Tenants:    []entities.Tenant{newTenant(property.ID)},
		}
		analysis := calc.PropertyProfit(&property, snap, testPeriod)
		assertDecimal(t, 100, analysis.Revenues.OccupancyRate)
	})

	t.Run("vacant", func(t *testing.T) {
		snap := &Snapshot{Properties: []entities.Property{property}}
		analysis := calc.PropertyProfit(&property, snap, testPeriod)
		assertDecimal(t, 0, analysis.Revenues.OccupancyRate)
	})
}

func TestOccupancy_SharedProperty(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Coloc", entities.PropertyTypeShared)

	snap := &Snapshot{
		Properties: []entities.Property{property},
		Units: []entities.Unit{
			newUnit(property.ID), newUnit(property.ID), newUnit(property.ID), newUnit(property.ID),
		},
		Tenants: []entities.Tenant{
			newTenant(property.ID), newTenant(property.ID), newTenant(property.ID),
		},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	assertDecimal(t, 75, analysis.Revenues.OccupancyRate)
}

func TestOccupancy_SharedPropertyWithoutUnits(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("No units yet", entities.PropertyTypeShared)

	snap := &Snapshot{
		Properties: []entities.Property{property},
		Tenants:    []entities.Tenant{newTenant(property.ID)},
	}

	analysis := calc.PropertyProfit(&property, snap, testPeriod)

	assertDecimal(t, 0, analysis.Revenues.OccupancyRate)
}

// buildPortfolioWithMargins creates one property per desired margin. Each
// property collects 1000 of paid rent; the mortgage is tuned so the net
// margin lands exactly on the requested value.
func buildPortfolioWithMargins(margins []float64) *Snapshot {
	snap := &Snapshot{}
	for i, margin := range margins {
		property := newProperty("P"+string(rune('A'+i)), entities.PropertyTypeEntire)
		property.MonthlyMortgage = dec(1000 - margin*10)
		tenant := newTenant(property.ID)
		snap.Properties = append(snap.Properties, property)
		snap.Tenants = append(snap.Tenants, tenant)
		snap.Payments = append(snap.Payments, newPayment(tenant.ID, 1000, entities.PaymentStatusPaid, periodDate(1)))
	}
	return snap
}

func TestPortfolioProfit_RankingDeterminism(t *testing.T) {
	calc := NewCalculator()
	snap := buildPortfolioWithMargins([]float64{25, 18, 12, 8, -5})

	summary := calc.PortfolioProfit(snap, testPeriod)

	require.Len(t, summary.Properties, 5)
	require.Len(t, summary.TopPerformers, 3)
	assertDecimal(t, 25, summary.TopPerformers[0].NetProfit.Margin)
	assertDecimal(t, 18, summary.TopPerformers[1].NetProfit.Margin)
	assertDecimal(t, 12, summary.TopPerformers[2].NetProfit.Margin)

	require.Len(t, summary.UnderPerformers, 2)
	assertDecimal(t, 8, summary.UnderPerformers[0].NetProfit.Margin)
	assertDecimal(t, -5, summary.UnderPerformers[1].NetProfit.Margin)
}

func TestPortfolioProfit_TopPerformersExcludeNegativeMargins(t *testing.T) {
	calc := NewCalculator()
	snap := buildPortfolioWithMargins([]float64{15, -2})

	summary := calc.PortfolioProfit(snap, testPeriod)

	require.Len(t, summary.TopPerformers, 1)
	assertDecimal(t, 15, summary.TopPerformers[0].NetProfit.Margin)
	// Both margins are below 10 except 15; only -2 qualifies as under-performer
	require.Len(t, summary.UnderPerformers, 1)
	assertDecimal(t, -2, summary.UnderPerformers[0].NetProfit.Margin)
}

func TestPortfolioProfit_Totals(t *testing.T) {
	calc := NewCalculator()
	snap := buildPortfolioWithMargins([]float64{20, 10})

	summary := calc.PortfolioProfit(snap, testPeriod)

	assertDecimal(t, 2000, summary.TotalRevenues)
	assertDecimal(t, 1700, summary.TotalExpenses)
	assertDecimal(t, 300, summary.NetProfit)
	assertDecimal(t, 15, summary.AverageMargin)
	assertDecimal(t, 300, summary.TotalCashFlow)
	assert.Equal(t, snap.Properties[0].ID, summary.Properties[0].PropertyID, "input order preserved")
}

func TestPropertyProfit_Idempotence(t *testing.T) {
	calc := NewCalculator()
	property := newProperty("Stable", entities.PropertyTypeShared)
	property.MonthlyMortgage = dec(400)
	tenant := newTenant(property.ID)

	snap := &Snapshot{
		Properties: []entities.Property{property},
		Units:      []entities.Unit{newUnit(property.ID), newUnit(property.ID)},
		Tenants:    []entities.Tenant{tenant},
		Payments: []entities.Payment{
			newPayment(tenant.ID, 650, entities.PaymentStatusPaid, periodDate(2)),
		},
		Expenses: []entities.Expense{
			newExpense(property.ID, 80, entities.ExpenseTypeMaintenance, periodDate(15)),
		},
	}

	first := calc.PropertyProfit(&property, snap, testPeriod)
	second := calc.PropertyProfit(&property, snap, testPeriod)

	assert.Equal(t, first, second)
}

func TestRecommendations(t *testing.T) {
	calc := NewCalculator()

	t.Run("healthy property yields expansion hint only", func(t *testing.T) {
		analysis := &entities.PropertyProfitAnalysis{
			Revenues: entities.RevenueBreakdown{
				PaidRent:      dec(1000),
				OccupancyRate: dec(100),
			},
			NetProfit: entities.ProfitBreakdown{Margin: dec(30)},
		}

		recs := calc.Recommendations(analysis)

		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "Excellent profitability")
	})

	t.Run("struggling property fires multiple rules", func(t *testing.T) {
		analysis := &entities.PropertyProfitAnalysis{
			Revenues: entities.RevenueBreakdown{
				PaidRent:      dec(1000),
				PendingRent:   dec(200),
				OccupancyRate: dec(50),
			},
			Expenses:  entities.ExpenseBreakdown{Maintenance: dec(150)},
			NetProfit: entities.ProfitBreakdown{Margin: dec(2)},
		}

		recs := calc.Recommendations(analysis)

		require.Len(t, recs, 4)
		assert.Contains(t, recs[0], "Very low margin")
		assert.Contains(t, recs[1], "Low occupancy")
		assert.Contains(t, recs[2], "High maintenance")
		assert.Contains(t, recs[3], "Outstanding payments")
	})

	t.Run("maintenance at exactly 10 percent does not fire", func(t *testing.T) {
		analysis := &entities.PropertyProfitAnalysis{
			Revenues: entities.RevenueBreakdown{
				PaidRent:      dec(1000),
				OccupancyRate: dec(100),
			},
			Expenses:  entities.ExpenseBreakdown{Maintenance: dec(100)},
			NetProfit: entities.ProfitBreakdown{Margin: dec(15)},
		}

		recs := calc.Recommendations(analysis)

		assert.Empty(t, recs)
	})
}

func TestProjections_HorizonAndRollover(t *testing.T) {
	calc := NewCalculator()
	analysis := &entities.PropertyProfitAnalysis{
		Period:    entities.Period{Month: time.December, Year: 2026},
		Revenues:  entities.RevenueBreakdown{OccupancyRate: dec(75)},
		NetProfit: entities.ProfitBreakdown{Net: dec(100)},
		CashFlow:  dec(100),
	}

	projections := calc.Projections(analysis, 12)

	require.Len(t, projections, 12)
	assert.Equal(t, time.January, projections[0].Month)
	assert.Equal(t, 2027, projections[0].Year)
	assert.Equal(t, time.December, projections[11].Month)
	assert.Equal(t, 2027, projections[11].Year)

	// Months advance sequentially
	for i := 1; i < len(projections); i++ {
		prev := entities.Period{Month: projections[i-1].Month, Year: projections[i-1].Year}
		assert.Equal(t, prev.Next(), entities.Period{Month: projections[i].Month, Year: projections[i].Year})
	}

	// Flat projection: every month carries the same scaled value
	for _, p := range projections {
		assertDecimal(t, 175, p.ProjectedProfit)
		assertDecimal(t, 175, p.ProjectedCashFlow)
	}
}

func TestProjections_DefaultHorizon(t *testing.T) {
	calc := NewCalculator()
	analysis := &entities.PropertyProfitAnalysis{
		Period: entities.Period{Month: time.June, Year: 2026},
	}

	projections := calc.Projections(analysis, 0)

	assert.Len(t, projections, DefaultProjectionHorizon)
}

func TestPeriodArithmetic(t *testing.T) {
	december := entities.Period{Month: time.December, Year: 2025}
	january := entities.Period{Month: time.January, Year: 2026}

	assert.Equal(t, january, december.Next())
	assert.Equal(t, december, january.Prev())
	assert.True(t, january.Contains(time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, january.Contains(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)))
}
