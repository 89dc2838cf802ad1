package profit

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionloc/gestionloc_service/internal/domain/entities"
)

// DefaultProjectionHorizon is the number of months projected when the caller
// does not specify a horizon.
const DefaultProjectionHorizon = 12

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Snapshot is a read-only view of the entity store at computation time.
// The calculator never mutates it.
type Snapshot struct {
	Properties []entities.Property
	Units      []entities.Unit
	Tenants    []entities.Tenant
	Payments   []entities.Payment
	Expenses   []entities.Expense
}

// Calculator computes profitability analyses from an entity snapshot.
// It holds no state: every method is a pure function of its arguments.
type Calculator struct{}

// NewCalculator creates a new profit calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// snapshotIndex holds call-scoped lookup maps built once per computation,
// replacing repeated full-table scans. It is never retained across calls.
type snapshotIndex struct {
	tenantCountByProperty map[uuid.UUID]int
	unitCountByProperty   map[uuid.UUID]int
	paymentsByProperty    map[uuid.UUID][]*entities.Payment
	expensesByProperty    map[uuid.UUID][]*entities.Expense
}

func buildIndex(snap *Snapshot) *snapshotIndex {
	idx := &snapshotIndex{
		tenantCountByProperty: make(map[uuid.UUID]int, len(snap.Properties)),
		unitCountByProperty:   make(map[uuid.UUID]int, len(snap.Properties)),
		paymentsByProperty:    make(map[uuid.UUID][]*entities.Payment),
		expensesByProperty:    make(map[uuid.UUID][]*entities.Expense),
	}

	tenantProperty := make(map[uuid.UUID]uuid.UUID, len(snap.Tenants))
	for i := range snap.Tenants {
		t := &snap.Tenants[i]
		tenantProperty[t.ID] = t.PropertyID
		idx.tenantCountByProperty[t.PropertyID]++
	}

	for i := range snap.Units {
		idx.unitCountByProperty[snap.Units[i].PropertyID]++
	}

	// A payment belongs to a property only transitively through its tenant;
	// payments whose tenant is missing stay unindexed and are excluded.
	for i := range snap.Payments {
		p := &snap.Payments[i]
		propertyID, ok := tenantProperty[p.TenantID]
		if !ok {
			continue
		}
		idx.paymentsByProperty[propertyID] = append(idx.paymentsByProperty[propertyID], p)
	}

	for i := range snap.Expenses {
		e := &snap.Expenses[i]
		if e.PropertyID == nil {
			continue
		}
		idx.expensesByProperty[*e.PropertyID] = append(idx.expensesByProperty[*e.PropertyID], e)
	}

	return idx
}

// PropertyProfit computes the profitability of a single property for one
// calendar period.
func (c *Calculator) PropertyProfit(property *entities.Property, snap *Snapshot, period entities.Period) entities.PropertyProfitAnalysis {
	return c.propertyProfit(property, buildIndex(snap), period)
}

func (c *Calculator) propertyProfit(property *entities.Property, idx *snapshotIndex, period entities.Period) entities.PropertyProfitAnalysis {
	totalRent := decimal.Zero
	paidRent := decimal.Zero
	for _, p := range idx.paymentsByProperty[property.ID] {
		if !period.Contains(p.DueDate) {
			continue
		}
		totalRent = totalRent.Add(p.Amount)
		if p.Status == entities.PaymentStatusPaid {
			paidRent = paidRent.Add(p.Amount)
		}
	}
	pendingRent := totalRent.Sub(paidRent)

	occupancyRate := c.occupancyRate(property, idx)

	mortgage := property.MonthlyMortgage
	fixedCharges := property.MonthlyFixedCharges
	maintenance := decimal.Zero
	other := decimal.Zero
	for _, e := range idx.expensesByProperty[property.ID] {
		if !period.Contains(e.Date) {
			continue
		}
		if e.Type == entities.ExpenseTypeMaintenance {
			maintenance = maintenance.Add(e.Amount)
		} else {
			other = other.Add(e.Amount)
		}
	}
	totalExpenses := mortgage.Add(fixedCharges).Add(maintenance).Add(other)

	grossProfit := paidRent.Sub(mortgage).Sub(fixedCharges)
	netProfit := paidRent.Sub(totalExpenses)

	margin := decimal.Zero
	if paidRent.IsPositive() {
		margin = netProfit.Div(paidRent).Mul(hundred)
	}

	cashFlow := netProfit

	monthlyROI := decimal.Zero
	if property.PurchasePrice != nil && property.PurchasePrice.IsPositive() {
		monthlyROI = netProfit.Div(*property.PurchasePrice).Mul(hundred)
	}
	annualROI := monthlyROI.Mul(twelve)

	return entities.PropertyProfitAnalysis{
		PropertyID:   property.ID,
		PropertyName: property.Name,
		Period:       period,
		Revenues: entities.RevenueBreakdown{
			TotalRent:     totalRent,
			PaidRent:      paidRent,
			PendingRent:   pendingRent,
			OccupancyRate: occupancyRate,
		},
		Expenses: entities.ExpenseBreakdown{
			Mortgage:     mortgage,
			FixedCharges: fixedCharges,
			Maintenance:  maintenance,
			Other:        other,
			Total:        totalExpenses,
		},
		NetProfit: entities.ProfitBreakdown{
			Gross:  grossProfit,
			Net:    netProfit,
			Margin: margin,
		},
		CashFlow: cashFlow,
		ROI: entities.ROIBreakdown{
			Monthly: monthlyROI,
			Annual:  annualROI,
		},
	}
}

// occupancyRate returns the percentage of a property's capacity covered by
// active tenant records. For shared properties this counts tenants rather
// than distinct occupied units; two tenants on the same unit overstate the
// rate. Kept as-is intentionally.
func (c *Calculator) occupancyRate(property *entities.Property, idx *snapshotIndex) decimal.Decimal {
	tenantCount := idx.tenantCountByProperty[property.ID]

	if property.Type == entities.PropertyTypeEntire {
		if tenantCount > 0 {
			return hundred
		}
		return decimal.Zero
	}

	unitCount := idx.unitCountByProperty[property.ID]
	if unitCount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(tenantCount)).Div(decimal.NewFromInt(int64(unitCount))).Mul(hundred)
}

// PortfolioProfit computes the portfolio-wide summary for one period,
// invoking the per-property calculation once per property in input order.
func (c *Calculator) PortfolioProfit(snap *Snapshot, period entities.Period) entities.PortfolioProfitSummary {
	idx := buildIndex(snap)

	analyses := make([]entities.PropertyProfitAnalysis, 0, len(snap.Properties))
	for i := range snap.Properties {
		analyses = append(analyses, c.propertyProfit(&snap.Properties[i], idx, period))
	}

	totalRevenues := decimal.Zero
	totalExpenses := decimal.Zero
	totalCashFlow := decimal.Zero
	for i := range analyses {
		totalRevenues = totalRevenues.Add(analyses[i].Revenues.PaidRent)
		totalExpenses = totalExpenses.Add(analyses[i].Expenses.Total)
		totalCashFlow = totalCashFlow.Add(analyses[i].CashFlow)
	}
	netProfit := totalRevenues.Sub(totalExpenses)

	averageMargin := decimal.Zero
	if totalRevenues.IsPositive() {
		averageMargin = netProfit.Div(totalRevenues).Mul(hundred)
	}

	sortedByMargin := make([]entities.PropertyProfitAnalysis, len(analyses))
	copy(sortedByMargin, analyses)
	sort.SliceStable(sortedByMargin, func(i, j int) bool {
		return sortedByMargin[i].NetProfit.Margin.GreaterThan(sortedByMargin[j].NetProfit.Margin)
	})

	topPerformers := make([]entities.PropertyProfitAnalysis, 0, 3)
	for _, a := range firstN(sortedByMargin, 3) {
		if a.NetProfit.Margin.IsPositive() {
			topPerformers = append(topPerformers, a)
		}
	}

	// Last 3 of the descending sort are the lowest-margin properties overall.
	underThreshold := decimal.NewFromInt(10)
	underPerformers := make([]entities.PropertyProfitAnalysis, 0, 3)
	for _, a := range lastN(sortedByMargin, 3) {
		if a.NetProfit.Margin.LessThan(underThreshold) {
			underPerformers = append(underPerformers, a)
		}
	}

	return entities.PortfolioProfitSummary{
		Period:          period,
		TotalRevenues:   totalRevenues,
		TotalExpenses:   totalExpenses,
		NetProfit:       netProfit,
		AverageMargin:   averageMargin,
		TotalCashFlow:   totalCashFlow,
		Properties:      analyses,
		TopPerformers:   topPerformers,
		UnderPerformers: underPerformers,
	}
}

// Recommendations derives textual recommendations from a property analysis.
// The threshold rules are independent; several can fire at once.
func (c *Calculator) Recommendations(analysis *entities.PropertyProfitAnalysis) []string {
	recommendations := []string{}

	if analysis.NetProfit.Margin.LessThan(decimal.NewFromInt(5)) {
		recommendations = append(recommendations, "Very low margin - consider raising the rent or reducing expenses")
	}

	if analysis.Revenues.OccupancyRate.LessThan(decimal.NewFromInt(90)) {
		recommendations = append(recommendations, "Low occupancy rate - improve how the property is marketed")
	}

	maintenanceCeiling := analysis.Revenues.PaidRent.Mul(decimal.NewFromFloat(0.1))
	if analysis.Expenses.Maintenance.GreaterThan(maintenanceCeiling) {
		recommendations = append(recommendations, "High maintenance costs - plan preventive maintenance")
	}

	if analysis.NetProfit.Margin.GreaterThan(decimal.NewFromInt(20)) {
		recommendations = append(recommendations, "Excellent profitability - consider expanding the portfolio")
	}

	if analysis.Revenues.PendingRent.IsPositive() {
		recommendations = append(recommendations, "Outstanding payments - enable automatic reminders")
	}

	return recommendations
}

// Projections extrapolates an analysis monthsAhead future months, starting
// the month after the analysis period. Each month applies the same
// occupancy-derived multiplier to the base value; the projection is flat,
// not compounded.
func (c *Calculator) Projections(analysis *entities.PropertyProfitAnalysis, monthsAhead int) []entities.ProfitProjection {
	if monthsAhead <= 0 {
		monthsAhead = DefaultProjectionHorizon
	}

	factor := decimal.NewFromInt(1).Add(analysis.Revenues.OccupancyRate.Div(hundred))
	projectedProfit := analysis.NetProfit.Net.Mul(factor)
	projectedCashFlow := analysis.CashFlow.Mul(factor)

	projections := make([]entities.ProfitProjection, 0, monthsAhead)
	period := analysis.Period
	for i := 0; i < monthsAhead; i++ {
		period = period.Next()
		projections = append(projections, entities.ProfitProjection{
			Month:             period.Month,
			Year:              period.Year,
			ProjectedProfit:   projectedProfit,
			ProjectedCashFlow: projectedCashFlow,
		})
	}

	return projections
}

func firstN(analyses []entities.PropertyProfitAnalysis, n int) []entities.PropertyProfitAnalysis {
	if len(analyses) < n {
		n = len(analyses)
	}
	return analyses[:n]
}

func lastN(analyses []entities.PropertyProfitAnalysis, n int) []entities.PropertyProfitAnalysis {
	if len(analyses) < n {
		n = len(analyses)
	}
	return analyses[len(analyses)-n:]
}
