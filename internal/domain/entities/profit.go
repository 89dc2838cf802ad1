package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period identifies a single calendar month
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// Contains reports whether t falls within the period's calendar month
func (p Period) Contains(t time.Time) bool {
	return t.Month() == p.Month && t.Year() == p.Year
}

// Next returns the following calendar month, rolling the year over December
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Month: time.January, Year: p.Year + 1}
	}
	return Period{Month: p.Month + 1, Year: p.Year}
}

// Prev returns the preceding calendar month, rolling the year back over January
func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Month: time.December, Year: p.Year - 1}
	}
	return Period{Month: p.Month - 1, Year: p.Year}
}

// RevenueBreakdown holds the revenue side of a property analysis
type RevenueBreakdown struct {
	TotalRent     decimal.Decimal `json:"total_rent"`
	PaidRent      decimal.Decimal `json:"paid_rent"`
	PendingRent   decimal.Decimal `json:"pending_rent"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"`
}

// ExpenseBreakdown holds the expense side of a property analysis
type ExpenseBreakdown struct {
	Mortgage     decimal.Decimal `json:"mortgage"`
	FixedCharges decimal.Decimal `json:"fixed_charges"`
	Maintenance  decimal.Decimal `json:"maintenance"`
	Other        decimal.Decimal `json:"other"`
	Total        decimal.Decimal `json:"total"`
}

// ProfitBreakdown holds gross/net profit and the net margin percentage.
// Gross ignores variable expenses; Net subtracts the full expense total.
type ProfitBreakdown struct {
	Gross  decimal.Decimal `json:"gross"`
	Net    decimal.Decimal `json:"net"`
	Margin decimal.Decimal `json:"margin"`
}

// ROIBreakdown holds return-on-investment percentages relative to the
// purchase price. Annual is monthly multiplied by 12, not compounded.
type ROIBreakdown struct {
	Monthly decimal.Decimal `json:"monthly"`
	Annual  decimal.Decimal `json:"annual"`
}

// PropertyProfitAnalysis is the profitability of one property for one period.
// It is derived state: recomputed on every call and never persisted.
type PropertyProfitAnalysis struct {
	PropertyID   uuid.UUID        `json:"property_id"`
	PropertyName string           `json:"property_name"`
	Period       Period           `json:"period"`
	Revenues     RevenueBreakdown `json:"revenues"`
	Expenses     ExpenseBreakdown `json:"expenses"`
	NetProfit    ProfitBreakdown  `json:"net_profit"`
	CashFlow     decimal.Decimal  `json:"cash_flow"`
	ROI          ROIBreakdown     `json:"roi"`
}

// PortfolioProfitSummary aggregates property analyses across a portfolio
// for one period.
type PortfolioProfitSummary struct {
	Period          Period                   `json:"period"`
	TotalRevenues   decimal.Decimal          `json:"total_revenues"`
	TotalExpenses   decimal.Decimal          `json:"total_expenses"`
	NetProfit       decimal.Decimal          `json:"net_profit"`
	AverageMargin   decimal.Decimal          `json:"average_margin"`
	TotalCashFlow   decimal.Decimal          `json:"total_cash_flow"`
	Properties      []PropertyProfitAnalysis `json:"properties"`
	TopPerformers   []PropertyProfitAnalysis `json:"top_performers"`
	UnderPerformers []PropertyProfitAnalysis `json:"under_performers"`
}

// ProfitProjection is one projected future month for a property
type ProfitProjection struct {
	Month             time.Month      `json:"month"`
	Year              int             `json:"year"`
	ProjectedProfit   decimal.Decimal `json:"projected_profit"`
	ProjectedCashFlow decimal.Decimal `json:"projected_cash_flow"`
}

// TrendPoint is one historical month in a property's profitability trend
type TrendPoint struct {
	Period    Period          `json:"period"`
	NetProfit decimal.Decimal `json:"net_profit"`
	Margin    decimal.Decimal `json:"margin"`
	CashFlow  decimal.Decimal `json:"cash_flow"`
}
