package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectionPoint is one month of the net worth series, historical or
// projected. Derived on demand, never stored.
type ProjectionPoint struct {
	Date         time.Time
	Value        decimal.Decimal
	IsHistorical bool
}

// PayoffPoint is the remaining balance of a liability after one month of
// simulated payments.
type PayoffPoint struct {
	Date             time.Time
	RemainingBalance decimal.Decimal
}

// GoalEstimate describes whether and when a net worth goal is reached
// under the projected monthly change.
type GoalEstimate struct {
	AchievedAt   *time.Time
	GoalAmount   decimal.Decimal
	MonthsToGoal int
	IsAchievable bool
}

// ProjectionResult is the full output of a net worth projection.
type ProjectionResult struct {
	Goal                  *GoalEstimate
	Points                []ProjectionPoint
	CurrentNetWorth       decimal.Decimal
	AverageMonthlyExpense decimal.Decimal
	MonthlyChange         decimal.Decimal
	IncludesRecurring     bool
}

// LiabilityPayoff is the amortization result for a single liability.
type LiabilityPayoff struct {
	PayoffDate        *time.Time
	MonthsToPayoff    *int
	AccountName       string
	Schedule          []PayoffPoint
	StartingBalance   decimal.Decimal
	MonthlyPayment    decimal.Decimal
	AnnualRate        decimal.Decimal
	TotalInterestPaid decimal.Decimal
	AccountID         int64
}

// PayoffResult aggregates the payoff views for every liability requested.
type PayoffResult struct {
	Liabilities []LiabilityPayoff
}
