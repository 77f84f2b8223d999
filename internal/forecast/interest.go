// Package forecast implements the amortization and projection calculators
// plus the net worth projection service built on top of them. The
// calculator functions are pure and safe for concurrent use.
package forecast

import (
	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
	twelve      = decimal.NewFromInt(12)
)

// SimpleInterest returns the APR accrual on balance at annualRate percent
// over the given number of days: balance × rate × days/365.
func SimpleInterest(balance, annualRate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	rate := annualRate.Div(hundred)
	return balance.Mul(rate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYear).Round(6)
}

// CompoundInterest returns the APY accrual with daily compounding on
// balance at annualRate percent over the given number of days:
// balance × ((1 + rate/365)^days − 1).
func CompoundInterest(balance, annualRate decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	rate := annualRate.Div(hundred)
	// Round the daily factor before exponentiation to keep the digit count
	// of the exact power bounded.
	daily := decimal.NewFromInt(1).Add(rate.Div(daysPerYear)).Round(12)
	factor := daily.Pow(decimal.NewFromInt(int64(days)))
	return balance.Mul(factor.Sub(decimal.NewFromInt(1))).Round(6)
}
