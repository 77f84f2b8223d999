package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/model"
)

// maxPayoffMonths bounds the amortization simulation. A liability that is
// still outstanding after 100 years is reported as never paying off.
const maxPayoffMonths = 1200

// AmortizeLiability simulates month-by-month payoff of a liability with the
// given starting balance (amount owed, positive), fixed monthly payment,
// and annual rate percent. When the payment does not cover the first
// month's interest the liability never pays off: PayoffDate and
// MonthsToPayoff stay nil and no schedule is produced. This is a valid
// business outcome, not an error.
func AmortizeLiability(balance, monthlyPayment, annualRate decimal.Decimal, from time.Time) model.LiabilityPayoff {
	result := model.LiabilityPayoff{
		StartingBalance: balance,
		MonthlyPayment:  monthlyPayment,
		AnnualRate:      annualRate,
	}

	if balance.LessThanOrEqual(decimal.Zero) {
		zero := 0
		payoff := from
		result.PayoffDate = &payoff
		result.MonthsToPayoff = &zero
		return result
	}
	if monthlyPayment.LessThanOrEqual(decimal.Zero) {
		return result
	}

	monthlyRate := annualRate.Div(hundred).Div(twelve)

	// Fail fast when the payment cannot cover interest; the balance would
	// only grow and the loop below would never terminate.
	if monthlyPayment.LessThanOrEqual(balance.Mul(monthlyRate)) {
		return result
	}

	remaining := balance
	totalInterest := decimal.Zero
	var points []model.PayoffPoint

	for month := 1; month <= maxPayoffMonths; month++ {
		interest := remaining.Mul(monthlyRate).Round(6)
		principal := monthlyPayment.Sub(interest)
		totalInterest = totalInterest.Add(interest)

		remaining = remaining.Sub(principal)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		date := from.AddDate(0, month, 0)
		points = append(points, model.PayoffPoint{Date: date, RemainingBalance: remaining})

		if remaining.IsZero() {
			months := month
			result.PayoffDate = &date
			result.MonthsToPayoff = &months
			break
		}
	}

	result.Schedule = points
	result.TotalInterestPaid = totalInterest
	return result
}
