package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecurringSchedule represents one recurring money movement against an
// account. A schedule is either fixed-amount (Amount is the signed delta,
// positive credit / negative debit) or interest-bearing (IsInterest is set,
// AnnualRate is a percentage, and Amount is unused).
type RecurringSchedule struct {
	StartDate   time.Time
	NextRunDate time.Time
	EndDate     *time.Time
	LastRunDate *time.Time
	DayOfWeek   *time.Weekday
	DayOfMonth  *int
	Name        string
	Frequency   Frequency
	Amount      decimal.Decimal
	AnnualRate  decimal.Decimal
	ID          int64
	AccountID   int64
	IsInterest  bool
	Compounding bool
	IsActive    bool
}

// Validate checks schedule invariants before persistence.
func (r *RecurringSchedule) Validate() error {
	if r.AccountID == 0 {
		return fmt.Errorf("schedule must belong to an account")
	}
	if r.Name == "" {
		return fmt.Errorf("schedule name is required")
	}
	if !r.Frequency.Valid() {
		return fmt.Errorf("invalid frequency: %q", r.Frequency)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if r.NextRunDate.Before(r.StartDate) {
		return fmt.Errorf("next run date %s precedes start date %s",
			r.NextRunDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end date precedes start date")
	}
	if r.DayOfMonth != nil && (*r.DayOfMonth < 1 || *r.DayOfMonth > 31) {
		return fmt.Errorf("day of month must be 1-31, got %d", *r.DayOfMonth)
	}
	if r.IsInterest {
		if r.AnnualRate.IsZero() {
			return fmt.Errorf("interest schedule requires an annual rate")
		}
	}
	return nil
}

// Expired reports whether the schedule's next occurrence falls past its
// inclusive end date, meaning it must never be applied again.
func (r *RecurringSchedule) Expired() bool {
	return r.EndDate != nil && r.NextRunDate.After(*r.EndDate)
}

// MonthlyEquivalent returns the schedule's contribution folded into a
// monthly amount. Interest schedules have no fixed amount and contribute
// zero here; their effect shows up in the balance history instead.
func (r *RecurringSchedule) MonthlyEquivalent() decimal.Decimal {
	if r.IsInterest {
		return decimal.Zero
	}
	return r.Amount.Mul(r.Frequency.MonthlyFactor())
}
