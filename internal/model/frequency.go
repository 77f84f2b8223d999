package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Frequency describes how often a recurring schedule fires.
type Frequency string

const (
	// FrequencyWeekly fires every week.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyBiweekly fires every two weeks.
	FrequencyBiweekly Frequency = "biweekly"
	// FrequencyMonthly fires every calendar month.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyQuarterly fires every three calendar months.
	FrequencyQuarterly Frequency = "quarterly"
	// FrequencyYearly fires every calendar year.
	FrequencyYearly Frequency = "yearly"
)

// Monthly-equivalent multipliers, approximating average weeks per month.
// Used to fold schedules of different cadences into a single monthly figure.
var (
	weeklyPerMonth    = decimal.NewFromFloat(4.33)
	biweeklyPerMonth  = decimal.NewFromFloat(2.167)
	monthlyPerMonth   = decimal.NewFromInt(1)
	quarterlyPerMonth = decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	yearlyPerMonth    = decimal.NewFromInt(1).Div(decimal.NewFromInt(12))
)

// MonthlyFactor returns the multiplier that converts one occurrence amount
// at this frequency into a monthly-equivalent amount.
func (f Frequency) MonthlyFactor() decimal.Decimal {
	switch f {
	case FrequencyWeekly:
		return weeklyPerMonth
	case FrequencyBiweekly:
		return biweeklyPerMonth
	case FrequencyMonthly:
		return monthlyPerMonth
	case FrequencyQuarterly:
		return quarterlyPerMonth
	case FrequencyYearly:
		return yearlyPerMonth
	default:
		return monthlyPerMonth
	}
}

// Valid reports whether the frequency is one of the supported cadences.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// ParseFrequency converts a string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("invalid frequency: %q", s)
	}
	return f, nil
}

// ImportFrequency describes how often an auto-import schedule fires.
// Day pinning is not modeled; imports always advance from the completion time.
type ImportFrequency string

const (
	// ImportDaily runs an import every day.
	ImportDaily ImportFrequency = "daily"
	// ImportWeekly runs an import every week.
	ImportWeekly ImportFrequency = "weekly"
	// ImportMonthly runs an import every calendar month.
	ImportMonthly ImportFrequency = "monthly"
)

// Valid reports whether the import frequency is supported.
func (f ImportFrequency) Valid() bool {
	switch f {
	case ImportDaily, ImportWeekly, ImportMonthly:
		return true
	}
	return false
}

// ParseImportFrequency converts a string into an ImportFrequency.
func ParseImportFrequency(s string) (ImportFrequency, error) {
	f := ImportFrequency(s)
	if !f.Valid() {
		return "", fmt.Errorf("invalid import frequency: %q", s)
	}
	return f, nil
}
