// Package schedule computes next-occurrence dates for recurring cadences.
// All functions are pure and total: every valid input yields a date
// strictly after the anchor, so pollers always make progress.
package schedule

import (
	"time"

	"github.com/ahollister/coinflow/internal/model"
)

// NextOccurrence returns the first occurrence strictly after anchor for the
// given cadence. dayOfWeek pins weekly/biweekly schedules to a weekday;
// dayOfMonth pins monthly/quarterly schedules to a day, clamped to the last
// valid day of shorter months. Unknown frequencies fall back to anchor+1
// day rather than failing, keeping the calculator total.
func NextOccurrence(freq model.Frequency, anchor time.Time, dayOfWeek *time.Weekday, dayOfMonth *int) time.Time {
	var next time.Time

	switch freq {
	case model.FrequencyWeekly:
		next = nextWeekday(anchor, dayOfWeek, 7)
	case model.FrequencyBiweekly:
		next = nextWeekday(anchor, dayOfWeek, 14)
	case model.FrequencyMonthly:
		next = addMonthsClamped(anchor, 1, dayOfMonth)
	case model.FrequencyQuarterly:
		next = addMonthsClamped(anchor, 3, dayOfMonth)
	case model.FrequencyYearly:
		next = addYearClamped(anchor)
	default:
		next = anchor.AddDate(0, 0, 1)
	}

	// Clamping can never push a date backwards, but guard the postcondition
	// anyway: the result must be strictly after the anchor.
	if !next.After(anchor) {
		next = anchor.AddDate(0, 0, 1)
	}
	return next
}

// NextImportRun advances an auto-import schedule from the given completion
// time. Import cadences carry no day pinning; unknown values advance by one
// day so a misconfigured schedule still moves forward.
func NextImportRun(freq model.ImportFrequency, from time.Time) time.Time {
	switch freq {
	case model.ImportDaily:
		return from.AddDate(0, 0, 1)
	case model.ImportWeekly:
		return from.AddDate(0, 0, 7)
	case model.ImportMonthly:
		return from.AddDate(0, 1, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// nextWeekday finds the next occurrence for a weekly or biweekly cadence.
// step is 7 or 14. Without a pinned weekday the cadence advances by exactly
// one step. With one, the candidate is the first matching weekday after the
// anchor; biweekly cadences then enforce even week parity with the anchor
// so consecutive occurrences stay 14 days apart.
func nextWeekday(anchor time.Time, dayOfWeek *time.Weekday, step int) time.Time {
	if dayOfWeek == nil {
		return anchor.AddDate(0, 0, step)
	}

	next := anchor.AddDate(0, 0, 1)
	for next.Weekday() != *dayOfWeek {
		next = next.AddDate(0, 0, 1)
	}

	if step == 14 {
		days := int(next.Sub(anchor).Hours() / 24)
		if (days/7)%2 == 1 {
			next = next.AddDate(0, 0, 7)
		}
	}
	return next
}

// addMonthsClamped advances by whole calendar months, pinning to dayOfMonth
// when set and clamping to the target month's last day when the pinned day
// does not exist there (day 31 in a 30-day month, day 29+ in February).
func addMonthsClamped(anchor time.Time, months int, dayOfMonth *int) time.Time {
	year, month, _ := anchor.Date()
	month += time.Month(months)

	day := anchor.Day()
	if dayOfMonth != nil {
		day = *dayOfMonth
	}
	if last := daysInMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day,
		anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
}

// addYearClamped advances by one year, clamping Feb 29 anchors to Feb 28 in
// non-leap years.
func addYearClamped(anchor time.Time) time.Time {
	year, month, day := anchor.Date()
	year++
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day,
		anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
}

// daysInMonth returns the number of days in the given month. month may be
// outside 1-12; time.Date normalizes it.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
