package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/model"
)

// trailingWindowMonths is how far back the trend averages look.
const trailingWindowMonths = 12

// ProjectionInput carries everything the net worth projection needs.
// History must be ascending by date; one point per observed month.
type ProjectionInput struct {
	Now              time.Time
	GoalAmount       *decimal.Decimal
	History          []model.ProjectionPoint
	Schedules        []model.RecurringSchedule
	MonthlyExpenses  []decimal.Decimal
	Months           int
	IncludeRecurring bool
}

// ProjectNetWorth computes the forward net worth series from the trailing
// average monthly change, optionally adjusted by the monthly equivalents of
// the active recurring schedules, and evaluates goal achievability.
func ProjectNetWorth(in ProjectionInput) model.ProjectionResult {
	if in.Months <= 0 {
		in.Months = trailingWindowMonths
	}

	current := decimal.Zero
	if n := len(in.History); n > 0 {
		current = in.History[n-1].Value
	}

	change := averageMonthlyChange(in.History, in.Now)
	if in.IncludeRecurring {
		for _, s := range in.Schedules {
			if !s.IsActive {
				continue
			}
			change = change.Add(s.MonthlyEquivalent())
		}
	}

	result := model.ProjectionResult{
		CurrentNetWorth:       current,
		MonthlyChange:         change,
		AverageMonthlyExpense: averageExpense(in.MonthlyExpenses),
		IncludesRecurring:     in.IncludeRecurring,
	}

	points := make([]model.ProjectionPoint, 0, len(in.History)+in.Months)
	points = append(points, in.History...)

	value := current
	for m := 1; m <= in.Months; m++ {
		value = value.Add(change)
		points = append(points, model.ProjectionPoint{
			Date:  in.Now.AddDate(0, m, 0),
			Value: value,
		})
	}
	result.Points = points

	if in.GoalAmount != nil {
		goal := EstimateGoal(current, change, *in.GoalAmount, in.Now)
		result.Goal = &goal
	}
	return result
}

// EstimateGoal determines when a net worth goal is reached under a constant
// monthly change. A non-positive change with the goal still ahead means the
// goal is unreachable; the estimate is computed arithmetically so the
// answer is bounded regardless of how far away the goal is.
func EstimateGoal(current, monthlyChange, goal decimal.Decimal, now time.Time) model.GoalEstimate {
	est := model.GoalEstimate{GoalAmount: goal}

	if current.GreaterThanOrEqual(goal) {
		at := now
		est.IsAchievable = true
		est.MonthsToGoal = 0
		est.AchievedAt = &at
		return est
	}
	if monthlyChange.LessThanOrEqual(decimal.Zero) {
		return est
	}

	months := int(goal.Sub(current).Div(monthlyChange).Ceil().IntPart())
	at := now.AddDate(0, months, 0)
	est.IsAchievable = true
	est.MonthsToGoal = months
	est.AchievedAt = &at
	return est
}

// averageMonthlyChange computes the mean month-over-month net worth delta
// across the trailing window.
func averageMonthlyChange(history []model.ProjectionPoint, now time.Time) decimal.Decimal {
	cutoff := now.AddDate(0, -trailingWindowMonths, 0)

	var window []model.ProjectionPoint
	for _, p := range history {
		if !p.Date.Before(cutoff) {
			window = append(window, p)
		}
	}
	if len(window) < 2 {
		return decimal.Zero
	}

	sort.Slice(window, func(i, j int) bool { return window[i].Date.Before(window[j].Date) })

	first, last := window[0], window[len(window)-1]
	months := monthsBetween(first.Date, last.Date)
	if months <= 0 {
		return decimal.Zero
	}
	return last.Value.Sub(first.Value).Div(decimal.NewFromInt(int64(months))).Round(6)
}

func averageExpense(monthly []decimal.Decimal) decimal.Decimal {
	if len(monthly) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, m := range monthly {
		sum = sum.Add(m)
	}
	return sum.Div(decimal.NewFromInt(int64(len(monthly)))).Round(6)
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	years := b.Year() - a.Year()
	months := int(b.Month()) - int(a.Month())
	return years*12 + months
}
