package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahollister/coinflow/internal/model"
)

func monthlyHistory(start time.Time, values ...string) []model.ProjectionPoint {
	points := make([]model.ProjectionPoint, 0, len(values))
	for i, v := range values {
		points = append(points, model.ProjectionPoint{
			Date:  start.AddDate(0, i, 0),
			Value: decimal.RequireFromString(v),
		})
	}
	return points
}

func TestProjectNetWorth(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	t.Run("steady growth projects linearly", func(t *testing.T) {
		// 500/month across six observations.
		history := monthlyHistory(now.AddDate(0, -5, 0),
			"10000", "10500", "11000", "11500", "12000", "12500")

		result := ProjectNetWorth(ProjectionInput{
			Now:     now,
			History: history,
			Months:  6,
		})

		assert.True(t, result.CurrentNetWorth.Equal(decimal.RequireFromString("12500")))
		assert.True(t, result.MonthlyChange.Equal(decimal.RequireFromString("500")),
			"monthly change = %s", result.MonthlyChange)
		require.Len(t, result.Points, len(history)+6)

		last := result.Points[len(result.Points)-1]
		assert.True(t, last.Value.Equal(decimal.RequireFromString("15500")),
			"final point = %s", last.Value)
	})

	t.Run("recurring schedules shift the trend", func(t *testing.T) {
		history := monthlyHistory(now.AddDate(0, -5, 0),
			"10000", "10500", "11000", "11500", "12000", "12500")
		schedules := []model.RecurringSchedule{
			{Name: "rent", Frequency: model.FrequencyMonthly,
				Amount: decimal.RequireFromString("-1500"), IsActive: true},
			{Name: "paused", Frequency: model.FrequencyMonthly,
				Amount: decimal.RequireFromString("-9999"), IsActive: false},
		}

		result := ProjectNetWorth(ProjectionInput{
			Now:              now,
			History:          history,
			Schedules:        schedules,
			Months:           3,
			IncludeRecurring: true,
		})

		// 500 trend minus 1500 rent; the paused schedule is ignored.
		assert.True(t, result.MonthlyChange.Equal(decimal.RequireFromString("-1000")),
			"monthly change = %s", result.MonthlyChange)
		assert.True(t, result.IncludesRecurring)
	})

	t.Run("observations outside the trailing window are ignored", func(t *testing.T) {
		history := append(
			monthlyHistory(now.AddDate(0, -30, 0), "50000"),
			monthlyHistory(now.AddDate(0, -3, 0), "10000", "10100", "10200", "10300")...,
		)

		result := ProjectNetWorth(ProjectionInput{Now: now, History: history, Months: 1})

		assert.True(t, result.MonthlyChange.Equal(decimal.RequireFromString("100")),
			"monthly change = %s", result.MonthlyChange)
	})

	t.Run("fewer than two observations yields a flat projection", func(t *testing.T) {
		history := monthlyHistory(now, "10000")

		result := ProjectNetWorth(ProjectionInput{Now: now, History: history, Months: 3})

		assert.True(t, result.MonthlyChange.IsZero())
		last := result.Points[len(result.Points)-1]
		assert.True(t, last.Value.Equal(decimal.RequireFromString("10000")))
	})

	t.Run("defaults to a twelve month horizon", func(t *testing.T) {
		history := monthlyHistory(now.AddDate(0, -1, 0), "100", "200")

		result := ProjectNetWorth(ProjectionInput{Now: now, History: history})

		assert.Len(t, result.Points, len(history)+12)
	})
}

func TestEstimateGoal(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		current    string
		change     string
		goal       string
		achievable bool
		months     int
	}{
		{
			name:       "already achieved",
			current:    "50000",
			change:     "500",
			goal:       "40000",
			achievable: true,
			months:     0,
		},
		{
			name:       "exact division",
			current:    "10000",
			change:     "500",
			goal:       "16000",
			achievable: true,
			months:     12,
		},
		{
			name:       "partial month rounds up",
			current:    "10000",
			change:     "400",
			goal:       "11000",
			achievable: true,
			months:     3, // 2.5 months rounds up
		},
		{
			name:       "zero change is unreachable",
			current:    "10000",
			change:     "0",
			goal:       "20000",
			achievable: false,
		},
		{
			name:       "negative change is unreachable",
			current:    "10000",
			change:     "-250",
			goal:       "20000",
			achievable: false,
		},
		{
			name:       "distant goal stays bounded",
			current:    "0",
			change:     "0.01",
			goal:       "1000000000",
			achievable: true,
			months:     100000000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateGoal(
				decimal.RequireFromString(tt.current),
				decimal.RequireFromString(tt.change),
				decimal.RequireFromString(tt.goal),
				now,
			)

			assert.Equal(t, tt.achievable, got.IsAchievable)
			if tt.achievable {
				assert.Equal(t, tt.months, got.MonthsToGoal)
				require.NotNil(t, got.AchievedAt)
			} else {
				assert.Nil(t, got.AchievedAt)
			}
		})
	}
}
