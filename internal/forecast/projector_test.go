package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/testutil"
)

func TestProjector_ComputeNetWorthProjection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	checking := db.SeedAccount("Checking", model.AccountAsset)
	card := db.SeedAccount("Credit Card", model.AccountLiability)

	// Assets climb 500/month, the card holds steady at 1000 owed.
	db.SeedMonthlyBalances(checking, now.AddDate(0, -3, 0),
		"10000", "10500", "11000", "11500")
	db.SeedMonthlyBalances(card, now.AddDate(0, -3, 0),
		"1000", "1000", "1000", "1000")

	projector := NewProjector(db.Storage)
	projector.now = func() time.Time { return now }

	result, err := projector.ComputeNetWorthProjection(ctx, ProjectionOptions{Months: 6})
	require.NoError(t, err)

	// 11500 in assets minus 1000 owed.
	assert.True(t, result.CurrentNetWorth.Equal(decimal.RequireFromString("10500")),
		"current net worth = %s", result.CurrentNetWorth)
	assert.True(t, result.MonthlyChange.Equal(decimal.RequireFromString("500")),
		"monthly change = %s", result.MonthlyChange)

	last := result.Points[len(result.Points)-1]
	assert.True(t, last.Value.Equal(decimal.RequireFromString("13500")),
		"final point = %s", last.Value)
	assert.False(t, last.IsHistorical)
}

func TestProjector_ComputeNetWorthProjection_WithGoal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	checking := db.SeedAccount("Checking", model.AccountAsset)
	db.SeedMonthlyBalances(checking, now.AddDate(0, -2, 0), "9000", "9500", "10000")

	projector := NewProjector(db.Storage)
	projector.now = func() time.Time { return now }

	goal := decimal.RequireFromString("12000")
	result, err := projector.ComputeNetWorthProjection(ctx, ProjectionOptions{
		Months:     12,
		GoalAmount: &goal,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Goal)
	assert.True(t, result.Goal.IsAchievable)
	assert.Equal(t, 4, result.Goal.MonthsToGoal)
}

func TestProjector_ComputeLiabilityPayoff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	loan := db.SeedAccount("Car Loan", model.AccountLiability)
	db.SeedBalance(loan, now.AddDate(0, -1, 0), "1200")

	projector := NewProjector(db.Storage)
	projector.now = func() time.Time { return now }

	t.Run("stored setting drives the amortization", func(t *testing.T) {
		err := db.Storage.SavePayoffSetting(ctx, &model.PayoffSetting{
			AccountID:      loan,
			MonthlyPayment: decimal.RequireFromString("100"),
		})
		require.NoError(t, err)

		result, err := projector.ComputeLiabilityPayoff(ctx, nil)
		require.NoError(t, err)
		require.Len(t, result.Liabilities, 1)

		payoff := result.Liabilities[0]
		assert.Equal(t, loan, payoff.AccountID)
		require.NotNil(t, payoff.MonthsToPayoff)
		assert.Equal(t, 12, *payoff.MonthsToPayoff)
	})

	t.Run("override takes precedence", func(t *testing.T) {
		overrides := []model.PayoffSetting{
			{AccountID: loan, MonthlyPayment: decimal.RequireFromString("600")},
		}

		result, err := projector.ComputeLiabilityPayoff(ctx, overrides)
		require.NoError(t, err)
		require.Len(t, result.Liabilities, 1)

		payoff := result.Liabilities[0]
		require.NotNil(t, payoff.MonthsToPayoff)
		assert.Equal(t, 2, *payoff.MonthsToPayoff)
	})
}

func TestProjector_ComputeLiabilityPayoff_DetectsScheduleTerms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	loan := db.SeedAccount("Mortgage", model.AccountLiability)
	db.SeedBalance(loan, now.AddDate(0, -1, 0), "1000")

	// No payoff setting; the payment comes from the recurring debit and the
	// rate from the interest schedule.
	start := now.AddDate(0, -6, 0)
	require.NoError(t, db.Storage.CreateRecurringSchedule(ctx, &model.RecurringSchedule{
		Name:        "mortgage payment",
		AccountID:   loan,
		Frequency:   model.FrequencyMonthly,
		Amount:      decimal.RequireFromString("-200"),
		StartDate:   start,
		NextRunDate: start,
		IsActive:    true,
	}))
	require.NoError(t, db.Storage.CreateRecurringSchedule(ctx, &model.RecurringSchedule{
		Name:        "mortgage interest",
		AccountID:   loan,
		Frequency:   model.FrequencyMonthly,
		IsInterest:  true,
		AnnualRate:  decimal.RequireFromString("6"),
		StartDate:   start,
		NextRunDate: start,
		IsActive:    true,
	}))

	projector := NewProjector(db.Storage)
	projector.now = func() time.Time { return now }

	result, err := projector.ComputeLiabilityPayoff(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Liabilities, 1)

	payoff := result.Liabilities[0]
	assert.True(t, payoff.MonthlyPayment.Equal(decimal.RequireFromString("200")),
		"detected payment = %s", payoff.MonthlyPayment)
	assert.True(t, payoff.AnnualRate.Equal(decimal.RequireFromString("6")),
		"detected rate = %s", payoff.AnnualRate)
	require.NotNil(t, payoff.MonthsToPayoff)
	assert.True(t, payoff.TotalInterestPaid.GreaterThan(decimal.Zero))
}
