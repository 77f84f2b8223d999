package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmortizeLiability(t *testing.T) {
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	t.Run("pays off a simple loan", func(t *testing.T) {
		// 1200 at 0% with 100/month is exactly 12 months.
		result := AmortizeLiability(
			decimal.RequireFromString("1200"),
			decimal.RequireFromString("100"),
			decimal.Zero,
			from,
		)

		require.NotNil(t, result.MonthsToPayoff)
		assert.Equal(t, 12, *result.MonthsToPayoff)
		require.NotNil(t, result.PayoffDate)
		assert.Equal(t, from.AddDate(0, 12, 0), *result.PayoffDate)
		assert.True(t, result.TotalInterestPaid.IsZero())
		assert.Len(t, result.Schedule, 12)
		assert.True(t, result.Schedule[11].RemainingBalance.IsZero())
	})

	t.Run("interest extends the timeline", func(t *testing.T) {
		// 10000 at 18% with 300/month takes about 47 months.
		result := AmortizeLiability(
			decimal.RequireFromString("10000"),
			decimal.RequireFromString("300"),
			decimal.RequireFromString("18"),
			from,
		)

		require.NotNil(t, result.MonthsToPayoff)
		assert.Greater(t, *result.MonthsToPayoff, 33, "must take longer than the zero-interest case")
		assert.Less(t, *result.MonthsToPayoff, 60)
		assert.True(t, result.TotalInterestPaid.GreaterThan(decimal.Zero))
	})

	t.Run("payment below first month interest never pays off", func(t *testing.T) {
		// 10000 at 24% accrues 200/month; a 150 payment loses ground.
		result := AmortizeLiability(
			decimal.RequireFromString("10000"),
			decimal.RequireFromString("150"),
			decimal.RequireFromString("24"),
			from,
		)

		assert.Nil(t, result.MonthsToPayoff)
		assert.Nil(t, result.PayoffDate)
		assert.Empty(t, result.Schedule)
	})

	t.Run("payment exactly covering interest never pays off", func(t *testing.T) {
		result := AmortizeLiability(
			decimal.RequireFromString("10000"),
			decimal.RequireFromString("200"),
			decimal.RequireFromString("24"),
			from,
		)

		assert.Nil(t, result.MonthsToPayoff)
		assert.Nil(t, result.PayoffDate)
	})

	t.Run("zero payment never pays off", func(t *testing.T) {
		result := AmortizeLiability(
			decimal.RequireFromString("5000"),
			decimal.Zero,
			decimal.RequireFromString("5"),
			from,
		)

		assert.Nil(t, result.MonthsToPayoff)
		assert.Nil(t, result.PayoffDate)
	})

	t.Run("zero balance is already paid off", func(t *testing.T) {
		result := AmortizeLiability(decimal.Zero, decimal.RequireFromString("100"), decimal.Zero, from)

		require.NotNil(t, result.MonthsToPayoff)
		assert.Equal(t, 0, *result.MonthsToPayoff)
		require.NotNil(t, result.PayoffDate)
		assert.True(t, result.PayoffDate.Equal(from))
	})

	t.Run("final payment only covers the remainder", func(t *testing.T) {
		// 250 at 0% with 100/month: the third point must land on zero, not
		// go negative.
		result := AmortizeLiability(
			decimal.RequireFromString("250"),
			decimal.RequireFromString("100"),
			decimal.Zero,
			from,
		)

		require.NotNil(t, result.MonthsToPayoff)
		assert.Equal(t, 3, *result.MonthsToPayoff)
		assert.True(t, result.Schedule[2].RemainingBalance.IsZero())
	})
}
