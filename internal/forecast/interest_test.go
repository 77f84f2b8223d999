package forecast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleInterest(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		rate    string
		days    int
		want    string
	}{
		{
			name:    "10k at 5 percent for a year",
			balance: "10000",
			rate:    "5",
			days:    365,
			want:    "500",
		},
		{
			name:    "10k at 5 percent for 30 days",
			balance: "10000",
			rate:    "5",
			days:    30,
			want:    "41.095890", // 10000 * 0.05 * 30/365
		},
		{
			name:    "zero balance accrues nothing",
			balance: "0",
			rate:    "5",
			days:    30,
			want:    "0",
		},
		{
			name:    "zero days accrues nothing",
			balance: "10000",
			rate:    "5",
			days:    0,
			want:    "0",
		},
		{
			name:    "negative days accrues nothing",
			balance: "10000",
			rate:    "5",
			days:    -7,
			want:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimpleInterest(
				decimal.RequireFromString(tt.balance),
				decimal.RequireFromString(tt.rate),
				tt.days,
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"SimpleInterest() = %s, want %s", got, tt.want)
		})
	}
}

func TestCompoundInterest(t *testing.T) {
	balance := decimal.RequireFromString("10000")
	rate := decimal.RequireFromString("5")

	t.Run("daily compounding beats simple accrual", func(t *testing.T) {
		simple := SimpleInterest(balance, rate, 30)
		compound := CompoundInterest(balance, rate, 30)
		require.True(t, compound.GreaterThan(simple),
			"compound %s should exceed simple %s over 30 days", compound, simple)
	})

	t.Run("one year is close to the nominal APY", func(t *testing.T) {
		// (1 + 0.05/365)^365 - 1 ≈ 5.1267% effective.
		got := CompoundInterest(balance, rate, 365)
		require.True(t, got.GreaterThan(decimal.RequireFromString("512")), "got %s", got)
		require.True(t, got.LessThan(decimal.RequireFromString("513")), "got %s", got)
	})

	t.Run("zero days accrues nothing", func(t *testing.T) {
		assert.True(t, CompoundInterest(balance, rate, 0).IsZero())
	})

	t.Run("single day matches simple accrual closely", func(t *testing.T) {
		simple := SimpleInterest(balance, rate, 1)
		compound := CompoundInterest(balance, rate, 1)
		diff := compound.Sub(simple).Abs()
		assert.True(t, diff.LessThan(decimal.RequireFromString("0.01")),
			"one-day difference %s should be under a cent", diff)
	})
}
