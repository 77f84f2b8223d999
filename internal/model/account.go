package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind indicates whether an account contributes positively or
// negatively to net worth.
type AccountKind string

const (
	// AccountAsset represents accounts that add to net worth (checking, savings, investments).
	AccountAsset AccountKind = "asset"
	// AccountLiability represents accounts that subtract from net worth (loans, credit cards).
	AccountLiability AccountKind = "liability"
)

// Account represents a tracked financial account.
type Account struct {
	CreatedAt   time.Time
	Name        string
	Institution string
	Kind        AccountKind
	ID          int64
}

// Validate checks that the account has the required fields.
func (a *Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("account name is required")
	}
	if a.Kind != AccountAsset && a.Kind != AccountLiability {
		return fmt.Errorf("invalid account kind: %q", a.Kind)
	}
	return nil
}

// BalanceObservation is a point-in-time balance for an account.
// The series is append-only; writing the same (account, date) key replaces
// the effective value rather than adding a new timeline entry.
type BalanceObservation struct {
	Date      time.Time
	Balance   decimal.Decimal
	AccountID int64
}

// PayoffSetting overrides the payment assumptions used when amortizing a
// liability. A zero MonthlyPayment means "detect from recurring schedules".
type PayoffSetting struct {
	MonthlyPayment decimal.Decimal
	AnnualRate     decimal.Decimal
	AccountID      int64
}
