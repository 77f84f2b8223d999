package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/service"
)

// Projector combines stored history and schedules with the calculators to
// produce the forward-looking views consumed by the presentation layer.
// It holds no state beyond its dependencies and is safe for concurrent use.
type Projector struct {
	store service.Storage
	now   func() time.Time
}

// NewProjector creates a projection service over the given storage.
func NewProjector(store service.Storage) *Projector {
	return &Projector{store: store, now: time.Now}
}

// ProjectionOptions controls a net worth projection request.
type ProjectionOptions struct {
	GoalAmount       *decimal.Decimal
	UserID           string
	Months           int
	IncludeRecurring bool
}

// ComputeNetWorthProjection builds the historical net worth series from
// balance observations, derives the trend, and projects forward.
func (p *Projector) ComputeNetWorthProjection(ctx context.Context, opts ProjectionOptions) (*model.ProjectionResult, error) {
	now := p.now()
	from := now.AddDate(0, -trailingWindowMonths, 0)

	accounts, err := p.store.GetAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	observations, err := p.store.GetAllBalanceObservations(ctx, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance history: %w", err)
	}

	history := netWorthSeries(accounts, observations)

	schedules, err := p.store.GetActiveRecurringSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring schedules: %w", err)
	}

	expenses, err := p.monthlyExpenseTotals(ctx, opts.UserID, from, now)
	if err != nil {
		// Expense history only feeds the informational average; a missing
		// series should not block the projection.
		slog.Warn("Failed to load expense history for projection", "error", err)
	}

	result := ProjectNetWorth(ProjectionInput{
		Now:              now,
		GoalAmount:       opts.GoalAmount,
		History:          history,
		Schedules:        schedules,
		MonthlyExpenses:  expenses,
		Months:           opts.Months,
		IncludeRecurring: opts.IncludeRecurring,
	})
	return &result, nil
}

// ComputeLiabilityPayoff amortizes every liability account. Overrides take
// precedence over stored payoff settings; a liability with no configured
// payment falls back to the amount of a recurring payment schedule detected
// on that account, and its rate to an interest-bearing schedule's rate.
func (p *Projector) ComputeLiabilityPayoff(ctx context.Context, overrides []model.PayoffSetting) (*model.PayoffResult, error) {
	now := p.now()

	liabilities, err := p.store.GetAccountsByKind(ctx, model.AccountLiability)
	if err != nil {
		return nil, fmt.Errorf("failed to load liabilities: %w", err)
	}

	stored, err := p.store.GetPayoffSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payoff settings: %w", err)
	}

	settings := make(map[int64]model.PayoffSetting, len(stored)+len(overrides))
	for _, s := range stored {
		settings[s.AccountID] = s
	}
	for _, s := range overrides {
		settings[s.AccountID] = s
	}

	result := &model.PayoffResult{}
	for _, account := range liabilities {
		balance, balErr := p.store.CurrentBalance(ctx, account.ID)
		if balErr != nil {
			return nil, fmt.Errorf("failed to read balance for account %d: %w", account.ID, balErr)
		}

		payment, rate := settings[account.ID].MonthlyPayment, settings[account.ID].AnnualRate
		if payment.IsZero() || rate.IsZero() {
			detectedPayment, detectedRate, detErr := p.detectScheduleTerms(ctx, account.ID)
			if detErr != nil {
				return nil, detErr
			}
			if payment.IsZero() {
				payment = detectedPayment
			}
			if rate.IsZero() {
				rate = detectedRate
			}
		}

		payoff := AmortizeLiability(balance, payment, rate, now)
		payoff.AccountID = account.ID
		payoff.AccountName = account.Name
		result.Liabilities = append(result.Liabilities, payoff)
	}
	return result, nil
}

// detectScheduleTerms infers an implied monthly payment and rate from the
// account's recurring schedules: the largest fixed debit folded to its
// monthly equivalent, and the rate of an interest-bearing schedule.
func (p *Projector) detectScheduleTerms(ctx context.Context, accountID int64) (payment, rate decimal.Decimal, err error) {
	schedules, err := p.store.GetRecurringSchedulesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to load schedules for account %d: %w", accountID, err)
	}

	for _, s := range schedules {
		if !s.IsActive {
			continue
		}
		if s.IsInterest {
			if rate.IsZero() {
				rate = s.AnnualRate
			}
			continue
		}
		if s.Amount.IsNegative() {
			monthly := s.Amount.Neg().Mul(s.Frequency.MonthlyFactor())
			if monthly.GreaterThan(payment) {
				payment = monthly
			}
		}
	}
	return payment, rate, nil
}

// monthlyExpenseTotals buckets the user's imported expenses by month.
func (p *Projector) monthlyExpenseTotals(ctx context.Context, userID string, from, to time.Time) ([]decimal.Decimal, error) {
	if userID == "" {
		return nil, nil
	}
	expenses, err := p.store.GetSharedExpenses(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		key := e.Date.Format("2006-01")
		buckets[key] = buckets[key].Add(e.Amount)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	totals := make([]decimal.Decimal, 0, len(keys))
	for _, k := range keys {
		totals = append(totals, buckets[k])
	}
	return totals, nil
}

// netWorthSeries folds per-account observations into a monthly net worth
// series: for each observed month-end, every account contributes its most
// recent balance, signed by account kind.
func netWorthSeries(accounts []model.Account, observations []model.BalanceObservation) []model.ProjectionPoint {
	if len(observations) == 0 {
		return nil
	}

	kinds := make(map[int64]model.AccountKind, len(accounts))
	for _, a := range accounts {
		kinds[a.ID] = a.Kind
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})

	// Walk observations in date order, carrying each account's latest
	// balance forward, and emit one point per month that saw a change.
	latest := make(map[int64]decimal.Decimal)
	monthly := make(map[string]model.ProjectionPoint)
	var order []string

	for _, obs := range observations {
		latest[obs.AccountID] = obs.Balance

		total := decimal.Zero
		for id, bal := range latest {
			if kinds[id] == model.AccountLiability {
				total = total.Sub(bal)
			} else {
				total = total.Add(bal)
			}
		}

		key := obs.Date.Format("2006-01")
		if _, seen := monthly[key]; !seen {
			order = append(order, key)
		}
		monthly[key] = model.ProjectionPoint{Date: obs.Date, Value: total, IsHistorical: true}
	}

	points := make([]model.ProjectionPoint, 0, len(order))
	for _, key := range order {
		points = append(points, monthly[key])
	}
	return points
}
