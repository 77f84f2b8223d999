// Package poller implements the background loops that apply due recurring
// transactions and run scheduled auto-imports. Each loop runs on its own
// ticker, processes due items strictly sequentially, and isolates per-item
// failures so one broken schedule never blocks the batch.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/forecast"
	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/schedule"
	"github.com/ahollister/coinflow/internal/service"
)

// Default cadence of the recurring transaction loop. The startup grace
// delay lets storage migrations finish before the first tick.
const (
	defaultRecurringInterval = time.Hour
	defaultRecurringGrace    = 30 * time.Second
)

// ItemStatus classifies the outcome of processing one due schedule.
type ItemStatus string

const (
	// StatusApplied means the occurrence was applied and persisted.
	StatusApplied ItemStatus = "applied"
	// StatusFailed means the item errored; its next run date is untouched
	// so the next tick retries it.
	StatusFailed ItemStatus = "failed"
	// StatusSkipped means the item was due but must not run (past its end
	// date); nothing was changed.
	StatusSkipped ItemStatus = "skipped"
)

// ItemResult records what happened to a single due schedule.
type ItemResult struct {
	OccurrenceDate time.Time
	Name           string
	Reason         string
	AppliedAmount  decimal.Decimal
	ScheduleID     int64
	Status         ItemStatus
}

// BatchResult collects the per-item results of one poll tick.
type BatchResult struct {
	Results []ItemResult
}

// Applied returns how many items in the batch were applied.
func (b *BatchResult) Applied() int { return b.count(StatusApplied) }

// Failed returns how many items in the batch failed.
func (b *BatchResult) Failed() int { return b.count(StatusFailed) }

func (b *BatchResult) count(status ItemStatus) int {
	n := 0
	for _, r := range b.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// RecurringStore is the slice of storage the recurring processor needs.
type RecurringStore interface {
	service.RecurringScheduleStore
	service.BalanceMutator
}

// RecurringProcessor polls for due recurring schedules and applies them.
type RecurringProcessor struct {
	store    RecurringStore
	now      func() time.Time
	interval time.Duration
	grace    time.Duration
}

// RecurringOption customizes a RecurringProcessor.
type RecurringOption func(*RecurringProcessor)

// WithRecurringInterval overrides the poll interval.
func WithRecurringInterval(d time.Duration) RecurringOption {
	return func(p *RecurringProcessor) { p.interval = d }
}

// WithRecurringGrace overrides the startup grace delay.
func WithRecurringGrace(d time.Duration) RecurringOption {
	return func(p *RecurringProcessor) { p.grace = d }
}

// WithRecurringClock overrides the clock, for tests.
func WithRecurringClock(now func() time.Time) RecurringOption {
	return func(p *RecurringProcessor) { p.now = now }
}

// NewRecurringProcessor creates the hourly recurring transaction poller.
func NewRecurringProcessor(store RecurringStore, opts ...RecurringOption) *RecurringProcessor {
	p := &RecurringProcessor{
		store:    store,
		now:      time.Now,
		interval: defaultRecurringInterval,
		grace:    defaultRecurringGrace,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until the context is canceled. Loop-level errors are logged and
// the loop sleeps and retries; it never crashes the process. Cancellation
// is checked before each tick and interrupts the sleep, but in-flight items
// run to completion.
func (p *RecurringProcessor) Run(ctx context.Context) error {
	slog.Info("Starting recurring transaction processor",
		"interval", p.interval,
		"grace", p.grace)

	if err := sleep(ctx, p.grace); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		batch, err := p.ProcessDue(ctx, p.now())
		switch {
		case err != nil:
			slog.Error("Recurring poll tick failed", "error", err)
		case len(batch.Results) > 0:
			slog.Info("Recurring poll tick complete",
				"due", len(batch.Results),
				"applied", batch.Applied(),
				"failed", batch.Failed())
		}

		if err := sleep(ctx, p.interval); err != nil {
			return err
		}
	}
}

// ProcessDue applies every schedule due as of now and reports per-item
// outcomes. One item's failure never blocks the remaining items.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (*BatchResult, error) {
	due, err := p.store.FindDueRecurring(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due schedules: %w", err)
	}

	batch := &BatchResult{}
	for i := range due {
		batch.Results = append(batch.Results, p.processOne(ctx, &due[i]))
	}
	return batch, nil
}

// processOne applies a single due occurrence: compute the balance delta
// (fixed amount or accrued interest), apply it dated at the occurrence,
// then advance the schedule from its current next run date so a backlog of
// missed occurrences drains one per tick instead of being skipped.
func (p *RecurringProcessor) processOne(ctx context.Context, sched *model.RecurringSchedule) ItemResult {
	result := ItemResult{
		ScheduleID:     sched.ID,
		Name:           sched.Name,
		OccurrenceDate: sched.NextRunDate,
	}

	if sched.Expired() {
		result.Status = StatusSkipped
		result.Reason = "past end date"
		return result
	}

	amount, err := p.occurrenceAmount(ctx, sched)
	if err != nil {
		return p.fail(result, sched, err)
	}

	if err := p.store.ApplyBalanceDelta(ctx, sched.AccountID, amount, sched.NextRunDate); err != nil {
		return p.fail(result, sched, fmt.Errorf("failed to apply balance delta: %w", err))
	}

	occurrence := sched.NextRunDate
	sched.LastRunDate = &occurrence
	sched.NextRunDate = schedule.NextOccurrence(sched.Frequency, occurrence, sched.DayOfWeek, sched.DayOfMonth)

	if err := p.store.SaveRecurringSchedule(ctx, sched); err != nil {
		// The balance delta landed but the advance did not persist; the
		// schedule stays due and is retried next tick.
		return p.fail(result, sched, fmt.Errorf("failed to save schedule: %w", err))
	}

	result.Status = StatusApplied
	result.AppliedAmount = amount
	slog.Info("Applied recurring schedule",
		"schedule_id", sched.ID,
		"name", sched.Name,
		"amount", amount.StringFixed(2),
		"occurrence", occurrence.Format("2006-01-02"),
		"next_run", sched.NextRunDate.Format("2006-01-02"))
	return result
}

// occurrenceAmount computes the delta for one occurrence. Interest-bearing
// schedules accrue against the live balance over the days elapsed since the
// last run (or the start date when never run).
func (p *RecurringProcessor) occurrenceAmount(ctx context.Context, sched *model.RecurringSchedule) (decimal.Decimal, error) {
	if !sched.IsInterest {
		return sched.Amount, nil
	}

	balance, err := p.store.CurrentBalance(ctx, sched.AccountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}

	since := sched.StartDate
	if sched.LastRunDate != nil {
		since = *sched.LastRunDate
	}
	days := int(sched.NextRunDate.Sub(since).Hours() / 24)

	if sched.Compounding {
		return forecast.CompoundInterest(balance, sched.AnnualRate, days), nil
	}
	return forecast.SimpleInterest(balance, sched.AnnualRate, days), nil
}

// fail logs an item failure. There is no user-facing error field on
// recurring schedules; failures surface in the operational log only.
func (p *RecurringProcessor) fail(result ItemResult, sched *model.RecurringSchedule, err error) ItemResult {
	result.Status = StatusFailed
	result.Reason = err.Error()
	slog.Error("Failed to apply recurring schedule",
		"schedule_id", sched.ID,
		"name", sched.Name,
		"error", err)
	return result
}

// sleep blocks for d or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
