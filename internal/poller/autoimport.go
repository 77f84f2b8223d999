package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/schedule"
	"github.com/ahollister/coinflow/internal/service"
)

// Default cadence of the auto-import loop. The longer grace delay keeps
// import traffic off the external service until the rest of startup is done.
const (
	defaultImportInterval = 15 * time.Minute
	defaultImportGrace    = 60 * time.Second
)

// AutoImportProcessor polls for due auto-import schedules and runs the
// external import workflow for each.
type AutoImportProcessor struct {
	store    service.AutoImportScheduleStore
	workflow service.ImportWorkflow
	now      func() time.Time
	interval time.Duration
	grace    time.Duration
}

// ImportOption customizes an AutoImportProcessor.
type ImportOption func(*AutoImportProcessor)

// WithImportInterval overrides the poll interval.
func WithImportInterval(d time.Duration) ImportOption {
	return func(p *AutoImportProcessor) { p.interval = d }
}

// WithImportGrace overrides the startup grace delay.
func WithImportGrace(d time.Duration) ImportOption {
	return func(p *AutoImportProcessor) { p.grace = d }
}

// WithImportClock overrides the clock, for tests.
func WithImportClock(now func() time.Time) ImportOption {
	return func(p *AutoImportProcessor) { p.now = now }
}

// NewAutoImportProcessor creates the auto-import poller.
func NewAutoImportProcessor(store service.AutoImportScheduleStore, workflow service.ImportWorkflow, opts ...ImportOption) *AutoImportProcessor {
	p := &AutoImportProcessor{
		store:    store,
		workflow: workflow,
		now:      time.Now,
		interval: defaultImportInterval,
		grace:    defaultImportGrace,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until the context is canceled, logging and retrying on
// loop-level errors.
func (p *AutoImportProcessor) Run(ctx context.Context) error {
	slog.Info("Starting auto-import processor",
		"interval", p.interval,
		"grace", p.grace)

	if err := sleep(ctx, p.grace); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := p.ProcessDue(ctx, p.now()); err != nil {
			slog.Error("Auto-import poll tick failed", "error", err)
		}

		if err := sleep(ctx, p.interval); err != nil {
			return err
		}
	}
}

// ProcessDue runs every import due as of now, sequentially. The configured
// gate is checked once per tick: when the external service is not set up,
// the whole batch is skipped without touching individual schedules. One
// schedule's failure never aborts the batch.
func (p *AutoImportProcessor) ProcessDue(ctx context.Context, now time.Time) error {
	if !p.workflow.IsConfigured() {
		slog.Debug("Import service not configured, skipping auto-import poll")
		return nil
	}

	due, err := p.store.FindDueAutoImports(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query due auto-imports: %w", err)
	}

	for i := range due {
		p.runOne(ctx, &due[i], now)
	}
	return nil
}

// runOne executes a single import. Success and failure both advance
// nextRunAt from the completion time by one full cadence: a failed run
// waits for the next occurrence rather than hot-looping against a broken
// external dependency, and late polling never accumulates drift.
func (p *AutoImportProcessor) runOne(ctx context.Context, sched *model.AutoImportSchedule, now time.Time) {
	runID := uuid.New().String()
	log := slog.With("run_id", runID, "schedule_id", sched.ID, "name", sched.Name)

	result, err := p.workflow.Run(ctx, service.ImportParams{
		Start:    p.windowStart(sched, now),
		End:      now,
		UserID:   sched.UserID,
		GroupID:  sched.GroupID,
		MemberID: sched.MemberID,
	})

	completed := p.now()
	sched.LastRunAt = &completed
	sched.NextRunAt = schedule.NextImportRun(sched.Frequency, completed)

	switch {
	case err != nil:
		msg := err.Error()
		sched.LastRunError = &msg
		log.Error("Auto-import run failed", "error", err)
	case !result.Success:
		msg := result.ErrorMessage
		sched.LastRunError = &msg
		log.Error("Auto-import run rejected", "reason", result.ErrorMessage)
	default:
		sched.LastRunError = nil
		sched.LastRunImportedCount = result.ImportedCount
		log.Info("Auto-import run complete",
			"imported", result.ImportedCount,
			"duplicates", result.DuplicatesFound,
			"next_run", sched.NextRunAt.Format(time.RFC3339))
	}

	if saveErr := p.store.SaveAutoImportSchedule(ctx, sched); saveErr != nil {
		// Nothing else to do here; the loop moves on to the next schedule.
		log.Error("Failed to persist auto-import outcome", "error", saveErr)
	}
}

// windowStart picks the fetch range start: the last completed run, or one
// cadence back when the schedule has never run.
func (p *AutoImportProcessor) windowStart(sched *model.AutoImportSchedule, now time.Time) time.Time {
	if sched.LastRunAt != nil {
		return *sched.LastRunAt
	}
	switch sched.Frequency {
	case model.ImportDaily:
		return now.AddDate(0, 0, -1)
	case model.ImportWeekly:
		return now.AddDate(0, 0, -7)
	case model.ImportMonthly:
		return now.AddDate(0, -1, 0)
	default:
		return now.AddDate(0, 0, -1)
	}
}
