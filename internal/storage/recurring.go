package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahollister/coinflow/internal/model"
)

// ErrRecurringScheduleNotFound is returned when a recurring schedule is not found.
var ErrRecurringScheduleNotFound = errors.New("recurring schedule not found")

const recurringColumns = `id, account_id, name, amount, is_interest, annual_rate, compounding,
	frequency, day_of_week, day_of_month, start_date, end_date, next_run_date, last_run_date, is_active`

// CreateRecurringSchedule creates a new recurring schedule and sets its ID.
func (s *SQLiteStorage) CreateRecurringSchedule(ctx context.Context, sched *model.RecurringSchedule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if sched == nil {
		return fmt.Errorf("%w: schedule", ErrNilParameter)
	}
	if err := sched.Validate(); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_schedules (
			account_id, name, amount, is_interest, annual_rate, compounding,
			frequency, day_of_week, day_of_month, start_date, end_date,
			next_run_date, last_run_date, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sched.AccountID, sched.Name, sched.Amount.String(), sched.IsInterest,
		sched.AnnualRate.String(), sched.Compounding, string(sched.Frequency),
		weekdayValue(sched.DayOfWeek), intValue(sched.DayOfMonth),
		formatDate(sched.StartDate), dateValue(sched.EndDate),
		formatDate(sched.NextRunDate), dateValue(sched.LastRunDate), sched.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create recurring schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	sched.ID = id
	slog.Info("created recurring schedule", "id", id, "name", sched.Name, "frequency", sched.Frequency)
	return nil
}

// GetRecurringSchedule retrieves a recurring schedule by ID.
func (s *SQLiteStorage) GetRecurringSchedule(ctx context.Context, id int64) (*model.RecurringSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+` FROM recurring_schedules WHERE id = ?`, id)
	sched, err := scanRecurringSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecurringScheduleNotFound
	}
	return sched, err
}

// GetRecurringSchedules returns all recurring schedules.
func (s *SQLiteStorage) GetRecurringSchedules(ctx context.Context) ([]model.RecurringSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRecurringSchedules(ctx,
		`SELECT `+recurringColumns+` FROM recurring_schedules ORDER BY next_run_date`)
}

// GetActiveRecurringSchedules returns all active recurring schedules.
func (s *SQLiteStorage) GetActiveRecurringSchedules(ctx context.Context) ([]model.RecurringSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRecurringSchedules(ctx,
		`SELECT `+recurringColumns+` FROM recurring_schedules WHERE is_active = 1 ORDER BY next_run_date`)
}

// GetRecurringSchedulesByAccount returns the schedules owned by an account.
func (s *SQLiteStorage) GetRecurringSchedulesByAccount(ctx context.Context, accountID int64) ([]model.RecurringSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return nil, err
	}
	return s.queryRecurringSchedules(ctx,
		`SELECT `+recurringColumns+` FROM recurring_schedules WHERE account_id = ? ORDER BY next_run_date`,
		accountID)
}

// FindDueRecurring returns active schedules due as of asOf: next run date
// has arrived and the end date, when set, has not passed.
func (s *SQLiteStorage) FindDueRecurring(ctx context.Context, asOf time.Time) ([]model.RecurringSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRecurringSchedules(ctx, `
		SELECT `+recurringColumns+` FROM recurring_schedules
		WHERE is_active = 1
		  AND next_run_date <= ?
		  AND (end_date IS NULL OR end_date >= ?)
		ORDER BY next_run_date`,
		formatDate(asOf), formatDate(asOf))
}

// SaveRecurringSchedule persists changes to an existing schedule.
func (s *SQLiteStorage) SaveRecurringSchedule(ctx context.Context, sched *model.RecurringSchedule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if sched == nil {
		return fmt.Errorf("%w: schedule", ErrNilParameter)
	}
	if err := validateID(sched.ID, "schedule.ID"); err != nil {
		return err
	}
	if err := sched.Validate(); err != nil {
		return fmt.Errorf("invalid schedule: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE recurring_schedules SET
			account_id = ?, name = ?, amount = ?, is_interest = ?, annual_rate = ?,
			compounding = ?, frequency = ?, day_of_week = ?, day_of_month = ?,
			start_date = ?, end_date = ?, next_run_date = ?, last_run_date = ?, is_active = ?
		WHERE id = ?`,
		sched.AccountID, sched.Name, sched.Amount.String(), sched.IsInterest,
		sched.AnnualRate.String(), sched.Compounding, string(sched.Frequency),
		weekdayValue(sched.DayOfWeek), intValue(sched.DayOfMonth),
		formatDate(sched.StartDate), dateValue(sched.EndDate),
		formatDate(sched.NextRunDate), dateValue(sched.LastRunDate), sched.IsActive,
		sched.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save recurring schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRecurringScheduleNotFound
	}
	return nil
}

// SetRecurringScheduleActive pauses or resumes a schedule. Paused schedules
// are skipped by the poller but remain editable.
func (s *SQLiteStorage) SetRecurringScheduleActive(ctx context.Context, id int64, active bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE recurring_schedules SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update recurring schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRecurringScheduleNotFound
	}
	return nil
}

// DeleteRecurringSchedule removes a schedule.
func (s *SQLiteStorage) DeleteRecurringSchedule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM recurring_schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRecurringScheduleNotFound
	}
	return nil
}

func (s *SQLiteStorage) queryRecurringSchedules(ctx context.Context, query string, args ...any) ([]model.RecurringSchedule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schedules []model.RecurringSchedule
	for rows.Next() {
		sched, err := scanRecurringSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *sched)
	}
	return schedules, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for the shared scan path.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecurringSchedule(row scanner) (*model.RecurringSchedule, error) {
	sched := &model.RecurringSchedule{}
	var amount, annualRate, frequency, startDate, nextRunDate string
	var dayOfWeek, dayOfMonth sql.NullInt64
	var endDate, lastRunDate sql.NullString

	err := row.Scan(
		&sched.ID, &sched.AccountID, &sched.Name, &amount, &sched.IsInterest,
		&annualRate, &sched.Compounding, &frequency, &dayOfWeek, &dayOfMonth,
		&startDate, &endDate, &nextRunDate, &lastRunDate, &sched.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan recurring schedule: %w", err)
	}

	if sched.Amount, err = parseDecimal(amount); err != nil {
		return nil, err
	}
	if sched.AnnualRate, err = parseDecimal(annualRate); err != nil {
		return nil, err
	}
	sched.Frequency = model.Frequency(frequency)

	if dayOfWeek.Valid {
		wd := time.Weekday(dayOfWeek.Int64)
		sched.DayOfWeek = &wd
	}
	if dayOfMonth.Valid {
		dom := int(dayOfMonth.Int64)
		sched.DayOfMonth = &dom
	}

	if sched.StartDate, err = parseDate(startDate); err != nil {
		return nil, err
	}
	if sched.NextRunDate, err = parseDate(nextRunDate); err != nil {
		return nil, err
	}
	if endDate.Valid {
		t, parseErr := parseDate(endDate.String)
		if parseErr != nil {
			return nil, parseErr
		}
		sched.EndDate = &t
	}
	if lastRunDate.Valid {
		t, parseErr := parseDate(lastRunDate.String)
		if parseErr != nil {
			return nil, parseErr
		}
		sched.LastRunDate = &t
	}
	return sched, nil
}

func weekdayValue(wd *time.Weekday) any {
	if wd == nil {
		return nil
	}
	return int(*wd)
}

func intValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func dateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}
