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

// ErrAutoImportScheduleNotFound is returned when an auto-import schedule is not found.
var ErrAutoImportScheduleNotFound = errors.New("auto-import schedule not found")

const autoImportColumns = `id, name, user_id, group_id, member_id, frequency,
	next_run_at, last_run_at, last_run_imported_count, last_run_error, is_active`

// CreateAutoImportSchedule creates a new auto-import schedule and sets its ID.
func (s *SQLiteStorage) CreateAutoImportSchedule(ctx context.Context, sched *model.AutoImportSchedule) error {
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
		INSERT INTO auto_import_schedules (
			name, user_id, group_id, member_id, frequency,
			next_run_at, last_run_at, last_run_imported_count, last_run_error, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sched.Name, sched.UserID, sched.GroupID, sched.MemberID, string(sched.Frequency),
		sched.NextRunAt, sched.LastRunAt, sched.LastRunImportedCount, sched.LastRunError, sched.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create auto-import schedule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	sched.ID = id
	slog.Info("created auto-import schedule", "id", id, "name", sched.Name, "frequency", sched.Frequency)
	return nil
}

// GetAutoImportSchedule retrieves an auto-import schedule by ID.
func (s *SQLiteStorage) GetAutoImportSchedule(ctx context.Context, id int64) (*model.AutoImportSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+autoImportColumns+` FROM auto_import_schedules WHERE id = ?`, id)
	sched, err := scanAutoImportSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAutoImportScheduleNotFound
	}
	return sched, err
}

// GetAutoImportSchedules returns all auto-import schedules.
func (s *SQLiteStorage) GetAutoImportSchedules(ctx context.Context) ([]model.AutoImportSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryAutoImportSchedules(ctx,
		`SELECT `+autoImportColumns+` FROM auto_import_schedules ORDER BY next_run_at`)
}

// FindDueAutoImports returns active schedules whose next run time has arrived.
func (s *SQLiteStorage) FindDueAutoImports(ctx context.Context, asOf time.Time) ([]model.AutoImportSchedule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryAutoImportSchedules(ctx, `
		SELECT `+autoImportColumns+` FROM auto_import_schedules
		WHERE is_active = 1 AND next_run_at <= ?
		ORDER BY next_run_at`,
		asOf)
}

// SaveAutoImportSchedule persists changes to an existing schedule.
func (s *SQLiteStorage) SaveAutoImportSchedule(ctx context.Context, sched *model.AutoImportSchedule) error {
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
		UPDATE auto_import_schedules SET
			name = ?, user_id = ?, group_id = ?, member_id = ?, frequency = ?,
			next_run_at = ?, last_run_at = ?, last_run_imported_count = ?,
			last_run_error = ?, is_active = ?
		WHERE id = ?`,
		sched.Name, sched.UserID, sched.GroupID, sched.MemberID, string(sched.Frequency),
		sched.NextRunAt, sched.LastRunAt, sched.LastRunImportedCount, sched.LastRunError,
		sched.IsActive, sched.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save auto-import schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAutoImportScheduleNotFound
	}
	return nil
}

// DeleteAutoImportSchedule removes a schedule.
func (s *SQLiteStorage) DeleteAutoImportSchedule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM auto_import_schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete auto-import schedule: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAutoImportScheduleNotFound
	}
	return nil
}

func (s *SQLiteStorage) queryAutoImportSchedules(ctx context.Context, query string, args ...any) ([]model.AutoImportSchedule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query auto-import schedules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schedules []model.AutoImportSchedule
	for rows.Next() {
		sched, err := scanAutoImportSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *sched)
	}
	return schedules, rows.Err()
}

func scanAutoImportSchedule(row scanner) (*model.AutoImportSchedule, error) {
	sched := &model.AutoImportSchedule{}
	var frequency string
	var memberID, lastRunError sql.NullString
	var lastRunAt sql.NullTime

	err := row.Scan(
		&sched.ID, &sched.Name, &sched.UserID, &sched.GroupID, &memberID, &frequency,
		&sched.NextRunAt, &lastRunAt, &sched.LastRunImportedCount, &lastRunError, &sched.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan auto-import schedule: %w", err)
	}

	sched.Frequency = model.ImportFrequency(frequency)
	sched.MemberID = memberID.String
	if lastRunAt.Valid {
		t := lastRunAt.Time
		sched.LastRunAt = &t
	}
	if lastRunError.Valid {
		msg := lastRunError.String
		sched.LastRunError = &msg
	}
	return sched, nil
}
