package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ahollister/coinflow/internal/model"
)

// SaveSharedExpenses inserts imported expenses, skipping rows whose hash id
// already exists. Returns how many were new and how many were duplicates.
func (s *SQLiteStorage) SaveSharedExpenses(ctx context.Context, expenses []model.SharedExpense) (int, int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, 0, err
	}
	if len(expenses) == 0 {
		return 0, 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	imported, duplicates := 0, 0
	for i := range expenses {
		e := &expenses[i]
		if e.ID == "" {
			e.ID = e.GenerateID()
		}

		result, execErr := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO shared_expenses (id, user_id, group_id, date, description, amount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.UserID, e.GroupID, formatDate(e.Date), e.Description, e.Amount.String(),
		)
		if execErr != nil {
			return 0, 0, fmt.Errorf("failed to insert expense: %w", execErr)
		}

		rows, raErr := result.RowsAffected()
		if raErr != nil {
			return 0, 0, fmt.Errorf("failed to check rows affected: %w", raErr)
		}
		if rows == 0 {
			duplicates++
		} else {
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit expenses: %w", err)
	}
	return imported, duplicates, nil
}

// GetSharedExpenses returns a user's imported expenses within [from, to],
// ascending by date.
func (s *SQLiteStorage) GetSharedExpenses(ctx context.Context, userID string, from, to time.Time) ([]model.SharedExpense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, group_id, date, description, amount, imported_at
		FROM shared_expenses
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		userID, formatDate(from), formatDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query shared expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.SharedExpense
	for rows.Next() {
		var e model.SharedExpense
		var date, amount string
		if err := rows.Scan(&e.ID, &e.UserID, &e.GroupID, &date, &e.Description, &amount, &e.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shared expense: %w", err)
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if e.Amount, err = parseDecimal(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// GetPayoffSettings returns all stored payoff overrides.
func (s *SQLiteStorage) GetPayoffSettings(ctx context.Context) ([]model.PayoffSetting, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT account_id, monthly_payment, annual_rate FROM payoff_settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payoff settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var settings []model.PayoffSetting
	for rows.Next() {
		var setting model.PayoffSetting
		var payment, rate string
		if err := rows.Scan(&setting.AccountID, &payment, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan payoff setting: %w", err)
		}
		if setting.MonthlyPayment, err = parseDecimal(payment); err != nil {
			return nil, err
		}
		if setting.AnnualRate, err = parseDecimal(rate); err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

// SavePayoffSetting upserts the payoff override for an account.
func (s *SQLiteStorage) SavePayoffSetting(ctx context.Context, setting *model.PayoffSetting) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if setting == nil {
		return fmt.Errorf("%w: setting", ErrNilParameter)
	}
	if err := validateID(setting.AccountID, "accountID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payoff_settings (account_id, monthly_payment, annual_rate, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(account_id) DO UPDATE SET
			monthly_payment = excluded.monthly_payment,
			annual_rate = excluded.annual_rate,
			updated_at = CURRENT_TIMESTAMP`,
		setting.AccountID, setting.MonthlyPayment.String(), setting.AnnualRate.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save payoff setting: %w", err)
	}
	return nil
}
