package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/model"
)

// SaveBalanceObservation upserts a balance for an (account, date) key.
// The series is append-only; writing the same key replaces the effective
// value rather than adding another timeline entry.
func (s *SQLiteStorage) SaveBalanceObservation(ctx context.Context, obs *model.BalanceObservation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if obs == nil {
		return fmt.Errorf("%w: observation", ErrNilParameter)
	}
	if err := validateID(obs.AccountID, "accountID"); err != nil {
		return err
	}
	if obs.Date.IsZero() {
		return fmt.Errorf("observation date is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balance_observations (account_id, date, balance)
		VALUES (?, ?, ?)
		ON CONFLICT(account_id, date) DO UPDATE SET balance = excluded.balance`,
		obs.AccountID, formatDate(obs.Date), obs.Balance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save balance observation: %w", err)
	}
	return nil
}

// CurrentBalance returns the account's most recently observed balance, or
// zero when the account has no history yet.
func (s *SQLiteStorage) CurrentBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return decimal.Zero, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT balance FROM balance_observations
		WHERE account_id = ?
		ORDER BY date DESC LIMIT 1`, accountID,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query current balance: %w", err)
	}
	return parseDecimal(raw)
}

// ApplyBalanceDelta adds amount to the account's current balance and
// records the result as the observation for the given date. The read and
// the write happen inside one transaction so two deltas never interleave.
func (s *SQLiteStorage) ApplyBalanceDelta(ctx context.Context, accountID int64, amount decimal.Decimal, date time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current := decimal.Zero
	var raw string
	err = tx.QueryRowContext(ctx, `
		SELECT balance FROM balance_observations
		WHERE account_id = ?
		ORDER BY date DESC LIMIT 1`, accountID,
	).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// First observation for this account.
	case err != nil:
		return fmt.Errorf("failed to read balance: %w", err)
	default:
		if current, err = parseDecimal(raw); err != nil {
			return err
		}
	}

	updated := current.Add(amount)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO balance_observations (account_id, date, balance)
		VALUES (?, ?, ?)
		ON CONFLICT(account_id, date) DO UPDATE SET balance = excluded.balance`,
		accountID, formatDate(date), updated.String(),
	); err != nil {
		return fmt.Errorf("failed to write balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit balance delta: %w", err)
	}
	return nil
}

// GetBalanceHistory returns an account's observations within [from, to],
// ascending by date.
func (s *SQLiteStorage) GetBalanceHistory(ctx context.Context, accountID int64, from, to time.Time) ([]model.BalanceObservation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(accountID, "accountID"); err != nil {
		return nil, err
	}
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.queryObservations(ctx, `
		SELECT account_id, date, balance FROM balance_observations
		WHERE account_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		accountID, formatDate(from), formatDate(to))
}

// GetAllBalanceObservations returns every account's observations within
// [from, to], ascending by date.
func (s *SQLiteStorage) GetAllBalanceObservations(ctx context.Context, from, to time.Time) ([]model.BalanceObservation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.queryObservations(ctx, `
		SELECT account_id, date, balance FROM balance_observations
		WHERE date >= ? AND date <= ?
		ORDER BY date`,
		formatDate(from), formatDate(to))
}

func (s *SQLiteStorage) queryObservations(ctx context.Context, query string, args ...any) ([]model.BalanceObservation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var observations []model.BalanceObservation
	for rows.Next() {
		var obs model.BalanceObservation
		var date, raw string
		if err := rows.Scan(&obs.AccountID, &date, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan balance observation: %w", err)
		}
		if obs.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if obs.Balance, err = parseDecimal(raw); err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}
