package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahollister/coinflow/internal/model"
)

// ErrAccountNotFound is returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// CreateAccount creates a new account and sets its ID.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := account.Validate(); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (name, kind, institution) VALUES (?, ?, ?)`,
		account.Name, string(account.Kind), account.Institution,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	account.ID = id
	slog.Info("created account", "id", id, "name", account.Name, "kind", account.Kind)
	return nil
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	account := &model.Account{}
	var kind string
	var institution sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, institution, created_at FROM accounts WHERE id = ?`, id,
	).Scan(&account.ID, &account.Name, &kind, &institution, &account.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}

	account.Kind = model.AccountKind(kind)
	account.Institution = institution.String
	return account, nil
}

// GetAccounts returns all accounts ordered by name.
func (s *SQLiteStorage) GetAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryAccounts(ctx,
		`SELECT id, name, kind, institution, created_at FROM accounts ORDER BY name`)
}

// GetAccountsByKind returns all accounts of the given kind.
func (s *SQLiteStorage) GetAccountsByKind(ctx context.Context, kind model.AccountKind) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryAccounts(ctx,
		`SELECT id, name, kind, institution, created_at FROM accounts WHERE kind = ? ORDER BY name`,
		string(kind))
}

// DeleteAccount removes an account.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *SQLiteStorage) queryAccounts(ctx context.Context, query string, args ...any) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var account model.Account
		var kind string
		var institution sql.NullString
		if err := rows.Scan(&account.ID, &account.Name, &kind, &institution, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.Kind = model.AccountKind(kind)
		account.Institution = institution.String
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
