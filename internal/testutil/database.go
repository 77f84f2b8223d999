// Package testutil provides shared helpers for tests that need a real
// database: an in-memory migrated store plus seed helpers for accounts and
// balance history.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/service"
	"github.com/ahollister/coinflow/internal/storage"
)

// TestDB wraps an in-memory migrated store with seeding helpers.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory database, runs migrations, and
// registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedAccount creates an account and returns its ID.
func (db *TestDB) SeedAccount(name string, kind model.AccountKind) int64 {
	db.t.Helper()

	account := &model.Account{Name: name, Kind: kind}
	if err := db.Storage.CreateAccount(context.Background(), account); err != nil {
		db.t.Fatalf("failed to seed account %q: %v", name, err)
	}
	return account.ID
}

// SeedBalance records a balance observation for the account on the given
// date.
func (db *TestDB) SeedBalance(accountID int64, date time.Time, balance string) {
	db.t.Helper()

	obs := &model.BalanceObservation{
		AccountID: accountID,
		Date:      date,
		Balance:   decimal.RequireFromString(balance),
	}
	if err := db.Storage.SaveBalanceObservation(context.Background(), obs); err != nil {
		db.t.Fatalf("failed to seed balance for account %d: %v", accountID, err)
	}
}

// SeedMonthlyBalances records one observation per month, walking forward
// from start, one balance string per month.
func (db *TestDB) SeedMonthlyBalances(accountID int64, start time.Time, balances ...string) {
	db.t.Helper()

	for i, b := range balances {
		db.SeedBalance(accountID, start.AddDate(0, i, 0), b)
	}
}
