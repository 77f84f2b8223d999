// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahollister/coinflow/internal/model"
)

// AccountStore defines account persistence operations.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id int64) (*model.Account, error)
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetAccountsByKind(ctx context.Context, kind model.AccountKind) ([]model.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// BalanceMutator applies balance changes and reads current balances.
// The recurring transaction processor is its primary consumer.
type BalanceMutator interface {
	ApplyBalanceDelta(ctx context.Context, accountID int64, amount decimal.Decimal, date time.Time) error
	CurrentBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
}

// BalanceStore defines balance observation persistence operations.
type BalanceStore interface {
	BalanceMutator
	SaveBalanceObservation(ctx context.Context, obs *model.BalanceObservation) error
	GetBalanceHistory(ctx context.Context, accountID int64, from, to time.Time) ([]model.BalanceObservation, error)
	GetAllBalanceObservations(ctx context.Context, from, to time.Time) ([]model.BalanceObservation, error)
}

// RecurringScheduleStore defines recurring schedule persistence operations.
type RecurringScheduleStore interface {
	CreateRecurringSchedule(ctx context.Context, schedule *model.RecurringSchedule) error
	GetRecurringSchedule(ctx context.Context, id int64) (*model.RecurringSchedule, error)
	GetRecurringSchedules(ctx context.Context) ([]model.RecurringSchedule, error)
	GetActiveRecurringSchedules(ctx context.Context) ([]model.RecurringSchedule, error)
	GetRecurringSchedulesByAccount(ctx context.Context, accountID int64) ([]model.RecurringSchedule, error)
	FindDueRecurring(ctx context.Context, asOf time.Time) ([]model.RecurringSchedule, error)
	SaveRecurringSchedule(ctx context.Context, schedule *model.RecurringSchedule) error
	SetRecurringScheduleActive(ctx context.Context, id int64, active bool) error
	DeleteRecurringSchedule(ctx context.Context, id int64) error
}

// AutoImportScheduleStore defines auto-import schedule persistence operations.
type AutoImportScheduleStore interface {
	CreateAutoImportSchedule(ctx context.Context, schedule *model.AutoImportSchedule) error
	GetAutoImportSchedule(ctx context.Context, id int64) (*model.AutoImportSchedule, error)
	GetAutoImportSchedules(ctx context.Context) ([]model.AutoImportSchedule, error)
	FindDueAutoImports(ctx context.Context, asOf time.Time) ([]model.AutoImportSchedule, error)
	SaveAutoImportSchedule(ctx context.Context, schedule *model.AutoImportSchedule) error
	DeleteAutoImportSchedule(ctx context.Context, id int64) error
}

// ExpenseStore persists expenses produced by import runs.
type ExpenseStore interface {
	// SaveSharedExpenses inserts the given expenses and returns how many
	// were new and how many were duplicates of existing records.
	SaveSharedExpenses(ctx context.Context, expenses []model.SharedExpense) (imported, duplicates int, err error)
	GetSharedExpenses(ctx context.Context, userID string, from, to time.Time) ([]model.SharedExpense, error)
	GetPayoffSettings(ctx context.Context) ([]model.PayoffSetting, error)
	SavePayoffSetting(ctx context.Context, setting *model.PayoffSetting) error
}

// Storage is the full persistence contract implemented by the SQLite layer.
type Storage interface {
	AccountStore
	BalanceStore
	RecurringScheduleStore
	AutoImportScheduleStore
	ExpenseStore

	Migrate(ctx context.Context) error
	Close() error
}

// ImportParams identifies what an import run should fetch.
type ImportParams struct {
	Start    time.Time
	End      time.Time
	UserID   string
	GroupID  string
	MemberID string
}

// ImportResult reports the outcome of one import run.
type ImportResult struct {
	ErrorMessage    string
	ImportedCount   int
	DuplicatesFound int
	Success         bool
}

// ImportWorkflow is the external expense-import collaborator. IsConfigured
// is a process-wide gate: when false the auto-import poller skips the whole
// batch without touching individual schedules.
type ImportWorkflow interface {
	IsConfigured() bool
	Run(ctx context.Context, params ImportParams) (*ImportResult, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
