package sharing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahollister/coinflow/internal/common"
	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/service"
)

// fakeFetcher implements expenseFetcher with canned responses.
type fakeFetcher struct {
	err        error
	expenses   []model.SharedExpense
	calls      int
	configured bool
}

func (f *fakeFetcher) IsConfigured() bool { return f.configured }

func (f *fakeFetcher) GetGroupExpenses(_ context.Context, _, _ string, _, _ time.Time) ([]model.SharedExpense, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.expenses, nil
}

// fakeExpenseStore implements service.ExpenseStore in memory, deduping on ID.
type fakeExpenseStore struct {
	saved map[string]model.SharedExpense
}

func newFakeExpenseStore() *fakeExpenseStore {
	return &fakeExpenseStore{saved: make(map[string]model.SharedExpense)}
}

func (f *fakeExpenseStore) SaveSharedExpenses(_ context.Context, expenses []model.SharedExpense) (int, int, error) {
	imported, duplicates := 0, 0
	for _, e := range expenses {
		if _, ok := f.saved[e.ID]; ok {
			duplicates++
			continue
		}
		f.saved[e.ID] = e
		imported++
	}
	return imported, duplicates, nil
}

func (f *fakeExpenseStore) GetSharedExpenses(_ context.Context, _ string, _, _ time.Time) ([]model.SharedExpense, error) {
	return nil, nil
}

func (f *fakeExpenseStore) GetPayoffSettings(_ context.Context) ([]model.PayoffSetting, error) {
	return nil, nil
}

func (f *fakeExpenseStore) SavePayoffSetting(_ context.Context, _ *model.PayoffSetting) error {
	return nil
}

func testParams() service.ImportParams {
	return service.ImportParams{
		Start:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		UserID:   "alice",
		GroupID:  "42",
		MemberID: "7",
	}
}

func TestWorkflow_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("imports and attributes expenses to the user", func(t *testing.T) {
		fetched := model.SharedExpense{
			Date:        time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
			Description: "groceries",
			UserID:      "7", // the sharing service member, to be replaced
			GroupID:     "42",
			Amount:      decimal.RequireFromString("30.00"),
		}
		fetched.ID = fetched.GenerateID()

		fetcher := &fakeFetcher{configured: true, expenses: []model.SharedExpense{fetched}}
		store := newFakeExpenseStore()
		w := &Workflow{client: fetcher, store: store}

		result, err := w.Run(ctx, testParams())
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.ImportedCount)
		assert.Equal(t, 0, result.DuplicatesFound)

		require.Len(t, store.saved, 1)
		for _, saved := range store.saved {
			// The expense belongs to the local user, with the ID rehashed to
			// match.
			assert.Equal(t, "alice", saved.UserID)
			assert.Equal(t, saved.GenerateID(), saved.ID)
		}
	})

	t.Run("re-running the same window reports duplicates", func(t *testing.T) {
		fetched := model.SharedExpense{
			Date:        time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
			Description: "groceries",
			GroupID:     "42",
			Amount:      decimal.RequireFromString("30.00"),
		}

		fetcher := &fakeFetcher{configured: true, expenses: []model.SharedExpense{fetched}}
		store := newFakeExpenseStore()
		w := &Workflow{client: fetcher, store: store}

		_, err := w.Run(ctx, testParams())
		require.NoError(t, err)

		result, err := w.Run(ctx, testParams())
		require.NoError(t, err)
		assert.Equal(t, 0, result.ImportedCount)
		assert.Equal(t, 1, result.DuplicatesFound)
	})

	t.Run("non-retryable failures fail after one attempt", func(t *testing.T) {
		fetcher := &fakeFetcher{configured: true, err: errors.New("bad credentials")}
		w := &Workflow{client: fetcher, store: newFakeExpenseStore()}

		_, err := w.Run(ctx, testParams())
		require.Error(t, err)
		assert.Equal(t, 1, fetcher.calls)
	})

	t.Run("transient failures are retried", func(t *testing.T) {
		fetcher := &fakeFetcher{configured: true, err: common.ErrImportConnection}
		w := &Workflow{client: fetcher, store: newFakeExpenseStore()}

		_, err := w.Run(ctx, testParams())
		require.Error(t, err)
		assert.Equal(t, 3, fetcher.calls)
	})

	t.Run("configuration is delegated to the client", func(t *testing.T) {
		w := &Workflow{client: &fakeFetcher{configured: false}, store: newFakeExpenseStore()}
		assert.False(t, w.IsConfigured())
	})
}
