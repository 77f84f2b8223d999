package sharing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahollister/coinflow/internal/common"
	"github.com/ahollister/coinflow/internal/model"
	"github.com/ahollister/coinflow/internal/service"
)

// expenseFetcher is the slice of the client the workflow needs.
type expenseFetcher interface {
	IsConfigured() bool
	GetGroupExpenses(ctx context.Context, groupID, memberID string, start, end time.Time) ([]model.SharedExpense, error)
}

// Workflow runs one import end to end: fetch from the sharing service,
// persist with dedupe, report counts. It implements service.ImportWorkflow.
type Workflow struct {
	client expenseFetcher
	store  service.ExpenseStore
}

// NewWorkflow wires a sharing client to expense storage.
func NewWorkflow(client *Client, store service.ExpenseStore) *Workflow {
	return &Workflow{client: client, store: store}
}

// IsConfigured reports whether the underlying client has credentials.
func (w *Workflow) IsConfigured() bool {
	return w.client.IsConfigured()
}

// Run fetches the member's share of group expenses for the date range and
// saves them. The fetch is retried on transient failures (connection
// errors, rate limits) before the run is reported as failed.
func (w *Workflow) Run(ctx context.Context, params service.ImportParams) (*service.ImportResult, error) {
	var expenses []model.SharedExpense
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		expenses, fetchErr = w.client.GetGroupExpenses(ctx, params.GroupID, params.MemberID, params.Start, params.End)
		if fetchErr != nil && !common.IsRetryable(fetchErr) {
			return &common.RetryableError{Err: fetchErr, Retryable: false}
		}
		return fetchErr
	}, service.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	for i := range expenses {
		expenses[i].UserID = params.UserID
		expenses[i].ID = expenses[i].GenerateID()
	}

	imported, duplicates, err := w.store.SaveSharedExpenses(ctx, expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to save expenses: %w", err)
	}

	slog.Debug("Import run saved expenses",
		"group_id", params.GroupID,
		"imported", imported,
		"duplicates", duplicates)

	return &service.ImportResult{
		Success:         true,
		ImportedCount:   imported,
		DuplicatesFound: duplicates,
	}, nil
}
