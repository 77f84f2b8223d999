package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahollister/coinflow/internal/model"
)

func createTestAutoImport(t *testing.T, store *SQLiteStorage, name string, nextRun time.Time) *model.AutoImportSchedule {
	t.Helper()
	sched := &model.AutoImportSchedule{
		Name:      name,
		UserID:    "alice",
		GroupID:   "g1",
		MemberID:  "m1",
		Frequency: model.ImportDaily,
		NextRunAt: nextRun,
		IsActive:  true,
	}
	if err := store.CreateAutoImportSchedule(context.Background(), sched); err != nil {
		t.Fatalf("Failed to create auto-import %q: %v", name, err)
	}
	return sched
}

func TestAutoImportScheduleCRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	nextRun := time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC)

	t.Run("roundtrip", func(t *testing.T) {
		sched := createTestAutoImport(t, store, "groceries", nextRun)

		got, err := store.GetAutoImportSchedule(ctx, sched.ID)
		if err != nil {
			t.Fatalf("GetAutoImportSchedule failed: %v", err)
		}
		if got.Name != "groceries" || got.UserID != "alice" || got.GroupID != "g1" {
			t.Errorf("Got %+v", got)
		}
		if got.LastRunAt != nil || got.LastRunError != nil {
			t.Errorf("New schedule has run state: %+v", got)
		}
	})

	t.Run("save records a run outcome", func(t *testing.T) {
		sched := createTestAutoImport(t, store, "utilities", nextRun)

		ranAt := nextRun.Add(5 * time.Minute)
		errMsg := "rate limited"
		sched.LastRunAt = &ranAt
		sched.LastRunError = &errMsg
		sched.LastRunImportedCount = 0
		sched.NextRunAt = ranAt.AddDate(0, 0, 1)
		if err := store.SaveAutoImportSchedule(ctx, sched); err != nil {
			t.Fatalf("SaveAutoImportSchedule failed: %v", err)
		}

		got, err := store.GetAutoImportSchedule(ctx, sched.ID)
		if err != nil {
			t.Fatalf("GetAutoImportSchedule failed: %v", err)
		}
		if got.LastRunError == nil || *got.LastRunError != "rate limited" {
			t.Errorf("LastRunError = %v, want rate limited", got.LastRunError)
		}
		if got.LastRunAt == nil || !got.LastRunAt.Equal(ranAt) {
			t.Errorf("LastRunAt = %v, want %s", got.LastRunAt, ranAt)
		}

		// A later successful run clears the error.
		sched.LastRunError = nil
		sched.LastRunImportedCount = 7
		if err := store.SaveAutoImportSchedule(ctx, sched); err != nil {
			t.Fatalf("SaveAutoImportSchedule failed: %v", err)
		}
		got, err = store.GetAutoImportSchedule(ctx, sched.ID)
		if err != nil {
			t.Fatalf("GetAutoImportSchedule failed: %v", err)
		}
		if got.LastRunError != nil {
			t.Errorf("LastRunError = %v, want nil", got.LastRunError)
		}
		if got.LastRunImportedCount != 7 {
			t.Errorf("LastRunImportedCount = %d, want 7", got.LastRunImportedCount)
		}
	})

	t.Run("delete", func(t *testing.T) {
		sched := createTestAutoImport(t, store, "doomed", nextRun)
		if err := store.DeleteAutoImportSchedule(ctx, sched.ID); err != nil {
			t.Fatalf("DeleteAutoImportSchedule failed: %v", err)
		}
		if err := store.DeleteAutoImportSchedule(ctx, sched.ID); !errors.Is(err, ErrAutoImportScheduleNotFound) {
			t.Errorf("Second delete error = %v, want ErrAutoImportScheduleNotFound", err)
		}
	})
}

func TestFindDueAutoImports(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Date(2025, time.January, 20, 12, 0, 0, 0, time.UTC)

	due := createTestAutoImport(t, store, "due", now.Add(-time.Hour))
	createTestAutoImport(t, store, "future", now.Add(time.Hour))

	paused := createTestAutoImport(t, store, "paused", now.Add(-time.Hour))
	paused.IsActive = false
	if err := store.SaveAutoImportSchedule(ctx, paused); err != nil {
		t.Fatalf("SaveAutoImportSchedule failed: %v", err)
	}

	got, err := store.FindDueAutoImports(ctx, now)
	if err != nil {
		t.Fatalf("FindDueAutoImports failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Got %d due schedules, want 1", len(got))
	}
	if got[0].ID != due.ID {
		t.Errorf("Due schedule = %q, want %q", got[0].Name, due.Name)
	}
}
